package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmergencyContact is someone alerted when a user receives a suspicious message
type EmergencyContact struct {
	Name      string    `bson:"name" json:"name" validate:"required"`
	Phone     string    `bson:"phone" json:"phone" validate:"required"`
	WhatsApp  string    `bson:"whatsapp,omitempty" json:"whatsapp,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// User is the stored profile, keyed by email
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email             string             `bson:"email" json:"email"`
	Name              string             `bson:"name" json:"name"`
	Image             string             `bson:"image,omitempty" json:"image,omitempty"`
	Age               *int               `bson:"age,omitempty" json:"age,omitempty"`
	Address           string             `bson:"address,omitempty" json:"address,omitempty"`
	EmergencyContacts []EmergencyContact `bson:"emergencyContacts" json:"emergencyContacts"`
	ProfileComplete   bool               `bson:"profileComplete" json:"profileComplete"`
	GoogleID          string             `bson:"googleId,omitempty" json:"googleId,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Identity is the signed-in caller as asserted by the session token
type Identity struct {
	Email    string
	Name     string
	Image    string
	GoogleID string
}

// ProfileUpdate carries the editable profile fields.
// The flat EmergencyContact* fields are accepted from older clients.
type ProfileUpdate struct {
	Name                     string             `json:"name"`
	Age                      *int               `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Address                  string             `json:"address"`
	EmergencyContacts        []EmergencyContact `json:"emergencyContacts,omitempty" validate:"omitempty,dive"`
	EmergencyContactName     string             `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone    string             `json:"emergencyContactPhone,omitempty"`
	EmergencyContactWhatsapp string             `json:"emergencyContactWhatsapp,omitempty"`
}

// Contacts returns the contact list, falling back to the flat fields
func (u ProfileUpdate) Contacts(now time.Time) []EmergencyContact {
	if u.EmergencyContacts != nil {
		out := make([]EmergencyContact, 0, len(u.EmergencyContacts))
		for _, c := range u.EmergencyContacts {
			if c.CreatedAt.IsZero() {
				c.CreatedAt = now
			}
			out = append(out, c)
		}
		return out
	}
	if u.EmergencyContactName != "" || u.EmergencyContactPhone != "" {
		return []EmergencyContact{{
			Name:      u.EmergencyContactName,
			Phone:     u.EmergencyContactPhone,
			WhatsApp:  u.EmergencyContactWhatsapp,
			CreatedAt: now,
		}}
	}
	return []EmergencyContact{}
}
