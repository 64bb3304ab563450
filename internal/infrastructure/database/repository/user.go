package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"elderguard/internal/domain/models"
)

// UserRepository handles profile persistence in MongoDB
type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository creates a repository over the users collection
func NewUserRepository(col *mongo.Collection) *UserRepository {
	return &UserRepository{col: col}
}

// FindByEmail returns the user or ErrNotFound
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

// EnsureUser creates the user on first sign-in and returns the stored document.
// Existing profiles are left untouched.
func (r *UserRepository) EnsureUser(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"email":             u.Email,
			"name":              u.Name,
			"image":             u.Image,
			"googleId":          u.GoogleID,
			"emergencyContacts": []models.EmergencyContact{},
			"profileComplete":   false,
			"createdAt":         now,
			"updatedAt":         now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"email": u.Email}, update, opts).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &stored, nil
}

// UpdateProfile applies the non-empty fields and marks the profile complete
func (r *UserRepository) UpdateProfile(ctx context.Context, email string, p models.ProfileUpdate, contacts []models.EmergencyContact) (*models.User, error) {
	set := bson.M{
		"emergencyContacts": contacts,
		"profileComplete":   true,
		"updatedAt":         time.Now().UTC(),
	}
	if p.Name != "" {
		set["name"] = p.Name
	}
	if p.Age != nil {
		set["age"] = *p.Age
	}
	if p.Address != "" {
		set["address"] = p.Address
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var stored models.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$set": set}, opts).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &stored, nil
}
