package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"elderguard/internal/domain/models"
)

var nonDialable = regexp.MustCompile(`[^0-9+]`)

type riskText struct {
	title       string
	description string
}

var riskTexts = map[models.RiskLevel]riskText{
	models.RiskSafe:       {"Message is Safe", "This message appears to be legitimate."},
	models.RiskLikelyScam: {"Likely Scam", "This message shows suspicious signs. Be cautious."},
	models.RiskScam:       {"Scam Detected", "This message is highly likely to be a scam."},
}

// AlertBuilder renders the message users send to their emergency contacts
type AlertBuilder struct {
	location *time.Location
}

// NewAlertBuilder creates a builder formatting times in loc (UTC when nil)
func NewAlertBuilder(loc *time.Location) *AlertBuilder {
	if loc == nil {
		loc = time.UTC
	}
	return &AlertBuilder{location: loc}
}

// Build returns WhatsApp and call links for every contact of u
func (b *AlertBuilder) Build(u *models.User, req models.AlertRequest, at time.Time) (*models.EmergencyAlert, error) {
	if u == nil || len(u.EmergencyContacts) == 0 {
		return nil, ErrNoEmergencyContacts
	}

	report := b.Report(req, at)
	encoded := strings.ReplaceAll(url.QueryEscape(report), "+", "%20")

	alert := &models.EmergencyAlert{
		Report:   report,
		Contacts: make([]models.ContactAlert, 0, len(u.EmergencyContacts)),
	}
	for _, c := range u.EmergencyContacts {
		chat := c.WhatsApp
		if chat == "" {
			chat = c.Phone
		}
		alert.Contacts = append(alert.Contacts, models.ContactAlert{
			Name:        c.Name,
			Phone:       c.Phone,
			WhatsAppURL: "https://wa.me/" + nonDialable.ReplaceAllString(chat, "") + "?text=" + encoded,
			CallURL:     "tel:" + c.Phone,
		})
	}

	return alert, nil
}

// Report renders the plain-text alert body
func (b *AlertBuilder) Report(req models.AlertRequest, at time.Time) string {
	text, ok := riskTexts[req.RiskLevel]
	if !ok {
		text = riskTexts[models.RiskLikelyScam]
	}

	var sb strings.Builder
	sb.WriteString("SCAM ALERT REPORT\n\n")
	fmt.Fprintf(&sb, "Risk Level: %s\n", text.title)
	fmt.Fprintf(&sb, "%s\n\n", text.description)
	fmt.Fprintf(&sb, "Message Content:\n%s\n\n", req.Message)

	if len(req.URLs) > 0 {
		fmt.Fprintf(&sb, "Links Found (%d):\n", len(req.URLs))
		for _, l := range req.URLs {
			status := "Unsafe"
			if l.IsSafe {
				status = "Safe"
			}
			fmt.Fprintf(&sb, "• %s\n  Status: %s\n", l.URL, status)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Time: %s\n", at.In(b.location).Format("02/01/2006, 15:04:05"))
	sb.WriteString("\nPlease help me verify this message. I used ElderGuard to analyze it.")

	return sb.String()
}
