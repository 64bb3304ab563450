package services

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"elderguard/internal/domain/models"
)

func TestAlertBuilder_Report(t *testing.T) {
	b := NewAlertBuilder(nil)
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	got := b.Report(models.AlertRequest{
		Message:   "Your account is blocked",
		RiskLevel: models.RiskScam,
		URLs: []models.ReportedURL{
			{URL: "http://evil.test/x", IsSafe: false},
			{URL: "https://google.com", IsSafe: true},
		},
	}, at)

	want := "SCAM ALERT REPORT\n\n" +
		"Risk Level: Scam Detected\n" +
		"This message is highly likely to be a scam.\n\n" +
		"Message Content:\nYour account is blocked\n\n" +
		"Links Found (2):\n" +
		"• http://evil.test/x\n  Status: Unsafe\n" +
		"• https://google.com\n  Status: Safe\n\n" +
		"Time: 09/03/2024, 14:05:07\n\n" +
		"Please help me verify this message. I used ElderGuard to analyze it."

	if got != want {
		t.Errorf("Report() =\n%s\nwant\n%s", got, want)
	}
}

func TestAlertBuilder_ReportWithoutLinks(t *testing.T) {
	got := NewAlertBuilder(nil).Report(models.AlertRequest{Message: "hi", RiskLevel: models.RiskSafe}, time.Now())

	if strings.Contains(got, "Links Found") {
		t.Error("report lists links when none were given")
	}
	if !strings.Contains(got, "Risk Level: Message is Safe\nThis message appears to be legitimate.") {
		t.Errorf("unexpected report:\n%s", got)
	}
}

func TestAlertBuilder_Build(t *testing.T) {
	b := NewAlertBuilder(nil)
	u := &models.User{EmergencyContacts: []models.EmergencyContact{
		{Name: "Asha", Phone: "+91 98765-43210"},
		{Name: "Ravi", Phone: "+1 555 0100", WhatsApp: "+44 7700 900123"},
	}}
	req := models.AlertRequest{Message: "Pay now & win", RiskLevel: models.RiskLikelyScam}

	alert, err := b.Build(u, req, time.Now())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(alert.Contacts) != 2 {
		t.Fatalf("contacts = %d, want 2", len(alert.Contacts))
	}

	first := alert.Contacts[0]
	if !strings.HasPrefix(first.WhatsAppURL, "https://wa.me/+919876543210?text=") {
		t.Errorf("WhatsAppURL = %q", first.WhatsAppURL)
	}
	if first.CallURL != "tel:+91 98765-43210" {
		t.Errorf("CallURL = %q", first.CallURL)
	}
	if !strings.HasPrefix(alert.Contacts[1].WhatsAppURL, "https://wa.me/+447700900123?text=") {
		t.Errorf("WhatsApp number not preferred: %q", alert.Contacts[1].WhatsAppURL)
	}

	encoded := strings.SplitN(first.WhatsAppURL, "?text=", 2)[1]
	if strings.Contains(encoded, "+") {
		t.Errorf("spaces encoded as '+': %q", encoded)
	}
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		t.Fatalf("PathUnescape() error = %v", err)
	}
	if decoded != alert.Report {
		t.Errorf("decoded text differs from report")
	}
}

func TestAlertBuilder_NoContacts(t *testing.T) {
	b := NewAlertBuilder(nil)
	for _, u := range []*models.User{nil, {}} {
		if _, err := b.Build(u, models.AlertRequest{Message: "x", RiskLevel: models.RiskScam}, time.Now()); !errors.Is(err, ErrNoEmergencyContacts) {
			t.Errorf("Build() error = %v, want ErrNoEmergencyContacts", err)
		}
	}
}
