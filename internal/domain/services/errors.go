package services

import (
	"errors"
	"fmt"
)

var (
	ErrReputationNotConfigured = errors.New("VirusTotal API key not configured")
	ErrUserNotFound            = errors.New("user not found")
	ErrNoEmergencyContacts     = errors.New("no emergency contacts configured")
	ErrReportsUnavailable      = errors.New("scam reports are not available")
)

// CollaboratorStatusError is returned when an external service answers with a non-2xx status
type CollaboratorStatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *CollaboratorStatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}
