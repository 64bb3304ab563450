package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgtype"
)

// ErrNotFound is returned when a lookup matches nothing
var ErrNotFound = errors.New("not found")

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func nullTextToString(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}
