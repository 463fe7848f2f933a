package uid

import "github.com/google/uuid"

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}

// UUID generates time-ordered UUID strings, used as token identifiers (jti).
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString() // fallback: uuidV4
	}
	return id.String()
}
