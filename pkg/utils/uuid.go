package utils

import "github.com/google/uuid"

// NewID generates a fresh id for questions and attempts.
func NewID() string {
	return uuid.NewString()
}

// IsUUID checks if the string is a valid UUID
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
