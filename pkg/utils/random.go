package utils

import (
	"github.com/google/uuid"
)

// GenerateAuthToken generates a UUID string used as a bearer credential.
// Tokens are looked up by exact match and never rotate.
func GenerateAuthToken() string {
	return uuid.NewString()
}
