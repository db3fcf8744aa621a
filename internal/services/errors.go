package services

import (
	"errors"
)

var (
	// ErrNotFound is returned when an id does not resolve to a record.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials is returned on a failed email/password login.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
