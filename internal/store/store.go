// Package store persists users and the course catalog.
package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an email is already registered.
	ErrDuplicate = errors.New("already exists")
)

// User is a registered account.
type User struct {
	ID           int
	Email        string
	PasswordHash string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
