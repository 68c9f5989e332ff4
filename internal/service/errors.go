package service

import (
	"errors"
	"strings"
)

var (
	ErrForbidden          = errors.New("forbidden: insufficient permissions")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNoPasswordSet is distinct from ErrInvalidCredentials: the account
	// exists but only ever signed in through the external provider, so the
	// caller should be told to use that flow or set a password first.
	ErrNoPasswordSet = errors.New("no password set for this account")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// EmailNotVerifiedError carries the unverified address so the caller can
// offer a resend without another lookup.
type EmailNotVerifiedError struct {
	Contact string
}

func (e *EmailNotVerifiedError) Error() string {
	return "email address is not verified: " + e.Contact
}
