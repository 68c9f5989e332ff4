package identity

import "errors"

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAdminNotFound       = errors.New("admin not found")
	ErrEmailTaken          = errors.New("a patient with this email already exists")
	ErrPhoneTaken          = errors.New("a patient with this phone number already exists")
	ErrOtpNotFound         = errors.New("no verification request found")
	ErrOtpExpired          = errors.New("verification code has expired")
	ErrOtpInvalid          = errors.New("incorrect verification code")
	ErrOtpAttemptsExceeded = errors.New("too many incorrect attempts, request a new code")
)
