package booking

import "errors"

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrNotBookingOwner      = errors.New("booking belongs to a different patient")
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrInvalidCollection    = errors.New("collection type must be walkin or pickup")
	ErrPaymentNotVerifiable = errors.New("payment can only be verified from paid_unverified")
	ErrSignatureMismatch    = errors.New("payment signature verification failed")
)
