package booking

import "errors"

var (
	// ErrSlotTaken means another checkout holds the (date, timeSlot) pair.
	// User-correctable: pick another time.
	ErrSlotTaken = errors.New("this time slot has just been taken, please pick another time")

	// ErrDuplicateReference means a pending booking already exists for the
	// reference. References are caller-generated and globally unique, so
	// this indicates a caller bug, not user input.
	ErrDuplicateReference = errors.New("a pending booking already exists for this reference")

	// ErrNotFound means no pending booking (or reservation) exists for the
	// reference.
	ErrNotFound = errors.New("no booking was found for this reference")

	// ErrPaymentNotVerified means the gateway did not report the payment as
	// successful. Transient: confirmation is safe to retry.
	ErrPaymentNotVerified = errors.New("the payment could not be verified, please try again")
)
