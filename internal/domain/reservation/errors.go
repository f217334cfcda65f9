package reservation

import "errors"

var (
	ErrNotFound                = errors.New("reservation not found")
	ErrValidation              = errors.New("invalid reservation")
	ErrListingNotFound         = errors.New("listing not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrSlotTaken               = errors.New("time slot already booked")
)
