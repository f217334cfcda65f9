package slot

import "errors"

var (
	ErrInvalidTime     = errors.New("start time must be HH:MM")
	ErrInvalidDuration = errors.New("duration must be between 1 and 8 hours")
	ErrInvalidPrice    = errors.New("price per hour must be a non-negative number")
	ErrInvalidDate     = errors.New("booking date must be YYYY-MM-DD")
	ErrDayUnavailable  = errors.New("listing is not available on that day")
	ErrOutsideHours    = errors.New("slot is outside opening hours")
)
