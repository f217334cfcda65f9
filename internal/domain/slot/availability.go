package slot

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Weekdays in the order listings store them.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func IsWeekday(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range Weekdays {
		if d == s {
			return true
		}
	}
	return false
}

func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return d, nil
}

// CheckAvailability gates a slot against a listing's available days and
// opening hours. An empty day set or empty hours means unrestricted. When
// closing <= opening the venue is open overnight and slots may wrap midnight.
func CheckAvailability(date string, s Slot, availableDays []string, opening, closing string) error {
	d, err := ParseDate(date)
	if err != nil {
		return err
	}

	if len(availableDays) > 0 {
		day := strings.ToLower(d.Weekday().String())
		found := false
		for _, a := range availableDays {
			if strings.EqualFold(strings.TrimSpace(a), day) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrDayUnavailable, day)
		}
	}

	if opening == "" || closing == "" {
		return nil
	}
	open, err := Minutes(opening)
	if err != nil {
		return err
	}
	closeAt, err := Minutes(closing)
	if err != nil {
		return err
	}
	start, err := Minutes(s.Start)
	if err != nil {
		return err
	}
	length := s.Duration * 60

	switch {
	case open == closeAt:
		return nil
	case closeAt > open:
		if start < open || start+length > closeAt {
			return fmt.Errorf("%w: %s-%s not within %s-%s", ErrOutsideHours, s.Start, s.End, opening, closing)
		}
	default:
		// overnight window [open, closeAt+24h)
		if start < open {
			start += minutesPerDay
		}
		if start < open || start+length > closeAt+minutesPerDay {
			return fmt.Errorf("%w: %s-%s not within %s-%s", ErrOutsideHours, s.Start, s.End, opening, closing)
		}
	}
	return nil
}

// Overlaps reports whether two same-day slots share any minute. An end at or
// before the start is read as falling on the next day.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	as, ae := span(aStart, aEnd)
	bs, be := span(bStart, bEnd)
	return as < be && bs < ae
}

func span(start, end string) (int, int) {
	s, err := Minutes(start)
	if err != nil {
		return 0, 0
	}
	e, err := Minutes(end)
	if err != nil {
		return 0, 0
	}
	if e <= s {
		e += minutesPerDay
	}
	return s, e
}
