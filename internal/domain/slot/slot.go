package slot

import (
	"fmt"
	"math"
	"strconv"

	"bookeasy/internal/pkg/validator"
)

const (
	MinDuration = 1
	MaxDuration = 8

	minutesPerDay = 24 * 60
)

// Slot is a validated reservation window on a single booking date.
// CrossesMidnight is set when End lands on the next calendar day.
type Slot struct {
	Start           string  `json:"start_time"`
	End             string  `json:"end_time"`
	Duration        int     `json:"duration"`
	Price           float64 `json:"total_price"`
	CrossesMidnight bool    `json:"crosses_midnight"`
}

func ValidateStartTime(start string) error {
	if !validator.IsClock(start) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, start)
	}
	return nil
}

func ValidateDuration(d int) error {
	if d < MinDuration || d > MaxDuration {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, d)
	}
	return nil
}

// ComputeEndTime adds d whole hours to start on a 24 hour clock.
func ComputeEndTime(start string, d int) (string, error) {
	if err := ValidateStartTime(start); err != nil {
		return "", err
	}
	if err := ValidateDuration(d); err != nil {
		return "", err
	}
	m := mustMinutes(start) + d*60
	return formatMinutes(m % minutesPerDay), nil
}

// TotalPrice is d times the hourly price, rounded to cents.
func TotalPrice(d int, pricePerHour float64) (float64, error) {
	if err := ValidateDuration(d); err != nil {
		return 0, err
	}
	if pricePerHour < 0 || math.IsNaN(pricePerHour) || math.IsInf(pricePerHour, 0) {
		return 0, fmt.Errorf("%w: price %v", ErrInvalidPrice, pricePerHour)
	}
	return math.Round(float64(d)*pricePerHour*100) / 100, nil
}

func Compute(start string, d int, pricePerHour float64) (Slot, error) {
	end, err := ComputeEndTime(start, d)
	if err != nil {
		return Slot{}, err
	}
	total, err := TotalPrice(d, pricePerHour)
	if err != nil {
		return Slot{}, err
	}
	return Slot{
		Start:           start,
		End:             end,
		Duration:        d,
		Price:           total,
		CrossesMidnight: mustMinutes(start)+d*60 >= minutesPerDay,
	}, nil
}

// Minutes converts a valid HH:MM into minutes since midnight.
func Minutes(hhmm string) (int, error) {
	if err := ValidateStartTime(hhmm); err != nil {
		return 0, err
	}
	return mustMinutes(hhmm), nil
}

func mustMinutes(hhmm string) int {
	h, _ := strconv.Atoi(hhmm[:2])
	m, _ := strconv.Atoi(hhmm[3:])
	return h*60 + m
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
