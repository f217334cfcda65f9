package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookeasy/internal/pkg/validator"
)

func TestComputeEndTime(t *testing.T) {
	tests := []struct {
		start string
		d     int
		want  string
	}{
		{"09:00", 3, "12:00"},
		{"23:00", 2, "01:00"},
		{"00:00", 8, "08:00"},
		{"16:30", 8, "00:30"},
		{"23:59", 1, "00:59"},
		{"12:15", 1, "13:15"},
	}
	for _, tc := range tests {
		got, err := ComputeEndTime(tc.start, tc.d)
		require.NoError(t, err, "%s+%d", tc.start, tc.d)
		assert.Equal(t, tc.want, got, "%s+%d", tc.start, tc.d)
	}
}

func TestComputeEndTime_Invalid(t *testing.T) {
	for _, start := range []string{"25:61", "24:00", "9:00", "09:60", "", "0900", "09:00 "} {
		_, err := ComputeEndTime(start, 2)
		assert.ErrorIs(t, err, ErrInvalidTime, start)
	}
	for _, d := range []int{0, -1, 9, 24} {
		_, err := ComputeEndTime("09:00", d)
		assert.ErrorIs(t, err, ErrInvalidDuration, "d=%d", d)
	}
}

func TestTotalPrice(t *testing.T) {
	got, err := TotalPrice(3, 20)
	require.NoError(t, err)
	assert.Equal(t, 60.0, got)

	got, err = TotalPrice(3, 33.335)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 0.011)

	_, err = TotalPrice(0, 20)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = TotalPrice(2, -1)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestCompute(t *testing.T) {
	s, err := Compute("09:00", 3, 20)
	require.NoError(t, err)
	assert.Equal(t, Slot{Start: "09:00", End: "12:00", Duration: 3, Price: 60}, s)

	s, err = Compute("23:00", 2, 15)
	require.NoError(t, err)
	assert.Equal(t, "01:00", s.End)
	assert.True(t, s.CrossesMidnight)
	assert.Equal(t, 30.0, s.Price)
}

func TestDurationBounds(t *testing.T) {
	for d := -2; d <= 10; d++ {
		err := ValidateDuration(d)
		if d >= MinDuration && d <= MaxDuration {
			assert.NoError(t, err, "d=%d", d)
		} else {
			assert.ErrorIs(t, err, ErrInvalidDuration, "d=%d", d)
		}
	}
}

func TestCheckAvailability(t *testing.T) {
	weekdays := []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
	morning, _ := Compute("09:00", 3, 10)
	late, _ := Compute("20:00", 3, 10)
	wrap, _ := Compute("23:00", 2, 10)
	early, _ := Compute("01:00", 2, 10)

	tests := []struct {
		name    string
		date    string
		slot    Slot
		days    []string
		open    string
		close   string
		wantErr error
	}{
		{"monday within hours", "2026-10-19", morning, weekdays, "08:00", "22:00", nil},
		{"saturday not offered", "2026-10-24", morning, weekdays, "08:00", "22:00", ErrDayUnavailable},
		{"day match ignores case", "2026-10-24", morning, []string{"Saturday"}, "", "", nil},
		{"no day restriction", "2026-10-24", morning, nil, "08:00", "22:00", nil},
		{"runs past closing", "2026-10-19", late, nil, "08:00", "22:00", ErrOutsideHours},
		{"starts before opening", "2026-10-19", morning, nil, "10:00", "22:00", ErrOutsideHours},
		{"ends exactly at closing", "2026-10-19", late, nil, "08:00", "23:00", nil},
		{"wrap on overnight venue", "2026-10-19", wrap, nil, "18:00", "02:00", nil},
		{"after midnight on overnight venue", "2026-10-19", early, nil, "18:00", "04:00", nil},
		{"past overnight closing", "2026-10-19", early, nil, "18:00", "02:00", ErrOutsideHours},
		{"wrap on daytime venue", "2026-10-19", wrap, nil, "08:00", "23:30", ErrOutsideHours},
		{"open around the clock", "2026-10-19", wrap, nil, "00:00", "00:00", nil},
		{"bad date", "19-10-2026", morning, nil, "", "", ErrInvalidDate},
		{"impossible date", "2026-02-30", morning, nil, "", "", ErrInvalidDate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckAvailability(tc.date, tc.slot, tc.days, tc.open, tc.close)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps("09:00", "12:00", "11:00", "13:00"))
	assert.False(t, Overlaps("09:00", "12:00", "12:00", "13:00"))
	assert.True(t, Overlaps("22:00", "01:00", "23:00", "23:30"))
	assert.False(t, Overlaps("08:00", "09:00", "22:00", "01:00"))
}

func TestValidateStartTime_MatchesRequestValidation(t *testing.T) {
	cases := map[string]bool{
		"00:00": true,
		"09:30": true,
		"23:59": true,
		"24:00": false,
		"9:30":  false,
		"12:60": false,
		"12-30": false,
		"":      false,
	}
	for in, valid := range cases {
		err := ValidateStartTime(in)
		assert.Equal(t, valid, err == nil, in)
		assert.Equal(t, validator.IsClock(in), err == nil, in)
		if !valid {
			assert.ErrorIs(t, err, ErrInvalidTime, in)
		}
	}
}
