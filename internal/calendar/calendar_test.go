package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampusDate(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "late_evening_stays_same_day",
			in:   time.Date(2024, 8, 29, 23, 30, 0, 0, time.UTC),
			want: time.Date(2024, 8, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "small_hours_belong_to_previous_day",
			in:   time.Date(2024, 8, 30, 2, 30, 0, 0, time.UTC),
			want: time.Date(2024, 8, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "boundary_instant_starts_new_day",
			in:   time.Date(2024, 8, 30, 5, 0, 0, 0, time.UTC),
			want: time.Date(2024, 8, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "one_second_before_boundary",
			in:   time.Date(2024, 8, 30, 4, 59, 59, 0, time.UTC),
			want: time.Date(2024, 8, 29, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CampusDate(tt.in))
		})
	}
}

func TestCampusDateStartEnd(t *testing.T) {
	date := time.Date(2024, 8, 29, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 8, 29, 5, 0, 0, 0, time.UTC), CampusDateStart(date))
	assert.Equal(t, time.Date(2024, 8, 30, 4, 59, 59, 0, time.UTC), CampusDateEnd(date))
}

func TestParseCampusDateLeniency(t *testing.T) {
	now := time.Date(2024, 8, 30, 2, 30, 0, 0, time.UTC)
	current := CampusDate(now)

	// Bad inputs never error, they default to the current campus date.
	for _, s := range []string{"", "not-a-date", "2024-13-45"} {
		assert.Equal(t, current, ParseCampusDate(s, now), "input %q", s)
	}

	got := ParseCampusDate("2024-08-12", now)
	require.Equal(t, time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC), got)
}

func TestElapsedHours(t *testing.T) {
	// 05:10 is the first hour of the campus day, 23:30 the nineteenth.
	assert.Equal(t, 1, ElapsedHours(time.Date(2024, 8, 29, 5, 10, 0, 0, time.UTC)))
	assert.Equal(t, 19, ElapsedHours(time.Date(2024, 8, 29, 23, 30, 0, 0, time.UTC)))
	// 02:30 belongs to the previous campus day, 22 hours in.
	assert.Equal(t, 22, ElapsedHours(time.Date(2024, 8, 30, 2, 30, 0, 0, time.UTC)))
}
