// Package calendar implements the campus day convention: a day runs from
// 05:00:00 local time to 04:59:59 the next calendar day. All activity
// aggregation and reset scheduling buckets by campus day, not calendar day.
package calendar

import (
	"log"
	"time"
)

// BoundaryHour is the local hour at which a new campus day begins.
const BoundaryHour = 5

// CampusDate returns the campus day the given instant belongs to, as a
// midnight-normalized time in the instant's location. Instants strictly
// before 05:00 local belong to the previous calendar date.
func CampusDate(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if t.Hour() < BoundaryHour {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// CampusDateStart returns the first instant of the given campus day (05:00:00).
func CampusDateStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), BoundaryHour, 0, 0, 0, date.Location())
}

// CampusDateEnd returns the last whole second of the given campus day
// (04:59:59 on the following calendar date).
func CampusDateEnd(date time.Time) time.Time {
	next := date.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), BoundaryHour-1, 59, 59, 0, date.Location())
}

// ElapsedHours returns how many hours of the campus day containing t have
// passed, counting the in-progress hour. Used to turn a running post total
// into an hourly average. Never returns less than 1.
func ElapsedHours(t time.Time) int {
	h := int(t.Sub(CampusDateStart(CampusDate(t))).Hours()) + 1
	if h < 1 {
		h = 1
	}
	return h
}

// ParseCampusDate parses an ISO date (2006-01-02). Empty or unparsable input
// falls back to the campus date of now: callers pass user-supplied strings
// here and a bad date must degrade to "today", never produce an error.
func ParseCampusDate(s string, now time.Time) time.Time {
	if s == "" {
		return CampusDate(now)
	}
	d, err := time.ParseInLocation("2006-01-02", s, now.Location())
	if err != nil {
		log.Printf("INFO: invalid campus date %q, defaulting to current campus date: %v", s, err)
		return CampusDate(now)
	}
	return d
}
