package climate

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when no reading or daily record exists
// for the requested key or range.
var ErrNotFound = errors.New("no climate data")

// HourlySignal is the raw activity signal for one elapsed hour, supplied by
// the upstream post/emotion aggregator.
type HourlySignal struct {
	PostCount    int     `json:"postCount"`
	EmotionDelta float64 `json:"emotionDelta"`
}

// SignalSource abstracts the upstream aggregator. Implementations may fail or
// time out; the engine degrades to a recovery-only tick when they do.
type SignalSource interface {
	Name() string
	SignalForHour(ctx context.Context, hour int, campusDate time.Time) (HourlySignal, error)
}

// Store is the contract both the in-memory store and the sqlite store satisfy.
// Readings are an append-only series; daily records are upserted by campus
// date. SaveTick persists both sides of a tick atomically.
type Store interface {
	AppendReading(r Reading) error
	LatestReading() (Reading, error)
	ReadingsBetween(from, to time.Time) ([]Reading, error)
	PruneReadingsBefore(cutoff time.Time) (int, error)

	DailyRecord(date time.Time) (DailyRecord, error)
	UpsertDaily(rec DailyRecord) error
	RecentDaily(since time.Time) ([]DailyRecord, error)

	SaveTick(r Reading, rec DailyRecord) error
}
