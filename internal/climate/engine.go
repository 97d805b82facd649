package climate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/campuslife/campus-climate/internal/calendar"
)

// Normalizer converts the actual hourly post count and the rolling baseline
// expectation into a signed raw delta. Positive means above-baseline activity
// (temperature rises before scaling), negative means below-baseline.
type Normalizer func(actual, expected float64) float64

// DefaultNormalizer maps relative deviation from the baseline to a signed
// magnitude: activity at twice the expected hourly rate yields +10, a fully
// silent hour yields -10. With no usable baseline it stays neutral so a fresh
// deployment neither amplifies nor damps.
func DefaultNormalizer(actual, expected float64) float64 {
	if expected <= 0 {
		return 0
	}
	delta := (actual - expected) / expected * 10
	// Cap the relative swing so one viral hour cannot saturate the scale
	// before the per-hour multipliers even apply.
	if delta > 50 {
		delta = 50
	}
	if delta < -50 {
		delta = -50
	}
	return delta
}

// EngineConfig tunes the analysis engine. Zero values fall back to defaults.
type EngineConfig struct {
	// BaselineDays is the rolling window of campus days used for
	// normalization. Default 7.
	BaselineDays int
	// Retention prunes readings older than this during the daily reset.
	// Zero disables pruning.
	Retention time.Duration
	// Normalize overrides DefaultNormalizer.
	Normalize Normalizer
	// LabelThresholds overrides DefaultLabelThresholds.
	LabelThresholds []LabelThreshold
}

// Engine computes one temperature reading per scheduled tick. It owns the
// only mutable shared state in the system: the latest persisted reading and
// the active campus day's DailyRecord, both updated only from within a tick.
type Engine struct {
	table      *GuidelineTable
	store      Store
	signals    SignalSource
	baseline   BaselineSource
	normalize  Normalizer
	thresholds []LabelThreshold

	baselineDays int
	retention    time.Duration

	mu        sync.Mutex
	lastReset time.Time // campus date of the last completed reset
}

// NewEngine wires the engine. A nil baseline defaults to a store-backed one.
func NewEngine(table *GuidelineTable, store Store, signals SignalSource, baseline BaselineSource, cfg EngineConfig) *Engine {
	if baseline == nil {
		baseline = NewStoreBaseline(store)
	}
	if cfg.Normalize == nil {
		cfg.Normalize = DefaultNormalizer
	}
	if cfg.LabelThresholds == nil {
		cfg.LabelThresholds = DefaultLabelThresholds()
	}
	if cfg.BaselineDays <= 0 {
		cfg.BaselineDays = 7
	}
	return &Engine{
		table:        table,
		store:        store,
		signals:      signals,
		baseline:     baseline,
		normalize:    cfg.Normalize,
		thresholds:   cfg.LabelThresholds,
		baselineDays: cfg.BaselineDays,
		retention:    cfg.Retention,
	}
}

// RunTick executes one hourly analysis pass for the instant now: fetch the
// elapsed hour's signal, normalize against the rolling baseline, apply the
// hour's asymmetric multipliers and natural recovery, clamp, and persist the
// reading together with the updated daily record in one atomic write.
//
// A signal-source failure degrades the tick to recovery-only and is logged,
// never returned: the hourly cadence must not stall on a slow upstream. A
// store failure fails the whole tick; the next tick recomputes from the last
// successfully persisted reading.
func (e *Engine) RunTick(ctx context.Context, now time.Time) (Reading, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	hour := now.Hour()
	g := e.table.Guideline(hour)
	recovery := e.table.NaturalRecoveryRate(hour)

	prev := e.table.Guideline(0).MinTemp // dawn-band floor seeds the first tick
	last, err := e.store.LatestReading()
	switch {
	case err == nil:
		prev = last.Temperature
	case !errors.Is(err, ErrNotFound):
		return Reading{}, fmt.Errorf("read previous temperature: %w", err)
	}

	// The tick at minute 0 evaluates the hour that just finished.
	elapsed := now.Add(-time.Hour)

	var raw float64
	sig, sigErr := e.signals.SignalForHour(ctx, elapsed.Hour(), calendar.CampusDate(elapsed))
	if sigErr != nil {
		log.Printf("ERROR: signal source %s unavailable, running recovery-only tick: %v", e.signals.Name(), sigErr)
	} else {
		// Normalize against the last N completed campus days; the current
		// day's half-built record must not dilute its own baseline.
		today := calendar.CampusDate(now)
		since := today.AddDate(0, 0, -e.baselineDays)
		expected, berr := e.baseline.AverageHourlyPostCount(since, today)
		if berr != nil {
			log.Printf("ERROR: rolling baseline unavailable, using neutral normalization: %v", berr)
			expected = 0
		}
		raw = e.normalize(float64(sig.PostCount), expected) + sig.EmotionDelta
	}

	scaled := raw
	if raw > 0 {
		scaled = raw * g.IncreaseMultiplier
	} else if raw < 0 {
		scaled = raw * g.DecreaseMultiplier
	}

	// Clamp is always the final step; nothing bounds intermediate values.
	next := e.table.AdjustToRange(hour, prev+scaled+recovery)
	reading := Reading{Timestamp: now, Temperature: next}

	// Posts observed in the elapsed hour belong to that hour's campus day:
	// the 05:00 boundary tick charges the 04:00 hour to the day that just
	// ended, not to the day starting now.
	date := calendar.CampusDate(elapsed)
	rec, err := e.store.DailyRecord(date)
	if errors.Is(err, ErrNotFound) {
		rec = DailyRecord{Date: date}
	} else if err != nil {
		return Reading{}, fmt.Errorf("read daily record: %w", err)
	}
	if sigErr == nil {
		rec.TotalPostCount += sig.PostCount
	}
	rec.AverageHourlyPostCount = float64(rec.TotalPostCount) / float64(calendar.ElapsedHours(elapsed))

	if err := e.store.SaveTick(reading, rec); err != nil {
		return Reading{}, fmt.Errorf("persist tick: %w", err)
	}

	log.Printf("INFO: tick %s hour=%d prev=%.1f raw=%.2f scaled=%.2f recovery=%.1f -> %.1f (%s)",
		now.Format(time.RFC3339), hour, prev, raw, scaled, recovery, next, WeatherLabel(next, e.thresholds))
	return reading, nil
}

// ResetDay closes out the previous campus day: it finalizes that day's
// hourly average over the full 24 hours and prunes readings past retention.
// The new campus day starts fresh implicitly, since daily records are keyed
// by campus date. Running it again within the same campus day is a no-op.
func (e *Engine) ResetDay(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := calendar.CampusDate(now)
	if e.lastReset.Equal(today) {
		log.Printf("INFO: daily reset already done for campus day %s", today.Format("2006-01-02"))
		return nil
	}

	prevDay := today.AddDate(0, 0, -1)
	rec, err := e.store.DailyRecord(prevDay)
	switch {
	case err == nil:
		rec.AverageHourlyPostCount = float64(rec.TotalPostCount) / 24.0
		if uerr := e.store.UpsertDaily(rec); uerr != nil {
			return fmt.Errorf("finalize daily record: %w", uerr)
		}
	case !errors.Is(err, ErrNotFound):
		return fmt.Errorf("read daily record for reset: %w", err)
	}

	if e.retention > 0 {
		n, perr := e.store.PruneReadingsBefore(now.Add(-e.retention))
		if perr != nil {
			// Pruning is advisory; a failed prune must not fail the reset.
			log.Printf("ERROR: pruning old readings failed: %v", perr)
		} else if n > 0 {
			log.Printf("INFO: pruned %d readings older than %s", n, e.retention)
		}
	}

	e.lastReset = today
	log.Printf("INFO: daily reset complete for campus day %s", today.Format("2006-01-02"))
	return nil
}

// CurrentWeather reports the latest persisted reading with its label. It is
// a pure read and never triggers a computation.
func (e *Engine) CurrentWeather() (WeatherReport, error) {
	last, err := e.store.LatestReading()
	if err != nil {
		return WeatherReport{}, err
	}
	return WeatherReport{
		Label:       WeatherLabel(last.Temperature, e.thresholds),
		Temperature: last.Temperature,
		LastUpdated: last.Timestamp,
	}, nil
}

// History delegates to the underlying store.
func (e *Engine) History(from, to time.Time) ([]Reading, error) {
	return e.store.ReadingsBetween(from, to)
}

// DailyRecords returns daily records for campus days on/after since.
func (e *Engine) DailyRecords(since time.Time) ([]DailyRecord, error) {
	return e.store.RecentDaily(since)
}
