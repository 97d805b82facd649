package store

import (
	"sort"
	"sync"
	"time"

	"github.com/campuslife/campus-climate/internal/climate"
)

// MemoryStore is a concurrency-safe in-memory climate.Store. It backs tests
// and local development; production deployments use the sqlite store.
type MemoryStore struct {
	mu sync.RWMutex

	readings []climate.Reading
	daily    map[string]climate.DailyRecord // key: campus date YYYY-MM-DD

	// retention configuration
	maxHistory int           // max number of readings (0 = unlimited)
	maxAge     time.Duration // max age of readings (0 = unlimited)
}

// NewMemoryStore creates a new MemoryStore with optional retention limits.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		daily:      make(map[string]climate.DailyRecord),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

func dateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

// AppendReading appends a reading and enforces retention.
func (s *MemoryStore) AppendReading(r climate.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(r)
	return nil
}

func (s *MemoryStore) appendLocked(r climate.Reading) {
	s.readings = append(s.readings, r)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.readings) > s.maxHistory {
		over := len(s.readings) - s.maxHistory
		s.readings = s.readings[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.readings); i++ {
			if !s.readings[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(s.readings) {
			s.readings = s.readings[i:]
		}
	}
}

// LatestReading returns the most recent reading.
func (s *MemoryStore) LatestReading() (climate.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.readings) == 0 {
		return climate.Reading{}, climate.ErrNotFound
	}
	return s.readings[len(s.readings)-1], nil
}

// ReadingsBetween returns readings between from and to (inclusive), oldest first.
func (s *MemoryStore) ReadingsBetween(from, to time.Time) ([]climate.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []climate.Reading
	for _, r := range s.readings {
		if !r.Timestamp.Before(from) && !r.Timestamp.After(to) {
			result = append(result, r)
		}
	}
	if len(result) == 0 {
		return nil, climate.ErrNotFound
	}
	return result, nil
}

// PruneReadingsBefore discards readings older than cutoff.
func (s *MemoryStore) PruneReadingsBefore(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := 0
	for ; i < len(s.readings); i++ {
		if !s.readings[i].Timestamp.Before(cutoff) {
			break
		}
	}
	if i > 0 {
		s.readings = s.readings[i:]
	}
	return i, nil
}

// DailyRecord returns the record for the given campus date.
func (s *MemoryStore) DailyRecord(date time.Time) (climate.DailyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.daily[dateKey(date)]
	if !ok {
		return climate.DailyRecord{}, climate.ErrNotFound
	}
	return rec, nil
}

// UpsertDaily inserts or replaces the record for its campus date.
func (s *MemoryStore) UpsertDaily(rec climate.DailyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.daily[dateKey(rec.Date)] = rec
	return nil
}

// RecentDaily returns records for campus days on/after since, oldest first.
// An empty history returns an empty slice, not an error: the caller treats
// no history as a neutral baseline.
func (s *MemoryStore) RecentDaily(since time.Time) ([]climate.DailyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []climate.DailyRecord
	for _, rec := range s.daily {
		if !rec.Date.Before(since) {
			result = append(result, rec)
		}
	}
	sortDailyByDate(result)
	return result, nil
}

// SaveTick appends the reading and upserts the daily record under one lock,
// so a reader never observes one half of a tick without the other.
func (s *MemoryStore) SaveTick(r climate.Reading, rec climate.DailyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendLocked(r)
	s.daily[dateKey(rec.Date)] = rec
	return nil
}

func sortDailyByDate(recs []climate.DailyRecord) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })
}
