package climate

import "time"

// BaselineSource supplies the rolling activity baseline the engine normalizes
// the hourly signal against. Averages cover campus days in [since, until):
// the engine passes the current campus day as until so a half-built day never
// feeds its own baseline. Both methods return 0 when no history exists; the
// engine treats a non-positive baseline as neutral.
type BaselineSource interface {
	AveragePostCount(since, until time.Time) (float64, error)
	AverageHourlyPostCount(since, until time.Time) (float64, error)
}

// storeBaseline derives the baseline from DailyRecords in a Store.
type storeBaseline struct {
	store Store
}

// NewStoreBaseline returns a BaselineSource backed by the given store.
func NewStoreBaseline(s Store) BaselineSource {
	return &storeBaseline{store: s}
}

func (b *storeBaseline) records(since, until time.Time) ([]DailyRecord, error) {
	recs, err := b.store.RecentDaily(since)
	if err != nil {
		return nil, err
	}
	kept := recs[:0]
	for _, r := range recs {
		if r.Date.Before(until) {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

func (b *storeBaseline) AveragePostCount(since, until time.Time) (float64, error) {
	recs, err := b.records(since, until)
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, nil
	}
	var sum float64
	for _, r := range recs {
		sum += float64(r.TotalPostCount)
	}
	return sum / float64(len(recs)), nil
}

func (b *storeBaseline) AverageHourlyPostCount(since, until time.Time) (float64, error) {
	recs, err := b.records(since, until)
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, nil
	}
	var sum float64
	for _, r := range recs {
		sum += r.AverageHourlyPostCount
	}
	return sum / float64(len(recs)), nil
}
