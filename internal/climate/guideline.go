package climate

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGuidelines is wrapped by all guideline validation failures.
	// An incomplete or inconsistent table makes clamping meaningless, so
	// construction refuses to produce a table instead of defaulting.
	ErrInvalidGuidelines = errors.New("invalid temperature guidelines")
)

// Guideline is the permitted temperature range and the asymmetric delta
// multipliers for a single hour of the day.
type Guideline struct {
	MinTemp            float64 `json:"minTemp"`
	MaxTemp            float64 `json:"maxTemp"`
	IncreaseMultiplier float64 `json:"increaseMultiplier"`
	DecreaseMultiplier float64 `json:"decreaseMultiplier"`
}

// Band assigns one guideline to a contiguous, inclusive range of hours.
type Band struct {
	Name     string `json:"name"`
	FromHour int    `json:"fromHour"`
	ToHour   int    `json:"toHour"`
	Guideline
}

// RecoveryWindow assigns a natural recovery rate to a contiguous, inclusive
// range of hours. Hours outside every window fall back to DefaultRecoveryRate.
type RecoveryWindow struct {
	FromHour int     `json:"fromHour"`
	ToHour   int     `json:"toHour"`
	Rate     float64 `json:"rate"`
}

// DefaultRecoveryRate applies to hours not covered by any recovery window.
const DefaultRecoveryRate = 1.0

// DefaultBands is the built-in six-band partition of the day. The afternoon
// band is the widest and highest (campus most active, rises amplified, falls
// damped); dawn is the narrowest and lowest with the inverse asymmetry.
func DefaultBands() []Band {
	return []Band{
		{Name: "dawn", FromHour: 0, ToHour: 5, Guideline: Guideline{MinTemp: 0, MaxTemp: 25, IncreaseMultiplier: 0.4, DecreaseMultiplier: 1.8}},
		{Name: "morning", FromHour: 6, ToHour: 8, Guideline: Guideline{MinTemp: 5, MaxTemp: 35, IncreaseMultiplier: 1.5, DecreaseMultiplier: 0.8}},
		{Name: "late-morning", FromHour: 9, ToHour: 12, Guideline: Guideline{MinTemp: 10, MaxTemp: 60, IncreaseMultiplier: 2.0, DecreaseMultiplier: 0.5}},
		{Name: "afternoon", FromHour: 13, ToHour: 17, Guideline: Guideline{MinTemp: 15, MaxTemp: 100, IncreaseMultiplier: 2.5, DecreaseMultiplier: 0.3}},
		{Name: "evening", FromHour: 18, ToHour: 20, Guideline: Guideline{MinTemp: 10, MaxTemp: 80, IncreaseMultiplier: 1.8, DecreaseMultiplier: 0.9}},
		{Name: "night", FromHour: 21, ToHour: 23, Guideline: Guideline{MinTemp: 5, MaxTemp: 50, IncreaseMultiplier: 1.0, DecreaseMultiplier: 1.4}},
	}
}

// DefaultRecoveryWindows tunes ambient warmth per activity window: lecture
// hours and the afternoon/evening peaks accrue temperature every tick even
// with no explicit events.
func DefaultRecoveryWindows() []RecoveryWindow {
	return []RecoveryWindow{
		{FromHour: 7, ToHour: 8, Rate: 3.5},
		{FromHour: 9, ToHour: 12, Rate: 5.0},
		{FromHour: 14, ToHour: 17, Rate: 8.0},
		{FromHour: 18, ToHour: 18, Rate: 3.0},
		{FromHour: 19, ToHour: 21, Rate: 4.0},
	}
}

// GuidelineTable is the immutable hour-indexed lookup used by the engine.
// It is built once at startup; lookups index a fixed 24-entry array so the
// "every hour is covered" invariant is established by construction.
type GuidelineTable struct {
	hours    [24]Guideline
	recovery [24]float64
}

// NewGuidelineTable validates the bands and recovery windows and builds the
// hour-indexed table. Any gap, overlap, inverted range or non-positive
// multiplier is a configuration error and fails startup.
func NewGuidelineTable(bands []Band, windows []RecoveryWindow) (*GuidelineTable, error) {
	t := &GuidelineTable{}
	covered := [24]bool{}

	for _, b := range bands {
		if b.FromHour < 0 || b.ToHour > 23 || b.FromHour > b.ToHour {
			return nil, fmt.Errorf("%w: band %q has hour range %d-%d", ErrInvalidGuidelines, b.Name, b.FromHour, b.ToHour)
		}
		if b.MinTemp > b.MaxTemp {
			return nil, fmt.Errorf("%w: band %q has minTemp %.1f > maxTemp %.1f", ErrInvalidGuidelines, b.Name, b.MinTemp, b.MaxTemp)
		}
		if b.IncreaseMultiplier <= 0 || b.DecreaseMultiplier <= 0 {
			return nil, fmt.Errorf("%w: band %q has non-positive multiplier", ErrInvalidGuidelines, b.Name)
		}
		for h := b.FromHour; h <= b.ToHour; h++ {
			if covered[h] {
				return nil, fmt.Errorf("%w: hour %d covered by more than one band", ErrInvalidGuidelines, h)
			}
			covered[h] = true
			t.hours[h] = b.Guideline
		}
	}

	for h := range covered {
		if !covered[h] {
			return nil, fmt.Errorf("%w: no band covers hour %d", ErrInvalidGuidelines, h)
		}
	}

	for h := range t.recovery {
		t.recovery[h] = DefaultRecoveryRate
	}
	for _, w := range windows {
		if w.FromHour < 0 || w.ToHour > 23 || w.FromHour > w.ToHour {
			return nil, fmt.Errorf("%w: recovery window has hour range %d-%d", ErrInvalidGuidelines, w.FromHour, w.ToHour)
		}
		if w.Rate < 0 {
			return nil, fmt.Errorf("%w: recovery window %d-%d has negative rate", ErrInvalidGuidelines, w.FromHour, w.ToHour)
		}
		for h := w.FromHour; h <= w.ToHour; h++ {
			t.recovery[h] = w.Rate
		}
	}

	return t, nil
}

// DefaultGuidelineTable builds the table from the built-in bands and windows.
func DefaultGuidelineTable() *GuidelineTable {
	t, err := NewGuidelineTable(DefaultBands(), DefaultRecoveryWindows())
	if err != nil {
		// The built-in tables are constants; failing to build them is a bug.
		panic(err)
	}
	return t
}

// Guideline returns the entry for the given hour. Hours outside 0..23 are a
// caller bug and panic via the array index.
func (t *GuidelineTable) Guideline(hour int) Guideline {
	return t.hours[hour]
}

// NaturalRecoveryRate returns the ambient per-tick warmth for the given hour.
func (t *GuidelineTable) NaturalRecoveryRate(hour int) float64 {
	return t.recovery[hour]
}

// IsWithinRange reports whether temp is inside the hour's permitted range.
func (t *GuidelineTable) IsWithinRange(hour int, temp float64) bool {
	g := t.hours[hour]
	return temp >= g.MinTemp && temp <= g.MaxTemp
}

// AdjustToRange clamps temp to the hour's permitted range. Every temperature
// update applies this as its last step; nothing clamps earlier.
func (t *GuidelineTable) AdjustToRange(hour int, temp float64) float64 {
	g := t.hours[hour]
	if temp < g.MinTemp {
		return g.MinTemp
	}
	if temp > g.MaxTemp {
		return g.MaxTemp
	}
	return temp
}
