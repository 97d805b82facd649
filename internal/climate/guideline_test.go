package climate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGuidelineTableCoversEveryHour(t *testing.T) {
	table := DefaultGuidelineTable()

	for hour := 0; hour < 24; hour++ {
		g := table.Guideline(hour)
		assert.LessOrEqual(t, g.MinTemp, g.MaxTemp, "hour %d", hour)
		assert.Positive(t, g.IncreaseMultiplier, "hour %d", hour)
		assert.Positive(t, g.DecreaseMultiplier, "hour %d", hour)
		assert.Positive(t, table.NaturalRecoveryRate(hour), "hour %d", hour)
	}
}

func TestDefaultBandValues(t *testing.T) {
	table := DefaultGuidelineTable()

	// Spot-check one hour per band.
	tests := []struct {
		hour     int
		min, max float64
		inc, dec float64
	}{
		{3, 0, 25, 0.4, 1.8},    // dawn
		{7, 5, 35, 1.5, 0.8},    // morning
		{11, 10, 60, 2.0, 0.5},  // late-morning
		{14, 15, 100, 2.5, 0.3}, // afternoon
		{19, 10, 80, 1.8, 0.9},  // evening
		{22, 5, 50, 1.0, 1.4},   // night
	}
	for _, tt := range tests {
		g := table.Guideline(tt.hour)
		assert.Equal(t, tt.min, g.MinTemp, "hour %d", tt.hour)
		assert.Equal(t, tt.max, g.MaxTemp, "hour %d", tt.hour)
		assert.Equal(t, tt.inc, g.IncreaseMultiplier, "hour %d", tt.hour)
		assert.Equal(t, tt.dec, g.DecreaseMultiplier, "hour %d", tt.hour)
	}
}

func TestDefaultRecoveryRates(t *testing.T) {
	table := DefaultGuidelineTable()

	assert.Equal(t, 5.0, table.NaturalRecoveryRate(10))
	assert.Equal(t, 8.0, table.NaturalRecoveryRate(15))
	assert.Equal(t, 4.0, table.NaturalRecoveryRate(20))
	assert.Equal(t, 3.5, table.NaturalRecoveryRate(8))
	assert.Equal(t, 3.0, table.NaturalRecoveryRate(18))
	assert.Equal(t, DefaultRecoveryRate, table.NaturalRecoveryRate(2))
	assert.Equal(t, DefaultRecoveryRate, table.NaturalRecoveryRate(13))
}

func TestNewGuidelineTableValidation(t *testing.T) {
	base := Guideline{MinTemp: 0, MaxTemp: 10, IncreaseMultiplier: 1, DecreaseMultiplier: 1}

	tests := []struct {
		name  string
		bands []Band
	}{
		{
			name: "gap_in_coverage",
			bands: []Band{
				{Name: "a", FromHour: 0, ToHour: 10, Guideline: base},
				{Name: "b", FromHour: 12, ToHour: 23, Guideline: base},
			},
		},
		{
			name: "overlapping_bands",
			bands: []Band{
				{Name: "a", FromHour: 0, ToHour: 12, Guideline: base},
				{Name: "b", FromHour: 12, ToHour: 23, Guideline: base},
			},
		},
		{
			name: "inverted_hour_range",
			bands: []Band{
				{Name: "a", FromHour: 10, ToHour: 0, Guideline: base},
			},
		},
		{
			name: "min_above_max",
			bands: []Band{
				{Name: "a", FromHour: 0, ToHour: 23, Guideline: Guideline{MinTemp: 20, MaxTemp: 10, IncreaseMultiplier: 1, DecreaseMultiplier: 1}},
			},
		},
		{
			name: "zero_multiplier",
			bands: []Band{
				{Name: "a", FromHour: 0, ToHour: 23, Guideline: Guideline{MinTemp: 0, MaxTemp: 10, IncreaseMultiplier: 0, DecreaseMultiplier: 1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGuidelineTable(tt.bands, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidGuidelines)
		})
	}
}

func TestAdjustToRange(t *testing.T) {
	table := DefaultGuidelineTable()

	// Dawn band is 0..25.
	assert.Equal(t, 0.0, table.AdjustToRange(3, -50))
	assert.Equal(t, 25.0, table.AdjustToRange(3, 400))
	assert.Equal(t, 12.5, table.AdjustToRange(3, 12.5))

	assert.True(t, table.IsWithinRange(3, 25))
	assert.True(t, table.IsWithinRange(3, 0))
	assert.False(t, table.IsWithinRange(3, 25.01))
	assert.False(t, table.IsWithinRange(3, -0.01))
}
