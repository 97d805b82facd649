package climate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeatherLabel(t *testing.T) {
	thresholds := DefaultLabelThresholds()

	tests := []struct {
		temp float64
		want string
	}{
		{0, "calm"},
		{14.9, "calm"},
		{15, "mild"},
		{34.9, "mild"},
		{35, "active"},
		{59.9, "active"},
		{60, "lively"},
		{84.9, "lively"},
		{85, "intense"},
		{100, "intense"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WeatherLabel(tt.temp, thresholds), "temp %.1f", tt.temp)
	}
}

func TestWeatherLabelEmptyThresholds(t *testing.T) {
	assert.Equal(t, "unknown", WeatherLabel(50, nil))
}
