package climate

// LabelThreshold maps every temperature below Below (or anything at all for
// the final open-ended entry) to a named weather label.
type LabelThreshold struct {
	Below float64 `json:"below"`
	Label string  `json:"label"`
}

// DefaultLabelThresholds is the built-in temperature-to-weather mapping.
// Boundaries are presentation tuning only; the numeric engine never reads
// labels back.
func DefaultLabelThresholds() []LabelThreshold {
	return []LabelThreshold{
		{Below: 15, Label: "calm"},
		{Below: 35, Label: "mild"},
		{Below: 60, Label: "active"},
		{Below: 85, Label: "lively"},
		{Below: 0, Label: "intense"}, // open-ended top band
	}
}

// WeatherLabel returns the label for a temperature given ascending
// thresholds. The last entry is the open-ended fallback.
func WeatherLabel(temp float64, thresholds []LabelThreshold) string {
	if len(thresholds) == 0 {
		return "unknown"
	}
	for _, t := range thresholds[:len(thresholds)-1] {
		if temp < t.Below {
			return t.Label
		}
	}
	return thresholds[len(thresholds)-1].Label
}
