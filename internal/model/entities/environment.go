package entities

// Operating ranges for the four enclosure readings. Every update clamps
// back into these bounds, so consumers can rely on them.
const (
	TemperatureMin = 15.0 // °C
	TemperatureMax = 40.0
	LightMin       = 0.0 // lux
	LightMax       = 600.0
	LevelMin       = 0.0 // percent, water and feed
	LevelMax       = 100.0
)

// EnvironmentState holds the four sensor-like readings of the enclosure.
type EnvironmentState struct {
	Temperature float64 `json:"temperature"` // °C
	Light       float64 `json:"light"`       // lux
	WaterLevel  float64 `json:"water_level"` // percent of tank
	FeedLevel   float64 `json:"feed_level"`  // percent of trough
}

// Clamp forces every reading back into its operating range.
func (e *EnvironmentState) Clamp() {
	e.Temperature = clamp(e.Temperature, TemperatureMin, TemperatureMax)
	e.Light = clamp(e.Light, LightMin, LightMax)
	e.WaterLevel = clamp(e.WaterLevel, LevelMin, LevelMax)
	e.FeedLevel = clamp(e.FeedLevel, LevelMin, LevelMax)
}

// InRange reports whether all four readings sit inside their ranges.
func (e EnvironmentState) InRange() bool {
	return e.Temperature >= TemperatureMin && e.Temperature <= TemperatureMax &&
		e.Light >= LightMin && e.Light <= LightMax &&
		e.WaterLevel >= LevelMin && e.WaterLevel <= LevelMax &&
		e.FeedLevel >= LevelMin && e.FeedLevel <= LevelMax
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
