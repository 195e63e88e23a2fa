package messages

import "time"

// SensorSnapshot is the periodic readings push toward the dashboard and
// the persistence pipeline. Field names follow the dashboard contract.
type SensorSnapshot struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	TankLevel   float64   `json:"tankLevel"`
	Feed        float64   `json:"feed"`
	Light       float64   `json:"light"`
	Tick        int64     `json:"tick"`
	Timestamp   time.Time `json:"timestamp"`
}
