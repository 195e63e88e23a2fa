package messages

import "time"

// SystemState is the live device snapshot pushed every tick. Unlike
// ActivityEvent it is level-triggered: consumers read current state,
// not transitions.
type SystemState struct {
	Fan       bool      `json:"fan"`
	Pump      bool      `json:"pump"`
	LightOn   bool      `json:"light_on"`
	FeedAlert bool      `json:"feed_alert"`
	Tick      int64     `json:"tick,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
