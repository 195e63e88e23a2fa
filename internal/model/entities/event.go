package entities

// Event is an edge-triggered automation notification. Emitted once per
// actuator transition, never mutated afterwards.
type Event struct {
	Subject  string `json:"subject"`  // "Fan", "Pump", "Light", "Feed"
	Action   string `json:"action"`   // "Activated", "Deactivated", "Low Feed Alert"
	Severity string `json:"severity"` // display tag: red|green|yellow|blue
	Tick     int64  `json:"tick"`
}
