package entities

// ActuatorState is the live device state of the enclosure plus the alert
// latches that keep the event stream edge-triggered. The latch bits are
// explicit fields initialized at construction: device state may be read
// every tick, a notification must fire once per transition.
type ActuatorState struct {
	FanOn   bool `json:"fan"`
	PumpOn  bool `json:"pump"`
	LightOn bool `json:"light_on"`

	TempAlertSent  bool `json:"-"`
	WaterAlertSent bool `json:"-"`
	FeedAlertSent  bool `json:"feed_alert"`
}

// Snapshot strips the internal latches, leaving only what dashboard
// consumers should see as live device state.
func (a ActuatorState) Snapshot() ActuatorState {
	return ActuatorState{
		FanOn:         a.FanOn,
		PumpOn:        a.PumpOn,
		LightOn:       a.LightOn,
		FeedAlertSent: a.FeedAlertSent,
	}
}
