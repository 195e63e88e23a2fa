// Package automation holds the hysteresis control logic for the
// enclosure devices. Decide is a pure function of the environment
// readings and the previous actuator state; all transport happens
// elsewhere.
package automation

import "github.com/smartcoop/coopsim/internal/model/entities"

// Hysteresis thresholds. Each actuator has separate ON and OFF levels so
// noisy readings near a single boundary cannot make it chatter.
const (
	LightOnBelow  = 350.0 // lux
	LightOffAbove = 550.0

	FanOnAbove  = 27.0 // °C
	FanOffBelow = 15.0

	PumpOnBelow  = 50.0 // percent
	PumpOffAbove = 90.0

	FeedAlertBelow = 20.0 // percent, alert-only, no actuator
	FeedAlertClear = 30.0
)

// Decide evaluates the control table against env and returns the next
// actuator state plus the edge-triggered events of this tick.
// Evaluation order is fixed: light, fan, pump, feed. Fan and pump route
// their notifications through a dedicated latch on top of the device
// state, so the event stream fires once per transition while the device
// state stays readable every tick. tick only stamps the events.
func Decide(env entities.EnvironmentState, prev entities.ActuatorState, tick int64) (entities.ActuatorState, []entities.Event) {
	next := prev
	var events []entities.Event

	// Light: every transition notifies directly.
	if env.Light <= LightOnBelow && !next.LightOn {
		next.LightOn = true
		events = append(events, entities.Event{Subject: "Light", Action: "Activated", Severity: "yellow", Tick: tick})
	} else if env.Light >= LightOffAbove && next.LightOn {
		next.LightOn = false
		events = append(events, entities.Event{Subject: "Light", Action: "Deactivated", Severity: "yellow", Tick: tick})
	}

	// Fan: transition gated by its alert latch.
	if env.Temperature >= FanOnAbove && !next.FanOn {
		next.FanOn = true
		if !next.TempAlertSent {
			next.TempAlertSent = true
			events = append(events, entities.Event{Subject: "Fan", Action: "Activated", Severity: "red", Tick: tick})
		}
	} else if env.Temperature <= FanOffBelow && next.FanOn {
		next.FanOn = false
		if next.TempAlertSent {
			next.TempAlertSent = false
			events = append(events, entities.Event{Subject: "Fan", Action: "Deactivated", Severity: "green", Tick: tick})
		}
	}

	// Pump: same latch pattern as the fan.
	if env.WaterLevel < PumpOnBelow && !next.PumpOn {
		next.PumpOn = true
		if !next.WaterAlertSent {
			next.WaterAlertSent = true
			events = append(events, entities.Event{Subject: "Pump", Action: "Activated", Severity: "blue", Tick: tick})
		}
	} else if env.WaterLevel >= PumpOffAbove && next.PumpOn {
		next.PumpOn = false
		if next.WaterAlertSent {
			next.WaterAlertSent = false
			events = append(events, entities.Event{Subject: "Pump", Action: "Deactivated", Severity: "blue", Tick: tick})
		}
	}

	// Feed: alert-only, latch at the low threshold, release higher up.
	if env.FeedLevel < FeedAlertBelow && !next.FeedAlertSent {
		next.FeedAlertSent = true
		events = append(events, entities.Event{Subject: "Feed", Action: "Low Feed Alert", Severity: "red", Tick: tick})
	} else if env.FeedLevel > FeedAlertClear && next.FeedAlertSent {
		next.FeedAlertSent = false
	}

	return next, events
}

// FirstEvent applies the priority-ordered, single-event-per-tick
// notification policy: downstream consumers receive only the first
// event of a tick, in Decide's evaluation order. The full slice stays
// available to the caller, so switching the sync protocol to batching
// is a sink change, not a core change.
func FirstEvent(events []entities.Event) (entities.Event, bool) {
	if len(events) == 0 {
		return entities.Event{}, false
	}
	return events[0], true
}
