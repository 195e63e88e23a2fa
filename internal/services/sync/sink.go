// Package sync carries simulation outputs to the outside world. Every
// sink is fire-and-forget: a dead dashboard or broker never stalls the
// tick loop, failures are logged and swallowed.
package sync

import "github.com/smartcoop/coopsim/internal/model/messages"

// Sink matches simulation.Sink; declared here too so sinks can be
// composed without importing the core.
type Sink interface {
	PushSnapshot(messages.SensorSnapshot)
	PushActivity(messages.ActivityEvent)
	PushSystemState(messages.SystemState)
	PushHotspots(messages.HotspotScan)
}

// MultiSink fans every push out to all children.
type MultiSink []Sink

func (m MultiSink) PushSnapshot(s messages.SensorSnapshot) {
	for _, c := range m {
		c.PushSnapshot(s)
	}
}

func (m MultiSink) PushActivity(e messages.ActivityEvent) {
	for _, c := range m {
		c.PushActivity(e)
	}
}

func (m MultiSink) PushSystemState(s messages.SystemState) {
	for _, c := range m {
		c.PushSystemState(s)
	}
}

func (m MultiSink) PushHotspots(h messages.HotspotScan) {
	for _, c := range m {
		c.PushHotspots(h)
	}
}
