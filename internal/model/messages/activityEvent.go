package messages

import (
	"time"

	"github.com/smartcoop/coopsim/internal/model/entities"
)

// ActivityEvent is the wire form of an automation event: one per state
// transition, pushed once and appended to the dashboard activity feed.
type ActivityEvent struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail"`
	Color     string    `json:"color"`
	Tick      int64     `json:"tick,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// FromEvent converts a core event into its wire form. The caller stamps
// ID and wall-clock time; the core event only knows the tick.
func FromEvent(e entities.Event) ActivityEvent {
	return ActivityEvent{
		Title:  e.Subject,
		Detail: e.Action,
		Color:  e.Severity,
		Tick:   e.Tick,
	}
}
