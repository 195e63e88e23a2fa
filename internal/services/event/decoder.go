package event

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/smartcoop/coopsim/internal/model"
)

// CommonEvent is the normalized form every broker event is reduced to
// before it is written to Influx.
type CommonEvent struct {
	EventType     string // coop.activity | coop.state_change
	SourceService string
	Subject       string
	Severity      string // info|warning
	Tick          int64
	Fields        map[string]interface{}
	Timestamp     time.Time
}

// MQTTHandler turns broker messages into CommonEvents and hands them to
// a sink (Influx).
type MQTTHandler struct{ sink func(CommonEvent) }

func NewMQTTHandler(sink func(CommonEvent)) *MQTTHandler { return &MQTTHandler{sink: sink} }

func (h *MQTTHandler) Handle(_ string, m mqtt.Message) error {
	topic := m.Topic()
	payload := m.Payload()

	var (
		evt CommonEvent
		err error
	)
	switch {
	case strings.HasPrefix(topic, "coop/event/activity"):
		evt, err = decodeActivity(payload)
	case strings.HasPrefix(topic, "coop/event/state"):
		evt, err = decodeState(payload)
	default:
		return nil // ignore other topics
	}
	if err != nil {
		return err
	}
	if h.sink != nil {
		h.sink(evt)
	}
	return nil
}

func decodeActivity(payload []byte) (CommonEvent, error) {
	var a model.ActivityEvent
	if err := json.Unmarshal(payload, &a); err != nil {
		return CommonEvent{}, err
	}
	if strings.TrimSpace(a.Title) == "" {
		return CommonEvent{}, errors.New("activity: missing title")
	}
	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return CommonEvent{
		EventType:     "coop.activity",
		SourceService: "simulator",
		Subject:       a.Title,
		Severity:      severityFor(a.Color),
		Tick:          a.Tick,
		Fields: map[string]interface{}{
			"detail": a.Detail,
			"color":  a.Color,
		},
		Timestamp: ts,
	}, nil
}

func decodeState(payload []byte) (CommonEvent, error) {
	var s model.SystemState
	if err := json.Unmarshal(payload, &s); err != nil {
		return CommonEvent{}, err
	}
	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	sev := "info"
	if s.FeedAlert {
		sev = "warning"
	}
	return CommonEvent{
		EventType:     "coop.state_change",
		SourceService: "simulator",
		Subject:       "system",
		Severity:      sev,
		Tick:          s.Tick,
		Fields: map[string]interface{}{
			"fan":        s.Fan,
			"pump":       s.Pump,
			"light_on":   s.LightOn,
			"feed_alert": s.FeedAlert,
		},
		Timestamp: ts,
	}, nil
}

// severityFor maps the dashboard color tag onto a log severity. Red
// marks shortages and heat, everything else is routine actuation.
func severityFor(color string) string {
	if strings.EqualFold(color, "red") {
		return "warning"
	}
	return "info"
}
