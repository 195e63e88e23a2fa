package sync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/smartcoop/coopsim/internal/model/messages"
)

// Dashboard ingest paths.
const (
	pathSensor   = "/update-sensor"
	pathActivity = "/activity-event"
	pathState    = "/system-state"
	pathHotspots = "/hotspot-data"
)

// HTTPSink POSTs JSON to the dashboard service. One circuit breaker per
// endpoint: at 30 Hz a dead dashboard would otherwise cost a connect
// timeout on every tick.
type HTTPSink struct {
	base     string
	client   *http.Client
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewHTTPSink builds a sink toward base (e.g. http://localhost:5000)
// with a short per-request timeout.
func NewHTTPSink(base string, timeout time.Duration) *HTTPSink {
	if timeout <= 0 {
		timeout = time.Second
	}
	s := &HTTPSink{
		base:     strings.TrimRight(strings.TrimSpace(base), "/"),
		client:   &http.Client{Timeout: timeout},
		breakers: make(map[string]*gobreaker.CircuitBreaker, 4),
	}
	for _, p := range []string{pathSensor, pathActivity, pathState, pathHotspots} {
		s.breakers[p] = mkBreaker("dashboard"+p, 5, 10*time.Second, time.Minute)
	}
	return s
}

func mkBreaker(name string, fails uint32, open, interval time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: interval,
		Timeout:  open,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= fails
		},
	})
}

func (s *HTTPSink) PushSnapshot(m messages.SensorSnapshot) { go s.post(pathSensor, m) }

func (s *HTTPSink) PushActivity(e messages.ActivityEvent) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	go s.post(pathActivity, e)
}

func (s *HTTPSink) PushSystemState(m messages.SystemState) { go s.post(pathState, m) }

func (s *HTTPSink) PushHotspots(h messages.HotspotScan) { go s.post(pathHotspots, h) }

// post runs the request through the endpoint's breaker. Errors are
// logged, never returned: the caller is the tick loop.
func (s *HTTPSink) post(path string, payload any) {
	if s.base == "" {
		return
	}
	_, err := s.breakers[path].Execute(func() (any, error) {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		resp, err := s.client.Post(s.base+path, "application/json", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("POST %s -> %s", path, resp.Status)
		}
		return nil, nil
	})
	if err != nil && err != gobreaker.ErrOpenState && err != gobreaker.ErrTooManyRequests {
		log.Printf("sync: push %s failed: %v", path, err)
	}
}
