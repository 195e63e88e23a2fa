package persistence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/smartcoop/coopsim/internal/model/messages"
	"github.com/smartcoop/coopsim/pkg/mqttbus"
)

type fakeMessage struct{ payload []byte }

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return "coop/sensor" }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

// fakeConsumer replays canned payloads through the handler and returns.
type fakeConsumer struct {
	payloads [][]byte
	handler  mqttbus.Handler
}

func (f *fakeConsumer) SetHandler(h mqttbus.Handler) { f.handler = h }

func (f *fakeConsumer) ConsumeMessage(_ context.Context) {
	for _, p := range f.payloads {
		_ = f.handler("coop/sensor", fakeMessage{payload: p})
	}
}

// unreachable influx: the client never dials until a call is made, and
// every call fails fast, which is exactly the fallback path under test.
func newTestService(t *testing.T, consumer mqttbus.IConsumer[messages.SensorSnapshot]) *Service {
	t.Helper()
	influx := influxdb2.NewClient("http://127.0.0.1:1", "")
	t.Cleanup(influx.Close)
	svc, err := NewService(consumer, influx, InfluxConfig{
		URL: "http://127.0.0.1:1", Org: "smartcoop", Bucket: "sensors",
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestServiceCachesLatest(t *testing.T) {
	good, _ := json.Marshal(messages.SensorSnapshot{Temperature: 27.1, TankLevel: 64, Tick: 45})
	consumer := &fakeConsumer{payloads: [][]byte{
		[]byte(`{broken`), // must be skipped, not stall the stream
		good,
	}}
	svc := newTestService(t, consumer)

	svc.Start(context.Background())

	snap, ok := svc.Latest()
	if !ok {
		t.Fatalf("Latest() has no data after consuming")
	}
	if snap.Temperature != 27.1 || snap.Tick != 45 {
		t.Fatalf("Latest() = %+v, want the consumed snapshot", snap)
	}
}

func TestNewServiceValidatesConfig(t *testing.T) {
	influx := influxdb2.NewClient("http://127.0.0.1:1", "")
	defer influx.Close()
	if _, err := NewService(nil, influx, InfluxConfig{URL: "http://x"}); err == nil {
		t.Fatalf("accepted config without org/bucket")
	}
}

func TestDataLatestServesFromCache(t *testing.T) {
	good, _ := json.Marshal(messages.SensorSnapshot{Temperature: 25.5, Feed: 70})
	consumer := &fakeConsumer{payloads: [][]byte{good}}
	svc := newTestService(t, consumer)
	svc.Start(context.Background())

	mux := NewHTTPMux(svc)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/latest?source=cache", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Data-Source"); got != "cache" {
		t.Fatalf("X-Data-Source = %q, want cache", got)
	}
	var snap messages.SensorSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil || snap.Temperature != 25.5 {
		t.Fatalf("body = %s (err %v), want cached snapshot", rec.Body, err)
	}
}

func TestDataLatestFallsBackWhenInfluxDown(t *testing.T) {
	good, _ := json.Marshal(messages.SensorSnapshot{Light: 310})
	consumer := &fakeConsumer{payloads: [][]byte{good}}
	svc := newTestService(t, consumer)
	svc.Start(context.Background())

	mux := NewHTTPMux(svc)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/latest", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 via cache fallback", rec.Code)
	}
	if got := rec.Header().Get("X-Data-Source"); got != "cache" {
		t.Fatalf("X-Data-Source = %q, want cache with influx down", got)
	}
}

func TestDataLatestEmpty(t *testing.T) {
	svc := newTestService(t, &fakeConsumer{})

	mux := NewHTTPMux(svc)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/latest", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 with no data anywhere", rec.Code)
	}
}
