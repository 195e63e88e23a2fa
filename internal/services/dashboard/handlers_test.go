package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smartcoop/coopsim/internal/model/messages"
)

func newTestMux() (*http.ServeMux, *Store) {
	store := NewStore()
	return NewHTTPMux(store, prometheus.NewRegistry()), store
}

func post(t *testing.T, mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestIngestRoundTrip(t *testing.T) {
	mux, _ := newTestMux()

	rec := post(t, mux, "/update-sensor",
		`{"temperature":26.5,"humidity":55,"tankLevel":80,"feed":70,"light":320,"tick":15}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	rec = get(t, mux, "/api/sensor-data")
	if rec.Code != http.StatusOK {
		t.Fatalf("read status = %d, want 200", rec.Code)
	}
	var snap messages.SensorSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Temperature != 26.5 || snap.TankLevel != 80 {
		t.Fatalf("snapshot = %+v, want the posted readings", snap)
	}
}

func TestIngestRejectsMalformed(t *testing.T) {
	mux, store := newTestMux()

	cases := []struct {
		name, path, body string
	}{
		{"sensor missing field", "/update-sensor", `{"temperature":26.5}`},
		{"sensor out of range", "/update-sensor", `{"temperature":99,"humidity":55,"tankLevel":80,"feed":70,"light":320}`},
		{"sensor broken json", "/update-sensor", `{"temperature":`},
		{"activity missing title", "/activity-event", `{"detail":"Activated","color":"red"}`},
		{"state missing flag", "/system-state", `{"fan":true,"pump":false,"light_on":true}`},
		{"scan bad coords", "/hotspot-data", `{"hotspots":[{"x":120,"y":40}]}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := post(t, mux, c.path, c.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}

	if s, a, h := store.HistorySizes(); s != 0 || a != 0 || h != 0 {
		t.Fatalf("histories = %d/%d/%d after rejects, want empty", s, a, h)
	}
}

func TestIngestMethodCheck(t *testing.T) {
	mux, _ := newTestMux()
	rec := get(t, mux, "/update-sensor")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405 on GET", rec.Code)
	}
}

func TestActivityLimit(t *testing.T) {
	mux, store := newTestMux()
	for i := 0; i < 30; i++ {
		tick := int64(i)
		if err := store.PutActivity(ActivityIn{Title: "Fan", Detail: "Activated", Tick: &tick}); err != nil {
			t.Fatalf("PutActivity: %v", err)
		}
	}

	rec := get(t, mux, "/api/activity?limit=5")
	var events []messages.ActivityEvent
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("len = %d, want 5", len(events))
	}
	if events[4].Tick != 29 {
		t.Fatalf("newest tick = %d, want 29", events[4].Tick)
	}

	// Default limit is 20.
	rec = get(t, mux, "/api/activity")
	events = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 20 {
		t.Fatalf("default len = %d, want 20", len(events))
	}
}

func TestAssistantEndpoint(t *testing.T) {
	mux, store := newTestMux()
	if err := store.PutSnapshot(validSnapshot()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := post(t, mux, "/api/assistant", `{"question":"how is the temperature?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var ans AssistantAnswer
	if err := json.Unmarshal(rec.Body.Bytes(), &ans); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(ans.Answer, "26.5") {
		t.Fatalf("answer %q does not mention the current temperature", ans.Answer)
	}

	t.Run("empty question rejected", func(t *testing.T) {
		rec := post(t, mux, "/api/assistant", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("GET rejected", func(t *testing.T) {
		rec := get(t, mux, "/api/assistant")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want 405", rec.Code)
		}
	})
}

func TestHealthz(t *testing.T) {
	mux, _ := newTestMux()
	rec := get(t, mux, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q, want 200 ok", rec.Code, rec.Body)
	}
}

func TestMetricsExposed(t *testing.T) {
	mux, _ := newTestMux()
	post(t, mux, "/update-sensor",
		`{"temperature":26.5,"humidity":55,"tankLevel":80,"feed":70,"light":320}`)

	rec := get(t, mux, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "coopsim_dashboard_ingest_total") {
		t.Fatalf("metrics output missing ingest counter")
	}
}
