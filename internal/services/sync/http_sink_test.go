package sync

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartcoop/coopsim/internal/model/messages"
)

type received struct {
	path string
	body []byte
}

func startServer(t *testing.T) (*httptest.Server, chan received) {
	t.Helper()
	ch := make(chan received, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ch <- received{path: r.URL.Path, body: body}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func waitFor(t *testing.T, ch chan received) received {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatalf("no request arrived")
		return received{}
	}
}

func TestHTTPSinkPaths(t *testing.T) {
	srv, ch := startServer(t)
	sink := NewHTTPSink(srv.URL, time.Second)

	sink.PushSnapshot(messages.SensorSnapshot{Temperature: 26.5, Tick: 15})
	r := waitFor(t, ch)
	if r.path != "/update-sensor" {
		t.Fatalf("path = %q, want /update-sensor", r.path)
	}
	var snap messages.SensorSnapshot
	if err := json.Unmarshal(r.body, &snap); err != nil || snap.Temperature != 26.5 {
		t.Fatalf("body = %s (err %v), want the snapshot", r.body, err)
	}

	sink.PushSystemState(messages.SystemState{Fan: true})
	if r = waitFor(t, ch); r.path != "/system-state" {
		t.Fatalf("path = %q, want /system-state", r.path)
	}

	sink.PushHotspots(messages.HotspotScan{Tick: 30})
	if r = waitFor(t, ch); r.path != "/hotspot-data" {
		t.Fatalf("path = %q, want /hotspot-data", r.path)
	}
}

func TestHTTPSinkStampsEventID(t *testing.T) {
	srv, ch := startServer(t)
	sink := NewHTTPSink(srv.URL, time.Second)

	sink.PushActivity(messages.ActivityEvent{Title: "Fan", Detail: "Activated"})
	r := waitFor(t, ch)
	if r.path != "/activity-event" {
		t.Fatalf("path = %q, want /activity-event", r.path)
	}
	var ev messages.ActivityEvent
	if err := json.Unmarshal(r.body, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.ID == "" {
		t.Fatalf("event pushed without an ID")
	}

	sink.PushActivity(messages.ActivityEvent{ID: "fixed", Title: "Pump", Detail: "Activated"})
	r = waitFor(t, ch)
	ev = messages.ActivityEvent{}
	if err := json.Unmarshal(r.body, &ev); err != nil || ev.ID != "fixed" {
		t.Fatalf("ID = %q (err %v), want caller-supplied id kept", ev.ID, err)
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	srvA, chA := startServer(t)
	srvB, chB := startServer(t)

	multi := MultiSink{NewHTTPSink(srvA.URL, time.Second), NewHTTPSink(srvB.URL, time.Second)}
	multi.PushSystemState(messages.SystemState{Pump: true})

	for _, ch := range []chan received{chA, chB} {
		r := waitFor(t, ch)
		if r.path != "/system-state" {
			t.Fatalf("path = %q, want /system-state", r.path)
		}
	}
}

func TestHTTPSinkDeadTarget(t *testing.T) {
	// A dead dashboard must not panic or block; the breaker absorbs it.
	sink := NewHTTPSink("http://127.0.0.1:1", 50*time.Millisecond)
	for i := 0; i < 20; i++ {
		sink.PushSystemState(messages.SystemState{Tick: int64(i)})
	}
	time.Sleep(200 * time.Millisecond)
}
