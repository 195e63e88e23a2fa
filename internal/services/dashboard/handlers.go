package dashboard

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPMux wires the ingest and read endpoints over the store.
// Ingest returns 400 on malformed payloads so bad data never reaches
// state; reads always answer with whatever is currently stored.
func NewHTTPMux(store *Store, reg *prometheus.Registry) *http.ServeMux {
	m := NewMetrics(reg, store)
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// ---- ingest ----

	mux.HandleFunc("/update-sensor", ingest(m, "sensor", func(r *http.Request) error {
		var in SnapshotIn
		if err := decode(r, &in); err != nil {
			return err
		}
		return store.PutSnapshot(in)
	}))

	mux.HandleFunc("/activity-event", ingest(m, "activity", func(r *http.Request) error {
		var in ActivityIn
		if err := decode(r, &in); err != nil {
			return err
		}
		return store.PutActivity(in)
	}))

	mux.HandleFunc("/system-state", ingest(m, "state", func(r *http.Request) error {
		var in StateIn
		if err := decode(r, &in); err != nil {
			return err
		}
		return store.PutState(in)
	}))

	mux.HandleFunc("/hotspot-data", ingest(m, "hotspots", func(r *http.Request) error {
		var in ScanIn
		if err := decode(r, &in); err != nil {
			return err
		}
		return store.PutScan(in)
	}))

	// ---- read API ----

	mux.HandleFunc("/api/sensor-data", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, store.Current())
	})

	mux.HandleFunc("/api/system-state", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, store.State())
	})

	mux.HandleFunc("/api/hotspots", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, store.LatestScan())
	})

	// GET /api/activity?limit=N (default 20, capped at the window size)
	mux.HandleFunc("/api/activity", func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if s := r.URL.Query().Get("limit"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				limit = n
			}
		}
		writeJSON(w, store.RecentActivity(limit))
	})

	mux.HandleFunc("/api/assistant", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var q AssistantQuery
		if err := decode(r, &q); err != nil || q.Question == "" {
			http.Error(w, "no question provided", http.StatusBadRequest)
			return
		}
		m.AssistantReqs.Inc()
		writeJSON(w, Answer(store, q))
	})

	return mux
}

// ingest wraps a POST handler with method check, metrics and the
// reject-at-boundary contract.
func ingest(m *Metrics, kind string, put func(*http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		if err := put(r); err != nil {
			m.RejectedTotal.WithLabelValues(kind).Inc()
			log.Printf("dashboard: reject %s: %v", kind, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		m.IngestTotal.WithLabelValues(kind).Inc()
		writeJSON(w, map[string]string{"status": "ok"})
	}
}

func decode(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
