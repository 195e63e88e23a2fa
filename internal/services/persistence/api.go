package persistence

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// NewHTTPMux serves the persistence read API.
//
// GET /data/latest
//
//	source=auto|influx|cache  (default auto: try Influx, fall back to cache)
//	minutes=<int>             (Influx window, default 1440)
func NewHTTPMux(svc *Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	mux.HandleFunc("/data/latest", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		source := strings.ToLower(q.Get("source"))
		if source == "" {
			source = "auto"
		}
		minutes := 60 * 24
		if s := q.Get("minutes"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				minutes = n
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		used := ""
		snap, haveCache := svc.Latest()
		if source == "influx" || source == "auto" {
			if fromDB, err := svc.QueryLatestFromInflux(ctx, minutes); err == nil {
				snap = fromDB
				used = "influx"
			}
		}
		if used == "" {
			if !haveCache {
				http.Error(w, "no data yet", http.StatusNotFound)
				return
			}
			used = "cache"
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Data-Source", used)
		_ = json.NewEncoder(w).Encode(snap)
	})

	return mux
}
