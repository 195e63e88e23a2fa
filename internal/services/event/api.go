package event

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// RecentEvent is the shape served to dashboard clients.
type RecentEvent struct {
	EventType string `json:"event_type"`
	Subject   string `json:"subject,omitempty"`
	Severity  string `json:"severity"`
	Detail    string `json:"detail,omitempty"`
	Time      string `json:"time"` // RFC3339
}

type recentQueryParams struct {
	Minutes   int
	Limit     int
	TimeoutMS int
}

func parseRecent(r *http.Request, defMin, defLim, defTOms int) recentQueryParams {
	q := r.URL.Query()
	get := func(k string, def, min, max int) int {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				if n < min {
					return min
				}
				if max > 0 && n > max {
					return max
				}
				return n
			}
		}
		return def
	}
	return recentQueryParams{
		Minutes:   get("minutes", defMin, 1, 7*24*60),
		Limit:     get("limit", defLim, 1, 500),
		TimeoutMS: get("timeout_ms", defTOms, 200, 5000),
	}
}

func buildFlux(bucket string, minutes, limit int) string {
	return fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dm)
  |> filter(fn: (r) => r._measurement == "coop_event" and r.event_type == "coop.activity")
  |> filter(fn: (r) => r._field == "detail")
  |> keep(columns: ["_time","_value","event_type","subject","severity"])
  |> sort(columns: ["_time"], desc: true)
  |> limit(n:%d)
`, bucket, minutes, limit)
}

func runRecent(w http.ResponseWriter, r *http.Request, influx influxdb2.Client, org, bucket string, defMin, defLim int) {
	p := parseRecent(r, defMin, defLim, 2000)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(p.TimeoutMS)*time.Millisecond)
	defer cancel()

	api := influx.QueryAPI(org)
	res, err := api.Query(ctx, buildFlux(bucket, p.Minutes, p.Limit))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Error", "influx-query-error")
		_, _ = w.Write([]byte("[]"))
		return
	}
	defer func() { _ = res.Close() }()

	out := make([]RecentEvent, 0, p.Limit)
	for res.Next() {
		rec := res.Record()

		var detail string
		if s, ok := rec.Value().(string); ok {
			detail = s
		}

		tag := func(key string) string {
			if v := rec.ValueByKey(key); v != nil {
				if s, ok := v.(string); ok {
					return s
				}
			}
			return ""
		}

		out = append(out, RecentEvent{
			EventType: tag("event_type"),
			Subject:   tag("subject"),
			Severity:  tag("severity"),
			Detail:    detail,
			Time:      rec.Time().UTC().Format(time.RFC3339),
		})
	}
	if res.Err() != nil {
		w.Header().Set("X-Error", "influx-iter-error")
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// NewRecentHandler serves GET /events/recent?limit=20[&minutes=1440].
func NewRecentHandler(influx influxdb2.Client, org, bucket string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runRecent(w, r, influx, org, bucket, 1440, 20)
	})
}
