package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/smartcoop/coopsim/internal/model/messages"
)

// AssistantQuery is the question posed against the recent history
// window.
type AssistantQuery struct {
	Question string `json:"question"`
}

// AssistantAnswer is a plain-text report. The summarizer is rule-based
// over the bounded history; it is a read-only collaborator and never
// touches simulation state.
type AssistantAnswer struct {
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	assistantWindow   = 60 // snapshots considered (~last minute at cadence)
	assistantEvents   = 10
	lowFeedThreshold  = 30.0
	lowWaterThreshold = 30.0
	highTempThreshold = 30.0
)

// Answer builds the report for q. The question only steers which block
// leads; the full picture is always included so the reply stands alone.
func Answer(store *Store, q AssistantQuery) AssistantAnswer {
	cur := store.Current()
	hist := store.RecentSnapshots(assistantWindow)
	events := store.RecentActivity(assistantEvents)

	var b strings.Builder

	if lead := leadFor(q.Question, cur); lead != "" {
		b.WriteString(lead)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Current readings: %.1f°C, %.0f lux, water %.1f%%, feed %.1f%%, humidity %.1f%%.\n",
		cur.Temperature, cur.Light, cur.TankLevel, cur.Feed, cur.Humidity)

	if len(hist) > 1 {
		t := stats(hist, func(s messages.SensorSnapshot) float64 { return s.Temperature })
		wl := stats(hist, func(s messages.SensorSnapshot) float64 { return s.TankLevel })
		f := stats(hist, func(s messages.SensorSnapshot) float64 { return s.Feed })
		fmt.Fprintf(&b, "Over the last %d readings: temperature %.1f–%.1f°C (mean %.1f), water %.1f–%.1f%% (mean %.1f), feed %.1f–%.1f%% (mean %.1f).\n",
			len(hist), t.min, t.max, t.mean, wl.min, wl.max, wl.mean, f.min, f.max, f.mean)
	}

	if warnings := conditionWarnings(cur); len(warnings) > 0 {
		b.WriteString(strings.Join(warnings, " "))
		b.WriteString("\n")
	}

	if len(events) > 0 {
		b.WriteString("Recent activity:")
		for _, e := range events {
			fmt.Fprintf(&b, " %s %s;", e.Title, e.Detail)
		}
		b.WriteString("\n")
	}

	return AssistantAnswer{Answer: strings.TrimSpace(b.String()), Timestamp: time.Now().UTC()}
}

// leadFor answers the question's main subject directly before the
// general report.
func leadFor(question string, cur messages.SensorSnapshot) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "temp") || strings.Contains(q, "heat"):
		if cur.Temperature >= highTempThreshold {
			return fmt.Sprintf("Temperature is high at %.1f°C; the fan engages at 27°C and should be bringing it down.", cur.Temperature)
		}
		return fmt.Sprintf("Temperature is %.1f°C, inside the comfortable band.", cur.Temperature)
	case strings.Contains(q, "water") || strings.Contains(q, "tank"):
		if cur.TankLevel < lowWaterThreshold {
			return fmt.Sprintf("Water is low at %.1f%%; the pump activates below 50%% and refills to 90%%.", cur.TankLevel)
		}
		return fmt.Sprintf("Water tank is at %.1f%%.", cur.TankLevel)
	case strings.Contains(q, "feed") || strings.Contains(q, "food"):
		if cur.Feed < lowFeedThreshold {
			return fmt.Sprintf("Feed is low at %.1f%%; a refill is an operator action, the system only alerts.", cur.Feed)
		}
		return fmt.Sprintf("Feed trough is at %.1f%%.", cur.Feed)
	case strings.Contains(q, "light"):
		return fmt.Sprintf("Light level is %.0f lux; the lamp switches on at 350 lux and off at 550.", cur.Light)
	}
	return ""
}

func conditionWarnings(cur messages.SensorSnapshot) []string {
	var out []string
	if cur.Temperature > highTempThreshold {
		out = append(out, "Temperature is above the comfort band.")
	}
	if cur.TankLevel < lowWaterThreshold {
		out = append(out, "Water level is running low.")
	}
	if cur.Feed < lowFeedThreshold {
		out = append(out, "Feed level is running low; schedule a refill.")
	}
	return out
}

type minMeanMax struct{ min, mean, max float64 }

func stats(hist []messages.SensorSnapshot, get func(messages.SensorSnapshot) float64) minMeanMax {
	m := minMeanMax{min: math.MaxFloat64, max: -math.MaxFloat64}
	var sum float64
	for _, s := range hist {
		v := get(s)
		sum += v
		m.min = math.Min(m.min, v)
		m.max = math.Max(m.max, v)
	}
	m.mean = sum / float64(len(hist))
	return m
}
