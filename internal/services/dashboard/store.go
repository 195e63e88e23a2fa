package dashboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/smartcoop/coopsim/internal/model/entities"
	"github.com/smartcoop/coopsim/internal/model/messages"
	"github.com/smartcoop/coopsim/pkg/ring"
)

// History caps: last ~5 minutes of snapshots at the push cadence, the
// last 50 activity events, the last 100 radar scans.
const (
	SensorHistoryCap   = 300
	ActivityHistoryCap = 50
	HotspotHistoryCap  = 100
)

// Store is the dashboard's single source of truth: latest values plus
// the three bounded history windows. One mutex guards everything; the
// ingest rate is one simulator, not a fleet.
type Store struct {
	mu       sync.RWMutex
	current  messages.SensorSnapshot
	state    messages.SystemState
	scan     messages.HotspotScan
	sensors  *ring.Buffer[messages.SensorSnapshot]
	activity *ring.Buffer[messages.ActivityEvent]
	scans    *ring.Buffer[messages.HotspotScan]
}

func NewStore() *Store {
	return &Store{
		sensors:  ring.New[messages.SensorSnapshot](SensorHistoryCap),
		activity: ring.New[messages.ActivityEvent](ActivityHistoryCap),
		scans:    ring.New[messages.HotspotScan](HotspotHistoryCap),
	}
}

// PutSnapshot validates and stores a sensor push. Malformed input is
// rejected here and never reaches stored state.
func (s *Store) PutSnapshot(in SnapshotIn) error {
	if err := in.validate(); err != nil {
		return err
	}
	snap := messages.SensorSnapshot{
		Temperature: *in.Temperature,
		Humidity:    *in.Humidity,
		TankLevel:   *in.TankLevel,
		Feed:        *in.Feed,
		Light:       *in.Light,
		Timestamp:   time.Now().UTC(),
	}
	if in.Tick != nil {
		snap.Tick = *in.Tick
	}
	s.mu.Lock()
	s.current = snap
	s.sensors.Append(snap)
	s.mu.Unlock()
	return nil
}

// PutActivity validates and appends one activity event.
func (s *Store) PutActivity(in ActivityIn) error {
	if err := in.validate(); err != nil {
		return err
	}
	ev := messages.ActivityEvent{
		ID:        in.ID,
		Title:     in.Title,
		Detail:    in.Detail,
		Color:     in.Color,
		Timestamp: time.Now().UTC(),
	}
	if in.Tick != nil {
		ev.Tick = *in.Tick
	}
	s.mu.Lock()
	s.activity.Append(ev)
	s.mu.Unlock()
	return nil
}

// PutState stores the latest device state.
func (s *Store) PutState(in StateIn) error {
	if err := in.validate(); err != nil {
		return err
	}
	st := messages.SystemState{
		Fan:       *in.Fan,
		Pump:      *in.Pump,
		LightOn:   *in.LightOn,
		FeedAlert: *in.FeedAlert,
		Timestamp: time.Now().UTC(),
	}
	if in.Tick != nil {
		st.Tick = *in.Tick
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

// PutScan stores a hotspot scan and appends it to history.
func (s *Store) PutScan(in ScanIn) error {
	if err := in.validate(); err != nil {
		return err
	}
	sc := messages.HotspotScan{
		Hotspots:  in.Hotspots,
		Timestamp: time.Now().UTC(),
	}
	if in.Tick != nil {
		sc.Tick = *in.Tick
	}
	s.mu.Lock()
	s.scan = sc
	s.scans.Append(sc)
	s.mu.Unlock()
	return nil
}

func (s *Store) Current() messages.SensorSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) State() messages.SystemState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) LatestScan() messages.HotspotScan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scan
}

func (s *Store) RecentActivity(n int) []messages.ActivityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activity.Last(n)
}

func (s *Store) RecentSnapshots(n int) []messages.SensorSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sensors.Last(n)
}

func (s *Store) HistorySizes() (sensors, activity, scans int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sensors.Len(), s.activity.Len(), s.scans.Len()
}

// ---------- ingest payloads ----------
//
// Pointer fields distinguish "missing" from zero so absent readings are
// rejected instead of silently coerced.

type SnapshotIn struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	TankLevel   *float64 `json:"tankLevel"`
	Feed        *float64 `json:"feed"`
	Light       *float64 `json:"light"`
	Tick        *int64   `json:"tick"`
}

func (in SnapshotIn) validate() error {
	for name, v := range map[string]*float64{
		"temperature": in.Temperature,
		"humidity":    in.Humidity,
		"tankLevel":   in.TankLevel,
		"feed":        in.Feed,
		"light":       in.Light,
	} {
		if v == nil {
			return fmt.Errorf("missing field %q", name)
		}
	}
	if *in.Temperature < entities.TemperatureMin || *in.Temperature > entities.TemperatureMax {
		return fmt.Errorf("temperature %.2f out of range", *in.Temperature)
	}
	if *in.Light < entities.LightMin || *in.Light > entities.LightMax {
		return fmt.Errorf("light %.2f out of range", *in.Light)
	}
	if *in.TankLevel < entities.LevelMin || *in.TankLevel > entities.LevelMax {
		return fmt.Errorf("tankLevel %.2f out of range", *in.TankLevel)
	}
	if *in.Feed < entities.LevelMin || *in.Feed > entities.LevelMax {
		return fmt.Errorf("feed %.2f out of range", *in.Feed)
	}
	return nil
}

type ActivityIn struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Color  string `json:"color"`
	Tick   *int64 `json:"tick"`
}

func (in ActivityIn) validate() error {
	if in.Title == "" {
		return fmt.Errorf("missing field %q", "title")
	}
	if in.Detail == "" {
		return fmt.Errorf("missing field %q", "detail")
	}
	return nil
}

type StateIn struct {
	Fan       *bool  `json:"fan"`
	Pump      *bool  `json:"pump"`
	LightOn   *bool  `json:"light_on"`
	FeedAlert *bool  `json:"feed_alert"`
	Tick      *int64 `json:"tick"`
}

func (in StateIn) validate() error {
	for name, v := range map[string]*bool{
		"fan":        in.Fan,
		"pump":       in.Pump,
		"light_on":   in.LightOn,
		"feed_alert": in.FeedAlert,
	} {
		if v == nil {
			return fmt.Errorf("missing field %q", name)
		}
	}
	return nil
}

type ScanIn struct {
	Hotspots []entities.Hotspot `json:"hotspots"`
	Tick     *int64             `json:"tick"`
}

func (in ScanIn) validate() error {
	if in.Hotspots == nil {
		return fmt.Errorf("missing field %q", "hotspots")
	}
	for i, h := range in.Hotspots {
		if h.X < 0 || h.X > 100 || h.Y < 0 || h.Y > 100 {
			return fmt.Errorf("hotspot %d coordinates out of range", i)
		}
	}
	return nil
}
