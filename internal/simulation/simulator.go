package simulation

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/smartcoop/coopsim/internal/automation"
	"github.com/smartcoop/coopsim/internal/model/entities"
	"github.com/smartcoop/coopsim/internal/model/messages"
	"github.com/smartcoop/coopsim/internal/radar"
)

// Sink receives the per-tick outputs of the simulation. Implementations
// live in the sync layer; they must never block the tick loop and must
// swallow transport failures. The core has no knowledge of delivery.
type Sink interface {
	PushSnapshot(messages.SensorSnapshot)
	PushActivity(messages.ActivityEvent)
	PushSystemState(messages.SystemState)
	PushHotspots(messages.HotspotScan)
}

// Config tunes one simulation run.
type Config struct {
	TickInterval  time.Duration // target ~33ms (30 Hz); not hard real-time
	SnapshotEvery int64         // ticks between sensor snapshot pushes
	HotspotEvery  int64         // ticks between hotspot list pushes
	AgentCount    int
	Seed          int64
	Arena         entities.Arena
	Radar         radar.Config
}

// DefaultConfig mirrors the historical cadence: 30 Hz ticks, snapshots
// every 15 ticks, hotspot pushes every 30.
func DefaultConfig() Config {
	return Config{
		TickInterval:  33 * time.Millisecond,
		SnapshotEvery: 15,
		HotspotEvery:  30,
		AgentCount:    5,
		Seed:          1,
		Arena:         entities.DefaultArena(),
		Radar:         radar.DefaultConfig(),
	}
}

// Simulator is the single owner of all mutable simulation state: the
// environment model, the actuator state, the flock and the radar. One
// logical writer, no locking. Per tick, strictly in order:
// move → scan → environment update → decide → notify.
type Simulator struct {
	cfg   Config
	env   *EnvironmentModel
	flock *Flock
	det   *radar.Detector
	act   entities.ActuatorState
	tick  int64
	sink  Sink
	jrng  *rand.Rand // sync-boundary jitter (humidity), separate stream
}

// New builds a simulator. Each component gets its own seeded stream so
// a fixed Seed reproduces the whole run. sink may be nil for headless
// use (tests drive Step directly).
func New(cfg Config, sink Sink) *Simulator {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 33 * time.Millisecond
	}
	if cfg.SnapshotEvery <= 0 {
		cfg.SnapshotEvery = 15
	}
	if cfg.HotspotEvery <= 0 {
		cfg.HotspotEvery = 30
	}
	return &Simulator{
		cfg:   cfg,
		env:   NewEnvironmentModel(rand.New(rand.NewSource(cfg.Seed))),
		flock: NewFlock(cfg.AgentCount, cfg.Arena, rand.New(rand.NewSource(cfg.Seed+1))),
		det:   radar.New(cfg.Arena, cfg.Radar, rand.New(rand.NewSource(cfg.Seed+2))),
		sink:  sink,
		jrng:  rand.New(rand.NewSource(cfg.Seed + 3)),
	}
}

// Actuators returns the current device state snapshot.
func (s *Simulator) Actuators() entities.ActuatorState { return s.act.Snapshot() }

// Environment returns the current readings.
func (s *Simulator) Environment() entities.EnvironmentState { return s.env.State() }

// Tick returns the number of completed steps.
func (s *Simulator) Tick() int64 { return s.tick }

// Step advances the simulation one tick and hands the outputs to the
// sink. The strict motion→detection barrier matters: the scan reads
// positions settled by this tick's Move.
func (s *Simulator) Step() {
	s.tick++

	s.flock.Move()
	scan := s.det.Scan(s.flock.Agents())
	env := s.env.Update(s.act)

	next, events := automation.Decide(env, s.act, s.tick)
	s.act = next

	s.notify(env, scan, events)
}

// Run drives Step on the configured cadence until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) {
	t := time.NewTicker(s.cfg.TickInterval)
	defer t.Stop()
	log.Printf("simulator: loop started interval=%s agents=%d seed=%d",
		s.cfg.TickInterval, s.cfg.AgentCount, s.cfg.Seed)
	for {
		select {
		case <-ctx.Done():
			log.Printf("simulator: loop stopped at tick=%d", s.tick)
			return
		case <-t.C:
			s.Step()
		}
	}
}

func (s *Simulator) notify(env entities.EnvironmentState, scan []entities.Hotspot, events []entities.Event) {
	if s.sink == nil {
		return
	}
	now := time.Now().UTC()

	// Device state goes out every tick: it is live state, not an event.
	s.sink.PushSystemState(messages.SystemState{
		Fan:       s.act.FanOn,
		Pump:      s.act.PumpOn,
		LightOn:   s.act.LightOn,
		FeedAlert: s.act.FeedAlertSent,
		Tick:      s.tick,
		Timestamp: now,
	})

	// Single-event-per-tick notification policy.
	if ev, ok := automation.FirstEvent(events); ok {
		ae := messages.FromEvent(ev)
		ae.Timestamp = now
		s.sink.PushActivity(ae)
	}

	if s.tick%s.cfg.SnapshotEvery == 0 {
		s.sink.PushSnapshot(messages.SensorSnapshot{
			Temperature: round2(env.Temperature),
			Humidity:    round2(45 + s.jrng.Float64()*30), // not modeled in-core, jittered at the boundary
			TankLevel:   round1(env.WaterLevel),
			Feed:        round1(env.FeedLevel),
			Light:       round2(env.Light),
			Tick:        s.tick,
			Timestamp:   now,
		})
	}

	if s.tick%s.cfg.HotspotEvery == 0 {
		s.sink.PushHotspots(messages.HotspotScan{
			Hotspots:  scan,
			Tick:      s.tick,
			Timestamp: now,
		})
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
