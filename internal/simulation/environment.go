package simulation

import (
	"math"
	"math/rand"

	"github.com/smartcoop/coopsim/internal/model/entities"
)

// ====== Tunables ======
const (
	// ambientPeriod: ticks per ambient temperature swing. With the fan off
	// the temperature follows a slow sinusoid plus noise.
	ambientPeriod = 60.0

	// daylightPeriod: ticks per day/night light cycle.
	daylightPeriod = 100.0

	// evaporation: base rate plus a linear term above 25°C.
	evapBase      = 0.1
	evapSlope     = 0.05
	evapTempKnee  = 25.0
	evapTempScale = 10.0
)

// Initial readings of a freshly started enclosure.
const (
	initialTemperature = 26.0
	initialLight       = 320.0
	initialWaterLevel  = 85.0
	initialFeedLevel   = 75.0
)

// EnvironmentModel advances the four enclosure readings one tick at a
// time. Each actuator effect pushes opposite to its own trigger
// condition, so every reading converges back toward its operating band.
// Output is deterministic given the random stream.
type EnvironmentModel struct {
	tick int64
	env  entities.EnvironmentState
	rng  *rand.Rand
}

// NewEnvironmentModel creates a model over the given random stream.
func NewEnvironmentModel(rng *rand.Rand) *EnvironmentModel {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &EnvironmentModel{
		rng: rng,
		env: entities.EnvironmentState{
			Temperature: initialTemperature,
			Light:       initialLight,
			WaterLevel:  initialWaterLevel,
			FeedLevel:   initialFeedLevel,
		},
	}
}

// State returns the current readings without advancing time.
func (m *EnvironmentModel) State() entities.EnvironmentState { return m.env }

// Tick returns the number of updates applied so far.
func (m *EnvironmentModel) Tick() int64 { return m.tick }

// Update advances the model one tick under the given actuator state and
// returns the clamped readings.
func (m *EnvironmentModel) Update(act entities.ActuatorState) entities.EnvironmentState {
	m.tick++
	t := float64(m.tick)

	// Temperature: fan cools by a bounded random amount, otherwise a slow
	// ambient sinusoid plus noise.
	if act.FanOn {
		m.env.Temperature -= m.uniform(0.2, 0.4)
	} else {
		m.env.Temperature += math.Sin(t/ambientPeriod)*0.3 + m.uniform(-0.15, 0.25)
	}

	// Light: the lamp raises it, otherwise the day/night cycle drives it.
	if act.LightOn {
		m.env.Light += m.uniform(3, 6)
	} else {
		cycle := math.Sin(t/daylightPeriod) * 100
		m.env.Light += cycle*0.02 + m.uniform(-5, 5)
	}

	// Water: pump refills, otherwise evaporation. Evaporation speeds up
	// with temperature above the knee; uses the temperature of this tick.
	evap := evapBase + evapSlope*math.Max(0, (m.env.Temperature-evapTempKnee)/evapTempScale)
	if act.PumpOn {
		m.env.WaterLevel += m.uniform(0.01, 1.5)
	} else {
		m.env.WaterLevel -= evap
	}

	// Feed: consumed every tick, refill is an operator action outside the
	// simulation.
	m.env.FeedLevel -= m.uniform(0.01, 0.12)

	m.env.Clamp()
	return m.env
}

func (m *EnvironmentModel) uniform(lo, hi float64) float64 {
	return lo + m.rng.Float64()*(hi-lo)
}
