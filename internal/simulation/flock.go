package simulation

import (
	"math"
	"math/rand"

	"github.com/smartcoop/coopsim/internal/model/entities"
)

const (
	dwellMin = 20 // ticks before heading/speed redraw
	dwellMax = 60

	spawnInset = 20 // distance from the floor bounds at spawn
)

// Flock owns the mobile agents of the enclosure. Each agent performs a
// biased random walk: heading and speed stay fixed for a dwell period,
// position integrates each tick, and walls reflect the heading.
type Flock struct {
	arena  entities.Arena
	agents []entities.Agent
	rng    *rand.Rand
}

// NewFlock spawns n agents at random positions inset from the floor
// bounds, with random initial headings.
func NewFlock(n int, arena entities.Arena, rng *rand.Rand) *Flock {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	f := &Flock{arena: arena, rng: rng}
	f.agents = make([]entities.Agent, n)
	for i := range f.agents {
		f.agents[i] = entities.Agent{
			X:       f.uniform(arena.FloorMinX+spawnInset, arena.FloorMaxX-spawnInset),
			Y:       f.uniform(arena.FloorMinY+spawnInset, arena.FloorMaxY-spawnInset),
			Heading: f.uniform(0, 2*math.Pi),
			Speed:   f.uniform(0.5, 1.5),
			Dwell:   dwellMin + f.rng.Intn(dwellMax-dwellMin+1),
		}
	}
	return f
}

// Agents returns the live agent slice. Callers must not retain it across
// a Move; the radar scan reads it between motion and environment update.
func (f *Flock) Agents() []entities.Agent { return f.agents }

// Move advances every agent one tick and keeps it inside the floor
// rectangle. A horizontal bound flips the heading via π−θ, a vertical
// bound negates it.
func (f *Flock) Move() {
	for i := range f.agents {
		a := &f.agents[i]

		a.Dwell--
		if a.Dwell <= 0 {
			a.Heading = f.uniform(0, 2*math.Pi)
			a.Speed = f.uniform(0.5, 2)
			a.Dwell = dwellMin + f.rng.Intn(dwellMax-dwellMin+1)
		}

		a.X += math.Cos(a.Heading) * a.Speed
		a.Y += math.Sin(a.Heading) * a.Speed

		a.X = clampF(a.X, f.arena.FloorMinX, f.arena.FloorMaxX)
		a.Y = clampF(a.Y, f.arena.FloorMinY, f.arena.FloorMaxY)

		if a.X <= f.arena.FloorMinX || a.X >= f.arena.FloorMaxX {
			a.Heading = math.Pi - a.Heading
		}
		if a.Y <= f.arena.FloorMinY || a.Y >= f.arena.FloorMaxY {
			a.Heading = -a.Heading
		}
	}
}

func (f *Flock) uniform(lo, hi float64) float64 {
	return lo + f.rng.Float64()*(hi-lo)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
