// Package radar converts ephemeral agent positions into a short,
// human-labeled hotspot summary in percentage-of-arena coordinates.
package radar

import (
	"math"
	"math/rand"

	"github.com/smartcoop/coopsim/internal/model/entities"
)

const (
	// DefaultCellSize is the spatial bin side in arena units.
	DefaultCellSize = 15.0
	// DefaultThreshold is the minimum agents per cell to flag a hotspot.
	DefaultThreshold = 2

	intensityPerAgent = 20.0
	intensityNoiseMax = 20.0
)

// Config tunes the detector. Landmarks controls the synthetic anchor
// hotspots: they are illustrative dashboard context, not sensed data,
// and every landmark entry is marked Synthetic so consumers can filter
// them out.
type Config struct {
	CellSize  float64
	Threshold int
	Landmarks bool
}

// DefaultConfig keeps the landmark anchors on, matching the historical
// dashboard behavior.
func DefaultConfig() Config {
	return Config{CellSize: DefaultCellSize, Threshold: DefaultThreshold, Landmarks: true}
}

// Detector bins agent positions into a fixed grid over the arena and
// thresholds cell occupancy. Scans are stateless: nothing persists
// between calls and hotspot identity does not survive a scan.
type Detector struct {
	cfg   Config
	arena entities.Arena
	rng   *rand.Rand
}

func New(arena entities.Arena, cfg Config, rng *rand.Rand) *Detector {
	if cfg.CellSize <= 0 {
		cfg.CellSize = DefaultCellSize
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Detector{cfg: cfg, arena: arena, rng: rng}
}

// landmarks are the fixed pseudo-hotspots injected when enabled. Their
// names intentionally overlap with the positional labels below; the
// Synthetic flag is the disambiguator.
var landmarks = []entities.Hotspot{
	{X: 25, Y: 40, Intensity: 75, Name: "Feed Area", Synthetic: true},
	{X: 75, Y: 60, Intensity: 60, Name: "Water Area", Synthetic: true},
	{X: 50, Y: 30, Intensity: 45, Name: "Resting Zone", Synthetic: true},
}

// Scan returns the full hotspot list for the given agent positions:
// synthetic landmarks first (if enabled), then one entry per grid cell
// at or above the occupancy threshold. Cell counts and coordinates are
// deterministic for fixed positions; only the intensity noise draws
// from the random stream.
func (d *Detector) Scan(agents []entities.Agent) []entities.Hotspot {
	cell := d.cfg.CellSize
	gridW := int(d.arena.Width / cell)
	gridH := int(d.arena.Height / cell)
	if gridW < 1 || gridH < 1 {
		return nil
	}

	counts := make([][]int, gridH)
	for y := range counts {
		counts[y] = make([]int, gridW)
	}
	for _, a := range agents {
		gx := clampIdx(int(a.X/cell), gridW-1)
		gy := clampIdx(int(a.Y/cell), gridH-1)
		counts[gy][gx]++
	}

	var out []entities.Hotspot
	if d.cfg.Landmarks {
		out = append(out, landmarks...)
	}

	for y := 0; y < gridH; y++ {
		for x := 0; x < gridW; x++ {
			n := counts[y][x]
			if n < d.cfg.Threshold {
				continue
			}
			centerX := float64(x)*cell + cell/2
			centerY := float64(y)*cell + cell/2
			xPct := centerX / d.arena.Width * 100
			yPct := centerY / d.arena.Height * 100

			out = append(out, entities.Hotspot{
				X:         xPct,
				Y:         yPct,
				Intensity: math.Min(100, float64(n)*intensityPerAgent+d.rng.Float64()*intensityNoiseMax),
				Name:      labelFor(xPct, yPct),
			})
		}
	}
	return out
}

// labelFor picks a name by coordinate third. The labels are positional
// heuristics only; they do not reflect actual feeder or drinker
// placement and may repeat the landmark names.
func labelFor(xPct, yPct float64) string {
	switch {
	case xPct < 30:
		return "Feed Area"
	case xPct > 70:
		return "Water Area"
	case yPct < 30:
		return "Resting Zone"
	default:
		return "Activity Zone"
	}
}

func clampIdx(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
