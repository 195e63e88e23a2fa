package radar

import (
	"math/rand"
	"testing"

	"github.com/smartcoop/coopsim/internal/model/entities"
)

// cluster returns n agents stacked in (roughly) the same spot.
func cluster(n int, x, y float64) []entities.Agent {
	out := make([]entities.Agent, n)
	for i := range out {
		out[i] = entities.Agent{X: x + float64(i)*0.1, Y: y}
	}
	return out
}

func measured(scan []entities.Hotspot) []entities.Hotspot {
	var out []entities.Hotspot
	for _, h := range scan {
		if !h.Synthetic {
			out = append(out, h)
		}
	}
	return out
}

func TestScanThreshold(t *testing.T) {
	arena := entities.DefaultArena()
	cfg := DefaultConfig()
	cfg.Landmarks = false
	d := New(arena, cfg, rand.New(rand.NewSource(1)))

	t.Run("lone agent is not a hotspot", func(t *testing.T) {
		scan := d.Scan(cluster(1, 400, 300))
		if len(scan) != 0 {
			t.Fatalf("len(scan) = %d, want 0 below threshold", len(scan))
		}
	})

	t.Run("pair at threshold is", func(t *testing.T) {
		scan := d.Scan(cluster(2, 400, 300))
		if len(scan) != 1 {
			t.Fatalf("len(scan) = %d, want 1", len(scan))
		}
		h := scan[0]
		if h.Synthetic {
			t.Fatalf("measured hotspot marked synthetic: %+v", h)
		}
		if h.Intensity < 40 || h.Intensity > 60 {
			t.Fatalf("intensity = %v, want within [40, 60) for 2 agents", h.Intensity)
		}
	})
}

func TestScanCellCoordinates(t *testing.T) {
	arena := entities.DefaultArena()
	cfg := DefaultConfig()
	cfg.Landmarks = false
	d := New(arena, cfg, rand.New(rand.NewSource(1)))

	// Agents at (400, 300) fall in the cell whose center is (397.5, 307.5).
	scan := d.Scan(cluster(3, 400, 300))
	if len(scan) != 1 {
		t.Fatalf("len(scan) = %d, want 1", len(scan))
	}
	h := scan[0]
	wantX := 397.5 / arena.Width * 100
	wantY := 307.5 / arena.Height * 100
	if h.X != wantX || h.Y != wantY {
		t.Fatalf("hotspot at (%v, %v), want (%v, %v)", h.X, h.Y, wantX, wantY)
	}
}

func TestScanCountsDeterministic(t *testing.T) {
	arena := entities.DefaultArena()
	cfg := DefaultConfig()
	cfg.Landmarks = false

	agents := append(cluster(3, 200, 300), cluster(2, 600, 400)...)

	a := New(arena, cfg, rand.New(rand.NewSource(4)))
	b := New(arena, cfg, rand.New(rand.NewSource(4)))
	sa, sb := a.Scan(agents), b.Scan(agents)

	if len(sa) != 2 || len(sb) != 2 {
		t.Fatalf("len = %d and %d, want 2 hotspots each", len(sa), len(sb))
	}
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("same seed diverged at %d: %+v vs %+v", i, sa[i], sb[i])
		}
	}
}

func TestScanLandmarks(t *testing.T) {
	arena := entities.DefaultArena()
	d := New(arena, DefaultConfig(), rand.New(rand.NewSource(1)))

	scan := d.Scan(nil)
	if len(scan) != 3 {
		t.Fatalf("len(scan) = %d, want the 3 landmarks with no agents", len(scan))
	}
	for _, h := range scan {
		if !h.Synthetic {
			t.Fatalf("landmark not marked synthetic: %+v", h)
		}
	}
	if scan[0].Name != "Feed Area" || scan[1].Name != "Water Area" || scan[2].Name != "Resting Zone" {
		t.Fatalf("landmark order/names wrong: %+v", scan)
	}

	// With agents present, landmarks come first and measured cells after.
	scan = d.Scan(cluster(4, 400, 300))
	if len(scan) != 4 {
		t.Fatalf("len(scan) = %d, want 3 landmarks + 1 measured", len(scan))
	}
	if got := measured(scan); len(got) != 1 {
		t.Fatalf("measured = %d, want 1", len(got))
	}
}

func TestLabelForThirds(t *testing.T) {
	cases := []struct {
		x, y float64
		want string
	}{
		{10, 50, "Feed Area"},
		{90, 50, "Water Area"},
		{50, 10, "Resting Zone"},
		{50, 50, "Activity Zone"},
	}
	for _, c := range cases {
		if got := labelFor(c.x, c.y); got != c.want {
			t.Fatalf("labelFor(%v, %v) = %q, want %q", c.x, c.y, got, c.want)
		}
	}
}

func TestScanIntensityCapped(t *testing.T) {
	arena := entities.DefaultArena()
	cfg := DefaultConfig()
	cfg.Landmarks = false
	d := New(arena, cfg, rand.New(rand.NewSource(2)))

	scan := d.Scan(cluster(10, 400, 300))
	if len(scan) != 1 {
		t.Fatalf("len(scan) = %d, want 1", len(scan))
	}
	if scan[0].Intensity != 100 {
		t.Fatalf("intensity = %v, want capped at 100", scan[0].Intensity)
	}
}
