package simulation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/smartcoop/coopsim/internal/model/entities"
)

func TestFlockStaysOnFloor(t *testing.T) {
	arena := entities.DefaultArena()
	f := NewFlock(12, arena, rand.New(rand.NewSource(5)))

	for tick := 0; tick < 10000; tick++ {
		f.Move()
		for i, a := range f.Agents() {
			if a.X < arena.FloorMinX || a.X > arena.FloorMaxX ||
				a.Y < arena.FloorMinY || a.Y > arena.FloorMaxY {
				t.Fatalf("tick %d: agent %d escaped the floor: (%v, %v)", tick, i, a.X, a.Y)
			}
		}
	}
}

func TestFlockSpawnInsideInset(t *testing.T) {
	arena := entities.DefaultArena()
	f := NewFlock(20, arena, rand.New(rand.NewSource(11)))
	for i, a := range f.Agents() {
		if a.X < arena.FloorMinX+20 || a.X > arena.FloorMaxX-20 ||
			a.Y < arena.FloorMinY+20 || a.Y > arena.FloorMaxY-20 {
			t.Fatalf("agent %d spawned outside inset: (%v, %v)", i, a.X, a.Y)
		}
		if a.Speed < 0.5 || a.Speed > 1.5 {
			t.Fatalf("agent %d initial speed = %v, want within [0.5, 1.5]", i, a.Speed)
		}
		if a.Dwell < 20 || a.Dwell > 60 {
			t.Fatalf("agent %d dwell = %d, want within [20, 60]", i, a.Dwell)
		}
	}
}

func TestFlockReflectsAtWall(t *testing.T) {
	arena := entities.DefaultArena()
	f := NewFlock(1, arena, rand.New(rand.NewSource(1)))

	// Pin the agent at the right wall heading straight out. A large
	// dwell keeps the redraw from interfering.
	a := &f.Agents()[0]
	a.X = arena.FloorMaxX - 0.5
	a.Y = (arena.FloorMinY + arena.FloorMaxY) / 2
	a.Heading = 0
	a.Speed = 2
	a.Dwell = 1000

	f.Move()
	a = &f.Agents()[0]
	if a.X != arena.FloorMaxX {
		t.Fatalf("X = %v, want clamped to %v", a.X, arena.FloorMaxX)
	}
	if got, want := a.Heading, math.Pi; math.Abs(got-want) > 1e-9 {
		t.Fatalf("heading after right-wall hit = %v, want %v", got, want)
	}

	// The next tick moves it back inside.
	f.Move()
	a = &f.Agents()[0]
	if a.X >= arena.FloorMaxX {
		t.Fatalf("X = %v, want < %v after reflection", a.X, arena.FloorMaxX)
	}
}

func TestFlockReflectsAtBottom(t *testing.T) {
	arena := entities.DefaultArena()
	f := NewFlock(1, arena, rand.New(rand.NewSource(1)))

	a := &f.Agents()[0]
	a.X = (arena.FloorMinX + arena.FloorMaxX) / 2
	a.Y = arena.FloorMaxY - 0.5
	a.Heading = math.Pi / 2
	a.Speed = 2
	a.Dwell = 1000

	f.Move()
	a = &f.Agents()[0]
	if a.Y != arena.FloorMaxY {
		t.Fatalf("Y = %v, want clamped to %v", a.Y, arena.FloorMaxY)
	}
	if got, want := a.Heading, -math.Pi/2; math.Abs(got-want) > 1e-9 {
		t.Fatalf("heading after bottom-wall hit = %v, want %v", got, want)
	}
}

func TestFlockDwellRedraw(t *testing.T) {
	arena := entities.DefaultArena()
	f := NewFlock(1, arena, rand.New(rand.NewSource(9)))

	a := &f.Agents()[0]
	a.Dwell = 1

	f.Move()
	a = &f.Agents()[0]
	if a.Dwell < 20 || a.Dwell > 60 {
		t.Fatalf("dwell after redraw = %d, want within [20, 60]", a.Dwell)
	}
	if a.Speed < 0.5 || a.Speed > 2 {
		t.Fatalf("speed after redraw = %v, want within [0.5, 2]", a.Speed)
	}
}
