package entities

// Agent is one mobile animal on the enclosure floor. Heading and speed
// stay fixed for a dwell period, then both are redrawn.
type Agent struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"` // radians
	Speed   float64 `json:"speed"`   // units per tick
	Dwell   int     `json:"-"`       // ticks until heading/speed redraw
}

// Arena is the rectangular region agents are confined to. Bounds describe
// the walkable floor, inset from the full arena so agents never enter the
// wall and device strips.
type Arena struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	FloorMinX float64 `json:"floor_min_x"`
	FloorMaxX float64 `json:"floor_max_x"`
	FloorMinY float64 `json:"floor_min_y"`
	FloorMaxY float64 `json:"floor_max_y"`
}

// DefaultArena matches the 800x500 enclosure with its walkable floor.
func DefaultArena() Arena {
	return Arena{
		Width:  800,
		Height: 500,

		FloorMinX: 80,
		FloorMaxX: 720,
		FloorMinY: 220,
		FloorMaxY: 420,
	}
}
