package entities

// Hotspot is one flagged cluster in percentage-of-arena coordinates.
// Hotspots are ephemeral: every scan recomputes the full list and no
// identity carries over between scans.
type Hotspot struct {
	X         float64 `json:"x"`         // percent [0,100]
	Y         float64 `json:"y"`         // percent [0,100]
	Intensity float64 `json:"intensity"` // [0,100]
	Name      string  `json:"name"`
	Synthetic bool    `json:"synthetic,omitempty"` // landmark, not measured occupancy
}
