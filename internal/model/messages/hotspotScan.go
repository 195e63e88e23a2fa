package messages

import (
	"time"

	"github.com/smartcoop/coopsim/internal/model/entities"
)

// HotspotScan carries one full radar scan. The list is rebuilt on every
// scan; entries have no identity across scans.
type HotspotScan struct {
	Hotspots  []entities.Hotspot `json:"hotspots"`
	Tick      int64              `json:"tick,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}
