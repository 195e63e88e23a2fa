package model

import (
	"github.com/smartcoop/coopsim/internal/model/messages"
)

// Aliases exposing the wire messages the services consume. Packages that
// need the simulation-side types import entities directly.

type (
	SensorSnapshot = messages.SensorSnapshot
	ActivityEvent  = messages.ActivityEvent
	SystemState    = messages.SystemState
)
