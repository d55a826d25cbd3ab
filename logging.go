package vram_planner

import (
	"github.com/rs/zerolog"
)

// zlog is the structured logger used by the package,
// silent unless SetLogger installs one.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the package,
// mainly to surface degraded catalog modes and data mismatches.
func SetLogger(l zerolog.Logger) {
	zlog = l
}
