package vram_planner

import (
	"math"
	"strconv"
	"strings"
)

// GigaBytesScalar is the scalar for memory sizes in GiB.
//
// The underlying value keeps full precision,
// rounding to 2 decimal places happens at display time only.
type GigaBytesScalar float64

// Round2 returns the scalar rounded to 2 decimal places,
// which is the display precision of every estimate output.
func (s GigaBytesScalar) Round2() float64 {
	return math.Round(float64(s)*100) / 100
}

func (s GigaBytesScalar) String() string {
	if s <= 0 {
		return "0 GiB"
	}
	f := strconv.FormatFloat(s.Round2(), 'f', 2, 64)
	return strings.TrimSuffix(f, ".00") + " GiB"
}
