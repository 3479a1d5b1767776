package orientation

import (
	"math"

	"github.com/relabs-tech/flexpoint/internal/mathx"
)

// MaxTilt bounds each tilt axis. Beyond it the pointer is pinned to the
// screen edge anyway.
const MaxTilt = 720

// Tilt is a 2-axis wrist tilt in the engine's pseudo-degree units. X grows
// when the wrist rolls right, Y when it pitches toward the user, which moves
// the pointer down the screen.
type Tilt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Source is anything that can provide tilt readings over time.
type Source interface {
	Next() (Tilt, error)
}

// ComputeTiltFromAccel derives tilt from accelerometer data only. Units do
// not matter, only the ratios between axes:
//
//	roll  = atan2(ay, az)
//	pitch = atan2(-ax, sqrt(ay² + az²))
//
// Both angles are converted to degrees, scaled by gain and rounded.
func ComputeTiltFromAccel(ax, ay, az, gain float64) Tilt {
	rollDeg := math.Atan2(ay, az) * 180.0 / math.Pi
	pitchDeg := math.Atan2(-ax, math.Sqrt(ay*ay+az*az)) * 180.0 / math.Pi

	return Tilt{
		X: mathx.Clamp(int(math.Round(rollDeg*gain)), -MaxTilt, MaxTilt),
		Y: mathx.Clamp(int(math.Round(pitchDeg*gain)), -MaxTilt, MaxTilt),
	}
}
