package flexpoint

import (
	"image"
	"math"
	"time"

	"github.com/relabs-tech/flexpoint/internal/config"
	"github.com/relabs-tech/flexpoint/internal/motion"
	"github.com/relabs-tech/flexpoint/internal/pointer"
)

// Config holds the tunables of the pointing controller.
type Config struct {
	Geometry pointer.Geometry

	BufferSize   int
	TickInterval time.Duration // periodic driver cadence
	SnapLookback time.Duration // how far back a snap replays tilt

	AdjustTimeout time.Duration // adjustment mode auto-exit

	// Slider mapping: live tilt X in [SliderTiltMin, SliderTiltMax] maps
	// linearly to [SliderMin, SliderMax].
	SliderTiltMin int
	SliderTiltMax int
	SliderMin     int
	SliderMax     int
}

// DefaultConfig returns the values the wearable firmware ships with.
func DefaultConfig() Config {
	return Config{
		Geometry:      pointer.DefaultGeometry(),
		BufferSize:    motion.DefaultCapacity,
		TickInterval:  80 * time.Millisecond,
		SnapLookback:  130 * time.Millisecond,
		AdjustTimeout: 5000 * time.Millisecond,
		SliderTiltMin: -300,
		SliderTiltMax: 300,
		SliderMin:     0,
		SliderMax:     100,
	}
}

// ConfigFrom builds a controller config from the application config file.
func ConfigFrom(c *config.Config) Config {
	return Config{
		Geometry: pointer.Geometry{
			Width:          c.ScreenWidth,
			Height:         c.ScreenHeight,
			OriginOffset:   image.Pt(c.OriginOffsetX, c.OriginOffsetY),
			TiltFullScale:  c.TiltFullScale,
			AngleTolerance: c.AngleToleranceDeg * math.Pi / 180,
		},
		BufferSize:    c.BufferSize,
		TickInterval:  time.Duration(c.TickInterval) * time.Millisecond,
		SnapLookback:  time.Duration(c.SnapLookback) * time.Millisecond,
		AdjustTimeout: time.Duration(c.AdjustTimeout) * time.Millisecond,
		SliderTiltMin: c.SliderTiltMin,
		SliderTiltMax: c.SliderTiltMax,
		SliderMin:     c.SliderMin,
		SliderMax:     c.SliderMax,
	}
}
