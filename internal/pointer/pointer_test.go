package pointer

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// box returns a 20x20 widget centered on (x, y).
func box(id string, capability Capability, x, y int) Candidate {
	return Candidate{
		ID:         WidgetID(id),
		Capability: capability,
		Bounds:     image.Rect(x-10, y-10, x+10, y+10),
	}
}

func TestComputeRay_FullRightTilt(t *testing.T) {
	g := DefaultGeometry()
	ray := g.ComputeRay(300, 0)

	wantLen := (300.0 / 360.0) * (math.Sqrt(240*240+240*240) / 2)
	assert.InDelta(t, 0, ray.Angle, 1e-12)
	assert.InDelta(t, wantLen, ray.Length, 1e-9)
	assert.InDelta(t, 141.42, ray.Length, 0.01)
	assert.InDelta(t, 120+wantLen, ray.EndX, 1e-9)
	assert.InDelta(t, 130, ray.EndY, 1e-9)
}

func TestComputeRay_ZeroTilt(t *testing.T) {
	g := DefaultGeometry()
	ray := g.ComputeRay(0, 0)
	assert.Zero(t, ray.Length)
	assert.InDelta(t, 120, ray.EndX, 1e-12)
	assert.InDelta(t, 130, ray.EndY, 1e-12)
}

func TestComputeRay_Down(t *testing.T) {
	g := DefaultGeometry()
	ray := g.ComputeRay(0, 180)
	assert.InDelta(t, math.Pi/2, ray.Angle, 1e-12)
	assert.InDelta(t, 120, ray.EndX, 1e-9)
	assert.Greater(t, ray.EndY, 130.0)
}

func TestSelectBest_WidgetDirectlyRight(t *testing.T) {
	g := DefaultGeometry()
	ray := g.ComputeRay(300, 0)

	target := box("ok", Clickable, 195, 130)
	assert.Equal(t, image.Pt(195, 130), target.Center())

	got, ok := g.SelectBest(ray, []Candidate{target})
	require.True(t, ok)
	assert.Equal(t, WidgetID("ok"), got.ID)

	m := g.Eligible(ray, []Candidate{target})
	require.Len(t, m, 1)
	assert.InDelta(t, ray.EndX-195, m[0].Distance, 1e-9)
	assert.InDelta(t, 0, m[0].Angle, 1e-12)
}

func TestSelectBest_ExcludesOutsideAngleTolerance(t *testing.T) {
	g := DefaultGeometry()
	ray := g.ComputeRay(300, 0)

	// 45° below the ray, well inside the ray length
	diag := box("diag", Clickable, 170, 180)
	center := diag.Center()
	dist := math.Hypot(float64(center.X)-ray.EndX, float64(center.Y)-ray.EndY)
	require.Less(t, dist, ray.Length)

	_, ok := g.SelectBest(ray, []Candidate{diag})
	assert.False(t, ok)
}

func TestSelectBest_ExcludesBeyondRayLength(t *testing.T) {
	g := DefaultGeometry()
	ray := g.ComputeRay(60, 0) // short ray, ~28px

	_, ok := g.SelectBest(ray, []Candidate{box("far", Clickable, 195, 130)})
	assert.False(t, ok)
}

func TestSelectBest_IgnoresUnsupportedWidgets(t *testing.T) {
	g := DefaultGeometry()
	ray := g.ComputeRay(300, 0)

	_, ok := g.SelectBest(ray, []Candidate{box("label", Unsupported, 250, 130)})
	assert.False(t, ok)
}

func TestSelectBest_ClosestToEndpointWins(t *testing.T) {
	g := DefaultGeometry()
	ray := g.ComputeRay(300, 0) // endpoint ~ (261, 130)

	cands := []Candidate{
		box("near-origin", Clickable, 175, 130),
		box("slider", Slider, 250, 132),
		box("check", Checkbox, 215, 128),
	}
	got, ok := g.SelectBest(ray, cands)
	require.True(t, ok)
	assert.Equal(t, WidgetID("slider"), got.ID)
	assert.Equal(t, Slider, got.Capability)
}

func TestSelectBest_TieKeepsFirstCandidate(t *testing.T) {
	g := DefaultGeometry()
	ray := g.ComputeRay(0, 300) // straight down, endpoint ~ (120, 271)

	a := box("a", Clickable, 115, 250)
	b := box("b", Clickable, 125, 250)
	got, ok := g.SelectBest(ray, []Candidate{a, b})
	require.True(t, ok)
	assert.Equal(t, WidgetID("a"), got.ID)
}

func TestSelectBest_SeamAtPiIsNotWrapped(t *testing.T) {
	g := DefaultGeometry()
	// Pointing left and slightly down: angle just under +π.
	ray := g.ComputeRay(-300, 10)
	require.Greater(t, ray.Angle, math.Pi-0.1)

	// Same side of the seam: eligible.
	below := box("below", Clickable, 40, 135)
	_, ok := g.SelectBest(ray, []Candidate{below})
	assert.True(t, ok)

	// Just above the horizontal: atan2 flips to about -π. The true angular
	// gap is under 10°, but the raw difference is ~2π so it is rejected.
	above := box("above", Clickable, 40, 125)
	_, ok = g.SelectBest(ray, []Candidate{above})
	assert.False(t, ok, "wraparound at ±π is intentionally not corrected")
}

func TestIndicatorLine(t *testing.T) {
	g := DefaultGeometry()

	start, end := g.IndicatorLine(301, 31)
	assert.Equal(t, image.Pt(120, 130), start)
	assert.Equal(t, image.Pt(220, 130), end)

	_, end = g.IndicatorLine(900, -900)
	assert.Equal(t, image.Pt(240, 0), end, "end point is clamped to the screen")
}

func TestGeometry_ZeroValuesFallBack(t *testing.T) {
	g := Geometry{Width: 240, Height: 240}
	assert.Equal(t, DefaultTiltFullScale, g.fullScale())
	assert.Equal(t, DefaultAngleTolerance, g.tolerance())
}

func TestCapability_String(t *testing.T) {
	assert.Equal(t, "clickable", Clickable.String())
	assert.Equal(t, "checkbox", Checkbox.String())
	assert.Equal(t, "slider", Slider.String())
	assert.Equal(t, "unsupported", Unsupported.String())
	assert.False(t, Unsupported.Selectable())
}
