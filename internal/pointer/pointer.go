// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package pointer turns a tilt vector into a ray from the screen origin and
// picks the widget that ray points at.
package pointer

import (
	"image"
	"math"

	"github.com/relabs-tech/flexpoint/internal/mathx"
)

const (
	// DefaultTiltFullScale is the tilt amplitude that stretches the ray to
	// half the screen diagonal. Tilt is treated as a pseudo-degree unit.
	DefaultTiltFullScale = 360.0

	// DefaultAngleTolerance is the half-width of the eligibility cone (10°).
	DefaultAngleTolerance = 10 * math.Pi / 180

	// indicatorFullScale maps tilt onto the indicator line: a tilt of this
	// magnitude spans the full screen width.
	indicatorFullScale = 720.0
)

// Geometry holds the screen constants the engine works against.
type Geometry struct {
	Width          int
	Height         int
	OriginOffset   image.Point // ray start relative to the screen center
	TiltFullScale  float64
	AngleTolerance float64 // radians
}

// DefaultGeometry matches the 240x240 wrist display.
func DefaultGeometry() Geometry {
	return Geometry{
		Width:          240,
		Height:         240,
		OriginOffset:   image.Pt(0, 10),
		TiltFullScale:  DefaultTiltFullScale,
		AngleTolerance: DefaultAngleTolerance,
	}
}

// Origin is the point every ray starts from.
func (g Geometry) Origin() image.Point {
	return image.Pt(g.Width/2+g.OriginOffset.X, g.Height/2+g.OriginOffset.Y)
}

// Diagonal is the screen diagonal in pixels.
func (g Geometry) Diagonal() float64 {
	return math.Sqrt(float64(g.Width*g.Width + g.Height*g.Height))
}

// Ray is the pointing direction derived from one tilt reading.
type Ray struct {
	Angle  float64 `json:"angle"` // radians, atan2 convention (+y is down on screen)
	Length float64 `json:"length"`
	EndX   float64 `json:"end_x"`
	EndY   float64 `json:"end_y"`
}

// ComputeRay maps a tilt vector to a ray. The amplitude is scaled against
// half the screen diagonal, so a tilt of TiltFullScale reaches the corner.
func (g Geometry) ComputeRay(tiltX, tiltY int) Ray {
	fx, fy := float64(tiltX), float64(tiltY)
	angle := math.Atan2(fy, fx)
	amplitude := math.Sqrt(fx*fx + fy*fy)
	length := (amplitude / g.fullScale()) * (g.Diagonal() / 2)

	o := g.Origin()
	return Ray{
		Angle:  angle,
		Length: length,
		EndX:   float64(o.X) + length*math.Cos(angle),
		EndY:   float64(o.Y) + length*math.Sin(angle),
	}
}

// Match is a candidate that passed the eligibility window.
type Match struct {
	Candidate
	Distance float64 // widget center to ray endpoint
	Angle    float64 // direction of the widget center from the origin
}

// Eligible scores every selectable candidate against the ray and returns the
// ones inside the eligibility window, in input order.
//
// The angular test compares raw atan2 values, so a widget sitting just across
// the ±π seam from the ray (pointing left) is rejected even when it is
// angularly adjacent.
func (g Geometry) Eligible(ray Ray, candidates []Candidate) []Match {
	o := g.Origin()
	tol := g.tolerance()

	var out []Match
	for _, c := range candidates {
		if !c.Capability.Selectable() {
			continue
		}
		center := c.Center()
		cx, cy := float64(center.X), float64(center.Y)

		dist := math.Hypot(cx-ray.EndX, cy-ray.EndY)
		angle := math.Atan2(cy-float64(o.Y), cx-float64(o.X))

		if mathx.Abs(angle-ray.Angle) <= tol && dist <= ray.Length {
			out = append(out, Match{Candidate: c, Distance: dist, Angle: angle})
		}
	}
	return out
}

// SelectBest returns the eligible candidate closest to the ray endpoint.
// Ties keep the earlier candidate. ok is false when nothing is eligible.
func (g Geometry) SelectBest(ray Ray, candidates []Candidate) (best Candidate, ok bool) {
	bestDist := math.Inf(1)
	for _, m := range g.Eligible(ray, candidates) {
		if m.Distance < bestDist {
			best, bestDist, ok = m.Candidate, m.Distance, true
		}
	}
	return best, ok
}

// IndicatorLine returns the endpoints of the on-screen pointer line. The
// start is the ray origin; the end follows tilt linearly from the screen
// center and is clamped to the screen.
func (g Geometry) IndicatorLine(tiltX, tiltY int) (start, end image.Point) {
	scaleX := float64(g.Width) / indicatorFullScale
	scaleY := float64(g.Height) / indicatorFullScale

	endX := g.Width/2 + int(float64(tiltX)*scaleX)
	endY := g.Height/2 + int(float64(tiltY)*scaleY)

	return g.Origin(), image.Pt(mathx.Clamp(endX, 0, g.Width), mathx.Clamp(endY, 0, g.Height))
}

func (g Geometry) fullScale() float64 {
	if g.TiltFullScale <= 0 {
		return DefaultTiltFullScale
	}
	return g.TiltFullScale
}

func (g Geometry) tolerance() float64 {
	if g.AngleTolerance <= 0 {
		return DefaultAngleTolerance
	}
	return g.AngleTolerance
}
