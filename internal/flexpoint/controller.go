// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package flexpoint implements tilt pointing: a periodic driver that aims a
// ray from the wrist tilt, a snap gesture that commits the widget the ray
// was on just before the gesture, and a slider adjustment mode.
package flexpoint

import (
	"sync"
	"time"

	"github.com/relabs-tech/flexpoint/internal/mathx"
	"github.com/relabs-tech/flexpoint/internal/monitoring"
	"github.com/relabs-tech/flexpoint/internal/motion"
	"github.com/relabs-tech/flexpoint/internal/pointer"
)

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the system clock.
func WithClock(clk Clock) Option {
	return func(c *Controller) { c.clock = clk }
}

// WithScreen attaches a screen at construction time.
func WithScreen(s Screen) Option {
	return func(c *Controller) {
		if s != nil {
			c.screen = s
		}
	}
}

// Controller owns all pointing state. Every public method serializes on one
// mutex. Engine and widget callbacks run after the mutex is released, so a
// callback may call back into the controller (e.g. SetActive firing an
// activation handler that calls Enable).
type Controller struct {
	mu sync.Mutex

	cfg    Config
	engine Engine
	screen Screen
	clock  Clock
	epoch  time.Time
	buffer *motion.RingBuffer

	enabled       bool
	lineHidden    bool
	selected      pointer.Candidate
	hasSelected   bool
	adjusting     bool
	adjustStarted time.Duration
	rapid         bool
	pendingHaptic bool
	lastRay       pointer.Ray
	snaps         int

	after []func()
}

// New creates a controller in the Idle state: disabled, nothing selected,
// buffer zeroed.
func New(cfg Config, engine Engine, opts ...Option) *Controller {
	c := &Controller{
		cfg:    cfg,
		engine: engine,
		screen: nopScreen{},
		clock:  systemClock{},
		buffer: motion.NewRingBuffer(cfg.BufferSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.epoch = c.clock.Now()
	return c
}

// Attach switches the controller to a new screen. The previous selection is
// unfocused on the old screen and dropped, since its widget ID means nothing
// on the new one.
func (c *Controller) Attach(s Screen) {
	c.mu.Lock()
	defer c.unlock()

	if c.hasSelected {
		c.screen.SetFocused(c.selected.ID, false)
	}
	if s == nil {
		s = nopScreen{}
	}
	c.screen = s
	c.hasSelected = false
	c.selected = pointer.Candidate{}
	c.adjusting = false
	c.lineHidden = false
}

// Enable shows or hides the pointer. Disabling also drops rapid mode and
// any slider adjustment in progress. Enabling is ignored while adjusting:
// the pointer stays frozen on the slider until the adjustment ends.
func (c *Controller) Enable(on bool) {
	c.mu.Lock()
	defer c.unlock()

	if on && c.adjusting {
		return
	}
	c.enabled = on
	c.screen.SetIndicatorHidden(!on)
	c.lineHidden = !on
	if !on {
		c.rapid = false
		c.adjusting = false
	}
}

// EnableRapid keeps the device active across consecutive commits. It has no
// effect while the device is inactive.
func (c *Controller) EnableRapid() {
	c.mu.Lock()
	defer c.unlock()

	if !c.engine.IsActive() {
		return
	}
	c.rapid = true
	c.pendingHaptic = true
	c.after = append(c.after, func() { c.engine.SetActive(true) })
}

// Tick runs one periodic step at time now: record tilt, aim the pointer
// while enabled, and drive the slider while adjusting.
func (c *Controller) Tick(now time.Time) {
	c.mu.Lock()
	defer c.unlock()

	t := c.since(now)
	x, y := c.engine.Tilt()
	c.buffer.Record(x, y, t)

	if c.enabled {
		start, end := c.cfg.Geometry.IndicatorLine(x, y)
		c.screen.SetIndicatorPoints(start, end)
		c.selectAt(x, y)
	} else if !c.lineHidden {
		c.screen.SetIndicatorHidden(true)
		c.lineHidden = true
	}

	if c.adjusting && t-c.adjustStarted > c.cfg.AdjustTimeout {
		monitoring.Logf("flexpoint: adjustment timed out on %s", c.selected.ID)
		c.adjusting = false
		c.pendingHaptic = true
		if c.engine.IsActive() {
			c.enabled = true
			c.screen.SetIndicatorHidden(false)
			c.lineHidden = false
		}
	}

	if c.adjusting && c.hasSelected && c.selected.Capability == pointer.Slider {
		v := mathx.MapRange(x, c.cfg.SliderTiltMin, c.cfg.SliderTiltMax, c.cfg.SliderMin, c.cfg.SliderMax)
		c.screen.SetSliderValue(c.selected.ID, mathx.Clamp(v, c.cfg.SliderMin, c.cfg.SliderMax), true)
	}
}

// Snap handles the snap gesture. While the device is active it freezes the
// pointer, re-selects against the tilt recorded SnapLookback earlier and
// commits that widget. A snap during slider adjustment ends the adjustment.
func (c *Controller) Snap() {
	c.mu.Lock()
	defer c.unlock()

	now := c.since(c.clock.Now())
	wasAdjusting := c.adjusting

	if c.engine.IsActive() {
		c.snaps++
		monitoring.Logf("flexpoint: snapped")

		c.enabled = false
		if !c.lineHidden {
			c.screen.SetIndicatorHidden(true)
		}
		// Cleared so the next tick re-issues the hide.
		c.lineHidden = false

		s := c.buffer.LookupNearest(saturatingSub(now, c.cfg.SnapLookback))
		c.selectAt(s.TiltX, s.TiltY)
		c.commit(now)

		if n, ok := c.screen.(ActivityNotifier); ok {
			c.after = append(c.after, n.TriggerActivity)
		}
	}

	// The snap that entered adjustment never exits it; any later one does.
	if wasAdjusting && c.adjusting {
		monitoring.Logf("flexpoint: adjustment finished on %s", c.selected.ID)
		c.adjusting = false
		c.pendingHaptic = true
		c.releaseActivation()
	}
}

// DrainPendingHaptic fires one vibration if a haptic cue is pending and
// reports whether it did.
func (c *Controller) DrainPendingHaptic() bool {
	c.mu.Lock()
	defer c.unlock()

	if !c.pendingHaptic {
		return false
	}
	c.pendingHaptic = false
	c.after = append(c.after, c.engine.Vibrate)
	return true
}

// selectAt re-runs selection for a tilt vector. Focus is cleared on every
// selectable widget and set on the winner, if any. An empty result keeps the
// previous selection for a snap to commit; a changed one queues a haptic cue.
func (c *Controller) selectAt(x, y int) {
	ray := c.cfg.Geometry.ComputeRay(x, y)
	c.lastRay = ray

	cands := c.screen.Candidates()
	for _, cand := range cands {
		if cand.Capability.Selectable() {
			c.screen.SetFocused(cand.ID, false)
		}
	}

	best, ok := c.cfg.Geometry.SelectBest(ray, cands)
	if !ok {
		return
	}
	c.screen.SetFocused(best.ID, true)
	if !c.hasSelected || best.ID != c.selected.ID {
		c.pendingHaptic = true
	}
	c.selected = best
	c.hasSelected = true
}

// commit applies the capability action of the current selection.
func (c *Controller) commit(now time.Duration) {
	if !c.hasSelected {
		c.releaseActivation()
		return
	}

	id, scr := c.selected.ID, c.screen
	switch c.selected.Capability {
	case pointer.Checkbox:
		scr.SetChecked(id, !scr.Checked(id))
		c.after = append(c.after, func() { scr.SendValueChanged(id) })
		c.releaseActivation()
	case pointer.Slider:
		if !c.adjusting {
			monitoring.Logf("flexpoint: adjusting %s", id)
			c.adjusting = true
			c.adjustStarted = now
			c.pendingHaptic = true
			// re-arm so the activation outlives the adjustment
			c.after = append(c.after, func() { c.engine.SetActive(true) })
		}
	default:
		c.after = append(c.after, func() { scr.SendClicked(id) })
		c.releaseActivation()
	}
}

// releaseActivation ends the activation after a commit, or re-arms it in
// rapid mode.
func (c *Controller) releaseActivation() {
	if c.rapid {
		c.after = append(c.after, func() { c.engine.SetActive(true) })
		return
	}
	c.after = append(c.after, func() { c.engine.SetActive(false) })
}

// unlock releases the mutex and then runs the queued callbacks in order.
func (c *Controller) unlock() {
	fx := c.after
	c.after = nil
	c.mu.Unlock()
	for _, f := range fx {
		f()
	}
}

func (c *Controller) since(now time.Time) time.Duration {
	d := now.Sub(c.epoch)
	if d < 0 {
		return 0
	}
	return d
}

func saturatingSub(a, b time.Duration) time.Duration {
	if a <= b {
		return 0
	}
	return a - b
}
