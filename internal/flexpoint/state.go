package flexpoint

import (
	"context"
	"time"

	"github.com/relabs-tech/flexpoint/internal/motion"
	"github.com/relabs-tech/flexpoint/internal/pointer"
)

// Mode is the externally visible controller state.
type Mode string

const (
	ModeIdle      Mode = "idle"
	ModePointing  Mode = "pointing"
	ModeAdjusting Mode = "adjusting"
)

// State is a point-in-time copy of the controller, suitable for publishing.
type State struct {
	Mode          Mode             `json:"mode"`
	Enabled       bool             `json:"enabled"`
	Selected      pointer.WidgetID `json:"selected,omitempty"`
	SelectedKind  string           `json:"selected_kind,omitempty"`
	Rapid         bool             `json:"rapid"`
	PendingHaptic bool             `json:"pending_haptic"`
	AdjustLeft    time.Duration    `json:"adjust_left,omitempty"`
	Ray           pointer.Ray      `json:"ray"`
	Latest        motion.Sample    `json:"latest"`
	Snaps         int              `json:"snaps"`
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.unlock()

	st := State{
		Enabled:       c.enabled,
		Rapid:         c.rapid,
		PendingHaptic: c.pendingHaptic,
		Ray:           c.lastRay,
		Latest:        c.buffer.Latest(),
		Snaps:         c.snaps,
	}
	switch {
	case c.adjusting:
		st.Mode = ModeAdjusting
		st.AdjustLeft = saturatingSub(c.adjustStarted+c.cfg.AdjustTimeout, c.since(c.clock.Now()))
	case c.enabled:
		st.Mode = ModePointing
	default:
		st.Mode = ModeIdle
	}
	if c.hasSelected {
		st.Selected = c.selected.ID
		st.SelectedKind = c.selected.Capability.String()
	}
	return st
}

// Recent returns the recorded tilt history, oldest first.
func (c *Controller) Recent() []motion.Sample {
	c.mu.Lock()
	defer c.unlock()
	return c.buffer.Samples()
}

// Run drives Tick and the haptic drain every TickInterval until ctx is
// cancelled.
func (c *Controller) Run(ctx context.Context) error {
	interval := c.cfg.TickInterval
	if interval <= 0 {
		interval = DefaultConfig().TickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Tick(c.clock.Now())
			c.DrainPendingHaptic()
		}
	}
}
