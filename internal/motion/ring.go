// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package motion keeps a short rolling history of tilt samples so that a
// gesture can be evaluated against where the wrist was pointing shortly
// before the gesture itself disturbed it.
package motion

import (
	"time"
)

// DefaultCapacity is the number of slots used by the wearable firmware.
const DefaultCapacity = 15

// Sample is a single 2-axis tilt reading. CapturedAt is a monotonic offset
// from the owner's clock epoch, not a wall-clock time.
type Sample struct {
	TiltX      int           `json:"tilt_x"`
	TiltY      int           `json:"tilt_y"`
	CapturedAt time.Duration `json:"captured_at"`
}

// RingBuffer is a fixed-capacity circular buffer of samples. Slots start
// zeroed and writes overwrite the oldest slot in cyclic order.
//
// RingBuffer is not safe for concurrent use; its owner serializes access.
type RingBuffer struct {
	slots  []Sample
	cursor int // next slot to write
	writes int
}

// NewRingBuffer allocates a zeroed buffer. Non-positive capacities fall back
// to DefaultCapacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RingBuffer{slots: make([]Sample, capacity)}
}

// Record stores a sample at the cursor and advances it modulo the capacity.
func (rb *RingBuffer) Record(tiltX, tiltY int, now time.Duration) {
	rb.slots[rb.cursor] = Sample{TiltX: tiltX, TiltY: tiltY, CapturedAt: now}
	rb.cursor = (rb.cursor + 1) % len(rb.slots)
	if rb.writes < len(rb.slots) {
		rb.writes++
	}
}

// LookupNearest scans every slot and returns the one whose timestamp is
// closest to target. Ties keep the first slot in physical order.
//
// Until the buffer has wrapped once the zeroed slots take part in the scan,
// so lookups early in the process lifetime lean toward timestamp 0. That
// cold-start bias is accepted.
func (rb *RingBuffer) LookupNearest(target time.Duration) Sample {
	best := rb.slots[0]
	bestDiff := absDiff(best.CapturedAt, target)
	for _, s := range rb.slots[1:] {
		if d := absDiff(s.CapturedAt, target); d < bestDiff {
			best, bestDiff = s, d
		}
	}
	return best
}

// Latest returns the most recently recorded sample, or a zero sample when
// nothing was recorded yet.
func (rb *RingBuffer) Latest() Sample {
	if rb.writes == 0 {
		return Sample{}
	}
	return rb.slots[(rb.cursor-1+len(rb.slots))%len(rb.slots)]
}

// Samples returns the recorded samples oldest first. Zeroed slots that were
// never written are left out.
func (rb *RingBuffer) Samples() []Sample {
	out := make([]Sample, 0, rb.writes)
	start := 0
	if rb.writes == len(rb.slots) {
		start = rb.cursor
	}
	for i := 0; i < rb.writes; i++ {
		out = append(out, rb.slots[(start+i)%len(rb.slots)])
	}
	return out
}

// Len is the number of slots holding recorded samples.
func (rb *RingBuffer) Len() int { return rb.writes }

// Cap is the fixed number of slots.
func (rb *RingBuffer) Cap() int { return len(rb.slots) }

func absDiff(a, b time.Duration) time.Duration {
	if a > b {
		return a - b
	}
	return b - a
}
