// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package wearable is a software model of the wrist device's motion engine:
// it holds the latest tilt, owns the activation window and drives haptics.
package wearable

import (
	"context"
	"sync"
	"time"
)

// DefaultActiveTimeout is how long an activation lasts without being
// re-armed.
const DefaultActiveTimeout = 6 * time.Second

// Engine tracks tilt and activation. It is safe for concurrent use.
// Callbacks run without the engine lock held.
type Engine struct {
	mu sync.Mutex

	tiltX, tiltY int
	active       bool
	deadline     time.Time
	timeout      time.Duration
	now          func() time.Time

	onActivation func(active bool)
	onHaptic     func()
	vibrations   int
}

// New creates an inactive engine whose activations expire after timeout.
func New(timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultActiveTimeout
	}
	return &Engine{timeout: timeout, now: time.Now}
}

// SetActivationCallback registers f to hear every activation change and
// every re-arm.
func (e *Engine) SetActivationCallback(f func(active bool)) {
	e.mu.Lock()
	e.onActivation = f
	e.mu.Unlock()
}

// SetHapticCallback registers f to run on each vibration.
func (e *Engine) SetHapticCallback(f func()) {
	e.mu.Lock()
	e.onHaptic = f
	e.mu.Unlock()
}

// UpdateTilt stores the latest tilt reading.
func (e *Engine) UpdateTilt(x, y int) {
	e.mu.Lock()
	e.tiltX, e.tiltY = x, y
	e.mu.Unlock()
}

// Tilt returns the latest tilt reading.
func (e *Engine) Tilt() (x, y int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tiltX, e.tiltY
}

// IsActive reports whether an activation is in progress.
func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// SetActive(true) starts or re-arms an activation and always notifies the
// callback, so a re-arm re-enables the pointer. SetActive(false) ends it and
// notifies only if it was active.
func (e *Engine) SetActive(active bool) {
	e.mu.Lock()
	notify := active || e.active
	e.active = active
	if active {
		e.deadline = e.now().Add(e.timeout)
	}
	cb := e.onActivation
	e.mu.Unlock()

	if notify && cb != nil {
		cb(active)
	}
}

// Poll expires the activation once its deadline has passed.
func (e *Engine) Poll(now time.Time) {
	e.mu.Lock()
	expired := e.active && !now.Before(e.deadline)
	if expired {
		e.active = false
	}
	cb := e.onActivation
	e.mu.Unlock()

	if expired && cb != nil {
		cb(false)
	}
}

// Run polls the activation deadline every interval until ctx is done.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.Poll(e.now())
		}
	}
}

// Vibrate fires the haptic motor.
func (e *Engine) Vibrate() {
	e.mu.Lock()
	e.vibrations++
	cb := e.onHaptic
	e.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Vibrations returns how many times Vibrate was called.
func (e *Engine) Vibrations() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vibrations
}
