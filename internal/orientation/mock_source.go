// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a mock tilt source that sweeps the pointer slowly
// around the screen, dwelling near each edge.
func NewMockSource() Source {
	return newMockSource(time.Now)
}

func newMockSource(now func() time.Time) *mockSource {
	return &mockSource{start: now(), now: now}
}

func (m *mockSource) Next() (Tilt, error) {
	elapsed := m.now().Sub(m.start).Seconds()

	return Tilt{
		X: int(math.Round(300 * math.Sin(elapsed*0.8))),
		Y: int(math.Round(300 * math.Sin(elapsed*0.5))),
	}, nil
}
