package wearable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestEngine(start time.Time) (*Engine, *time.Time) {
	now := start
	e := New(4 * time.Second)
	e.now = func() time.Time { return now }
	return e, &now
}

func TestEngine_ActivationExpires(t *testing.T) {
	e, now := newTestEngine(time.Unix(100, 0))
	var events []bool
	e.SetActivationCallback(func(a bool) { events = append(events, a) })

	e.SetActive(true)
	assert.True(t, e.IsActive())

	e.Poll(now.Add(3999 * time.Millisecond))
	assert.True(t, e.IsActive())

	e.Poll(now.Add(4 * time.Second))
	assert.False(t, e.IsActive())
	assert.Equal(t, []bool{true, false}, events)

	// already expired: no second notification
	e.Poll(now.Add(5 * time.Second))
	assert.Equal(t, []bool{true, false}, events)
}

func TestEngine_RearmExtendsDeadline(t *testing.T) {
	e, now := newTestEngine(time.Unix(100, 0))
	var events []bool
	e.SetActivationCallback(func(a bool) { events = append(events, a) })

	e.SetActive(true)
	*now = now.Add(3 * time.Second)
	e.SetActive(true)

	e.Poll(now.Add(3 * time.Second))
	assert.True(t, e.IsActive())
	e.Poll(now.Add(4 * time.Second))
	assert.False(t, e.IsActive())
	assert.Equal(t, []bool{true, true, false}, events)
}

func TestEngine_DeactivateNotifiesOnce(t *testing.T) {
	e, _ := newTestEngine(time.Unix(100, 0))
	var events []bool
	e.SetActivationCallback(func(a bool) { events = append(events, a) })

	e.SetActive(false)
	assert.Empty(t, events)

	e.SetActive(true)
	e.SetActive(false)
	e.SetActive(false)
	assert.Equal(t, []bool{true, false}, events)
}

func TestEngine_CallbackMayCallBack(t *testing.T) {
	e, _ := newTestEngine(time.Unix(100, 0))
	var sawActive bool
	e.SetActivationCallback(func(bool) { sawActive = e.IsActive() })
	e.SetActive(true)
	assert.True(t, sawActive)
}

func TestEngine_TiltAndHaptics(t *testing.T) {
	e := New(0)
	assert.Equal(t, DefaultActiveTimeout, e.timeout)

	e.UpdateTilt(120, -40)
	x, y := e.Tilt()
	assert.Equal(t, 120, x)
	assert.Equal(t, -40, y)

	buzzed := 0
	e.SetHapticCallback(func() { buzzed++ })
	e.Vibrate()
	e.Vibrate()
	assert.Equal(t, 2, buzzed)
	assert.Equal(t, 2, e.Vibrations())
}
