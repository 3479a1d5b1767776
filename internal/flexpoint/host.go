package flexpoint

import (
	"image"
	"time"

	"github.com/relabs-tech/flexpoint/internal/pointer"
)

// Engine is the host motion-sensing engine: calibrated tilt, activation
// state with its timeout, and haptic actuation.
type Engine interface {
	// Tilt returns the live tilt axes, roughly ±300 each.
	Tilt() (x, y int)
	IsActive() bool
	// SetActive(true) re-arms the activation timeout; SetActive(false)
	// ends the activation.
	SetActive(active bool)
	Vibrate()
}

// Screen is the host GUI toolkit as seen by the pointer. Widgets are
// addressed by the IDs handed out in Candidates.
type Screen interface {
	Candidates() []pointer.Candidate
	SetFocused(id pointer.WidgetID, focused bool)

	Checked(id pointer.WidgetID) bool
	SetChecked(id pointer.WidgetID, checked bool)
	SetSliderValue(id pointer.WidgetID, value int, animate bool)

	SendClicked(id pointer.WidgetID)
	SendValueChanged(id pointer.WidgetID)

	SetIndicatorHidden(hidden bool)
	SetIndicatorPoints(start, end image.Point)
}

// ActivityNotifier is implemented by screens that want to hear about user
// activity (e.g. to keep the backlight on) after a committed snap.
type ActivityNotifier interface {
	TriggerActivity()
}

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// nopScreen stands in until Attach is called.
type nopScreen struct{}

func (nopScreen) Candidates() []pointer.Candidate { return nil }
func (nopScreen) SetFocused(pointer.WidgetID, bool) {}
func (nopScreen) Checked(pointer.WidgetID) bool { return false }
func (nopScreen) SetChecked(pointer.WidgetID, bool) {}
func (nopScreen) SetSliderValue(pointer.WidgetID, int, bool) {}
func (nopScreen) SendClicked(pointer.WidgetID) {}
func (nopScreen) SendValueChanged(pointer.WidgetID) {}
func (nopScreen) SetIndicatorHidden(bool) {}
func (nopScreen) SetIndicatorPoints(image.Point, image.Point) {}
