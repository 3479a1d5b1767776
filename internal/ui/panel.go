// Package ui is an in-memory widget panel: the screen the pointer drives
// when no real GUI toolkit is attached. Widgets are loaded from a JSON
// layout and emit events the way a toolkit would.
package ui

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/relabs-tech/flexpoint/internal/mathx"
	"github.com/relabs-tech/flexpoint/internal/pointer"
)

// Kind names a widget family.
type Kind string

const (
	KindButton      Kind = "button"
	KindImageButton Kind = "imgbtn"
	KindSwitch      Kind = "switch"
	KindCheckbox    Kind = "checkbox"
	KindSlider      Kind = "slider"
	KindLabel       Kind = "label"
)

// Capability maps a widget family onto what a committed selection does.
func (k Kind) Capability() pointer.Capability {
	switch k {
	case KindButton, KindImageButton, KindSwitch:
		return pointer.Clickable
	case KindCheckbox:
		return pointer.Checkbox
	case KindSlider:
		return pointer.Slider
	default:
		return pointer.Unsupported
	}
}

// Widget is one element of the panel.
type Widget struct {
	ID      pointer.WidgetID `json:"id"`
	Kind    Kind             `json:"kind"`
	Label   string           `json:"label,omitempty"`
	X       int              `json:"x"`
	Y       int              `json:"y"`
	W       int              `json:"w"`
	H       int              `json:"h"`
	Checked bool             `json:"checked,omitempty"`
	Value   int              `json:"value,omitempty"`
	Min     int              `json:"min,omitempty"`
	Max     int              `json:"max,omitempty"`
	Hidden  bool             `json:"hidden,omitempty"`
	Focused bool             `json:"focused,omitempty"`
}

// Bounds returns the widget rectangle in screen coordinates.
func (w Widget) Bounds() image.Rectangle {
	return image.Rect(w.X, w.Y, w.X+w.W, w.Y+w.H)
}

func (w Widget) sliderRange() (lo, hi int) {
	if w.Min == 0 && w.Max == 0 {
		return 0, 100
	}
	return w.Min, w.Max
}

// EventType is the kind of event a widget emits.
type EventType string

const (
	EventClicked      EventType = "clicked"
	EventValueChanged EventType = "value_changed"
)

// Event is emitted to the panel's handler when a widget is activated.
type Event struct {
	Widget  pointer.WidgetID `json:"widget"`
	Kind    Kind             `json:"kind"`
	Type    EventType        `json:"type"`
	Checked bool             `json:"checked,omitempty"`
	Value   int              `json:"value,omitempty"`
	At      time.Time        `json:"at"`
}

// Indicator is the on-screen pointer line.
type Indicator struct {
	Hidden bool        `json:"hidden"`
	Start  image.Point `json:"start"`
	End    image.Point `json:"end"`
}

// Panel holds the widgets of one screen. It is safe for concurrent use;
// the event handler runs without the panel lock held.
type Panel struct {
	mu        sync.RWMutex
	order     []pointer.WidgetID
	widgets   map[pointer.WidgetID]*Widget
	indicator Indicator
	activity  time.Time
	now       func() time.Time
	onEvent   func(Event)
}

// NewPanel builds a panel. Widget IDs must be unique and non-empty.
func NewPanel(widgets ...Widget) (*Panel, error) {
	p := &Panel{
		widgets: make(map[pointer.WidgetID]*Widget, len(widgets)),
		now:     time.Now,
	}
	for _, w := range widgets {
		if w.ID == "" {
			return nil, fmt.Errorf("widget without id (kind %q)", w.Kind)
		}
		if _, dup := p.widgets[w.ID]; dup {
			return nil, fmt.Errorf("duplicate widget id %q", w.ID)
		}
		if w.Kind == KindSlider {
			lo, hi := w.sliderRange()
			w.Value = mathx.Clamp(w.Value, lo, hi)
		}
		p.order = append(p.order, w.ID)
		p.widgets[w.ID] = &w
	}
	return p, nil
}

// SetEventHandler registers f to receive widget events.
func (p *Panel) SetEventHandler(f func(Event)) {
	p.mu.Lock()
	p.onEvent = f
	p.mu.Unlock()
}

// Candidates lists visible widgets in layout order.
func (p *Panel) Candidates() []pointer.Candidate {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]pointer.Candidate, 0, len(p.order))
	for _, id := range p.order {
		w := p.widgets[id]
		if w.Hidden {
			continue
		}
		out = append(out, pointer.Candidate{ID: w.ID, Capability: w.Kind.Capability(), Bounds: w.Bounds()})
	}
	return out
}

func (p *Panel) SetFocused(id pointer.WidgetID, focused bool) {
	p.update(id, func(w *Widget) { w.Focused = focused })
}

func (p *Panel) Checked(id pointer.WidgetID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if w, ok := p.widgets[id]; ok {
		return w.Checked
	}
	return false
}

func (p *Panel) SetChecked(id pointer.WidgetID, checked bool) {
	p.update(id, func(w *Widget) { w.Checked = checked })
}

// SetSliderValue clamps v to the slider range. Animation is not modelled.
func (p *Panel) SetSliderValue(id pointer.WidgetID, v int, _ bool) {
	p.update(id, func(w *Widget) {
		lo, hi := w.sliderRange()
		w.Value = mathx.Clamp(v, lo, hi)
	})
}

func (p *Panel) SendClicked(id pointer.WidgetID) {
	p.emit(id, EventClicked)
}

func (p *Panel) SendValueChanged(id pointer.WidgetID) {
	p.emit(id, EventValueChanged)
}

func (p *Panel) SetIndicatorHidden(hidden bool) {
	p.mu.Lock()
	p.indicator.Hidden = hidden
	p.mu.Unlock()
}

func (p *Panel) SetIndicatorPoints(start, end image.Point) {
	p.mu.Lock()
	p.indicator.Start, p.indicator.End = start, end
	p.mu.Unlock()
}

// TriggerActivity records user activity, e.g. to keep a backlight on.
func (p *Panel) TriggerActivity() {
	p.mu.Lock()
	p.activity = p.now()
	p.mu.Unlock()
}

// LastActivity returns when TriggerActivity was last called.
func (p *Panel) LastActivity() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.activity
}

// Widget returns a copy of one widget.
func (p *Panel) Widget(id pointer.WidgetID) (Widget, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	w, ok := p.widgets[id]
	if !ok {
		return Widget{}, false
	}
	return *w, true
}

// Snapshot is a copy of the whole panel for observers.
type Snapshot struct {
	Widgets   []Widget  `json:"widgets"`
	Indicator Indicator `json:"indicator"`
}

// Snapshot returns the panel state in layout order.
func (p *Panel) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := Snapshot{Widgets: make([]Widget, 0, len(p.order)), Indicator: p.indicator}
	for _, id := range p.order {
		s.Widgets = append(s.Widgets, *p.widgets[id])
	}
	return s
}

func (p *Panel) update(id pointer.WidgetID, f func(*Widget)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w, ok := p.widgets[id]; ok {
		f(w)
	}
}

func (p *Panel) emit(id pointer.WidgetID, typ EventType) {
	p.mu.RLock()
	w, ok := p.widgets[id]
	if !ok {
		p.mu.RUnlock()
		return
	}
	ev := Event{Widget: id, Kind: w.Kind, Type: typ, Checked: w.Checked, Value: w.Value, At: p.now()}
	cb := p.onEvent
	p.mu.RUnlock()

	if cb != nil {
		cb(ev)
	}
}
