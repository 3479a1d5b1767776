package pointer

import "image"

// Capability classifies how a widget reacts to a committed selection.
// It is resolved once, when the host enumerates candidates.
type Capability int

const (
	Unsupported Capability = iota
	Clickable              // buttons, image buttons, switches
	Checkbox
	Slider
)

func (c Capability) String() string {
	switch c {
	case Clickable:
		return "clickable"
	case Checkbox:
		return "checkbox"
	case Slider:
		return "slider"
	default:
		return "unsupported"
	}
}

// Selectable reports whether the pointer may land on widgets of this kind.
func (c Capability) Selectable() bool {
	return c == Clickable || c == Checkbox || c == Slider
}

// WidgetID is an opaque handle into the host widget tree.
type WidgetID string

// Candidate is a widget as seen by the disambiguation engine.
type Candidate struct {
	ID         WidgetID        `json:"id"`
	Capability Capability      `json:"capability"`
	Bounds     image.Rectangle `json:"bounds"`
}

// Center is the integer midpoint of the bounding box.
func (c Candidate) Center() image.Point {
	return image.Pt((c.Bounds.Min.X+c.Bounds.Max.X)/2, (c.Bounds.Min.Y+c.Bounds.Max.Y)/2)
}
