package ui

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/relabs-tech/flexpoint/internal/pointer"
)

// Layout is the on-disk description of a panel.
type Layout struct {
	Name    string   `json:"name"`
	Widgets []Widget `json:"widgets"`
}

// LoadLayout reads a JSON layout file and builds its panel.
func LoadLayout(path string) (*Panel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout builds a panel from JSON layout bytes.
func ParseLayout(data []byte) (*Panel, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	for i, w := range l.Widgets {
		if w.Kind.Capability() == pointer.Unsupported && w.Kind != KindLabel {
			return nil, fmt.Errorf("widget %d (%q): unknown kind %q", i, w.ID, w.Kind)
		}
		if w.W <= 0 || w.H <= 0 {
			return nil, fmt.Errorf("widget %d (%q): size must be positive", i, w.ID)
		}
	}
	return NewPanel(l.Widgets...)
}

// DefaultPanel is the demo screen used when no layout file is configured:
// one widget of each family arranged around the 240x240 pointer origin.
func DefaultPanel() *Panel {
	p, err := NewPanel(
		Widget{ID: "title", Kind: KindLabel, Label: "FlexPoint", X: 70, Y: 4, W: 100, H: 20},
		Widget{ID: "ok", Kind: KindButton, Label: "OK", X: 175, Y: 115, W: 50, H: 30},
		Widget{ID: "back", Kind: KindImageButton, Label: "<", X: 15, Y: 40, W: 40, H: 40},
		Widget{ID: "wifi", Kind: KindCheckbox, Label: "Wi-Fi", X: 95, Y: 190, W: 50, H: 30},
		Widget{ID: "volume", Kind: KindSlider, Label: "Volume", X: 15, Y: 120, W: 60, H: 20, Value: 40},
		Widget{ID: "torch", Kind: KindSwitch, Label: "Torch", X: 165, Y: 40, W: 50, H: 30},
	)
	if err != nil {
		panic(err)
	}
	return p
}
