package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/relabs-tech/flexpoint/internal/flexpoint"
	"github.com/relabs-tech/flexpoint/internal/orientation"
	"github.com/relabs-tech/flexpoint/internal/wearable"
)

// pointerCommands routes wrist input, whichever transport it arrived on, to
// the engine and the controller.
type pointerCommands struct {
	engine *wearable.Engine
	ctrl   *flexpoint.Controller
}

func (c pointerCommands) OnTilt(x, y int)          { c.engine.UpdateTilt(x, y) }
func (c pointerCommands) OnSnap()                  { c.ctrl.Snap() }
func (c pointerCommands) OnActivation(active bool) { c.engine.SetActive(active) }
func (c pointerCommands) OnRapid()                 { c.ctrl.EnableRapid() }

// parseActivation accepts "1"/"0", "true"/"false", "on"/"off" or a JSON
// object {"active": bool}.
func parseActivation(payload []byte) (bool, error) {
	s := strings.ToLower(strings.TrimSpace(string(payload)))
	switch s {
	case "1", "true", "on":
		return true, nil
	case "0", "false", "off":
		return false, nil
	}

	var msg struct {
		Active *bool `json:"active"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil || msg.Active == nil {
		return false, fmt.Errorf("invalid activation payload %q", s)
	}
	return *msg.Active, nil
}

// parseTilt decodes an orientation.Tilt JSON payload.
func parseTilt(payload []byte) (orientation.Tilt, error) {
	var t orientation.Tilt
	if err := json.Unmarshal(payload, &t); err != nil {
		return orientation.Tilt{}, fmt.Errorf("invalid tilt payload: %w", err)
	}
	return t, nil
}
