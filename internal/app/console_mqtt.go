package app

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/flexpoint/internal/config"
	"github.com/relabs-tech/flexpoint/internal/flexpoint"
	"github.com/relabs-tech/flexpoint/internal/ui"
)

// formatState renders one console line for a controller state.
func formatState(st flexpoint.State) string {
	sel := string(st.Selected)
	if sel == "" {
		sel = "-"
	}
	line := fmt.Sprintf("[STATE] mode=%-9s sel=%-10s tilt=(%4d,%4d) ray=%6.1f@%6.1f° snaps=%d",
		st.Mode, sel, st.Latest.TiltX, st.Latest.TiltY, st.Ray.Length, st.Ray.Angle*180/math.Pi, st.Snaps)
	if st.Rapid {
		line += " rapid"
	}
	if st.Mode == flexpoint.ModeAdjusting {
		line += fmt.Sprintf(" adjust_left=%v", st.AdjustLeft)
	}
	return line
}

// formatEvent renders one console line for a widget event.
func formatEvent(ev ui.Event) string {
	switch ev.Kind {
	case ui.KindCheckbox:
		return fmt.Sprintf("[EVENT] %s %s checked=%t", ev.Widget, ev.Type, ev.Checked)
	case ui.KindSlider:
		return fmt.Sprintf("[EVENT] %s %s value=%d", ev.Widget, ev.Type, ev.Value)
	default:
		return fmt.Sprintf("[EVENT] %s %s", ev.Widget, ev.Type)
	}
}

// RunConsoleMQTT prints pointer state, haptic cues and widget events.
func RunConsoleMQTT() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}

	if err := subscribe(client, cfg.TopicState, func(payload []byte) {
		var st flexpoint.State
		if err := json.Unmarshal(payload, &st); err != nil {
			log.Printf("console: state unmarshal error: %v", err)
			return
		}
		fmt.Println(formatState(st))
	}); err != nil {
		return err
	}

	if err := subscribe(client, cfg.TopicHaptic, func([]byte) {
		fmt.Println("[BUZZ]")
	}); err != nil {
		return err
	}

	if err := subscribe(client, cfg.TopicEvents, func(payload []byte) {
		var ev ui.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			log.Printf("console: event unmarshal error: %v", err)
			return
		}
		fmt.Println(formatEvent(ev))
	}); err != nil {
		return err
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
