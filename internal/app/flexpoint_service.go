// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/flexpoint/internal/config"
	"github.com/relabs-tech/flexpoint/internal/flexpoint"
	"github.com/relabs-tech/flexpoint/internal/orientation"
	"github.com/relabs-tech/flexpoint/internal/ui"
	"github.com/relabs-tech/flexpoint/internal/wearable"
	"github.com/relabs-tech/flexpoint/internal/wristlink"
)

// engine deadline polling cadence
const activationPollInterval = 50 * time.Millisecond

// pointerService wires the engine, the panel and the controller together.
type pointerService struct {
	cfg    *config.Config
	engine *wearable.Engine
	panel  *ui.Panel
	ctrl   *flexpoint.Controller
	cmds   pointerCommands
	client mqtt.Client // nil when running without a broker
	wrist  atomic.Pointer[wristlink.Writer]
}

func newPointerService(cfg *config.Config, opts ...flexpoint.Option) (*pointerService, error) {
	panel := ui.DefaultPanel()
	if cfg.LayoutFile != "" {
		var err error
		if panel, err = ui.LoadLayout(cfg.LayoutFile); err != nil {
			return nil, err
		}
		log.Printf("flexpoint: loaded layout %s", cfg.LayoutFile)
	}

	engine := wearable.New(time.Duration(cfg.ActiveTimeout) * time.Millisecond)
	ctrl := flexpoint.New(flexpoint.ConfigFrom(cfg), engine, append([]flexpoint.Option{flexpoint.WithScreen(panel)}, opts...)...)
	engine.SetActivationCallback(ctrl.Enable)

	s := &pointerService{
		cfg:    cfg,
		engine: engine,
		panel:  panel,
		ctrl:   ctrl,
		cmds:   pointerCommands{engine: engine, ctrl: ctrl},
	}
	panel.SetEventHandler(s.onWidgetEvent)
	engine.SetHapticCallback(s.onHaptic)
	return s, nil
}

func (s *pointerService) onWidgetEvent(ev ui.Event) {
	log.Printf("flexpoint: %s %s", ev.Widget, ev.Type)
	if s.client == nil {
		return
	}
	if err := publishJSON(s.client, s.cfg.TopicEvents, false, ev); err != nil {
		log.Printf("flexpoint: %v", err)
	}
}

func (s *pointerService) onHaptic() {
	if w := s.wrist.Load(); w != nil {
		if err := w.Send(wristlink.Haptic()); err != nil {
			log.Printf("flexpoint: %v", err)
		}
	}
	if s.client == nil {
		return
	}
	token := s.client.Publish(s.cfg.TopicHaptic, 0, false, []byte("1"))
	token.Wait()
	if token.Error() != nil {
		log.Printf("flexpoint: haptic publish error: %v", token.Error())
	}
}

// subscribeCommands routes the MQTT command topics to the controller.
func (s *pointerService) subscribeCommands() error {
	if err := subscribe(s.client, s.cfg.TopicSnap, func([]byte) { s.cmds.OnSnap() }); err != nil {
		return err
	}
	if err := subscribe(s.client, s.cfg.TopicRapid, func([]byte) { s.cmds.OnRapid() }); err != nil {
		return err
	}
	return subscribe(s.client, s.cfg.TopicActivation, func(payload []byte) {
		active, err := parseActivation(payload)
		if err != nil {
			log.Printf("flexpoint: %v", err)
			return
		}
		s.cmds.OnActivation(active)
	})
}

// publishStates publishes the controller state, retained, whenever it
// changes.
func (s *pointerService) publishStates(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(s.cfg.TickInterval) * time.Millisecond)
	defer ticker.Stop()

	var last flexpoint.State
	first := true
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			st := s.ctrl.Snapshot()
			if !first && st == last {
				continue
			}
			first, last = false, st
			if err := publishJSON(s.client, s.cfg.TopicState, true, st); err != nil {
				log.Printf("flexpoint: %v", err)
			}
		}
	}
}

// feedTilt keeps the engine's tilt current from the configured source.
func (s *pointerService) feedTilt(ctx context.Context) error {
	switch s.cfg.MotionSource {
	case config.SourceMQTT:
		if err := subscribe(s.client, s.cfg.TopicTilt, func(payload []byte) {
			t, err := parseTilt(payload)
			if err != nil {
				log.Printf("flexpoint: %v", err)
				return
			}
			s.cmds.OnTilt(t.X, t.Y)
		}); err != nil {
			return err
		}
		<-ctx.Done()
		return nil

	case config.SourceSerial:
		port, err := wristlink.Open(s.cfg.SerialPort, s.cfg.SerialBaudRate)
		if err != nil {
			return err
		}
		s.wrist.Store(wristlink.NewWriter(port))
		defer s.wrist.Store(nil)
		return serveUntilDone(ctx, port, s.cmds)

	default:
		src, err := newTiltSource(s.cfg)
		if err != nil {
			return err
		}
		return pollTilt(ctx, src, time.Duration(s.cfg.TickInterval)*time.Millisecond, s.cmds.OnTilt)
	}
}

// newTiltSource opens the locally attached tilt source.
func newTiltSource(cfg *config.Config) (orientation.Source, error) {
	if cfg.MotionSource == config.SourceIMU {
		return orientation.NewIMUSource(cfg.IMUSPIDevice, cfg.IMUCSPin, cfg.TiltGain)
	}
	log.Println("using mock tilt source")
	return orientation.NewMockSource(), nil
}

// pollTilt reads src every interval and hands each reading to update.
func pollTilt(ctx context.Context, src orientation.Source, interval time.Duration, update func(x, y int)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t, err := src.Next()
			if err != nil {
				log.Printf("tilt source error: %v", err)
				continue
			}
			update(t.X, t.Y)
		}
	}
}

// serveUntilDone runs the wrist link on port and closes it when ctx ends,
// which also unblocks a pending read.
func serveUntilDone(ctx context.Context, port io.ReadWriteCloser, h wristlink.Handler) error {
	go func() {
		<-ctx.Done()
		port.Close()
	}()
	err := wristlink.Serve(ctx, port, h)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// RunFlexPoint runs the pointer: tilt in, gestures in, state and events out.
func RunFlexPoint() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}

	svc, err := newPointerService(cfg)
	if err != nil {
		return err
	}

	svc.client, err = connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDPointer)
	if err != nil {
		return err
	}
	defer svc.client.Disconnect(250)

	if err := svc.subscribeCommands(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return svc.ctrl.Run(ctx) })
	g.Go(func() error { return svc.engine.Run(ctx, activationPollInterval) })
	g.Go(func() error { return svc.publishStates(ctx) })
	g.Go(func() error { return svc.feedTilt(ctx) })
	if cfg.WebServerPort > 0 {
		g.Go(func() error { return serveWeb(ctx, cfg.WebServerPort, newWebHandler(svc)) })
	}

	log.Printf("flexpoint: running (source %s)", cfg.MotionSource)
	err = g.Wait()
	log.Println("flexpoint: shutting down")
	return err
}
