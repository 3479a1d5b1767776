// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/flexpoint/internal/config"
	"github.com/relabs-tech/flexpoint/internal/flexpoint"
	"github.com/relabs-tech/flexpoint/internal/orientation"
	"github.com/relabs-tech/flexpoint/internal/ui"
)

// gesturePeriod is how often the simulated wearer activates and snaps.
const gesturePeriod = 3 * time.Second

// RunMockConsole runs the pointer offline against the mock tilt source and
// a scripted wearer, printing state changes, buzzes and widget events.
func RunMockConsole() error {
	cfg := config.Default()
	if c := config.Get(); c != nil {
		copied := *c
		cfg = &copied
	}
	cfg.MotionSource = config.SourceMock

	svc, err := newPointerService(cfg)
	if err != nil {
		return err
	}
	svc.panel.SetEventHandler(func(ev ui.Event) { fmt.Println(formatEvent(ev)) })
	svc.engine.SetHapticCallback(func() { fmt.Println("[BUZZ]") })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := time.Duration(cfg.TickInterval) * time.Millisecond
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return svc.ctrl.Run(ctx) })
	g.Go(func() error { return svc.engine.Run(ctx, activationPollInterval) })
	g.Go(func() error { return pollTilt(ctx, orientation.NewMockSource(), interval, svc.cmds.OnTilt) })
	g.Go(func() error { return runGestureScript(ctx, svc.cmds, gesturePeriod) })
	g.Go(func() error { return printStates(ctx, svc.ctrl, interval) })
	return g.Wait()
}

// runGestureScript activates the pointer every period and snaps halfway
// through each activation.
func runGestureScript(ctx context.Context, cmds pointerCommands, period time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cmds.OnActivation(true)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(period / 2):
			cmds.OnSnap()
		}
	}
}

func printStates(ctx context.Context, ctrl *flexpoint.Controller, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last string
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			st := ctrl.Snapshot()
			// tilt alone changes every tick
			key := fmt.Sprintf("%s|%s|%t|%d", st.Mode, st.Selected, st.Rapid, st.Snaps)
			if key != last {
				last = key
				fmt.Println(formatState(st))
			}
		}
	}
}
