// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/flexpoint/internal/app"
	"github.com/relabs-tech/flexpoint/internal/config"
)

func main() {
	configPath := flag.String("config", "./flexpoint_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting flexpoint pointer (tilt → selection → MQTT)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunFlexPoint(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
