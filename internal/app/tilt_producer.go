package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/flexpoint/internal/config"
	"github.com/relabs-tech/flexpoint/internal/orientation"
	"github.com/relabs-tech/flexpoint/internal/wristlink"
)

// mqttBridge republishes wrist link traffic on the pointer's MQTT topics.
type mqttBridge struct {
	client mqtt.Client
	cfg    *config.Config
}

func (b mqttBridge) OnTilt(x, y int) {
	if err := publishJSON(b.client, b.cfg.TopicTilt, false, orientation.Tilt{X: x, Y: y}); err != nil {
		log.Printf("tilt producer: %v", err)
	}
}

func (b mqttBridge) OnSnap() { b.publish(b.cfg.TopicSnap, "1") }

func (b mqttBridge) OnActivation(active bool) {
	if active {
		b.publish(b.cfg.TopicActivation, "1")
	} else {
		b.publish(b.cfg.TopicActivation, "0")
	}
}

func (b mqttBridge) OnRapid() { b.publish(b.cfg.TopicRapid, "1") }

func (b mqttBridge) publish(topic, payload string) {
	token := b.client.Publish(topic, 0, false, []byte(payload))
	token.Wait()
	if token.Error() != nil {
		log.Printf("tilt producer: publish %s error: %v", topic, token.Error())
	}
}

// RunTiltProducer publishes tilt to MQTT. With MOTION_SOURCE=serial it
// bridges the whole wrist link, gestures included; otherwise it samples
// the mock or IMU source every tick.
func RunTiltProducer() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bridge := mqttBridge{client: client, cfg: cfg}

	switch cfg.MotionSource {
	case config.SourceSerial:
		port, err := wristlink.Open(cfg.SerialPort, cfg.SerialBaudRate)
		if err != nil {
			return err
		}
		log.Printf("tilt producer: bridging %s to MQTT", cfg.SerialPort)
		return serveUntilDone(ctx, port, bridge)

	case config.SourceMQTT:
		return fmt.Errorf("MOTION_SOURCE=mqtt has nothing to produce")

	default:
		src, err := newTiltSource(cfg)
		if err != nil {
			return err
		}
		interval := time.Duration(cfg.TickInterval) * time.Millisecond
		log.Printf("tilt producer: publishing to %s every %v", cfg.TopicTilt, interval)
		return pollTilt(ctx, src, interval, bridge.OnTilt)
	}
}
