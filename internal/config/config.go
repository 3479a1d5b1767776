package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Motion sources understood by MOTION_SOURCE.
const (
	SourceMock   = "mock"
	SourceIMU    = "imu"
	SourceMQTT   = "mqtt"
	SourceSerial = "serial"
)

// Config holds all application configuration values.
type Config struct {
	// Screen geometry
	ScreenWidth   int
	ScreenHeight  int
	OriginOffsetX int
	OriginOffsetY int

	// Pointing
	AngleToleranceDeg float64
	TiltFullScale     float64

	// Timing (milliseconds)
	TickInterval  int
	SnapLookback  int
	AdjustTimeout int
	ActiveTimeout int

	BufferSize int

	// Slider mapping
	SliderTiltMin int
	SliderTiltMax int
	SliderMin     int
	SliderMax     int

	// Motion source
	MotionSource   string // mock, imu, mqtt or serial
	TiltGain       float64
	IMUSPIDevice   string
	IMUCSPin       string
	SerialPort     string
	SerialBaudRate int

	// MQTT
	MQTTBroker           string
	MQTTClientIDPointer  string
	MQTTClientIDProducer string
	MQTTClientIDDisplay  string
	MQTTClientIDConsole  string

	// Topics
	TopicTilt       string
	TopicSnap       string
	TopicActivation string
	TopicRapid      string
	TopicState      string
	TopicHaptic     string
	TopicEvents     string

	// Web Server (0 disables it)
	WebServerPort int

	// Display
	DisplayI2CBus         string
	DisplayI2CAddr        uint16
	DisplayUpdateInterval int // milliseconds

	// Widget layout JSON; empty uses the built-in demo panel
	LayoutFile string
}

// Package-level singleton: InitGlobal sets it once, Get reads it under a
// read lock.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the configuration the wearable firmware ships with.
func Default() *Config {
	return &Config{
		ScreenWidth:   240,
		ScreenHeight:  240,
		OriginOffsetX: 0,
		OriginOffsetY: 10,

		AngleToleranceDeg: 10,
		TiltFullScale:     360,

		TickInterval:  80,
		SnapLookback:  130,
		AdjustTimeout: 5000,
		ActiveTimeout: 6000,

		BufferSize: 15,

		SliderTiltMin: -300,
		SliderTiltMax: 300,
		SliderMin:     0,
		SliderMax:     100,

		MotionSource:   SourceMock,
		TiltGain:       5,
		IMUSPIDevice:   "/dev/spidev0.0",
		IMUCSPin:       "8",
		SerialPort:     "/dev/ttyAMA0",
		SerialBaudRate: 115200,

		MQTTBroker:           "tcp://localhost:1883",
		MQTTClientIDPointer:  "flexpoint-pointer",
		MQTTClientIDProducer: "flexpoint-tilt-producer",
		MQTTClientIDDisplay:  "flexpoint-display",
		MQTTClientIDConsole:  "flexpoint-console",

		TopicTilt:       "flexpoint/tilt",
		TopicSnap:       "flexpoint/gesture/snap",
		TopicActivation: "flexpoint/activation",
		TopicRapid:      "flexpoint/gesture/rapid",
		TopicState:      "flexpoint/state",
		TopicHaptic:     "flexpoint/haptic",
		TopicEvents:     "flexpoint/events",

		WebServerPort: 8080,

		DisplayI2CBus:         "",
		DisplayI2CAddr:        0x3C,
		DisplayUpdateInterval: 200,
	}
}

// Load reads the configuration file on top of Default.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines from r on top of Default. Blank lines and
// lines starting with # are skipped.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		if err := cfg.setValue(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// Screen geometry
	case "SCREEN_WIDTH":
		c.ScreenWidth, err = positiveInt(key, value)
	case "SCREEN_HEIGHT":
		c.ScreenHeight, err = positiveInt(key, value)
	case "ORIGIN_OFFSET_X":
		c.OriginOffsetX, err = parseInt(key, value)
	case "ORIGIN_OFFSET_Y":
		c.OriginOffsetY, err = parseInt(key, value)

	// Pointing
	case "ANGLE_TOLERANCE_DEG":
		c.AngleToleranceDeg, err = parseFloat(key, value)
		if err == nil && (c.AngleToleranceDeg <= 0 || c.AngleToleranceDeg > 180) {
			err = fmt.Errorf("ANGLE_TOLERANCE_DEG must be in (0, 180], got %v", c.AngleToleranceDeg)
		}
	case "TILT_FULL_SCALE":
		c.TiltFullScale, err = parseFloat(key, value)
		if err == nil && c.TiltFullScale <= 0 {
			err = fmt.Errorf("TILT_FULL_SCALE must be positive, got %v", c.TiltFullScale)
		}

	// Timing
	case "TICK_INTERVAL":
		c.TickInterval, err = positiveInt(key, value)
	case "SNAP_LOOKBACK":
		c.SnapLookback, err = parseInt(key, value)
		if err == nil && c.SnapLookback < 0 {
			err = fmt.Errorf("SNAP_LOOKBACK must not be negative, got %d", c.SnapLookback)
		}
	case "ADJUST_TIMEOUT":
		c.AdjustTimeout, err = positiveInt(key, value)
	case "ACTIVE_TIMEOUT":
		c.ActiveTimeout, err = positiveInt(key, value)

	case "BUFFER_SIZE":
		c.BufferSize, err = positiveInt(key, value)

	// Slider mapping
	case "SLIDER_TILT_MIN":
		c.SliderTiltMin, err = parseInt(key, value)
	case "SLIDER_TILT_MAX":
		c.SliderTiltMax, err = parseInt(key, value)
	case "SLIDER_MIN":
		c.SliderMin, err = parseInt(key, value)
	case "SLIDER_MAX":
		c.SliderMax, err = parseInt(key, value)

	// Motion source
	case "MOTION_SOURCE":
		switch value {
		case SourceMock, SourceIMU, SourceMQTT, SourceSerial:
			c.MotionSource = value
		default:
			err = fmt.Errorf("MOTION_SOURCE must be one of mock, imu, mqtt, serial, got %q", value)
		}
	case "TILT_GAIN":
		c.TiltGain, err = parseFloat(key, value)
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		c.SerialBaudRate, err = positiveInt(key, value)

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_POINTER":
		c.MQTTClientIDPointer = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_TILT":
		c.TopicTilt = value
	case "TOPIC_SNAP":
		c.TopicSnap = value
	case "TOPIC_ACTIVATION":
		c.TopicActivation = value
	case "TOPIC_RAPID":
		c.TopicRapid = value
	case "TOPIC_STATE":
		c.TopicState = value
	case "TOPIC_HAPTIC":
		c.TopicHaptic = value
	case "TOPIC_EVENTS":
		c.TopicEvents = value

	// Web Server
	case "WEB_SERVER_PORT":
		c.WebServerPort, err = parseInt(key, value)
		if err == nil && (c.WebServerPort < 0 || c.WebServerPort > 65535) {
			err = fmt.Errorf("WEB_SERVER_PORT must be 0-65535, got %d", c.WebServerPort)
		}

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_I2C_ADDR":
		addr, perr := strconv.ParseUint(value, 0, 16)
		if perr != nil {
			return fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", value, perr)
		}
		c.DisplayI2CAddr = uint16(addr)
	case "DISPLAY_UPDATE_INTERVAL":
		c.DisplayUpdateInterval, err = positiveInt(key, value)

	case "LAYOUT_FILE":
		c.LayoutFile = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

func parseInt(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return v, nil
}

func positiveInt(key, value string) (int, error) {
	v, err := parseInt(key, value)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, v)
	}
	return v, nil
}

func parseFloat(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return v, nil
}

// validate checks cross-field constraints.
func (c *Config) validate() error {
	if c.SliderTiltMin >= c.SliderTiltMax {
		return fmt.Errorf("SLIDER_TILT_MIN (%d) must be below SLIDER_TILT_MAX (%d)", c.SliderTiltMin, c.SliderTiltMax)
	}
	if c.SliderMin >= c.SliderMax {
		return fmt.Errorf("SLIDER_MIN (%d) must be below SLIDER_MAX (%d)", c.SliderMin, c.SliderMax)
	}
	if c.ActiveTimeout <= c.AdjustTimeout {
		return fmt.Errorf("ACTIVE_TIMEOUT (%d ms) must exceed ADJUST_TIMEOUT (%d ms)", c.ActiveTimeout, c.AdjustTimeout)
	}
	if c.SnapLookback >= c.TickInterval*c.BufferSize {
		return fmt.Errorf("SNAP_LOOKBACK (%d ms) exceeds the buffered history (%d ticks of %d ms)", c.SnapLookback, c.BufferSize, c.TickInterval)
	}
	switch c.MotionSource {
	case SourceIMU:
		if c.IMUSPIDevice == "" {
			return fmt.Errorf("IMU_SPI_DEVICE is required for MOTION_SOURCE=imu")
		}
	case SourceSerial:
		if c.SerialPort == "" {
			return fmt.Errorf("SERIAL_PORT is required for MOTION_SOURCE=serial")
		}
	case SourceMQTT:
		if c.MQTTBroker == "" || c.TopicTilt == "" {
			return fmt.Errorf("MQTT_BROKER and TOPIC_TILT are required for MOTION_SOURCE=mqtt")
		}
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
