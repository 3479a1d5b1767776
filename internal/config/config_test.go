package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyGivesDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("# nothing here\n\n"))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flexpoint_config.txt")
	content := `
# wrist display
SCREEN_WIDTH=320
ORIGIN_OFFSET_Y = -4
ANGLE_TOLERANCE_DEG=12.5
MOTION_SOURCE=serial
SERIAL_PORT=/dev/ttyUSB0
DISPLAY_I2C_ADDR=0x3D
TOPIC_STATE=wrist/state
WEB_SERVER_PORT=0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.ScreenWidth = 320
	want.OriginOffsetY = -4
	want.AngleToleranceDeg = 12.5
	want.MotionSource = SourceSerial
	want.SerialPort = "/dev/ttyUSB0"
	want.DisplayI2CAddr = 0x3D
	want.TopicState = "wrist/state"
	want.WebServerPort = 0
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open config file")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no separator", "SCREEN_WIDTH 240", "invalid config line 1"},
		{"unknown key", "FOO=1", `unknown config key: "FOO"`},
		{"bad int", "\nTICK_INTERVAL=fast", "config line 2: invalid TICK_INTERVAL"},
		{"non-positive", "BUFFER_SIZE=0", "BUFFER_SIZE must be positive"},
		{"bad source", "MOTION_SOURCE=bluetooth", "MOTION_SOURCE must be one of"},
		{"tolerance range", "ANGLE_TOLERANCE_DEG=270", "ANGLE_TOLERANCE_DEG must be in"},
		{"slider range", "SLIDER_MIN=100", "SLIDER_MIN (100) must be below SLIDER_MAX (100)"},
		{"activation shorter than adjustment", "ACTIVE_TIMEOUT=4000", "ACTIVE_TIMEOUT (4000 ms) must exceed ADJUST_TIMEOUT (5000 ms)"},
		{"lookback too long", "SNAP_LOOKBACK=2000", "exceeds the buffered history"},
		{"imu without device", "MOTION_SOURCE=imu\nIMU_SPI_DEVICE=", "IMU_SPI_DEVICE is required"},
		{"bad port", "WEB_SERVER_PORT=70000", "WEB_SERVER_PORT must be 0-65535"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
