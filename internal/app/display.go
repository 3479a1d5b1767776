package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"math"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/flexpoint/internal/config"
	"github.com/relabs-tech/flexpoint/internal/flexpoint"
)

// The ssd1306 driver always talks to this address.
const ssd1306Addr = 0x3C

// Radar: the pointer ray drawn to the right of the text.
const (
	radarCenterX = 106
	radarCenterY = 32
	radarRadius  = 20
	radarFull    = 170.0 // ray length that reaches the radar edge
)

// displayState holds the latest published controller state.
type displayState struct {
	mu    sync.RWMutex
	state flexpoint.State
	have  bool
}

func (d *displayState) set(st flexpoint.State) {
	d.mu.Lock()
	d.state, d.have = st, true
	d.mu.Unlock()
}

func (d *displayState) get() (flexpoint.State, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state, d.have
}

// RunDisplay mirrors the pointer state on an SSD1306 OLED.
func RunDisplay() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}
	if cfg.DisplayI2CAddr != ssd1306Addr {
		return fmt.Errorf("display: ssd1306 answers on 0x%02X only, DISPLAY_I2C_ADDR is 0x%02X", ssd1306Addr, cfg.DisplayI2CAddr)
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	opts := ssd1306.DefaultOpts
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized at 0x%02X", cfg.DisplayI2CAddr)

	if err := dev.Draw(dev.Bounds(), renderSplash(dev.Bounds()), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	data := &displayState{}
	if err := subscribe(client, cfg.TopicState, func(payload []byte) {
		var st flexpoint.State
		if err := json.Unmarshal(payload, &st); err != nil {
			log.Printf("display: state unmarshal error: %v", err)
			return
		}
		data.set(st)
	}); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		st, have := data.get()
		if err := dev.Draw(dev.Bounds(), renderState(dev.Bounds(), st, have), image.Point{}); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}
	return nil
}

func newCanvas(r image.Rectangle) (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(r)
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func drawText(d *font.Drawer, x, y int, s string) {
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

func renderSplash(r image.Rectangle) *image1bit.VerticalLSB {
	img, d := newCanvas(r)
	drawText(d, 25, 26, "FlexPoint")
	drawText(d, 10, 43, "tilt to point")
	drawText(d, 15, 56, "snap to pick")
	return img
}

// renderState draws mode, selection and snap count on the left and the
// pointer ray on the right.
func renderState(r image.Rectangle, st flexpoint.State, have bool) *image1bit.VerticalLSB {
	img, d := newCanvas(r)

	if !have {
		drawText(d, 0, 26, "FlexPoint")
		drawText(d, 0, 39, "Waiting...")
		return img
	}

	drawText(d, 0, 13, string(st.Mode))
	sel := string(st.Selected)
	if sel == "" {
		sel = "-"
	}
	if len(sel) > 11 {
		sel = sel[:11]
	}
	drawText(d, 0, 26, sel)
	drawText(d, 0, 39, fmt.Sprintf("snaps %d", st.Snaps))
	switch {
	case st.Mode == flexpoint.ModeAdjusting:
		drawText(d, 0, 52, fmt.Sprintf("adj %.1fs", st.AdjustLeft.Seconds()))
	case st.Rapid:
		drawText(d, 0, 52, "rapid")
	}

	if st.Mode == flexpoint.ModePointing {
		n := math.Min(st.Ray.Length/radarFull, 1) * radarRadius
		for i := 0.0; i <= n; i++ {
			x := radarCenterX + int(math.Round(i*math.Cos(st.Ray.Angle)))
			y := radarCenterY + int(math.Round(i*math.Sin(st.Ray.Angle)))
			img.Set(x, y, image1bit.On)
		}
	}
	img.Set(radarCenterX, radarCenterY, image1bit.On)
	return img
}
