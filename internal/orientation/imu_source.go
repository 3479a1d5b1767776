package orientation

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"
)

type imuSource struct {
	imu  *mpu9250.MPU9250
	gain float64
}

// NewIMUSource initializes an MPU9250 over SPI and returns a Source that
// derives tilt from its accelerometer.
func NewIMUSource(spiDev, csPin string, gain float64) (Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("IMU CS pin %q not found", csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDev, cs)
	if err != nil {
		return nil, fmt.Errorf("IMU SPI transport (%s): %w", spiDev, err)
	}

	imu, err := mpu9250.New(*tr)
	if err != nil {
		return nil, fmt.Errorf("IMU new device: %w", err)
	}

	if err := imu.Init(); err != nil {
		return nil, fmt.Errorf("IMU init: %w", err)
	}

	// Calibration needs the wrist held still; a failure only costs accuracy.
	if err := imu.Calibrate(); err != nil {
		log.Printf("orientation: IMU calibration failed: %v", err)
	}

	log.Printf("orientation: IMU ready on %s (CS %s, gain %.2f)", spiDev, csPin, gain)
	return &imuSource{imu: imu, gain: gain}, nil
}

// Next reads one accelerometer sample and converts it to tilt.
func (s *imuSource) Next() (Tilt, error) {
	ax, err := s.imu.GetAccelerationX()
	if err != nil {
		return Tilt{}, fmt.Errorf("IMU acc X: %w", err)
	}
	ay, err := s.imu.GetAccelerationY()
	if err != nil {
		return Tilt{}, fmt.Errorf("IMU acc Y: %w", err)
	}
	az, err := s.imu.GetAccelerationZ()
	if err != nil {
		return Tilt{}, fmt.Errorf("IMU acc Z: %w", err)
	}

	return ComputeTiltFromAccel(float64(ax), float64(ay), float64(az), s.gain), nil
}
