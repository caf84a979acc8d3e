package sensor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultIIODir is where the kernel dht11 driver usually appears.
const DefaultIIODir = "/sys/bus/iio/devices/iio:device0"

const (
	tempFile     = "in_temp_input"
	humidityFile = "in_humidityrelative_input"
)

// IIODriver reads a DHT11 exposed through the Linux IIO subsystem
// (dtoverlay=dht11). Both channels are reported in milli-units.
type IIODriver struct {
	dir string
}

// NewIIODriver creates a driver for the IIO device directory dir.
func NewIIODriver(dir string) *IIODriver {
	return &IIODriver{dir: dir}
}

// Read reads temperature then humidity. Any failure yields StatusError.
// The kernel driver returns EIO when the sensor misses a handshake, which
// is common for the DHT11 and simply means this sample is lost.
func (d *IIODriver) Read() Reading {
	temp, err := d.readMilli(tempFile)
	if err != nil {
		return Failed(fmt.Errorf("read temperature: %w", err))
	}
	hum, err := d.readMilli(humidityFile)
	if err != nil {
		return Failed(fmt.Errorf("read humidity: %w", err))
	}
	return Reading{
		Temperature: temp / 1000,
		Humidity:    hum / 1000,
		Status:      StatusOK,
	}
}

func (d *IIODriver) readMilli(name string) (int, error) {
	data, err := os.ReadFile(filepath.Join(d.dir, name))
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(string(data))
	if s == "" {
		return 0, ErrNoData
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return v, nil
}
