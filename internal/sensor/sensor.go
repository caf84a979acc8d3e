// Package sensor reads the environmental (temperature/humidity) sensor.
// The bit-level DHT11 protocol is handled by the kernel dht11 driver;
// this package only consumes the values it exposes.
package sensor

import "errors"

// Status is the outcome of one sensor read.
type Status int

const (
	StatusOK Status = iota
	StatusError
)

func (s Status) String() string {
	if s == StatusOK {
		return "OK"
	}
	return "ERROR"
}

// Reading is one temperature/humidity sample.
// Temperature is in whole degrees Celsius, Humidity in whole percent RH.
type Reading struct {
	Temperature int
	Humidity    int
	Status      Status
	Err         error // set when Status is StatusError
}

// OK reports whether the reading succeeded.
func (r Reading) OK() bool {
	return r.Status == StatusOK
}

// Failed builds an error reading.
func Failed(err error) Reading {
	return Reading{Status: StatusError, Err: err}
}

// Driver reads the sensor. Each call performs a fresh read.
type Driver interface {
	Read() Reading
}

// ErrNoData is reported when the sensor has not produced a sample.
var ErrNoData = errors.New("sensor: no data")
