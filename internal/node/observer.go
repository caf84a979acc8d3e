package node

import (
	"time"

	"github.com/sweeney/sensor-node/internal/logic"
	"github.com/sweeney/sensor-node/internal/sensor"
)

// Observer receives outcomes the tasks otherwise ignore. It never
// influences control flow. status.Tracker implements it.
type Observer interface {
	ConnectAttempted(err error)
	GateOpened()
	Published(topic string, err error)
	SensorRead(r sensor.Reading, at time.Time)
	InputsSampled(in logic.DigitalInputs)
	IndicatorsSet(out logic.Indicators)
}

type nopObserver struct{}

func (nopObserver) ConnectAttempted(error)               {}
func (nopObserver) GateOpened()                          {}
func (nopObserver) Published(string, error)              {}
func (nopObserver) SensorRead(sensor.Reading, time.Time) {}
func (nopObserver) InputsSampled(logic.DigitalInputs)    {}
func (nopObserver) IndicatorsSet(logic.Indicators)       {}
