package node

import (
	"context"
	"log/slog"
	"time"

	"github.com/sweeney/sensor-node/internal/gpio"
	"github.com/sweeney/sensor-node/internal/logic"
	"github.com/sweeney/sensor-node/internal/mqtt"
)

// Inputs are the three digital inputs.
type Inputs struct {
	BallSwitch  gpio.Input
	BoardButton gpio.Input
	Button      gpio.Input
}

// DigitalSampler publishes the digital inputs as attributes.
type DigitalSampler struct {
	gate      *Gate
	transport mqtt.Transport
	inputs    Inputs
	interval  time.Duration
	sleep     SleepFunc
	observer  Observer
	logger    *slog.Logger
}

// Run loops acquire, publish burst, release, sleep until ctx is cancelled.
func (s *DigitalSampler) Run(ctx context.Context) error {
	for {
		if err := s.gate.Acquire(ctx); err != nil {
			return nil
		}
		s.burst()
		s.gate.Release()

		if err := s.sleep(ctx, s.interval); err != nil {
			return nil
		}
	}
}

// burst runs with the gate held for all three publishes. Each input is read
// just before its own publish.
func (s *DigitalSampler) burst() {
	var in logic.DigitalInputs

	in.BallSwitch = s.inputs.BallSwitch.Value()
	s.publish(mqtt.FormatBallSwitch(in.BallSwitch))
	s.logger.Debug("ball switch sent", "value", logic.Level(in.BallSwitch))

	in.BoardButton = s.inputs.BoardButton.Value()
	s.publish(mqtt.FormatBoardButton(in.BoardButton))
	s.logger.Debug("board button sent", "value", logic.Level(in.BoardButton))

	in.Button = s.inputs.Button.Value()
	s.publish(mqtt.FormatButton(in.Button))
	s.logger.Debug("button sent", "value", logic.Level(in.Button))

	s.observer.InputsSampled(in)
}

func (s *DigitalSampler) publish(payload []byte) {
	err := s.transport.Publish(mqtt.TopicAttributes, payload)
	if err != nil {
		s.logger.Debug("publish error", "topic", mqtt.TopicAttributes, "error", err)
	}
	s.observer.Published(mqtt.TopicAttributes, err)
}
