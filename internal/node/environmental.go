package node

import (
	"context"
	"log/slog"
	"time"

	"github.com/sweeney/sensor-node/internal/mqtt"
	"github.com/sweeney/sensor-node/internal/sensor"
)

// EnvironmentalSampler publishes temperature and humidity telemetry.
type EnvironmentalSampler struct {
	gate      *Gate
	transport mqtt.Transport
	driver    sensor.Driver
	interval  time.Duration
	sleep     SleepFunc
	now       func() time.Time
	observer  Observer
	logger    *slog.Logger
}

// Run loops acquire, sample, publish, release, sleep until ctx is cancelled.
func (s *EnvironmentalSampler) Run(ctx context.Context) error {
	for {
		if err := s.gate.Acquire(ctx); err != nil {
			return nil
		}
		s.sample()
		s.gate.Release()

		if err := s.sleep(ctx, s.interval); err != nil {
			return nil
		}
	}
}

// sample runs with the gate held. A failed read publishes nothing this tick.
func (s *EnvironmentalSampler) sample() {
	r := s.driver.Read()
	s.observer.SensorRead(r, s.now())
	if !r.OK() {
		s.logger.Debug("sensor read failed, skipping telemetry", "error", r.Err)
		return
	}

	s.publish(mqtt.FormatTemperature(r.Temperature))
	s.logger.Debug("temperature sent", "value", r.Temperature)
	s.publish(mqtt.FormatHumidity(r.Humidity))
	s.logger.Debug("humidity sent", "value", r.Humidity)
}

func (s *EnvironmentalSampler) publish(payload []byte) {
	err := s.transport.Publish(mqtt.TopicTelemetry, payload)
	if err != nil {
		s.logger.Debug("publish error", "topic", mqtt.TopicTelemetry, "error", err)
	}
	s.observer.Published(mqtt.TopicTelemetry, err)
}
