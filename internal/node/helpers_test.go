package node

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/sensor-node/internal/gpio"
	"github.com/sweeney/sensor-node/internal/logic"
	"github.com/sweeney/sensor-node/internal/sensor"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// waitFor polls cond until it holds or the timeout expires.
func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// recordingSleeper records each requested sleep and whether the gate was
// held at that moment. The first limit calls return at once; later calls
// block until ctx is done.
type recordingSleeper struct {
	mu        sync.Mutex
	gate      *Gate
	limit     int
	durations []time.Duration
	held      []bool
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.durations = append(s.durations, d)
	if s.gate != nil {
		s.held = append(s.held, s.gate.Held())
	}
	n := len(s.durations)
	s.mu.Unlock()

	if n <= s.limit {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *recordingSleeper) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.durations)
}

func (s *recordingSleeper) snapshot() ([]time.Duration, []bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.durations...), append([]bool(nil), s.held...)
}

type recordingObserver struct {
	mu             sync.Mutex
	connects       []error
	gateOpened     int
	published      []string
	publishErrors  int
	readings       []sensor.Reading
	inputs         []logic.DigitalInputs
	indicatorCount int
	lastIndicators logic.Indicators
}

func (o *recordingObserver) ConnectAttempted(err error) {
	o.mu.Lock()
	o.connects = append(o.connects, err)
	o.mu.Unlock()
}

func (o *recordingObserver) GateOpened() {
	o.mu.Lock()
	o.gateOpened++
	o.mu.Unlock()
}

func (o *recordingObserver) Published(topic string, err error) {
	o.mu.Lock()
	o.published = append(o.published, topic)
	if err != nil {
		o.publishErrors++
	}
	o.mu.Unlock()
}

func (o *recordingObserver) SensorRead(r sensor.Reading, _ time.Time) {
	o.mu.Lock()
	o.readings = append(o.readings, r)
	o.mu.Unlock()
}

func (o *recordingObserver) InputsSampled(in logic.DigitalInputs) {
	o.mu.Lock()
	o.inputs = append(o.inputs, in)
	o.mu.Unlock()
}

func (o *recordingObserver) IndicatorsSet(out logic.Indicators) {
	o.mu.Lock()
	o.indicatorCount++
	o.lastIndicators = out
	o.mu.Unlock()
}

// board wires a FakeChip with the default pins.
func board(t *testing.T) (*gpio.FakeChip, Inputs, Indicators) {
	t.Helper()
	chip := gpio.NewFakeChip()
	in, out, err := OpenPins(chip, DefaultPins())
	if err != nil {
		t.Fatalf("OpenPins: %v", err)
	}
	return chip, in, out
}
