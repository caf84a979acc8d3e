//go:build linux

package gpio

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/warthog618/go-gpiocdev"
)

// RealChip hands out lines from a Linux GPIO character device.
type RealChip struct {
	chip   *gpiocdev.Chip
	bias   Bias
	logger *slog.Logger

	mu      sync.Mutex
	inputs  []*gpiocdev.Line
	outputs []*gpiocdev.Line
	pins    map[int]bool
}

// NewRealChip opens the named chip (e.g. "gpiochip0").
// Inputs requested from it use the given bias.
func NewRealChip(name string, bias Bias, logger *slog.Logger) (*RealChip, error) {
	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", name, err)
	}
	return &RealChip{
		chip:   chip,
		bias:   bias,
		logger: logger.With("component", "gpio"),
		pins:   make(map[int]bool),
	}, nil
}

func (c *RealChip) claim(pin int) error {
	if c.pins[pin] {
		return fmt.Errorf("%w: %d", ErrPinInUse, pin)
	}
	c.pins[pin] = true
	return nil
}

// Input requests pin as an input.
func (c *RealChip) Input(pin int) (Input, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.claim(pin); err != nil {
		return nil, err
	}

	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput}
	switch c.bias {
	case BiasPullUp:
		opts = append(opts, gpiocdev.WithPullUp)
	case BiasPullDown:
		opts = append(opts, gpiocdev.WithPullDown)
	}

	line, err := c.chip.RequestLine(pin, opts...)
	if err != nil {
		delete(c.pins, pin)
		return nil, fmt.Errorf("request input pin %d: %w", pin, err)
	}
	c.inputs = append(c.inputs, line)
	return &realLine{line: line, pin: pin, logger: c.logger}, nil
}

// Output requests pin as an output driven low.
func (c *RealChip) Output(pin int) (Output, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.claim(pin); err != nil {
		return nil, err
	}

	line, err := c.chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		delete(c.pins, pin)
		return nil, fmt.Errorf("request output pin %d: %w", pin, err)
	}
	c.outputs = append(c.outputs, line)
	return &realLine{line: line, pin: pin, logger: c.logger}, nil
}

// Close drives outputs low, returns every line to an input and closes the chip.
func (c *RealChip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, line := range c.outputs {
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear output: %w", err))
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure output: %w", err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close output: %w", err))
		}
	}
	for _, line := range c.inputs {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close input: %w", err))
		}
	}
	c.outputs, c.inputs = nil, nil
	if c.chip != nil {
		if err := c.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// realLine logs the first error of a run of failures and the recovery.
// Callers see a low level while the line is failing.
type realLine struct {
	line    *gpiocdev.Line
	pin     int
	logger  *slog.Logger
	failing atomic.Bool
}

func (l *realLine) Value() bool {
	v, err := l.line.Value()
	l.track(err)
	if err != nil {
		return false
	}
	return v != 0
}

func (l *realLine) Set(high bool) {
	v := 0
	if high {
		v = 1
	}
	l.track(l.line.SetValue(v))
}

func (l *realLine) track(err error) {
	if err != nil {
		if !l.failing.Swap(true) {
			l.logger.Warn("gpio line error", "pin", l.pin, "error", err)
		}
		return
	}
	if l.failing.Swap(false) {
		l.logger.Info("gpio line recovered", "pin", l.pin)
	}
}
