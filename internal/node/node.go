package node

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sweeney/sensor-node/internal/gpio"
	"github.com/sweeney/sensor-node/internal/mqtt"
	"github.com/sweeney/sensor-node/internal/sensor"
)

// Default task cadences.
const (
	DefaultEnvironmentalInterval = 10 * time.Second
	DefaultDigitalInterval       = 1 * time.Second
	DefaultMirrorInterval        = 200 * time.Millisecond
)

// Pins maps logical roles to GPIO line numbers.
type Pins struct {
	BallSwitch     int
	BoardButton    int
	Button         int
	BoardIndicator int
	GreenIndicator int
	RedIndicator   int
}

// DefaultPins returns the reference board wiring.
func DefaultPins() Pins {
	return Pins{
		BallSwitch:     gpio.DefaultPinBallSwitch,
		BoardButton:    gpio.DefaultPinBoardButton,
		Button:         gpio.DefaultPinButton,
		BoardIndicator: gpio.DefaultPinBoardIndicator,
		GreenIndicator: gpio.DefaultPinGreenIndicator,
		RedIndicator:   gpio.DefaultPinRedIndicator,
	}
}

// OpenPins configures the inputs and indicator outputs on chip.
func OpenPins(chip gpio.Chip, p Pins) (Inputs, Indicators, error) {
	var in Inputs
	var out Indicators
	var err error

	if in.BallSwitch, err = chip.Input(p.BallSwitch); err != nil {
		return in, out, fmt.Errorf("ball switch: %w", err)
	}
	if in.BoardButton, err = chip.Input(p.BoardButton); err != nil {
		return in, out, fmt.Errorf("board button: %w", err)
	}
	if in.Button, err = chip.Input(p.Button); err != nil {
		return in, out, fmt.Errorf("button: %w", err)
	}
	if out.Board, err = chip.Output(p.BoardIndicator); err != nil {
		return in, out, fmt.Errorf("board indicator: %w", err)
	}
	if out.Green, err = chip.Output(p.GreenIndicator); err != nil {
		return in, out, fmt.Errorf("green indicator: %w", err)
	}
	if out.Red, err = chip.Output(p.RedIndicator); err != nil {
		return in, out, fmt.Errorf("red indicator: %w", err)
	}
	return in, out, nil
}

// Config holds task cadences. Zero values select the defaults.
type Config struct {
	EnvironmentalInterval time.Duration
	DigitalInterval       time.Duration
	MirrorInterval        time.Duration
}

// Deps are the collaborators the tasks share.
type Deps struct {
	Transport  mqtt.Transport
	Driver     sensor.Driver
	Inputs     Inputs
	Indicators Indicators

	// Optional.
	Observer Observer
	Logger   *slog.Logger
	Sleep    SleepFunc
	Now      func() time.Time
}

// Node owns the connectivity signal, the publish gate and the four tasks.
type Node struct {
	signal *Signal
	gate   *Gate

	supervisor    *Supervisor
	environmental *EnvironmentalSampler
	digital       *DigitalSampler
	mirror        *Mirror
}

// New builds a Node. Nothing runs until Run is called.
func New(d Deps, cfg Config) *Node {
	if cfg.EnvironmentalInterval <= 0 {
		cfg.EnvironmentalInterval = DefaultEnvironmentalInterval
	}
	if cfg.DigitalInterval <= 0 {
		cfg.DigitalInterval = DefaultDigitalInterval
	}
	if cfg.MirrorInterval <= 0 {
		cfg.MirrorInterval = DefaultMirrorInterval
	}
	if d.Observer == nil {
		d.Observer = nopObserver{}
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.Sleep == nil {
		d.Sleep = Sleep
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	signal := NewSignal()
	gate := NewGate()

	return &Node{
		signal: signal,
		gate:   gate,
		supervisor: &Supervisor{
			signal:    signal,
			gate:      gate,
			transport: d.Transport,
			observer:  d.Observer,
			logger:    d.Logger.With("task", "supervisor"),
		},
		environmental: &EnvironmentalSampler{
			gate:      gate,
			transport: d.Transport,
			driver:    d.Driver,
			interval:  cfg.EnvironmentalInterval,
			sleep:     d.Sleep,
			now:       d.Now,
			observer:  d.Observer,
			logger:    d.Logger.With("task", "environmental"),
		},
		digital: &DigitalSampler{
			gate:      gate,
			transport: d.Transport,
			inputs:    d.Inputs,
			interval:  cfg.DigitalInterval,
			sleep:     d.Sleep,
			observer:  d.Observer,
			logger:    d.Logger.With("task", "digital"),
		},
		mirror: &Mirror{
			inputs:     d.Inputs,
			indicators: d.Indicators,
			interval:   cfg.MirrorInterval,
			sleep:      d.Sleep,
			observer:   d.Observer,
		},
	}
}

// Signal returns the connectivity signal the network layer raises.
func (n *Node) Signal() *Signal {
	return n.signal
}

// Gate returns the publish gate.
func (n *Node) Gate() *Gate {
	return n.gate
}

// Run starts all tasks and blocks until ctx is cancelled and every task has
// returned. A sampler holding the gate finishes its publishes first.
func (n *Node) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return n.mirror.Run(ctx) })
	g.Go(func() error { return n.supervisor.Run(ctx) })
	g.Go(func() error { return n.environmental.Run(ctx) })
	g.Go(func() error { return n.digital.Run(ctx) })
	return g.Wait()
}
