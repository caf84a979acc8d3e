// Package gpio provides digital input and output lines with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "errors"

// Direction is the configured direction of a line.
type Direction int

const (
	DirectionInput Direction = iota
	DirectionOutput
)

func (d Direction) String() string {
	switch d {
	case DirectionInput:
		return "input"
	case DirectionOutput:
		return "output"
	}
	return "unknown"
}

// Chip hands out configured lines.
type Chip interface {
	// Input configures pin as an input and returns it.
	Input(pin int) (Input, error)

	// Output configures pin as an output, initially low, and returns it.
	Output(pin int) (Output, error)

	// Close releases all lines handed out by the chip.
	Close() error
}

// Input is a configured input line.
// Reads are single hardware register reads and safe for concurrent use.
type Input interface {
	// Value returns the current electrical level (true = high).
	Value() bool
}

// Output is a configured output line.
type Output interface {
	// Set drives the line high (true) or low (false).
	Set(high bool)
}

// ErrPinInUse is returned when a pin is requested twice from the same chip.
var ErrPinInUse = errors.New("gpio: pin already requested")

// Default pin numbers for the reference board.
const (
	DefaultPinSensorData     = 18
	DefaultPinBallSwitch     = 5
	DefaultPinBoardButton    = 0
	DefaultPinButton         = 21
	DefaultPinBoardIndicator = 2
	DefaultPinGreenIndicator = 3
	DefaultPinRedIndicator   = 23
)

// Bias selects the input line bias.
type Bias string

const (
	BiasNone     Bias = ""
	BiasPullUp   Bias = "pull-up"
	BiasPullDown Bias = "pull-down"
)
