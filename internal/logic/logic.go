// Package logic contains pure functions for the node's local control loop.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
package logic

// DigitalInputs is one snapshot of the three digital inputs.
// Values are raw electrical levels (true = high); nothing is debounced.
type DigitalInputs struct {
	BallSwitch  bool
	BoardButton bool
	Button      bool
}

// Indicators is the desired state of the three indicator outputs.
type Indicators struct {
	Board bool // board LED
	Green bool
	Red   bool
}

// Derive computes indicator outputs from inputs:
// board follows the board button, green is its inverse, red follows the ball switch.
// The external button drives no indicator.
func Derive(in DigitalInputs) Indicators {
	return Indicators{
		Board: in.BoardButton,
		Green: !in.BoardButton,
		Red:   in.BallSwitch,
	}
}

// Level encodes a digital level as 0 or 1.
func Level(high bool) int {
	if high {
		return 1
	}
	return 0
}
