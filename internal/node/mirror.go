package node

import (
	"context"
	"time"

	"github.com/sweeney/sensor-node/internal/gpio"
	"github.com/sweeney/sensor-node/internal/logic"
)

// Indicators are the three indicator outputs.
type Indicators struct {
	Board gpio.Output
	Green gpio.Output
	Red   gpio.Output
}

// Mirror copies input levels onto the indicators. It does not depend on the
// gate or the network.
type Mirror struct {
	inputs     Inputs
	indicators Indicators
	interval   time.Duration
	sleep      SleepFunc
	observer   Observer
}

// Run updates the indicators, then sleeps, until ctx is cancelled.
func (m *Mirror) Run(ctx context.Context) error {
	for {
		m.update()
		if err := m.sleep(ctx, m.interval); err != nil {
			return nil
		}
	}
}

func (m *Mirror) update() {
	out := logic.Derive(logic.DigitalInputs{
		BoardButton: m.inputs.BoardButton.Value(),
		BallSwitch:  m.inputs.BallSwitch.Value(),
	})
	m.indicators.Board.Set(out.Board)
	m.indicators.Green.Set(out.Green)
	m.indicators.Red.Set(out.Red)
	m.observer.IndicatorsSet(out)
}
