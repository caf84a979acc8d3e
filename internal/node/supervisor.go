package node

import (
	"context"
	"log/slog"

	"github.com/sweeney/sensor-node/internal/mqtt"
)

// Supervisor starts the transport each time the network becomes ready.
type Supervisor struct {
	signal    *Signal
	gate      *Gate
	transport mqtt.Transport
	observer  Observer
	logger    *slog.Logger
}

// Run waits for the signal, calls Connect once per consumed signal and opens
// the gate after the first activation. Connect errors are logged and
// otherwise ignored; reconnection is the transport's concern.
// Run returns nil when ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		if err := s.signal.Wait(ctx); err != nil {
			return nil
		}
		s.activate()
	}
}

func (s *Supervisor) activate() {
	s.logger.Info("network ready, starting transport")
	err := s.transport.Connect()
	if err != nil {
		s.logger.Warn("transport connect error", "error", err)
	}
	s.observer.ConnectAttempted(err)

	if !s.gate.Opened() {
		s.gate.Open()
		s.observer.GateOpened()
		s.logger.Info("publish gate opened")
	}
}
