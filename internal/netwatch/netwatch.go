// Package netwatch detects network association and raises the connectivity
// signal once each time the link comes up.
package netwatch

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// DefaultInterval is how often the probe runs.
const DefaultInterval = time.Second

// Raiser is notified on every not-ready to ready transition.
type Raiser interface {
	Raise()
}

// Listener receives every readiness change. The status tracker implements it.
type Listener interface {
	SetNetworkReady(ready bool)
}

// Probe reports whether the network is usable.
type Probe func() (bool, error)

// Options configures a Watcher.
type Options struct {
	Probe    Probe
	Raiser   Raiser
	Interval time.Duration
	Listener Listener // optional
}

// Watcher polls a Probe and raises a signal on association.
type Watcher struct {
	probe    Probe
	raiser   Raiser
	interval time.Duration
	listener Listener
	logger   *slog.Logger

	ready bool
}

// New creates a Watcher. A zero Interval means DefaultInterval.
func New(opts Options, logger *slog.Logger) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Watcher{
		probe:    opts.Probe,
		raiser:   opts.Raiser,
		interval: opts.Interval,
		listener: opts.Listener,
		logger:   logger.With("component", "netwatch"),
	}
}

// Run polls until ctx is cancelled. The first check happens immediately.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check runs the probe once and raises the signal if the network just came up.
// It reports the current readiness. Not safe for concurrent use with Run.
func (w *Watcher) Check() bool {
	ready, err := w.probe()
	if err != nil {
		w.logger.Debug("network probe failed", "error", err)
		ready = false
	}

	if ready == w.ready {
		return ready
	}
	w.ready = ready
	if w.listener != nil {
		w.listener.SetNetworkReady(ready)
	}

	if ready {
		w.logger.Info("network up")
		w.raiser.Raise()
	} else {
		w.logger.Warn("network down")
	}
	return ready
}

// InterfaceProbe returns a Probe that is ready when the named interface is up
// and has a global unicast address. An empty name accepts any non-loopback
// interface.
func InterfaceProbe(name string) Probe {
	return func() (bool, error) {
		if name != "" {
			iface, err := net.InterfaceByName(name)
			if err != nil {
				return false, fmt.Errorf("interface %s: %w", name, err)
			}
			return usable(*iface)
		}

		ifaces, err := net.Interfaces()
		if err != nil {
			return false, fmt.Errorf("list interfaces: %w", err)
		}
		for _, iface := range ifaces {
			if iface.Flags&net.FlagLoopback != 0 {
				continue
			}
			ok, err := usable(iface)
			if err != nil {
				continue
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
}

func usable(iface net.Interface) (bool, error) {
	if iface.Flags&net.FlagUp == 0 {
		return false, nil
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return false, fmt.Errorf("interface %s addrs: %w", iface.Name, err)
	}
	for _, addr := range addrs {
		if hasGlobalUnicast(addr) {
			return true, nil
		}
	}
	return false, nil
}

func hasGlobalUnicast(addr net.Addr) bool {
	var ip net.IP
	switch a := addr.(type) {
	case *net.IPNet:
		ip = a.IP
	case *net.IPAddr:
		ip = a.IP
	default:
		return false
	}
	return ip.IsGlobalUnicast()
}
