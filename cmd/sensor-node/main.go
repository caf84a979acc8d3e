// Command sensor-node samples a temperature/humidity sensor and three digital
// inputs, publishes them as ThingsBoard telemetry and attributes over MQTT, and
// mirrors the inputs onto indicator outputs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sweeney/sensor-node/internal/config"
	"github.com/sweeney/sensor-node/internal/gpio"
	"github.com/sweeney/sensor-node/internal/logging"
	"github.com/sweeney/sensor-node/internal/logic"
	"github.com/sweeney/sensor-node/internal/mqtt"
	"github.com/sweeney/sensor-node/internal/netwatch"
	"github.com/sweeney/sensor-node/internal/node"
	"github.com/sweeney/sensor-node/internal/sensor"
	"github.com/sweeney/sensor-node/internal/status"
	"github.com/sweeney/sensor-node/internal/web"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (empty for defaults)")
	printState := flag.Bool("print-state", false, "Print current inputs and one sensor reading, then exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	logger := logging.New(cfg.Logging, version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *printState, logger); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, printState bool, logger *slog.Logger) error {
	chip, err := gpio.NewRealChip(cfg.GPIO.Chip, gpio.Bias(cfg.GPIO.Bias), logger)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer chip.Close()

	driver := sensor.NewIIODriver(cfg.Sensor.IIODir)

	if printState {
		return printCurrentState(os.Stdout, chip, pinsFromConfig(cfg.GPIO.Pins), driver)
	}

	tracker := status.NewTracker(time.Now(), statusConfig(cfg))

	transport := mqtt.NewRealTransport(mqtt.Options{
		Broker:         cfg.MQTT.Broker,
		ClientID:       cfg.MQTT.ClientID,
		Token:          cfg.MQTT.Token,
		Password:       cfg.MQTT.Password,
		PublishTimeout: cfg.MQTT.PublishTimeout,
		Listener:       tracker,
	}, logger)
	defer transport.Close()

	// The client ID may have been generated by the transport.
	tracker.SetClientID(transport.ClientID())

	return serve(ctx, cfg, system{
		chip:      chip,
		driver:    driver,
		transport: transport,
		tracker:   tracker,
		probe:     netwatch.InterfaceProbe(cfg.Network.Interface),
	}, logger)
}

// system bundles the hardware and network collaborators so serve can be
// exercised with fakes.
type system struct {
	chip      gpio.Chip
	driver    sensor.Driver
	transport mqtt.Transport
	tracker   *status.Tracker
	probe     netwatch.Probe
}

// serve configures the pins, starts the network watcher, the four node
// tasks and the status page, and blocks until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, sys system, logger *slog.Logger) error {
	inputs, indicators, err := node.OpenPins(sys.chip, pinsFromConfig(cfg.GPIO.Pins))
	if err != nil {
		return fmt.Errorf("configure pins: %w", err)
	}

	if info := readNetworkInfo(); info != nil {
		sys.tracker.SetNetwork(info)
	}

	n := node.New(node.Deps{
		Transport:  sys.transport,
		Driver:     sys.driver,
		Inputs:     inputs,
		Indicators: indicators,
		Observer:   sys.tracker,
		Logger:     logger,
	}, node.Config{
		EnvironmentalInterval: cfg.Schedule.Environmental,
		DigitalInterval:       cfg.Schedule.Digital,
		MirrorInterval:        cfg.Schedule.Mirror,
	})

	watcher := netwatch.New(netwatch.Options{
		Probe:    sys.probe,
		Raiser:   n.Signal(),
		Interval: cfg.Network.Poll,
		Listener: networkListener{tracker: sys.tracker, transport: sys.transport},
	}, logger)

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, sys.tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		logger.Info("http status server listening", "addr", cfg.HTTP.Addr)
	}

	logger.Info("started",
		"broker", cfg.MQTT.Broker,
		"environmental", cfg.Schedule.Environmental,
		"digital", cfg.Schedule.Digital,
		"mirror", cfg.Schedule.Mirror,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watcher.Run(gctx) })
	g.Go(func() error { return n.Run(gctx) })
	err = g.Wait()

	logger.Info("shutting down", "mqtt_connected", sys.transport.IsConnected())
	return err
}

// networkListener records readiness and refreshes the interface details
// each time the link changes. The transport state is resampled too: after a
// link loss paho only notices once its keepalive expires.
type networkListener struct {
	tracker   *status.Tracker
	transport mqtt.Transport
}

func (l networkListener) SetNetworkReady(ready bool) {
	l.tracker.SetNetworkReady(ready)
	l.tracker.SetTransportConnected(l.transport.IsConnected())
	if info := readNetworkInfo(); info != nil {
		l.tracker.SetNetwork(info)
	}
}

func pinsFromConfig(p config.PinConfig) node.Pins {
	return node.Pins{
		BallSwitch:     p.BallSwitch,
		BoardButton:    p.BoardButton,
		Button:         p.Button,
		BoardIndicator: p.BoardIndicator,
		GreenIndicator: p.GreenIndicator,
		RedIndicator:   p.RedIndicator,
	}
}

func statusConfig(cfg *config.Config) status.Config {
	return status.Config{
		EnvironmentalMs: cfg.Schedule.Environmental.Milliseconds(),
		DigitalMs:       cfg.Schedule.Digital.Milliseconds(),
		MirrorMs:        cfg.Schedule.Mirror.Milliseconds(),
		Broker:          cfg.MQTT.Broker,
		ClientID:        cfg.MQTT.ClientID,
		HTTPAddr:        cfg.HTTP.Addr,
	}
}

// printCurrentState reads the digital inputs and one sensor sample. Only the
// input lines are requested so the indicators are left untouched.
func printCurrentState(w io.Writer, chip gpio.Chip, p node.Pins, driver sensor.Driver) error {
	lines := []struct {
		name string
		pin  int
	}{
		{"ballswitch", p.BallSwitch},
		{"board_button", p.BoardButton},
		{"button", p.Button},
	}
	for _, l := range lines {
		in, err := chip.Input(l.pin)
		if err != nil {
			return fmt.Errorf("%s: %w", l.name, err)
		}
		fmt.Fprintf(w, "%s: %d\n", l.name, logic.Level(in.Value()))
	}

	r := driver.Read()
	if !r.OK() {
		fmt.Fprintf(w, "sensor: %s (%v)\n", r.Status, r.Err)
		return nil
	}
	fmt.Fprintf(w, "temperature: %d\nhumidity: %d\n", r.Temperature, r.Humidity)
	return nil
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
