package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Schedule.Environmental != 10*time.Second {
		t.Errorf("Environmental: got %v, want 10s", cfg.Schedule.Environmental)
	}
	if cfg.Schedule.Digital != time.Second {
		t.Errorf("Digital: got %v, want 1s", cfg.Schedule.Digital)
	}
	if cfg.Schedule.Mirror != 200*time.Millisecond {
		t.Errorf("Mirror: got %v, want 200ms", cfg.Schedule.Mirror)
	}
	if cfg.MQTT.PublishTimeout != 5*time.Second {
		t.Errorf("PublishTimeout: got %v, want 5s", cfg.MQTT.PublishTimeout)
	}
	if cfg.GPIO.Pins.SensorData != 18 || cfg.GPIO.Pins.BallSwitch != 5 || cfg.GPIO.Pins.RedIndicator != 23 {
		t.Errorf("Pins: got %+v", cfg.GPIO.Pins)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
mqtt:
  broker: "tcp://tb.example:1883"
  token: "abc123"
gpio:
  bias: pull-up
  pins:
    button: 17
schedule:
  environmental: 30s
  mirror: 100ms
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MQTT.Broker != "tcp://tb.example:1883" {
		t.Errorf("Broker: got %q", cfg.MQTT.Broker)
	}
	if cfg.MQTT.Token != "abc123" {
		t.Errorf("Token: got %q", cfg.MQTT.Token)
	}
	if cfg.GPIO.Bias != "pull-up" {
		t.Errorf("Bias: got %q", cfg.GPIO.Bias)
	}
	if cfg.GPIO.Pins.Button != 17 {
		t.Errorf("Pins.Button: got %d, want 17", cfg.GPIO.Pins.Button)
	}
	// Unset keys keep their defaults.
	if cfg.GPIO.Pins.BallSwitch != 5 {
		t.Errorf("Pins.BallSwitch: got %d, want 5", cfg.GPIO.Pins.BallSwitch)
	}
	if cfg.Schedule.Environmental != 30*time.Second {
		t.Errorf("Environmental: got %v, want 30s", cfg.Schedule.Environmental)
	}
	if cfg.Schedule.Digital != time.Second {
		t.Errorf("Digital: got %v, want 1s", cfg.Schedule.Digital)
	}
	if cfg.Schedule.Mirror != 100*time.Millisecond {
		t.Errorf("Mirror: got %v, want 100ms", cfg.Schedule.Mirror)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q", cfg.Logging.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "mqtt: [unterminated")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
mqtt:
  broker: "tcp://file:1883"
  token: "from-file"
`)
	t.Setenv("SENSOR_NODE_MQTT_TOKEN", "from-env")
	t.Setenv("SENSOR_NODE_SCHEDULE_DIGITAL", "2s")
	t.Setenv("SENSOR_NODE_PIN_RED_INDICATOR", "24")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MQTT.Token != "from-env" {
		t.Errorf("Token: got %q, want from-env", cfg.MQTT.Token)
	}
	if cfg.MQTT.Broker != "tcp://file:1883" {
		t.Errorf("Broker: got %q, want file value", cfg.MQTT.Broker)
	}
	if cfg.Schedule.Digital != 2*time.Second {
		t.Errorf("Digital: got %v, want 2s", cfg.Schedule.Digital)
	}
	if cfg.GPIO.Pins.RedIndicator != 24 {
		t.Errorf("RedIndicator: got %d, want 24", cfg.GPIO.Pins.RedIndicator)
	}
}

func TestEnvOverrideBadValue(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"duration", "SENSOR_NODE_SCHEDULE_MIRROR", "fast"},
		{"pin", "SENSOR_NODE_PIN_RED_INDICATOR", "red"},
		{"publish timeout", "SENSOR_NODE_MQTT_PUBLISH_TIMEOUT", "5 seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg, err := Load("")
			if err == nil {
				t.Fatalf("expected error for %s=%q, got config %+v", tt.key, tt.value, cfg)
			}
			if !strings.Contains(err.Error(), "reading environment") {
				t.Errorf("error %q does not mention the environment", err)
			}
		})
	}
}

func TestNoEnvOverrides(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load without SENSOR_NODE_* variables: %v", err)
	}
	if cfg.GPIO.Pins.RedIndicator != 23 {
		t.Errorf("RedIndicator: got %d, want 23", cfg.GPIO.Pins.RedIndicator)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"empty broker", func(c *Config) { c.MQTT.Broker = "" }, "mqtt.broker is required"},
		{"broker without scheme", func(c *Config) { c.MQTT.Broker = "localhost:1883" }, "mqtt.broker"},
		{"bad scheme", func(c *Config) { c.MQTT.Broker = "http://localhost:1883" }, "mqtt.broker"},
		{"zero publish timeout", func(c *Config) { c.MQTT.PublishTimeout = 0 }, "mqtt.publish_timeout"},
		{"empty chip", func(c *Config) { c.GPIO.Chip = "" }, "gpio.chip"},
		{"bad bias", func(c *Config) { c.GPIO.Bias = "floating" }, "gpio.bias"},
		{"negative pin", func(c *Config) { c.GPIO.Pins.Button = -1 }, "gpio.pins.button"},
		{"duplicate pin", func(c *Config) { c.GPIO.Pins.RedIndicator = c.GPIO.Pins.BallSwitch }, "gpio.pins.red_indicator duplicates gpio.pins.ball_switch"},
		{"sensor data pin reused", func(c *Config) { c.GPIO.Pins.Button = c.GPIO.Pins.SensorData }, "gpio.pins.button duplicates gpio.pins.sensor_data"},
		{"empty iio dir", func(c *Config) { c.Sensor.IIODir = "" }, "sensor.iio_dir"},
		{"zero poll", func(c *Config) { c.Network.Poll = 0 }, "network.poll"},
		{"zero environmental", func(c *Config) { c.Schedule.Environmental = 0 }, "schedule.environmental"},
		{"negative digital", func(c *Config) { c.Schedule.Digital = -time.Second }, "schedule.digital"},
		{"zero mirror", func(c *Config) { c.Schedule.Mirror = 0 }, "schedule.mirror"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad output", func(c *Config) { c.Logging.Output = "file" }, "logging.output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.MQTT.Broker = ""
	cfg.Schedule.Mirror = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"mqtt.broker", "schedule.mirror"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
