package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/sweeney/sensor-node/internal/gpio"
	"github.com/sweeney/sensor-node/internal/sensor"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full daemon configuration.
type Config struct {
	MQTT     MQTTConfig     `yaml:"mqtt"`
	GPIO     GPIOConfig     `yaml:"gpio"`
	Sensor   SensorConfig   `yaml:"sensor"`
	Network  NetworkConfig  `yaml:"network"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Logging  LoggingConfig  `yaml:"logging"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// MQTTConfig configures the telemetry backend connection.
type MQTTConfig struct {
	Broker         string        `yaml:"broker" env:"SENSOR_NODE_MQTT_BROKER"`
	ClientID       string        `yaml:"client_id" env:"SENSOR_NODE_MQTT_CLIENT_ID"`
	Token          string        `yaml:"token" env:"SENSOR_NODE_MQTT_TOKEN"`
	Password       string        `yaml:"password" env:"SENSOR_NODE_MQTT_PASSWORD"`
	PublishTimeout time.Duration `yaml:"publish_timeout" env:"SENSOR_NODE_MQTT_PUBLISH_TIMEOUT"`
}

// GPIOConfig selects the chip, the input bias and the pin for each role.
type GPIOConfig struct {
	Chip string    `yaml:"chip" env:"SENSOR_NODE_GPIO_CHIP"`
	Bias string    `yaml:"bias" env:"SENSOR_NODE_GPIO_BIAS"`
	Pins PinConfig `yaml:"pins"`
}

// PinConfig holds line offsets for each pin role. SensorData is owned by the
// kernel dht11 driver and is never requested here, but no other role may use it.
type PinConfig struct {
	SensorData     int `yaml:"sensor_data" env:"SENSOR_NODE_PIN_SENSOR_DATA"`
	BallSwitch     int `yaml:"ball_switch" env:"SENSOR_NODE_PIN_BALL_SWITCH"`
	BoardButton    int `yaml:"board_button" env:"SENSOR_NODE_PIN_BOARD_BUTTON"`
	Button         int `yaml:"button" env:"SENSOR_NODE_PIN_BUTTON"`
	BoardIndicator int `yaml:"board_indicator" env:"SENSOR_NODE_PIN_BOARD_INDICATOR"`
	GreenIndicator int `yaml:"green_indicator" env:"SENSOR_NODE_PIN_GREEN_INDICATOR"`
	RedIndicator   int `yaml:"red_indicator" env:"SENSOR_NODE_PIN_RED_INDICATOR"`
}

// SensorConfig locates the temperature/humidity device.
type SensorConfig struct {
	IIODir string `yaml:"iio_dir" env:"SENSOR_NODE_SENSOR_IIO_DIR"`
}

// NetworkConfig controls link detection.
type NetworkConfig struct {
	// Interface is the link to watch. Empty means any non-loopback interface.
	Interface string        `yaml:"interface" env:"SENSOR_NODE_NETWORK_INTERFACE"`
	Poll      time.Duration `yaml:"poll" env:"SENSOR_NODE_NETWORK_POLL"`
}

// ScheduleConfig holds the fixed delays of the periodic tasks.
type ScheduleConfig struct {
	Environmental time.Duration `yaml:"environmental" env:"SENSOR_NODE_SCHEDULE_ENVIRONMENTAL"`
	Digital       time.Duration `yaml:"digital" env:"SENSOR_NODE_SCHEDULE_DIGITAL"`
	Mirror        time.Duration `yaml:"mirror" env:"SENSOR_NODE_SCHEDULE_MIRROR"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"SENSOR_NODE_LOG_LEVEL"`
	Format string `yaml:"format" env:"SENSOR_NODE_LOG_FORMAT"`
	Output string `yaml:"output" env:"SENSOR_NODE_LOG_OUTPUT"`
}

// HTTPConfig configures the status page. An empty Addr disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr" env:"SENSOR_NODE_HTTP_ADDR"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Broker:         "tcp://localhost:1883",
			PublishTimeout: 5 * time.Second,
		},
		GPIO: GPIOConfig{
			Chip: "gpiochip0",
			Bias: string(gpio.BiasNone),
			Pins: PinConfig{
				SensorData:     gpio.DefaultPinSensorData,
				BallSwitch:     gpio.DefaultPinBallSwitch,
				BoardButton:    gpio.DefaultPinBoardButton,
				Button:         gpio.DefaultPinButton,
				BoardIndicator: gpio.DefaultPinBoardIndicator,
				GreenIndicator: gpio.DefaultPinGreenIndicator,
				RedIndicator:   gpio.DefaultPinRedIndicator,
			},
		},
		Sensor: SensorConfig{
			IIODir: sensor.DefaultIIODir,
		},
		Network: NetworkConfig{
			Poll: time.Second,
		},
		Schedule: ScheduleConfig{
			Environmental: 10 * time.Second,
			Digital:       time.Second,
			Mirror:        200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		HTTP: HTTPConfig{
			Addr: ":80",
		},
	}
}

// Load reads configuration from path, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides decodes SENSOR_NODE_* variables over cfg. A value that
// does not parse is an error; no variables at all is not.
func applyEnvOverrides(cfg *Config) error {
	err := envdecode.StrictDecode(cfg)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, envdecode.ErrInvalidTarget), errors.Is(err, envdecode.ErrNoTargetFieldsAreSet):
		return nil
	default:
		return fmt.Errorf("reading environment: %w", err)
	}
}

var brokerSchemes = map[string]bool{
	"tcp": true, "mqtt": true, "ssl": true, "tls": true, "mqtts": true, "ws": true, "wss": true,
}

// Validate checks the configuration for errors. All problems are reported
// together.
func (c *Config) Validate() error {
	var errs []string

	if c.MQTT.Broker == "" {
		errs = append(errs, "mqtt.broker is required")
	} else if u, err := url.Parse(c.MQTT.Broker); err != nil || !brokerSchemes[u.Scheme] || u.Host == "" {
		errs = append(errs, fmt.Sprintf("mqtt.broker %q must be a URL like tcp://host:1883", c.MQTT.Broker))
	}
	if c.MQTT.PublishTimeout <= 0 {
		errs = append(errs, "mqtt.publish_timeout must be positive")
	}

	if c.GPIO.Chip == "" {
		errs = append(errs, "gpio.chip is required")
	}
	switch gpio.Bias(c.GPIO.Bias) {
	case gpio.BiasNone, gpio.BiasPullUp, gpio.BiasPullDown:
	default:
		errs = append(errs, fmt.Sprintf("gpio.bias %q must be one of \"\", pull-up, pull-down", c.GPIO.Bias))
	}
	errs = append(errs, c.GPIO.Pins.validate()...)

	if c.Sensor.IIODir == "" {
		errs = append(errs, "sensor.iio_dir is required")
	}
	if c.Network.Poll <= 0 {
		errs = append(errs, "network.poll must be positive")
	}

	if c.Schedule.Environmental <= 0 {
		errs = append(errs, "schedule.environmental must be positive")
	}
	if c.Schedule.Digital <= 0 {
		errs = append(errs, "schedule.digital must be positive")
	}
	if c.Schedule.Mirror <= 0 {
		errs = append(errs, "schedule.mirror must be positive")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q must be json or text", c.Logging.Format))
	}
	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "stderr":
	default:
		errs = append(errs, fmt.Sprintf("logging.output %q must be stdout or stderr", c.Logging.Output))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

func (p PinConfig) validate() []string {
	roles := []struct {
		name string
		pin  int
	}{
		{"sensor_data", p.SensorData},
		{"ball_switch", p.BallSwitch},
		{"board_button", p.BoardButton},
		{"button", p.Button},
		{"board_indicator", p.BoardIndicator},
		{"green_indicator", p.GreenIndicator},
		{"red_indicator", p.RedIndicator},
	}

	var errs []string
	seen := make(map[int]string, len(roles))
	for _, r := range roles {
		if r.pin < 0 {
			errs = append(errs, fmt.Sprintf("gpio.pins.%s must not be negative", r.name))
			continue
		}
		if other, ok := seen[r.pin]; ok {
			errs = append(errs, fmt.Sprintf("gpio.pins.%s duplicates gpio.pins.%s (%d)", r.name, other, r.pin))
			continue
		}
		seen[r.pin] = r.name
	}
	return errs
}
