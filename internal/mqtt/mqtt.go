// Package mqtt provides the telemetry transport with abstraction for testing.
package mqtt

import (
	"fmt"

	"github.com/sweeney/sensor-node/internal/logic"
)

// TopicTelemetry carries time-series readings (temperature, humidity).
const TopicTelemetry = "v1/devices/me/telemetry"

// TopicAttributes carries state-like values (digital inputs).
const TopicAttributes = "v1/devices/me/attributes"

// Transport is the single outbound publish channel.
type Transport interface {
	// Connect starts the connection lifecycle and returns without waiting
	// for the broker. A call while connected or connecting does nothing.
	Connect() error

	// Publish sends payload to topic. Returns error if publishing fails
	// (should not crash the process).
	Publish(topic string, payload []byte) error

	// IsConnected reports whether the connection is up.
	IsConnected() bool

	// Close disconnects from the broker.
	Close() error
}

// StateListener is notified of connection state changes.
type StateListener interface {
	SetTransportConnected(connected bool)
}

// Message is one published message.
type Message struct {
	Topic   string
	Payload []byte
}

// FormatTemperature formats a temperature reading.
// The value is a JSON string, as the backend dashboards expect it.
func FormatTemperature(celsius int) []byte {
	return fmt.Appendf(nil, `{"temperatura1": "%d"}`, celsius)
}

// FormatHumidity formats a humidity reading.
func FormatHumidity(percent int) []byte {
	return fmt.Appendf(nil, `{"umidade1": "%d"}`, percent)
}

// FormatBallSwitch formats the ball-switch attribute.
func FormatBallSwitch(high bool) []byte {
	return fmt.Appendf(nil, `{"ballswitch1": %d}`, logic.Level(high))
}

// FormatBoardButton formats the board-button attribute.
func FormatBoardButton(high bool) []byte {
	return fmt.Appendf(nil, `{"botaoPlaca1": %d}`, logic.Level(high))
}

// FormatButton formats the external-button attribute.
func FormatButton(high bool) []byte {
	return fmt.Appendf(nil, `{"button1": %d}`, logic.Level(high))
}
