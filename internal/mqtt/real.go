package mqtt

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Default transport timings.
const (
	DefaultPublishTimeout       = 5 * time.Second
	DefaultConnectRetryInterval = 5 * time.Second
	defaultDisconnectQuiesce    = 1000 // milliseconds
)

// Options configures a RealTransport.
type Options struct {
	Broker   string // e.g. tcp://thingsboard.local:1883
	ClientID string // generated when empty
	Token    string // device access token, sent as the MQTT username
	Password string

	PublishTimeout       time.Duration
	ConnectRetryInterval time.Duration

	// Listener, if set, is told about connection state changes.
	Listener StateListener
}

// RealTransport publishes to an actual MQTT broker.
type RealTransport struct {
	client     paho.Client
	opts       Options
	logger     *slog.Logger
	connecting atomic.Bool
}

// NewRealTransport creates a transport for the given broker. It does not connect.
func NewRealTransport(opts Options, logger *slog.Logger) *RealTransport {
	if opts.ClientID == "" {
		opts.ClientID = "sensor-node-" + uuid.NewString()[:8]
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = DefaultPublishTimeout
	}
	if opts.ConnectRetryInterval <= 0 {
		opts.ConnectRetryInterval = DefaultConnectRetryInterval
	}

	t := &RealTransport{
		opts:   opts,
		logger: logger.With("component", "mqtt", "broker", opts.Broker),
	}

	po := paho.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(opts.ConnectRetryInterval).
		SetOnConnectHandler(func(_ paho.Client) {
			t.logger.Info("mqtt connected")
			t.notify(true)
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			t.logger.Warn("mqtt connection lost", "error", err)
			t.notify(false)
		})
	if opts.Token != "" {
		po.SetUsername(opts.Token)
	}
	if opts.Password != "" {
		po.SetPassword(opts.Password)
	}

	t.client = paho.NewClient(po)
	return t
}

// ClientID returns the MQTT client identifier in use.
func (t *RealTransport) ClientID() string {
	return t.opts.ClientID
}

func (t *RealTransport) notify(connected bool) {
	if t.opts.Listener != nil {
		t.opts.Listener.SetTransportConnected(connected)
	}
}

// Connect starts connecting in the background. paho keeps retrying until it
// succeeds, and reconnects on its own after a loss.
func (t *RealTransport) Connect() error {
	if t.client.IsConnected() {
		return nil
	}
	if !t.connecting.CompareAndSwap(false, true) {
		return nil
	}

	token := t.client.Connect()
	go func() {
		defer t.connecting.Store(false)
		token.Wait()
		if err := token.Error(); err != nil {
			t.logger.Warn("mqtt connect failed", "error", err)
		}
	}()
	return nil
}

// Publish sends payload to topic with QoS 0, not retained.
func (t *RealTransport) Publish(topic string, payload []byte) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if !t.client.IsConnectionOpen() {
		return ErrNotConnected
	}

	token := t.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(t.opts.PublishTimeout) {
		return fmt.Errorf("%w after %v", ErrPublishTimeout, t.opts.PublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// IsConnected reports whether the connection is open.
func (t *RealTransport) IsConnected() bool {
	return t.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (t *RealTransport) Close() error {
	t.client.Disconnect(defaultDisconnectQuiesce)
	return nil
}
