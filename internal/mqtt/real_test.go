package mqtt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DrmagicE/gmqtt"
	paho "github.com/eclipse/paho.mqtt.golang"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingListener struct {
	mu     sync.Mutex
	states []bool
}

func (l *recordingListener) SetTransportConnected(connected bool) {
	l.mu.Lock()
	l.states = append(l.states, connected)
	l.mu.Unlock()
}

func (l *recordingListener) last() (bool, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.states) == 0 {
		return false, false
	}
	return l.states[len(l.states)-1], true
}

// startBroker runs an in-process MQTT broker on a loopback port.
func startBroker(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping broker test in short mode")
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := gmqtt.NewServer(gmqtt.WithTCPListener(ln))
	srv.Run()
	t.Cleanup(func() {
		srv.Stop(context.Background())
	})
	return "tcp://" + ln.Addr().String()
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestRealTransportGeneratesClientID(t *testing.T) {
	tr := NewRealTransport(Options{Broker: "tcp://127.0.0.1:1"}, discardLogger())
	if !strings.HasPrefix(tr.ClientID(), "sensor-node-") {
		t.Errorf("ClientID: got %q, want sensor-node- prefix", tr.ClientID())
	}

	other := NewRealTransport(Options{Broker: "tcp://127.0.0.1:1"}, discardLogger())
	if other.ClientID() == tr.ClientID() {
		t.Error("generated client IDs should differ")
	}

	fixed := NewRealTransport(Options{Broker: "tcp://127.0.0.1:1", ClientID: "node-7"}, discardLogger())
	if fixed.ClientID() != "node-7" {
		t.Errorf("ClientID: got %q, want node-7", fixed.ClientID())
	}
}

func TestRealTransportPublishNotConnected(t *testing.T) {
	tr := NewRealTransport(Options{Broker: "tcp://127.0.0.1:1"}, discardLogger())

	err := tr.Publish(TopicTelemetry, FormatTemperature(20))
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if tr.IsConnected() {
		t.Error("should not be connected")
	}
}

func TestRealTransportPublishEmptyTopic(t *testing.T) {
	tr := NewRealTransport(Options{Broker: "tcp://127.0.0.1:1"}, discardLogger())
	if err := tr.Publish("", []byte("{}")); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("expected ErrInvalidTopic, got %v", err)
	}
}

func TestRealTransportBrokerRoundTrip(t *testing.T) {
	broker := startBroker(t)

	received := make(chan Message, 10)
	subOpts := paho.NewClientOptions().AddBroker(broker).SetClientID("test-subscriber")
	sub := paho.NewClient(subOpts)
	if tok := sub.Connect(); !tok.WaitTimeout(5*time.Second) || tok.Error() != nil {
		t.Fatalf("subscriber connect: %v", tok.Error())
	}
	defer sub.Disconnect(100)
	tok := sub.Subscribe("v1/devices/me/#", 0, func(_ paho.Client, m paho.Message) {
		received <- Message{Topic: m.Topic(), Payload: m.Payload()}
	})
	if !tok.WaitTimeout(5*time.Second) || tok.Error() != nil {
		t.Fatalf("subscribe: %v", tok.Error())
	}

	listener := &recordingListener{}
	tr := NewRealTransport(Options{
		Broker:               broker,
		Token:                "device-token",
		ConnectRetryInterval: 100 * time.Millisecond,
		Listener:             listener,
	}, discardLogger())
	defer tr.Close()

	if err := tr.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	// Second call while connecting or connected is a no-op.
	if err := tr.Connect(); err != nil {
		t.Fatalf("Connect (repeat): %v", err)
	}
	waitUntil(t, 5*time.Second, tr.IsConnected)
	waitUntil(t, 5*time.Second, func() bool {
		v, ok := listener.last()
		return ok && v
	})

	if err := tr.Publish(TopicTelemetry, FormatTemperature(25)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case m := <-received:
		if m.Topic != TopicTelemetry {
			t.Errorf("topic: got %q, want %q", m.Topic, TopicTelemetry)
		}
		if string(m.Payload) != `{"temperatura1": "25"}` {
			t.Errorf("payload: got %s", m.Payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message not received by subscriber")
	}
}
