package mqtt

import "sync"

// FakeTransport records published messages for test assertions.
// Safe for concurrent use.
type FakeTransport struct {
	mu        sync.Mutex
	messages  []Message
	connects  int
	closed    bool
	connected bool

	// PublishError, if set, is returned by Publish; the message is not recorded.
	PublishError error

	// ConnectError, if set, is returned by Connect.
	ConnectError error

	// OnPublish, if set, is called with each message before it is recorded.
	OnPublish func(Message)

	// OnConnect, if set, is called on each Connect.
	OnConnect func()
}

// NewFakeTransport creates a FakeTransport for testing.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{}
}

// Connect records the call and marks the fake connected.
func (f *FakeTransport) Connect() error {
	f.mu.Lock()
	f.connects++
	err := f.ConnectError
	if err == nil {
		f.connected = true
	}
	hook := f.OnConnect
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

// Publish records the message.
func (f *FakeTransport) Publish(topic string, payload []byte) error {
	msg := Message{Topic: topic, Payload: append([]byte(nil), payload...)}

	f.mu.Lock()
	hook := f.OnPublish
	err := f.PublishError
	f.mu.Unlock()

	if hook != nil {
		hook(msg)
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.messages = append(f.messages, msg)
	f.mu.Unlock()
	return nil
}

// IsConnected reports whether Connect has succeeded.
func (f *FakeTransport) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

// Close marks the transport closed.
func (f *FakeTransport) Close() error {
	f.mu.Lock()
	f.closed = true
	f.connected = false
	f.mu.Unlock()
	return nil
}

// Messages returns a copy of the recorded messages in publish order.
func (f *FakeTransport) Messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.messages...)
}

// ConnectCalls returns how many times Connect was called.
func (f *FakeTransport) ConnectCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connects
}

// Closed reports whether Close was called.
func (f *FakeTransport) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Reset clears recorded state and injected errors.
func (f *FakeTransport) Reset() {
	f.mu.Lock()
	f.messages = nil
	f.connects = 0
	f.closed = false
	f.connected = false
	f.PublishError = nil
	f.ConnectError = nil
	f.mu.Unlock()
}
