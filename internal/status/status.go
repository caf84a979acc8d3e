// Package status provides a thread-safe status tracker for the sensor-node daemon.
// It records outcomes the tasks deliberately ignore (connect and publish
// errors, failed sensor reads) so they can be inspected over HTTP.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/sensor-node/internal/logic"
	"github.com/sweeney/sensor-node/internal/sensor"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	EnvironmentalMs int64
	DigitalMs       int64
	MirrorMs        int64
	Broker          string
	ClientID        string
	HTTPAddr        string
}

// Counts are running totals since startup.
type Counts struct {
	ConnectAttempts int
	ConnectErrors   int
	Published       int
	PublishErrors   int
	SensorReads     int
	SensorErrors    int
	MirrorTicks     int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	StartTime time.Time
	Now       time.Time

	NetworkReady       bool
	TransportConnected bool
	GateOpen           bool

	LastReading     *sensor.Reading
	LastReadingTime time.Time
	Inputs          *logic.DigitalInputs
	Indicators      *logic.Indicators

	LastError string
	Counts    Counts
	Network   *NetworkInfo
	Config    Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetNetworkReady records the network layer's view of connectivity.
func (t *Tracker) SetNetworkReady(ready bool) {
	t.mu.Lock()
	t.snap.NetworkReady = ready
	t.mu.Unlock()
}

// SetTransportConnected records the transport connection state.
func (t *Tracker) SetTransportConnected(connected bool) {
	t.mu.Lock()
	t.snap.TransportConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// SetClientID records the MQTT client ID in use.
func (t *Tracker) SetClientID(id string) {
	t.mu.Lock()
	t.snap.Config.ClientID = id
	t.mu.Unlock()
}

// ConnectAttempted counts a transport connect call.
func (t *Tracker) ConnectAttempted(err error) {
	t.mu.Lock()
	t.snap.Counts.ConnectAttempts++
	if err != nil {
		t.snap.Counts.ConnectErrors++
		t.snap.LastError = "connect: " + err.Error()
	}
	t.mu.Unlock()
}

// GateOpened records that publishing has been enabled.
func (t *Tracker) GateOpened() {
	t.mu.Lock()
	t.snap.GateOpen = true
	t.mu.Unlock()
}

// Published counts a publish attempt and its outcome.
func (t *Tracker) Published(topic string, err error) {
	t.mu.Lock()
	if err != nil {
		t.snap.Counts.PublishErrors++
		t.snap.LastError = "publish " + topic + ": " + err.Error()
	} else {
		t.snap.Counts.Published++
	}
	t.mu.Unlock()
}

// SensorRead records a sensor reading. Failed reads keep the last good values.
func (t *Tracker) SensorRead(r sensor.Reading, at time.Time) {
	t.mu.Lock()
	t.snap.Counts.SensorReads++
	if r.OK() {
		t.snap.LastReading = &r
		t.snap.LastReadingTime = at
	} else {
		t.snap.Counts.SensorErrors++
		if r.Err != nil {
			t.snap.LastError = "sensor: " + r.Err.Error()
		}
	}
	t.mu.Unlock()
}

// InputsSampled records the last published digital inputs.
func (t *Tracker) InputsSampled(in logic.DigitalInputs) {
	t.mu.Lock()
	t.snap.Inputs = &in
	t.mu.Unlock()
}

// IndicatorsSet records the indicator outputs written by the mirror.
func (t *Tracker) IndicatorsSet(out logic.Indicators) {
	t.mu.Lock()
	t.snap.Indicators = &out
	t.snap.Counts.MirrorTicks++
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
