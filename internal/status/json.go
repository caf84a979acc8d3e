package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/sensor-node/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	UptimeSeconds int64           `json:"uptime_seconds"`
	StartTime     string          `json:"start_time"`
	Timestamp     string          `json:"timestamp"`
	Network       NetworkJSON     `json:"network"`
	MQTT          MQTTStatus      `json:"mqtt"`
	Sensor        *SensorJSON     `json:"sensor,omitempty"`
	Inputs        *InputsJSON     `json:"inputs,omitempty"`
	Indicators    *IndicatorsJSON `json:"indicators,omitempty"`
	Counts        CountsJSON      `json:"counts"`
	LastError     string          `json:"last_error,omitempty"`
	Config        ConfigJSON      `json:"config"`
}

// NetworkJSON reports network readiness and, when known, interface details.
type NetworkJSON struct {
	Ready      bool   `json:"ready"`
	Type       string `json:"type,omitempty"`
	IP         string `json:"ip,omitempty"`
	Status     string `json:"status,omitempty"`
	Gateway    string `json:"gateway,omitempty"`
	WifiStatus string `json:"wifi_status,omitempty"`
	SSID       string `json:"ssid,omitempty"`
}

// MQTTStatus reports transport connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	GateOpen  bool   `json:"gate_open"`
	Broker    string `json:"broker"`
	ClientID  string `json:"client_id"`
}

// SensorJSON is the last good environmental reading.
type SensorJSON struct {
	Temperature int    `json:"temperature"`
	Humidity    int    `json:"humidity"`
	ReadAt      string `json:"read_at"`
}

// InputsJSON holds digital input levels as 0/1.
type InputsJSON struct {
	BallSwitch  int `json:"ballswitch"`
	BoardButton int `json:"board_button"`
	Button      int `json:"button"`
}

// IndicatorsJSON holds indicator output levels as 0/1.
type IndicatorsJSON struct {
	Board int `json:"board"`
	Green int `json:"green"`
	Red   int `json:"red"`
}

// CountsJSON is the JSON representation of running totals.
type CountsJSON struct {
	ConnectAttempts int `json:"connect_attempts"`
	ConnectErrors   int `json:"connect_errors"`
	Published       int `json:"published"`
	PublishErrors   int `json:"publish_errors"`
	SensorReads     int `json:"sensor_reads"`
	SensorErrors    int `json:"sensor_errors"`
	MirrorTicks     int `json:"mirror_ticks"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	EnvironmentalMs int64  `json:"environmental_ms"`
	DigitalMs       int64  `json:"digital_ms"`
	MirrorMs        int64  `json:"mirror_ms"`
	HTTPAddr        string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Network:       NetworkJSON{Ready: snap.NetworkReady},
		MQTT: MQTTStatus{
			Connected: snap.TransportConnected,
			GateOpen:  snap.GateOpen,
			Broker:    snap.Config.Broker,
			ClientID:  snap.Config.ClientID,
		},
		Counts: CountsJSON{
			ConnectAttempts: snap.Counts.ConnectAttempts,
			ConnectErrors:   snap.Counts.ConnectErrors,
			Published:       snap.Counts.Published,
			PublishErrors:   snap.Counts.PublishErrors,
			SensorReads:     snap.Counts.SensorReads,
			SensorErrors:    snap.Counts.SensorErrors,
			MirrorTicks:     snap.Counts.MirrorTicks,
		},
		LastError: snap.LastError,
		Config: ConfigJSON{
			EnvironmentalMs: snap.Config.EnvironmentalMs,
			DigitalMs:       snap.Config.DigitalMs,
			MirrorMs:        snap.Config.MirrorMs,
			HTTPAddr:        snap.Config.HTTPAddr,
		},
	}

	if n := snap.Network; n != nil {
		inner.Network.Type = n.Type
		inner.Network.IP = n.IP
		inner.Network.Status = n.Status
		inner.Network.Gateway = n.Gateway
		inner.Network.WifiStatus = n.WifiStatus
		inner.Network.SSID = n.SSID
	}
	if r := snap.LastReading; r != nil {
		inner.Sensor = &SensorJSON{
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			ReadAt:      snap.LastReadingTime.UTC().Format(time.RFC3339),
		}
	}
	if in := snap.Inputs; in != nil {
		inner.Inputs = &InputsJSON{
			BallSwitch:  logic.Level(in.BallSwitch),
			BoardButton: logic.Level(in.BoardButton),
			Button:      logic.Level(in.Button),
		}
	}
	if out := snap.Indicators; out != nil {
		inner.Indicators = &IndicatorsJSON{
			Board: logic.Level(out.Board),
			Green: logic.Level(out.Green),
			Red:   logic.Level(out.Red),
		}
	}
	return inner
}

// FormatJSON returns the indented JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
