package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/sensor-node/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"onOff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Sensor Node</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Sensor Node</h1>

<h2>Environment</h2>
<table>
{{if .LastReading}}<tr><th>Temperature</th><td id="temperature">{{.LastReading.Temperature}} &deg;C</td></tr>
<tr><th>Humidity</th><td id="humidity">{{.LastReading.Humidity}} %</td></tr>
<tr><th>Read at</th><td>{{.LastReadingTime.UTC.Format "2006-01-02 15:04:05"}} UTC</td></tr>
{{else}}<tr><th>Temperature</th><td id="temperature" class="unknown">UNKNOWN</td></tr>
<tr><th>Humidity</th><td id="humidity" class="unknown">UNKNOWN</td></tr>
{{end}}</table>

<h2>Inputs</h2>
<table>
{{if .Inputs}}<tr><th>Ball switch</th><td id="ballswitch" class="{{if .Inputs.BallSwitch}}on{{else}}off{{end}}">{{onOff .Inputs.BallSwitch}}</td></tr>
<tr><th>Board button</th><td id="board-button" class="{{if .Inputs.BoardButton}}on{{else}}off{{end}}">{{onOff .Inputs.BoardButton}}</td></tr>
<tr><th>Button</th><td id="button" class="{{if .Inputs.Button}}on{{else}}off{{end}}">{{onOff .Inputs.Button}}</td></tr>
{{else}}<tr><th>Inputs</th><td class="unknown">not yet published</td></tr>
{{end}}</table>

<h2>Indicators</h2>
<table>
{{if .Indicators}}<tr><th>Board</th><td id="ind-board" class="{{if .Indicators.Board}}on{{else}}off{{end}}">{{onOff .Indicators.Board}}</td></tr>
<tr><th>Green</th><td id="ind-green" class="{{if .Indicators.Green}}on{{else}}off{{end}}">{{onOff .Indicators.Green}}</td></tr>
<tr><th>Red</th><td id="ind-red" class="{{if .Indicators.Red}}on{{else}}off{{end}}">{{onOff .Indicators.Red}}</td></tr>
{{else}}<tr><th>Indicators</th><td class="unknown">UNKNOWN</td></tr>
{{end}}</table>

<h2>Connectivity</h2>
<table>
<tr><th>Network</th><td class="{{if .NetworkReady}}connected{{else}}disconnected{{end}}">{{if .NetworkReady}}ready{{else}}down{{end}}</td></tr>
<tr><th>MQTT</th><td class="{{if .TransportConnected}}connected{{else}}disconnected{{end}}">{{if .TransportConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Publishing</th><td>{{if .GateOpen}}enabled{{else}}waiting for network{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Client ID</th><td>{{.Config.ClientID}}</td></tr>
{{if .Network}}<tr><th>Interface</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Counts</h2>
<table>
<tr><th>Connect attempts</th><td>{{.Counts.ConnectAttempts}} ({{.Counts.ConnectErrors}} failed)</td></tr>
<tr><th>Published</th><td id="published">{{.Counts.Published}}</td></tr>
<tr><th>Publish errors</th><td id="publish-errors">{{.Counts.PublishErrors}}</td></tr>
<tr><th>Sensor reads</th><td>{{.Counts.SensorReads}} ({{.Counts.SensorErrors}} failed)</td></tr>
{{if .LastError}}<tr><th>Last error</th><td id="last-error">{{.LastError}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02 15:04:05"}} UTC</td></tr>
<tr><th>Environmental interval</th><td>{{.Config.EnvironmentalMs}} ms</td></tr>
<tr><th>Digital interval</th><td>{{.Config.DigitalMs}} ms</td></tr>
<tr><th>Mirror interval</th><td>{{.Config.MirrorMs}} ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
