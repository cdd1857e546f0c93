package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/config"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/status"
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
	"clock": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("15:04:05")
	},
	"statusClass": func(s string) string {
		switch s {
		case "Data fetched successfully", "Current state":
			return "ok"
		case "Waiting for data...":
			return "pending"
		default:
			return "err"
		}
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>AMIO Sensor Monitor</title>
<style>
body { font-family: monospace; max-width: 700px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
.kv th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.ok { color: green; }
.err { color: red; }
.pending { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
form { margin: 1em 0; }
</style>
</head>
<body>
<h1>AMIO Sensor Monitor</h1>

<h2>Overview</h2>
<table class="kv">
<tr><th>Status</th><td class="{{statusClass .View.Status}}">{{.View.Status}}</td></tr>
<tr><th>Total Sensors</th><td>{{.View.SensorCount}}</td></tr>
<tr><th>Lights ON</th><td>{{.View.LightsOnCount}}</td></tr>
<tr><th>Updated</th><td>{{clock .View.GeneratedAt}}</td></tr>
</table>

<h2>Sensors</h2>
{{if .View.Sensors}}<table>
<tr><th>Mote</th><th>Label</th><th>Value</th><th>Light</th><th>Seen</th></tr>
{{range .View.Sensors}}<tr><td>{{.Mote}}</td><td>{{.Label}}</td><td>{{printf "%.1f" .LastValue}}</td><td class="{{if .LightOn}}on{{else}}off{{end}}">{{if .LightOn}}💡 ON{{else}}🌙 OFF{{end}}</td><td>{{clock .LastObservedAt}}</td></tr>
{{end}}</table>
{{else}}<p>Waiting for data...</p>
{{end}}

<h2>Connectivity</h2>
<table class="kv">
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Activity</h2>
<table class="kv">
<tr><th>Cycles</th><td>{{.Cycles}}</td></tr>
<tr><th>Lights turned on</th><td>{{.Transitions.On}}</td></tr>
<tr><th>Lights turned off</th><td>{{.Transitions.Off}}</td></tr>
<tr><th>Alerts delivered</th><td>{{.Alerts.Delivered}}</td></tr>
<tr><th>Alerts suppressed</th><td>{{.Alerts.Suppressed}}</td></tr>
<tr><th>Alerts unavailable</th><td>{{.Alerts.Unavailable}}</td></tr>
</table>

<h2>System</h2>
<table class="kv">
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Feed</th><td>{{.Settings.ServerURL}}</td></tr>
<tr><th>Poll</th><td>{{.Settings.PollInterval}}</td></tr>
<tr><th>Threshold</th><td>{{printf "%.1f" .Settings.Tuning.Threshold}}</td></tr>
<tr><th>Cooldown</th><td>{{.Settings.NotifyCooldown}}</td></tr>
<tr><th>Notifications</th><td>{{if .Settings.NotificationsEnabled}}enabled{{else}}disabled{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<form method="post" action="/refresh"><button>Publish current state</button></form>

<p><a href="/index.json">JSON</a> &middot; <a href="/metrics">Metrics</a> &middot; <a href="/settings">Settings</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, view status.AggregateView, settings config.Settings) {
	// Snapshot has an Uptime() method but the template needs a Duration
	// field; the outer field also shadows the promoted method.
	data := struct {
		status.Snapshot
		Uptime   time.Duration
		View     status.AggregateView
		Settings config.Settings
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		View:     view,
		Settings: settings,
	}
	indexTmpl.Execute(w, data)
}
