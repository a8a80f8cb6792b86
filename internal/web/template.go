package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/prakoso/reactor-panel/internal/plant"
	"github.com/prakoso/reactor-panel/internal/status"
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
	"rodName": func(i int) string {
		return plant.RodID(i).String()
	},
	"pumpName": func(i int) string {
		return plant.PumpID(i).String()
	},
	"onOff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
	"pct": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="1">
<title>Reactor Panel</title>
<style>
body { font-family: monospace; max-width: 640px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.warn { color: orange; font-weight: bold; }
.crit { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Reactor Panel</h1>

<h2>Reactor</h2>
<table>
<tr><th>Started</th><td class="{{if .Plant.Started}}on{{else}}off{{end}}">{{onOff .Plant.Started}}</td></tr>
<tr><th>Emergency</th><td class="{{if .Plant.Emergency}}crit{{else}}off{{end}}">{{if .Plant.Emergency}}LATCHED{{else}}clear{{end}}</td></tr>
{{$alarm := printf "%s" .Plant.Alarm}}<tr><th>Alarm</th><td class="{{if eq $alarm "CRITICAL"}}crit{{else if eq $alarm "WARNING"}}warn{{else}}off{{end}}">{{$alarm}}</td></tr>
<tr><th>Pressure</th><td>{{printf "%.1f bar" .Plant.Pressure}}</td></tr>
<tr><th>Interlock</th><td>{{if .Plant.Interlock.Allowed}}<span class="on">OPEN</span>{{else}}blocked: {{range .Plant.Interlock.Reasons}}{{.}} {{end}}{{end}}</td></tr>
</table>

<h2>Rods</h2>
<table>
<tr><th>rod</th><th>target</th><th>actual</th></tr>
{{range $i, $r := .Plant.Rods}}<tr><th>{{rodName $i}}</th><td>{{$r.Target}}</td><td>{{$r.Actual}}</td></tr>
{{end}}</table>

<h2>Pumps</h2>
<table>
<tr><th>pump</th><th>state</th><th>ramp</th><th>speed</th></tr>
{{range $i, $p := .Plant.Pumps}}<tr><th>{{pumpName $i}}</th><td>{{printf "%s" $p.Status}}</td><td>{{$p.Ramp}}%</td><td>{{pct $p.Speed}}</td></tr>
{{end}}</table>

<h2>Secondary</h2>
<table>
<tr><th>Turbine</th><td>{{printf "%s" .Plant.Turbine}}</td></tr>
<tr><th>Thermal output</th><td>{{printf "%.1f kW" .Plant.ThermalKW}}</td></tr>
<tr><th>Power level</th><td>{{pct .Plant.PowerLevel}}</td></tr>
<tr><th>Generated</th><td>{{printf "%.2f MWe" .Plant.PowerMWe}}</td></tr>
<tr><th>SG humidifiers</th><td class="{{if .Plant.HumidSG}}on{{else}}off{{end}}">{{onOff .Plant.HumidSG}}</td></tr>
<tr><th>CT humidifiers</th><td class="{{if .Plant.HumidCT}}on{{else}}off{{end}}">{{onOff .Plant.HumidCT}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
{{range .Links}}<tr><th>{{.Name}} link</th><td class="{{if .OK}}connected{{else}}disconnected{{end}}">{{if .OK}}up{{else}}down ({{.ConsecutiveFailures}} failures){{end}}</td></tr>
{{end}}<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Queue depth</th><td>{{.QueueDepth}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Hold</th><td>{{.Config.HoldMs}}ms</td></tr>
<tr><th>Control</th><td>{{.Config.ControlMs}}ms</td></tr>
<tr><th>Sync</th><td>{{.Config.SyncMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has an Uptime() method but the template needs a field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
