package dashboard

import "html/template"

var funcs = template.FuncMap{
	"ipCell": ipCell,
}

const layoutHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>socdash | {{.Active}}</title>
<script src="https://unpkg.com/htmx.org@2.0.4" integrity="sha384-HGfztofotfshcF7+8n44JQL2oJmowVChPTg48S+jvZoztPfvwD79OC/LTtG6dMp+" crossorigin="anonymous"></script>
<style>
*{margin:0;padding:0;box-sizing:border-box}
:root{
  --bg:#0a0a0f;--surface:#12121a;--surface2:#1a1a26;--border:#2a2a3a;
  --text:#e0e0ee;--text2:#8888aa;--text3:#555570;
  --accent:#2c5364;--accent-light:#4f8fa8;--accent-dim:#203a43;
  --danger:#ef4444;--success:#22c55e;--warn:#f59e0b;--info:#6366f1;
  --mono:'SF Mono','Fira Code','JetBrains Mono',monospace;
  --sans:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;
}
body{font-family:var(--sans);background:var(--bg);color:var(--text);min-height:100vh}

/* Nav */
nav{background:var(--surface);border-bottom:1px solid var(--border);padding:0 24px;display:flex;align-items:center;height:52px;position:sticky;top:0;z-index:100}
nav .logo{font-family:var(--mono);font-size:1.1rem;font-weight:700;letter-spacing:-0.5px;margin-right:32px;text-decoration:none;color:var(--text)}
nav .logo span{color:var(--accent-light)}
nav .spacer{flex:1}
nav .badge{background:var(--surface2);color:var(--text3);font-size:0.7rem;padding:4px 10px;border-radius:12px;font-family:var(--mono)}

/* Main */
main{max-width:1100px;margin:0 auto;padding:32px 24px}
h1{font-size:1.4rem;font-weight:600;margin-bottom:8px}
h1 span{color:var(--accent-light)}
.page-desc{color:var(--text2);font-size:0.85rem;margin-bottom:28px}

/* Messages */
.message{padding:12px 16px;border-radius:8px;margin-bottom:20px;font-size:0.85rem;border:1px solid var(--border)}
.message-success{background:#22c55e20;color:var(--success)}
.message-error{background:#ef444420;color:var(--danger)}
.message-info{background:#6366f120;color:var(--info)}

/* Stats */
.stats{display:grid;grid-template-columns:repeat(4,1fr);gap:16px;margin-bottom:32px}
.stat{background:var(--surface);border:1px solid var(--border);border-radius:10px;padding:20px}
.stat .label{color:var(--text3);font-size:0.72rem;text-transform:uppercase;letter-spacing:1px;margin-bottom:6px}
.stat .value{font-family:var(--mono);font-size:1.8rem;font-weight:700}
.stat .value.danger{color:var(--danger)}
.stat .value.warn{color:var(--warn)}
.stat .value.info{color:var(--info)}

/* Card */
.card{background:var(--surface);border:1px solid var(--border);border-radius:10px;padding:20px;margin-bottom:20px}
.card h2{font-size:0.95rem;font-weight:600;margin-bottom:16px;display:flex;align-items:center;gap:8px}
.card h2 .dot{width:6px;height:6px;border-radius:50%;background:var(--success);animation:pulse 2s infinite}
@keyframes pulse{0%,100%{opacity:1}50%{opacity:0.4}}

/* Table */
table{width:100%;border-collapse:collapse;font-size:0.82rem}
th{text-align:left;color:var(--text3);font-size:0.7rem;text-transform:uppercase;letter-spacing:1px;padding:8px 12px;border-bottom:1px solid var(--border)}
td{padding:10px 12px;border-bottom:1px solid var(--border);color:var(--text2);font-family:var(--mono);font-size:0.78rem}
tr:hover td{background:var(--surface2)}
td.alert-type{color:var(--text);font-weight:600}
td.no-alerts{text-align:center;color:var(--text3);padding:40px 0;font-family:var(--sans)}
.ip-cell{display:inline-flex;align-items:center;gap:6px}

/* Severity badges */
.severity-critical{background:#ef444420;color:var(--danger);padding:2px 8px;border-radius:4px;font-size:0.7rem;font-weight:700;text-transform:uppercase}
.severity-high{background:#f59e0b20;color:var(--warn);padding:2px 8px;border-radius:4px;font-size:0.7rem;font-weight:600;text-transform:uppercase}
.severity-medium{background:#6366f120;color:var(--info);padding:2px 8px;border-radius:4px;font-size:0.7rem;font-weight:600;text-transform:uppercase}
.severity-low{background:var(--surface2);color:var(--text3);padding:2px 8px;border-radius:4px;font-size:0.7rem;text-transform:uppercase}

/* Chart */
.chart-title{color:var(--text2);font-size:0.78rem;margin-bottom:4px}
.chart{display:flex;align-items:flex-end;gap:3px;height:120px;padding:8px 0;border-left:1px solid var(--border);border-bottom:1px solid var(--border)}
.chart-bar{flex:1;background:var(--accent-light);border-radius:2px 2px 0 0;min-width:4px;transition:background 0.2s;position:relative}
.chart-bar:hover{background:var(--danger)}
.chart-labels{display:flex;justify-content:space-between;color:var(--text3);font-size:0.65rem;font-family:var(--mono);padding-top:4px}
.axis{color:var(--text3);font-size:0.7rem;text-transform:uppercase;letter-spacing:1px}

/* Forms */
.controls{display:grid;grid-template-columns:repeat(3,1fr);gap:16px;margin-bottom:20px}
.controls form{display:flex;flex-direction:column;gap:8px}
input[type=file],select{width:100%;padding:8px 12px;background:var(--bg);border:1px solid var(--border);border-radius:6px;color:var(--text);font-family:var(--mono);font-size:0.82rem}
.btn{display:inline-block;padding:8px 16px;background:var(--accent);color:#fff;border:none;border-radius:6px;font-size:0.82rem;font-weight:600;cursor:pointer;transition:background 0.2s}
.btn:hover{background:var(--accent-dim)}
.btn-danger{background:var(--danger)}
.btn-danger:hover{background:#dc2626}

/* SSE indicator */
.sse-indicator{display:inline-flex;align-items:center;gap:6px;font-size:0.72rem;color:var(--text3)}
.sse-dot{width:6px;height:6px;border-radius:50%;background:var(--text3)}
.sse-dot.connected{background:var(--success);animation:pulse 2s infinite}

@media(max-width:768px){
  .stats{grid-template-columns:repeat(2,1fr)}
  .controls{grid-template-columns:1fr}
}
</style>
</head>
<body>
<nav>
  <a href="/dashboard" class="logo">soc<span>dash</span></a>
  <div class="spacer"></div>
  <span class="badge">{{.Backend}}</span>
</nav>
<main>`

const layoutFoot = `</main>
</body>
</html>`

const alertsTableDef = `{{define "alerts-table"}}
<table>
  <thead><tr><th>ID</th><th>Timestamp</th><th>Type</th><th>Severity</th><th>IP Address</th><th>Description</th></tr></thead>
  <tbody id="alertsTableBody">
  {{if .Empty}}
  <tr><td colspan="6" class="no-alerts">No alerts detected yet. Upload or analyze a log file to get started.</td></tr>
  {{else}}
  {{range .Rows}}
  <tr>
    <td>{{.ID}}</td>
    <td>{{.Timestamp}}</td>
    <td class="alert-type">{{.AlertType}}</td>
    <td><span class="{{.SeverityClass}}">{{.Severity}}</span></td>
    <td>{{ipCell .IPAddress}}</td>
    <td>{{.Description}}</td>
  </tr>
  {{end}}
  {{end}}
  </tbody>
</table>
{{end}}`

var overviewTmpl = template.Must(template.New("overview").Funcs(funcs).Parse(alertsTableDef + layoutHead + `
<h1>Security <span>Operations</span></h1>
<p class="page-desc">Alerts detected by the SOC backend. <span class="sse-indicator"><span class="sse-dot" id="sse-dot"></span> <span id="sse-label">connecting</span></span></p>

{{with .Banner}}<div class="{{.Class}}" id="banner">{{.Text}}</div>{{end}}

<div class="stats">
  <div class="stat">
    <div class="label">Total Alerts</div>
    <div class="value" id="totalAlerts">{{.Stats.Total}}</div>
  </div>
  <div class="stat">
    <div class="label">Critical</div>
    <div class="value danger" id="criticalAlerts">{{.Stats.Critical}}</div>
  </div>
  <div class="stat">
    <div class="label">High</div>
    <div class="value warn" id="highAlerts">{{.Stats.High}}</div>
  </div>
  <div class="stat">
    <div class="label">Medium</div>
    <div class="value info" id="mediumAlerts">{{.Stats.Medium}}</div>
  </div>
</div>

<div class="controls">
  <div class="card">
    <h2>Upload Log</h2>
    <form method="POST" action="/dashboard/upload" enctype="multipart/form-data">
      <input type="file" name="file" id="fileUpload">
      <button type="submit" class="btn">Upload &amp; Analyze</button>
    </form>
  </div>
  <div class="card">
    <h2>Analyze Stored Log</h2>
    <form method="POST" action="/dashboard/analyze">
      <select name="filename" id="logFileSelect">
        <option value="">Select a log file...</option>
        {{range .Files}}<option value="{{.}}">{{.}}</option>{{end}}
      </select>
      <button type="submit" class="btn">Analyze</button>
    </form>
  </div>
  <div class="card">
    <h2>Maintenance</h2>
    <form method="POST" action="/dashboard/clear" onsubmit="return confirm('Are you sure you want to delete all alerts? This cannot be undone.')">
      <button type="submit" class="btn btn-danger">Clear All Alerts</button>
    </form>
  </div>
</div>

<div class="card">
  <h2>Attack Timeline</h2>
  <div class="chart-title">Alerts Detected</div>
  <div class="axis">Number of Alerts (max <span id="chartMax">{{.Timeline.Max}}</span>)</div>
  <div class="chart" id="alertsChart">
    {{range .Bars}}<div class="chart-bar" style="height:{{.Percent}}%" title="{{.Label}}: {{.Count}} alerts"></div>{{end}}
  </div>
  <div class="chart-labels" id="chartLabels">
    {{range .Timeline.Labels}}<span>{{.}}</span>{{end}}
  </div>
  <div class="axis" style="text-align:center;margin-top:6px">Time</div>
</div>

<div class="card">
  <h2><span class="dot"></span> Alerts</h2>
  <div id="alerts-table" hx-get="/dashboard/api/alerts" hx-trigger="every {{.RefreshMs}}ms" hx-swap="innerHTML">
    {{template "alerts-table" .Table}}
  </div>
</div>

<script>
(function() {
  var dot = document.getElementById('sse-dot');
  var label = document.getElementById('sse-label');
  var banner = document.getElementById('banner');
  if (banner) setTimeout(function() { banner.remove(); }, 5000);

  function drawChart(ev) {
    var chart = document.getElementById('alertsChart');
    var labels = document.getElementById('chartLabels');
    chart.replaceChildren();
    (ev.bars || []).forEach(function(b) {
      var bar = document.createElement('div');
      bar.className = 'chart-bar';
      bar.style.height = b.percent + '%';
      bar.title = b.label + ': ' + b.count + ' alerts';
      chart.appendChild(bar);
    });
    labels.replaceChildren();
    (ev.timeline.labels || []).forEach(function(l) {
      var span = document.createElement('span');
      span.textContent = l;
      labels.appendChild(span);
    });
    document.getElementById('chartMax').textContent = ev.timeline.max;
  }

  var evtSource = new EventSource('/dashboard/api/events');
  evtSource.onopen = function() {
    dot.classList.add('connected');
    label.textContent = 'live';
  };
  evtSource.onerror = function() {
    dot.classList.remove('connected');
    label.textContent = 'reconnecting';
  };
  evtSource.onmessage = function(e) {
    try {
      var ev = JSON.parse(e.data);
      if (ev.error) { label.textContent = 'backend unreachable'; return; }
      document.getElementById('totalAlerts').textContent = ev.summary.total;
      document.getElementById('criticalAlerts').textContent = ev.summary.critical;
      document.getElementById('highAlerts').textContent = ev.summary.high;
      document.getElementById('mediumAlerts').textContent = ev.summary.medium;
      drawChart(ev);
    } catch(err) {}
  };
})();
</script>
` + layoutFoot))

var alertsPartialTmpl = template.Must(template.New("alerts").Funcs(funcs).Parse(alertsTableDef + `{{template "alerts-table" .}}`))
