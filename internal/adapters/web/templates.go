package web

import (
	"html/template"
)

func parsePages() map[string]*template.Template {
	base := template.Must(template.New("layout").Parse(layoutTemplate))
	template.Must(base.New("result").Parse(resultTemplate))

	sources := map[string]string{
		"dashboard":     dashboardTemplate,
		"url-checker":   urlCheckerTemplate,
		"email-checker": emailCheckerTemplate,
		"history":       historyTemplate,
		"about":         aboutTemplate,
		"not-found":     notFoundTemplate,
	}

	pages := make(map[string]*template.Template, len(sources))
	for name, src := range sources {
		pages[name] = template.Must(template.Must(base.Clone()).New(name).Parse(src))
	}
	return pages
}

const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - Phishing Detector</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f5f5f5; color: #333; }
nav { background: #1a237e; padding: 0 24px; display: flex; gap: 20px; align-items: center; }
nav a { color: #c5cae9; text-decoration: none; padding: 16px 0; }
nav a.active, nav a:hover { color: #fff; border-bottom: 2px solid #fff; }
nav .brand { color: #fff; font-weight: bold; margin-right: 24px; }
main { max-width: 1100px; margin: 24px auto; padding: 0 16px; }
.card, .panel, .result { background: #fff; border-radius: 8px; padding: 20px; margin-bottom: 20px; box-shadow: 0 1px 3px rgba(0,0,0,.12); }
.panels { display: grid; grid-template-columns: repeat(auto-fit, minmax(320px, 1fr)); gap: 20px; }
.tiles { display: grid; grid-template-columns: repeat(4, 1fr); gap: 10px; }
.tile { text-align: center; padding: 10px; border-radius: 6px; background: #e8eaf6; }
.tile .value { display: block; font-size: 1.6em; font-weight: bold; }
.tile.phishing { background: #ffebee; } .tile.legitimate { background: #e8f5e9; }
.pie { width: 180px; height: 180px; border-radius: 50%; margin: 20px auto 10px; }
.legend { list-style: none; padding: 0; text-align: center; }
.badge { padding: 2px 8px; border-radius: 10px; font-size: .85em; color: #fff; }
.badge.phishing { background: #f44336; } .badge.legitimate { background: #4caf50; }
.result.phishing { border-left: 6px solid #f44336; } .result.legitimate { border-left: 6px solid #4caf50; }
.error-message { background: #ffebee; color: #c62828; padding: 10px; border-radius: 4px; margin: 10px 0; }
.empty { color: #777; font-style: italic; }
.form-group { margin-bottom: 14px; } .form-group label { display: block; margin-bottom: 4px; }
input[type=text], textarea { width: 100%; padding: 8px; box-sizing: border-box; }
textarea { min-height: 180px; }
table { width: 100%; border-collapse: collapse; } th, td { text-align: left; padding: 8px; border-bottom: 1px solid #eee; }
.tabs a { padding: 8px 16px; display: inline-block; text-decoration: none; color: #1a237e; }
.tabs a.active { border-bottom: 2px solid #1a237e; font-weight: bold; }
</style>
</head>
<body>
<nav>
<span class="brand">Phishing Detector</span>
<a href="/"{{if eq .Active "dashboard"}} class="active"{{end}}>Dashboard</a>
<a href="/url-checker"{{if eq .Active "url-checker"}} class="active"{{end}}>URL Checker</a>
<a href="/email-checker"{{if eq .Active "email-checker"}} class="active"{{end}}>Email Checker</a>
<a href="/history"{{if eq .Active "history"}} class="active"{{end}}>History</a>
<a href="/about"{{if eq .Active "about"}} class="active"{{end}}>About</a>
</nav>
<main>
{{template "content" .}}
</main>
</body>
</html>
`

const resultTemplate = `<section class="result {{if .IsPhishing}}phishing{{else}}legitimate{{end}}">
<h2>Analysis Result</h2>
<h3>{{.Title}}</h3>
{{if .URL}}<p>{{.URL}}</p>{{end}}
{{if .Subject}}<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>From:</strong> {{.Sender}}</p>{{end}}
<p class="confidence">{{.Confidence}}</p>
<p>{{.Explanation}}</p>
{{if .AnalyzedURLs}}<h3>Detected URLs</h3>
<ul class="url-list">
{{range .AnalyzedURLs}}<li>{{.URL}} <span class="badge {{if .IsPhishing}}phishing{{else}}legitimate{{end}}">{{.Verdict}}</span></li>
{{end}}</ul>{{end}}
{{if .Features}}<h3>Key Detection Factors</h3>
<table class="features">
{{range .Features}}<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{end}}</table>{{end}}
</section>
`

const dashboardTemplate = `{{define "panel"}}<div class="panel">
<h2>{{.Title}}</h2>
<div class="tiles">
{{range .Tiles}}<div class="tile {{.Tone}}"><span class="value">{{.Value}}</span><span class="label">{{.Label}}</span></div>
{{end}}</div>
{{with .Chart}}<div class="pie" style="background: conic-gradient({{index .Colors 0}} 0deg {{printf "%.2f" .PhishingDegrees}}deg, {{index .Colors 1}} {{printf "%.2f" .PhishingDegrees}}deg 360deg)"></div>
<ul class="legend">
{{range $i, $label := .Labels}}<li>{{$label}}: {{index $.Chart.Values $i}}</li>
{{end}}</ul>
{{else}}<p class="empty">{{.NoDataText}}</p>{{end}}
</div>{{end}}
{{define "content"}}<h1>Dashboard</h1>
{{with .Body}}
{{if .Error}}<div class="error-message">{{.Error}}</div>{{end}}
{{if eq .Status.String "loading"}}<p class="empty">Loading dashboard data...</p>{{end}}
{{with .Dashboard}}
<div class="panels">
{{template "panel" .URLs}}
{{template "panel" .Emails}}
</div>
<div class="card">
<h2>Recent URL Checks</h2>
{{if .Recent}}<table>
<tr><th>URL</th><th>Date</th><th>Status</th></tr>
{{range .Recent}}<tr><td>{{.URL}}</td><td>{{.Date}}</td><td><span class="badge {{if .IsPhishing}}phishing{{else}}legitimate{{end}}">{{.Status}}</span></td></tr>
{{end}}</table>
{{else}}<p class="empty">{{.RecentEmptyText}}</p>{{end}}
</div>
{{end}}
{{end}}
{{end}}`

const urlCheckerTemplate = `{{define "content"}}<h1>URL Phishing Checker</h1>
<p>Enter a URL to check if it is a potential phishing attempt</p>
{{with .Body}}
<div class="card">
<form method="post" action="/url-checker">
<div class="form-group">
<label for="url">URL to Check</label>
<input type="text" id="url" name="url" placeholder="https://example.com" value="{{.Input.URL}}">
</div>
<div class="form-group">
<label><input type="checkbox" name="fetch_content" value="on"{{if .Input.FetchContent}} checked{{end}}> Fetch and analyze website content (more accurate, but slower)</label>
</div>
{{if .Error}}<div class="error-message">{{.Error}}</div>{{end}}
<button type="submit"{{if .Loading}} disabled{{end}}>{{if .Loading}}Analyzing URL...{{else}}Check URL{{end}}</button>
</form>
</div>
{{with .Result}}{{template "result" .}}{{end}}
{{end}}
{{end}}`

const emailCheckerTemplate = `{{define "content"}}<h1>Email Phishing Checker</h1>
<p>Analyze email content to identify potential phishing attempts</p>
{{with .Body}}
<div class="card">
<form method="post" action="/email-checker">
<div class="form-group">
<label for="subject">Email Subject</label>
<input type="text" id="subject" name="subject" placeholder="Enter email subject" value="{{.Input.Subject}}">
</div>
<div class="form-group">
<label for="sender">Sender</label>
<input type="text" id="sender" name="sender" placeholder="name@example.com" value="{{.Input.Sender}}">
</div>
<div class="form-group">
<label for="body">Email Body</label>
<textarea id="body" name="body" placeholder="Paste the email content here">{{.Input.Body}}</textarea>
</div>
{{if .Error}}<div class="error-message">{{.Error}}</div>{{end}}
<button type="submit"{{if .Loading}} disabled{{end}}>{{if .Loading}}Analyzing Email...{{else}}Check Email{{end}}</button>
</form>
</div>
{{with .Result}}{{template "result" .}}{{end}}
{{end}}
{{end}}`

const historyTemplate = `{{define "content"}}<h1>Detection History</h1>
{{with .Body}}
<div class="tabs">
<a href="/history?tab=urls"{{if not .IsEmail}} class="active"{{end}}>URL Check History</a>
<a href="/history?tab=emails"{{if .IsEmail}} class="active"{{end}}>Email Check History</a>
</div>
<div class="card">
{{if .Note}}<p class="empty">{{.Note}}</p>
{{else}}{{with .State}}
{{if .Error}}<div class="error-message">{{.Error}}</div>
{{else if eq .Status.String "loading"}}<p class="empty">Loading history...</p>
{{else if .Empty}}<p class="empty">{{.EmptyText}}</p>
{{else}}<table>
{{if $.Body.IsEmail}}<tr><th>Subject</th><th>Sender</th><th>Date</th><th>Result</th></tr>
{{range .Rows}}<tr><td>{{.Primary}}</td><td>{{.Secondary}}</td><td>{{.Date}}</td><td><span class="badge {{if .IsPhishing}}phishing{{else}}legitimate{{end}}">{{.Verdict}}</span> {{.Confidence}}</td></tr>
{{end}}{{else}}<tr><th>URL</th><th>Date</th><th>Result</th></tr>
{{range .Rows}}<tr><td>{{.Primary}}</td><td>{{.Date}}</td><td><span class="badge {{if .IsPhishing}}phishing{{else}}legitimate{{end}}">{{.Verdict}}</span> {{.Confidence}}</td></tr>
{{end}}{{end}}</table>
{{end}}
{{end}}{{end}}
</div>
{{end}}
{{end}}`

const aboutTemplate = `{{define "content"}}<h1>About Phishing Detector</h1>
<div class="card">
<h2>Project Overview</h2>
<p>The dashboard submits URLs and email content to a phishing detection service and presents its verdicts, the signals behind them, and aggregate statistics over past checks.</p>
</div>
<div class="card">
<h2>Key Features</h2>
<h3>Real-time Detection</h3>
<p>Analyze URLs and emails as they are received, from the browser, the command line or the mail intake address.</p>
<h3>Comprehensive Analysis</h3>
<p>Examines URL structure, page content, sender and wording signals.</p>
<h3>Historical Tracking</h3>
<p>Recent checks of both kinds are listed with their verdict and confidence.</p>
</div>
<div class="card">
<h2>Disclaimer</h2>
<p>Automated detection can be wrong. Treat every verdict as advice and verify suspicious messages through a separate channel.</p>
</div>
{{end}}`

const notFoundTemplate = `{{define "content"}}<h1>Page not found</h1>
<div class="card"><p><a href="/">Back to the dashboard</a></p></div>
{{end}}`
