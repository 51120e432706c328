package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("charts").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Theme string // "light" or "dark"
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{Theme: "light"}
}

// ValidThemes lists the supported colour themes.
var ValidThemes = []string{"light", "dark"}

// templateData holds data for the HTML template.
type templateData struct {
	*Charts
	Background template.CSS
	Panel      template.CSS
	Ink        template.CSS
	Accent     template.CSS
}

// GenerateHTML generates a self-contained HTML page with both charts as inline SVG.
func GenerateHTML(charts *Charts, opts HTMLOptions) (string, error) {
	if charts == nil {
		return "", fmt.Errorf("charts cannot be nil")
	}

	data := templateData{Charts: charts}
	switch opts.Theme {
	case "", "light":
		data.Background, data.Panel, data.Ink, data.Accent = "#f5f5f5", "#ffffff", "#333333", "#3b6ea5"
	case "dark":
		data.Background, data.Panel, data.Ink, data.Accent = "#1e1e1e", "#2a2a2a", "#e0e0e0", "#6fa8dc"
	default:
		return "", fmt.Errorf("invalid theme %q: must be light or dark", opts.Theme)
	}

	if charts.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// generateEmptyHTML returns HTML for a view with nothing to chart.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Publication Overview - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No chart data</h2>
    <p>None of the selected rows has a year or an author.</p>
    <p>Check the columns with <code>pubx info</code></p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 24px;
      background: {{.Background}};
      color: {{.Ink}};
    }
    h1 {
      font-size: 22px;
      margin: 0 0 4px 0;
    }
    .subtitle {
      color: #888;
      margin-bottom: 24px;
    }
    .panel {
      background: {{.Panel}};
      border-radius: 6px;
      box-shadow: 0 1px 4px rgba(0,0,0,0.12);
      padding: 16px;
      margin-bottom: 24px;
      max-width: 760px;
    }
    .panel h2 {
      font-size: 15px;
      margin: 0 0 8px 0;
    }
    svg text {
      font-size: 11px;
      fill: {{.Ink}};
    }
    .grid {
      stroke: #ccc;
      stroke-width: 0.5;
    }
    .axis {
      stroke: #999;
      stroke-width: 1;
    }
    .none {
      color: #888;
      font-style: italic;
    }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="subtitle">{{.Records}} publications</div>

  <div class="panel">
    <h2>Publications per Year</h2>
    {{if .Years.Points}}
    <svg width="{{.Years.Width}}" height="{{.Years.Height}}" viewBox="0 0 {{.Years.Width}} {{.Years.Height}}">
      {{range .Years.YTicks}}
      <line class="grid" x1="{{$.Years.Left}}" x2="{{$.Years.Right}}" y1="{{.Y}}" y2="{{.Y}}"></line>
      <text x="{{$.Years.Left}}" y="{{.Y}}" dx="-8" dy="4" text-anchor="end">{{.Value}}</text>
      {{end}}
      <line class="axis" x1="{{.Years.Left}}" x2="{{.Years.Right}}" y1="{{.Years.Baseline}}" y2="{{.Years.Baseline}}"></line>
      <polyline fill="none" stroke="{{.Accent}}" stroke-width="2" points="{{.Years.Polyline}}"></polyline>
      {{range .Years.Points}}
      <circle cx="{{.X}}" cy="{{.Y}}" r="4" fill="{{$.Accent}}"><title>{{.Label}}: {{.Count}}</title></circle>
      {{if .ShowLabel}}<text x="{{.X}}" y="{{$.Years.Baseline}}" dy="18" text-anchor="middle">{{.Label}}</text>{{end}}
      {{end}}
    </svg>
    {{else}}
    <p class="none">No year values in the selected rows.</p>
    {{end}}
  </div>

  <div class="panel">
    <h2>Top {{len .Authors.Bars}} Authors</h2>
    {{if .Authors.Bars}}
    <svg width="{{.Authors.Width}}" height="{{.Authors.Height}}" viewBox="0 0 {{.Authors.Width}} {{.Authors.Height}}">
      {{range .Authors.Bars}}
      <text x="192" y="{{.Y}}" dy="15" text-anchor="end">{{.Label}}</text>
      <rect x="200" y="{{.Y}}" width="{{.Width}}" height="20" fill="{{$.Accent}}"><title>{{.Label}}: {{.Count}}</title></rect>
      <text x="200" y="{{.Y}}" dx="{{.Width}}" dy="15"> {{.Count}}</text>
      {{end}}
    </svg>
    {{else}}
    <p class="none">No author values in the selected rows.</p>
    {{end}}
  </div>
</body>
</html>`
