// Package render 将筛查报告导出为 HTML 或 JSON
package render

import (
	"encoding/json"
	"html/template"
	"io"

	"github.com/iWorld-y/adverse_media/app/screener/pkg/model"
)

var reportTpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"levelClass": levelClass,
}).Parse(htmlTpl))

// HTML 渲染报告页面
func HTML(w io.Writer, report *model.Report) error {
	return reportTpl.Execute(w, report)
}

// JSON 输出缩进的 JSON
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func levelClass(s model.Severity) string {
	switch s {
	case model.SeverityCritical, model.SeverityHigh:
		return "level-high"
	case model.SeverityLow:
		return "level-low"
	default:
		return "level-medium"
	}
}

const htmlTpl = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Adverse Media Report | {{ .EntityName }}</title>
    <style>
        :root {
            --primary-color: #2563eb;
            --bg-color: #f8fafc;
            --card-bg: #ffffff;
            --text-main: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background-color: var(--bg-color);
            color: var(--text-main);
            line-height: 1.6;
            margin: 0;
            padding: 20px;
        }
        .container { max-width: 900px; margin: 0 auto; }
        header { text-align: center; margin-bottom: 32px; padding: 20px 0; }
        h1 { font-size: 2.2rem; margin: 0 0 10px 0; }
        .meta { color: var(--text-secondary); }
        .card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 24px;
            margin-bottom: 24px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.05);
            border: 1px solid var(--border-color);
        }
        .card-header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 12px; }
        .card-title { font-size: 1.3rem; font-weight: 700; color: #0f172a; }
        .badge { padding: 4px 12px; border-radius: 20px; font-weight: bold; font-size: 0.85rem; }
        .level-high { background: #fee2e2; color: #991b1b; }
        .level-medium { background: #fef9c3; color: #854d0e; }
        .level-low { background: #dcfce7; color: #166534; }
        .finding-meta { color: var(--text-secondary); font-size: 0.9rem; }
        .steps li { margin-bottom: 10px; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>{{ .EntityName }}</h1>
            <div class="meta">Screened {{ .SearchDate }} • Range {{ .DateRange }} • {{ .FindingsCount }} finding(s)</div>
        </header>

        <div class="card">
            <div class="card-header">
                <div class="card-title">Overall Risk Assessment</div>
                <div class="badge {{ levelClass .OverallRiskAssessment.Level }}">{{ .OverallRiskAssessment.Level }}</div>
            </div>
            <p>{{ .OverallRiskAssessment.Summary }}</p>
            <p><strong>Recommendation:</strong> {{ .OverallRiskAssessment.Recommendation }}</p>
        </div>

        {{range .Findings}}
        <div class="card">
            <div class="card-header">
                <div class="card-title">{{ .Title }}</div>
                <div class="badge {{ levelClass .Severity }}">{{ .Severity }}</div>
            </div>
            <div class="finding-meta">{{ .Date }} • {{ .Source }} • {{ .Category }}</div>
            <p>{{ .Description }}</p>
        </div>
        {{else}}
        <div class="card"><p>No adverse media findings.</p></div>
        {{end}}

        {{if .NextSteps}}
        <div class="card">
            <div class="card-title">Next Steps</div>
            <ul class="steps">
                {{range .NextSteps}}
                <li><strong>{{ .Action }}</strong> <span class="badge {{ levelClass .Priority }}">{{ .Priority }}</span><br>{{ .Description }} <span class="finding-meta">({{ .Timeline }})</span></li>
                {{end}}
            </ul>
        </div>
        {{end}}
    </div>
</body>
</html>
`
