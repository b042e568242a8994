package report

import (
	"html/template"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/enpal-growth/landing-insights/internal/compare"
)

const emptyReportHTML = "<html><body><h1>No analyses to report</h1></body></html>"

var grouped = message.NewPrinter(language.English)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"count": func(n int64) string { return grouped.Sprintf("%d", n) },
	"rate":  func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	"winnerClass": func(winner string) string {
		if winner == compare.WinnerOld {
			return "old"
		}
		return ""
	},
	"headline": func(s compare.Summary) string {
		if len(s.Reasons) == 0 {
			return "Performance complessiva migliore"
		}
		reasons := s.Reasons
		if len(reasons) > 2 {
			reasons = reasons[:2]
		}
		return strings.Join(reasons, " | ")
	},
	"chartURL": func(b64 string) template.URL {
		return template.URL("data:image/png;base64," + b64)
	},
}).Parse(reportHTML))

type reportPage struct {
	GeneratedAt string
	Analyses    []Analysis
}

// ExportHTML renders the accumulated analyses as a standalone HTML document.
// An empty report yields a minimal placeholder page.
func (a *Accumulator) ExportHTML(w io.Writer) error {
	a.mu.Lock()
	page := reportPage{
		GeneratedAt: a.now().Format("02/01/2006 15:04"),
		Analyses:    make([]Analysis, len(a.analyses)),
	}
	copy(page.Analyses, a.analyses)
	a.mu.Unlock()

	if len(page.Analyses) == 0 {
		_, err := io.WriteString(w, emptyReportHTML)
		return err
	}

	return reportTemplate.Execute(w, page)
}

const reportHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Landing Page Analysis Report</title>
    <style>
        @import url('https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap');

        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: 'Inter', -apple-system, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #f5f5f5;
            padding: 30px;
        }

        .report { max-width: 900px; margin: 0 auto; }

        .header {
            background: linear-gradient(135deg, #191970 0%, #000080 100%);
            color: white;
            padding: 30px;
            border-radius: 12px;
            margin-bottom: 30px;
            text-align: center;
        }

        .header h1 { font-size: 24px; margin-bottom: 5px; }
        .header .meta { opacity: 0.8; font-size: 14px; }

        .analysis {
            background: white;
            border-radius: 12px;
            padding: 30px;
            margin-bottom: 25px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.08);
        }

        .analysis-header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            border-bottom: 2px solid #f0f0f0;
            padding-bottom: 15px;
            margin-bottom: 20px;
        }

        .analysis-title { font-size: 18px; font-weight: 600; color: #191970; }
        .analysis-date { font-size: 13px; color: #888; }

        .winner-box {
            background: linear-gradient(135deg, #4ECDC4 0%, #44B3AA 100%);
            color: white;
            padding: 20px;
            border-radius: 10px;
            margin-bottom: 20px;
            text-align: center;
        }

        .winner-box.old { background: linear-gradient(135deg, #FF6B35 0%, #E5552A 100%); }

        .winner-label { font-size: 12px; text-transform: uppercase; opacity: 0.9; }
        .winner-name { font-size: 22px; font-weight: 700; margin: 5px 0; }
        .winner-reason { font-size: 14px; opacity: 0.9; }

        .kpi-comparison {
            display: grid;
            grid-template-columns: 1fr 1fr;
            gap: 15px;
            margin: 20px 0;
        }

        .kpi-card {
            padding: 15px;
            border-radius: 8px;
            border: 1px solid #e8e8e8;
        }

        .kpi-card.old { border-left: 4px solid #FF6B35; }
        .kpi-card.new { border-left: 4px solid #4ECDC4; }

        .kpi-card h4 {
            font-size: 13px;
            color: #666;
            margin-bottom: 10px;
            text-transform: uppercase;
        }

        .kpi-card .url-label {
            font-size: 11px;
            color: #333;
            font-weight: 500;
            word-break: break-all;
            margin-bottom: 12px;
            padding: 8px;
            background: #f8f8f8;
            border-radius: 4px;
            text-transform: none;
        }

        .kpi-row {
            display: flex;
            justify-content: space-between;
            padding: 6px 0;
            font-size: 13px;
        }

        .kpi-value { font-weight: 600; }

        .problems-section {
            background: #FFF8E1;
            border: 1px solid #FFE082;
            border-radius: 8px;
            padding: 20px;
            margin: 20px 0;
        }

        .problems-section h4 {
            color: #F57C00;
            margin-bottom: 15px;
            font-size: 14px;
        }

        .problem-item {
            padding: 10px;
            background: white;
            border-radius: 6px;
            margin-bottom: 10px;
            border-left: 3px solid #FF9800;
        }

        .problem-step { font-weight: 600; color: #333; }
        .problem-desc { font-size: 13px; color: #666; margin-top: 5px; }

        .recommendation {
            background: #E8F5E9;
            border: 2px solid #4CAF50;
            border-radius: 10px;
            padding: 20px;
            text-align: center;
            margin-top: 20px;
        }

        .recommendation h4 {
            color: #2E7D32;
            font-size: 12px;
            text-transform: uppercase;
            margin-bottom: 8px;
        }

        .recommendation .action {
            font-size: 20px;
            font-weight: 700;
            color: #1B5E20;
        }

        .motivo-section {
            background: #E3F2FD;
            border: 1px solid #90CAF9;
            border-radius: 8px;
            padding: 20px;
            margin: 20px 0;
        }

        .motivo-section h4 {
            color: #1565C0;
            margin-bottom: 12px;
            font-size: 14px;
        }

        .motivo-text {
            font-size: 14px;
            color: #333;
            line-height: 1.7;
        }

        .motivo-text p {
            margin-bottom: 10px;
        }

        .motivo-text p:last-child {
            margin-bottom: 0;
        }

        .chart-container {
            margin: 20px 0;
            text-align: center;
        }

        .chart-container img {
            max-width: 100%;
            border-radius: 8px;
        }

        .footer {
            text-align: center;
            padding: 20px;
            color: #888;
            font-size: 12px;
        }

        @media print {
            body { padding: 10px; background: white; }
            .analysis { page-break-inside: avoid; box-shadow: none; border: 1px solid #ddd; }
        }
    </style>
</head>
<body>
    <div class="report">
        <div class="header">
            <h1>Landing Page Analysis Report</h1>
            <p class="meta">Generato: {{.GeneratedAt}} | Analisi: {{len .Analyses}}</p>
        </div>
{{range .Analyses}}{{$s := .Summary}}
        <div class="analysis">
            <div class="analysis-header">
                <span class="analysis-title">#{{.ID}} - {{.Name}}</span>
                <span class="analysis-date">{{$s.DateRange}}</span>
            </div>

            <div class="winner-box {{winnerClass $s.Winner}}">
                <div class="winner-label">Vincitore</div>
                <div class="winner-name">{{$s.Winner}} LANDING</div>
                <div class="winner-reason">{{headline $s}}</div>
            </div>

            <div class="kpi-comparison">
                <div class="kpi-card old">
                    <h4>OLD LANDING</h4>
                    <div class="url-label">{{$s.OldName}}</div>
                    <div class="kpi-row"><span>Leads</span><span class="kpi-value">{{count $s.OldKPIs.Leads}}</span></div>
                    <div class="kpi-row"><span>Volume</span><span class="kpi-value">{{count $s.OldKPIs.Volume}}</span></div>
                    <div class="kpi-row"><span>Reg Rate</span><span class="kpi-value">{{rate $s.OldKPIs.RegistrationRate}}%</span></div>
                    <div class="kpi-row"><span>End Rate</span><span class="kpi-value">{{rate $s.OldKPIs.EndRate}}%</span></div>
                    <div class="kpi-row"><span>CAP Success</span><span class="kpi-value">{{rate $s.OldKPIs.CAPSuccess}}%</span></div>
                </div>
                <div class="kpi-card new">
                    <h4>NEW LANDING</h4>
                    <div class="url-label">{{$s.NewName}}</div>
                    <div class="kpi-row"><span>Leads</span><span class="kpi-value">{{count $s.NewKPIs.Leads}}</span></div>
                    <div class="kpi-row"><span>Volume</span><span class="kpi-value">{{count $s.NewKPIs.Volume}}</span></div>
                    <div class="kpi-row"><span>Reg Rate</span><span class="kpi-value">{{rate $s.NewKPIs.RegistrationRate}}%</span></div>
                    <div class="kpi-row"><span>End Rate</span><span class="kpi-value">{{rate $s.NewKPIs.EndRate}}%</span></div>
                    <div class="kpi-row"><span>CAP Success</span><span class="kpi-value">{{rate $s.NewKPIs.CAPSuccess}}%</span></div>
                </div>
            </div>

            <div class="motivo-section">
                <h4>Motivo</h4>
                <div class="motivo-text">
                    <p>{{$s.WinnerExplanation}}</p>
                    {{if $s.FunnelExplanation}}<p>{{$s.FunnelExplanation}}</p>{{end}}
                </div>
            </div>
{{if $s.Problems}}
            <div class="problems-section">
                <h4>Step Critici del Funnel (Dove si perdono utenti)</h4>
{{range $s.Problems}}
                <div class="problem-item">
                    <div class="problem-step">{{.Step}}</div>
                    <div class="problem-desc">{{.Issue}}</div>
                </div>
{{end}}
            </div>
{{end}}
{{if .Chart}}
            <div class="chart-container">
                <img src="{{chartURL .Chart}}" alt="KPI Chart">
            </div>
{{end}}
            <div class="recommendation">
                <h4>Raccomandazione Finale</h4>
                <div class="action">{{$s.Recommendation}}</div>
            </div>
        </div>
{{end}}
        <div class="footer">
            <p>Enpal Landing Page Analytics | Report automatico</p>
        </div>
    </div>
</body>
</html>
`
