package journal

import (
	"bytes"
	"text/template"
	"time"

	"github.com/rustyeddy/tradematch/match"
)

var reportFuncs = template.FuncMap{
	"ts": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format(TimeLayout)
	},
	"pct": func(n, d int) float64 {
		if d == 0 {
			return 0
		}
		return float64(n) * 100.0 / float64(d)
	},
	"elapsed": func(r match.Report) time.Duration {
		return r.Finished.Sub(r.Started).Round(time.Millisecond)
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(ReportOrgTemplate))

// FormatReportOrg renders the run summary as an Org block.
func FormatReportOrg(r match.Report) (string, error) {
	buf := new(bytes.Buffer)
	if err := reportTmpl.Execute(buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const ReportOrgTemplate = `* MERGE: {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:PROPERTIES:
:WINDOW:      {{.Window}}
:STARTED:     {{ts .Started}}
:ELAPSED:     {{elapsed .}}
:FIRST_CLOSE: {{ts .FirstClose}}
:LAST_CLOSE:  {{ts .LastClose}}
:END:

| Stage                  | Rows |
|------------------------+------|
| Closing trades         | {{.Trades}} |
| Fills                  | {{.Fills}} |
| Joined to close fill   | {{.Joined}} |
| No close fill          | {{.JoinMisses}} |
| Opening fill found     | {{.Resolved}} |
| No opening fill        | {{.ResolveMisses}} |
| Written                | {{.Emitted}} |

- Match rate: *{{printf "%.1f" (pct .Emitted .Trades)}}%*
- Net P/L of written trades: *{{.NetPnL}}*
`
