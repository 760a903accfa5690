package reports

import (
	"fmt"
	"html/template"
	"os"

	"github.com/campusml/nbgrade/internal/models"
)

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>AI Grading Dashboard</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
th { background: #f0f0f0; }
tr.flagged { background: #fff3cd; }
.summary { margin-bottom: 1.5em; }
</style>
</head>
<body>
<h1>AI Grading Dashboard</h1>
<div class="summary">
<p>Results: {{.Total}} &middot; Flagged for review: {{.Flagged}} &middot; Average: {{printf "%.1f" .AveragePct}}%</p>
</div>
<table>
<tr><th>Student</th><th>Problem</th><th>Score</th><th>Percentage</th><th>Confidence</th><th>Flagged</th></tr>
{{range .Results}}
<tr{{if .FlaggedForReview}} class="flagged"{{end}}>
<td>{{.StudentID}}</td>
<td>{{.ProblemID}}</td>
<td>{{printf "%.1f" .TotalScore}}/{{.MaxPossible}}</td>
<td>{{printf "%.1f" .Percentage}}%</td>
<td>{{printf "%.2f" .Confidence}}</td>
<td>{{if .FlaggedForReview}}Yes{{else}}No{{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

type dashboardData struct {
	Total      int
	Flagged    int
	AveragePct float64
	Results    []models.GradingResult
}

// WriteDashboard renders a single-page HTML overview of the results.
func (w *Writer) WriteDashboard(path string, results []models.GradingResult) error {
	data := dashboardData{Total: len(results), Results: results}

	var pctSum float64
	for _, result := range results {
		pctSum += result.Percentage
		if result.FlaggedForReview {
			data.Flagged++
		}
	}
	if len(results) > 0 {
		data.AveragePct = pctSum / float64(len(results))
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dashboard: %w", err)
	}
	defer file.Close()

	return dashboardTemplate.Execute(file, data)
}
