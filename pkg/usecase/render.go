package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"html/template"
	"os"
	"strconv"
	"time"

	"github.com/m-mizutani/actq/pkg/domain"
	"github.com/m-mizutani/actq/pkg/domain/interfaces"
	"github.com/m-mizutani/actq/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// The three renderers share one output prefix and write <prefix>.json,
// <prefix>.csv and <prefix>.html respectively.

type JSONRenderer struct {
	prefix string
}

func NewJSONRenderer(prefix string) interfaces.ArtifactRenderer {
	return &JSONRenderer{prefix: prefix}
}

// runRecord is the full structured dump of one row. Pointer fields render
// as JSON null when the value is absent.
type runRecord struct {
	OrgRepo      string       `json:"org_repo"`
	RunID        int64        `json:"workflow_run_id"`
	WorkflowName string       `json:"workflow_name"`
	WorkflowID   int64        `json:"workflow_id"`
	HeadBranch   string       `json:"head_branch"`
	HeadSHA      string       `json:"head_sha"`
	Event        string       `json:"event"`
	Status       string       `json:"status"`
	Conclusion   *string      `json:"conclusion"`
	CreatedAt    string       `json:"created_at"`
	RunStartedAt *string      `json:"run_started_at"`
	UpdatedAt    string       `json:"updated_at"`
	Actor        string       `json:"actor"`
	URL          string       `json:"html_url"`
	Jobs         []*jobRecord `json:"jobs"`
	Reason       *string      `json:"queued_reason_inferred"`
}

type jobRecord struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Conclusion  *string `json:"conclusion"`
	RunnerName  *string `json:"runner_name"`
	StartedAt   *string `json:"started_at"`
	CompletedAt *string `json:"completed_at"`
	URL         string  `json:"html_url"`
}

func (r *JSONRenderer) Render(ctx context.Context, report *model.Report) (string, error) {
	records := make([]*runRecord, 0, len(report.Rows))
	for _, row := range report.Rows {
		records = append(records, toRunRecord(report.Repo, row))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", domain.ErrArtifactWrite.Wrap(err)
	}

	path := r.prefix + ".json"
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", domain.ErrArtifactWrite.Wrap(err, goerr.V("path", path))
	}
	return path, nil
}

func toRunRecord(repo model.Repository, row *model.ReportRow) *runRecord {
	run := row.Run
	record := &runRecord{
		OrgRepo:      repo.FullName(),
		RunID:        run.ID,
		WorkflowName: run.Name,
		WorkflowID:   run.WorkflowID,
		HeadBranch:   run.HeadBranch,
		HeadSHA:      run.HeadSHA,
		Event:        run.Event,
		Status:       string(run.Status),
		Conclusion:   optionalString(string(run.Conclusion)),
		CreatedAt:    formatTime(run.CreatedAt),
		RunStartedAt: optionalTime(run.RunStartedAt),
		UpdatedAt:    formatTime(run.UpdatedAt),
		Actor:        run.Actor,
		URL:          run.URL,
		Reason:       optionalString(string(row.Reason)),
	}

	// Jobs stays null when the run was not enriched.
	if row.Jobs != nil {
		record.Jobs = make([]*jobRecord, 0, len(row.Jobs))
		for _, job := range row.Jobs {
			record.Jobs = append(record.Jobs, &jobRecord{
				ID:          job.ID,
				Name:        job.Name,
				Status:      string(job.Status),
				Conclusion:  optionalString(string(job.Conclusion)),
				RunnerName:  optionalString(job.RunnerName),
				StartedAt:   optionalTime(job.StartedAt),
				CompletedAt: optionalTime(job.CompletedAt),
				URL:         job.URL,
			})
		}
	}

	return record
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := formatTime(t)
	return &s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

type CSVRenderer struct {
	prefix string
}

func NewCSVRenderer(prefix string) interfaces.ArtifactRenderer {
	return &CSVRenderer{prefix: prefix}
}

var csvHeader = []string{
	"org_repo",
	"workflow_run_id",
	"workflow_name",
	"head_branch",
	"event",
	"status",
	"conclusion",
	"created_at",
	"updated_at",
	"actor",
	"jobs_count",
	"queued_reason_inferred",
	"html_url",
}

func (r *CSVRenderer) Render(ctx context.Context, report *model.Report) (string, error) {
	path := r.prefix + ".csv"
	f, err := os.Create(path)
	if err != nil {
		return "", domain.ErrArtifactWrite.Wrap(err, goerr.V("path", path))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", domain.ErrArtifactWrite.Wrap(err, goerr.V("path", path))
	}

	for _, record := range TabularRecords(report) {
		jobsCount := ""
		if record.JobsCount != nil {
			jobsCount = strconv.Itoa(*record.JobsCount)
		}
		row := []string{
			record.OrgRepo,
			strconv.FormatInt(record.RunID, 10),
			record.WorkflowName,
			record.HeadBranch,
			record.Event,
			string(record.Status),
			string(record.Conclusion),
			formatTime(record.CreatedAt),
			formatTime(record.UpdatedAt),
			record.Actor,
			jobsCount,
			string(record.Reason),
			record.URL,
		}
		if err := w.Write(row); err != nil {
			return "", domain.ErrArtifactWrite.Wrap(err, goerr.V("path", path))
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", domain.ErrArtifactWrite.Wrap(err, goerr.V("path", path))
	}
	return path, nil
}

type HTMLRenderer struct {
	prefix      string
	queuedLimit int
}

func NewHTMLRenderer(prefix string, queuedLimit int) interfaces.ArtifactRenderer {
	if queuedLimit <= 0 {
		queuedLimit = 200
	}
	return &HTMLRenderer{prefix: prefix, queuedLimit: queuedLimit}
}

const htmlReportTemplate = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>GH Actions Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #f0f0f0; }
</style>
</head><body>
<h1>Report generated {{.GeneratedAt}}</h1>
<h2>Summary</h2>
<table>
<tr><th>status</th><th>conclusion</th><th>count</th></tr>
{{- range .Summary}}
<tr><td>{{.Status}}</td><td>{{.Conclusion}}</td><td>{{.Count}}</td></tr>
{{- end}}
</table>
<h2>Queued Runs (first {{.QueuedLimit}})</h2>
<table>
<tr><th>run id</th><th>workflow</th><th>branch</th><th>event</th><th>created</th><th>actor</th><th>jobs</th><th>reason</th><th>link</th></tr>
{{- range .Queued}}
<tr><td>{{.RunID}}</td><td>{{.WorkflowName}}</td><td>{{.HeadBranch}}</td><td>{{.Event}}</td><td>{{.CreatedAt.UTC.Format "2006-01-02T15:04:05Z"}}</td><td>{{.Actor}}</td><td>{{if .JobsCount}}{{.JobsCount}}{{end}}</td><td>{{.Reason}}</td><td><a href="{{.URL}}">view</a></td></tr>
{{- end}}
</table>
</body></html>
`

var htmlTemplate = template.Must(template.New("report").Parse(htmlReportTemplate))

func (r *HTMLRenderer) Render(ctx context.Context, report *model.Report) (string, error) {
	records := TabularRecords(report)
	data := struct {
		GeneratedAt string
		Summary     []*model.SummaryCount
		Queued      []*model.TabularRecord
		QueuedLimit int
	}{
		GeneratedAt: formatTime(report.GeneratedAt),
		Summary:     Summarize(records),
		Queued:      QueuedRecords(records, r.queuedLimit),
		QueuedLimit: r.queuedLimit,
	}

	path := r.prefix + ".html"
	f, err := os.Create(path)
	if err != nil {
		return "", domain.ErrArtifactWrite.Wrap(err, goerr.V("path", path))
	}
	defer f.Close()

	if err := htmlTemplate.Execute(f, data); err != nil {
		return "", domain.ErrArtifactWrite.Wrap(err, goerr.V("path", path))
	}
	return path, nil
}
