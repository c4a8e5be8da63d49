package model

import "time"

// QueuedReason is a best-effort classification of why a run is stuck
// queued. Empty means the run is not queued.
type QueuedReason string

const (
	QueuedReasonNoRunner QueuedReason = "no_available_runner"
	QueuedReasonCapacity QueuedReason = "runner_capacity"
	QueuedReasonUnknown  QueuedReason = "unknown_or_concurrency"
)

// ReportRow joins one run with its fetched jobs (nil when enrichment was
// skipped or failed) and the inferred queued reason. There is exactly one
// row per fetched run.
type ReportRow struct {
	Run    *WorkflowRun
	Jobs   []*Job
	Reason QueuedReason
}

type Report struct {
	Repo        Repository
	GeneratedAt time.Time
	Rows        []*ReportRow
}

// QueuedRows returns the rows whose run is still queued.
func (r *Report) QueuedRows() []*ReportRow {
	var queued []*ReportRow
	for _, row := range r.Rows {
		if row.Run.Status == WorkflowStatusQueued {
			queued = append(queued, row)
		}
	}
	return queued
}

// TabularRecord is the flattened projection used by the CSV artifact and
// the HTML tables.
type TabularRecord struct {
	OrgRepo      string
	RunID        int64
	WorkflowName string
	HeadBranch   string
	Event        string
	Status       WorkflowStatus
	Conclusion   WorkflowConclusion
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Actor        string
	JobsCount    *int // nil when jobs were not fetched
	Reason       QueuedReason
	URL          string
}

// SummaryCount is one (status, conclusion) group of the summary table.
type SummaryCount struct {
	Status     WorkflowStatus
	Conclusion WorkflowConclusion
	Count      int
}

// ReportResult is what a report execution hands back to the CLI layer.
type ReportResult struct {
	Report        *Report
	ArtifactPaths []string
}
