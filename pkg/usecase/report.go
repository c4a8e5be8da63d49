package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/actq/pkg/domain/interfaces"
	"github.com/m-mizutani/actq/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
)

type ReportUseCase struct {
	github    interfaces.GitHubService
	enricher  *JobEnricher
	renderers []interfaces.ArtifactRenderer
	notifier  interfaces.Notifier
	config    *model.ReportConfig
}

type ReportUseCaseOptions struct {
	GitHub    interfaces.GitHubService
	Enricher  *JobEnricher
	Renderers []interfaces.ArtifactRenderer
	Notifier  interfaces.Notifier
	Config    *model.ReportConfig
}

func NewReportUseCase(opts ReportUseCaseOptions) *ReportUseCase {
	return &ReportUseCase{
		github:    opts.GitHub,
		enricher:  opts.Enricher,
		renderers: opts.Renderers,
		notifier:  opts.Notifier,
		config:    opts.Config,
	}
}

// Execute runs the whole pipeline: list runs, enrich the live ones with
// jobs, classify, then write every artifact. A listing failure aborts
// before anything is written; a failed artifact write is also fatal.
// Notification failures are logged only.
func (u *ReportUseCase) Execute(ctx context.Context) (*model.ReportResult, error) {
	logger := ctxlog.From(ctx)

	runs, err := u.github.ListWorkflowRuns(ctx, u.config.Repo, u.config.PerPage, u.config.MaxPages)
	if err != nil {
		return nil, err
	}

	logger.Info("fetched workflow runs",
		slog.String("repo", u.config.Repo.FullName()),
		slog.Int("count", len(runs)),
	)

	jobsByRun := u.enricher.FetchJobs(ctx, u.config.Repo, runs)
	report := BuildReport(u.config.Repo, runs, jobsByRun, time.Now())

	paths := make([]string, 0, len(u.renderers))
	for _, renderer := range u.renderers {
		path, err := renderer.Render(ctx, report)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	if u.notifier != nil {
		if err := u.notifier.NotifyReport(ctx, report); err != nil {
			logger.Warn("failed to send report notification",
				slog.String("error", err.Error()),
			)
		}
	}

	return &model.ReportResult{
		Report:        report,
		ArtifactPaths: paths,
	}, nil
}

// BuildReport joins runs with their fetched jobs and an inferred reason.
// Every run gets exactly one row: a run whose enrichment failed or was
// skipped keeps a nil job list and is classified from its status alone.
func BuildReport(repo model.Repository, runs []*model.WorkflowRun, jobsByRun map[int64][]*model.Job, generatedAt time.Time) *model.Report {
	rows := make([]*model.ReportRow, 0, len(runs))
	for _, run := range runs {
		jobs := jobsByRun[run.ID]
		rows = append(rows, &model.ReportRow{
			Run:    run,
			Jobs:   jobs,
			Reason: InferQueuedReason(run, jobs),
		})
	}

	return &model.Report{
		Repo:        repo,
		GeneratedAt: generatedAt,
		Rows:        rows,
	}
}

// TabularRecords projects the report rows into the flat column set shared
// by the CSV artifact and the HTML tables, preserving row order.
func TabularRecords(report *model.Report) []*model.TabularRecord {
	records := make([]*model.TabularRecord, 0, len(report.Rows))
	for _, row := range report.Rows {
		record := &model.TabularRecord{
			OrgRepo:      report.Repo.FullName(),
			RunID:        row.Run.ID,
			WorkflowName: row.Run.Name,
			HeadBranch:   row.Run.HeadBranch,
			Event:        row.Run.Event,
			Status:       row.Run.Status,
			Conclusion:   row.Run.Conclusion,
			CreatedAt:    row.Run.CreatedAt,
			UpdatedAt:    row.Run.UpdatedAt,
			Actor:        row.Run.Actor,
			Reason:       row.Reason,
			URL:          row.Run.URL,
		}
		if len(row.Jobs) > 0 {
			count := len(row.Jobs)
			record.JobsCount = &count
		}
		records = append(records, record)
	}
	return records
}

// Summarize counts records per (status, conclusion) pair, groups ordered
// by first appearance. The counts always sum to the number of records.
func Summarize(records []*model.TabularRecord) []*model.SummaryCount {
	type groupKey struct {
		status     model.WorkflowStatus
		conclusion model.WorkflowConclusion
	}

	index := make(map[groupKey]int)
	var summary []*model.SummaryCount
	for _, record := range records {
		key := groupKey{status: record.Status, conclusion: record.Conclusion}
		if i, ok := index[key]; ok {
			summary[i].Count++
			continue
		}
		index[key] = len(summary)
		summary = append(summary, &model.SummaryCount{
			Status:     record.Status,
			Conclusion: record.Conclusion,
			Count:      1,
		})
	}
	return summary
}

// QueuedRecords filters to queued runs and caps the result at limit,
// keeping the existing order.
func QueuedRecords(records []*model.TabularRecord, limit int) []*model.TabularRecord {
	var queued []*model.TabularRecord
	for _, record := range records {
		if record.Status != model.WorkflowStatusQueued {
			continue
		}
		queued = append(queued, record)
		if len(queued) >= limit {
			break
		}
	}
	return queued
}
