package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/actq/pkg/domain/interfaces"
	"github.com/m-mizutani/actq/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/sourcegraph/conc/pool"
)

// JobEnricher fetches jobs for the runs that are still queued or in
// progress. Completed runs are never enriched.
type JobEnricher struct {
	github interfaces.GitHubService
	limit  int
}

func NewJobEnricher(github interfaces.GitHubService, limit int) *JobEnricher {
	if limit < 1 {
		limit = 1
	}
	return &JobEnricher{
		github: github,
		limit:  limit,
	}
}

// jobFetchResult tags each run's outcome so a failure can never be
// mistaken for a job list.
type jobFetchResult struct {
	runID int64
	jobs  []*model.Job
	err   error
}

// FetchJobs fans out one jobs request per queued/in-progress run and
// waits for the whole batch. A failed fetch leaves its run out of the
// returned map; it never aborts the other runs. The map is keyed by run
// ID, so completion order does not matter.
func (e *JobEnricher) FetchJobs(ctx context.Context, repo model.Repository, runs []*model.WorkflowRun) map[int64][]*model.Job {
	logger := ctxlog.From(ctx)

	var pending []*model.WorkflowRun
	for _, run := range runs {
		if run.Status == model.WorkflowStatusQueued || run.Status == model.WorkflowStatusInProgress {
			pending = append(pending, run)
		}
	}

	p := pool.NewWithResults[jobFetchResult]().
		WithContext(ctx).
		WithMaxGoroutines(e.limit)

	for _, run := range pending {
		p.Go(func(ctx context.Context) (jobFetchResult, error) {
			jobs, err := e.github.ListRunJobs(ctx, repo, run.ID)
			// The error travels inside the result; returning it here
			// would cancel the sibling fetches.
			return jobFetchResult{runID: run.ID, jobs: jobs, err: err}, nil
		})
	}

	results, _ := p.Wait()

	jobsByRun := make(map[int64][]*model.Job, len(results))
	for _, result := range results {
		if result.err != nil {
			logger.Warn("failed to fetch jobs for run",
				slog.Int64("run_id", result.runID),
				slog.String("error", result.err.Error()),
			)
			continue
		}
		jobsByRun[result.runID] = result.jobs
	}

	return jobsByRun
}
