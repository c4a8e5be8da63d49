package interfaces

import (
	"context"

	"github.com/m-mizutani/actq/pkg/domain/model"
)

type GitHubService interface {
	ListWorkflowRuns(ctx context.Context, repo model.Repository, perPage, maxPages int) ([]*model.WorkflowRun, error)
	ListRunJobs(ctx context.Context, repo model.Repository, runID int64) ([]*model.Job, error)
	GetRepositoryInfo(ctx context.Context, repoPath string) (*model.Repository, error)
}
