package usecase

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/google/go-github/v74/github"
	"github.com/m-mizutani/actq/pkg/domain"
	"github.com/m-mizutani/actq/pkg/domain/interfaces"
	"github.com/m-mizutani/actq/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// Minimum sleep before retrying a rate-limited call, and the margin
	// added on top of the provider's stated reset time.
	rateLimitMinWait = 5 * time.Second
	rateLimitBuffer  = 5 * time.Second

	jobsPerPage = 100
)

type GitHubService struct {
	client      *github.Client
	gate        *RequestGate
	callTimeout time.Duration
	maxRetries  int
	minWait     time.Duration
	resetBuffer time.Duration
}

type GitHubServiceOptions struct {
	Client      *github.Client
	Gate        *RequestGate
	CallTimeout time.Duration // per-call deadline, 30s when zero
	MaxRetries  int           // rate-limit retries per call, 3 when zero
}

func NewGitHubService(opts GitHubServiceOptions) *GitHubService {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 30 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	return &GitHubService{
		client:      opts.Client,
		gate:        opts.Gate,
		callTimeout: opts.CallTimeout,
		maxRetries:  opts.MaxRetries,
		minWait:     rateLimitMinWait,
		resetBuffer: rateLimitBuffer,
	}
}

var _ interfaces.GitHubService = (*GitHubService)(nil)

// ListWorkflowRuns walks the run listing page by page, in the provider's
// order, newest first. It stops at maxPages, or earlier when a page comes
// back empty or short. Any page failure propagates: a broken listing means
// no report.
func (s *GitHubService) ListWorkflowRuns(ctx context.Context, repo model.Repository, perPage, maxPages int) ([]*model.WorkflowRun, error) {
	logger := ctxlog.From(ctx)

	var runs []*model.WorkflowRun
	for page := 1; page <= maxPages; page++ {
		var pageRuns *github.WorkflowRuns
		err := s.call(ctx, "list workflow runs", func(ctx context.Context) error {
			opts := &github.ListWorkflowRunsOptions{
				ListOptions: github.ListOptions{
					PerPage: perPage,
					Page:    page,
				},
			}
			result, _, err := s.client.Actions.ListRepositoryWorkflowRuns(ctx, repo.Owner, repo.Name, opts)
			if err != nil {
				return err
			}
			pageRuns = result
			return nil
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list workflow runs",
				goerr.V("repo", repo.FullName()),
				goerr.V("page", page),
			)
		}

		if pageRuns == nil || len(pageRuns.WorkflowRuns) == 0 {
			break
		}
		for _, run := range pageRuns.WorkflowRuns {
			runs = append(runs, convertRun(run))
		}

		logger.Debug("fetched workflow runs page",
			slog.String("repo", repo.FullName()),
			slog.Int("page", page),
			slog.Int("count", len(pageRuns.WorkflowRuns)),
		)

		// A short page is the last page.
		if len(pageRuns.WorkflowRuns) < perPage {
			break
		}
	}

	return runs, nil
}

// ListRunJobs fetches the jobs of one run. A single page of 100 is enough
// in practice; a run with more jobs gets a truncated view.
func (s *GitHubService) ListRunJobs(ctx context.Context, repo model.Repository, runID int64) ([]*model.Job, error) {
	var jobs *github.Jobs
	err := s.call(ctx, "list workflow jobs", func(ctx context.Context) error {
		opts := &github.ListWorkflowJobsOptions{
			ListOptions: github.ListOptions{
				PerPage: jobsPerPage,
			},
		}
		result, _, err := s.client.Actions.ListWorkflowJobs(ctx, repo.Owner, repo.Name, runID, opts)
		if err != nil {
			return err
		}
		jobs = result
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list workflow jobs",
			goerr.V("repo", repo.FullName()),
			goerr.V("run_id", runID),
		)
	}

	// Non-nil even for zero jobs: a successful empty fetch must stay
	// distinguishable from a failed one.
	converted := make([]*model.Job, 0, len(jobs.Jobs))
	for _, job := range jobs.Jobs {
		converted = append(converted, convertJob(job))
	}
	return converted, nil
}

// call runs one provider request through the shared gate with a per-call
// deadline. Rate-limited responses are retried after sleeping until the
// provider's reset time, up to maxRetries attempts; any other failure
// returns immediately.
func (s *GitHubService) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	logger := ctxlog.From(ctx)

	for attempt := 0; ; attempt++ {
		if err := s.gate.Acquire(ctx); err != nil {
			return err
		}
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		err := fn(callCtx)
		cancel()
		s.gate.Release()

		if err == nil {
			return nil
		}

		wait, limited := s.rateLimitWait(err)
		if !limited {
			return domain.ErrAPIRequest.Wrap(err, goerr.V("operation", op))
		}
		if attempt >= s.maxRetries {
			return domain.ErrRateLimited.Wrap(err,
				goerr.V("operation", op),
				goerr.V("attempts", attempt+1),
			)
		}

		logger.Warn("rate limited, sleeping until reset",
			slog.String("operation", op),
			slog.Duration("wait", wait),
			slog.Int("attempt", attempt+1),
		)
		if err := sleepContext(ctx, wait); err != nil {
			return err
		}
	}
}

// rateLimitWait reports whether err is a rate-limit response and how long
// to sleep before retrying: the provider's reset time plus a margin, never
// less than minWait.
func (s *GitHubService) rateLimitWait(err error) (time.Duration, bool) {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		wait := time.Until(rateErr.Rate.Reset.Time) + s.resetBuffer
		if wait < s.minWait {
			wait = s.minWait
		}
		return wait, true
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		wait := abuseErr.GetRetryAfter()
		if wait < s.minWait {
			wait = s.minWait
		}
		return wait, true
	}

	return 0, false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func convertRun(run *github.WorkflowRun) *model.WorkflowRun {
	converted := &model.WorkflowRun{
		ID:           run.GetID(),
		Name:         run.GetName(),
		WorkflowID:   run.GetWorkflowID(),
		HeadBranch:   run.GetHeadBranch(),
		HeadSHA:      run.GetHeadSHA(),
		Event:        run.GetEvent(),
		Status:       convertStatus(run.GetStatus()),
		CreatedAt:    run.GetCreatedAt().Time,
		RunStartedAt: run.GetRunStartedAt().Time,
		UpdatedAt:    run.GetUpdatedAt().Time,
		Actor:        run.GetActor().GetLogin(),
		URL:          run.GetHTMLURL(),
	}

	if run.GetStatus() == "completed" {
		converted.Conclusion = convertConclusion(run.GetConclusion())
	}

	return converted
}

func convertJob(job *github.WorkflowJob) *model.Job {
	return &model.Job{
		ID:          job.GetID(),
		Name:        job.GetName(),
		Status:      convertStatus(job.GetStatus()),
		Conclusion:  convertConclusion(job.GetConclusion()),
		RunnerName:  job.GetRunnerName(),
		StartedAt:   job.GetStartedAt().Time,
		CompletedAt: job.GetCompletedAt().Time,
		URL:         job.GetHTMLURL(),
	}
}

func convertStatus(status string) model.WorkflowStatus {
	switch status {
	case "queued":
		return model.WorkflowStatusQueued
	case "in_progress":
		return model.WorkflowStatusInProgress
	case "completed":
		return model.WorkflowStatusCompleted
	default:
		return model.WorkflowStatus(status)
	}
}

func convertConclusion(conclusion string) model.WorkflowConclusion {
	switch conclusion {
	case "success":
		return model.WorkflowConclusionSuccess
	case "failure":
		return model.WorkflowConclusionFailure
	case "cancelled":
		return model.WorkflowConclusionCancelled
	case "skipped":
		return model.WorkflowConclusionSkipped
	case "timed_out":
		return model.WorkflowConclusionTimedOut
	default:
		return model.WorkflowConclusion(conclusion)
	}
}

// GetRepositoryInfo resolves owner/name from the origin remote of the git
// repository at repoPath. Used when --owner/--repo are not given.
func (s *GitHubService) GetRepositoryInfo(ctx context.Context, repoPath string) (*model.Repository, error) {
	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return nil, domain.ErrRepository.Wrap(err)
	}

	remoteURL := strings.TrimSpace(string(output))
	owner, name := parseGitHubURL(remoteURL)
	if owner == "" || name == "" {
		return nil, domain.ErrRepository.Wrap(goerr.New("failed to parse GitHub URL: " + remoteURL))
	}

	return &model.Repository{
		Owner: owner,
		Name:  name,
	}, nil
}

func parseGitHubURL(url string) (owner, repo string) {
	url = strings.TrimSuffix(url, ".git")

	if strings.HasPrefix(url, "git@github.com:") {
		parts := strings.Split(strings.TrimPrefix(url, "git@github.com:"), "/")
		if len(parts) == 2 {
			return parts[0], parts[1]
		}
	}

	if strings.HasPrefix(url, "https://github.com/") {
		parts := strings.Split(strings.TrimPrefix(url, "https://github.com/"), "/")
		if len(parts) == 2 {
			return parts[0], parts[1]
		}
	}

	if strings.HasPrefix(url, "ssh://git@github.com/") {
		parts := strings.Split(strings.TrimPrefix(url, "ssh://git@github.com/"), "/")
		if len(parts) == 2 {
			return parts[0], parts[1]
		}
	}

	return "", ""
}
