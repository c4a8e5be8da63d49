package model

import "time"

type WorkflowStatus string

const (
	WorkflowStatusQueued     WorkflowStatus = "queued"
	WorkflowStatusInProgress WorkflowStatus = "in_progress"
	WorkflowStatusCompleted  WorkflowStatus = "completed"
)

type WorkflowConclusion string

const (
	WorkflowConclusionSuccess   WorkflowConclusion = "success"
	WorkflowConclusionFailure   WorkflowConclusion = "failure"
	WorkflowConclusionCancelled WorkflowConclusion = "cancelled"
	WorkflowConclusionSkipped   WorkflowConclusion = "skipped"
	WorkflowConclusionTimedOut  WorkflowConclusion = "timed_out"
)

// WorkflowRun is a single execution of a workflow as returned by the
// provider, in the provider's own order. It is never mutated after fetch.
type WorkflowRun struct {
	ID           int64
	Name         string
	WorkflowID   int64
	HeadBranch   string
	HeadSHA      string
	Event        string
	Status       WorkflowStatus
	Conclusion   WorkflowConclusion // set only when Status is completed
	CreatedAt    time.Time
	RunStartedAt time.Time // zero when the provider omits it
	UpdatedAt    time.Time
	Actor        string
	URL          string
}

// Job is one schedulable unit of work inside a run.
type Job struct {
	ID          int64
	Name        string
	Status      WorkflowStatus
	Conclusion  WorkflowConclusion
	RunnerName  string // empty while no runner is assigned
	StartedAt   time.Time
	CompletedAt time.Time
	URL         string
}

// Awaiting reports whether the job is queued without an assigned runner.
func (j *Job) Awaiting() bool {
	return j.Status == WorkflowStatusQueued && j.RunnerName == ""
}
