package usecase_test

import (
	"testing"

	"github.com/m-mizutani/actq/pkg/domain/model"
	"github.com/m-mizutani/actq/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestInferQueuedReason(t *testing.T) {
	queuedRun := &model.WorkflowRun{ID: 1, Status: model.WorkflowStatusQueued}

	testCases := []struct {
		name string
		run  *model.WorkflowRun
		jobs []*model.Job
		want model.QueuedReason
	}{
		{
			name: "completed run has no reason",
			run:  &model.WorkflowRun{ID: 1, Status: model.WorkflowStatusCompleted},
			jobs: []*model.Job{
				{Status: model.WorkflowStatusQueued},
			},
			want: "",
		},
		{
			name: "in progress run has no reason",
			run:  &model.WorkflowRun{ID: 1, Status: model.WorkflowStatusInProgress},
			jobs: nil,
			want: "",
		},
		{
			name: "all jobs queued and unassigned",
			run:  queuedRun,
			jobs: []*model.Job{
				{Status: model.WorkflowStatusQueued},
				{Status: model.WorkflowStatusQueued},
			},
			want: model.QueuedReasonNoRunner,
		},
		{
			name: "some jobs queued and unassigned",
			run:  queuedRun,
			jobs: []*model.Job{
				{Status: model.WorkflowStatusQueued, RunnerName: "r1"},
				{Status: model.WorkflowStatusQueued},
			},
			want: model.QueuedReasonCapacity,
		},
		{
			name: "no jobs fetched",
			run:  queuedRun,
			jobs: nil,
			want: model.QueuedReasonUnknown,
		},
		{
			name: "empty job list",
			run:  queuedRun,
			jobs: []*model.Job{},
			want: model.QueuedReasonUnknown,
		},
		{
			name: "no queued unassigned job",
			run:  queuedRun,
			jobs: []*model.Job{
				{Status: model.WorkflowStatusCompleted, RunnerName: "r1"},
			},
			want: model.QueuedReasonUnknown,
		},
		{
			name: "single queued job with runner assigned",
			run:  queuedRun,
			jobs: []*model.Job{
				{Status: model.WorkflowStatusQueued, RunnerName: "r1"},
			},
			want: model.QueuedReasonUnknown,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, usecase.InferQueuedReason(tc.run, tc.jobs), tc.want)
		})
	}
}
