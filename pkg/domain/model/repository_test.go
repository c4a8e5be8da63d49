package model_test

import (
	"testing"

	"github.com/m-mizutani/actq/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestRepository(t *testing.T) {
	t.Run("FullName", func(t *testing.T) {
		repo := model.Repository{
			Owner: "m-mizutani",
			Name:  "actq",
		}
		gt.Equal(t, repo.FullName(), "m-mizutani/actq")
	})
}

func TestReportQueuedRows(t *testing.T) {
	report := &model.Report{
		Rows: []*model.ReportRow{
			{Run: &model.WorkflowRun{ID: 1, Status: model.WorkflowStatusQueued}},
			{Run: &model.WorkflowRun{ID: 2, Status: model.WorkflowStatusCompleted}},
			{Run: &model.WorkflowRun{ID: 3, Status: model.WorkflowStatusQueued}},
		},
	}

	queued := report.QueuedRows()
	gt.Equal(t, len(queued), 2)
	gt.Equal(t, queued[0].Run.ID, int64(1))
	gt.Equal(t, queued[1].Run.ID, int64(3))
}
