package usecase_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/actq/pkg/domain/model"
	"github.com/m-mizutani/actq/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func testReport() *model.Report {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo := model.Repository{Owner: "o", Name: "r"}

	runs := []*model.WorkflowRun{
		{
			ID:           1,
			Name:         "CI",
			WorkflowID:   42,
			HeadBranch:   "main",
			HeadSHA:      "deadbeef",
			Event:        "push",
			Status:       model.WorkflowStatusQueued,
			CreatedAt:    created,
			RunStartedAt: created.Add(time.Second),
			UpdatedAt:    created.Add(time.Minute),
			Actor:        "octocat",
			URL:          "https://example.com/runs/1",
		},
		{
			ID:         2,
			Name:       "Deploy",
			Status:     model.WorkflowStatusCompleted,
			Conclusion: model.WorkflowConclusionSuccess,
			CreatedAt:  created,
			UpdatedAt:  created,
		},
		{
			ID:        3,
			Name:      "Lint",
			Status:    model.WorkflowStatusQueued,
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
	jobsByRun := map[int64][]*model.Job{
		1: {
			{ID: 11, Name: "build", Status: model.WorkflowStatusQueued},
		},
		// Run 3: enrichment failed, no entry.
	}

	return usecase.BuildReport(repo, runs, jobsByRun, created.Add(time.Hour))
}

func TestJSONRenderer(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "report")
	path, err := usecase.NewJSONRenderer(prefix).Render(context.Background(), testReport())
	gt.NoError(t, err)
	gt.Equal(t, path, prefix+".json")

	data, err := os.ReadFile(path)
	gt.NoError(t, err)

	var records []map[string]any
	gt.NoError(t, json.Unmarshal(data, &records))
	gt.Equal(t, len(records), 3)

	first := records[0]
	gt.Equal(t, first["org_repo"], "o/r")
	gt.Equal(t, first["workflow_run_id"].(float64), float64(1))
	gt.Equal(t, first["status"], "queued")
	gt.Equal(t, first["queued_reason_inferred"], "no_available_runner")
	gt.Nil(t, first["conclusion"])

	jobs, ok := first["jobs"].([]any)
	gt.True(t, ok)
	gt.Equal(t, len(jobs), 1)
	job := jobs[0].(map[string]any)
	gt.Nil(t, job["runner_name"])

	// Non-enriched run keeps null jobs.
	gt.Nil(t, records[2]["jobs"])
	gt.Equal(t, records[2]["queued_reason_inferred"], "unknown_or_concurrency")

	// Completed run: conclusion present, reason null.
	gt.Equal(t, records[1]["conclusion"], "success")
	gt.Nil(t, records[1]["queued_reason_inferred"])
}

func TestJSONRendererEmptyJobs(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	runs := []*model.WorkflowRun{
		{ID: 1, Name: "CI", Status: model.WorkflowStatusQueued, CreatedAt: created, UpdatedAt: created},
		{ID: 2, Name: "Lint", Status: model.WorkflowStatusQueued, CreatedAt: created, UpdatedAt: created},
	}
	// Run 1: jobs fetched successfully but the run has none.
	// Run 2: enrichment failed, no entry.
	jobsByRun := map[int64][]*model.Job{
		1: {},
	}
	report := usecase.BuildReport(model.Repository{Owner: "o", Name: "r"}, runs, jobsByRun, created)

	prefix := filepath.Join(t.TempDir(), "report")
	path, err := usecase.NewJSONRenderer(prefix).Render(context.Background(), report)
	gt.NoError(t, err)

	data, err := os.ReadFile(path)
	gt.NoError(t, err)

	var records []map[string]any
	gt.NoError(t, json.Unmarshal(data, &records))
	gt.Equal(t, len(records), 2)

	// An empty fetch renders as an empty array, a missing one as null.
	jobs, ok := records[0]["jobs"].([]any)
	gt.True(t, ok)
	gt.Equal(t, len(jobs), 0)
	gt.Nil(t, records[1]["jobs"])
}

func TestCSVRenderer(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "report")
	path, err := usecase.NewCSVRenderer(prefix).Render(context.Background(), testReport())
	gt.NoError(t, err)
	gt.Equal(t, path, prefix+".csv")

	f, err := os.Open(path)
	gt.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	gt.NoError(t, err)
	gt.Equal(t, len(rows), 4) // header + 3 runs

	gt.Equal(t, rows[0][0], "org_repo")
	gt.Equal(t, rows[0][10], "jobs_count")

	gt.Equal(t, rows[1][0], "o/r")
	gt.Equal(t, rows[1][1], "1")
	gt.Equal(t, rows[1][10], "1")
	gt.Equal(t, rows[1][11], "no_available_runner")

	// Absent values render as empty strings.
	gt.Equal(t, rows[2][6], "success")
	gt.Equal(t, rows[2][10], "")
	gt.Equal(t, rows[2][11], "")
	gt.Equal(t, rows[3][10], "")
	gt.Equal(t, rows[3][11], "unknown_or_concurrency")
}

func TestHTMLRenderer(t *testing.T) {
	t.Run("contains timestamp, summary and queued rows", func(t *testing.T) {
		prefix := filepath.Join(t.TempDir(), "report")
		path, err := usecase.NewHTMLRenderer(prefix, 200).Render(context.Background(), testReport())
		gt.NoError(t, err)
		gt.Equal(t, path, prefix+".html")

		data, err := os.ReadFile(path)
		gt.NoError(t, err)
		page := string(data)

		gt.True(t, strings.Contains(page, "Report generated 2024-05-01T11:00:00Z"))
		gt.True(t, strings.Contains(page, "<h2>Summary</h2>"))
		gt.True(t, strings.Contains(page, "Queued Runs (first 200)"))
		gt.True(t, strings.Contains(page, "no_available_runner"))
		gt.True(t, strings.Contains(page, "CI"))
		gt.True(t, strings.Contains(page, "Lint"))
		// Completed run stays out of the queued table.
		gt.False(t, strings.Contains(page, "Deploy"))
	})

	t.Run("caps queued rows", func(t *testing.T) {
		var runs []*model.WorkflowRun
		for i := 0; i < 10; i++ {
			runs = append(runs, &model.WorkflowRun{
				ID:     int64(i),
				Name:   "CI",
				Status: model.WorkflowStatusQueued,
			})
		}
		report := usecase.BuildReport(model.Repository{Owner: "o", Name: "r"}, runs, nil, time.Now())

		prefix := filepath.Join(t.TempDir(), "report")
		path, err := usecase.NewHTMLRenderer(prefix, 4).Render(context.Background(), report)
		gt.NoError(t, err)

		data, err := os.ReadFile(path)
		gt.NoError(t, err)
		gt.Equal(t, strings.Count(string(data), "unknown_or_concurrency"), 4)
	})
}
