package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/actq/pkg/domain/model"
	"github.com/m-mizutani/actq/pkg/usecase"
)

// ShowReport prints a short colored summary of the generated report and
// the artifact paths to stdout.
func ShowReport(result *model.ReportResult) {
	report := result.Report

	fmt.Printf("\nRepository: %s\n", report.Repo.FullName())
	fmt.Printf("Generated:  %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Runs:       %d\n\n", len(report.Rows))

	records := usecase.TabularRecords(report)
	for _, group := range usecase.Summarize(records) {
		label := string(group.Status)
		if group.Conclusion != "" {
			label = fmt.Sprintf("%s/%s", group.Status, group.Conclusion)
		}
		statusColor(group.Status, group.Conclusion).Printf("  %-28s %d\n", label, group.Count)
	}

	queued := report.QueuedRows()
	if len(queued) > 0 {
		fmt.Println()
		color.New(color.FgYellow).Printf("%d runs still queued:\n", len(queued))
		for _, row := range queued {
			reason := string(row.Reason)
			fmt.Printf("  #%d %s (%s) - %s\n", row.Run.ID, row.Run.Name, row.Run.HeadBranch, reason)
		}
	}

	fmt.Println()
	for _, path := range result.ArtifactPaths {
		fmt.Printf("Wrote: %s\n", path)
	}
}

func statusColor(status model.WorkflowStatus, conclusion model.WorkflowConclusion) *color.Color {
	if status == model.WorkflowStatusCompleted {
		switch conclusion {
		case model.WorkflowConclusionSuccess:
			return color.New(color.FgGreen)
		case model.WorkflowConclusionFailure:
			return color.New(color.FgRed)
		case model.WorkflowConclusionCancelled:
			return color.New(color.FgMagenta)
		default:
			return color.New(color.FgWhite)
		}
	}

	switch status {
	case model.WorkflowStatusQueued:
		return color.New(color.FgYellow)
	case model.WorkflowStatusInProgress:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}
