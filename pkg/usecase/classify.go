package usecase

import (
	"github.com/m-mizutani/actq/pkg/domain/model"
)

// InferQueuedReason guesses why a run is stuck queued from the shape of
// its jobs. This is best-effort: it does not consult concurrency-limit or
// billing signals, so a misclassification is expected occasionally.
//
// Returns the empty reason for any run that is not queued.
func InferQueuedReason(run *model.WorkflowRun, jobs []*model.Job) model.QueuedReason {
	if run.Status != model.WorkflowStatusQueued {
		return ""
	}

	if len(jobs) > 0 {
		allAwaiting := true
		anyAwaiting := false
		for _, job := range jobs {
			if job.Awaiting() {
				anyAwaiting = true
			} else {
				allAwaiting = false
			}
		}
		if allAwaiting {
			return model.QueuedReasonNoRunner
		}
		if anyAwaiting {
			return model.QueuedReasonCapacity
		}
	}

	return model.QueuedReasonUnknown
}
