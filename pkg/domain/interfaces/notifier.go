package interfaces

import (
	"context"

	"github.com/m-mizutani/actq/pkg/domain/model"
)

type Notifier interface {
	NotifyReport(ctx context.Context, report *model.Report) error
}
