package interfaces

import (
	"context"

	"github.com/m-mizutani/actq/pkg/domain/model"
)

// ArtifactRenderer serializes a report into one output file and returns
// the path it wrote.
type ArtifactRenderer interface {
	Render(ctx context.Context, report *model.Report) (string, error)
}
