package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/m-mizutani/actq/pkg/domain/interfaces"
	"github.com/m-mizutani/actq/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// SlackNotifier posts a short queue summary to an incoming webhook when
// the report contains queued runs. Nothing is sent for a clean report.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
}

func NewSlackNotifier(webhookURL string) interfaces.Notifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (n *SlackNotifier) NotifyReport(ctx context.Context, report *model.Report) error {
	logger := ctxlog.From(ctx)

	queued := report.QueuedRows()
	if len(queued) == 0 {
		logger.Debug("no queued runs, skipping notification")
		return nil
	}

	payload := buildQueuePayload(report, queued)

	// Bounded retry with backoff; webhook hiccups are common enough.
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = n.send(ctx, payload)
		if err == nil {
			return nil
		}
		if attempt < 2 {
			backoff := time.Duration(1<<attempt) * time.Second
			logger.Warn("failed to send Slack notification, retrying",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			if sleepErr := sleepContext(ctx, backoff); sleepErr != nil {
				return sleepErr
			}
		}
	}
	return goerr.Wrap(err, "failed to send slack notification")
}

func buildQueuePayload(report *model.Report, queued []*model.ReportRow) model.SlackPayload {
	counts := make(map[model.QueuedReason]int)
	for _, row := range queued {
		counts[row.Reason]++
	}

	var fields []model.Field
	for _, reason := range []model.QueuedReason{
		model.QueuedReasonNoRunner,
		model.QueuedReasonCapacity,
		model.QueuedReasonUnknown,
	} {
		if counts[reason] == 0 {
			continue
		}
		fields = append(fields, model.Field{
			Title: string(reason),
			Value: fmt.Sprintf("%d", counts[reason]),
			Short: true,
		})
	}

	return model.SlackPayload{
		Attachments: []model.Attachment{
			{
				Color: "warning",
				Title: fmt.Sprintf("%d queued workflow runs in %s", len(queued), report.Repo.FullName()),
				Text: fmt.Sprintf("%d runs fetched, %d still queued",
					len(report.Rows), len(queued)),
				Fields:    fields,
				Footer:    "actq",
				Timestamp: report.GeneratedAt.Unix(),
			},
		},
	}
}

func (n *SlackNotifier) send(ctx context.Context, payload model.SlackPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal slack payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(data))
	if err != nil {
		return goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body bytes.Buffer
		_, _ = body.ReadFrom(resp.Body) // Best effort to read response
		return goerr.New(fmt.Sprintf("slack webhook returned status %d: %s", resp.StatusCode, body.String()))
	}

	return nil
}

type NoOpNotifier struct{}

func NewNoOpNotifier() interfaces.Notifier {
	return &NoOpNotifier{}
}

func (n *NoOpNotifier) NotifyReport(ctx context.Context, report *model.Report) error {
	return nil
}
