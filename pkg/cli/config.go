package cli

import (
	"time"

	"github.com/m-mizutani/actq/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

type Config struct {
	Owner           string
	Repo            string
	OutputPrefix    string
	PerPage         int
	MaxPages        int
	BaseURL         string
	Token           string
	SlackWebhookURL string
	Concurrency     int
	CallTimeout     time.Duration
	MaxRetries      int
}

func NewConfig() *Config {
	return &Config{
		PerPage:     100,
		MaxPages:    3,
		BaseURL:     "https://api.github.com",
		Concurrency: 10,
		CallTimeout: 30 * time.Second,
		MaxRetries:  3,
	}
}

func (c *Config) ToReportConfig(repo model.Repository) *model.ReportConfig {
	return &model.ReportConfig{
		Repo:          repo,
		OutputPrefix:  c.OutputPrefix,
		PerPage:       c.PerPage,
		MaxPages:      c.MaxPages,
		QueuedDisplay: 200,
	}
}

func (c *Config) ToFetchConfig() *model.FetchConfig {
	return &model.FetchConfig{
		Concurrency: c.Concurrency,
		CallTimeout: c.CallTimeout,
		MaxRetries:  c.MaxRetries,
	}
}

func DefineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "owner",
			Usage: "Repository owner (detected from git remote when omitted)",
		},
		&cli.StringFlag{
			Name:  "repo",
			Usage: "Repository name (detected from git remote when omitted)",
		},
		&cli.StringFlag{
			Name:     "out",
			Aliases:  []string{"o"},
			Usage:    "Output file prefix for <prefix>.json/.csv/.html",
			Required: true,
		},
		&cli.IntFlag{
			Name:    "per-page",
			Usage:   "Workflow runs per listing page",
			Value:   100,
			Sources: cli.EnvVars("PER_PAGE"),
		},
		&cli.IntFlag{
			Name:    "max-pages",
			Usage:   "Maximum listing pages to fetch",
			Value:   3,
			Sources: cli.EnvVars("MAX_PAGES"),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "GitHub API base URL (for GitHub Enterprise)",
			Value:   "https://api.github.com",
			Sources: cli.EnvVars("API_BASE"),
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "GitHub API token (unauthenticated when empty)",
			Sources: cli.EnvVars("GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "slack-webhook",
			Usage:   "Slack webhook URL for queued-run notifications",
			Sources: cli.EnvVars("SLACK_WEBHOOK_URL"),
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Maximum concurrent API requests",
			Value: 10,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-request timeout",
			Value: 30 * time.Second,
		},
		&cli.IntFlag{
			Name:  "retries",
			Usage: "Maximum rate-limit retries per request",
			Value: 3,
		},
	}
}
