package cli

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v74/github"
	"github.com/m-mizutani/actq/pkg/domain"
	"github.com/m-mizutani/actq/pkg/domain/interfaces"
	"github.com/m-mizutani/actq/pkg/domain/model"
	"github.com/m-mizutani/actq/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

func RunReport(ctx context.Context, cmd *cli.Command) error {
	logLevel := slog.LevelWarn
	if cmd.Bool("debug") {
		logLevel = slog.LevelDebug
	} else if cmd.Bool("verbose") {
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	ctx = ctxlog.With(ctx, logger)

	config := &Config{
		Owner:           cmd.String("owner"),
		Repo:            cmd.String("repo"),
		OutputPrefix:    cmd.String("out"),
		PerPage:         int(cmd.Int("per-page")),
		MaxPages:        int(cmd.Int("max-pages")),
		BaseURL:         cmd.String("base-url"),
		Token:           cmd.String("token"),
		SlackWebhookURL: cmd.String("slack-webhook"),
		Concurrency:     int(cmd.Int("concurrency")),
		CallTimeout:     cmd.Duration("timeout"),
		MaxRetries:      int(cmd.Int("retries")),
	}

	if config.PerPage < 1 || config.MaxPages < 1 {
		return domain.ErrConfiguration.Wrap(goerr.New("per-page and max-pages must be positive"))
	}

	client, err := buildClient(ctx, config.BaseURL, config.Token)
	if err != nil {
		return err
	}

	fetchConfig := config.ToFetchConfig()
	gate := usecase.NewRequestGate(fetchConfig.Concurrency)
	githubService := usecase.NewGitHubService(usecase.GitHubServiceOptions{
		Client:      client,
		Gate:        gate,
		CallTimeout: fetchConfig.CallTimeout,
		MaxRetries:  fetchConfig.MaxRetries,
	})

	repo, err := resolveRepository(ctx, config, githubService)
	if err != nil {
		return err
	}

	var notifier interfaces.Notifier
	if config.SlackWebhookURL != "" {
		notifier = usecase.NewSlackNotifier(config.SlackWebhookURL)
	} else {
		notifier = usecase.NewNoOpNotifier()
	}

	reportConfig := config.ToReportConfig(*repo)
	report := usecase.NewReportUseCase(usecase.ReportUseCaseOptions{
		GitHub:   githubService,
		Enricher: usecase.NewJobEnricher(githubService, fetchConfig.Concurrency),
		Renderers: []interfaces.ArtifactRenderer{
			usecase.NewJSONRenderer(reportConfig.OutputPrefix),
			usecase.NewCSVRenderer(reportConfig.OutputPrefix),
			usecase.NewHTMLRenderer(reportConfig.OutputPrefix, reportConfig.QueuedDisplay),
		},
		Notifier: notifier,
		Config:   reportConfig,
	})

	result, err := report.Execute(ctx)
	if err != nil {
		return err
	}

	ShowReport(result)
	return nil
}

// resolveRepository uses the --owner/--repo flags when both are given, and
// falls back to the origin remote of the current directory otherwise.
func resolveRepository(ctx context.Context, config *Config, githubService interfaces.GitHubService) (*model.Repository, error) {
	if config.Owner != "" && config.Repo != "" {
		return &model.Repository{
			Owner: config.Owner,
			Name:  config.Repo,
		}, nil
	}
	if config.Owner != "" || config.Repo != "" {
		return nil, domain.ErrConfiguration.Wrap(goerr.New("--owner and --repo must be given together"))
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return nil, domain.ErrConfiguration.Wrap(err)
	}

	repo, err := githubService.GetRepositoryInfo(ctx, currentDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to detect repository; pass --owner and --repo or run inside a GitHub clone")
	}
	return repo, nil
}

func buildClient(ctx context.Context, baseURL, token string) (*github.Client, error) {
	httpClient := http.DefaultClient
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(httpClient)
	if baseURL != "" {
		endpoint, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, domain.ErrConfiguration.Wrap(err, goerr.V("base_url", baseURL))
		}
		client.BaseURL = endpoint
	}
	return client, nil
}
