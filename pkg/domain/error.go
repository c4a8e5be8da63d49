package domain

import "github.com/m-mizutani/goerr/v2"

var (
	ErrAPIRequest    = goerr.New("API request failed", goerr.ID("api_request_failed"))
	ErrRateLimited   = goerr.New("rate limit retries exhausted", goerr.ID("rate_limited"))
	ErrConfiguration = goerr.New("configuration error", goerr.ID("configuration_error"))
	ErrRepository    = goerr.New("repository error", goerr.ID("repository_error"))
	ErrArtifactWrite = goerr.New("failed to write report artifact", goerr.ID("artifact_write_failed"))
)
