package model

import "time"

type ReportConfig struct {
	Repo          Repository
	OutputPrefix  string
	PerPage       int
	MaxPages      int
	QueuedDisplay int // max queued rows shown in the HTML artifact
}

// FetchConfig bounds the shared request path against the provider.
type FetchConfig struct {
	Concurrency int
	CallTimeout time.Duration
	MaxRetries  int
}
