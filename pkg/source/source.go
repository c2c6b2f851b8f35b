package source

import (
	"context"
	"fmt"
	"log/slog"

	"friendsofmonika/masvalidator/pkg/config"
	"friendsofmonika/masvalidator/pkg/telemetry/metrics"
)

// Repo identifies a repository at a fixed ref on the content host.
type Repo struct {
	Owner string
	Name  string
	Ref   string
}

// String returns "owner/name@ref".
func (r Repo) String() string {
	return fmt.Sprintf("%s/%s@%s", r.Owner, r.Name, r.Ref)
}

// RepoFromConfig converts a configured repository.
func RepoFromConfig(cfg config.RepoConfig) Repo {
	return Repo{Owner: cfg.Owner, Name: cfg.Name, Ref: cfg.Ref}
}

// Fetcher reads the raw text of a file in a repository. Failures are
// returned to the caller; NotFoundError marks a missing file.
type Fetcher interface {
	FetchText(ctx context.Context, repo Repo, path string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, repo Repo, path string) (string, error)

// FetchText implements Fetcher.
func (f FetcherFunc) FetchText(ctx context.Context, repo Repo, path string) (string, error) {
	return f(ctx, repo, path)
}

// Source names used in logs and metrics.
const (
	ModeHTTP = "http"
	ModeGit  = "git"
	ModeFile = "file"
)

// NewFetcher builds the fetcher selected by cfg.Mode, instrumented with
// fetch metrics. It is not cached; wrap it with NewCachedFetcher.
func NewFetcher(cfg *config.SourcesConfig, collector *metrics.Collector, logger *slog.Logger) (Fetcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var inner Fetcher
	switch cfg.Mode {
	case ModeHTTP:
		inner = NewHTTPFetcher(&cfg.HTTP, logger)
	case ModeGit:
		g, err := NewGitFetcher(&cfg.Git, logger)
		if err != nil {
			return nil, err
		}
		inner = g
	case ModeFile:
		inner = NewFileFetcher(cfg.File.Root)
	default:
		return nil, fmt.Errorf("unknown source mode %q", cfg.Mode)
	}

	return instrumented(cfg.Mode, inner, collector), nil
}

func instrumented(mode string, inner Fetcher, collector *metrics.Collector) Fetcher {
	return FetcherFunc(func(ctx context.Context, repo Repo, path string) (string, error) {
		text, err := inner.FetchText(ctx, repo, path)
		collector.RecordFetch(mode, err)
		return text, err
	})
}
