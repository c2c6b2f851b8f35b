package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"friendsofmonika/masvalidator/pkg/config"
)

// maxTextBytes bounds the size of a fetched definition file.
const maxTextBytes = 16 << 20

// HTTPFetcher reads files from a raw content host laid out as
// "<base>/<owner>/<name>/<ref>/<path>", such as raw.githubusercontent.com.
//
// Network errors and 5xx responses are retried with Fibonacci backoff;
// 404 becomes a NotFoundError and is not retried.
type HTTPFetcher struct {
	baseURL    string
	token      string
	maxRetries uint64
	backoff    time.Duration
	client     *http.Client
	logger     *slog.Logger
}

// NewHTTPFetcher creates a fetcher for the configured content host.
func NewHTTPFetcher(cfg *config.HTTPSourceConfig, logger *slog.Logger) *HTTPFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &HTTPFetcher{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		maxRetries: uint64(retries),
		backoff:    500 * time.Millisecond,
		client:     &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "source.http"),
	}
}

// URL returns the address of path in repo.
func (f *HTTPFetcher) URL(repo Repo, path string) string {
	segments := []string{f.baseURL, url.PathEscape(repo.Owner), url.PathEscape(repo.Name), url.PathEscape(repo.Ref)}
	for _, s := range strings.Split(strings.Trim(path, "/"), "/") {
		segments = append(segments, url.PathEscape(s))
	}
	return strings.Join(segments, "/")
}

// FetchText implements Fetcher.
func (f *HTTPFetcher) FetchText(ctx context.Context, repo Repo, path string) (string, error) {
	target := f.URL(repo, path)

	var text string
	attempt := 0
	b := retry.WithMaxRetries(f.maxRetries, retry.NewFibonacci(f.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		body, err := f.get(ctx, target)
		if err != nil {
			if retryable(err) {
				f.logger.Warn("fetch attempt failed", "url", target, "attempt", attempt, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		text = body
		return nil
	})
	if err != nil {
		var sErr *StatusError
		if errors.As(err, &sErr) && sErr.StatusCode == http.StatusNotFound {
			return "", &NotFoundError{Repo: repo, Path: path}
		}
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}

	f.logger.Debug("fetched", "url", target, "bytes", len(text), "attempts", attempt)
	return text, nil
}

func (f *HTTPFetcher) get(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	if f.token != "" {
		req.Header.Set("Authorization", "token "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &StatusError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTextBytes+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxTextBytes {
		return "", fmt.Errorf("response exceeds %d bytes", maxTextBytes)
	}
	return string(body), nil
}

// retryable reports whether a failed GET is worth repeating.
func retryable(err error) bool {
	var sErr *StatusError
	if errors.As(err, &sErr) {
		return sErr.StatusCode >= 500 || sErr.StatusCode == http.StatusTooManyRequests
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Transport failures.
	return true
}
