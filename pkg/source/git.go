package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"friendsofmonika/masvalidator/pkg/config"
)

// GitFetcher reads files out of local bare clones of the source
// repositories. Each repository is cloned on first use into
// "<clone_dir>/<owner>/<name>" and fetched again at most once per fetch
// interval. When a fetch fails but a clone exists, the stale clone is
// used.
type GitFetcher struct {
	cfg    *config.GitSourceConfig
	auth   AuthProvider
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	repos map[string]*clone
}

// clone is one local repository and the time it was last synced.
type clone struct {
	mu        sync.Mutex
	repo      *gogit.Repository
	lastFetch time.Time
}

// NewGitFetcher creates a git fetcher. Nothing is cloned until the first
// FetchText call.
func NewGitFetcher(cfg *config.GitSourceConfig, logger *slog.Logger) (*GitFetcher, error) {
	if cfg.CloneDir == "" {
		return nil, fmt.Errorf("clone directory cannot be empty")
	}
	auth, err := NewAuthProvider(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth provider: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GitFetcher{
		cfg:    cfg,
		auth:   auth,
		logger: logger.With("component", "source.git", "auth", auth.Type()),
		now:    time.Now,
		repos:  make(map[string]*clone),
	}, nil
}

// RemoteURL returns the clone URL of repo.
func (g *GitFetcher) RemoteURL(repo Repo) string {
	return strings.TrimRight(g.cfg.BaseURL, "/") + "/" + repo.Owner + "/" + repo.Name
}

// LocalPath returns where repo is cloned.
func (g *GitFetcher) LocalPath(repo Repo) string {
	return filepath.Join(g.cfg.CloneDir, repo.Owner, repo.Name)
}

// FetchText implements Fetcher.
func (g *GitFetcher) FetchText(ctx context.Context, repo Repo, path string) (string, error) {
	c := g.cloneFor(repo)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := g.sync(ctx, c, repo); err != nil {
		return "", err
	}

	hash, err := resolveRef(c.repo, repo.Ref)
	if err != nil {
		return "", fmt.Errorf("%s: %w", repo, err)
	}

	commit, err := c.repo.CommitObject(*hash)
	if err != nil {
		return "", fmt.Errorf("%s: failed to get commit %s: %w", repo, hash, err)
	}

	file, err := commit.File(strings.TrimPrefix(path, "/"))
	if errors.Is(err, object.ErrFileNotFound) {
		return "", &NotFoundError{Repo: repo, Path: path}
	}
	if err != nil {
		return "", fmt.Errorf("%s: failed to read %s: %w", repo, path, err)
	}

	text, err := file.Contents()
	if err != nil {
		return "", fmt.Errorf("%s: failed to read %s: %w", repo, path, err)
	}
	return text, nil
}

func (g *GitFetcher) cloneFor(repo Repo) *clone {
	key := repo.Owner + "/" + repo.Name

	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.repos[key]
	if !ok {
		c = &clone{}
		g.repos[key] = c
	}
	return c
}

// sync opens or clones the repository, then fetches when the last fetch
// is older than the fetch interval. Callers hold c.mu.
func (g *GitFetcher) sync(ctx context.Context, c *clone, repo Repo) error {
	auth, err := g.auth.GetAuth()
	if err != nil {
		return fmt.Errorf("failed to get auth: %w", err)
	}

	opCtx := ctx
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	if c.repo == nil {
		local := g.LocalPath(repo)
		if r, err := gogit.PlainOpen(local); err == nil {
			c.repo = r
		} else {
			if err := os.MkdirAll(local, 0o755); err != nil {
				return fmt.Errorf("failed to create clone directory: %w", err)
			}

			start := g.now()
			r, err := gogit.PlainCloneContext(opCtx, local, true, &gogit.CloneOptions{
				URL:   g.RemoteURL(repo),
				Auth:  auth,
				Depth: g.cfg.Depth,
				Tags:  gogit.AllTags,
			})
			if err != nil {
				_ = os.RemoveAll(local)
				return fmt.Errorf("failed to clone %s: %w", g.RemoteURL(repo), err)
			}
			c.repo = r
			c.lastFetch = g.now()
			g.logger.Info("repository cloned",
				"repository", repo.String(),
				"path", local,
				"duration", g.now().Sub(start),
			)
			return nil
		}
	}

	if !c.lastFetch.IsZero() && g.now().Sub(c.lastFetch) < g.cfg.FetchInterval {
		return nil
	}

	err = c.repo.FetchContext(opCtx, &gogit.FetchOptions{
		RemoteName: "origin",
		Auth:       auth,
		Depth:      g.cfg.Depth,
		Tags:       gogit.AllTags,
		Force:      true,
	})
	switch {
	case err == nil || errors.Is(err, gogit.NoErrAlreadyUpToDate):
		c.lastFetch = g.now()
	default:
		g.logger.Warn("fetch failed, using local clone",
			"repository", repo.String(),
			"error", err,
		)
	}
	return nil
}

// resolveRef turns a branch, tag or commit into a commit hash. Remote
// tracking branches win over local names.
func resolveRef(repo *gogit.Repository, ref string) (*plumbing.Hash, error) {
	candidates := []string{
		"refs/remotes/origin/" + ref,
		"refs/tags/" + ref,
		ref,
	}
	var lastErr error
	for _, c := range candidates {
		hash, err := repo.ResolveRevision(plumbing.Revision(c))
		if err == nil {
			return hash, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("cannot resolve ref %q: %w", ref, lastErr)
}
