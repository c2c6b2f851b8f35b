package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileFetcher reads files from a local mirror laid out as
// "<root>/<owner>/<name>/<path>". The ref is ignored: a mirror holds one
// checkout.
type FileFetcher struct {
	root string
}

// NewFileFetcher creates a fetcher rooted at root.
func NewFileFetcher(root string) *FileFetcher {
	return &FileFetcher{root: root}
}

// Path returns the local file backing path in repo.
func (f *FileFetcher) Path(repo Repo, path string) (string, error) {
	rel := filepath.Join(repo.Owner, repo.Name, filepath.FromSlash(path))
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("path %q escapes the mirror root", path)
	}
	return filepath.Join(f.root, rel), nil
}

// FetchText implements Fetcher.
func (f *FileFetcher) FetchText(ctx context.Context, repo Repo, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	local, err := f.Path(repo, path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(local)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &NotFoundError{Repo: repo, Path: path}
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", local, err)
	}
	return string(data), nil
}
