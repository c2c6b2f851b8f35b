package schema

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"friendsofmonika/masvalidator/pkg/source"
)

// dirFetcher serves schema documents from testdata and counts fetches.
type dirFetcher struct {
	mu     sync.Mutex
	dir    string
	calls  map[string]int
	broken map[string]string
}

func newDirFetcher() *dirFetcher {
	return &dirFetcher{dir: "testdata", calls: make(map[string]int), broken: make(map[string]string)}
}

func (f *dirFetcher) FetchText(ctx context.Context, repo source.Repo, path string) (string, error) {
	f.mu.Lock()
	f.calls[path]++
	text, broken := f.broken[path]
	f.mu.Unlock()
	if broken {
		return text, nil
	}

	data, err := os.ReadFile(filepath.Join(f.dir, path))
	if os.IsNotExist(err) {
		return "", &source.NotFoundError{Repo: repo, Path: path}
	}
	return string(data), err
}

func (f *dirFetcher) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

var testRepo = source.Repo{Owner: "Friends-of-Monika", Name: "MAS-Sprite-Schema", Ref: "master"}

func newTestRegistry(f source.Fetcher) *Registry {
	return NewRegistry(RegistryConfig{Repo: testRepo}, f, nil, nil)
}

func newTestValidator(f source.Fetcher) (*Validator, *Registry) {
	r := newTestRegistry(f)
	return NewValidator(r, nil, nil), r
}
