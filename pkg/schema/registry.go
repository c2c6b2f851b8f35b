package schema

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"friendsofmonika/masvalidator/pkg/source"
	"friendsofmonika/masvalidator/pkg/telemetry/metrics"
)

// Registry hands out compiled schemas, one per variant, for the lifetime
// of the process.
//
// A miss fetches the schema text (through whatever caching the fetcher
// does) and compiles it outside the lock. Concurrent misses for the same
// variant may both compile; the last one stored wins. Entries are never
// evicted.
type Registry struct {
	fetcher  source.Fetcher
	repo     source.Repo
	files    Files
	compiler Compiler
	metrics  *metrics.Collector
	logger   *slog.Logger

	mu       sync.Mutex
	checkers map[Variant]Checker
	compiles atomic.Int64
}

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Repo holds the schema documents.
	Repo source.Repo

	// Files maps variants to document names. Nil means DefaultFiles.
	Files Files

	// Compiler defaults to JSONSchemaCompiler.
	Compiler Compiler
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig, fetcher source.Fetcher, collector *metrics.Collector, logger *slog.Logger) *Registry {
	if cfg.Files == nil {
		cfg.Files = DefaultFiles()
	}
	if cfg.Compiler == nil {
		cfg.Compiler = JSONSchemaCompiler{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		fetcher:  fetcher,
		repo:     cfg.Repo,
		files:    cfg.Files,
		compiler: cfg.Compiler,
		metrics:  collector,
		logger:   logger.With("component", "schema.registry"),
		checkers: make(map[Variant]Checker),
	}
}

// Get returns the compiled schema for variant, compiling it on first use.
func (r *Registry) Get(ctx context.Context, variant Variant) (Checker, error) {
	r.mu.Lock()
	c, ok := r.checkers[variant]
	r.mu.Unlock()
	if ok {
		return c, nil
	}

	name, ok := r.files[variant]
	if !ok || name == "" {
		return nil, fmt.Errorf("no schema document configured for variant %q", variant)
	}

	text, err := r.fetcher.FetchText(ctx, r.repo, name)
	if err != nil {
		return nil, fmt.Errorf("fetch schema %s: %w", name, err)
	}

	load := func(ctx context.Context, ref string) (string, error) {
		return r.fetcher.FetchText(ctx, r.repo, ref)
	}

	r.compiles.Add(1)
	c, err = r.compiler.Compile(ctx, name, text, load)
	r.metrics.RecordSchemaCompile(string(variant), err)
	if err != nil {
		cerr := &CompileError{Variant: variant, Name: name, Err: err}
		r.logger.Error("schema failed to compile; schema documents are expected to be valid",
			"variant", variant,
			"schema", name,
			"repository", r.repo.String(),
			"error", err,
		)
		return nil, cerr
	}

	r.mu.Lock()
	r.checkers[variant] = c
	r.mu.Unlock()

	r.logger.Info("schema compiled", "variant", variant, "schema", name)
	return c, nil
}

// Warm compiles every variant's schema. It stops at the first failure.
func (r *Registry) Warm(ctx context.Context) error {
	for _, v := range Variants {
		if _, err := r.Get(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// RegistryStats describes the registry's state.
type RegistryStats struct {
	Cached   int   `json:"cached"`
	Compiles int64 `json:"compiles"`
}

// Stats returns the number of cached schemas and compile attempts so far.
func (r *Registry) Stats() RegistryStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return RegistryStats{Cached: len(r.checkers), Compiles: r.compiles.Load()}
}
