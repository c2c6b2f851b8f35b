package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"friendsofmonika/masvalidator/pkg/cli"
	"friendsofmonika/masvalidator/pkg/config"
	"friendsofmonika/masvalidator/pkg/kvcache"
	"friendsofmonika/masvalidator/pkg/nickname"
	"friendsofmonika/masvalidator/pkg/schema"
	"friendsofmonika/masvalidator/pkg/source"
	"friendsofmonika/masvalidator/pkg/telemetry/logging"
	"friendsofmonika/masvalidator/pkg/telemetry/metrics"
	"friendsofmonika/masvalidator/pkg/tokenize"
)

// app holds the components a command works with. Commands build it with
// newApp and must call close.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
	store   kvcache.Store

	// fetcher is what the services read through: cached, except in file
	// mode where the mirror is read directly so edits are seen at once.
	fetcher  source.Fetcher
	cached   *source.CachedFetcher
	uncached bool

	nicknames *nickname.Service
	registry  *schema.Registry
	validator *schema.Validator

	formatter cli.Formatter
	palette   *cli.Palette
}

// loadConfig reads the configuration and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    w,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.SetDefault()
	return logger.Slog(), nil
}

// newOutput resolves the --output and --color flags for cmd.
func newOutput(cmd *cobra.Command) (cli.Formatter, *cli.Palette, error) {
	format, err := cli.ParseFormat(output)
	if err != nil {
		return nil, nil, err
	}
	palette, err := cli.NewPalette(cmd.OutOrStdout(), colorMode)
	if err != nil {
		return nil, nil, err
	}
	return cli.NewFormatter(format, palette), palette, nil
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newAppFromConfig(ctx, cmd, cfg)
}

func newAppFromConfig(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (*app, error) {
	formatter, palette, err := newOutput(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, registry)

	store, err := kvcache.New(ctx, &cfg.Cache)
	if err != nil {
		return nil, cli.NewCommandError("open cache", err)
	}

	raw, err := source.NewFetcher(&cfg.Sources, collector, logger)
	if err != nil {
		_ = store.Close()
		return nil, cli.NewCommandError("create fetcher", err)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   collector,
		store:     store,
		formatter: formatter,
		palette:   palette,
	}

	a.cached = source.NewCachedFetcher(raw, store, cfg.Cache.TTL, collector, logger)
	a.fetcher = a.cached
	if cfg.Sources.Mode == source.ModeFile {
		a.fetcher = raw
		a.uncached = true
	}

	priority, err := parsePriority(cfg.Nicknames.Priority)
	if err != nil {
		_ = store.Close()
		return nil, cli.NewConfigError("nicknames.priority", err.Error())
	}

	a.nicknames = nickname.NewService(nickname.ServiceConfig{
		Repo:     source.RepoFromConfig(cfg.Sources.Nicknames),
		Path:     cfg.Sources.Nicknames.Path,
		Priority: priority,
	}, a.fetcher, tokenize.NewWorker(logger), collector, logger)

	a.registry = schema.NewRegistry(schema.RegistryConfig{
		Repo:  source.RepoFromConfig(cfg.Sources.Schemas),
		Files: schema.FilesFromConfig(cfg.Schema.Files),
	}, a.fetcher, collector, logger)
	a.validator = schema.NewValidator(a.registry, collector, logger)

	logger.Debug("initialized",
		"source_mode", cfg.Sources.Mode,
		"cache_backend", cfg.Cache.Backend,
		"cache_ttl", cfg.Cache.TTL,
	)
	return a, nil
}

// invalidateScript drops the cached nickname script so the next load
// fetches it again.
func (a *app) invalidateScript(ctx context.Context) error {
	if a.uncached {
		return nil
	}
	repo, path := a.nicknames.Source()
	return a.cached.Invalidate(ctx, repo, path)
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing cache", "error", err)
	}
}

// write renders a command result with the selected formatter.
func (a *app) write(cmd *cobra.Command, v any) error {
	return a.formatter.FormatTo(cmd.OutOrStdout(), v)
}

func parsePriority(names []string) ([]nickname.Category, error) {
	out := make([]nickname.Category, 0, len(names))
	for _, n := range names {
		c, err := nickname.ParseCategory(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func plural(n int, word string) string {
	switch {
	case n == 1:
		return fmt.Sprintf("%d %s", n, word)
	case strings.HasSuffix(word, "y"):
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(word, "y"))
	default:
		return fmt.Sprintf("%d %ss", n, word)
	}
}
