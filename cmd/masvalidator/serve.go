package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"friendsofmonika/masvalidator/pkg/cli"
	"friendsofmonika/masvalidator/pkg/schedule"
	"friendsofmonika/masvalidator/pkg/server"
	"friendsofmonika/masvalidator/pkg/source"
	"friendsofmonika/masvalidator/pkg/telemetry/health"
)

const readinessTimeout = 2 * time.Second

var serveFlags struct {
	listenAddress string
	warm          bool
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve nickname classification and document validation over HTTP.

While serving, the nickname script is re-fetched on the configured schedule
(nicknames.refresh_schedule) and expired cache entries are purged
(cache.cleanup_schedule). With sources.mode "file" and sources.file.watch
enabled, edits to the mirrored script are picked up immediately.

Examples:
  # Serve with defaults on 127.0.0.1:8080
  masvalidator serve

  # Compile every schema and load the nickname rules before listening
  masvalidator serve --warm --listen 0.0.0.0:8080

  # Check configuration only
  masvalidator serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.warm, "warm", false, "load rules and compile schemas before listening")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "configuration valid")
		return nil
	}

	ctx, cancel := cli.SetupSignalHandler(cmd.Context())
	defer cancel()

	a, err := newAppFromConfig(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if serveFlags.warm {
		if _, err := a.nicknames.Reload(ctx); err != nil {
			a.logger.Warn("nickname rules not loaded", "error", err)
		}
		if err := a.registry.Warm(ctx); err != nil {
			return cli.NewCommandError("serve", fmt.Errorf("warm schemas: %w", err))
		}
	}

	scheduler := schedule.New(a.logger)
	if err := a.addJobs(ctx, scheduler); err != nil {
		return cli.NewConfigError("schedule", err.Error())
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if cfg.Sources.Mode == source.ModeFile && cfg.Sources.File.Watch {
		stop, err := a.watchScript(ctx)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer stop()
	}

	srv := server.NewServer(&cfg.Server, server.Dependencies{
		Nicknames:   a.nicknames,
		Documents:   a.validator,
		Health:      a.readiness(),
		Metrics:     a.metrics.Handler(),
		MetricsPath: cfg.Telemetry.Metrics.Path,
	}, a.logger)

	return srv.Start(ctx)
}

// readiness checks the cache store and that a fetched nickname script,
// rather than the built-in fallback, is in use.
func (a *app) readiness() *health.Checker {
	c := health.New(readinessTimeout)
	c.Register("cache", func(ctx context.Context) error {
		_, err := a.store.Stats(ctx)
		return err
	})
	c.Register("nicknames", func(ctx context.Context) error {
		rs, err := a.nicknames.Rules(ctx)
		if err != nil {
			return err
		}
		if rs.Revision == "" {
			return errors.New("using built-in rules only")
		}
		return nil
	})
	return c
}

// addJobs schedules the nickname refresh and cache cleanup.
func (a *app) addJobs(ctx context.Context, s *schedule.Scheduler) error {
	err := s.Add(ctx, "nickname-refresh", a.cfg.Nicknames.RefreshSchedule, func(ctx context.Context) (int, error) {
		if err := a.invalidateScript(ctx); err != nil {
			return 0, err
		}
		changed, err := a.nicknames.Reload(ctx)
		if changed {
			return 1, err
		}
		return 0, err
	})
	if err != nil {
		return err
	}

	return s.Add(ctx, "cache-cleanup", a.cfg.Cache.CleanupSchedule, a.store.Cleanup)
}

// watchScript reloads nickname rules when the mirrored script changes.
func (a *app) watchScript(ctx context.Context) (func(), error) {
	repo, path := a.nicknames.Source()
	file, err := source.NewFileFetcher(a.cfg.Sources.File.Root).Path(repo, path)
	if err != nil {
		return nil, err
	}

	w, err := source.NewWatcher(file, a.cfg.Sources.File.DebounceInterval, a.logger)
	if err != nil {
		return nil, err
	}

	go func() {
		err := w.Watch(ctx, func(ctx context.Context) error {
			_, err := a.nicknames.Reload(ctx)
			return err
		})
		if err != nil && ctx.Err() == nil {
			a.logger.Error("script watcher stopped", "error", err)
		}
	}()

	return func() { _ = w.Stop() }, nil
}
