package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"friendsofmonika/masvalidator/pkg/cli"
	"friendsofmonika/masvalidator/pkg/kvcache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the definition cache",
	Long: `Inspect and maintain the cache of fetched nickname scripts and schema
documents.

Examples:
  masvalidator cache stats
  masvalidator cache cleanup
  masvalidator cache clear`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, "cache stats", func(a *app) (any, error) {
			stats, err := a.store.Stats(cmd.Context())
			return statsOutput(stats), err
		})
	},
}

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove expired entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, "cache cleanup", func(a *app) (any, error) {
			n, err := a.store.Cleanup(cmd.Context())
			return removedOutput{Action: "expired", Removed: n}, err
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, "cache clear", func(a *app) (any, error) {
			n, err := a.store.Clear(cmd.Context())
			return removedOutput{Action: "cleared", Removed: n}, err
		})
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheCleanupCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func withCache(cmd *cobra.Command, name string, fn func(a *app) (any, error)) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.close()

	out, err := fn(a)
	if err != nil {
		return cli.NewCommandError(name, err)
	}
	return a.write(cmd, out)
}

type statsOutput kvcache.Stats

func (s statsOutput) WriteText(w io.Writer, p *cli.Palette) error {
	fmt.Fprintf(w, "%s %s\n", p.Bold("backend:"), s.Backend)
	fmt.Fprintf(w, "%s %d\n", p.Bold("entries:"), s.Entries)
	fmt.Fprintf(w, "%s %d\n", p.Bold("expired:"), s.Expired)
	_, err := fmt.Fprintf(w, "%s %d\n", p.Bold("bytes:  "), s.Bytes)
	return err
}

type removedOutput struct {
	Action  string `json:"action"`
	Removed int    `json:"removed"`
}

func (r removedOutput) WriteText(w io.Writer, p *cli.Palette) error {
	_, err := fmt.Fprintf(w, "%s %s\n", r.Action, p.Bold("%s", plural(r.Removed, "entry")))
	return err
}
