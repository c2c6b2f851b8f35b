package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"friendsofmonika/masvalidator/pkg/cli"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	colorMode string
	output    string
)

var rootCmd = &cobra.Command{
	Use:   "masvalidator",
	Short: "Validate nicknames and sprite documents for Monika After Story",
	Long: `masvalidator checks user content against definitions published upstream:

  - Nicknames are classified as bad, awkward, playerGood or monikaGood using
    the lists in the mod's script-story-events.rpy.
  - Sprite JSON documents are validated against the schemas in
    MAS-Sprite-Schema, with syntax errors reported by line and column.

Definitions are fetched over HTTP, from a git clone or from a local mirror,
and cached between runs.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var exit *cli.ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}

	prefix := "error:"
	if colorMode != cli.ColorNever && cli.IsTerminal(os.Stderr) {
		prefix = color.New(color.FgRed, color.Bold).Sprint(prefix)
	}
	fmt.Fprintln(rootCmd.ErrOrStderr(), prefix, err)
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "masvalidator.yaml", "config file path (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", cli.ColorAuto, "colorize output: auto, always or never")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", string(cli.FormatText), "output format: text or json")
}
