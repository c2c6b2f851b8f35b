package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"friendsofmonika/masvalidator/pkg/cli"
	"friendsofmonika/masvalidator/pkg/nickname"
)

var listsFlags struct {
	reload bool
}

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show the nickname lists extracted from the upstream script",
	Long: `Show the nickname lists extracted from the upstream script, with the
revision they were built from and any entries that could not be compiled.

Examples:
  masvalidator lists
  masvalidator lists --reload -o json`,
	Args: cobra.NoArgs,
	RunE: runLists,
}

func init() {
	rootCmd.AddCommand(listsCmd)

	listsCmd.Flags().BoolVar(&listsFlags.reload, "reload", false, "bypass the cache and fetch the script again")
}

type skippedEntry struct {
	List    string `json:"list"`
	Pattern string `json:"pattern"`
	Error   string `json:"error"`
}

type listsOutput struct {
	Revision string         `json:"revision"`
	Lists    nickname.Lists `json:"lists"`
	Skipped  []skippedEntry `json:"skipped,omitempty"`
}

func (o listsOutput) WriteText(w io.Writer, p *cli.Palette) error {
	fmt.Fprintf(w, "%s %s\n", p.Bold("revision"), o.Revision)

	sections := []struct {
		name    string
		entries []string
	}{
		{nickname.ListBad, o.Lists.Bad},
		{nickname.ListAwkward, o.Lists.Awkward},
		{nickname.ListGoodBase, o.Lists.GoodBase},
		{nickname.ListGoodPlayer, o.Lists.GoodPlayer},
		{nickname.ListGoodMonika, o.Lists.GoodMonika},
	}
	for _, s := range sections {
		fmt.Fprintf(w, "\n%s %s\n", p.Bold("%s", s.name), p.Faint("(%s)", plural(len(s.entries), "entry")))
		for _, e := range s.entries {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	if len(o.Skipped) > 0 {
		fmt.Fprintf(w, "\n%s\n", p.Warn("skipped %s:", plural(len(o.Skipped), "pattern")))
		for _, s := range o.Skipped {
			fmt.Fprintf(w, "  %s %q: %s\n", s.List, s.Pattern, s.Error)
		}
	}
	return nil
}

func runLists(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if listsFlags.reload {
		if err := a.invalidateScript(ctx); err != nil {
			a.logger.Warn("could not invalidate cached script", "error", err)
		}
	}

	rs, err := a.nicknames.Rules(ctx)
	if err != nil {
		return cli.NewCommandError("lists", err)
	}

	out := listsOutput{Revision: rs.Revision, Lists: rs.Lists}
	for _, pe := range rs.Skipped {
		out.Skipped = append(out.Skipped, skippedEntry{List: pe.List, Pattern: pe.Pattern, Error: pe.Err.Error()})
	}
	return a.write(cmd, out)
}
