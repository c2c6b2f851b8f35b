package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"friendsofmonika/masvalidator/pkg/cli"
	"friendsofmonika/masvalidator/pkg/position"
	"friendsofmonika/masvalidator/pkg/schema"
)

var validateFlags struct {
	jobs     int
	progress bool
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Validate sprite JSON documents",
	Long: `Validate sprite JSON documents against the sprite schemas.

The document's "type" selects the schema: 0 accessory (split when it has
"arm_split"), 1 hair, 2 clothes. Syntax errors are reported with their line
and column; schema violations are listed as the validator reports them.
Use "-" to read a document from stdin.

The exit status is 1 when any document is invalid.

Examples:
  # Validate every clothes document
  masvalidator validate sprites/clothes/*.json

  # Machine-readable results
  masvalidator validate -o json ponytail.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().IntVarP(&validateFlags.jobs, "jobs", "j", 4, "documents validated concurrently")
	validateCmd.Flags().BoolVar(&validateFlags.progress, "progress", false, "show progress on stderr")
}

type validateOutput struct {
	Valid   int             `json:"valid"`
	Invalid int             `json:"invalid"`
	Reports []schema.Report `json:"reports"`
	sources map[string][]byte
}

func (o validateOutput) WriteText(w io.Writer, p *cli.Palette) error {
	for _, r := range o.Reports {
		if r.Valid {
			fmt.Fprintf(w, "%s %s %s\n", p.OK("ok"), r.Document, p.Faint("(%s)", r.Variant))
			continue
		}

		fmt.Fprintf(w, "%s %s: %s\n", p.Fail("FAIL"), r.Document, r.Message)
		switch {
		case r.Position != nil:
			fmt.Fprintf(w, "    at %s\n", r.Position)
			writeExcerpt(w, p, o.sources[r.Document], *r.Position)
		case len(r.Violations) > 0:
			for _, v := range r.Violations {
				if v.KeywordLocation == "" {
					continue
				}
				at := v.InstanceLocation
				if at == "" {
					at = "/"
				}
				where := ""
				if v.Position != nil {
					where = p.Faint(" (%s)", v.Position)
				}
				fmt.Fprintf(w, "    %s%s: %s %s\n", p.Bold("%s", at), where, v.Error, p.Faint("[%s]", v.KeywordLocation))
			}
		}
	}

	summary := fmt.Sprintf("%d valid, %d invalid", o.Valid, o.Invalid)
	if o.Invalid > 0 {
		summary = p.Fail("%s", summary)
	} else {
		summary = p.OK("%s", summary)
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}

// writeExcerpt prints the offending line with a caret under the column.
func writeExcerpt(w io.Writer, p *cli.Palette, raw []byte, pos position.Position) {
	if raw == nil {
		return
	}
	line := position.NewIndex(string(raw)).Line(pos.Line)
	line = strings.ReplaceAll(line, "\t", " ")
	fmt.Fprintf(w, "    %s\n", line)
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", pos.Column), p.Fail("^"))
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	out := validateOutput{
		Reports: make([]schema.Report, len(args)),
		sources: make(map[string][]byte, len(args)),
	}
	raws := make([][]byte, len(args))

	var progress cli.ProgressReporter = cli.NopProgress{}
	if validateFlags.progress && len(args) > 1 {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr(), "validated")
	}
	progress.Start(len(args))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(validateFlags.jobs, 1))
	for i, name := range args {
		g.Go(func() error {
			defer progress.Increment()

			raw, err := readDocument(cmd, name)
			if err != nil {
				return cli.NewCommandError("validate", err)
			}
			raws[i] = raw

			variant, err := a.validator.Validate(gctx, raw)
			report := schema.NewReport(raw, variant, err)
			report.Document = name
			out.Reports[i] = report
			return nil
		})
	}
	err = g.Wait()
	progress.Finish()
	if err != nil {
		return err
	}

	for i, r := range out.Reports {
		out.sources[r.Document] = raws[i]
		if r.Valid {
			out.Valid++
		} else {
			out.Invalid++
		}
	}

	if err := a.write(cmd, out); err != nil {
		return err
	}
	if out.Invalid > 0 {
		return &cli.ExitError{Code: 1, Reason: plural(out.Invalid, "invalid document")}
	}
	return nil
}

func readDocument(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(filepath.Clean(name))
}
