package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"friendsofmonika/masvalidator/pkg/cli"
	"friendsofmonika/masvalidator/pkg/nickname"
)

var classifyFlags struct {
	stdin    bool
	priority []string
	jobs     int
}

var classifyCmd = &cobra.Command{
	Use:   "classify [NAME...]",
	Short: "Classify nicknames",
	Long: `Classify one or more nicknames against the lists in the upstream script.

Each name gets the first category, in priority order, with a matching
pattern. Patterns are case-insensitive and match anywhere in the name.

Examples:
  # Classify two names
  masvalidator classify Moni "Sweet Pea"

  # Read names from stdin, one per line
  cat names.txt | masvalidator classify --stdin -o json

  # Let good lists win over the awkward list
  masvalidator classify --priority bad,playerGood,monikaGood,awkward Mom`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().BoolVar(&classifyFlags.stdin, "stdin", false, "read names from stdin, one per line")
	classifyCmd.Flags().StringSliceVar(&classifyFlags.priority, "priority", nil, "category order (default from config)")
	classifyCmd.Flags().IntVarP(&classifyFlags.jobs, "jobs", "j", 8, "names classified concurrently")
}

// classification is one classify result.
type classification struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
}

type classifyOutput struct {
	Revision string           `json:"revision"`
	Priority []string         `json:"priority"`
	Results  []classification `json:"results"`
}

func (o classifyOutput) WriteText(w io.Writer, p *cli.Palette) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range o.Results {
		category := p.Faint("none")
		switch nickname.Category(r.Category) {
		case "":
		case nickname.CategoryBad:
			category = p.Fail("%s", r.Category)
		case nickname.CategoryAwkward:
			category = p.Warn("%s", r.Category)
		default:
			category = p.OK("%s", r.Category)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, category, p.Faint("%s", r.Pattern))
	}
	return tw.Flush()
}

func runClassify(cmd *cobra.Command, args []string) error {
	names := args
	if classifyFlags.stdin {
		read, err := readLines(cmd.InOrStdin())
		if err != nil {
			return cli.NewCommandError("classify", err)
		}
		names = append(names, read...)
	}
	if len(names) == 0 {
		return cli.NewConfigError("arguments", "no names given")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	priority := a.nicknames.Priority()
	if len(classifyFlags.priority) > 0 {
		if priority, err = parsePriority(classifyFlags.priority); err != nil {
			return cli.NewConfigError("priority", err.Error())
		}
	}

	rs, err := a.nicknames.Rules(ctx)
	if err != nil {
		return cli.NewCommandError("classify", err)
	}

	out := classifyOutput{
		Revision: rs.Revision,
		Priority: make([]string, len(priority)),
		Results:  make([]classification, len(names)),
	}
	for i, c := range priority {
		out.Priority[i] = string(c)
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(max(classifyFlags.jobs, 1))
	for i, name := range names {
		g.Go(func() error {
			r := classification{Name: name}
			if m := a.nicknames.ClassifyWith(rs, name, priority...); m != nil {
				r.Category = string(m.Category)
				r.Pattern = m.Source()
			}
			out.Results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return a.write(cmd, out)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
