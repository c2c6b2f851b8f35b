/*
Package cli holds the terminal helpers shared by the masvalidator commands.

Output Formatting:

Command results are written as text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON, palette)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Results that know how to print themselves implement Texter; the text
formatter hands them a Palette, which colours output only when writing to a
terminal (or when forced with --color=always).

Progress Reporting:

Batch commands report how many inputs have been processed:

	progress := cli.NewProgressReporter(os.Stderr, "validated")
	progress.Start(len(files))
	progress.Increment()
	progress.Finish()

Exit Codes:

A command that ran correctly but found failing inputs returns an *ExitError
so main can exit non-zero without printing anything further.
*/
package cli
