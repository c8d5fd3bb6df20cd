package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/seyhak/taxrevo/renderer"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	engineFlags
}

func (*reportCmd) Name() string { return "report" }
func (*reportCmd) Synopsis() string {
	return "compute the tax report: per-instrument results, totals and tax due"
}
func (*reportCmd) Usage() string {
	return `taxrevo report [-statements <glob>] [-other-costs <file>] [-tax-rate <fraction>] [-online]

  Normalizes the statement records, converts them with the day-before
  exchange rate, matches sells FIFO against buy lots and prints the
  aggregated tax report.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) { c.engineFlags.SetFlags(f) }

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := c.compute(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing report: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ReportMarkdown(report))
	return subcommands.ExitSuccess
}
