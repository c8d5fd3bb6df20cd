package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/seyhak/taxrevo"
	"github.com/seyhak/taxrevo/renderer"
)

// ledgerCmd holds the flags for the 'ledger' subcommand.
type ledgerCmd struct {
	engineFlags
	outputFile string
}

func (*ledgerCmd) Name() string { return "ledger" }
func (*ledgerCmd) Synopsis() string {
	return "narrate every matching step into a ledger"
}
func (*ledgerCmd) Usage() string {
	return `taxrevo ledger [-statements <glob>] [-o <file>]

  Runs the same computation as 'report' but prints the step-by-step
  matching narration: which lot matched which sell, partial/exact/
  overflow outcome, and the running income/cost deltas. With -o the
  ledger is written to a file instead of the terminal.
`
}

func (c *ledgerCmd) SetFlags(f *flag.FlagSet) {
	c.engineFlags.SetFlags(f)
	f.StringVar(&c.outputFile, "o", "", "Write the ledger to this file instead of the terminal")
}

func (c *ledgerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var narration taxrevo.Narration
	if _, err := c.compute(&narration); err != nil {
		fmt.Fprintf(os.Stderr, "Error computing ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	md := renderer.LedgerMarkdown(&narration)

	if c.outputFile == "" {
		printMarkdown(md)
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(c.outputFile, []byte(md), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger %q: %v\n", c.outputFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully wrote ledger to %s\n", c.outputFile)
	return subcommands.ExitSuccess
}
