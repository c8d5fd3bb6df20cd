package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"github.com/seyhak/taxrevo"
	"github.com/seyhak/taxrevo/nbp"
)

// ratesCmd holds the flags for the 'rates' subcommand.
type ratesCmd struct {
	statements string
	fetch      bool
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "show or fetch the local exchange-rate table" }
func (*ratesCmd) Usage() string {
	return `taxrevo rates [-fetch [-statements <glob>]]

  Prints the local rate table. With -fetch, resolves a day-before rate
  for every trade date found in the statements against the NBP Web API
  and persists the table.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.statements, "statements", "*.csv", "Glob of brokerage statement files to take trade dates from")
	f.BoolVar(&c.fetch, "fetch", false, "Fetch missing rates from the NBP Web API and save the table")
}

func (c *ratesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	table, err := loadRates()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rate table: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.fetch {
		if status := c.fetchRates(table); status != subcommands.ExitSuccess {
			return status
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Exchange Rates (%s/%s)\n\n", strings.ToUpper(*foreignCode), *localCurrency)
	fmt.Fprintln(&b, "| Date | Rate |")
	fmt.Fprintln(&b, "|:---|---:|")
	for on, rate := range table.Values() {
		fmt.Fprintf(&b, "| %s | %s |\n", on, rate)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

// fetchRates resolves a rate for every distinct trade date in the statements
// and persists the table.
func (c *ratesCmd) fetchRates(table *taxrevo.RateTable) subcommands.ExitStatus {
	splits, err := loadSplits()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	filenames, err := filepath.Glob(c.statements)
	if err != nil || len(filenames) == 0 {
		fmt.Fprintf(os.Stderr, "no statement files match %q\n", c.statements)
		return subcommands.ExitFailure
	}
	txs, err := taxrevo.ReadStatementFiles(filenames, splits)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	resolver := taxrevo.NewResolver(tableThenAPI{table: table, api: nbp.New(*foreignCode)})
	for _, t := range txs {
		if _, err := resolver.TradeRate(t.Date); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	if err := saveRates(table); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Saved %d rates to %s\n", table.Len(), *ratesFile)
	return subcommands.ExitSuccess
}
