// Package cmd implements the CLI application to compute the tax report.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/seyhak/taxrevo"
	"github.com/seyhak/taxrevo/nbp"
	"github.com/shopspring/decimal"
)

// Commands lists every subcommand of the application.
// A main package registers them all and Executes the user-selected one.
var Commands = []subcommands.Command{
	&reportCmd{},
	&ledgerCmd{},
	&ratesCmd{},
	&topicCmd{},
	&assistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ratesFile = flag.String("rates-file", "rates.json", "Path to the local exchange-rate table (JSON)")
var splitsFile = flag.String("splits-file", "", "Path to a split calendar (JSON); empty uses the built-in one")
var localCurrency = flag.String("local-currency", "PLN", "Local (reporting) currency code")
var foreignCode = flag.String("foreign-code", "usd", "Statement currency code used against the rate service")

// engineFlags is the per-run input shared by the computing subcommands.
type engineFlags struct {
	statements string
	otherCosts string
	taxRate    float64
	lookback   int
	online     bool
}

func (c *engineFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.statements, "statements", "*.csv", "Glob of brokerage statement files, read in lexical order")
	f.StringVar(&c.otherCosts, "other-costs", "", "Path to a broker-fee list (JSON), deducted from the stock profit")
	f.Float64Var(&c.taxRate, "tax-rate", 0.19, "Flat tax fraction applied to profits")
	f.IntVar(&c.lookback, "lookback", taxrevo.DefaultLookback, "Maximum days to search backwards for a published rate")
	f.BoolVar(&c.online, "online", false, "Fall back to the NBP Web API for rates missing from the local table")
}

// loadSplits returns the split calendar from -splits-file, or the built-in one.
func loadSplits() (taxrevo.SplitCalendar, error) {
	if *splitsFile == "" {
		return taxrevo.DefaultSplits(), nil
	}
	f, err := os.Open(*splitsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open split calendar %q: %w", *splitsFile, err)
	}
	defer f.Close()
	return taxrevo.DecodeSplits(f)
}

// loadRates returns the local rate table, empty when the file does not exist yet.
func loadRates() (*taxrevo.RateTable, error) {
	f, err := os.Open(*ratesFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, rate table %q does not exist, starting empty", *ratesFile)
		return new(taxrevo.RateTable), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open rate table %q: %w", *ratesFile, err)
	}
	defer f.Close()
	return taxrevo.DecodeRateTable(f)
}

// saveRates persists the local rate table.
func saveRates(table *taxrevo.RateTable) error {
	f, err := os.Create(*ratesFile)
	if err != nil {
		return fmt.Errorf("could not write rate table %q: %w", *ratesFile, err)
	}
	defer f.Close()
	return taxrevo.EncodeRateTable(f, table)
}

// tableThenAPI tries the local table first and falls back to the NBP Web API,
// recording fetched rates back into the table.
type tableThenAPI struct {
	table *taxrevo.RateTable
	api   *nbp.Client
}

func (o tableThenAPI) Rate(on taxrevo.Date) (decimal.Decimal, error) {
	if rate, ok := o.table.Get(on); ok {
		return rate, nil
	}
	rate, err := o.api.Rate(on)
	if err == nil {
		o.table.Append(on, rate)
	}
	return rate, err
}

// compute runs the whole batch for the computing subcommands.
func (c *engineFlags) compute(sink taxrevo.ReportSink) (*taxrevo.TaxReport, error) {
	splits, err := loadSplits()
	if err != nil {
		return nil, err
	}
	filenames, err := filepath.Glob(c.statements)
	if err != nil {
		return nil, fmt.Errorf("bad statements glob %q: %w", c.statements, err)
	}
	if len(filenames) == 0 {
		return nil, fmt.Errorf("no statement files match %q", c.statements)
	}
	txs, err := taxrevo.ReadStatementFiles(filenames, splits)
	if err != nil {
		return nil, err
	}

	table, err := loadRates()
	if err != nil {
		return nil, err
	}
	var oracle taxrevo.RateOracle = table
	if c.online {
		oracle = tableThenAPI{table: table, api: nbp.New(*foreignCode)}
	}
	resolver := taxrevo.NewResolver(oracle)
	resolver.Lookback = c.lookback

	var otherCosts []taxrevo.OtherCost
	if c.otherCosts != "" {
		f, err := os.Open(c.otherCosts)
		if err != nil {
			return nil, fmt.Errorf("could not open other costs %q: %w", c.otherCosts, err)
		}
		otherCosts, err = taxrevo.DecodeOtherCosts(f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}

	report := taxrevo.ComputeReport(txs, otherCosts, resolver, *localCurrency, decimal.NewFromFloat(c.taxRate), sink)

	if c.online {
		if err := saveRates(table); err != nil {
			log.Printf("could not persist fetched rates: %v", err)
		}
	}
	return report, nil
}
