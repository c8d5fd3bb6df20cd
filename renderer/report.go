// Package renderer turns computed tax reports into markdown for the terminal
// or the ledger file.
package renderer

import (
	"fmt"
	"strings"

	"github.com/seyhak/taxrevo"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ReportMarkdown renders the tax report: per-instrument results, portfolio
// totals and tax-due figures.
func ReportMarkdown(report *taxrevo.TaxReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Tax Report (%s)\n\n", report.LocalCurrency)
	fmt.Fprintf(&b, "Tax rate: %s%%\n\n", report.TaxRate.Mul(hundred))

	fmt.Fprint(&b, "## Per Instrument\n\n")
	fmt.Fprintln(&b, "| Instrument | Income | Cost | Profit | Div. Income | Div. Withheld | Stocks Left |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, r := range report.Results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			r.Code,
			r.Income.String(),
			r.Cost.String(),
			r.Profit().SignedString(),
			r.IncomeDividends.String(),
			r.CostDividends.String(),
			r.StocksLeft,
		)
	}

	s := report.Summary
	fmt.Fprint(&b, "\n## Totals\n\n")
	fmt.Fprintln(&b, "| | Income | Cost | Profit |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	fmt.Fprintf(&b, "| Stocks | %s | %s | %s |\n", s.IncomeStocks, s.CostStocks, s.ProfitStocks.SignedString())
	fmt.Fprintf(&b, "| Dividends | %s | %s | %s |\n", s.IncomeDividends, s.CostDividends, s.ProfitDividends.SignedString())
	fmt.Fprintf(&b, "| Other costs | - | %s | %s |\n", s.OtherCosts, s.OtherCosts.Neg().SignedString())
	fmt.Fprintf(&b, "| **Total** | **%s** | **%s** | **%s** |\n", s.IncomeTotal, s.CostTotal, s.ProfitTotal.SignedString())

	fmt.Fprint(&b, "\n## Tax Due\n\n")
	fmt.Fprintln(&b, "| Base | Tax |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Stocks | %s |\n", s.TaxStocks.Round())
	fmt.Fprintf(&b, "| Dividends | %s |\n", s.TaxDividends.Round())
	fmt.Fprintf(&b, "| **Total** | **%s** |\n", s.TaxTotal.Round())

	if len(report.Warnings) > 0 {
		fmt.Fprint(&b, "\n## Warnings\n\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}

// LedgerMarkdown renders the matching narration, one entry per line, the way
// it is persisted in the ledger file.
func LedgerMarkdown(narration *taxrevo.Narration) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Matching Ledger\n\n```\n")
	for _, entry := range narration.Entries() {
		fmt.Fprintln(&b, entry)
	}
	fmt.Fprint(&b, "```\n")
	return b.String()
}
