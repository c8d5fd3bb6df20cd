package renderer

import (
	"strings"
	"testing"

	"github.com/seyhak/taxrevo"
	"github.com/shopspring/decimal"
)

func testReport() *taxrevo.TaxReport {
	results := []taxrevo.Result{
		{
			Code:            "TSLA",
			Name:            "TSLA: TESLA INC",
			Income:          taxrevo.PLN(720),
			Cost:            taxrevo.PLN(496),
			IncomeDividends: taxrevo.PLN(0),
			CostDividends:   taxrevo.PLN(0),
			StocksLeft:      taxrevo.Q(3),
		},
	}
	summary := taxrevo.Aggregate(results, taxrevo.PLN(10), decimal.NewFromFloat(0.19), "PLN")
	return &taxrevo.TaxReport{
		LocalCurrency: "PLN",
		TaxRate:       decimal.NewFromFloat(0.19),
		Results:       results,
		Summary:       summary,
		Warnings: []taxrevo.Warning{
			{Code: "TSLA", Index: -1, Msg: "oversold position: 3 shares sold without a matching buy lot"},
		},
	}
}

func TestReportMarkdown(t *testing.T) {
	md := ReportMarkdown(testReport())

	for _, want := range []string{
		"# Tax Report (PLN)",
		"Tax rate: 19%",
		"## Per Instrument",
		"| TSLA |",
		"## Totals",
		"## Tax Due",
		"## Warnings",
		"[TSLA] oversold position",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report misses %q:\n%s", want, md)
		}
	}
}

func TestReportMarkdown_NoWarningsSection(t *testing.T) {
	report := testReport()
	report.Warnings = nil
	if md := ReportMarkdown(report); strings.Contains(md, "## Warnings") {
		t.Errorf("empty warning list still rendered:\n%s", md)
	}
}

func TestLedgerMarkdown(t *testing.T) {
	var narration taxrevo.Narration
	narration.Note("sell [SELL][TSLA][Q: -12][2021-01-10]")
	narration.Note("  lot [BUY][TSLA][Q: 10][2021-01-04]")

	md := LedgerMarkdown(&narration)
	if !strings.HasPrefix(md, "# Matching Ledger") {
		t.Errorf("ledger header missing:\n%s", md)
	}
	if i, j := strings.Index(md, "sell "), strings.Index(md, "  lot "); i < 0 || j < 0 || j < i {
		t.Errorf("entries missing or out of order:\n%s", md)
	}
}
