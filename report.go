package taxrevo

import (
	"log"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the flat capital-gains/dividend tax fraction.
var DefaultTaxRate = decimal.NewFromFloat(0.19)

// Summary holds the portfolio-wide totals and tax-due figures, all in the
// local currency.
type Summary struct {
	IncomeStocks Money
	CostStocks   Money
	ProfitStocks Money

	IncomeDividends Money
	CostDividends   Money
	ProfitDividends Money

	OtherCosts Money

	IncomeTotal Money
	CostTotal   Money
	ProfitTotal Money

	TaxStocks    Money
	TaxDividends Money
	TaxTotal     Money
}

// Aggregate folds the per-instrument results and the converted other costs
// into portfolio totals and computes the tax due at the given rate.
func Aggregate(results []Result, otherCosts Money, taxRate decimal.Decimal, localCurrency string) Summary {
	s := Summary{
		IncomeStocks:    M(0, localCurrency),
		CostStocks:      M(0, localCurrency),
		IncomeDividends: M(0, localCurrency),
		CostDividends:   M(0, localCurrency),
		OtherCosts:      otherCosts,
	}
	for _, r := range results {
		s.IncomeStocks = s.IncomeStocks.Add(r.Income)
		s.CostStocks = s.CostStocks.Add(r.Cost)
		s.IncomeDividends = s.IncomeDividends.Add(r.IncomeDividends)
		s.CostDividends = s.CostDividends.Add(r.CostDividends)
	}
	s.ProfitStocks = s.IncomeStocks.Sub(s.CostStocks)
	s.ProfitDividends = s.IncomeDividends.Sub(s.CostDividends)

	s.IncomeTotal = s.IncomeStocks.Add(s.IncomeDividends)
	s.CostTotal = s.CostStocks.Add(s.CostDividends).Add(s.OtherCosts)
	s.ProfitTotal = s.ProfitStocks.Add(s.ProfitDividends).Sub(s.OtherCosts)

	tax := func(base Money) Money { return M(taxRate.Mul(base.Amount()), localCurrency) }
	s.TaxStocks = tax(s.ProfitStocks)
	s.TaxDividends = tax(s.IncomeDividends.Sub(s.CostDividends))
	s.TaxTotal = tax(s.IncomeTotal.Sub(s.CostTotal))
	return s
}

// TaxReport is the full outcome of one run: per-instrument results, the
// aggregate summary, and every warning raised along the way.
type TaxReport struct {
	LocalCurrency string
	TaxRate       decimal.Decimal
	Results       []Result
	Summary       Summary
	Warnings      []Warning
}

// ComputeReport runs the whole batch: rate enrichment, per-instrument FIFO
// matching (narrated to the sink), other-cost conversion and aggregation.
// It is deterministic: identical transactions and rate table always yield
// identical output. A sink of nil discards the narration.
func ComputeReport(txs []*Transaction, otherCosts []OtherCost, resolver *Resolver, localCurrency string, taxRate decimal.Decimal, sink ReportSink) *TaxReport {
	if sink == nil {
		sink = discard{}
	}
	report := &TaxReport{LocalCurrency: localCurrency, TaxRate: taxRate}

	report.Warnings = append(report.Warnings, resolver.Enrich(txs, localCurrency)...)

	for _, group := range GroupByInstrument(txs) {
		log.Printf("processing %s", group.Code)
		result := Match(group, localCurrency, sink)
		report.Results = append(report.Results, result)
		report.Warnings = append(report.Warnings, result.Warnings...)
	}

	converted, warnings := ConvertOtherCosts(otherCosts, resolver, localCurrency)
	report.Warnings = append(report.Warnings, warnings...)

	report.Summary = Aggregate(report.Results, converted, taxRate, localCurrency)
	sink.Note("--------------- TOTAL ---------------")
	sink.Note("profit  " + report.Summary.ProfitTotal.Amount().String())
	sink.Note("cost    " + report.Summary.CostTotal.Amount().String())
	sink.Note("income  " + report.Summary.IncomeTotal.Amount().String())
	return report
}

type discard struct{}

func (discard) Note(string) {}
