package taxrevo

import (
	"fmt"
	"strings"
)

// Warning flags a data-integrity or conversion issue with enough context for
// manual review. Warnings never abort the run.
type Warning struct {
	Code  string // instrument code, "" for portfolio-level issues
	Index int    // transaction index within its batch, -1 when not applicable
	Msg   string
}

func (w Warning) String() string {
	if w.Code == "" {
		return w.Msg
	}
	if w.Index < 0 {
		return fmt.Sprintf("[%s] %s", w.Code, w.Msg)
	}
	return fmt.Sprintf("[%s] #%d %s", w.Code, w.Index, w.Msg)
}

// ReportSink receives the human-readable narration of each matching step. The
// engine itself performs no file or network I/O; a sink is how the matching
// story reaches the persistence/formatting layer.
type ReportSink interface {
	Note(entry string)
}

// Narration is an in-memory ReportSink that keeps entries in order.
type Narration struct {
	entries []string
}

func (n *Narration) Note(entry string) { n.entries = append(n.entries, entry) }

// Entries returns the recorded narration in order.
func (n *Narration) Entries() []string { return n.entries }

// Result holds the per-instrument outcome of the matching pass.
// All monetary figures are in the local currency.
type Result struct {
	Code            string
	Name            string
	Income          Money    // realized from matched sells
	Cost            Money    // cost basis consumed by matched sells
	IncomeDividends Money    // DIV accumulation
	CostDividends   Money    // DIVNRA withholding accumulation
	StocksLeft      Quantity // open BUY remainder minus unmet SELL demand
	Warnings        []Warning
}

func (r Result) Profit() Money          { return r.Income.Sub(r.Cost) }
func (r Result) ProfitDividends() Money { return r.IncomeDividends.Sub(r.CostDividends) }
func (r Result) ProfitTotal() Money     { return r.Profit().Add(r.ProfitDividends()) }
func (r Result) IncomeTotal() Money     { return r.Income.Add(r.IncomeDividends) }
func (r Result) CostTotal() Money       { return r.Cost.Add(r.CostDividends) }

// InstrumentGroup is the ordered slice of one instrument's transactions,
// in original statement order.
type InstrumentGroup struct {
	Code         string
	Transactions []*Transaction
}

// GroupByInstrument splits transactions by instrument code, preserving both
// first-seen group order and statement order within each group.
func GroupByInstrument(txs []*Transaction) []InstrumentGroup {
	index := make(map[string]int)
	var groups []InstrumentGroup
	for _, t := range txs {
		i, ok := index[t.Code]
		if !ok {
			i = len(groups)
			index[t.Code] = i
			groups = append(groups, InstrumentGroup{Code: t.Code})
		}
		groups[i].Transactions = append(groups[i].Transactions, t)
	}
	return groups
}

// lot wraps a transaction with the matcher-owned remaining quantity. The
// transaction itself is never written to.
type lot struct {
	tx        *Transaction
	remaining Quantity
}

// Match runs the FIFO matching pass over one instrument's transactions, in
// original statement order (not re-sorted by date). Sells consume the oldest
// open buy lots first; dividends and withholdings accumulate independently.
// Each step is narrated to the sink.
func Match(group InstrumentGroup, localCurrency string, sink ReportSink) Result {
	result := Result{
		Code:            group.Code,
		Income:          M(0, localCurrency),
		Cost:            M(0, localCurrency),
		IncomeDividends: M(0, localCurrency),
		CostDividends:   M(0, localCurrency),
	}

	lots := make([]*lot, 0, len(group.Transactions))
	for i, t := range group.Transactions {
		if result.Name == "" && t.Name != "" {
			result.Name = t.Name
		}
		if _, ok := t.LocalValue(); !ok {
			// Unconverted transactions are excluded from totals, never
			// counted as zero.
			result.Warnings = append(result.Warnings, Warning{
				Code:  group.Code,
				Index: i,
				Msg:   fmt.Sprintf("excluded from matching, no conversion rate for %s", t.Date),
			})
			sink.Note(fmt.Sprintf("skipped %s", t))
			continue
		}
		remaining := t.Quantity
		if t.Kind == Sell {
			// Magnitude convention: a sell's own positive magnitude is its
			// closing demand, not a lot.
			remaining = t.Quantity.Abs()
		}
		lots = append(lots, &lot{tx: t, remaining: remaining})
	}

	for _, entry := range lots {
		t := entry.tx
		local, _ := t.LocalValue()
		switch t.Kind {
		case Dividend:
			result.IncomeDividends = result.IncomeDividends.Add(local)
			sink.Note(fmt.Sprintf("dividend %s", t))
		case Withholding:
			result.CostDividends = result.CostDividends.Add(local)
			sink.Note(fmt.Sprintf("dividend withheld %s", t))
		case Sell:
			matchSell(&result, lots, entry, sink)
		}
	}

	// Leftover is the open buy remainder net of any unmet sell demand; a
	// negative total signals an oversold position.
	for _, entry := range lots {
		switch entry.tx.Kind {
		case Buy, Sell:
			result.StocksLeft = result.StocksLeft.Add(entry.remaining)
		}
	}
	if result.StocksLeft.IsNegative() {
		result.Warnings = append(result.Warnings, Warning{
			Code:  group.Code,
			Index: -1,
			Msg:   fmt.Sprintf("oversold position: %s shares sold without a matching buy lot", result.StocksLeft.Neg()),
		})
	}

	sink.Note(fmt.Sprintf("[%s] profit: %s, income: %s, cost: %s, stocks left: %s",
		result.Code, result.Profit().Amount(), result.Income.Amount(), result.Cost.Amount(), result.StocksLeft))
	return result
}

// matchSell consumes open buy lots, oldest first, to cover one sell.
func matchSell(result *Result, lots []*lot, sell *lot, sink ReportSink) {
	sink.Note(fmt.Sprintf("sell %s", sell.tx))

	preIncome, preCost := result.Income, result.Cost
	toClose := sell.remaining.Abs()
	var perLotProfits []string

	for _, buy := range lots {
		if buy.tx.Kind != Buy || buy.remaining.IsZero() {
			continue
		}
		if toClose.IsZero() {
			break
		}
		sink.Note(fmt.Sprintf("  lot %s", buy.tx))

		diff := buy.remaining.Sub(toClose)
		var matched Quantity
		switch {
		case diff.IsNegative():
			// This lot is fully consumed and the sell still has unmet demand.
			matched = buy.remaining
			buy.remaining = Q(0)
			toClose = diff.Neg()
		case diff.IsZero():
			matched = toClose
			buy.remaining = Q(0)
			toClose = Q(0)
		default:
			// Lot partially consumed, sell fully closed.
			matched = toClose
			buy.remaining = diff
			toClose = Q(0)
		}

		cost := buy.tx.ValueForFraction(matched)
		income := sell.tx.ValueForFraction(matched)
		result.Cost = result.Cost.Add(cost)
		result.Income = result.Income.Add(income)

		noteFraction(sink, "cost", buy.tx, matched, cost)
		noteFraction(sink, "income", sell.tx, matched, income)
		sink.Note(fmt.Sprintf("  profit: %s - %s = %s",
			income.Amount(), cost.Amount(), income.Sub(cost).Amount()))
		perLotProfits = append(perLotProfits, income.Sub(cost).Amount().String())
	}

	sell.remaining = toClose.Neg() // zero when closed, negative when unmet

	if toClose.IsZero() {
		sellProfit := result.Income.Sub(preIncome).Sub(result.Cost.Sub(preCost))
		sink.Note(fmt.Sprintf("profit for sell: %s = %s",
			strings.Join(perLotProfits, " + "), sellProfit.Amount()))
	} else {
		sink.Note(fmt.Sprintf("unmet sell demand: %s shares with no open buy lot", toClose))
	}
}

// noteFraction narrates how the local value of a matched fraction was computed:
// rate * shares * unit price.
func noteFraction(sink ReportSink, label string, t *Transaction, matched Quantity, value Money) {
	rate, _ := t.Rate()
	price, ok := t.UnitPrice()
	if !ok {
		sink.Note(fmt.Sprintf("  %s: %s (no unit price)", label, value.Amount()))
		return
	}
	sink.Note(fmt.Sprintf("  %s: %s * %s * %s = %s",
		label, rate, matched.Abs(), price.Amount(), value.Amount()))
}
