package taxrevo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrNoRate is returned when no exchange rate is published for a requested date.
var ErrNoRate = errors.New("no exchange rate available")

// RateOracle maps a calendar date to a published foreign->local exchange rate.
// Implementations return ErrNoRate (possibly wrapped) for dates without a
// published rate, e.g. weekends and holidays.
type RateOracle interface {
	Rate(on Date) (decimal.Decimal, error)
}

// RateTable stores a chronological series of published exchange rates, one per
// date. Dates are unique and the series is always sorted.
type RateTable struct {
	days  []Date
	rates []decimal.Decimal
}

// Len returns the number of rates in the table.
func (t *RateTable) Len() int { return len(t.days) }

// Latest returns the latest date and rate in the table, or zero values when empty.
func (t *RateTable) Latest() (Date, decimal.Decimal) {
	last := len(t.days) - 1
	if last < 0 {
		return Date{}, decimal.Decimal{}
	}
	return t.days[last], t.rates[last]
}

// chronological is a private implementation to keep the table sorted.
type chronological struct{ *RateTable }

func (s chronological) Len() int           { return len(s.days) }
func (s chronological) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }
func (s chronological) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.rates[i], s.rates[j] = s.rates[j], s.rates[i]
}

// Append adds a published rate to the table. An existing rate at that date is
// overwritten.
func (t *RateTable) Append(on Date, rate decimal.Decimal) *RateTable {
	if i := slices.Index(t.days, on); i >= 0 {
		t.rates[i] = rate
		return t
	}
	t.days, t.rates = append(t.days, on), append(t.rates, rate)
	sort.Sort(chronological{t})
	return t
}

// Get returns the rate published exactly at 'on', if any.
func (t *RateTable) Get(on Date) (decimal.Decimal, bool) {
	i := slices.Index(t.days, on)
	if i >= 0 {
		return t.rates[i], true
	}
	return decimal.Decimal{}, false
}

// Values returns an iterator over all date/rate pairs in chronological order.
func (t *RateTable) Values() iter.Seq2[Date, decimal.Decimal] {
	return func(yield func(Date, decimal.Decimal) bool) {
		for i, on := range t.days {
			if !yield(on, t.rates[i]) {
				return
			}
		}
	}
}

// Rate implements RateOracle over the published rates in the table.
func (t *RateTable) Rate(on Date) (decimal.Decimal, error) {
	if r, ok := t.Get(on); ok {
		return r, nil
	}
	return decimal.Decimal{}, fmt.Errorf("%w on %s", ErrNoRate, on)
}

// DecodeRateTable decodes a date->rate JSON object.
func DecodeRateTable(r io.Reader) (*RateTable, error) {
	raw := make(map[string]decimal.Decimal)
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("could not decode rate table: %w", err)
	}
	t := new(RateTable)
	for day, rate := range raw {
		on, err := ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("could not decode rate table: %w", err)
		}
		t.Append(on, rate)
	}
	return t, nil
}

// EncodeRateTable writes the table as a date->rate JSON object.
func EncodeRateTable(w io.Writer, t *RateTable) error {
	raw := make(map[string]decimal.Decimal, t.Len())
	for on, rate := range t.Values() {
		raw[on.String()] = rate
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

// DefaultLookback bounds the backward search for a published rate.
const DefaultLookback = 10

// Resolver turns trade dates into conversion rates. By law the rate used for a
// transaction dated D is the one published the prior day, so the resolver
// queries the oracle with D-1 and steps back one calendar day at a time, up to
// Lookback days, until a published rate is found. Results are memoized by trade
// date so each distinct date hits the oracle at most once per run.
type Resolver struct {
	oracle   RateOracle
	Lookback int
	memo     RateTable      // keyed by trade date, not publication date
	failed   map[Date]error // dates whose backward search already exhausted
}

// NewResolver creates a Resolver over the given oracle.
func NewResolver(oracle RateOracle) *Resolver {
	return &Resolver{oracle: oracle, Lookback: DefaultLookback, failed: make(map[Date]error)}
}

// TradeRate returns the conversion rate applicable to a transaction dated 'on',
// or an error wrapping ErrNoRate once the bounded backward search is exhausted.
func (r *Resolver) TradeRate(on Date) (decimal.Decimal, error) {
	if rate, ok := r.memo.Get(on); ok {
		return rate, nil
	}
	if err, ok := r.failed[on]; ok {
		return decimal.Decimal{}, err
	}
	lookback := r.Lookback
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	day := on.Add(-1) // the law wants the rate published the day before
	for i := 0; i < lookback; i++ {
		rate, err := r.oracle.Rate(day)
		if err == nil {
			r.memo.Append(on, rate)
			return rate, nil
		}
		if !errors.Is(err, ErrNoRate) {
			return decimal.Decimal{}, err
		}
		day = day.Add(-1)
	}
	err := fmt.Errorf("%w for trade date %s within %d days", ErrNoRate, on, lookback)
	r.failed[on] = err
	return decimal.Decimal{}, err
}

// Enrich resolves a conversion rate for every transaction and derives its
// local-currency value. Transactions whose rate cannot be resolved are left
// unrated and reported as warnings; they must be excluded from aggregation,
// never treated as zero value.
func (r *Resolver) Enrich(txs []*Transaction, localCurrency string) []Warning {
	var warnings []Warning
	for i, t := range txs {
		rate, err := r.TradeRate(t.Date)
		if err != nil {
			log.Printf("rate lookup failed for %s %s: %v", t.Code, t.Date, err)
			warnings = append(warnings, Warning{
				Code:  t.Code,
				Index: i,
				Msg:   fmt.Sprintf("cannot convert transaction dated %s: %v", t.Date, err),
			})
			continue
		}
		t.SetRate(rate, localCurrency)
	}
	return warnings
}
