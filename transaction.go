package taxrevo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is a typed string identifying a brokerage transaction event.
type Kind string

// The closed set of transaction kinds found in activity statements.
const (
	Buy         Kind = "BUY"
	Sell        Kind = "SELL"
	Dividend    Kind = "DIV"
	Withholding Kind = "DIVNRA" // tax withheld at source on a dividend
)

var (
	// ErrInvalidKind is returned when a record carries an unknown transaction kind.
	ErrInvalidKind = errors.New("invalid transaction kind")
	// ErrInvalidAmount is returned when a record's amount or quantity is not numeric.
	ErrInvalidAmount = errors.New("invalid transaction amount")
)

// ParseKind parses a statement transaction kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.TrimSpace(s)); k {
	case Buy, Sell, Dividend, Withholding:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Transaction is the normalized representation of one brokerage event,
// split-adjusted at construction. It is immutable except for the conversion
// rate, resolved once during enrichment.
type Transaction struct {
	Code     string   // instrument code, stable per instrument group
	Name     string   // instrument display name
	Kind     Kind     // BUY, SELL, DIV or DIVNRA
	Date     Date     // trade date
	Quantity Quantity // number of shares, split-adjusted, signed
	Gross    Money    // gross transaction value in the statement currency

	rate  decimal.Decimal // foreign->local conversion rate for Date
	local Money           // rate * Gross, in the local currency
	rated bool            // explicit unset state, a zero local value stays distinguishable
}

// NewTransaction builds a validated Transaction from raw statement fields.
// It fails with ErrInvalidKind or ErrInvalidAmount and has no side effects.
func NewTransaction(code, name, kind, dateStr, rawAmount, rawQuantity string, currency string, splits SplitCalendar) (*Transaction, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	day, err := ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	amount, err := parseStatementNumber(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q: %v", ErrInvalidAmount, rawAmount, err)
	}
	quantity, err := parseStatementNumber(rawQuantity)
	if err != nil {
		return nil, fmt.Errorf("%w: quantity %q: %v", ErrInvalidAmount, rawQuantity, err)
	}
	// Retroactive split adjustment happens here, before the quantity is ever
	// exposed to a caller.
	quantity = quantity.Mul(splits.Multiplier(code, day).value)

	return &Transaction{
		Code:     code,
		Name:     name,
		Kind:     k,
		Date:     day,
		Quantity: Quantity{value: quantity},
		Gross:    Money{value: amount, cur: currency},
	}, nil
}

// parseStatementNumber normalizes a raw statement numeric field: thousands
// separators are removed and parenthesized values become negative.
func parseStatementNumber(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if negative {
		v = v.Neg()
	}
	return v, nil
}

// UnitPrice returns |Gross / Quantity| and true, or a zero price and false
// when the quantity is zero (dividends have no quantity).
func (t *Transaction) UnitPrice() (Money, bool) {
	if t.Quantity.IsZero() {
		return Money{cur: t.Gross.cur}, false
	}
	return t.Gross.Div(t.Quantity).Abs(), true
}

// SetRate resolves the conversion rate for the trade date and derives the
// local-currency value. It is effective at most once; later calls are no-ops.
func (t *Transaction) SetRate(rate decimal.Decimal, localCurrency string) {
	if t.rated {
		return
	}
	t.rate = rate
	t.local = Money{value: rate.Mul(t.Gross.value), cur: localCurrency}
	t.rated = true
}

// Rate returns the resolved conversion rate and whether enrichment has run.
func (t *Transaction) Rate() (decimal.Decimal, bool) {
	return t.rate, t.rated
}

// LocalValue returns the transaction value converted to the local currency.
// The boolean is false until SetRate has run.
func (t *Transaction) LocalValue() (Money, bool) {
	return t.local, t.rated
}

// ValueForFraction returns the local-currency value attributable to a given
// number of shares out of the transaction's total:
//
//	|fraction / Quantity| * rate * Gross
//
// It is used to price partially consumed lots and must only be called on an
// enriched transaction with a non-zero quantity.
func (t *Transaction) ValueForFraction(fraction Quantity) Money {
	part := fraction.value.Div(t.Quantity.value)
	return Money{value: part.Mul(t.rate).Mul(t.Gross.value).Abs(), cur: t.local.cur}
}

// String renders the transaction the way it appears in the matching ledger.
func (t *Transaction) String() string {
	if !t.rated {
		return fmt.Sprintf("[%s][%s][Q: %s][%s] %s %s (no rate)",
			t.Kind, t.Code, t.Quantity, t.Date, t.Gross.cur, t.Gross.value)
	}
	return fmt.Sprintf("[%s][%s][Q: %s][%s] %s %s = %s * %s %s",
		t.Kind, t.Code, t.Quantity, t.Date, t.local.cur, t.local.value, t.rate, t.Gross.cur, t.Gross.value)
}
