package taxrevo

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// OtherCost is a broker fee or similar charge in the statement currency,
// deductible from the stock profit.
type OtherCost struct {
	Date   Date            `json:"date"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// ConvertOtherCosts converts the fees to the local currency with the same
// day-before rule as transactions. Fees whose rate cannot be resolved are
// excluded and reported as warnings.
func ConvertOtherCosts(costs []OtherCost, r *Resolver, localCurrency string) (Money, []Warning) {
	total := M(0, localCurrency)
	var warnings []Warning
	for i, c := range costs {
		rate, err := r.TradeRate(c.Date)
		if err != nil {
			warnings = append(warnings, Warning{
				Index: i,
				Msg:   fmt.Sprintf("cannot convert cost %q dated %s: %v", c.Name, c.Date, err),
			})
			continue
		}
		total = total.Add(M(rate.Mul(c.Amount), localCurrency))
	}
	return total, warnings
}

// DecodeOtherCosts decodes a JSON array of fee records.
func DecodeOtherCosts(r io.Reader) ([]OtherCost, error) {
	var costs []OtherCost
	if err := json.NewDecoder(r).Decode(&costs); err != nil {
		return nil, fmt.Errorf("could not decode other costs: %w", err)
	}
	return costs, nil
}
