// Package nbp fetches historical exchange rates from the NBP Web API
// (https://api.nbp.pl), the National Bank of Poland's official table of
// average rates.
package nbp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/seyhak/taxrevo"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.nbp.pl/api"

// Client queries table A mid rates for one currency. It satisfies
// taxrevo.RateOracle: a date the bank did not publish for (weekend, holiday)
// yields taxrevo.ErrNoRate.
type Client struct {
	BaseURL string
	Code    string // ISO currency code, e.g. "usd"
	client  *http.Client
}

// New returns a Client for the given currency code, with responses disk-cached
// so each date is fetched from the network at most once a day.
func New(code string) *Client {
	return &Client{BaseURL: defaultBaseURL, Code: code, client: newDailyCachingClient()}
}

// NewWithHTTPClient is like New with a caller-provided http.Client.
func NewWithHTTPClient(code string, c *http.Client) *Client {
	return &Client{BaseURL: defaultBaseURL, Code: code, client: c}
}

// Rate returns the mid rate published on the given date.
//
//	{
//	    "table": "A",
//	    "currency": "dolar amerykański",
//	    "code": "USD",
//	    "rates": [
//	        {
//	            "no": "115/A/NBP/2020",
//	            "effectiveDate": "2020-06-16",
//	            "mid": 3.9058
//	        }
//	    ]
//	}
func (c *Client) Rate(on taxrevo.Date) (decimal.Decimal, error) {
	addr := fmt.Sprintf("%s/exchangerates/rates/a/%s/%s/?format=json", c.BaseURL, c.Code, on)

	var jobj any
	if err := jwget(c.client, addr, &jobj); err != nil {
		if errors.Is(err, errNotFound) {
			// the bank publishes no rate on weekends and holidays
			return decimal.Decimal{}, fmt.Errorf("%w on %s", taxrevo.ErrNoRate, on)
		}
		return decimal.Decimal{}, fmt.Errorf("error fetching %s rate on %s: %w", c.Code, on, err)
	}

	path := "$.rates[0].mid"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error parsing %s rate: %q %w", c.Code, path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	mid, ok := jval.(float64)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("error parsing %s rate: %q not a number: %v", c.Code, path, jval)
	}
	return decimal.NewFromFloat(mid), nil
}

var _ taxrevo.RateOracle = (*Client)(nil)

// FillTable resolves every date in dates against the API and records the found
// rates into the table, keyed by the publication date. Dates already present
// are not refetched.
func (c *Client) FillTable(table *taxrevo.RateTable, dates []taxrevo.Date) error {
	for _, on := range dates {
		if _, ok := table.Get(on); ok {
			continue
		}
		rate, err := c.Rate(on)
		if errors.Is(err, taxrevo.ErrNoRate) {
			continue
		}
		if err != nil {
			return err
		}
		table.Append(on, rate)
	}
	return nil
}
