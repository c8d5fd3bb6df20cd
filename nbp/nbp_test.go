package nbp

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/seyhak/taxrevo"
	"github.com/shopspring/decimal"
)

const usdPayload = `{
    "table": "A",
    "currency": "dolar amerykański",
    "code": "USD",
    "rates": [
        {
            "no": "115/A/NBP/2020",
            "effectiveDate": "2020-06-16",
            "mid": 3.9058
        }
    ]
}`

// testClient serves the given handler in place of api.nbp.pl.
func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := NewWithHTTPClient("usd", server.Client())
	c.BaseURL = server.URL
	return c
}

func TestClient_Rate(t *testing.T) {
	var gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(usdPayload))
	})

	rate, err := c.Rate(taxrevo.MustParse("2020-06-16"))
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if want := decimal.NewFromFloat(3.9058); !rate.Equal(want) {
		t.Errorf("Rate() = %s, want %s", rate, want)
	}
	if want := "/exchangerates/rates/a/usd/2020-06-16/"; gotPath != want {
		t.Errorf("request path = %q, want %q", gotPath, want)
	}
}

func TestClient_Rate_Unpublished(t *testing.T) {
	// the bank answers 404 for weekends and holidays
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.Rate(taxrevo.MustParse("2020-06-14"))
	if !errors.Is(err, taxrevo.ErrNoRate) {
		t.Errorf("Rate() error = %v, want ErrNoRate", err)
	}
}

func TestClient_Rate_ServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})

	_, err := c.Rate(taxrevo.MustParse("2020-06-16"))
	if err == nil || errors.Is(err, taxrevo.ErrNoRate) {
		t.Errorf("Rate() error = %v, want a plain fetch error", err)
	}
}

func TestClient_Rate_BadPayload(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates": []}`))
	})

	if _, err := c.Rate(taxrevo.MustParse("2020-06-16")); err == nil {
		t.Error("Rate() expected an error on a payload without rates")
	}
}

func TestClient_FillTable(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		// only weekdays have a payload
		if strings.Contains(r.URL.Path, "2020-06-14") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(usdPayload))
	})

	table := new(taxrevo.RateTable)
	table.Append(taxrevo.MustParse("2020-06-15"), decimal.NewFromInt(4))

	dates := []taxrevo.Date{
		taxrevo.MustParse("2020-06-14"), // unpublished, skipped
		taxrevo.MustParse("2020-06-15"), // already present, not refetched
		taxrevo.MustParse("2020-06-16"),
	}
	if err := c.FillTable(table, dates); err != nil {
		t.Fatalf("FillTable() error = %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	if rate, ok := table.Get(taxrevo.MustParse("2020-06-15")); !ok || !rate.Equal(decimal.NewFromInt(4)) {
		t.Errorf("existing rate refetched: %s", rate)
	}
	if rate, ok := table.Get(taxrevo.MustParse("2020-06-16")); !ok || !rate.Equal(decimal.NewFromFloat(3.9058)) {
		t.Errorf("Get(2020-06-16) = %s, %v; want 3.9058", rate, ok)
	}
}
