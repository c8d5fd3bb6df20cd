package taxrevo

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
		err   bool
	}{
		{"BUY", Buy, false},
		{"SELL", Sell, false},
		{"DIV", Dividend, false},
		{"DIVNRA", Withholding, false},
		{" BUY ", Buy, false},
		{"SHORT", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.err {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.err)
			}
			if err != nil && !errors.Is(err, ErrInvalidKind) {
				t.Errorf("ParseKind(%q) error = %v, want ErrInvalidKind", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseStatementNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
		err   bool
	}{
		{"324.0", "324", false},
		{"1,234.56", "1234.56", false},
		{"(15.30)", "-15.3", false},
		{"(1,000)", "-1000", false},
		{" 9 ", "9", false},
		{"abc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseStatementNumber(tt.input)
			if (err != nil) != tt.err {
				t.Fatalf("parseStatementNumber(%q) error = %v, wantErr %v", tt.input, err, tt.err)
			}
			if !tt.err && got.String() != tt.want {
				t.Errorf("parseStatementNumber(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewTransaction_Validation(t *testing.T) {
	if _, err := NewTransaction("TSLA", "", "SHORT", "2021-01-04", "100", "10", "USD", nil); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("unknown kind: error = %v, want ErrInvalidKind", err)
	}
	if _, err := NewTransaction("TSLA", "", "BUY", "2021-01-04", "abc", "10", "USD", nil); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("bad amount: error = %v, want ErrInvalidAmount", err)
	}
	if _, err := NewTransaction("TSLA", "", "BUY", "2021-01-04", "100", "x", "USD", nil); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("bad quantity: error = %v, want ErrInvalidAmount", err)
	}
	if _, err := NewTransaction("TSLA", "", "BUY", "not-a-date", "100", "10", "USD", nil); err == nil {
		t.Error("bad date: expected an error")
	}
}

func TestNewTransaction_SplitAdjustment(t *testing.T) {
	splits := DefaultSplits() // TSLA x5 on 2020-08-31
	tests := []struct {
		name string
		code string
		date string
		want Quantity
	}{
		{"before split", "TSLA", "2020-03-11", Q(50)},
		{"on split date", "TSLA", "2020-08-31", Q(50)},
		{"after split", "TSLA", "2020-09-01", Q(10)},
		{"other instrument", "UBER", "2020-03-11", Q(10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewTransaction(tt.code, "", "BUY", tt.date, "100", "10", "USD", splits)
			if err != nil {
				t.Fatalf("NewTransaction() error = %v", err)
			}
			if !tx.Quantity.Equal(tt.want) {
				t.Errorf("Quantity = %s, want %s", tx.Quantity, tt.want)
			}
		})
	}
}

func TestTransaction_UnitPrice(t *testing.T) {
	buy := usdTx(t, "BUY", "2021-01-04", "324.0", "9")
	price, ok := buy.UnitPrice()
	if !ok {
		t.Fatal("UnitPrice() not available on a 9-share buy")
	}
	if want := USD(36); !price.Equal(want) {
		t.Errorf("UnitPrice() = %s, want %s", price, want)
	}

	sell := usdTx(t, "SELL", "2021-01-10", "180", "(12)")
	price, ok = sell.UnitPrice()
	if !ok || !price.Equal(USD(15)) {
		t.Errorf("UnitPrice() = %s, %v; want a positive 15 USD", price, ok)
	}

	div := usdTx(t, "DIV", "2021-03-15", "30", "0")
	if _, ok := div.UnitPrice(); ok {
		t.Error("UnitPrice() available on a zero-quantity dividend")
	}
}

func TestTransaction_SetRateOnce(t *testing.T) {
	tx := usdTx(t, "BUY", "2021-01-04", "100", "10")

	if _, ok := tx.LocalValue(); ok {
		t.Fatal("LocalValue() available before enrichment")
	}
	if _, ok := tx.Rate(); ok {
		t.Fatal("Rate() available before enrichment")
	}
	if !strings.Contains(tx.String(), "(no rate)") {
		t.Errorf("String() = %q, want the unrated form", tx)
	}

	tx.SetRate(decimal.NewFromInt(4), "PLN")
	tx.SetRate(decimal.NewFromInt(5), "PLN") // no-op, the rate is resolved once

	rate, ok := tx.Rate()
	if !ok || !rate.Equal(decimal.NewFromInt(4)) {
		t.Errorf("Rate() = %s, %v; want 4 after the first SetRate", rate, ok)
	}
	local, ok := tx.LocalValue()
	if !ok || !local.Equal(PLN(400)) {
		t.Errorf("LocalValue() = %s, %v; want 400 PLN", local, ok)
	}
}

func TestTransaction_ValueForFraction(t *testing.T) {
	buy := ratedTx(t, "BUY", "2021-01-05", "60", "5", 4)
	if got, want := buy.ValueForFraction(Q(2)), PLN(96); !got.Equal(want) {
		t.Errorf("ValueForFraction(2) = %s, want %s", got, want)
	}
	// The magnitude convention holds for sells too: a fraction of a negative
	// quantity still prices positive.
	sell := ratedTx(t, "SELL", "2021-01-10", "180", "(12)", 4)
	if got, want := sell.ValueForFraction(Q(12)), PLN(720); !got.Equal(want) {
		t.Errorf("ValueForFraction(12) = %s, want %s", got, want)
	}
}
