package taxrevo

import (
	"strings"
	"testing"
)

const uberLine = "01/31/2020 02/04/2020 USD BUY UBER - UBER TECHNOLOGIES INC COM - TRD UBER B 9 at 36.01 Agency. 9 36.01 324.0"

func TestParseStatementLine(t *testing.T) {
	record, err := ParseStatementLine(uberLine)
	if err != nil {
		t.Fatalf("ParseStatementLine() error = %v", err)
	}

	want := Record{
		Date:        "2020-01-31",
		Currency:    "USD",
		Kind:        "BUY",
		Code:        "UBER",
		Name:        "UBER TECHNOLOGIES INC COM",
		Quantity:    "9",
		UnitPrice:   "36.01",
		GrossAmount: "324.0",
	}
	if record != want {
		t.Errorf("ParseStatementLine() = %+v, want %+v", record, want)
	}
}

func TestParseStatementLine_Rejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too short", "01/31/2020 USD BUY"},
		{"bad date", "2020 02/04/2020 USD BUY UBER - UBER TECHNOLOGIES - x 9 36.01 324.0"},
		{"no instrument", "01/31/2020 02/04/2020 USD BUY something without dashes at all 9 36.01 324.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseStatementLine(tt.line); err == nil {
				t.Errorf("ParseStatementLine(%q) expected an error", tt.line)
			}
		})
	}
}

func TestRecord_Transaction(t *testing.T) {
	record, err := ParseStatementLine(uberLine)
	if err != nil {
		t.Fatalf("ParseStatementLine() error = %v", err)
	}
	tx, err := record.Transaction(DefaultSplits())
	if err != nil {
		t.Fatalf("Transaction() error = %v", err)
	}
	if tx.Code != "UBER" || tx.Name != "UBER: UBER TECHNOLOGIES INC COM" {
		t.Errorf("instrument = %q %q", tx.Code, tx.Name)
	}
	if tx.Kind != Buy || tx.Date != MustParse("2020-01-31") {
		t.Errorf("kind/date = %s %s", tx.Kind, tx.Date)
	}
	if !tx.Quantity.Equal(Q(9)) {
		t.Errorf("Quantity = %s, want 9 (no split for UBER)", tx.Quantity)
	}
	if !tx.Gross.Equal(USD(324)) {
		t.Errorf("Gross = %s, want 324 USD", tx.Gross)
	}
}

func TestReadStatement_SkipsBadLines(t *testing.T) {
	input := strings.Join([]string{
		uberLine,
		"", // blank lines are fine
		"this is not a statement line",
		"01/31/2020 02/04/2020 USD SHORT UBER - UBER TECHNOLOGIES INC COM - x 9 36.01 324.0", // unknown kind
		"03/11/2020 03/13/2020 USD SELL UBER - UBER TECHNOLOGIES INC COM - TRD UBER S (9) at 30.00 Agency. (9) 30.00 270.0",
	}, "\n")

	txs := ReadStatement(strings.NewReader(input), DefaultSplits())
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2 (bad lines skipped, batch continues)", len(txs))
	}
	if txs[0].Kind != Buy || txs[1].Kind != Sell {
		t.Errorf("kinds = %s, %s; want BUY, SELL", txs[0].Kind, txs[1].Kind)
	}
	if !txs[1].Quantity.Equal(Q(-9)) {
		t.Errorf("sell Quantity = %s, want -9", txs[1].Quantity)
	}
}
