package taxrevo

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Record is one already-parsed brokerage statement line, fields still raw.
type Record struct {
	Date        string // trade date, ISO-8601
	Currency    string
	Kind        string
	Code        string
	Name        string
	Quantity    string
	UnitPrice   string
	GrossAmount string
}

// ParseStatementLine parses one activity line of the form
//
//	01/31/2020 02/04/2020 USD BUY UBER - UBER TECHNOLOGIES INC COM - TRD UBER B 9 at 36.01 Agency. 9 36.01 324.0
//
// into a Record. The first date is the trade date, the last three fields are
// quantity, unit price and gross amount; the instrument is "CODE - NAME - ...".
func ParseStatementLine(line string) (Record, error) {
	head := strings.SplitN(line, " ", 5)
	if len(head) < 5 {
		return Record{}, fmt.Errorf("statement line too short: %q", line)
	}
	tail := strings.Fields(line)
	if len(tail) < 8 {
		return Record{}, fmt.Errorf("statement line too short: %q", line)
	}

	on, err := ParseStatementDate(head[0])
	if err != nil {
		return Record{}, err
	}

	instrument := strings.SplitN(head[4], "-", 3)
	if len(instrument) < 2 {
		return Record{}, fmt.Errorf("no instrument in statement line: %q", line)
	}

	return Record{
		Date:        on.String(),
		Currency:    head[2],
		Kind:        head[3],
		Code:        strings.TrimSpace(instrument[0]),
		Name:        strings.TrimSpace(instrument[1]),
		Quantity:    tail[len(tail)-3],
		UnitPrice:   tail[len(tail)-2],
		GrossAmount: tail[len(tail)-1],
	}, nil
}

// Transaction builds the normalized Transaction for this record.
func (r Record) Transaction(splits SplitCalendar) (*Transaction, error) {
	name := fmt.Sprintf("%s: %s", r.Code, r.Name)
	return NewTransaction(r.Code, name, r.Kind, r.Date, r.GrossAmount, r.Quantity, r.Currency, splits)
}

// ReadStatement reads activity lines from r and returns the transactions it
// could normalize. A record that fails to parse or validate is logged and
// skipped; a single bad line never aborts the batch.
func ReadStatement(r io.Reader, splits SplitCalendar) []*Transaction {
	var txs []*Transaction
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		record, err := ParseStatementLine(line)
		if err != nil {
			log.Printf("skipped line: %v", err)
			continue
		}
		tx, err := record.Transaction(splits)
		if err != nil {
			log.Printf("skipped %q: %v", line, err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs
}

// ReadStatementFiles reads and concatenates the given statement files in order.
func ReadStatementFiles(filenames []string, splits SplitCalendar) ([]*Transaction, error) {
	var txs []*Transaction
	for _, filename := range filenames {
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("could not open statement %q: %w", filename, err)
		}
		txs = append(txs, ReadStatement(f, splits)...)
		f.Close()
	}
	return txs, nil
}
