package taxrevo

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  Date
		err   bool
	}{
		{"2020-03-11", NewDate(2020, time.March, 11), false},
		{"2020-3-1", NewDate(2020, time.March, 1), false},
		{"03/11/2020", Date{}, true},
		{"not-a-date", Date{}, true},
		{"", Date{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.err {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.err)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseStatementDate(t *testing.T) {
	got, err := ParseStatementDate("01/31/2020")
	if err != nil {
		t.Fatalf("ParseStatementDate() error = %v", err)
	}
	if want := NewDate(2020, time.January, 31); got != want {
		t.Errorf("ParseStatementDate() = %v, want %v", got, want)
	}
	if _, err := ParseStatementDate("2020-01-31"); err == nil {
		t.Error("ParseStatementDate() accepted an ISO date")
	}
}

func TestDate_Add(t *testing.T) {
	tests := []struct {
		from Date
		days int
		want Date
	}{
		{NewDate(2021, time.January, 11), -1, NewDate(2021, time.January, 10)},
		{NewDate(2021, time.March, 1), -1, NewDate(2021, time.February, 28)},
		{NewDate(2020, time.March, 1), -1, NewDate(2020, time.February, 29)}, // leap year
		{NewDate(2020, time.December, 31), 1, NewDate(2021, time.January, 1)},
	}
	for _, tt := range tests {
		if got := tt.from.Add(tt.days); got != tt.want {
			t.Errorf("%v.Add(%d) = %v, want %v", tt.from, tt.days, got, tt.want)
		}
	}
}

func TestDate_Ordering(t *testing.T) {
	a, b := NewDate(2020, time.August, 31), NewDate(2020, time.September, 1)
	if !a.Before(b) || b.Before(a) {
		t.Errorf("Before() inconsistent for %v, %v", a, b)
	}
	if !b.After(a) || a.After(b) {
		t.Errorf("After() inconsistent for %v, %v", a, b)
	}
	if a.After(a) || a.Before(a) {
		t.Error("a date compares against itself")
	}
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		On Date `json:"on"`
	}
	var w wrapper
	if err := json.Unmarshal([]byte(`{"on":"2020-03-11"}`), &w); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if want := NewDate(2020, time.March, 11); w.On != want {
		t.Errorf("Unmarshal() = %v, want %v", w.On, want)
	}
	out, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"on":"2020-03-11"}` {
		t.Errorf("Marshal() = %s", out)
	}
}
