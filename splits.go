package taxrevo

import (
	"encoding/json"
	"fmt"
	"io"
)

// Split records a corporate stock split for one instrument: trades dated on or
// before Date have their quantity multiplied by Multiplier.
type Split struct {
	Date       Date     `json:"date"`
	Multiplier Quantity `json:"multiplier"`
}

// SplitCalendar indexes splits by instrument code.
type SplitCalendar map[string]Split

// DefaultSplits returns the built-in split calendar.
func DefaultSplits() SplitCalendar {
	return SplitCalendar{
		"TSLA": {Date: MustParse("2020-08-31"), Multiplier: Q(5)},
	}
}

// Multiplier returns the split multiplier for a trade of the given instrument
// on the given date, or 1 when no split applies.
func (c SplitCalendar) Multiplier(code string, on Date) Quantity {
	split, ok := c[code]
	if !ok || on.After(split.Date) {
		return Q(1)
	}
	return split.Multiplier
}

// DecodeSplits decodes a split calendar from its JSON representation.
func DecodeSplits(r io.Reader) (SplitCalendar, error) {
	var c SplitCalendar
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("could not decode split calendar: %w", err)
	}
	for code, split := range c {
		if split.Date.IsZero() || !split.Multiplier.IsPositive() {
			return nil, fmt.Errorf("invalid split for %q: need a date and a positive multiplier", code)
		}
	}
	return c, nil
}

// EncodeSplits writes the split calendar as JSON.
func (c SplitCalendar) EncodeSplits(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
