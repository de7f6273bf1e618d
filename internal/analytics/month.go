package analytics

import (
	"errors"
	"strings"
)

// ErrInvalidMonth is returned for anything that is not a full English month name.
var ErrInvalidMonth = errors.New("invalid month name")

var monthNames = [12]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// MonthNumber maps a case-insensitive month name to 1..12.
func MonthNumber(name string) (int, error) {
	lower := strings.ToLower(name)
	for i, m := range monthNames {
		if m == lower {
			return i + 1, nil
		}
	}
	return 0, ErrInvalidMonth
}
