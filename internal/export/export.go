// Package export writes the daily table and the normalized transactions as
// CSV or JSON.
package export

import (
	"fmt"
	"strings"
)

// Format is an export encoding.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	switch f {
	case FormatText, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, csv or json)", s)
}
