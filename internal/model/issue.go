package model

import "fmt"

// IssueSet flags the fields of a row that had to be coerced.
type IssueSet uint8

const (
	IssueTimestamp IssueSet = 1 << iota
	IssueAmount
	IssueBalance
	IssueFieldCount
)

// Has reports whether every flag in f is set.
func (s IssueSet) Has(f IssueSet) bool {
	return s&f == f
}

var issueNames = []struct {
	flag IssueSet
	name string
}{
	{IssueTimestamp, "timestamp"},
	{IssueAmount, "amount"},
	{IssueBalance, "balance"},
	{IssueFieldCount, "fields"},
}

// Names lists the set flags by field name in a fixed order.
func (s IssueSet) Names() []string {
	var out []string
	for _, n := range issueNames {
		if s.Has(n.flag) {
			out = append(out, n.name)
		}
	}
	return out
}

// DataIssue describes one coerced value. Issues never stop a load.
type DataIssue struct {
	Row   int
	Field string
	Value string
}

func (d DataIssue) String() string {
	return fmt.Sprintf("row %d: %s %q", d.Row, d.Field, d.Value)
}
