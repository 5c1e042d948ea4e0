package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// StatementParser reads the headerless seven-column export
// (timestamp, type, amount, balance, category, counterparty, memo).
type StatementParser struct{}

// Format returns the parser name.
func (p *StatementParser) Format() string { return "bank" }

// Parse reads every line of the export. A leading UTF-8 BOM is dropped.
// Short lines are padded with empty fields and long lines truncated; Width
// keeps the original count.
func (p *StatementParser) Parse(r io.Reader) ([]Row, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading bank CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, newRow(line, rec))
	}
	return rows, nil
}

func newRow(line int, rec []string) Row {
	fields := make([]string, NumFields)
	copy(fields, rec)
	return Row{Line: line, Fields: fields, Width: len(rec)}
}
