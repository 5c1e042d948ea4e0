package importer

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementParser_Parse(t *testing.T) {
	f, err := os.Open("../../testdata/bank.csv")
	require.NoError(t, err)
	defer f.Close()

	p := &StatementParser{}
	rows, err := p.Parse(f)
	require.NoError(t, err)
	require.Len(t, rows, 9)

	first := rows[0]
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "2025.03.01 09:12:44", first.Fields[ColTimestamp], "BOM should be stripped")
	assert.Equal(t, "입금", first.Fields[ColType])
	assert.Equal(t, "1,500,000", first.Fields[ColAmount])
	assert.Equal(t, NumFields, first.Width)
}

func TestStatementParser_BOM(t *testing.T) {
	p := &StatementParser{}
	rows, err := p.Parse(strings.NewReader("\ufeff2025.01.02 10:00:00,입금,\"10,000\",\"10,000\",이체,회사,\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025.01.02 10:00:00", rows[0].Fields[ColTimestamp])
	assert.Equal(t, "10,000", rows[0].Fields[ColAmount])
}

func TestStatementParser_ShortAndLongRows(t *testing.T) {
	csv := "2025.01.02 10:00:00,출금,-500\n" +
		"2025.01.02 11:00:00,출금,-500,1000,식비,GS25,memo,extra\n"
	p := &StatementParser{}
	rows, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 3, rows[0].Width)
	assert.Len(t, rows[0].Fields, NumFields)
	assert.Equal(t, "", rows[0].Fields[ColCounterparty])

	assert.Equal(t, 8, rows[1].Width)
	assert.Len(t, rows[1].Fields, NumFields)
	assert.Equal(t, "memo", rows[1].Fields[ColMemo])
	assert.Equal(t, 2, rows[1].Line)
}

func TestStatementParser_EmptyFile(t *testing.T) {
	p := &StatementParser{}
	rows, err := p.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestStatementParser_LazyQuotes(t *testing.T) {
	p := &StatementParser{}
	rows, err := p.Parse(strings.NewReader("2025.01.02 10:00:00,출금,-500,1000,식비,그\"집,\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "그\"집", rows[0].Fields[ColCounterparty])
}

func TestStatementParser_Format(t *testing.T) {
	p := &StatementParser{}
	assert.Equal(t, "bank", p.Format())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&StatementParser{})
	p := r.Get("bank")
	require.NotNil(t, p)
	assert.Equal(t, "bank", p.Format())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&StatementParser{})
	assert.NotNil(t, r.Get("Bank"))
	assert.NotNil(t, r.Get("BANK"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&StatementParser{})
	assert.Panics(t, func() { r.Register(&StatementParser{}) })
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("bank"))
}
