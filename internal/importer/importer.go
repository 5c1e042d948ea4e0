package importer

import (
	"io"
	"strings"
)

// NumFields is the column count of a bank export row.
const NumFields = 7

// Positional columns of a bank export.
const (
	ColTimestamp = iota
	ColType
	ColAmount
	ColBalance
	ColCategory
	ColCounterparty
	ColMemo
)

// Row is one raw export line. Fields is always NumFields long; Width is the
// number of fields the source line actually had.
type Row struct {
	Line   int
	Fields []string
	Width  int
}

// Parser converts a bank export into raw rows.
type Parser interface {
	Parse(r io.Reader) ([]Row, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&StatementParser{})
	return r
}
