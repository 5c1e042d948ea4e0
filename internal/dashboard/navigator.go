package dashboard

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
)

// ErrOutOfRange is returned for a date outside the export.
var ErrOutOfRange = errors.New("date out of range")

// Navigator walks the contiguous dates of a daily table.
type Navigator struct {
	dates []civil.Date
	pos   int
}

// NewNavigator selects the latest of dates, which must be contiguous and
// ascending as in a daily table.
func NewNavigator(dates []civil.Date) (*Navigator, error) {
	if len(dates) == 0 {
		return nil, ErrNoDates
	}
	return &Navigator{dates: dates, pos: len(dates) - 1}, nil
}

// Selected returns the current date.
func (n *Navigator) Selected() civil.Date { return n.dates[n.pos] }

// First returns the earliest date.
func (n *Navigator) First() civil.Date { return n.dates[0] }

// Last returns the latest date.
func (n *Navigator) Last() civil.Date { return n.dates[len(n.dates)-1] }

// HasPrev reports whether Prev would move.
func (n *Navigator) HasPrev() bool { return n.pos > 0 }

// HasNext reports whether Next would move.
func (n *Navigator) HasNext() bool { return n.pos < len(n.dates)-1 }

// Prev moves one day back, stopping at the first date.
func (n *Navigator) Prev() civil.Date {
	if n.HasPrev() {
		n.pos--
	}
	return n.Selected()
}

// Next moves one day forward, stopping at the last date.
func (n *Navigator) Next() civil.Date {
	if n.HasNext() {
		n.pos++
	}
	return n.Selected()
}

// Latest jumps to the last date.
func (n *Navigator) Latest() civil.Date {
	n.pos = len(n.dates) - 1
	return n.Selected()
}

// Pick selects date, clamped to the first and last dates.
func (n *Navigator) Pick(date civil.Date) civil.Date {
	switch {
	case date.Before(n.First()):
		n.pos = 0
	case date.After(n.Last()):
		n.pos = len(n.dates) - 1
	default:
		n.pos = date.DaysSince(n.First())
	}
	return n.Selected()
}

// Goto selects date exactly, failing when it is outside the range.
func (n *Navigator) Goto(date civil.Date) error {
	if date.Before(n.First()) || date.After(n.Last()) {
		return fmt.Errorf("%w: %s not in %s..%s", ErrOutOfRange, date, n.First(), n.Last())
	}
	n.pos = date.DaysSince(n.First())
	return nil
}
