package core

import (
	"errors"
	"iter"

	"github.com/shrek82/jlite/internal/assert"
)

// Row is a read-only view of the row a Statement is positioned on.
//
// A Row does not own anything and is only valid until its Statement steps
// again, is reset or is closed. Reading it after that panics.
type Row struct {
	reader
}

// Valid reports whether the row can still be read.
func (r Row) Valid() bool {
	return r.stmt != nil && r.stmt.state == stateRow && r.step == r.stmt.gen
}

// RowIterator is a forward-only cursor over the rows of one Statement.
// A live cursor always sits on a row; the exhausted cursor is End().
type RowIterator struct {
	stmt *Statement
}

// Begin steps stmt once and returns a cursor on the first row, or End() when
// there is none. A statement that already ran to completion yields End()
// until it is Reset.
func Begin(stmt *Statement) (RowIterator, error) {
	row, err := stmt.Step()
	if errors.Is(err, ErrStatementDone) {
		return End(), nil
	}
	if err != nil || !row {
		return End(), err
	}
	return RowIterator{stmt: stmt}, nil
}

// End returns the exhausted cursor.
func End() RowIterator {
	return RowIterator{}
}

// Next moves the cursor to the following row, or makes it End() when the
// statement completes or fails.
func (it *RowIterator) Next() error {
	assert.That(it.stmt != nil, "advance of an exhausted row cursor")
	row, err := it.stmt.Step()
	if err != nil || !row {
		it.stmt = nil
	}
	return err
}

// Row returns a view of the current row.
func (it RowIterator) Row() Row {
	assert.That(it.stmt != nil, "dereference of an exhausted row cursor")
	return Row{reader{stmt: it.stmt, step: it.stmt.gen}}
}

// Equal reports whether both cursors are at the same position.
func (it RowIterator) Equal(other RowIterator) bool {
	return it.stmt == other.stmt
}

// Done reports whether the cursor is exhausted.
func (it RowIterator) Done() bool {
	return it.Equal(End())
}

// Rows returns the remaining rows of s as a single-pass sequence. Each step
// happens as the consumer asks for the next row. An engine failure is
// yielded once, with a zero Row, and ends the sequence.
//
//	for row, err := range stmt.Rows() {
//		if err != nil {
//			return err
//		}
//		names = append(names, row.Text(0))
//	}
func (s *Statement) Rows() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		it, err := Begin(s)
		if err != nil {
			yield(Row{}, err)
			return
		}
		for !it.Done() {
			if !yield(it.Row(), nil) {
				return
			}
			if err := it.Next(); err != nil {
				yield(Row{}, err)
				return
			}
		}
	}
}
