package core

import (
	"unicode/utf16"

	"zombiezen.com/go/sqlite"

	"github.com/shrek82/jlite/internal/assert"
)

// Type is the storage class of a single cell. SQLite types values, not
// columns, so one column may report different types on different rows.
type Type int

// Storage classes, numbered as SQLite numbers them.
const (
	TypeInteger Type = 1
	TypeFloat   Type = 2
	TypeText    Type = 3
	TypeBlob    Type = 4
	TypeNull    Type = 5
)

func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeText:
		return "Text"
	case TypeBlob:
		return "Blob"
	case TypeNull:
		return "Null"
	default:
		return "Invalid"
	}
}

// reader implements the column accessors shared by Row and Statement.
// A zero step reads whatever row the statement is on; otherwise the statement
// must still be on the row that step identifies.
//
// Cells are read with the engine's column functions, so conversions between
// storage classes are the engine's. As with the engine, the Type of a cell is
// only reliable before it has been read as another class.
type reader struct {
	stmt *Statement
	step uint64
}

// column returns the engine statement positioned on the row, and whether col
// names one of its columns.
func (r reader) column(col int) (*sqlite.Stmt, bool) {
	s := r.stmt
	assert.That(s != nil && s.state == stateRow, "column read while the statement has no current row")
	assert.That(r.step == 0 || r.step == s.gen, "row read after its statement moved on")
	st := s.Handle()
	return st, col >= 0 && col < st.ColumnCount()
}

// Type returns the storage class of column col in the current row.
// Out of range columns read as NULL.
func (r reader) Type(col int) Type {
	st, ok := r.column(col)
	if !ok {
		return TypeNull
	}
	return Type(st.ColumnType(col))
}

// IsNull reports whether column col is NULL.
func (r reader) IsNull(col int) bool {
	return r.Type(col) == TypeNull
}

// Int returns column col as an integer.
func (r reader) Int(col int) int64 {
	st, ok := r.column(col)
	if !ok {
		return 0
	}
	return st.ColumnInt64(col)
}

// Float returns column col as a float.
func (r reader) Float(col int) float64 {
	st, ok := r.column(col)
	if !ok {
		return 0
	}
	return st.ColumnFloat(col)
}

// Text returns column col as UTF-8 text. NULL reads as "".
func (r reader) Text(col int) string {
	st, ok := r.column(col)
	if !ok {
		return ""
	}
	return st.ColumnText(col)
}

// TextLen returns the length of column col as UTF-8 text, in bytes.
func (r reader) TextLen(col int) int {
	st, ok := r.column(col)
	if !ok {
		return 0
	}
	return st.ColumnLen(col)
}

// WideText returns column col as UTF-16 text.
func (r reader) WideText(col int) []uint16 {
	return utf16.Encode([]rune(r.Text(col)))
}

// WideTextLen returns the length of column col as UTF-16 text, in code units.
func (r reader) WideTextLen(col int) int {
	return len(r.WideText(col))
}

// Blob returns a copy of column col as bytes. NULL reads as nil.
func (r reader) Blob(col int) []byte {
	st, ok := r.column(col)
	if !ok || st.ColumnType(col) == sqlite.TypeNull {
		return nil
	}
	buf := make([]byte, st.ColumnLen(col))
	st.ColumnBytes(col, buf)
	return buf
}
