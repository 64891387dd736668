package core

import (
	"fmt"
	"time"
	"unicode/utf16"

	"zombiezen.com/go/sqlite"

	"github.com/shrek82/jlite/handle"
	"github.com/shrek82/jlite/internal/assert"
	"github.com/shrek82/jlite/logger"
)

// stmtState is the position of a Statement's execution cursor.
type stmtState uint8

const (
	stateUnprepared stmtState = iota
	stateReady
	stateRow
	stateDone
	stateFailed
)

func (s stmtState) String() string {
	switch s {
	case stateReady:
		return "ready"
	case stateRow:
		return "row"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unprepared"
	}
}

// stmtPolicy finalizes prepared statements.
type stmtPolicy struct {
	log logger.Logger
}

func (stmtPolicy) Invalid() *sqlite.Stmt { return nil }

func (p stmtPolicy) Close(s *sqlite.Stmt) error {
	err := s.Finalize()
	if err != nil && p.log != nil {
		p.log.Warn("finalize statement: %v", err)
	}
	return err
}

// Statement owns one prepared query.
//
// Step advances the query; while it reports a row, the column accessors read
// that row. Reset rewinds the query so it can run again. A Statement refers
// to, but does not own, the Connection it was prepared against; the
// Connection must outlive it.
type Statement struct {
	reader
	handle handle.Handle[*sqlite.Stmt, stmtPolicy]
	conn   *Connection
	query  string
	state  stmtState
	params []Value

	// running is set once the parameters were handed to the engine and
	// cleared when the engine statement is reset.
	running bool
	gen     uint64
	err     error

	started time.Time
	args    []any
}

// Prepare compiles query against conn and binds values to its parameters,
// starting at position 1.
func Prepare(conn *Connection, query string, values ...any) (*Statement, error) {
	s := &Statement{}
	if err := s.Prepare(conn, query, values...); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// PrepareWide is Prepare for UTF-16 encoded query text.
func PrepareWide(conn *Connection, query []uint16, values ...any) (*Statement, error) {
	return Prepare(conn, string(utf16.Decode(query)), values...)
}

// Prepare compiles query against conn and binds values to its parameters.
// Preparing a Statement that is already prepared is a programming error.
// Only the first SQL statement of query is compiled.
func (s *Statement) Prepare(conn *Connection, query string, values ...any) error {
	assert.That(conn != nil, "prepare against a nil connection")
	if !conn.Valid() {
		return ErrConnectionClosed
	}
	s.handle.Init(stmtPolicy{log: conn.log()}, nil)
	slot := s.handle.SetSlot()

	st, _, err := conn.Handle().PrepareTransient(query)
	if err != nil {
		err = engineError(err)
		conn.log().Error("prepare %q: %v", query, err)
		return err
	}
	if st == nil {
		return fmt.Errorf("prepare %q: no SQL statement", query)
	}
	*slot = st

	s.reader = reader{stmt: s}
	s.conn = conn
	s.query = query
	s.state = stateReady
	s.params = make([]Value, st.BindParamCount())
	return s.BindAll(values...)
}

// Valid reports whether the statement is prepared.
func (s *Statement) Valid() bool {
	return s.handle.Valid()
}

// Handle returns the prepared statement without giving up ownership.
func (s *Statement) Handle() *sqlite.Stmt {
	return s.handle.Get()
}

// Conn returns the Connection the statement was prepared against.
func (s *Statement) Conn() *Connection {
	return s.conn
}

// SQL returns the query text the statement was prepared from.
func (s *Statement) SQL() string {
	return s.query
}

// ParamCount returns the number of bind positions.
func (s *Statement) ParamCount() int {
	return len(s.params)
}

// Bind sets the parameter at position, counted from 1, to value.
// See ValueOf for the accepted Go types.
//
// Binding is only possible while the statement is ready to step: right after
// Prepare or Reset. Binding while a row is pending or after completion fails
// with SQLITE_MISUSE, an unknown position with SQLITE_RANGE.
func (s *Statement) Bind(position int, value any) error {
	if !s.Valid() {
		return ErrStatementNotPrepared
	}
	if s.state != stateReady {
		return newEngineError(sqlite.ResultMisuse)
	}
	if position < 1 || position > len(s.params) {
		return newEngineError(sqlite.ResultRange)
	}
	v, err := ValueOf(value)
	if err != nil {
		return err
	}
	s.params[position-1] = v
	return nil
}

// BindAll binds values to positions 1, 2, ... in order. It stops at the
// first failure.
func (s *Statement) BindAll(values ...any) error {
	for i, v := range values {
		if err := s.Bind(i+1, v); err != nil {
			return fmt.Errorf("bind parameter %d: %w", i+1, err)
		}
	}
	return nil
}

// ClearBindings sets every parameter back to NULL.
func (s *Statement) ClearBindings() error {
	if !s.Valid() {
		return ErrStatementNotPrepared
	}
	if s.state != stateReady {
		return newEngineError(sqlite.ResultMisuse)
	}
	clear(s.params)
	return nil
}

// Step advances the statement. It returns true when a result row is
// available and false when execution completed.
//
// Any other engine outcome is returned as an *EngineError and leaves the
// statement failed: further Steps return the same error until Reset. Once
// Step has returned false, it returns ErrStatementDone until Reset.
func (s *Statement) Step() (bool, error) {
	if !s.Valid() {
		return false, ErrStatementNotPrepared
	}
	switch s.state {
	case stateDone:
		return false, ErrStatementDone
	case stateFailed:
		return false, s.err
	}

	if !s.running {
		s.start()
	}
	row, err := s.Handle().Step()
	if err != nil {
		return false, s.fail(err)
	}
	if !row {
		s.finish()
		return false, nil
	}
	s.state = stateRow
	s.gen++
	return true, nil
}

// start hands the bound parameters to the engine. Borrowed values are read
// at this point. Unset positions bind NULL.
func (s *Statement) start() {
	st := s.Handle()
	s.args = make([]any, len(s.params))
	for i, p := range s.params {
		p.bind(st, i+1)
		s.args[i] = p.resolve()
	}
	s.started = time.Now()
	s.running = true
}

func (s *Statement) finish() {
	s.state = stateDone
	s.gen++
	elapsed := time.Since(s.started)
	log := s.log()
	log.SQL(s.query, elapsed, s.args...)
	if t := s.conn.opts.SlowThreshold; t > 0 && elapsed > t {
		log.Warn("slow statement: duration=%v | sql=%s | args=%v", elapsed, s.query, s.args)
	}
}

func (s *Statement) fail(err error) error {
	s.state = stateFailed
	s.gen++
	s.err = engineError(err)
	s.log().Error("step %q: %v", s.query, s.err)
	return s.err
}

// Execute steps the statement once, for statements that produce no rows such
// as DDL and DML. A produced row is a misuse reported as ErrUnexpectedRow;
// jlitedebug builds panic instead.
func (s *Statement) Execute() error {
	row, err := s.Step()
	if err != nil {
		return err
	}
	if row {
		assert.Debug(false, "execute of %q produced a row", s.query)
		return ErrUnexpectedRow
	}
	return nil
}

// Reset rewinds the statement so it can be stepped again and binds values
// to positions 1, 2, ... Positions not given keep their previous value;
// use ClearBindings to drop them.
func (s *Statement) Reset(values ...any) error {
	if !s.Valid() {
		return ErrStatementNotPrepared
	}
	err := s.rewind()
	s.state = stateReady
	s.err = nil
	s.gen++
	if err != nil {
		return engineError(err)
	}
	return s.BindAll(values...)
}

// Close finalizes the statement. Close never fails; a failure reported by
// the engine is logged and otherwise dropped. Close on an unprepared
// Statement does nothing.
func (s *Statement) Close() {
	if !s.Valid() {
		return
	}
	s.rewind()
	s.handle.Close()
	s.state = stateUnprepared
	s.gen++
	s.params = nil
}

// rewind resets the engine statement. The failure an engine reset repeats
// after a failed step was already reported by Step.
func (s *Statement) rewind() error {
	if !s.running {
		return nil
	}
	failed := s.state == stateFailed
	err := s.Handle().Reset()
	s.running = false
	if failed {
		return nil
	}
	return err
}

// ColumnCount returns the number of result columns.
func (s *Statement) ColumnCount() int {
	if !s.Valid() {
		return 0
	}
	return s.Handle().ColumnCount()
}

// ColumnName returns the name of result column i, or "" when out of range.
func (s *Statement) ColumnName(i int) string {
	if i < 0 || i >= s.ColumnCount() {
		return ""
	}
	return s.Handle().ColumnName(i)
}

func (s *Statement) log() logger.Logger {
	if s.conn == nil {
		return defaultLogger
	}
	return s.conn.log()
}
