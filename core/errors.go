package core

import (
	"errors"
	"fmt"

	"zombiezen.com/go/sqlite"
)

var (
	// ErrConnectionClosed is returned when an operation needs an open session but the Connection holds none.
	ErrConnectionClosed = errors.New("connection is not open")
	// ErrStatementNotPrepared is returned when a Statement is used before Prepare or after Close.
	ErrStatementNotPrepared = errors.New("statement is not prepared")
	// ErrStatementDone is returned by Step once execution has completed and the Statement was not Reset.
	ErrStatementDone = errors.New("statement execution is complete")
	// ErrUnexpectedRow is returned by Execute when the statement produced a result row.
	ErrUnexpectedRow = errors.New("statement produced a row")
	// ErrUnsupportedValue is returned when a bind value has no SQLite representation.
	ErrUnsupportedValue = errors.New("unsupported bind value")
)

// EngineError is a failure reported by the SQLite engine.
// Code is the primary result code and ExtendedCode the extended one,
// both as documented at https://www.sqlite.org/rescode.html.
type EngineError struct {
	Code         int
	ExtendedCode int
	Message      string
	err          error
}

// Error returns the engine message followed by its extended code.
func (e *EngineError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.ExtendedCode)
}

// Unwrap returns the engine error this EngineError was built from, if any.
func (e *EngineError) Unwrap() error {
	return e.err
}

// Code returns the extended result code carried by err. Nil reads as
// SQLITE_OK and errors the engine did not report as SQLITE_ERROR.
func Code(err error) sqlite.ResultCode {
	if err == nil {
		return sqlite.ResultOK
	}
	var ee *EngineError
	if errors.As(err, &ee) {
		return sqlite.ResultCode(ee.ExtendedCode)
	}
	return sqlite.ErrCode(err)
}

// newEngineError builds an EngineError for a condition detected by jlite
// itself, worded the way the engine words it.
func newEngineError(code sqlite.ResultCode) *EngineError {
	return &EngineError{
		Code:         int(code.ToPrimary()),
		ExtendedCode: int(code),
		Message:      code.Message(),
	}
}

// engineError converts an engine error into an *EngineError. Errors that
// carry no result code are reported as SQLITE_ERROR.
func engineError(err error) error {
	if err == nil {
		return nil
	}
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee
	}
	code := sqlite.ErrCode(err)
	return &EngineError{
		Code:         int(code.ToPrimary()),
		ExtendedCode: int(code),
		Message:      err.Error(),
		err:          err,
	}
}
