// Package jlite is a thin ownership layer over SQLite's native statement
// interface.
//
// A Connection owns one engine session, a Statement owns one prepared query,
// and a Row is a borrowed view of the row a Statement is positioned on:
//
//	conn, err := jlite.Memory()
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	if err := conn.Execute("create table Users (Name text)"); err != nil {
//		return err
//	}
//	stmt, err := conn.Prepare("select Name from Users where Name like ?", "A%")
//	if err != nil {
//		return err
//	}
//	defer stmt.Close()
//	for row, err := range stmt.Rows() {
//		if err != nil {
//			return err
//		}
//		fmt.Println(row.Text(0))
//	}
//
// Ownership of engine resources is managed by package handle.
package jlite

import (
	"github.com/shrek82/jlite/core"
)

// Re-export core types and functions
type (
	Connection  = core.Connection
	Statement   = core.Statement
	Row         = core.Row
	RowIterator = core.RowIterator
	Options     = core.Options
	Value       = core.Value
	Type        = core.Type
	EngineError = core.EngineError
)

const (
	MemoryTarget = core.MemoryTarget

	TypeInteger = core.TypeInteger
	TypeFloat   = core.TypeFloat
	TypeText    = core.TypeText
	TypeBlob    = core.TypeBlob
	TypeNull    = core.TypeNull
)

var (
	Open        = core.Open
	OpenWide    = core.OpenWide
	Memory      = core.Memory
	WideMemory  = core.WideMemory
	Prepare     = core.Prepare
	PrepareWide = core.PrepareWide
	Execute     = core.Execute
	Begin       = core.Begin
	End         = core.End
	Code        = core.Code

	// Bind values
	Null         = core.Null
	Int          = core.Int
	Float        = core.Float
	Text         = core.Text
	TextRef      = core.TextRef
	TextCopy     = core.TextCopy
	WideText     = core.WideText
	WideTextCopy = core.WideTextCopy
	Blob         = core.Blob
	BlobCopy     = core.BlobCopy
	ValueOf      = core.ValueOf

	// Errors
	ErrConnectionClosed     = core.ErrConnectionClosed
	ErrStatementNotPrepared = core.ErrStatementNotPrepared
	ErrStatementDone        = core.ErrStatementDone
	ErrUnexpectedRow        = core.ErrUnexpectedRow
	ErrUnsupportedValue     = core.ErrUnsupportedValue
)
