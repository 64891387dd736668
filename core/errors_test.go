package core

import (
	"errors"
	"fmt"
	"testing"

	"zombiezen.com/go/sqlite"
)

func TestEngineError(t *testing.T) {
	err := newEngineError(sqlite.ResultRange)
	if err.Code != 25 || err.ExtendedCode != 25 {
		t.Errorf("unexpected codes %d/%d", err.Code, err.ExtendedCode)
	}
	if err.Error() != "column index out of range (code 25)" {
		t.Errorf("unexpected message %q", err.Error())
	}

	wrapped := fmt.Errorf("bind parameter 3: %w", err)
	if Code(wrapped) != sqlite.ResultRange {
		t.Errorf("expected wrapped error to carry SQLITE_RANGE, got %v", Code(wrapped))
	}
	var ee *EngineError
	if !errors.As(wrapped, &ee) || ee != err {
		t.Error("expected errors.As to find the EngineError")
	}
}

func TestCode(t *testing.T) {
	if Code(nil) != sqlite.ResultOK {
		t.Errorf("expected SQLITE_OK for nil, got %v", Code(nil))
	}
	if Code(errors.New("boom")) != sqlite.ResultError {
		t.Errorf("expected SQLITE_ERROR for a foreign error")
	}
	if Code(ErrConnectionClosed) != sqlite.ResultError {
		t.Errorf("expected SQLITE_ERROR for a jlite sentinel")
	}
}

func TestEngineErrorConversion(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		if engineError(nil) != nil {
			t.Error("expected nil")
		}
	})

	t.Run("EngineFailure", func(t *testing.T) {
		conn := openMemory(t)
		mustExec(t, conn, "create table Users (Name text unique)")
		mustExec(t, conn, "insert into Users values (?)", "Eduardo")

		s, err := conn.Prepare("insert into Users values (?)", "Eduardo")
		if err != nil {
			t.Fatalf("prepare failed: %v", err)
		}
		defer s.Close()
		err = s.Execute()
		var ee *EngineError
		if !errors.As(err, &ee) {
			t.Fatalf("expected EngineError, got %T", err)
		}
		if ee.Code != 19 || ee.ExtendedCode != 2067 {
			t.Errorf("unexpected codes %d/%d", ee.Code, ee.ExtendedCode)
		}
		if ee.Unwrap() == nil {
			t.Error("expected the engine error to be kept")
		}
	})

	t.Run("AlreadyConverted", func(t *testing.T) {
		src := newEngineError(sqlite.ResultMisuse)
		if engineError(fmt.Errorf("wrapped: %w", src)) != src {
			t.Error("expected the existing EngineError to be returned")
		}
	})

	t.Run("ForeignError", func(t *testing.T) {
		src := errors.New("boom")
		err := engineError(src)
		if Code(err) != sqlite.ResultError || !errors.Is(err, src) {
			t.Errorf("expected generic engine error wrapping the source, got %v", err)
		}
	})
}
