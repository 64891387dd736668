package core

import (
	"bytes"
	"testing"
)

func TestDynamicTyping(t *testing.T) {
	conn := openMemory(t)
	mustExec(t, conn, "create table Mixed (Value)")
	mustExec(t, conn, "insert into Mixed values (?)", 255)
	mustExec(t, conn, "insert into Mixed values (?)", 75.3325)
	mustExec(t, conn, "insert into Mixed values (?)", "Eduardo")
	mustExec(t, conn, "insert into Mixed values (?)", []byte("raw"))
	mustExec(t, conn, "insert into Mixed values (?)", nil)

	s, err := conn.Prepare("select Value from Mixed order by rowid")
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	defer s.Close()

	want := []Type{TypeInteger, TypeFloat, TypeText, TypeBlob, TypeNull}
	var got []Type
	for row, err := range s.Rows() {
		if err != nil {
			t.Fatalf("iteration failed: %v", err)
		}
		got = append(got, row.Type(0))
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestColumnConversions(t *testing.T) {
	conn := openMemory(t)
	s, err := conn.Prepare("select 255, 75.3325, '12abc', '2.5kg', null, x'4869', 1e20")
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	defer s.Close()
	if _, err := s.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	if s.Text(0) != "255" || s.Float(0) != 255 {
		t.Errorf("integer conversions: %q %v", s.Text(0), s.Float(0))
	}
	if s.Text(1) != "75.3325" || s.Int(1) != 75 {
		t.Errorf("float conversions: %q %d", s.Text(1), s.Int(1))
	}
	if s.Int(2) != 12 || s.Float(2) != 12 {
		t.Errorf("text prefix conversions: %d %v", s.Int(2), s.Float(2))
	}
	if s.Float(3) != 2.5 {
		t.Errorf("real text conversion: %v", s.Float(3))
	}
	if s.Int(4) != 0 || s.Float(4) != 0 || s.Text(4) != "" || s.Blob(4) != nil {
		t.Error("NULL must read as zero values")
	}
	if s.Text(5) != "Hi" || s.TextLen(5) != 2 {
		t.Errorf("blob as text: %q", s.Text(5))
	}
	if s.Text(6) != "1.0e+20" {
		t.Errorf("large real as text: %q", s.Text(6))
	}
	if s.Type(7) != TypeNull || s.Text(-1) != "" {
		t.Error("out of range columns must read as NULL")
	}
}

// Declared column types only carry affinity; every stored value reads back
// as the class and value it was stored with.
func TestDeclaredTypeColumns(t *testing.T) {
	conn := openMemory(t)
	mustExec(t, conn, "create table Events (Flag boolean, At datetime, Stamp timestamp, Day date)")
	mustExec(t, conn, "insert into Events values (?, ?, ?, ?)", 255, "Eduardo", "2024-05-01 10:30:00", 75.3325)
	mustExec(t, conn, "insert into Events values (?, ?, ?, ?)", -7, int64(1700000000123), nil, []byte{1})

	s, err := conn.Prepare("select Flag, At, Stamp, Day from Events order by rowid")
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	defer s.Close()

	t.Run("FirstRow", func(t *testing.T) {
		if row, err := s.Step(); err != nil || !row {
			t.Fatalf("expected row, got %v %v", row, err)
		}
		if s.Type(0) != TypeInteger || s.Int(0) != 255 {
			t.Errorf("boolean column: got %d (%v)", s.Int(0), s.Type(0))
		}
		if s.Type(1) != TypeText || s.Text(1) != "Eduardo" {
			t.Errorf("datetime column: got %q (%v)", s.Text(1), s.Type(1))
		}
		if s.Type(2) != TypeText || s.Text(2) != "2024-05-01 10:30:00" {
			t.Errorf("timestamp column: got %q (%v)", s.Text(2), s.Type(2))
		}
		if s.Type(3) != TypeFloat || s.Float(3) != 75.3325 {
			t.Errorf("date column: got %v (%v)", s.Float(3), s.Type(3))
		}
	})

	t.Run("SecondRow", func(t *testing.T) {
		if row, err := s.Step(); err != nil || !row {
			t.Fatalf("expected row, got %v %v", row, err)
		}
		if s.Type(0) != TypeInteger || s.Int(0) != -7 {
			t.Errorf("boolean column: got %d (%v)", s.Int(0), s.Type(0))
		}
		if s.Type(1) != TypeInteger || s.Int(1) != 1700000000123 {
			t.Errorf("datetime column: got %d (%v)", s.Int(1), s.Type(1))
		}
		if !s.IsNull(2) {
			t.Errorf("timestamp column: expected NULL, got %v", s.Type(2))
		}
		if s.Type(3) != TypeBlob || !bytes.Equal(s.Blob(3), []byte{1}) {
			t.Errorf("date column: got %v (%v)", s.Blob(3), s.Type(3))
		}
	})
}
