package core

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf16"

	"zombiezen.com/go/sqlite"
)

type valueKind uint8

const (
	kindNull valueKind = iota
	kindInt
	kindFloat
	kindText
	kindTextRef
	kindWideRef
	kindBlob
)

// Value is one bind parameter.
//
// Text comes in two flavours. Borrowed values (TextRef, WideText, Blob) keep
// a reference to the caller's slice and read it when the statement next
// steps, so the slice must stay intact until then. Copied values (Text,
// TextCopy, WideTextCopy, BlobCopy) take their own copy at bind time and are
// safe for buffers that are about to be reused.
type Value struct {
	kind valueKind
	i    int64
	f    float64
	s    string
	b    []byte
	w    []uint16
}

// Null is the SQL NULL value.
func Null() Value { return Value{} }

// Int is a 64-bit integer value.
func Int(v int64) Value { return Value{kind: kindInt, i: v} }

// Float is a floating point value.
func Float(v float64) Value { return Value{kind: kindFloat, f: v} }

// Text is an owned text value.
func Text(v string) Value { return Value{kind: kindText, s: v} }

// TextRef borrows UTF-8 text from b until the next step.
func TextRef(b []byte) Value { return Value{kind: kindTextRef, b: b} }

// TextCopy copies UTF-8 text out of b.
func TextCopy(b []byte) Value { return Value{kind: kindText, s: string(b)} }

// WideText borrows UTF-16 text from w until the next step.
func WideText(w []uint16) Value { return Value{kind: kindWideRef, w: w} }

// WideTextCopy copies UTF-16 text out of w.
func WideTextCopy(w []uint16) Value { return Value{kind: kindText, s: string(utf16.Decode(w))} }

// Blob borrows b until the next step. A nil b binds NULL.
func Blob(b []byte) Value {
	if b == nil {
		return Null()
	}
	return Value{kind: kindBlob, b: b}
}

// BlobCopy copies b.
func BlobCopy(b []byte) Value {
	if b == nil {
		return Null()
	}
	return Value{kind: kindBlob, b: slices.Clone(b)}
}

// Type returns the storage class the value binds as.
func (v Value) Type() Type {
	switch v.kind {
	case kindInt:
		return TypeInteger
	case kindFloat:
		return TypeFloat
	case kindText, kindTextRef, kindWideRef:
		return TypeText
	case kindBlob:
		return TypeBlob
	default:
		return TypeNull
	}
}

// resolve returns the Go value the parameter stands for. Borrowed storage is
// read here.
func (v Value) resolve() any {
	switch v.kind {
	case kindInt:
		return v.i
	case kindFloat:
		return v.f
	case kindText:
		return v.s
	case kindTextRef:
		return string(v.b)
	case kindWideRef:
		return string(utf16.Decode(v.w))
	case kindBlob:
		return v.b
	default:
		return nil
	}
}

// bind hands the value to the engine at position pos.
func (v Value) bind(st *sqlite.Stmt, pos int) {
	switch v.kind {
	case kindInt:
		st.BindInt64(pos, v.i)
	case kindFloat:
		st.BindFloat(pos, v.f)
	case kindText, kindTextRef, kindWideRef:
		st.BindText(pos, v.resolve().(string))
	case kindBlob:
		st.BindBytes(pos, v.b)
	default:
		st.BindNull(pos)
	}
}

// ValueOf maps a Go value onto a bind Value.
//
// Integers and bool bind as integers, floats as floats, string as owned text,
// []uint16 as borrowed UTF-16 text, []byte as a borrowed blob and nil as NULL.
// A Value is used as is. Unsigned integers above math.MaxInt64 do not fit
// SQLite's integer and are rejected with ErrUnsupportedValue.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case nil:
		return Null(), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint:
		return uintValue(uint64(x))
	case uint64:
		return uintValue(x)
	case bool:
		if x {
			return Int(1), nil
		}
		return Int(0), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return Text(x), nil
	case []uint16:
		return WideText(x), nil
	case []byte:
		return Blob(x), nil
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func uintValue(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, x)
	}
	return Int(int64(x)), nil
}
