// Package table holds the in-memory model of a spreadsheet table and the
// column alignment used to stack tables with different layouts.
package table

import (
	"strconv"
	"time"
)

// Kind identifies which variant a Value carries.
type Kind uint8

const (
	// KindMissing marks a cell with no value: blank in the source file or
	// introduced by alignment.
	KindMissing Kind = iota
	KindString
	KindNumber
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	}
	return "unknown"
}

// Value is a single cell. The zero Value is Missing.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	t    time.Time
}

func Missing() Value { return Value{} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the number held by v and whether v is a Number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Text returns the string held by v and whether v is a String.
func (v Value) Text() (string, bool) { return v.str, v.kind == KindString }

// Timestamp returns the time held by v and whether v is a Time.
func (v Value) Timestamp() (time.Time, bool) { return v.t, v.kind == KindTime }

// DateOnly reports whether v is a Time whose clock reads midnight.
func (v Value) DateOnly() bool {
	return v.kind == KindTime &&
		v.t.Hour() == 0 && v.t.Minute() == 0 && v.t.Second() == 0 && v.t.Nanosecond() == 0
}

// Interface returns the Go value to hand to a spreadsheet writer. Missing
// yields nil so the cell is left blank.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	}
	return nil
}

// String renders v as text. Missing renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindTime:
		if v.DateOnly() {
			return v.t.Format(time.DateOnly)
		}
		return v.t.Format(time.RFC3339)
	}
	return ""
}

// Equal reports whether v and o hold the same variant and value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	}
	return true
}
