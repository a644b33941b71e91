package advice

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Value is an aggregate that may be absent. The zero Value is absent.
type Value struct {
	v  float64
	ok bool
}

// Some returns a present Value.
func Some(v float64) Value { return Value{v: v, ok: true} }

// None returns an absent Value.
func None() Value { return Value{} }

// Get returns the value and whether it is present.
func (v Value) Get() (float64, bool) { return v.v, v.ok }

// Present reports whether the value is defined.
func (v Value) Present() bool { return v.ok }

// String renders a present value in its shortest form with at least one
// decimal ("-3.0", "12.35"). Absent values render as "none".
func (v Value) String() string {
	if !v.ok {
		return "none"
	}
	s := strconv.FormatFloat(v.v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// MarshalJSON encodes absent values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}
