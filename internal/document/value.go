package document

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies what a coerced cell value holds.
type Kind int

const (
	// Null marks an empty or missing value.
	Null Kind = iota
	// Int marks text that parsed as a whole number.
	Int
	// Float marks text containing a decimal point that parsed as a number.
	Float
	// Text marks anything that did not parse as a number.
	Text
)

// Value is the result of coercing a cell's text or attribute.
type Value struct {
	kind Kind
	raw  string
	i    int
	f    float64
}

// Coerce applies the cell coercion rules to raw: text containing a decimal
// point parses as a float, otherwise an integer parse is attempted, and text
// that fails both is kept as-is. Blank text is Null.
func Coerce(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{}
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Value{kind: Float, raw: s, f: f}
		}
		return Value{kind: Text, raw: s}
	}
	if i, err := strconv.Atoi(s); err == nil {
		return Value{kind: Int, raw: s, i: i, f: float64(i)}
	}
	return Value{kind: Text, raw: s}
}

// Kind returns the coerced kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is empty.
func (v Value) IsNull() bool { return v.kind == Null }

// String returns the trimmed source text.
func (v Value) String() string { return v.raw }

// Int returns the integer value. Whole floats are accepted; other kinds
// return nil.
func (v Value) Int() *int {
	switch v.kind {
	case Int:
		n := v.i
		return &n
	case Float:
		if v.f == math.Trunc(v.f) {
			n := int(v.f)
			return &n
		}
	}
	return nil
}

// Float returns the numeric value for Int and Float kinds.
func (v Value) Float() *float64 {
	if v.kind != Int && v.kind != Float {
		return nil
	}
	f := v.f
	return &f
}

// Text returns the source text, or nil for Null.
func (v Value) Text() *string {
	if v.kind == Null {
		return nil
	}
	s := v.raw
	return &s
}
