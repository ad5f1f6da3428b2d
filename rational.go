package jinx

import "strings"

// Value is one exact rational machine value: a signed numerator over a
// positive denominator, always in lowest terms, with zero canonically 0/1.
// Values are immutable and only ever combine with values from the same
// Numerics backend.
type Value interface {
	// Sign returns -1, 0, or 1.
	Sign() int
	// Int returns the value as an int64 when it is an exactly representable
	// integer.
	Int() (int64, bool)
	// Cmp orders v against other by cross-multiplication of the reduced
	// pairs: -1, 0, or 1. Floating point is never involved.
	Cmp(other Value) int
	// String formats the value as decimal text: "5", "-7/3", "0".
	String() string
}

// Numerics constructs and combines Values for one arithmetic backend. The
// boolean result of the combining operations and Parse reports a fault: when
// true, the returned value is the backend's canonical zero standing in for
// the unrepresentable result, and the machine charges one curse.
//
// Bounded() keeps numerator and denominator in fixed-width integers and
// faults on overflow; Big() is arbitrary precision and faults only on
// division by zero.
type Numerics interface {
	// Name identifies the backend in logs and dumps.
	Name() string
	// FromInt returns n as a Value.
	FromInt(n int64) Value
	// Parse reads a numeric token of the form [+-]?digits(/digits)?. A
	// malformed token, zero denominator, or out-of-range component faults.
	Parse(token string) (Value, bool)
	// Zero returns the canonical zero, which doubles as the fault policy
	// value.
	Zero() Value

	Add(a, b Value) (Value, bool)
	Sub(a, b Value) (Value, bool)
	Mul(a, b Value) (Value, bool)
	Div(a, b Value) (Value, bool)
	Neg(v Value) (Value, bool)
}

// splitNumeric splits a numeric token into its sign, numerator digits, and
// optional denominator digits; ok is false unless the whole token matches
// [+-]?digits(/digits)?.
func splitNumeric(token string) (neg bool, num, den string, ok bool) {
	if token == "" {
		return false, "", "", false
	}
	switch token[0] {
	case '+':
		token = token[1:]
	case '-':
		neg = true
		token = token[1:]
	}
	num = token
	if i := strings.IndexByte(token, '/'); i >= 0 {
		num, den = token[:i], token[i+1:]
		if !isDigits(den) {
			return false, "", "", false
		}
	}
	if !isDigits(num) {
		return false, "", "", false
	}
	return neg, num, den, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
