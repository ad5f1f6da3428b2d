package jinx

import "math/big"

// Big returns the arbitrary-precision numeric backend. Arithmetic never
// overflows; the only fault left is division by zero.
func Big() Numerics { return bigNumerics{} }

type bigNumerics struct{}

func (bigNumerics) Name() string { return "big" }

func (bigNumerics) Zero() Value { return bigRat{new(big.Rat)} }

func (bigNumerics) FromInt(n int64) Value { return bigRat{new(big.Rat).SetInt64(n)} }

func (bigNumerics) Parse(token string) (Value, bool) {
	neg, numStr, denStr, ok := splitNumeric(token)
	if !ok {
		return bigRat{new(big.Rat)}, true
	}
	num, ok := new(big.Int).SetString(numStr, 10)
	if !ok {
		return bigRat{new(big.Rat)}, true
	}
	den := big.NewInt(1)
	if denStr != "" {
		if den, ok = new(big.Int).SetString(denStr, 10); !ok || den.Sign() == 0 {
			return bigRat{new(big.Rat)}, true
		}
	}
	if neg {
		num.Neg(num)
	}
	// big.Rat reduces to lowest terms with a positive denominator
	return bigRat{new(big.Rat).SetFrac(num, den)}, false
}

func (bigNumerics) Add(a, b Value) (Value, bool) {
	return bigRat{new(big.Rat).Add(mustBig(a).r, mustBig(b).r)}, false
}

func (bigNumerics) Sub(a, b Value) (Value, bool) {
	return bigRat{new(big.Rat).Sub(mustBig(a).r, mustBig(b).r)}, false
}

func (bigNumerics) Mul(a, b Value) (Value, bool) {
	return bigRat{new(big.Rat).Mul(mustBig(a).r, mustBig(b).r)}, false
}

func (bigNumerics) Div(a, b Value) (Value, bool) {
	y := mustBig(b)
	if y.r.Sign() == 0 {
		return bigRat{new(big.Rat)}, true
	}
	return bigRat{new(big.Rat).Quo(mustBig(a).r, y.r)}, false
}

func (bigNumerics) Neg(v Value) (Value, bool) {
	return bigRat{new(big.Rat).Neg(mustBig(v).r)}, false
}

type bigRat struct{ r *big.Rat }

func (v bigRat) Sign() int { return v.r.Sign() }

func (v bigRat) Int() (int64, bool) {
	if !v.r.IsInt() || !v.r.Num().IsInt64() {
		return 0, false
	}
	return v.r.Num().Int64(), true
}

func (v bigRat) Cmp(other Value) int { return v.r.Cmp(mustBig(other).r) }

func (v bigRat) String() string { return v.r.RatString() }

func mustBig(v Value) bigRat {
	b, ok := v.(bigRat)
	if !ok {
		panic("jinx: mixed numeric backends")
	}
	return b
}
