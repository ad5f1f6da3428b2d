package jinx

import (
	"math"
	"math/bits"
	"strconv"
)

// Bounded returns the fixed-width numeric backend: values are int64
// numerator/denominator pairs in lowest terms. Arithmetic whose reduced
// result does not fit the representation faults rather than wrapping.
func Bounded() Numerics { return boundedNumerics{} }

type boundedNumerics struct{}

func (boundedNumerics) Name() string { return "bounded" }

func (boundedNumerics) Zero() Value { return fixRat{0, 1} }

func (boundedNumerics) FromInt(n int64) Value { return fixRat{n, 1} }

func (boundedNumerics) Parse(token string) (Value, bool) {
	neg, numStr, denStr, ok := splitNumeric(token)
	if !ok {
		return fixRat{0, 1}, true
	}
	num, err := strconv.ParseUint(numStr, 10, 64)
	if err != nil {
		return fixRat{0, 1}, true
	}
	den := uint64(1)
	if denStr != "" {
		if den, err = strconv.ParseUint(denStr, 10, 64); err != nil {
			return fixRat{0, 1}, true
		}
	}
	return reduceFix(neg, num, den)
}

func (boundedNumerics) Add(a, b Value) (Value, bool) { return fixAdd(mustFix(a), mustFix(b), false) }
func (boundedNumerics) Sub(a, b Value) (Value, bool) { return fixAdd(mustFix(a), mustFix(b), true) }

func (boundedNumerics) Mul(a, b Value) (Value, bool) {
	x, y := mustFix(a), mustFix(b)
	return fixMul(
		x.num < 0, absU(x.num), uint64(x.den),
		y.num < 0, absU(y.num), uint64(y.den),
	)
}

func (boundedNumerics) Div(a, b Value) (Value, bool) {
	x, y := mustFix(a), mustFix(b)
	if y.num == 0 {
		return fixRat{0, 1}, true
	}
	// multiply by the reciprocal
	return fixMul(
		x.num < 0, absU(x.num), uint64(x.den),
		y.num < 0, uint64(y.den), absU(y.num),
	)
}

func (boundedNumerics) Neg(v Value) (Value, bool) {
	x := mustFix(v)
	if x.num == 0 {
		return x, false
	}
	return reduceFix(x.num > 0, absU(x.num), uint64(x.den))
}

// fixRat is a rational in lowest terms: den > 0, gcd(|num|, den) == 1, and
// zero is exactly {0, 1}.
type fixRat struct {
	num int64
	den int64
}

func (v fixRat) Sign() int {
	switch {
	case v.num < 0:
		return -1
	case v.num > 0:
		return 1
	}
	return 0
}

func (v fixRat) Int() (int64, bool) {
	if v.den == 1 {
		return v.num, true
	}
	return 0, false
}

func (v fixRat) Cmp(other Value) int {
	w := mustFix(other)
	sv, sw := v.Sign(), w.Sign()
	if sv != sw {
		if sv < sw {
			return -1
		}
		return 1
	}
	if sv == 0 {
		return 0
	}
	// same nonzero sign: compare cross products |num|*den in 128 bits
	h1, l1 := bits.Mul64(absU(v.num), uint64(w.den))
	h2, l2 := bits.Mul64(absU(w.num), uint64(v.den))
	c := cmpU128(h1, l1, h2, l2)
	if sv < 0 {
		return -c
	}
	return c
}

func (v fixRat) String() string {
	s := strconv.FormatInt(v.num, 10)
	if v.den != 1 {
		s += "/" + strconv.FormatInt(v.den, 10)
	}
	return s
}

func mustFix(v Value) fixRat {
	f, ok := v.(fixRat)
	if !ok {
		panic("jinx: mixed numeric backends")
	}
	return f
}

// reduceFix normalizes a sign-and-magnitude rational into a fixRat, faulting
// when the denominator is zero or the reduced parts do not fit.
func reduceFix(neg bool, num, den uint64) (Value, bool) {
	if den == 0 {
		return fixRat{0, 1}, true
	}
	if num == 0 {
		return fixRat{0, 1}, false
	}
	g := gcd64(num, den)
	num, den = num/g, den/g
	if den > math.MaxInt64 {
		return fixRat{0, 1}, true
	}
	if num > math.MaxInt64 {
		if !neg || num > uint64(math.MaxInt64)+1 {
			return fixRat{0, 1}, true
		}
		return fixRat{math.MinInt64, int64(den)}, false
	}
	n := int64(num)
	if neg {
		n = -n
	}
	return fixRat{n, int64(den)}, false
}

// fixAdd adds two fixRats over the least common denominator, pre-reducing by
// gcd so that in-range results do not fault on oversized intermediates.
// negate flips the right operand, giving subtraction.
func fixAdd(x, y fixRat, negate bool) (Value, bool) {
	yneg := y.num < 0
	if negate {
		yneg = !yneg
	}
	g := gcd64(uint64(x.den), uint64(y.den))
	xs := uint64(y.den) / g
	ys := uint64(x.den) / g

	den, ok := mulU(uint64(x.den), xs)
	if !ok {
		return fixRat{0, 1}, true
	}
	xm, ok := mulU(absU(x.num), xs)
	if !ok {
		return fixRat{0, 1}, true
	}
	ym, ok := mulU(absU(y.num), ys)
	if !ok {
		return fixRat{0, 1}, true
	}

	neg, mag, ok := addMag(x.num < 0, xm, yneg, ym)
	if !ok {
		return fixRat{0, 1}, true
	}
	return reduceFix(neg, mag, den)
}

// fixMul multiplies two sign-and-magnitude rationals, cross-reducing each
// numerator against the opposite denominator first.
func fixMul(an bool, am, ad uint64, bn bool, bm, bd uint64) (Value, bool) {
	if am == 0 || bm == 0 {
		return fixRat{0, 1}, false
	}
	if g := gcd64(am, bd); g > 1 {
		am, bd = am/g, bd/g
	}
	if g := gcd64(bm, ad); g > 1 {
		bm, ad = bm/g, ad/g
	}
	num, ok := mulU(am, bm)
	if !ok {
		return fixRat{0, 1}, true
	}
	den, ok := mulU(ad, bd)
	if !ok {
		return fixRat{0, 1}, true
	}
	return reduceFix(an != bn, num, den)
}

// addMag adds two signed magnitudes; ok is false on uint64 overflow.
func addMag(aneg bool, am uint64, bneg bool, bm uint64) (neg bool, mag uint64, ok bool) {
	if aneg == bneg {
		mag = am + bm
		return aneg, mag, mag >= am
	}
	if am >= bm {
		return aneg, am - bm, true
	}
	return bneg, bm - am, true
}

// absU gives |n| as a uint64; in particular math.MinInt64 maps to 1<<63.
func absU(n int64) uint64 {
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}

func gcd64(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func mulU(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

func cmpU128(h1, l1, h2, l2 uint64) int {
	switch {
	case h1 < h2:
		return -1
	case h1 > h2:
		return 1
	case l1 < l2:
		return -1
	case l1 > l2:
		return 1
	}
	return 0
}
