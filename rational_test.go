package jinx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bothNumerics = []Numerics{Bounded(), Big()}

func TestNumerics_parse(t *testing.T) {
	for _, num := range bothNumerics {
		t.Run(num.Name(), func(t *testing.T) {
			for _, tc := range []struct {
				token string
				want  string
				fault bool
			}{
				{token: "0", want: "0"},
				{token: "5", want: "5"},
				{token: "+5", want: "5"},
				{token: "-7", want: "-7"},
				{token: "2/4", want: "1/2"},
				{token: "-6/4", want: "-3/2"},
				{token: "7/1", want: "7"},
				{token: "0/9", want: "0"},
				{token: "", fault: true},
				{token: "abc", fault: true},
				{token: "1.5", fault: true},
				{token: "1/0", fault: true},
				{token: "1/", fault: true},
				{token: "/2", fault: true},
				{token: "--1", fault: true},
				{token: "1/-2", fault: true},
			} {
				v, fault := num.Parse(tc.token)
				if tc.fault {
					assert.True(t, fault, "expected fault for %q", tc.token)
					assert.Equal(t, "0", v.String(), "fault yields the policy value for %q", tc.token)
				} else {
					assert.False(t, fault, "unexpected fault for %q", tc.token)
					assert.Equal(t, tc.want, v.String(), "for %q", tc.token)
				}
			}
		})
	}
}

func TestNumerics_arithmetic(t *testing.T) {
	for _, num := range bothNumerics {
		t.Run(num.Name(), func(t *testing.T) {
			val := func(token string) Value {
				v, fault := num.Parse(token)
				require.False(t, fault, "must parse %q", token)
				return v
			}

			for _, tc := range []struct {
				name string
				op   func(a, b Value) (Value, bool)
				a, b string
				want string
			}{
				{"add integers", num.Add, "2", "3", "5"},
				{"add fractions", num.Add, "1/2", "1/3", "5/6"},
				{"add reduces", num.Add, "1/4", "1/4", "1/2"},
				{"sub crossing zero", num.Sub, "1/3", "1/2", "-1/6"},
				{"sub to zero", num.Sub, "2/3", "2/3", "0"},
				{"mul cross reduces", num.Mul, "2/3", "3/4", "1/2"},
				{"mul by zero", num.Mul, "0", "7/9", "0"},
				{"div is exact", num.Div, "1", "3", "1/3"},
				{"div of fractions", num.Div, "3/4", "-2/5", "-15/8"},
			} {
				v, fault := tc.op(val(tc.a), val(tc.b))
				assert.False(t, fault, "%v: unexpected fault", tc.name)
				assert.Equal(t, tc.want, v.String(), tc.name)
			}

			t.Run("division by zero faults to policy", func(t *testing.T) {
				v, fault := num.Div(val("7"), val("0"))
				assert.True(t, fault)
				assert.Equal(t, "0", v.String())
			})

			t.Run("negate", func(t *testing.T) {
				v, fault := num.Neg(val("3/7"))
				assert.False(t, fault)
				assert.Equal(t, "-3/7", v.String())

				v, fault = num.Neg(val("0"))
				assert.False(t, fault)
				assert.Equal(t, "0", v.String())
			})

			t.Run("sign and int", func(t *testing.T) {
				assert.Equal(t, -1, val("-2/3").Sign())
				assert.Equal(t, 0, val("0").Sign())
				assert.Equal(t, 1, val("9").Sign())

				n, exact := val("42").Int()
				assert.True(t, exact)
				assert.Equal(t, int64(42), n)

				_, exact = val("1/2").Int()
				assert.False(t, exact, "fractions are not integers")
			})

			t.Run("ordering by cross multiplication", func(t *testing.T) {
				assert.Equal(t, -1, val("1/3").Cmp(val("1/2")))
				assert.Equal(t, 0, val("2/4").Cmp(val("1/2")))
				assert.Equal(t, 1, val("-1/3").Cmp(val("-1/2")))
				assert.Equal(t, -1, val("-1").Cmp(val("1")))
			})
		})
	}
}

// Division is exact: (a/b)*b recovers a precisely, with no rounding drift
// anywhere. Under the big backend this holds for arbitrary operands; the
// bounded backend agrees wherever it does not overflow.
func TestNumerics_exactness(t *testing.T) {
	tokens := []string{
		"1", "-1", "2", "3", "7", "-7", "10", "1/2", "-1/3", "2/3",
		"355/113", "-97/89", "1000003", "999/1000",
	}
	for _, num := range bothNumerics {
		t.Run(num.Name(), func(t *testing.T) {
			for _, as := range tokens {
				for _, bs := range tokens {
					a, fault := num.Parse(as)
					require.False(t, fault)
					b, fault := num.Parse(bs)
					require.False(t, fault)

					q, fault := num.Div(a, b)
					require.False(t, fault, "(%v / %v)", as, bs)
					back, fault := num.Mul(q, b)
					require.False(t, fault, "(%v / %v) * %v", as, bs, bs)
					assert.Equal(t, 0, back.Cmp(a), "(%v / %v) * %v == %v", as, bs, bs, as)
					assert.Equal(t, a.String(), back.String(), "reduced forms agree")
				}
			}
		})
	}
}

func TestBounded_overflow(t *testing.T) {
	num := Bounded()
	val := func(token string) Value {
		v, fault := num.Parse(token)
		require.False(t, fault, "must parse %q", token)
		return v
	}

	const maxInt = "9223372036854775807"
	const minInt = "-9223372036854775808"

	t.Run("extremes parse", func(t *testing.T) {
		assert.Equal(t, maxInt, val(maxInt).String())
		assert.Equal(t, minInt, val(minInt).String())
	})

	t.Run("oversized tokens fault at parse", func(t *testing.T) {
		_, fault := num.Parse("9223372036854775808")
		assert.True(t, fault)
		_, fault = num.Parse("1/18446744073709551616")
		assert.True(t, fault)
	})

	for _, tc := range []struct {
		name string
		op   func(a, b Value) (Value, bool)
		a, b string
	}{
		{"add overflow", num.Add, maxInt, "1"},
		{"sub overflow", num.Sub, minInt, "1"},
		{"mul overflow", num.Mul, "4294967296", "4294967296"},
		{"denominator overflow", num.Add, "1/4294967296", "1/12884901889"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v, fault := tc.op(val(tc.a), val(tc.b))
			assert.True(t, fault, "expected overflow fault")
			assert.Equal(t, "0", v.String(), "overflow yields the policy value")
		})
	}

	t.Run("pre-reduction avoids false overflow", func(t *testing.T) {
		// both denominators are near the limit but share a large factor
		v, fault := num.Add(val("1/6148914691236517205"), val("2/6148914691236517205"))
		assert.False(t, fault)
		assert.Equal(t, "3/6148914691236517205", v.String())

		v, fault = num.Mul(val(maxInt), val("1/9223372036854775807"))
		assert.False(t, fault)
		assert.Equal(t, "1", v.String())
	})

	t.Run("negate min int faults", func(t *testing.T) {
		_, fault := num.Neg(val(minInt))
		assert.True(t, fault, "|min| does not fit")
	})
}
