// Package number implements the dual numeric representation described in
// spec.md §4.1: an exact rational under config.MultiplePrecision, or a
// (possibly log-space) double otherwise. It is grounded on the Number class
// of original_source/addmc/src/logic.cc, translated from a runtime-tagged
// C++ union into a Go value that carries its own mode. Mixing
// representations is a programming error, caught at arithmetic and
// comparison time: combining a rational Number with a double one panics.
// Construction does not check a new Number against ones built earlier.
package number

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/crillab/gophercount/config"
)

// NegInf is the log-space sentinel denoting a value of zero.
var NegInf = math.Inf(-1)

// Number is either an exact rational (q != nil) or a double (q == nil,
// stored in f). Under log-space mode f holds log10(value) and NegInf stands
// for zero.
type Number struct {
	rational bool
	q        *big.Rat
	f        float64
}

// New parses s, which is either "p/q" or a decimal literal, into a Number
// under cfg's active representation. In rational mode both forms build an
// exact big.Rat. In double mode the fraction form is parsed as
// stold(p)/stold(q), matching the original's non-rational Number(string)
// constructor.
func New(cfg *config.Config, s string) (Number, error) {
	if cfg.MultiplePrecision {
		q := new(big.Rat)
		if _, ok := q.SetString(s); ok {
			return Number{rational: true, q: q}, nil
		}
		return Number{}, fmt.Errorf("number: cannot parse %q as a rational", s)
	}
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		num, err := strconv.ParseFloat(s[:idx], 64)
		if err != nil {
			return Number{}, fmt.Errorf("number: invalid numerator %q: %v", s[:idx], err)
		}
		den, err := strconv.ParseFloat(s[idx+1:], 64)
		if err != nil {
			return Number{}, fmt.Errorf("number: invalid denominator %q: %v", s[idx+1:], err)
		}
		return Number{f: num / den}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, fmt.Errorf("number: invalid literal %q: %v", s, err)
	}
	return Number{f: f}, nil
}

// FromFloat64 builds a double-mode Number directly from f (already in
// log-space if cfg.LogCounting is set). It panics if cfg selects the
// rational representation, since a caller with a float has no exact value
// to build one from.
func FromFloat64(cfg *config.Config, f float64) Number {
	if cfg.MultiplePrecision {
		panic("number: FromFloat64 called under MultiplePrecision")
	}
	return Number{f: f}
}

// Zero returns the additive identity under cfg's representation. In
// log-space double mode this is NegInf, matching the original's convention.
func Zero(cfg *config.Config) Number {
	if cfg.MultiplePrecision {
		return Number{rational: true, q: new(big.Rat)}
	}
	if cfg.LogCounting {
		return Number{f: NegInf}
	}
	return Number{f: 0}
}

// One returns the multiplicative identity under cfg's representation.
func One(cfg *config.Config) Number {
	if cfg.MultiplePrecision {
		return Number{rational: true, q: big.NewRat(1, 1)}
	}
	if cfg.LogCounting {
		return Number{f: 0} // log10(1) == 0
	}
	return Number{f: 1}
}

func (n Number) assertCompatible(o Number) {
	if n.rational != o.rational {
		panic("number: mixing rational and double representations in the same run")
	}
}

// Add returns n + o.
func (n Number) Add(o Number) Number {
	n.assertCompatible(o)
	if n.rational {
		return Number{rational: true, q: new(big.Rat).Add(n.q, o.q)}
	}
	return Number{f: n.f + o.f}
}

// Sub returns n - o.
func (n Number) Sub(o Number) Number {
	n.assertCompatible(o)
	if n.rational {
		return Number{rational: true, q: new(big.Rat).Sub(n.q, o.q)}
	}
	return Number{f: n.f - o.f}
}

// Mul returns n * o.
func (n Number) Mul(o Number) Number {
	n.assertCompatible(o)
	if n.rational {
		return Number{rational: true, q: new(big.Rat).Mul(n.q, o.q)}
	}
	return Number{f: n.f * o.f}
}

// AddAssign is the in-place form of Add, mirroring the original's operator+=.
func (n *Number) AddAssign(o Number) {
	*n = n.Add(o)
}

// MulAssign is the in-place form of Mul, mirroring the original's operator*=.
func (n *Number) MulAssign(o Number) {
	*n = n.Mul(o)
}

// Equal reports whether n and o denote the same value under the active
// representation.
func (n Number) Equal(o Number) bool {
	n.assertCompatible(o)
	if n.rational {
		return n.q.Cmp(o.q) == 0
	}
	return n.f == o.f
}

// Less reports whether n < o.
func (n Number) Less(o Number) bool {
	n.assertCompatible(o)
	if n.rational {
		return n.q.Cmp(o.q) < 0
	}
	return n.f < o.f
}

// LessEqual reports whether n <= o.
func (n Number) LessEqual(o Number) bool {
	return n.Less(o) || n.Equal(o)
}

// GreaterEqual reports whether n >= o.
func (n Number) GreaterEqual(o Number) bool {
	n.assertCompatible(o)
	if n.rational {
		return n.q.Cmp(o.q) >= 0
	}
	return n.f >= o.f
}

// IsZero reports whether n denotes zero under the active representation
// (the NegInf sentinel in log-space double mode, or the zero rational).
func (n Number) IsZero() bool {
	if n.rational {
		return n.q.Sign() == 0
	}
	return n.f == 0 || n.f == NegInf
}

// GetLog10 returns log10 of n's value. In rational mode it decomposes the
// value as d * 2^e (avoiding overflow when the rational itself does not fit
// a float64) and returns log10(d) + e*log10(2), following
// original_source/addmc's Number::getLog10. In double mode it returns
// log10(n.f) directly (n.f is assumed to already be linear-space here; do
// not call this on a Number already holding a log10 value).
func (n Number) GetLog10() float64 {
	if !n.rational {
		return math.Log10(n.f)
	}
	if n.q.Sign() == 0 {
		return NegInf
	}
	// value = num/den; decompose num and den independently into
	// mantissa*2^exp via big.Float, then combine exponents.
	num := new(big.Float).SetInt(n.q.Num())
	den := new(big.Float).SetInt(n.q.Denom())
	numMant, numExp := mantissaExp(num)
	denMant, denExp := mantissaExp(den)
	d := numMant / denMant
	e := numExp - denExp
	return math.Log10(d) + float64(e)*math.Log10(2)
}

// mantissaExp decomposes a positive big.Float as m * 2^e with m in [0.5, 1).
func mantissaExp(x *big.Float) (float64, int) {
	mant := new(big.Float)
	exp := x.MantExp(mant)
	m, _ := mant.Float64()
	return m, exp
}

// GetLogSumExp returns log10(10^n + 10^o), the log-space addition used to
// accumulate weighted model counts without overflow. Valid only in
// log-space double mode. Handles the NegInf additive identity specially and
// is otherwise computed as log10(10^(a-m) + 10^(b-m)) + m with
// m = max(a, b), guaranteeing no overflow for well-separated operands.
func (n Number) GetLogSumExp(o Number) float64 {
	if n.rational {
		panic("number: GetLogSumExp called outside log-space double mode")
	}
	a, b := n.f, o.f
	if a == NegInf {
		return b
	}
	if b == NegInf {
		return a
	}
	m := math.Max(a, b)
	return math.Log10(math.Pow(10, a-m)+math.Pow(10, b-m)) + m
}

// String renders n matching the active representation: the rational or the
// double, as the original's operator<< does.
func (n Number) String() string {
	if n.rational {
		return n.q.RatString()
	}
	return strconv.FormatFloat(n.f, 'g', -1, 64)
}
