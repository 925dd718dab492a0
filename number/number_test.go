package number

import (
	"math"
	"testing"

	"github.com/crillab/gophercount/config"
)

func TestNewDouble(t *testing.T) {
	cfg := config.New()
	n, err := New(cfg, "0.25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.Equal(FromFloat64(cfg, 0.25)) {
		t.Errorf("expected 0.25, got %v", n)
	}
}

func TestNewDoubleFraction(t *testing.T) {
	cfg := config.New()
	n, err := New(cfg, "3/4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.Equal(FromFloat64(cfg, 0.75)) {
		t.Errorf("expected 0.75, got %v", n)
	}
}

func TestNewRational(t *testing.T) {
	cfg := config.New(config.WithMultiplePrecision(true))
	n, err := New(cfg, "1/3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.String() != "1/3" {
		t.Errorf("expected 1/3, got %s", n.String())
	}
}

func TestRationalRoundTrip(t *testing.T) {
	cfg := config.New(config.WithMultiplePrecision(true))
	n, err := New(cfg, "22/7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n2, err := New(cfg, n.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.Equal(n2) {
		t.Errorf("round trip mismatch: %v != %v", n, n2)
	}
}

func TestMixedRepresentationPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when mixing representations")
		}
	}()
	rat := One(config.New(config.WithMultiplePrecision(true)))
	dbl := One(config.New())
	rat.Add(dbl)
}

func TestArithmetic(t *testing.T) {
	cfg := config.New()
	a := FromFloat64(cfg, 2)
	b := FromFloat64(cfg, 3)
	if got := a.Add(b); !got.Equal(FromFloat64(cfg, 5)) {
		t.Errorf("2+3 = %v, want 5", got)
	}
	if got := a.Mul(b); !got.Equal(FromFloat64(cfg, 6)) {
		t.Errorf("2*3 = %v, want 6", got)
	}
	if got := b.Sub(a); !got.Equal(FromFloat64(cfg, 1)) {
		t.Errorf("3-2 = %v, want 1", got)
	}
	if !a.Less(b) {
		t.Errorf("expected 2 < 3")
	}
	if !b.GreaterEqual(a) {
		t.Errorf("expected 3 >= 2")
	}
}

func TestAddAssignMulAssign(t *testing.T) {
	cfg := config.New()
	n := FromFloat64(cfg, 1)
	n.AddAssign(FromFloat64(cfg, 2))
	if !n.Equal(FromFloat64(cfg, 3)) {
		t.Errorf("expected 3 after += 2, got %v", n)
	}
	n.MulAssign(FromFloat64(cfg, 4))
	if !n.Equal(FromFloat64(cfg, 12)) {
		t.Errorf("expected 12 after *= 4, got %v", n)
	}
}

func TestGetLogSumExpIdentities(t *testing.T) {
	cfg := config.New(config.WithLogCounting(true))
	a := FromFloat64(cfg, 1.2345)
	negInf := FromFloat64(cfg, NegInf)

	if got := a.GetLogSumExp(negInf); got != a.f {
		t.Errorf("lse(a, -inf) = %v, want %v", got, a.f)
	}
	if got1, got2 := a.GetLogSumExp(FromFloat64(cfg, 2.71)), FromFloat64(cfg, 2.71).GetLogSumExp(a); math.Abs(got1-got2) > 1e-12 {
		t.Errorf("lse not commutative: %v != %v", got1, got2)
	}
	want := a.f + math.Log10(2)
	if got := a.GetLogSumExp(a); math.Abs(got-want) > 1e-9 {
		t.Errorf("lse(a,a) = %v, want %v", got, want)
	}
}

func TestGetLog10RationalMatchesFloat(t *testing.T) {
	cfg := config.New(config.WithMultiplePrecision(true))
	n, err := New(cfg, "5/2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := n.GetLog10()
	want := math.Log10(2.5)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("GetLog10() = %v, want %v", got, want)
	}
}

func TestZeroIsAdditiveIdentityInLogSpace(t *testing.T) {
	cfg := config.New(config.WithLogCounting(true))
	z := Zero(cfg)
	if !z.IsZero() {
		t.Errorf("expected Zero() to report IsZero() under log counting")
	}
	a := FromFloat64(cfg, 3.0)
	if got := a.GetLogSumExp(z); got != a.f {
		t.Errorf("lse(a, zero) = %v, want %v", got, a.f)
	}
}
