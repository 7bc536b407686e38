package lensing

import (
	"math"
	"math/rand"
	"testing"
)

func TestHashRange(t *testing.T) {
	inputs := []float64{0, 1, -1, 0.5, -1e-20, 1e-20, 12345.678, -98765.4321, 1e6, -1e6}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		inputs = append(inputs, (rng.Float64()-0.5)*1e4)
	}
	for _, x := range inputs {
		h := Hash(x)
		if h < 0 || h >= 1 {
			t.Errorf("Hash(%v) = %v, want [0,1)", x, h)
		}
	}
}

func TestValueLatticeCorners(t *testing.T) {
	tests := []struct {
		p Vec2
		f float64
	}{
		{Vec2{0, 0}, 1},
		{Vec2{3, -2}, 1},
		{Vec2{0.75, -1.25}, 4},
		{Vec2{-7, 11}, 1},
		{Vec2{2.5, 0.5}, 2},
	}
	for _, tt := range tests {
		q := tt.p.Scale(tt.f)
		want := Hash2(Vec2{math.Floor(q.X), math.Floor(q.Y)})
		if got := Value(tt.p, tt.f); got != want {
			t.Errorf("Value(%v, %v) = %v, want corner hash %v", tt.p, tt.f, got, want)
		}
	}
}

func TestValueRange(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 5000; i++ {
		p := Vec2{(rng.Float64() - 0.5) * 50, (rng.Float64() - 0.5) * 50}
		f := rng.Float64() * 200
		v := Value(p, f)
		if v < 0 || v > 1 || math.IsNaN(v) {
			t.Fatalf("Value(%v, %v) = %v, want [0,1]", p, f, v)
		}
	}
}

func TestValueContinuity(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const f = 10.0
	const eps = 1e-7
	for i := 0; i < 2000; i++ {
		p := Vec2{(rng.Float64() - 0.5) * 20, (rng.Float64() - 0.5) * 20}
		q := p.Add(Vec2{eps, -eps})
		if d := math.Abs(Value(p, f) - Value(q, f)); d > 1e-4 {
			t.Fatalf("Value jumps by %v between %v and %v", d, p, q)
		}
	}
}

func TestValueContinuousAcrossCellBoundary(t *testing.T) {
	const eps = 1e-9
	for _, edge := range []float64{-3, -1, 0, 1, 2, 5} {
		below := Value(Vec2{edge - eps, 0.37}, 1)
		above := Value(Vec2{edge + eps, 0.37}, 1)
		if d := math.Abs(below - above); d > 1e-6 {
			t.Errorf("x edge %v: below %v above %v (diff %v)", edge, below, above, d)
		}
		below = Value(Vec2{0.61, edge - eps}, 1)
		above = Value(Vec2{0.61, edge + eps}, 1)
		if d := math.Abs(below - above); d > 1e-6 {
			t.Errorf("y edge %v: below %v above %v (diff %v)", edge, below, above, d)
		}
	}
}

func TestValueDeterministic(t *testing.T) {
	p := Vec2{0.123, 4.56}
	first := Value(p, 70)
	for i := 0; i < 10; i++ {
		if got := Value(p, 70); got != first {
			t.Fatalf("call %d: got %v, want %v", i, got, first)
		}
	}
}

func TestFractal(t *testing.T) {
	p := Vec2{1.3, -0.4}
	if got, want := Fractal(p, 8, 1), Value(p, 8); got != want {
		t.Errorf("single octave: got %v, want %v", got, want)
	}
	if got, want := Fractal(p, 8, 0), Value(p, 8); got != want {
		t.Errorf("zero octaves should behave as one: got %v, want %v", got, want)
	}
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 1000; i++ {
		q := Vec2{rng.Float64() * 10, rng.Float64() * 10}
		v := Fractal(q, 3, 5)
		if v < 0 || v > 1 {
			t.Fatalf("Fractal(%v) = %v, want [0,1]", q, v)
		}
	}
}
