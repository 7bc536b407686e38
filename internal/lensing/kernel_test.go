package lensing

import (
	"math"
	"testing"
)

func TestCenterPixelAbsorbed(t *testing.T) {
	const w, h = 320, 240
	f := NewFrame(w, h, 0, flatSampler{Vec3{1, 1, 1}})
	if f.Params.Size != 0.23 {
		t.Fatalf("default size = %v, want 0.23", f.Params.Size)
	}
	k := NewKernel(f)

	res := k.Trace(w/2, h/2)
	if res.State != Absorbed {
		t.Fatalf("center pixel state = %v, want %v", res.State, Absorbed)
	}
	c := k.Shade(w/2, h/2, nil)
	if c.X > 0.05 || c.Y > 0.05 || c.Z > 0.05 {
		t.Errorf("center pixel = %v, want near black", c)
	}
}

func TestCornerPixelsSeeBackground(t *testing.T) {
	const w, h = 320, 240
	f := NewFrame(w, h, 0, flatSampler{Vec3{1, 1, 1}})
	k := NewKernel(f)
	var tally Tally
	for _, p := range [][2]float64{{0.5, 0.5}, {w - 0.5, 0.5}, {0.5, h - 0.5}, {w - 0.5, h - 0.5}} {
		k.Shade(p[0], p[1], &tally)
	}
	if tally.Rays() != 4 {
		t.Fatalf("tallied %d rays, want 4", tally.Rays())
	}
	if tally.Escaped == 0 {
		t.Errorf("no corner ray escaped: %+v", tally)
	}
}

func TestShadeBoundedAndFinite(t *testing.T) {
	const w, h = 40, 30
	bright := flatSampler{Vec3{3, 3, 3}}
	for _, tm := range []float64{0, 0.7, 12.5, 1000} {
		for _, ptr := range [][2]float64{{20, 15}, {0, 0}, {40, 30}, {5, 27}} {
			f := NewFrame(w, h, tm, bright)
			f.PointerX, f.PointerY = ptr[0], ptr[1]
			k := NewKernel(f)
			for y := 0; y < h; y += 3 {
				for x := 0; x < w; x += 3 {
					c := k.Shade(float64(x)+0.5, float64(y)+0.5, nil)
					for _, ch := range []float64{c.X, c.Y, c.Z} {
						if math.IsNaN(ch) || ch < 0 || ch > 1 {
							t.Fatalf("t=%v pointer=%v pixel (%d,%d) = %v out of [0,1]", tm, ptr, x, y, c)
						}
					}
				}
			}
		}
	}
}

func TestShadeDeterministic(t *testing.T) {
	f := NewFrame(64, 64, 3.25, flatSampler{Vec3{0.1, 0.2, 0.3}})
	f.PointerX, f.PointerY = 10, 50
	a := NewKernel(f)
	b := NewKernel(f)
	for y := 0; y < 64; y += 7 {
		for x := 0; x < 64; x += 5 {
			px, py := float64(x)+0.5, float64(y)+0.5
			first := a.Shade(px, py, nil)
			if again := a.Shade(px, py, nil); again != first {
				t.Fatalf("(%d,%d): repeated call %v != %v", x, y, again, first)
			}
			if other := b.Shade(px, py, nil); other != first {
				t.Fatalf("(%d,%d): second kernel %v != %v", x, y, other, first)
			}
			if oneShot := Shade(px, py, f); oneShot != first {
				t.Fatalf("(%d,%d): Shade %v != Kernel.Shade %v", x, y, oneShot, first)
			}
		}
	}
}

func TestSupersampleCountsEveryRay(t *testing.T) {
	f := NewFrame(32, 32, 0, flatSampler{Vec3{0.5, 0.5, 0.5}})
	f.Supersample = 3
	k := NewKernel(f)
	var tally Tally
	c := k.Shade(4.5, 27.5, &tally)
	if tally.Rays() != 9 {
		t.Errorf("tallied %d rays, want 9", tally.Rays())
	}
	if c.X < 0 || c.X > 1 {
		t.Errorf("color %v out of range", c)
	}
}

func TestNewKernelFillsDefaults(t *testing.T) {
	k := NewKernel(Frame{Width: 10, Height: 10})
	f := k.Frame()
	if f.Params != DefaultParams() {
		t.Errorf("params = %+v, want defaults", f.Params)
	}
	if f.BackgroundParams != DefaultBackgroundParams() {
		t.Errorf("background params = %+v, want defaults", f.BackgroundParams)
	}
	c := k.Shade(5, 5, nil)
	if math.IsNaN(c.X) {
		t.Errorf("zero frame produced NaN")
	}
}

func TestTonemap(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"black", Vec3{}, Vec3{}},
		{"white", Vec3{1, 1, 1}, Vec3{1, 1, 1}},
		{"over range", Vec3{5, -2, 1}, Vec3{1, 0, 1}},
		{"non-finite", Vec3{math.NaN(), math.Inf(1), math.Inf(-1)}, Vec3{}},
	}
	for _, tt := range tests {
		if got := Tonemap(tt.in, 0.6); got != tt.want {
			t.Errorf("%s: Tonemap(%v) = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}
	if got := Tonemap(Vec3{0.25, 0.25, 0.25}, 0.6); got.X <= 0.25 {
		t.Errorf("gamma below one should brighten midtones, got %v", got)
	}
}

func TestTallyAdd(t *testing.T) {
	a := Tally{Absorbed: 1, Escaped: 2, Unterminated: 3, DiskHits: 4}
	a.Add(Tally{Absorbed: 10, Escaped: 20, Unterminated: 30, DiskHits: 40})
	want := Tally{Absorbed: 11, Escaped: 22, Unterminated: 33, DiskHits: 44}
	if a != want {
		t.Errorf("got %+v, want %+v", a, want)
	}
	if a.Rays() != 66 {
		t.Errorf("Rays() = %d, want 66", a.Rays())
	}
}
