package lensing

import (
	"math"
	"math/rand"
	"testing"
)

// uvSampler echoes the lookup coordinate as a color.
type uvSampler struct{}

func (uvSampler) Sample(u, v float64) Vec3 { return Vec3{u, v, 0} }

// flatSampler returns one color everywhere.
type flatSampler struct{ c Vec3 }

func (s flatSampler) Sample(_, _ float64) Vec3 { return s.c }

func plainBackground() BackgroundParams {
	bp := DefaultBackgroundParams()
	bp.StarGain = 0
	bp.Lift = 1
	bp.VignetteInner = 10
	bp.VignetteOuter = 11
	return bp
}

func TestBackgroundLensingPullsToCenter(t *testing.T) {
	got := Background(Vec3{0, 0, 1}, uvSampler{}, plainBackground())
	want := Vec3{0.5, 0.5, 0}
	if got != want {
		t.Errorf("on-axis ray: got %v, want %v", got, want)
	}
}

func TestBackgroundLookupClamped(t *testing.T) {
	got := Background(Vec3{3, -3, 0}, uvSampler{}, plainBackground())
	if got.X != 1 || got.Y != 0 {
		t.Errorf("far ray: got %v, want lookup clamped to (1, 0)", got)
	}
}

func TestBackgroundLensingStrength(t *testing.T) {
	bp := plainBackground()
	ray := Vec3{0.4, 0, 0.9}
	got := Background(ray, uvSampler{}, bp)
	lens := math.Exp(-bp.LensStrength * 0.16)
	want := 0.7 + (0.5-0.7)*lens
	if math.Abs(got.X-want) > 1e-12 {
		t.Errorf("u = %v, want %v", got.X, want)
	}
	if got.X <= 0.5 || got.X >= 0.7 {
		t.Errorf("u = %v should lie between the center and the unlensed lookup", got.X)
	}
}

func TestBackgroundVignette(t *testing.T) {
	bp := plainBackground()
	bp.VignetteInner = 0.2
	bp.VignetteOuter = 0.6
	white := flatSampler{Vec3{1, 1, 1}}

	if got := Background(Vec3{0.1, 0, 1}, white, bp); got != (Vec3{1, 1, 1}) {
		t.Errorf("inside inner radius: got %v, want white", got)
	}
	if got := Background(Vec3{0.7, 0, 0.7}, white, bp); got != (Vec3{}) {
		t.Errorf("outside outer radius: got %v, want black", got)
	}
	mid := Background(Vec3{0.4, 0, 0.9}, white, bp)
	if mid.X <= 0 || mid.X >= 1 {
		t.Errorf("between radii: got %v, want partial falloff", mid)
	}
}

func TestBackgroundBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	bright := flatSampler{Vec3{4, 4, 4}}
	bp := DefaultBackgroundParams()
	for i := 0; i < 3000; i++ {
		ray := Vec3{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}.Normalize()
		c := Background(ray, bright, bp)
		for _, ch := range []float64{c.X, c.Y, c.Z} {
			if ch < 0 || ch > 1 || math.IsNaN(ch) {
				t.Fatalf("Background(%v) = %v, want channels in [0,1]", ray, c)
			}
		}
	}
}

func TestBackgroundNilSampler(t *testing.T) {
	bp := DefaultBackgroundParams()
	bp.StarGain = 0
	if got := Background(Vec3{0.1, 0.2, 0.97}, nil, bp); got != (Vec3{}) {
		t.Errorf("nil sampler: got %v, want black", got)
	}
}
