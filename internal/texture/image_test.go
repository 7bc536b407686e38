package texture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"blackhole/internal/lensing"
)

func nearVec(a, b lensing.Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

// checker2x2 is red/green on top, blue/white on the bottom.
func checker2x2(t *testing.T) *Image {
	t.Helper()
	img, err := NewImage(2, 2, []lensing.Vec3{
		{X: 1}, {Y: 1},
		{Z: 1}, {X: 1, Y: 1, Z: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestImageSampleTexelCenters(t *testing.T) {
	img := checker2x2(t)
	tests := []struct {
		name string
		u, v float64
		want lensing.Vec3
	}{
		{"top left", 0.25, 0.75, lensing.Vec3{X: 1}},
		{"top right", 0.75, 0.75, lensing.Vec3{Y: 1}},
		{"bottom left", 0.25, 0.25, lensing.Vec3{Z: 1}},
		{"bottom right", 0.75, 0.25, lensing.Vec3{X: 1, Y: 1, Z: 1}},
		{"center", 0.5, 0.5, lensing.Vec3{X: 0.5, Y: 0.5, Z: 0.5}},
		{"top edge midpoint", 0.5, 0.75, lensing.Vec3{X: 0.5, Y: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.Sample(tt.u, tt.v); !nearVec(got, tt.want, 1e-12) {
				t.Errorf("Sample(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestImageSampleClampsToEdge(t *testing.T) {
	img := checker2x2(t)
	tests := []struct {
		u, v float64
		want lensing.Vec3
	}{
		{-3, 9, lensing.Vec3{X: 1}},
		{0, 1, lensing.Vec3{X: 1}},
		{5, -5, lensing.Vec3{X: 1, Y: 1, Z: 1}},
		{1, 0, lensing.Vec3{X: 1, Y: 1, Z: 1}},
	}
	for _, tt := range tests {
		if got := img.Sample(tt.u, tt.v); !nearVec(got, tt.want, 1e-12) {
			t.Errorf("Sample(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
		}
	}
}

func TestNewImageValidates(t *testing.T) {
	if _, err := NewImage(0, 3, nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("zero width: err = %v, want ErrEmptyImage", err)
	}
	if _, err := NewImage(2, 2, make([]lensing.Vec3, 3)); err == nil {
		t.Errorf("short pixel slice accepted")
	}
}

func TestFromImageConvertsAndDownsamples(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}

	full, err := FromImage(src, 0)
	if err != nil {
		t.Fatal(err)
	}
	if full.Width != 64 || full.Height != 32 {
		t.Errorf("size = %dx%d, want 64x32", full.Width, full.Height)
	}

	small, err := FromImage(src, 16)
	if err != nil {
		t.Fatal(err)
	}
	if small.Width != 16 || small.Height != 8 {
		t.Errorf("downsampled size = %dx%d, want 16x8", small.Width, small.Height)
	}
	if got := small.Sample(0.5, 0.5); !nearVec(got, lensing.Vec3{X: 1}, 0.01) {
		t.Errorf("downsampled color = %v, want red", got)
	}

	if _, err := FromImage(image.NewRGBA(image.Rect(0, 0, 0, 0)), 0); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("empty image: err = %v, want ErrEmptyImage", err)
	}
}

func TestLoadPNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 0, G: 0, B: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 0, A: 255})

	path := filepath.Join(t.TempDir(), "sky.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	img, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Width != 2 || img.Height != 1 {
		t.Fatalf("size = %dx%d, want 2x1", img.Width, img.Height)
	}
	if got := img.Sample(0.25, 0.5); !nearVec(got, lensing.Vec3{Z: 1}, 1e-9) {
		t.Errorf("left texel = %v, want blue", got)
	}
	if got := img.Sample(0.75, 0.5); !nearVec(got, lensing.Vec3{X: 1, Y: 1}, 1e-9) {
		t.Errorf("right texel = %v, want yellow", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.png"), 0); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v, want os.ErrNotExist", err)
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(garbage, 0); !errors.Is(err, image.ErrFormat) {
		t.Errorf("garbage file: err = %v, want image.ErrFormat", err)
	}
}
