package texture

import (
	"path/filepath"
	"testing"

	"blackhole/internal/lensing"
)

func TestOpen(t *testing.T) {
	fallback := lensing.Vec3{X: 0.1, Y: 0.2, Z: 0.3}

	if _, ok := Open("", 0, fallback).(Nebula); !ok {
		t.Errorf("empty path should select the nebula")
	}

	s := Open(filepath.Join(t.TempDir(), "nope.jpg"), 0, fallback)
	solid, ok := s.(Solid)
	if !ok {
		t.Fatalf("missing file returned %T, want Solid", s)
	}
	if solid.Sample(0.3, 0.9) != fallback {
		t.Errorf("fallback color = %v, want %v", solid.Sample(0.3, 0.9), fallback)
	}
}

func TestNebulaBounded(t *testing.T) {
	n := DefaultNebula()
	var lit bool
	for i := 0; i <= 40; i++ {
		for j := 0; j <= 40; j++ {
			c := n.Sample(float64(i)/40, float64(j)/40)
			for _, ch := range []float64{c.X, c.Y, c.Z} {
				if ch < 0 || ch > 1 {
					t.Fatalf("Sample(%d/40, %d/40) = %v out of range", i, j, c)
				}
			}
			if c.X+c.Y+c.Z > 0 {
				lit = true
			}
		}
	}
	if !lit {
		t.Errorf("nebula is entirely black")
	}
	if a, b := n.Sample(0.42, 0.17), n.Sample(0.42, 0.17); a != b {
		t.Errorf("nebula not deterministic: %v vs %v", a, b)
	}
}

func TestBake(t *testing.T) {
	img := checker2x2(t)
	got := Bake(img, 2, 2)
	want := []float32{
		1, 0, 0, 0, 1, 0,
		0, 0, 1, 1, 1, 1,
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bake = %v, want %v", got, want)
		}
	}
	if n := len(Bake(Solid{}, 3, 5)); n != 45 {
		t.Errorf("Bake 3x5 has %d floats, want 45", n)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    lensing.Vec3
		wantErr bool
	}{
		{"#ffcc00", lensing.Vec3{X: 1, Y: 0.8, Z: 0}, false},
		{"ffcc00", lensing.Vec3{X: 1, Y: 0.8, Z: 0}, false},
		{" #000000 ", lensing.Vec3{}, false},
		{"#f00", lensing.Vec3{X: 1}, false},
		{"", lensing.Vec3{}, true},
		{"#zzzzzz", lensing.Vec3{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !nearVec(got, tt.want, 1e-9) {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
