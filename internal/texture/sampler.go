package texture

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"blackhole/internal/lensing"
)

// Solid is the constant-color sampler used when no image is available.
type Solid struct {
	Color lensing.Vec3
}

// Sample returns the constant color.
func (s Solid) Sample(_, _ float64) lensing.Vec3 { return s.Color }

// Nebula is a procedural background built from fractal value noise.
type Nebula struct {
	Frequency float64
	Octaves   int
	Low       lensing.Vec3
	High      lensing.Vec3
}

// DefaultNebula returns a dim blue-violet nebula.
func DefaultNebula() Nebula {
	return Nebula{
		Frequency: 3,
		Octaves:   5,
		Low:       lensing.Vec3{X: 0.01, Y: 0.01, Z: 0.03},
		High:      lensing.Vec3{X: 0.35, Y: 0.2, Z: 0.55},
	}
}

// Sample shapes two fractal fields into wispy clouds.
func (n Nebula) Sample(u, v float64) lensing.Vec3 {
	p := lensing.Vec2{X: u, Y: v}
	density := lensing.Fractal(p, n.Frequency, n.Octaves)
	// Sharpen the clouds so most of the sky stays dark.
	density = math.Pow(density, 3) * 2
	hue := lensing.Fractal(p.Add(lensing.Vec2{X: 17.3, Y: -4.1}), n.Frequency*0.5, n.Octaves)
	c := n.Low.Lerp(n.High, hue).Scale(density)
	return c.Clamp(0, 1)
}

// Open returns the background sampler for path. An empty path selects the
// procedural nebula; an unreadable image degrades to a solid fallback.
func Open(path string, maxDim int, fallback lensing.Vec3) lensing.Sampler {
	if path == "" {
		return DefaultNebula()
	}
	img, err := Load(path, maxDim)
	if err != nil {
		Logger().Warn("background unavailable, using solid fallback", "path", path, "err", err)
		return Solid{Color: fallback}
	}
	return img
}

// Bake evaluates s on a width x height grid of texel centers and returns
// packed RGB floats, top row first.
func Bake(s lensing.Sampler, width, height int) []float32 {
	out := make([]float32, 0, width*height*3)
	for y := 0; y < height; y++ {
		v := 1 - (float64(y)+0.5)/float64(height)
		for x := 0; x < width; x++ {
			u := (float64(x) + 0.5) / float64(width)
			c := s.Sample(u, v)
			out = append(out, float32(c.X), float32(c.Y), float32(c.Z))
		}
	}
	return out
}

// ParseColor reads a hex color such as "#ffcc00" or "fc0" into an RGB gain.
func ParseColor(s string) (lensing.Vec3, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return lensing.Vec3{}, fmt.Errorf("texture: empty color")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return lensing.Vec3{}, fmt.Errorf("texture: parsing color %q: %w", s, err)
	}
	c = c.Clamped()
	return lensing.Vec3{X: c.R, Y: c.G, Z: c.B}, nil
}
