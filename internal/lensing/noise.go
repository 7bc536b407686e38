package lensing

import "math"

const hashScale = 152754.742

// Hash scrambles x into [0,1).
func Hash(x float64) float64 {
	return fract(math.Sin(x) * hashScale)
}

// Hash2 combines the two axis hashes of p into [0,1).
func Hash2(p Vec2) float64 {
	return Hash(p.X + Hash(p.Y))
}

// Value returns smoothed value noise at p sampled with lattice frequency f.
// Corners are blended along x first, then y, with 3t²-2t³ weights, so the
// field is C¹ across cell boundaries and equals the corner hash at lattice
// points.
func Value(p Vec2, f float64) float64 {
	q := p.Scale(f)
	cell := Vec2{math.Floor(q.X), math.Floor(q.Y)}

	bl := Hash2(cell)
	br := Hash2(cell.Add(Vec2{1, 0}))
	tl := Hash2(cell.Add(Vec2{0, 1}))
	tr := Hash2(cell.Add(Vec2{1, 1}))

	fx := q.X - cell.X
	fy := q.Y - cell.Y
	fx = (3 - 2*fx) * fx * fx
	fy = (3 - 2*fy) * fy * fy

	b := mix(bl, br, fx)
	t := mix(tl, tr, fx)
	return clamp01(mix(b, t, fy))
}

// Fractal sums octaves of Value with doubling frequency and halving
// amplitude, normalized back into [0,1].
func Fractal(p Vec2, f float64, octaves int) float64 {
	if octaves < 1 {
		octaves = 1
	}
	sum, norm, amp := 0.0, 0.0, 1.0
	for i := 0; i < octaves; i++ {
		sum += Value(p, f) * amp
		norm += amp
		amp *= 0.5
		f *= 2
	}
	return clamp01(sum / norm)
}
