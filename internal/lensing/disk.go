package lensing

import "math"

// Accum is a premultiplied color with opacity, composited front to back.
type Accum struct {
	RGB Vec3
	A   float64
}

// Over composites c over the prior value: the slab rule used inside the disk.
func (prior Accum) Over(c Vec3, alpha float64) Accum {
	return Accum{
		RGB: c.Scale(alpha).Add(prior.RGB.Scale(1 - alpha)),
		A:   prior.A + alpha*(1-prior.A),
	}
}

// Under folds a contribution that lies behind everything accumulated so far.
func (prior Accum) Under(back Accum) Accum {
	return Accum{
		RGB: prior.RGB.Add(back.RGB.Scale(1 - prior.A)),
		A:   prior.A + back.A*(1-prior.A),
	}
}

var (
	diskCold      = Vec3{0.5, 0.13, 0.02}.Scale(0.2)
	redShiftDim   = Vec3{0.4, 0.2, 0.1}
	redShiftHot   = Vec3{1.6, 2.4, 4.0}
	diskEdgeShade = Vec3{0.3, 0.2, 0.15}
)

const (
	diskNoiseFreq  = 70
	maxRotation    = 8192
	minRayVertical = 0.01
)

// ShadeDisk marches the disk slabs around the plane crossing at zero and
// returns the accumulated color and opacity.
func ShadeDisk(ray, zero Vec3, f *Frame) Accum {
	return marchDisk(ray, zero, f, nil)
}

// marchDisk is ShadeDisk with an optional per-slab visitor.
func marchDisk(ray, zero Vec3, f *Frame, visit func(slab int, acc Accum)) Accum {
	size := f.Params.Size
	slabs := float64(f.Params.DiskSlabs)
	inv := 1 / size

	zeroLen := math.Hypot(zero.X, zero.Z)
	vertical := math.Max(math.Abs(ray.Y), minRayVertical)
	dist := math.Min(1, zeroLen*inv*0.5) * size * 0.4 / slabs / vertical

	pos := zero.Sub(ray.Scale(dist * slabs * 0.5))

	// Rotation direction at the crossing point.
	tx, tz := 0.0, 0.0
	if zeroLen > 0 {
		tx, tz = -zero.Z/zeroLen, zero.X/zeroLen
	}
	parallel := (ray.X*tx + ray.Z*tz) / math.Sqrt(math.Max(zeroLen, size*0.01)) * 0.5
	redShift := clamp01((parallel + 0.3) * (parallel + 0.3))

	disMix := clamp01((zeroLen - size*2) * inv * 0.24)
	inside := f.DiskColor.Lerp(diskCold, disMix).
		Mul(redShiftDim.Lerp(redShiftHot, redShift)).
		Scale(1.25)

	redShift = clamp01((redShift + 0.12) * (redShift + 0.12))

	rot := math.Mod(f.Time*f.Params.Speed, maxRotation)
	sinRot, cosRot := math.Sincos(rot)
	mid := (slabs - 1) / 2

	var acc Accum
	for i := 0; i < f.Params.DiskSlabs; i++ {
		fi := float64(i)
		pos = pos.Add(ray.Scale(dist))

		intensity := clamp01(1 - math.Abs((fi-mid)/slabs*2))
		l := math.Hypot(pos.X, pos.Z)

		distMult := clamp01((l-size*0.75)*inv*1.5) * clamp01((size*10-l)*inv*0.2)
		distMult *= distMult

		u := l + f.Time*size*0.3 + intensity*size*0.2

		rx := -pos.Z*sinRot + pos.X*cosRot
		ry := pos.X*sinRot + pos.Z*cosRot
		if math.Abs(ry) < 1e-9 {
			ry = math.Copysign(1e-9, ry)
		}
		angle := 0.02 * math.Atan(math.Abs(rx/ry))

		p := Vec2{angle, u * inv * 0.05}
		noise := Value(p, diskNoiseFreq)*0.66 + Value(p, diskNoiseFreq*2)*0.33

		extra := noise * (1 - clamp01(fi/slabs*2-1))
		alpha := clamp01(noise * (intensity + extra) * (inv*10 + 0.01) * dist * distMult)

		col := diskEdgeShade.Mul(inside).Lerp(inside, math.Min(1, intensity*2)).Scale(2)
		acc = acc.Over(col, alpha)
		acc.RGB = acc.RGB.Clamp(0, 1)
		acc.A = clamp01(acc.A)

		lr := math.Max(l*inv, 0.75)
		glow := redShift * (intensity + 0.5) / slabs * 100 * distMult / (lr * lr)
		acc.RGB = acc.RGB.Add(Vec3{glow, glow, glow})

		if visit != nil {
			visit(i, acc)
		}
	}

	acc.RGB = acc.RGB.Add(Vec3{-0.005, -0.005, -0.005}).Clamp(0, 1)
	return acc
}
