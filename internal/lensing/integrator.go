package lensing

import (
	"fmt"
	"math"
)

// State classifies a ray during and after integration.
type State int

const (
	Marching State = iota
	Absorbed
	Escaped
	DiskHit
	Unterminated
)

func (s State) String() string {
	switch s {
	case Marching:
		return "marching"
	case Absorbed:
		return "absorbed"
	case Escaped:
		return "escaped"
	case DiskHit:
		return "disk-hit"
	case Unterminated:
		return "unterminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Absorption, escape and disk-plane thresholds as multiples of Size.
const (
	absorbRadius = 0.1
	escapeRadius = 1000
	diskBand     = 0.002
	diskNudge    = 0.001
)

const (
	minDistSqr  = 1e-12
	minVertical = 1e-6
)

// Result describes a finished trace.
type Result struct {
	State State
	// Color is the composited color before tone mapping.
	Color    Vec3
	Ray      Vec3
	Position Vec3
	DiskHits int
	// Steps counts the integration steps taken.
	Steps int
}

// Trace bends ray toward the attractor from pos until it is absorbed,
// escapes, or the step budget runs out, folding in the disk at every plane
// crossing.
func Trace(pos, ray Vec3, f *Frame) Result {
	p := f.Params
	size := p.Size
	var acc Accum
	res := Result{State: Marching}

	for outer := 0; outer < p.OuterSteps; outer++ {
		for inner := 0; inner < p.InnerSteps; inner++ {
			pos, ray = bendStep(pos, ray, size, p.BendStrength)
			res.Steps++
		}

		dist := pos.Length()
		switch {
		case dist < size*absorbRadius:
			res.State = Absorbed
			res.Color = acc.RGB.Scale(acc.A)
		case dist > size*escapeRadius:
			res.State = Escaped
			res.Color = compositeOver(acc, Background(ray, f.Background, f.BackgroundParams))
		case math.Abs(pos.Y) <= size*diskBand:
			disk := ShadeDisk(ray, pos, f)
			pos.Y = 0
			pos = pos.Add(ray.Scale(math.Abs(size * diskNudge / math.Max(math.Abs(ray.Y), minVertical))))
			acc = acc.Under(disk)
			res.DiskHits++
			continue
		default:
			continue
		}
		res.Ray, res.Position = ray, pos
		return res
	}

	// Out of steps: treat the current direction as escaped so the pixel
	// still shows the background behind whatever disk was gathered.
	res.State = Unterminated
	res.Color = compositeOver(acc, Background(ray, f.Background, f.BackgroundParams))
	res.Ray, res.Position = ray, pos
	return res
}

// bendStep advances one explicit integration step.
func bendStep(pos, ray Vec3, size, strength float64) (Vec3, Vec3) {
	dotPos := math.Max(pos.Dot(pos), minDistSqr)
	invDist := 1 / math.Sqrt(dotPos)
	centDist := dotPos * invDist

	step := 0.92 * math.Abs(pos.Y) / math.Max(math.Abs(ray.Y), minVertical)
	farLimit := centDist * 0.5
	closeLimit := centDist*0.1 + 0.05*centDist*centDist/size
	step = math.Min(step, math.Min(farLimit, closeLimit))

	bend := step * invDist * invDist * size * strength
	ray = ray.Sub(pos.Scale(bend * invDist)).Normalize()
	pos = pos.Add(ray.Scale(step))
	return pos, ray
}

func compositeOver(acc Accum, bg Vec3) Vec3 {
	return acc.RGB.Scale(acc.A).Add(bg.Scale(1 - acc.A))
}
