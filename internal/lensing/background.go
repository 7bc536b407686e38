package lensing

import "math"

// Sampler provides background colors for lookup coordinates in the unit
// square, with v = 0 at the bottom of the image. Implementations must always
// return a color; a missing image is represented by a constant sampler.
type Sampler interface {
	Sample(u, v float64) Vec3
}

var imageCenter = Vec2{0.5, 0.5}

// Background maps an escaped ray direction to the lensed, vignetted image
// sample plus the procedural star layer. Only ray.X and ray.Y are used.
func Background(ray Vec3, s Sampler, bp BackgroundParams) Vec3 {
	xy := ray.XY()
	r := xy.Length()

	lens := math.Exp(-bp.LensStrength * r * r)
	u := clamp01(mix(xy.X*0.5+0.5, imageCenter.X, lens))
	v := clamp01(mix(xy.Y*0.5+0.5, imageCenter.Y, lens))

	var col Vec3
	if s != nil {
		col = s.Sample(u, v).Clamp(0, 1)
	}
	vignette := 1 - smoothstep(bp.VignetteInner, bp.VignetteOuter, r)
	col = col.Scale(vignette).Pow(bp.Lift)

	return col.Add(stars(xy, bp)).Clamp(0, 1)
}

// stars sparsifies high frequency noise into bright points and tints them
// between the warm and cool hues.
func stars(xy Vec2, bp BackgroundParams) Vec3 {
	brightness := Value(xy.Scale(3), bp.StarFrequency)
	brightness = clamp01(math.Pow(brightness, bp.StarPower) * bp.StarGain)
	if brightness == 0 {
		return Vec3{}
	}
	tint := Value(xy.Scale(2), bp.TintFrequency)
	return bp.WarmStar.Lerp(bp.CoolStar, tint).Scale(brightness)
}
