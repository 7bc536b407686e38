package lensing

// Params holds the attractor and integrator constants. A Params value is
// fixed for the duration of a frame.
type Params struct {
	// Size is the characteristic radius of the central object.
	Size float64
	// Speed scales the disk rotation angle per second.
	Speed float64
	// BendStrength is the mass constant folded into the bending coefficient.
	BendStrength float64
	// DiskSlabs is the number of slabs marched through the disk per crossing.
	DiskSlabs int
	// OuterSteps bounds the number of terminal-condition checks per ray.
	OuterSteps int
	// InnerSteps is the number of integration steps between checks.
	InnerSteps int
	// Gamma is applied to the composited color before packing.
	Gamma float64
}

// DefaultParams returns the tuned constants for the stylized renderer.
func DefaultParams() Params {
	return Params{
		Size:         0.23,
		Speed:        3,
		BendStrength: 0.625,
		DiskSlabs:    12,
		OuterSteps:   15,
		InnerSteps:   6,
		Gamma:        0.6,
	}
}

// withDefaults fills zero fields so a partially specified Params stays
// usable.
func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Size <= 0 {
		p.Size = d.Size
	}
	if p.BendStrength == 0 {
		p.BendStrength = d.BendStrength
	}
	if p.DiskSlabs <= 0 {
		p.DiskSlabs = d.DiskSlabs
	}
	if p.OuterSteps <= 0 {
		p.OuterSteps = d.OuterSteps
	}
	if p.InnerSteps <= 0 {
		p.InnerSteps = d.InnerSteps
	}
	if p.Gamma <= 0 {
		p.Gamma = d.Gamma
	}
	return p
}

// BackgroundParams shapes the lensed background and the star layer.
type BackgroundParams struct {
	// LensStrength is k in exp(-k·r²), the pull of the lookup toward the
	// image center.
	LensStrength float64
	// VignetteInner and VignetteOuter bound the radial falloff.
	VignetteInner float64
	VignetteOuter float64
	// Lift is the gamma exponent applied to the sampled image.
	Lift float64

	StarFrequency float64
	StarPower     float64
	StarGain      float64
	TintFrequency float64
	// WarmStar and CoolStar are the hue extremes mixed by the tint noise.
	WarmStar Vec3
	CoolStar Vec3
}

// DefaultBackgroundParams returns the standard background look.
func DefaultBackgroundParams() BackgroundParams {
	return BackgroundParams{
		LensStrength:  4,
		VignetteInner: 0.35,
		VignetteOuter: 1.15,
		Lift:          0.85,
		StarFrequency: 100,
		StarPower:     256,
		StarGain:      100,
		TintFrequency: 20,
		WarmStar:      Vec3{1, 0.6, 0.2},
		CoolStar:      Vec3{0.2, 0.6, 1},
	}
}

// DefaultDiskColor is the hot inner color of the disk.
var DefaultDiskColor = Vec3{1, 0.8, 0}

// Frame carries the read-only uniforms for one frame. Coordinates follow
// the bottom-left origin convention: y grows upward.
type Frame struct {
	Width, Height    float64
	Time             float64
	PointerX         float64
	PointerY         float64
	DiskColor        Vec3
	Background       Sampler
	Params           Params
	BackgroundParams BackgroundParams
	// Supersample is the edge length of the sub-pixel grid; values below 1
	// mean one sample per pixel.
	Supersample int
}

// NewFrame returns a frame with default parameters and the pointer centered.
func NewFrame(width, height int, t float64, bg Sampler) Frame {
	return Frame{
		Width:            float64(width),
		Height:           float64(height),
		Time:             t,
		PointerX:         float64(width) / 2,
		PointerY:         float64(height) / 2,
		DiskColor:        DefaultDiskColor,
		Background:       bg,
		Params:           DefaultParams(),
		BackgroundParams: DefaultBackgroundParams(),
		Supersample:      1,
	}
}
