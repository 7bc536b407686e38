package lensing

// Tally counts how traced rays ended during a frame.
type Tally struct {
	Absorbed     int
	Escaped      int
	Unterminated int
	DiskHits     int
}

// Add merges another tally into t.
func (t *Tally) Add(o Tally) {
	t.Absorbed += o.Absorbed
	t.Escaped += o.Escaped
	t.Unterminated += o.Unterminated
	t.DiskHits += o.DiskHits
}

// Rays returns the number of terminated and unterminated rays counted.
func (t Tally) Rays() int {
	return t.Absorbed + t.Escaped + t.Unterminated
}

func (t *Tally) record(r Result) {
	switch r.State {
	case Absorbed:
		t.Absorbed++
	case Escaped:
		t.Escaped++
	default:
		t.Unterminated++
	}
	t.DiskHits += r.DiskHits
}

// Kernel is the prepared, read-only form of a Frame. It is safe for
// concurrent use by any number of goroutines.
type Kernel struct {
	frame Frame
	cam   camera
	ss    int
}

// NewKernel validates the frame uniforms and precomputes the camera.
func NewKernel(f Frame) *Kernel {
	if f.Params == (Params{}) {
		f.Params = DefaultParams()
	}
	f.Params = f.Params.withDefaults()
	if f.BackgroundParams == (BackgroundParams{}) {
		f.BackgroundParams = DefaultBackgroundParams()
	}
	ss := f.Supersample
	if ss < 1 {
		ss = 1
	}
	return &Kernel{frame: f, cam: newCamera(&f), ss: ss}
}

// Frame returns the uniforms the kernel was prepared with.
func (k *Kernel) Frame() Frame { return k.frame }

// Trace follows the view ray through the pixel coordinate (x, y), measured
// from the bottom-left corner of the surface.
func (k *Kernel) Trace(x, y float64) Result {
	return Trace(k.cam.pos, k.cam.ray(x, y), &k.frame)
}

// Shade returns the tone mapped color for pixel coordinate (x, y). With
// supersampling the sub-samples are spread over the unit cell centered on
// (x, y). t may be nil.
func (k *Kernel) Shade(x, y float64, t *Tally) Vec3 {
	if k.ss == 1 {
		r := k.Trace(x, y)
		if t != nil {
			t.record(r)
		}
		return Tonemap(r.Color, k.frame.Params.Gamma)
	}
	n := float64(k.ss)
	var sum Vec3
	for j := 0; j < k.ss; j++ {
		for i := 0; i < k.ss; i++ {
			sx := x - 0.5 + (float64(i)+0.5)/n
			sy := y - 0.5 + (float64(j)+0.5)/n
			r := k.Trace(sx, sy)
			if t != nil {
				t.record(r)
			}
			sum = sum.Add(Tonemap(r.Color, k.frame.Params.Gamma))
		}
	}
	return sum.Scale(1 / (n * n)).Clamp(0, 1)
}

// Shade is the one-shot form of Kernel.Shade.
func Shade(x, y float64, f Frame) Vec3 {
	return NewKernel(f).Shade(x, y, nil)
}

// Tonemap clamps c into [0,1] and applies the display gamma. Non-finite
// channels become zero.
func Tonemap(c Vec3, gamma float64) Vec3 {
	c = Vec3{finite(c.X), finite(c.Y), finite(c.Z)}.Clamp(0, 1)
	return c.Pow(gamma)
}
