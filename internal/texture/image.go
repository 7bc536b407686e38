package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"blackhole/internal/lensing"
)

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("texture: image has no pixels")

// Image is a bilinear, clamp-to-edge sampler over decoded pixels.
type Image struct {
	Width  int
	Height int
	Pixels []lensing.Vec3 // Row-major, top row first: Pixels[y*Width + x]
}

// NewImage wraps a pixel slice. len(pixels) must equal width*height.
func NewImage(width, height int, pixels []lensing.Vec3) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("texture: %d pixels for %dx%d image", len(pixels), width, height)
	}
	return &Image{Width: width, Height: height, Pixels: pixels}, nil
}

// Sample returns the bilinearly filtered color at (u, v). v = 0 is the
// bottom row; coordinates outside the unit square clamp to the edge.
func (t *Image) Sample(u, v float64) lensing.Vec3 {
	// Texel centers sit at (i+0.5)/Width.
	fx := clampF(u, 0, 1)*float64(t.Width) - 0.5
	fy := (1-clampF(v, 0, 1))*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := t.at(x0, y0)
	c10 := t.at(x0+1, y0)
	c01 := t.at(x0, y0+1)
	c11 := t.at(x0+1, y0+1)
	top := c00.Lerp(c10, tx)
	bottom := c01.Lerp(c11, tx)
	return top.Lerp(bottom, ty)
}

func (t *Image) at(x, y int) lensing.Vec3 {
	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}
	return t.Pixels[y*t.Width+x]
}

// FromImage converts any image.Image into a sampler, downsampling with
// Catmull-Rom when either side exceeds maxDim. maxDim <= 0 keeps the
// original size.
func FromImage(src image.Image, maxDim int) (*Image, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	w, h := b.Dx(), b.Dy()
	if maxDim > 0 && (w > maxDim || h > maxDim) {
		scale := float64(maxDim) / float64(max(w, h))
		w = max(1, int(math.Round(float64(w)*scale)))
		h = max(1, int(math.Round(float64(h)*scale)))
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
		src = dst
		b = dst.Bounds()
	}

	pixels := make([]lensing.Vec3, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBA64Model.Convert(src.At(x, y)).(color.NRGBA64)
			pixels = append(pixels, lensing.Vec3{
				X: float64(c.R) / 0xffff,
				Y: float64(c.G) / 0xffff,
				Z: float64(c.B) / 0xffff,
			})
		}
	}
	return NewImage(w, h, pixels)
}

// Load decodes the image file at path. PNG, JPEG, GIF, WebP, BMP and TIFF
// are supported.
func Load(path string, maxDim int) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening background: %w", err)
	}
	defer f.Close()
	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding background %s: %w", path, err)
	}
	img, err := FromImage(src, maxDim)
	if err != nil {
		return nil, fmt.Errorf("converting background %s: %w", path, err)
	}
	Logger().Info("background loaded", "path", path, "format", format, "width", img.Width, "height", img.Height)
	return img, nil
}

func clampF(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
