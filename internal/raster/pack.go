package raster

import (
	"blackhole/internal/lensing"
)

// Pack converts a tone mapped color to opaque 8-bit RGBA.
func Pack(c lensing.Vec3) [4]byte {
	c = c.Clamp(0, 1)
	return [4]byte{
		byte(c.X*255 + 0.5),
		byte(c.Y*255 + 0.5),
		byte(c.Z*255 + 0.5),
		255,
	}
}

// putPixel writes c into the first four bytes of dst.
func putPixel(dst []byte, c lensing.Vec3) {
	p := Pack(c)
	dst[0] = p[0]
	dst[1] = p[1]
	dst[2] = p[2]
	dst[3] = p[3]
}
