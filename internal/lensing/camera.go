package lensing

import "math"

// Screen tilt (roughly ten degrees) and pan applied to pixel coordinates
// before forming the view ray.
const (
	tiltCos = 0.985
	tiltSin = 0.174
	panX    = -0.06
	panY    = 0.12
)

const (
	cameraDistance = 3.5
	cameraPush     = 5
	cameraPitch    = 0.1
	orbitRate      = 0.1
)

// camera holds the per-frame view setup shared by every pixel.
type camera struct {
	width, height float64
	pos           Vec3
	// Corrective yaw/pitch applied to each view ray before the orbit.
	fixYaw, fixPitch float64
	pitch, yaw       float64
}

func newCamera(f *Frame) camera {
	c := camera{width: f.Width, height: f.Height}
	if c.width <= 0 {
		c.width = 1
	}
	if c.height <= 0 {
		c.height = 1
	}

	mx := clamp01(f.PointerX / c.width)
	my := clamp01(f.PointerY / c.height)
	ny := 2*my - 1
	dist := cameraDistance + cameraPush*ny*ny

	// The pan pushes the attractor off center. Undo it fully at the resting
	// distance and progressively less as the camera pulls back.
	center := c.screenRay(c.width/2, c.height/2)
	weight := cameraDistance / dist
	c.fixYaw = -math.Atan2(center.X, center.Z) * weight
	c.fixPitch = math.Atan2(center.Y, math.Hypot(center.X, center.Z)) * weight

	c.pitch = cameraPitch + ny*math.Pi
	c.yaw = f.Time*orbitRate + (2*mx-1)*math.Pi
	c.pos = c.orbit(Vec3{0, 0, -dist})
	return c
}

// screenRay forms the uncorrected view ray for a pixel coordinate.
func (c camera) screenRay(x, y float64) Vec3 {
	dx := x - c.width/2
	dy := y - c.height/2
	rx := dx*tiltCos + dy*tiltSin + panX*c.width
	ry := dy*tiltCos - dx*tiltSin + panY*c.height
	return Vec3{rx / c.width, ry / c.width, 1}.Normalize()
}

func (c camera) orbit(v Vec3) Vec3 {
	return rotateY(rotateX(v, c.pitch), c.yaw)
}

// ray returns the world space view ray for a pixel coordinate.
func (c camera) ray(x, y float64) Vec3 {
	r := c.screenRay(x, y)
	r = rotateX(rotateY(r, c.fixYaw), c.fixPitch)
	return c.orbit(r).Normalize()
}
