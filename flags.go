package main

import "flag"

// Command-line flags covering the scene, the renderer backend, and the three
// front ends (window, PNG export, terminal preview).
var (
	// widthFlag and heightFlag set the render surface in pixels.
	widthFlag  = flag.Int("width", defaultWidth, "render width in pixels")
	heightFlag = flag.Int("height", defaultHeight, "render height in pixels")

	// scaleFlag multiplies the window size; the surface stays at -width x -height.
	scaleFlag = flag.Int("scale", defaultScale, "window scale factor")

	sizeFlag  = flag.Float64("size", 0.23, "apparent size of the black hole")
	speedFlag = flag.Float64("speed", 3, "accretion disk rotation speed")

	diskColorFlag     = flag.String("disk-color", "#ffcc00", "inner accretion disk color (hex)")
	backgroundFlag    = flag.String("background", "", "background image (png, jpeg, gif, webp, bmp, tiff); empty uses a procedural nebula")
	fallbackColorFlag = flag.String("fallback-color", "#05050a", "sky color used when the background image cannot be loaded")
	maxTextureFlag    = flag.Int("max-texture", defaultMaxTexture, "downsample background images larger than this (pixels, 0 disables)")

	// workersFlag sets the CPU worker count; 0 uses every core.
	workersFlag     = flag.Int("workers", 0, "CPU render workers (0 = all cores)")
	supersampleFlag = flag.Int("supersample", 1, "rays per pixel side (1-4)")

	// openCLFlag selects the OpenCL renderer when built with -tags opencl.
	openCLFlag = flag.Bool("opencl", false, "render with OpenCL (requires -tags opencl)")

	// debugFlag enables the FPS overlay, debug hotkeys, and verbose logging.
	debugFlag = flag.Bool("debug", false, "show FPS overlay, enable debug hotkeys and verbose logs")

	outFlag    = flag.String("out", "", "write PNG frames to this directory instead of opening a window")
	framesFlag = flag.Int("frames", 1, "number of frames to export with -out")
	fpsFlag    = flag.Float64("fps", 30, "frame rate used to space exported frames in time")
	startFlag  = flag.Float64("start", 0, "time in seconds of the first exported frame")

	// tuiFlag renders into the terminal with tcell instead of a window.
	tuiFlag = flag.Bool("tui", false, "preview in the terminal using half-block characters")

	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this file")
)
