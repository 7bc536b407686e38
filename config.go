package main

import "time"

// Window, export, and preview constants. Kernel tuning lives in
// internal/lensing; these only shape how frames are produced and shown.
const (
	defaultWidth      = 640
	defaultHeight     = 360
	defaultScale      = 2
	defaultTPS        = 60.0
	pointerSmoothing  = 0.12
	minSupersample    = 1
	maxSupersample    = 4
	diskSizeStep      = 0.01
	minDiskSize       = 0.05
	maxDiskSize       = 0.6
	defaultMaxTexture = 2048
	exportEncodeLimit = 4
	terminalTick      = 33 * time.Millisecond
	frameLogInterval  = 5 * time.Second
	bakedSkyWidth     = 1024
	bakedSkyHeight    = 512
	windowTitle       = "Black Hole"
)
