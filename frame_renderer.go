package main

import (
	"context"
	"log"

	"blackhole/internal/lensing"
	"blackhole/internal/raster"
)

// frameRenderer fills an RGBA buffer (top row first) with one frame.
type frameRenderer interface {
	Render(ctx context.Context, f lensing.Frame, pix []byte, width, height int) (lensing.Tally, error)
	Close()
}

// newFrameRenderer picks the OpenCL renderer when requested and available,
// and the CPU worker pool otherwise.
func newFrameRenderer(sc scene) frameRenderer {
	if *openCLFlag {
		solver, err := newOpenCLLensRenderer(sc.background)
		if err != nil {
			log.Printf("OpenCL unavailable, rendering on CPU: %v", err)
		} else {
			log.Printf("OpenCL renderer enabled (device: %s)", solver.DeviceName())
			return solver
		}
	}
	r := raster.NewRenderer(*workersFlag)
	log.Printf("CPU renderer enabled (%d workers)", r.Workers())
	return r
}
