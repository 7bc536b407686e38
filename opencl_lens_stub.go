//go:build !opencl

package main

import (
	"context"
	"errors"

	"blackhole/internal/lensing"
)

type openCLLensRenderer struct{}

func newOpenCLLensRenderer(_ lensing.Sampler) (*openCLLensRenderer, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (r *openCLLensRenderer) Render(context.Context, lensing.Frame, []byte, int, int) (lensing.Tally, error) {
	return lensing.Tally{}, errors.New("OpenCL renderer unavailable")
}

func (r *openCLLensRenderer) Close() {}

func (r *openCLLensRenderer) DeviceName() string { return "" }
