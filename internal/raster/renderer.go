package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	"blackhole/internal/lensing"
)

var (
	// ErrBufferSize is returned when the pixel buffer does not match the
	// requested surface.
	ErrBufferSize = errors.New("raster: pixel buffer does not match surface size")
	// ErrClosed is returned by Render after Close.
	ErrClosed = errors.New("raster: renderer closed")
)

// job is the read-only description of the frame being rendered.
type job struct {
	ctx    context.Context
	kernel *lensing.Kernel
	pix    []byte
	width  int
	height int
}

// Renderer dispatches the lensing kernel over persistent worker goroutines.
// Each worker owns a fixed set of rows, so the output does not depend on the
// number of workers or on scheduling.
type Renderer struct {
	frameMu sync.Mutex

	mu          sync.Mutex
	cond        *sync.Cond
	workerCount int
	step        int
	pending     int
	closed      bool
	job         job
	masks       []workerMask
	maskHeight  int
	tallies     []lensing.Tally
}

// NewRenderer starts a renderer with the given number of workers. Values
// below one use every CPU.
func NewRenderer(workers int) *Renderer {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	r := &Renderer{
		workerCount: workers,
		maskHeight:  -1,
		tallies:     make([]lensing.Tally, workers),
	}
	r.cond = sync.NewCond(&r.mu)
	for i := 0; i < workers; i++ {
		go r.workerLoop(i)
	}
	Logger().Debug("raster workers started", "workers", workers)
	return r
}

// Workers reports the number of worker goroutines.
func (r *Renderer) Workers() int { return r.workerCount }

// workerLoop renders the rows assigned to the worker each time a new frame
// is published.
func (r *Renderer) workerLoop(index int) {
	lastStep := 0
	r.mu.Lock()
	for {
		for r.step == lastStep && !r.closed {
			r.cond.Wait()
		}
		if r.closed {
			r.mu.Unlock()
			return
		}
		lastStep = r.step
		j := r.job
		var mask workerMask
		if index < len(r.masks) {
			mask = r.masks[index]
		}
		r.mu.Unlock()

		tally := renderRows(j, mask.rows)

		r.mu.Lock()
		r.tallies[index] = tally
		r.pending--
		if r.pending == 0 {
			r.cond.Broadcast()
		}
	}
}

// renderRows shades every pixel of the given rows. Row 0 is the top of the
// surface; the kernel measures y from the bottom.
func renderRows(j job, rows []int) lensing.Tally {
	var t lensing.Tally
	for _, y := range rows {
		if j.ctx.Err() != nil {
			break
		}
		py := float64(j.height-y) - 0.5
		base := y * j.width * 4
		for x := 0; x < j.width; x++ {
			c := j.kernel.Shade(float64(x)+0.5, py, &t)
			putPixel(j.pix[base+x*4:], c)
		}
	}
	return t
}

// Render shades one frame into pix, a width*height RGBA buffer with the top
// row first. It blocks until every worker has finished. When ctx is
// cancelled the remaining rows are skipped and ctx.Err() is returned; pix is
// then only partially updated.
func (r *Renderer) Render(ctx context.Context, f lensing.Frame, pix []byte, width, height int) (lensing.Tally, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return lensing.Tally{}, fmt.Errorf("%w: %d bytes for %dx%d", ErrBufferSize, len(pix), width, height)
	}
	if err := ctx.Err(); err != nil {
		return lensing.Tally{}, err
	}
	f.Width, f.Height = float64(width), float64(height)
	k := lensing.NewKernel(f)

	r.frameMu.Lock()
	defer r.frameMu.Unlock()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return lensing.Tally{}, ErrClosed
	}
	if r.maskHeight != height {
		r.masks = assignRowMasks(r.workerCount, height)
		r.maskHeight = height
		Logger().Debug("row masks rebuilt", "height", height, "workers", r.workerCount)
	}
	r.job = job{ctx: ctx, kernel: k, pix: pix, width: width, height: height}
	r.pending = r.workerCount
	r.step++
	r.cond.Broadcast()
	for r.pending > 0 {
		r.cond.Wait()
	}
	var total lensing.Tally
	for _, t := range r.tallies {
		total.Add(t)
	}
	r.job = job{}
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		Logger().Debug("frame dropped", "err", err)
		return total, err
	}
	return total, nil
}

// RenderImage renders a frame into a new RGBA image.
func (r *Renderer) RenderImage(ctx context.Context, f lensing.Frame, width, height int) (*image.RGBA, lensing.Tally, error) {
	if width <= 0 || height <= 0 {
		return nil, lensing.Tally{}, fmt.Errorf("%w: %dx%d", ErrBufferSize, width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	t, err := r.Render(ctx, f, img.Pix, width, height)
	if err != nil {
		return nil, t, err
	}
	return img, t, nil
}

// Close stops the worker goroutines. It waits for an in-flight frame.
func (r *Renderer) Close() {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		r.cond.Broadcast()
		Logger().Debug("raster workers stopped", "workers", r.workerCount)
	}
	r.mu.Unlock()
}
