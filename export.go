package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

type exportOptions struct {
	dir    string
	frames int
	fps    float64
	start  float64
	width  int
	height int
}

// exportFrames renders opts.frames frames spaced 1/fps apart and writes them
// as numbered PNGs. Rendering is sequential; encoding overlaps it.
func exportFrames(ctx context.Context, sc scene, r frameRenderer, opts exportOptions) error {
	if opts.frames < 1 {
		return fmt.Errorf("-frames must be at least 1, got %d", opts.frames)
	}
	if opts.fps <= 0 {
		return fmt.Errorf("-fps must be positive, got %g", opts.fps)
	}
	if err := os.MkdirAll(opts.dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(exportEncodeLimit)
	cx, cy := float64(opts.width)/2, float64(opts.height)/2
	began := time.Now()
	for i := 0; i < opts.frames; i++ {
		t := opts.start + float64(i)/opts.fps
		img := image.NewRGBA(image.Rect(0, 0, opts.width, opts.height))
		tally, err := r.Render(ctx, sc.frame(opts.width, opts.height, t, cx, cy), img.Pix, opts.width, opts.height)
		if err != nil {
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return fmt.Errorf("rendering frame %d: %w", i, err)
		}
		path := filepath.Join(opts.dir, fmt.Sprintf("frame_%05d.png", i))
		g.Go(func() error {
			return writePNG(path, img)
		})
		if *debugFlag {
			log.Printf("Frame %d t=%.3fs: %d rays, %d absorbed, %d escaped, %d unterminated",
				i, t, tally.Rays(), tally.Absorbed, tally.Escaped, tally.Unterminated)
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Printf("Wrote %d frames to %s in %s", opts.frames, opts.dir, time.Since(began).Round(time.Millisecond))
	return nil
}

// writePNG encodes img to path.
func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
