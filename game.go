package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"blackhole/internal/lensing"
)

// Game drives the interactive window: it owns the pixel buffer, the clock,
// and the smoothed pointer.
type Game struct {
	scene    scene
	renderer frameRenderer

	width  int
	height int
	pixels []byte

	time   float64
	paused bool

	// Pointer position in surface pixels, bottom-left origin.
	pointerX float64
	pointerY float64
	targetX  float64
	targetY  float64

	lastTally          lensing.Tally
	lastRenderDuration time.Duration
	lastStatsLog       time.Time
}

// newGame constructs a Game with the pointer resting at the center.
func newGame(sc scene, r frameRenderer, width, height int) *Game {
	cx, cy := float64(width)/2, float64(height)/2
	return &Game{
		scene:    sc,
		renderer: r,
		width:    width,
		height:   height,
		pixels:   make([]byte, width*height*4),
		pointerX: cx,
		pointerY: cy,
		targetX:  cx,
		targetY:  cy,
	}
}

// Update handles input, advances the clock, and renders the next frame into
// the pixel buffer.
func (g *Game) Update() error {
	g.handleInput()
	g.smoothPointer()
	if !g.paused {
		g.time += 1 / defaultTPS
	}

	f := g.scene.frame(g.width, g.height, g.time, g.pointerX, g.pointerY)
	start := time.Now()
	tally, err := g.renderer.Render(context.Background(), f, g.pixels, g.width, g.height)
	if err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	g.lastRenderDuration = time.Since(start)
	g.lastTally = tally
	g.logFrameStats()
	return nil
}

// logFrameStats periodically reports how rays ended when -debug is set.
func (g *Game) logFrameStats() {
	if !*debugFlag {
		return
	}
	now := time.Now()
	if now.Sub(g.lastStatsLog) < frameLogInterval {
		return
	}
	t := g.lastTally
	log.Printf("Frame t=%.2fs in %.1f ms: %d rays (absorbed %d, escaped %d, unterminated %d, disk hits %d)",
		g.time, g.lastRenderDuration.Seconds()*1000, t.Rays(), t.Absorbed, t.Escaped, t.Unterminated, t.DiskHits)
	g.lastStatsLog = now
}
