package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// handleInput processes the clock keys and, with -debug, the tuning hotkeys.
func (g *Game) handleInput() {
	cx, cy := ebiten.CursorPosition()
	g.setPointerTarget(cx, cy)

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.time = 0
	}
	g.handleDebugControls()
}

// setPointerTarget converts a cursor position (top-left origin) into the
// kernel's bottom-left convention, clamped to the surface.
func (g *Game) setPointerTarget(cx, cy int) {
	x := float64(clampInt(cx, 0, g.width))
	y := float64(clampInt(cy, 0, g.height))
	g.targetX = x
	g.targetY = float64(g.height) - y
}

// smoothPointer eases the pointer toward its target once per tick.
func (g *Game) smoothPointer() {
	g.pointerX += (g.targetX - g.pointerX) * pointerSmoothing
	g.pointerY += (g.targetY - g.pointerY) * pointerSmoothing
}

// handleDebugControls processes debug overlay hotkeys.
func (g *Game) handleDebugControls() {
	if !*debugFlag {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.adjustSupersample(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.adjustSupersample(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.adjustDiskSize(-diskSizeStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.adjustDiskSize(diskSizeStep)
	}
}

// adjustSupersample clamps the sub-pixel grid size within bounds.
func (g *Game) adjustSupersample(delta int) {
	g.scene.supersample = clampInt(g.scene.supersample+delta, minSupersample, maxSupersample)
	log.Printf("Supersample %dx%d", g.scene.supersample, g.scene.supersample)
}

// adjustDiskSize clamps the black hole size within bounds.
func (g *Game) adjustDiskSize(delta float64) {
	size := g.scene.params.Size + delta
	if size < minDiskSize {
		size = minDiskSize
	} else if size > maxDiskSize {
		size = maxDiskSize
	}
	g.scene.params.Size = size
	log.Printf("Size %.2f", size)
}
