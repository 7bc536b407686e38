package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Draw presents the last rendered frame and the optional debug overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	if len(g.pixels) == g.width*g.height*4 {
		screen.WritePixels(g.pixels)
	}

	if *debugFlag {
		t := g.lastTally
		state := "running"
		if g.paused {
			state = "paused"
		}
		debugMsg := fmt.Sprintf("FPS: %.1f (%.1f TPS)\nFrame: %.2f ms\nTime: %.2fs %s\nSize: %.2f  SS: %dx (-/= [/])\nRays: %d abs %d esc %d unt %d disk %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			g.lastRenderDuration.Seconds()*1000,
			g.time, state,
			g.scene.params.Size, g.scene.supersample,
			t.Rays(), t.Absorbed, t.Escaped, t.Unterminated, t.DiskHits)
		ebitenutil.DebugPrint(screen, debugMsg)
	}
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return g.width, g.height }
