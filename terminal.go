package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
)

// terminalPreview draws frames with the upper half block: each cell shows
// two surface rows, the top one as foreground and the bottom as background.
type terminalPreview struct {
	screen   tcell.Screen
	scene    scene
	renderer frameRenderer

	cols, rows int
	pixels     []byte

	time     float64
	paused   bool
	pointerX float64
	pointerY float64
	targetX  float64
	targetY  float64
}

func runTerminal(sc scene, r frameRenderer) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	p := &terminalPreview{screen: screen, scene: sc, renderer: r}
	p.resize()
	return p.run()
}

// resize matches the surface to the terminal and recenters the pointer.
func (p *terminalPreview) resize() {
	p.cols, p.rows = p.screen.Size()
	w, h := p.surface()
	p.pixels = make([]byte, w*h*4)
	p.pointerX, p.pointerY = float64(w)/2, float64(h)/2
	p.targetX, p.targetY = p.pointerX, p.pointerY
}

func (p *terminalPreview) surface() (int, int) {
	return max(1, p.cols), max(1, p.rows*2)
}

func (p *terminalPreview) run() error {
	ticker := time.NewTicker(terminalTick)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !p.handleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			if !p.paused {
				p.time += now.Sub(last).Seconds()
			}
			last = now
			if err := p.draw(); err != nil {
				return err
			}
		}
	}
}

// handleEvent reports false when the preview should exit.
func (p *terminalPreview) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				p.paused = !p.paused
			case 'r':
				p.time = 0
			}
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		_, h := p.surface()
		p.targetX = float64(x) + 0.5
		p.targetY = float64(h) - float64(y*2+1)
	case *tcell.EventResize:
		p.resize()
		p.screen.Sync()
	}
	return true
}

func (p *terminalPreview) draw() error {
	p.pointerX += (p.targetX - p.pointerX) * pointerSmoothing
	p.pointerY += (p.targetY - p.pointerY) * pointerSmoothing

	w, h := p.surface()
	f := p.scene.frame(w, h, p.time, p.pointerX, p.pointerY)
	if _, err := p.renderer.Render(context.Background(), f, p.pixels, w, h); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	for row := 0; row < p.rows; row++ {
		top := row * 2 * w * 4
		bottom := top + w*4
		for x := 0; x < p.cols; x++ {
			i := x * 4
			fg := tcell.NewRGBColor(int32(p.pixels[top+i]), int32(p.pixels[top+i+1]), int32(p.pixels[top+i+2]))
			bg := tcell.NewRGBColor(int32(p.pixels[bottom+i]), int32(p.pixels[bottom+i+1]), int32(p.pixels[bottom+i+2]))
			p.screen.SetContent(x, row, '▀', nil, tcell.StyleDefault.Foreground(fg).Background(bg))
		}
	}
	p.screen.Show()
	return nil
}
