package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"

	"blackhole/internal/lensing"
	"blackhole/internal/raster"
	"blackhole/internal/texture"
)

// scene is everything about a frame that does not change while running.
type scene struct {
	params      lensing.Params
	diskColor   lensing.Vec3
	background  lensing.Sampler
	supersample int
}

// frame builds the uniforms for one frame. The pointer is in surface pixels
// with the origin at the bottom-left corner.
func (s scene) frame(width, height int, t, pointerX, pointerY float64) lensing.Frame {
	f := lensing.NewFrame(width, height, t, s.background)
	f.PointerX, f.PointerY = pointerX, pointerY
	f.DiskColor = s.diskColor
	f.Params = s.params
	f.Supersample = s.supersample
	return f
}

// loadScene resolves the scene flags.
func loadScene() (scene, error) {
	diskColor, err := texture.ParseColor(*diskColorFlag)
	if err != nil {
		return scene{}, fmt.Errorf("-disk-color: %w", err)
	}
	fallback, err := texture.ParseColor(*fallbackColorFlag)
	if err != nil {
		return scene{}, fmt.Errorf("-fallback-color: %w", err)
	}
	if *sizeFlag <= 0 {
		return scene{}, fmt.Errorf("-size must be positive, got %g", *sizeFlag)
	}
	params := lensing.DefaultParams()
	params.Size = *sizeFlag
	params.Speed = *speedFlag
	return scene{
		params:      params,
		diskColor:   diskColor,
		background:  texture.Open(*backgroundFlag, *maxTextureFlag, fallback),
		supersample: clampInt(*supersampleFlag, minSupersample, maxSupersample),
	}, nil
}

// setupLogging routes the library loggers to stderr. Warnings are always
// shown; -debug adds per-frame detail.
func setupLogging() {
	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	raster.SetLogger(logger)
	texture.SetLogger(logger)
}

func run() error {
	if *cpuProfileFlag != "" {
		stop, err := startCPUProfile(*cpuProfileFlag)
		if err != nil {
			return err
		}
		defer stop()
		log.Printf("CPU profile recording to %s", *cpuProfileFlag)
	}

	sc, err := loadScene()
	if err != nil {
		return err
	}
	if *widthFlag <= 0 || *heightFlag <= 0 {
		return fmt.Errorf("invalid surface %dx%d", *widthFlag, *heightFlag)
	}

	r := newFrameRenderer(sc)
	defer r.Close()

	switch {
	case *outFlag != "":
		return exportFrames(context.Background(), sc, r, exportOptions{
			dir:    *outFlag,
			frames: *framesFlag,
			fps:    *fpsFlag,
			start:  *startFlag,
			width:  *widthFlag,
			height: *heightFlag,
		})
	case *tuiFlag:
		return runTerminal(sc, r)
	default:
		g := newGame(sc, r, *widthFlag, *heightFlag)
		scale := max(1, *scaleFlag)
		ebiten.SetWindowSize(*widthFlag*scale, *heightFlag*scale)
		ebiten.SetWindowTitle(windowTitle)
		ebiten.SetTPS(int(defaultTPS))
		return ebiten.RunGame(g)
	}
}

func main() {
	flag.Parse()
	runtime.GOMAXPROCS(runtime.NumCPU())
	setupLogging()
	if err := run(); err != nil {
		log.Fatalf("blackhole: %v", err)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
