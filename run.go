package bramble

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Run opens an Ebitengine window configured from the App's Config and runs
// until Quit is called or the window is closed. Ebitengine drives the fixed
// tick rate; Run must be called from the main goroutine.
func (a *App) Run() error {
	if a.current == nil && a.next == nil {
		return fmt.Errorf("bramble: run: %w", ErrNoScene)
	}
	if a.closed {
		return fmt.Errorf("bramble: run: app closed")
	}
	cfg := a.cfg
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetFullscreen(cfg.Fullscreen)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(cfg.FPS)
	if cfg.Icon != "" {
		_, icon, err := ebitenutil.NewImageFromFile(cfg.Icon)
		if err != nil {
			logWarnf("window icon %s: %v", cfg.Icon, err)
		} else {
			ebiten.SetWindowIcon([]image.Image{icon})
		}
	}
	if a.input == nil {
		a.input = NewEbitenInput()
	}

	a.ebitenDriven = true
	a.running = true
	a.quit = false
	defer func() {
		a.ebitenDriven = false
		a.running = false
	}()

	g := &ebitenGame{app: a}
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("bramble: run: %w", err)
	}
	return g.err
}

// ebitenGame adapts an App to ebiten.Game.
type ebitenGame struct {
	app      *App
	renderer *ImageRenderer
	err      error
}

func (g *ebitenGame) Update() error {
	a := g.app
	if a.quit || g.err != nil {
		return ebiten.Termination
	}
	a.stepTestRunner()
	a.eventBuf = a.pollInput(a.eventBuf[:0])
	a.deliverInput(a.eventBuf)
	a.Tick(a.interval.Seconds())
	if a.quit {
		return ebiten.Termination
	}
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	if g.renderer == nil {
		g.renderer = NewImageRenderer(screen)
	} else {
		g.renderer.SetTarget(screen)
	}
	if err := g.app.Render(g.renderer); err != nil {
		g.err = err
		g.app.Quit()
		return
	}
	g.app.flushScreenshots(screen)
	if globalDebug {
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("TPS %.1f  FPS %.1f  draws %d", ebiten.ActualTPS(), ebiten.ActualFPS(), g.renderer.DrawCalls()),
			4, screen.Bounds().Dy()-20)
	}
}

func (g *ebitenGame) Layout(_, _ int) (int, int) {
	return g.app.cfg.Width, g.app.cfg.Height
}
