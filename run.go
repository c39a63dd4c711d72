package easel

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title string
	// Width and Height set the window size; zero falls back to the
	// stage size.
	Width, Height int
	Resizable     bool
	// TPS overrides the tick rate; zero keeps ebiten's default of 60.
	TPS int
}

// runGame adapts a Stage to the ebiten.Game interface.
type runGame struct {
	stage *Stage
}

func (g *runGame) Update() error {
	g.stage.Tick()
	return nil
}

func (g *runGame) Draw(screen *ebiten.Image) {
	g.stage.DrawTo(screen)
}

func (g *runGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.stage.Size()
}

// Run opens a window and drives the stage's tick/draw cycle until the
// window closes. Applications needing a custom game loop implement
// ebiten.Game themselves and call Stage.Tick and Stage.DrawTo directly.
func Run(stage *Stage, cfg RunConfig) error {
	w, h := cfg.Width, cfg.Height
	if w == 0 || h == 0 {
		w, h = stage.Size()
	}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(cfg.Title)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	return ebiten.RunGame(&runGame{stage: stage})
}
