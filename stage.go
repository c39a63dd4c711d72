package easel

import "github.com/hajimehoshi/ebiten/v2"

// Stage owns the display list root and drives the frame cycle: Tick
// once per update, then Draw (or DrawTo) once per frame.
type Stage struct {
	// Root is the display list root, a container covering the stage.
	Root *Node

	// AutoClear clears the target surface before each draw. Disable it
	// to accumulate frames (trail effects).
	AutoClear bool

	// Tweens advance by one tick's duration during Tick.
	Tweens TweenGroup

	width  int
	height int
	screen *ImageSurface
}

// NewStage creates a stage with an empty root container. The size is
// used as the default window/layout size by Run.
func NewStage(width, height int) *Stage {
	return &Stage{
		Root:      NewContainer("root"),
		AutoClear: true,
		width:     width,
		height:    height,
	}
}

// Size returns the stage's nominal size.
func (st *Stage) Size() (int, int) {
	return st.width, st.height
}

// Tick runs one update pass: tween advancement, then OnTick callbacks
// and frame-sequence stepping over the whole tree, root first. Children
// tick in reverse index order (topmost first), mirroring hit-test
// order, so interaction handlers on upper nodes run before the nodes
// beneath them.
func (st *Stage) Tick() {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	st.Tweens.Update(1 / float64(tps))
	tickNode(st.Root)
}

func tickNode(n *Node) {
	if n.OnTick != nil {
		n.OnTick(n)
	}
	if n.Type == NodeTypeSequence && n.Sequence != nil {
		n.Sequence.tick()
	}
	// Snapshot so handlers can restructure the tree mid-pass.
	kids := make([]*Node, len(n.children))
	copy(kids, n.children)
	for i := len(kids) - 1; i >= 0; i-- {
		tickNode(kids[i])
	}
}

// Draw renders the display list onto an arbitrary surface, clearing it
// first when AutoClear is set.
func (st *Stage) Draw(s Surface) {
	if st.AutoClear {
		s.Clear()
	}
	st.Root.Draw(s, false)
}

// DrawTo renders the display list onto an ebiten image, typically the
// screen passed to an ebiten.Game's Draw.
func (st *Stage) DrawTo(screen *ebiten.Image) {
	if st.screen == nil {
		st.screen = NewImageSurface(screen)
	} else {
		st.screen.image = screen
	}
	st.Draw(st.screen)
}
