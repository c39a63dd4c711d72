// Package easel is a retained-mode 2D display list for [Ebitengine].
//
// Easel lets you build a tree of visual nodes (vector shapes, bitmaps,
// sprite-sheet sequences, nested containers), apply per-node affine
// transforms, opacity, shadows and composite modes, and render the whole
// tree in a single pass per frame against a canvas-like drawing surface.
// Pixel-accurate hit testing and offscreen caching of expensive subtrees
// are built in.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and
// game loop for you:
//
//	stage := easel.NewStage(640, 480)
//	// ... add nodes to stage.Root ...
//	easel.Run(stage, easel.RunConfig{Title: "My App", Width: 640, Height: 480})
//
// For full control, implement [ebiten.Game] yourself and call
// [Stage.Tick] and [Stage.DrawTo] directly:
//
//	type Game struct{ stage *easel.Stage }
//
//	func (g *Game) Update() error              { g.stage.Tick(); return nil }
//	func (g *Game) Draw(screen *ebiten.Image)  { g.stage.DrawTo(screen) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Display list
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Stage.Root]. Children inherit their parent's transform, opacity,
// shadow and composite mode. Paint order is child-list order: index 0
// is drawn first (back), the last child is drawn on top.
//
// Create nodes with typed constructors: [NewContainer], [NewShape],
// [NewBitmap], [NewFrameSequence].
//
//	ui := easel.NewContainer("ui")
//	stage.Root.AddChild(ui)
//
//	g := easel.NewGraphics()
//	g.BeginFill(easel.Color{R: 0.3, G: 0.7, B: 1, A: 1}).DrawRect(0, 0, 80, 40)
//	box := easel.NewShape("box", g)
//	box.X, box.Y = 100, 50
//	ui.AddChild(box)
//
// # Drawing surface
//
// Rendering happens against the [Surface] interface, a canvas-style
// immediate-mode drawing context. [NewImageSurface] wraps an
// *ebiten.Image; vector paths are rasterized through ebiten/v2/vector.
//
// # Key features
//
// Offscreen caching with filters ([Node.Cache], [ColorFilter],
// [BoxBlurFilter]), pixel hit testing ([Node.HitTest],
// [Node.GetObjectsUnderPoint]), sprite-sheet playback ([SpriteSheet],
// frame sequences with named-sequence chaining), and tweens (via
// [gween]).
//
// Easel is single-threaded by design: all node operations, ticks and
// draws must happen on the same goroutine, one frame at a time.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package easel
