package easel

import "github.com/hajimehoshi/ebiten/v2"

// Paint is a fill or stroke style: a solid Color, a *LinearGradient, a
// *RadialGradient, or a *Pattern.
type Paint interface {
	paint()
}

func (Color) paint()           {}
func (*LinearGradient) paint() {}
func (*RadialGradient) paint() {}
func (*Pattern) paint()        {}

// GradientStop is a single color stop. Offset is in [0, 1] along the
// gradient axis.
type GradientStop struct {
	Offset float64
	Color  Color
}

// LinearGradient interpolates color stops along the line (X0,Y0)-(X1,Y1)
// in the coordinate space active when the paint is applied.
type LinearGradient struct {
	X0, Y0 float64
	X1, Y1 float64
	Stops  []GradientStop
}

// RadialGradient interpolates color stops between two circles. Backends
// may approximate by radial distance from the outer circle's center.
type RadialGradient struct {
	X0, Y0, R0 float64
	X1, Y1, R1 float64
	Stops      []GradientStop
}

// RepeatMode selects how a Pattern tiles.
type RepeatMode uint8

const (
	RepeatBoth RepeatMode = iota
	RepeatNone
)

// Pattern fills with a tiled image.
type Pattern struct {
	Image  *ebiten.Image
	Repeat RepeatMode
}

// colorAt evaluates a stop list at offset t in [0, 1], clamping outside.
func colorAt(stops []GradientStop, t float64) Color {
	if len(stops) == 0 {
		return ColorWhite
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		if t > stops[i].Offset {
			continue
		}
		lo, hi := stops[i-1], stops[i]
		span := hi.Offset - lo.Offset
		if span <= 0 {
			return hi.Color
		}
		f := (t - lo.Offset) / span
		return Color{
			R: lo.Color.R + (hi.Color.R-lo.Color.R)*f,
			G: lo.Color.G + (hi.Color.G-lo.Color.G)*f,
			B: lo.Color.B + (hi.Color.B-lo.Color.B)*f,
			A: lo.Color.A + (hi.Color.A-lo.Color.A)*f,
		}
	}
	return last.Color
}

// Surface is the immediate-mode drawing context the display list renders
// against: a canvas-style API with path construction, fill/stroke
// execution, settable paints and stroke attributes, global
// alpha/composite/shadow state, an affine transform, image blits, pixel
// read-back, and resizable backing dimensions.
//
// Surfaces are stateful and single-threaded; the display list saves and
// restores nothing — it sets the full state it needs before each paint.
type Surface interface {
	// Backing dimensions.
	Size() (w, h int)
	// Resize reallocates the backing store at the given size, clearing
	// it. Resizing to the current size still clears.
	Resize(w, h int)
	// Clear fills the entire surface with transparent black, ignoring
	// the current transform and composite mode.
	Clear()

	// SetTransform replaces the current affine transform (canvas
	// convention: x' = a*x + c*y + tx, y' = b*x + d*y + ty).
	SetTransform(a, b, c, d, tx, ty float64)
	// SetAlpha sets the global opacity multiplier in [0, 1].
	SetAlpha(alpha float64)
	// SetCompositeOp sets the compositing rule; "" means source-over.
	SetCompositeOp(op CompositeOp)
	// SetShadow sets the shadow applied to subsequent paints; nil
	// disables it.
	SetShadow(s *Shadow)

	// Path construction. Coordinates are in the current transform's
	// source space.
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, radius, startAngle, endAngle float64, anticlockwise bool)
	ArcTo(x1, y1, x2, y2, radius float64)
	QuadraticCurveTo(cpx, cpy, x, y float64)
	BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64)
	Rect(x, y, w, h float64)
	ClosePath()

	// Paint and stroke attributes.
	SetFillPaint(p Paint)
	SetStrokePaint(p Paint)
	SetStrokeStyle(width float64, cap LineCap, join LineJoin, miterLimit float64)

	// Fill and Stroke execute the current path with the current state.
	// The path is retained (canvas semantics): a Fill followed by a
	// Stroke uses the same path.
	Fill()
	Stroke()

	// DrawImage blits the sub-rectangle (sx, sy, sw, sh) of src to the
	// destination rectangle (dx, dy, dw, dh) under the current
	// transform, alpha and composite mode.
	DrawImage(src *ebiten.Image, sx, sy, sw, sh, dx, dy, dw, dh float64)
	// DrawSurface blits another surface's full contents at (dx, dy)
	// under the current transform, alpha and composite mode.
	DrawSurface(src Surface, dx, dy float64)

	// AlphaAt reads back the alpha of the pixel at device coordinates
	// (x, y). Out-of-bounds reads return 0.
	AlphaAt(x, y int) uint8

	// Image returns the backing *ebiten.Image, or nil when the surface
	// is not image-backed (filters require an image-backed surface).
	Image() *ebiten.Image
}

// newOffscreen allocates the offscreen surfaces used for node caches and
// the hit-test probe. Overridable by tests; single rendering goroutine
// only.
var newOffscreen = func(w, h int) Surface {
	return NewImageSurface(ebiten.NewImage(w, h))
}
