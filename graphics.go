package easel

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// instruction is one deferred surface call recorded by Graphics.
type instruction func(s Surface)

// Graphics records vector drawing commands for deferred replay against
// a Surface. Commands are captured, not executed: a Graphics can be
// built once and replayed every frame by any number of shape nodes.
//
// Styles apply to the path commands recorded after them. Changing a
// style mid-path commits the drawing so far as a finished segment and
// starts a new path, so one Graphics can hold several differently
// styled runs.
//
// All recording methods return the receiver for chaining.
type Graphics struct {
	committed []instruction // finished segments, replayed verbatim
	active    []instruction // path commands of the open segment

	fillInstr        instruction
	strokeInstr      instruction
	strokeStyleInstr instruction

	replay []instruction
	dirty  bool
}

// NewGraphics returns an empty instruction buffer.
func NewGraphics() *Graphics {
	return &Graphics{}
}

// IsEmpty reports whether no drawing commands have been recorded.
func (g *Graphics) IsEmpty() bool {
	return len(g.committed) == 0 && len(g.active) == 0
}

// Draw replays the recorded commands against a surface. The surface
// transform and visual state must already be set by the caller.
func (g *Graphics) Draw(s Surface) {
	if g.dirty {
		g.updateReplay()
	}
	for _, instr := range g.replay {
		instr(s)
	}
}

// Clear discards all recorded commands and styles.
func (g *Graphics) Clear() *Graphics {
	g.committed = nil
	g.active = nil
	g.fillInstr = nil
	g.strokeInstr = nil
	g.strokeStyleInstr = nil
	g.replay = nil
	g.dirty = false
	return g
}

// Clone returns a copy sharing the recorded command closures. The copy
// records independently from the clone point on; paints referenced by
// already recorded commands are shared.
func (g *Graphics) Clone() *Graphics {
	o := &Graphics{
		committed:        append([]instruction(nil), g.committed...),
		active:           append([]instruction(nil), g.active...),
		fillInstr:        g.fillInstr,
		strokeInstr:      g.strokeInstr,
		strokeStyleInstr: g.strokeStyleInstr,
		dirty:            true,
	}
	return o
}

// updateReplay rebuilds the full replay list: committed segments, then
// the open segment as begin-path, styles, path, fill and stroke.
func (g *Graphics) updateReplay() {
	r := make([]instruction, 0, len(g.committed)+len(g.active)+6)
	r = append(r, g.committed...)
	r = append(r, func(s Surface) { s.BeginPath() })
	if g.fillInstr != nil {
		r = append(r, g.fillInstr)
	}
	if g.strokeInstr != nil {
		r = append(r, g.strokeInstr)
		if g.strokeStyleInstr != nil {
			r = append(r, g.strokeStyleInstr)
		}
	}
	r = append(r, g.active...)
	if g.fillInstr != nil {
		r = append(r, func(s Surface) { s.Fill() })
	}
	if g.strokeInstr != nil {
		r = append(r, func(s Surface) { s.Stroke() })
	}
	g.replay = r
	g.dirty = false
}

// newSegment commits the open segment ahead of a style change.
func (g *Graphics) newSegment() {
	if g.dirty || len(g.active) > 0 {
		g.updateReplay()
		g.committed = g.replay
		g.replay = nil
	}
	g.active = nil
	g.dirty = false
}

func (g *Graphics) path(instr instruction) *Graphics {
	g.active = append(g.active, instr)
	g.dirty = true
	return g
}

// --- Path commands ---

// MoveTo starts a new subpath at (x, y).
func (g *Graphics) MoveTo(x, y float64) *Graphics {
	return g.path(func(s Surface) { s.MoveTo(x, y) })
}

// LineTo draws a line from the current point to (x, y).
func (g *Graphics) LineTo(x, y float64) *Graphics {
	return g.path(func(s Surface) { s.LineTo(x, y) })
}

// Arc draws a circular arc around (x, y).
func (g *Graphics) Arc(x, y, radius, startAngle, endAngle float64, anticlockwise bool) *Graphics {
	return g.path(func(s Surface) { s.Arc(x, y, radius, startAngle, endAngle, anticlockwise) })
}

// ArcTo draws the tangent arc between the current point and the two
// control points.
func (g *Graphics) ArcTo(x1, y1, x2, y2, radius float64) *Graphics {
	return g.path(func(s Surface) { s.ArcTo(x1, y1, x2, y2, radius) })
}

// QuadraticCurveTo draws a quadratic bezier to (x, y).
func (g *Graphics) QuadraticCurveTo(cpx, cpy, x, y float64) *Graphics {
	return g.path(func(s Surface) { s.QuadraticCurveTo(cpx, cpy, x, y) })
}

// BezierCurveTo draws a cubic bezier to (x, y).
func (g *Graphics) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) *Graphics {
	return g.path(func(s Surface) { s.BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y) })
}

// Rect adds a closed rectangle subpath.
func (g *Graphics) Rect(x, y, w, h float64) *Graphics {
	return g.path(func(s Surface) { s.Rect(x, y, w, h) })
}

// ClosePath closes the current subpath.
func (g *Graphics) ClosePath() *Graphics {
	return g.path(func(s Surface) { s.ClosePath() })
}

// --- Fill styles ---

func (g *Graphics) setFill(p Paint) *Graphics {
	g.newSegment()
	if p == nil {
		g.fillInstr = nil
	} else {
		g.fillInstr = func(s Surface) { s.SetFillPaint(p) }
	}
	g.dirty = true
	return g
}

// BeginFill fills subsequent path commands with a solid color.
func (g *Graphics) BeginFill(c Color) *Graphics {
	return g.setFill(c)
}

// BeginLinearGradientFill fills with a linear gradient along the line
// (x0, y0)-(x1, y1).
func (g *Graphics) BeginLinearGradientFill(stops []GradientStop, x0, y0, x1, y1 float64) *Graphics {
	return g.setFill(&LinearGradient{X0: x0, Y0: y0, X1: x1, Y1: y1, Stops: stops})
}

// BeginRadialGradientFill fills with a radial gradient between two
// circles.
func (g *Graphics) BeginRadialGradientFill(stops []GradientStop, x0, y0, r0, x1, y1, r1 float64) *Graphics {
	return g.setFill(&RadialGradient{X0: x0, Y0: y0, R0: r0, X1: x1, Y1: y1, R1: r1, Stops: stops})
}

// BeginBitmapFill fills with a tiled image.
func (g *Graphics) BeginBitmapFill(img *ebiten.Image, repeat RepeatMode) *Graphics {
	return g.setFill(&Pattern{Image: img, Repeat: repeat})
}

// EndFill ends the current fill; subsequent paths are not filled.
func (g *Graphics) EndFill() *Graphics {
	return g.setFill(nil)
}

// --- Stroke styles ---

func (g *Graphics) setStroke(p Paint) *Graphics {
	g.newSegment()
	if p == nil {
		g.strokeInstr = nil
	} else {
		g.strokeInstr = func(s Surface) { s.SetStrokePaint(p) }
	}
	g.dirty = true
	return g
}

// SetStrokeStyle sets the stroke width and line appearance for
// subsequent path commands.
func (g *Graphics) SetStrokeStyle(width float64, cap LineCap, join LineJoin, miterLimit float64) *Graphics {
	g.newSegment()
	g.strokeStyleInstr = func(s Surface) { s.SetStrokeStyle(width, cap, join, miterLimit) }
	g.dirty = true
	return g
}

// BeginStroke strokes subsequent path commands with a solid color.
func (g *Graphics) BeginStroke(c Color) *Graphics {
	return g.setStroke(c)
}

// BeginLinearGradientStroke strokes with a linear gradient.
func (g *Graphics) BeginLinearGradientStroke(stops []GradientStop, x0, y0, x1, y1 float64) *Graphics {
	return g.setStroke(&LinearGradient{X0: x0, Y0: y0, X1: x1, Y1: y1, Stops: stops})
}

// BeginRadialGradientStroke strokes with a radial gradient.
func (g *Graphics) BeginRadialGradientStroke(stops []GradientStop, x0, y0, r0, x1, y1, r1 float64) *Graphics {
	return g.setStroke(&RadialGradient{X0: x0, Y0: y0, R0: r0, X1: x1, Y1: y1, R1: r1, Stops: stops})
}

// BeginBitmapStroke strokes with a tiled image.
func (g *Graphics) BeginBitmapStroke(img *ebiten.Image, repeat RepeatMode) *Graphics {
	return g.setStroke(&Pattern{Image: img, Repeat: repeat})
}

// EndStroke ends the current stroke; subsequent paths are not stroked.
func (g *Graphics) EndStroke() *Graphics {
	return g.setStroke(nil)
}

// --- Shape helpers ---

// DrawRect records a filled/stroked rectangle.
func (g *Graphics) DrawRect(x, y, w, h float64) *Graphics {
	return g.Rect(x, y, w, h)
}

// DrawRoundRect records a rectangle with a uniform corner radius.
func (g *Graphics) DrawRoundRect(x, y, w, h, radius float64) *Graphics {
	return g.DrawRoundRectComplex(x, y, w, h, radius, radius, radius, radius)
}

// DrawRoundRectComplex records a rectangle with per-corner radii
// (top-left, top-right, bottom-right, bottom-left).
func (g *Graphics) DrawRoundRectComplex(x, y, w, h, tl, tr, br, bl float64) *Graphics {
	g.MoveTo(x+tl, y)
	g.LineTo(x+w-tr, y)
	g.ArcTo(x+w, y, x+w, y+tr, tr)
	g.LineTo(x+w, y+h-br)
	g.ArcTo(x+w, y+h, x+w-br, y+h, br)
	g.LineTo(x+bl, y+h)
	g.ArcTo(x, y+h, x, y+h-bl, bl)
	g.LineTo(x, y+tl)
	g.ArcTo(x, y, x+tl, y, tl)
	return g.ClosePath()
}

// DrawCircle records a circle centered at (x, y).
func (g *Graphics) DrawCircle(x, y, radius float64) *Graphics {
	g.MoveTo(x+radius, y)
	g.Arc(x, y, radius, 0, 2*math.Pi, false)
	return g.ClosePath()
}

// DrawEllipse records an ellipse inscribed in the rectangle with
// top-left (x, y).
func (g *Graphics) DrawEllipse(x, y, w, h float64) *Graphics {
	// Cubic bezier circle approximation constant.
	const k = 0.5522848
	ox := w / 2 * k
	oy := h / 2 * k
	xe := x + w
	ye := y + h
	xm := x + w/2
	ym := y + h/2
	g.MoveTo(x, ym)
	g.BezierCurveTo(x, ym-oy, xm-ox, y, xm, y)
	g.BezierCurveTo(xm+ox, y, xe, ym-oy, xe, ym)
	g.BezierCurveTo(xe, ym+oy, xm+ox, ye, xm, ye)
	g.BezierCurveTo(xm-ox, ye, x, ym+oy, x, ym)
	return g.ClosePath()
}

// DrawPolyStar records a regular polygon or star centered at (x, y).
// pointSize 0 gives a flat-sided polygon; approaching 1 sharpens the
// points. angleDeg rotates the first point.
func (g *Graphics) DrawPolyStar(x, y, radius float64, sides int, pointSize, angleDeg float64) *Graphics {
	if sides < 3 {
		return g
	}
	pointSize = 1 - pointSize
	angle := angleDeg * DegToRad
	step := math.Pi / float64(sides)
	g.MoveTo(x+math.Cos(angle)*radius, y+math.Sin(angle)*radius)
	for i := 0; i < sides; i++ {
		angle += step
		if pointSize != 1 {
			g.LineTo(x+math.Cos(angle)*radius*pointSize, y+math.Sin(angle)*radius*pointSize)
		}
		angle += step
		g.LineTo(x+math.Cos(angle)*radius, y+math.Sin(angle)*radius)
	}
	return g.ClosePath()
}
