package easel

import (
	"fmt"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, m *Matrix2D, want [6]float64) {
	t.Helper()
	got := [6]float64{m.A, m.B, m.C, m.D, m.TX, m.TY}
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// fakeSurface implements Surface entirely in memory: it logs calls for
// order assertions and rasterizes fills, strokes and blits into an
// alpha grid so pixel hit tests run without a GPU.
type fakeSurface struct {
	w, h  int
	alpha []uint8
	log   []string

	tf     [6]float64
	galpha float64
	op     CompositeOp
	shadow *Shadow

	fill        Paint
	stroke      Paint
	strokeWidth float64

	subs   [][]Point // device-space flattened subpaths
	hasCur bool
}

func newFakeSurface(w, h int) *fakeSurface {
	return &fakeSurface{
		w:           w,
		h:           h,
		alpha:       make([]uint8, w*h),
		tf:          [6]float64{1, 0, 0, 1, 0, 0},
		galpha:      1,
		fill:        Color{0, 0, 0, 1},
		stroke:      Color{0, 0, 0, 1},
		strokeWidth: 1,
	}
}

// fakeOffscreens swaps the offscreen factory (node caches, hit probe)
// to fake surfaces for the duration of a test.
func fakeOffscreens(t *testing.T) {
	t.Helper()
	old := newOffscreen
	newOffscreen = func(w, h int) Surface { return newFakeSurface(w, h) }
	hitProbe = nil
	t.Cleanup(func() {
		newOffscreen = old
		hitProbe = nil
	})
}

func (s *fakeSurface) logf(format string, args ...any) {
	s.log = append(s.log, fmt.Sprintf(format, args...))
}

func (s *fakeSurface) dev(x, y float64) Point {
	return Point{
		X: s.tf[0]*x + s.tf[2]*y + s.tf[4],
		Y: s.tf[1]*x + s.tf[3]*y + s.tf[5],
	}
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }

func (s *fakeSurface) Resize(w, h int) {
	s.w, s.h = w, h
	s.alpha = make([]uint8, w*h)
	s.logf("resize %dx%d", w, h)
}

func (s *fakeSurface) Clear() {
	for i := range s.alpha {
		s.alpha[i] = 0
	}
	s.logf("clear")
}

func (s *fakeSurface) SetTransform(a, b, c, d, tx, ty float64) {
	s.tf = [6]float64{a, b, c, d, tx, ty}
	s.logf("transform %g,%g,%g,%g,%g,%g", a, b, c, d, tx, ty)
}

func (s *fakeSurface) SetAlpha(alpha float64) {
	s.galpha = alpha
	s.logf("alpha %g", alpha)
}

func (s *fakeSurface) SetCompositeOp(op CompositeOp) {
	s.op = op
	s.logf("composite %s", op)
}

func (s *fakeSurface) SetShadow(sh *Shadow) {
	s.shadow = sh
	if sh != nil {
		s.logf("shadow %g,%g", sh.OffsetX, sh.OffsetY)
	}
}

func (s *fakeSurface) BeginPath() {
	s.subs = nil
	s.hasCur = false
	s.logf("beginpath")
}

func (s *fakeSurface) MoveTo(x, y float64) {
	s.subs = append(s.subs, []Point{s.dev(x, y)})
	s.hasCur = true
	s.logf("moveto %g,%g", x, y)
}

func (s *fakeSurface) addPoint(x, y float64) {
	if !s.hasCur {
		s.subs = append(s.subs, []Point{s.dev(x, y)})
		s.hasCur = true
		return
	}
	i := len(s.subs) - 1
	s.subs[i] = append(s.subs[i], s.dev(x, y))
}

func (s *fakeSurface) LineTo(x, y float64) {
	s.addPoint(x, y)
	s.logf("lineto %g,%g", x, y)
}

func (s *fakeSurface) Arc(x, y, radius, startAngle, endAngle float64, anticlockwise bool) {
	delta := endAngle - startAngle
	if anticlockwise && delta > 0 {
		delta -= 2 * math.Pi
	}
	const segs = 32
	for i := 0; i <= segs; i++ {
		a := startAngle + delta*float64(i)/segs
		s.addPoint(x+radius*math.Cos(a), y+radius*math.Sin(a))
	}
	s.logf("arc %g,%g r=%g", x, y, radius)
}

func (s *fakeSurface) ArcTo(x1, y1, x2, y2, radius float64) {
	s.addPoint(x1, y1)
	s.addPoint(x2, y2)
	s.logf("arcto %g,%g %g,%g r=%g", x1, y1, x2, y2, radius)
}

func (s *fakeSurface) QuadraticCurveTo(cpx, cpy, x, y float64) {
	s.addPoint(x, y)
	s.logf("quadto %g,%g", x, y)
}

func (s *fakeSurface) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	s.addPoint(x, y)
	s.logf("bezierto %g,%g", x, y)
}

func (s *fakeSurface) Rect(x, y, w, h float64) {
	s.MoveTo(x, y)
	s.addPoint(x+w, y)
	s.addPoint(x+w, y+h)
	s.addPoint(x, y+h)
	s.logf("rect %g,%g %gx%g", x, y, w, h)
}

func (s *fakeSurface) ClosePath() {
	s.logf("closepath")
}

func (s *fakeSurface) SetFillPaint(p Paint) {
	s.fill = p
	s.logf("fillpaint")
}

func (s *fakeSurface) SetStrokePaint(p Paint) {
	s.stroke = p
	s.logf("strokepaint")
}

func (s *fakeSurface) SetStrokeStyle(width float64, cap LineCap, join LineJoin, miterLimit float64) {
	s.strokeWidth = width
	s.logf("strokestyle w=%g", width)
}

func paintAlpha(p Paint) float64 {
	if c, ok := p.(Color); ok {
		return c.A
	}
	return 1
}

// winding accumulates the nonzero winding number of (x, y) with respect
// to a closed polygon.
func winding(poly []Point, x, y float64) int {
	wn := 0
	n := len(poly)
	for i := 0; i < n; i++ {
		p0 := poly[i]
		p1 := poly[(i+1)%n]
		if p0.Y <= y {
			if p1.Y > y && (p1.X-p0.X)*(y-p0.Y)-(x-p0.X)*(p1.Y-p0.Y) > 0 {
				wn++
			}
		} else if p1.Y <= y && (p1.X-p0.X)*(y-p0.Y)-(x-p0.X)*(p1.Y-p0.Y) < 0 {
			wn--
		}
	}
	return wn
}

func (s *fakeSurface) plot(x, y int, a float64) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	i := y*s.w + x
	if s.op == CompositeDestinationOut {
		s.alpha[i] = 0
		return
	}
	v := uint8(math.Min(a, 1) * 255)
	if v > s.alpha[i] {
		s.alpha[i] = v
	}
}

func (s *fakeSurface) Fill() {
	s.logf("fill")
	a := s.galpha * paintAlpha(s.fill)
	if a <= 0 {
		return
	}
	for py := 0; py < s.h; py++ {
		for px := 0; px < s.w; px++ {
			wn := 0
			for _, sub := range s.subs {
				if len(sub) >= 3 {
					wn += winding(sub, float64(px)+0.5, float64(py)+0.5)
				}
			}
			if wn != 0 {
				s.plot(px, py, a)
			}
		}
	}
}

func (s *fakeSurface) Stroke() {
	s.logf("stroke")
	a := s.galpha * paintAlpha(s.stroke)
	if a <= 0 {
		return
	}
	half := math.Max(s.strokeWidth, 1) / 2
	for py := 0; py < s.h; py++ {
		for px := 0; px < s.w; px++ {
			cx, cy := float64(px)+0.5, float64(py)+0.5
			for _, sub := range s.subs {
				for i := 0; i+1 < len(sub); i++ {
					if distToSegment(cx, cy, sub[i], sub[i+1]) <= half {
						s.plot(px, py, a)
					}
				}
			}
		}
	}
}

func distToSegment(x, y float64, p0, p1 Point) float64 {
	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = ((x-p0.X)*dx + (y-p0.Y)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	return math.Hypot(x-(p0.X+t*dx), y-(p0.Y+t*dy))
}

func (s *fakeSurface) DrawImage(src *ebiten.Image, sx, sy, sw, sh, dx, dy, dw, dh float64) {
	s.logf("drawimage src=%g,%g,%g,%g dst=%g,%g,%g,%g", sx, sy, sw, sh, dx, dy, dw, dh)
	// Coverage only: treat the destination rectangle as opaque.
	poly := []Point{
		s.dev(dx, dy),
		s.dev(dx+dw, dy),
		s.dev(dx+dw, dy+dh),
		s.dev(dx, dy+dh),
	}
	for py := 0; py < s.h; py++ {
		for px := 0; px < s.w; px++ {
			if winding(poly, float64(px)+0.5, float64(py)+0.5) != 0 {
				s.plot(px, py, s.galpha)
			}
		}
	}
}

func (s *fakeSurface) DrawSurface(src Surface, dx, dy float64) {
	s.logf("drawsurface %g,%g", dx, dy)
	fs, ok := src.(*fakeSurface)
	if !ok {
		return
	}
	for py := 0; py < fs.h; py++ {
		for px := 0; px < fs.w; px++ {
			a := fs.alpha[py*fs.w+px]
			if a == 0 {
				continue
			}
			p := s.dev(dx+float64(px)+0.5, dy+float64(py)+0.5)
			s.plot(int(math.Floor(p.X)), int(math.Floor(p.Y)), s.galpha*float64(a)/255)
		}
	}
}

func (s *fakeSurface) AlphaAt(x, y int) uint8 {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return 0
	}
	return s.alpha[y*s.w+x]
}

func (s *fakeSurface) Image() *ebiten.Image { return nil }
