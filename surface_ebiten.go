package easel

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// whiteImage backs solid and gradient fills. The 1x1 sub-image keeps
// antialiased triangle edges from sampling outside the white texel.
var (
	whiteImage    *ebiten.Image
	whiteSubImage *ebiten.Image
)

func init() {
	whiteImage = ebiten.NewImage(3, 3)
	whiteImage.Fill(color.White)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// compositeBlend maps a CompositeOp to an ebiten.Blend. Unknown modes
// fall back to source-over.
func compositeBlend(op CompositeOp) ebiten.Blend {
	switch op {
	case "", CompositeSourceOver:
		return ebiten.BlendSourceOver
	case CompositeLighter:
		return ebiten.BlendLighter
	case CompositeMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case CompositeScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case CompositeDestinationOut:
		return ebiten.BlendDestinationOut
	case CompositeDestinationOver:
		return ebiten.BlendDestinationOver
	case CompositeCopy:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// subpath is a flattened polyline in user space.
type subpath struct {
	pts    []Point
	closed bool
}

// ImageSurface implements Surface on an *ebiten.Image. Paths are
// flattened to polylines in user space, transformed by the current
// matrix at Fill/Stroke time, and rasterized through ebiten/v2/vector
// triangulation and DrawTriangles — the same submission path used for
// blits elsewhere in the package.
type ImageSurface struct {
	image *ebiten.Image

	tf     [6]float64 // a, b, c, d, tx, ty
	alpha  float64
	op     CompositeOp
	shadow *Shadow

	fillPaint   Paint
	strokePaint Paint
	strokeWidth float64
	lineCap     LineCap
	lineJoin    LineJoin
	miterLimit  float64

	subpaths []subpath
	hasCur   bool
	curX     float64
	curY     float64

	// Reused rasterization buffers.
	verts []ebiten.Vertex
	inds  []uint16
}

// NewImageSurface wraps an existing image as a drawing surface.
func NewImageSurface(img *ebiten.Image) *ImageSurface {
	s := &ImageSurface{image: img}
	s.reset()
	return s
}

// reset restores default drawing state (identity transform, opaque,
// source-over, black fill, 1px stroke).
func (s *ImageSurface) reset() {
	s.tf = [6]float64{1, 0, 0, 1, 0, 0}
	s.alpha = 1
	s.op = ""
	s.shadow = nil
	s.fillPaint = Color{0, 0, 0, 1}
	s.strokePaint = Color{0, 0, 0, 1}
	s.strokeWidth = 1
	s.lineCap = LineCapButt
	s.lineJoin = LineJoinMiter
	s.miterLimit = 10
	s.subpaths = s.subpaths[:0]
	s.hasCur = false
}

// Size returns the backing image dimensions.
func (s *ImageSurface) Size() (int, int) {
	b := s.image.Bounds()
	return b.Dx(), b.Dy()
}

// Resize deallocates the backing image and allocates a fresh one,
// clearing all pixels. Drawing state is left untouched.
func (s *ImageSurface) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	s.image.Deallocate()
	s.image = ebiten.NewImage(w, h)
}

// Clear fills the surface with transparent black.
func (s *ImageSurface) Clear() {
	s.image.Clear()
}

// SetTransform replaces the current affine transform.
func (s *ImageSurface) SetTransform(a, b, c, d, tx, ty float64) {
	s.tf = [6]float64{a, b, c, d, tx, ty}
}

// SetAlpha sets the global opacity multiplier.
func (s *ImageSurface) SetAlpha(alpha float64) {
	s.alpha = alpha
}

// SetCompositeOp sets the compositing rule for subsequent paints.
func (s *ImageSurface) SetCompositeOp(op CompositeOp) {
	s.op = op
}

// SetShadow sets the shadow for subsequent fills, strokes and blits.
// The shadow is rendered as an offset color pre-pass; Blur is not
// applied.
func (s *ImageSurface) SetShadow(sh *Shadow) {
	s.shadow = sh
}

// --- Path construction ---

// BeginPath discards the current path.
func (s *ImageSurface) BeginPath() {
	s.subpaths = s.subpaths[:0]
	s.hasCur = false
}

// MoveTo starts a new subpath at (x, y).
func (s *ImageSurface) MoveTo(x, y float64) {
	s.subpaths = append(s.subpaths, subpath{pts: []Point{{x, y}}})
	s.hasCur = true
	s.curX, s.curY = x, y
}

func (s *ImageSurface) lineOrMove(x, y float64) {
	if !s.hasCur {
		s.MoveTo(x, y)
		return
	}
	sp := &s.subpaths[len(s.subpaths)-1]
	sp.pts = append(sp.pts, Point{x, y})
	s.curX, s.curY = x, y
}

// LineTo appends a line segment to the current subpath.
func (s *ImageSurface) LineTo(x, y float64) {
	s.lineOrMove(x, y)
}

// curve flattening resolution, segments per curve
const curveSegments = 24

// QuadraticCurveTo appends a quadratic bezier, flattened.
func (s *ImageSurface) QuadraticCurveTo(cpx, cpy, x, y float64) {
	if !s.hasCur {
		s.MoveTo(cpx, cpy)
	}
	x0, y0 := s.curX, s.curY
	for i := 1; i <= curveSegments; i++ {
		t := float64(i) / curveSegments
		u := 1 - t
		px := u*u*x0 + 2*u*t*cpx + t*t*x
		py := u*u*y0 + 2*u*t*cpy + t*t*y
		s.lineOrMove(px, py)
	}
}

// BezierCurveTo appends a cubic bezier, flattened.
func (s *ImageSurface) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	if !s.hasCur {
		s.MoveTo(cp1x, cp1y)
	}
	x0, y0 := s.curX, s.curY
	for i := 1; i <= curveSegments; i++ {
		t := float64(i) / curveSegments
		u := 1 - t
		px := u*u*u*x0 + 3*u*u*t*cp1x + 3*u*t*t*cp2x + t*t*t*x
		py := u*u*u*y0 + 3*u*u*t*cp1y + 3*u*t*t*cp2y + t*t*t*y
		s.lineOrMove(px, py)
	}
}

// Arc appends a circular arc around (x, y). Canvas semantics: a line
// connects the current point to the arc start when a subpath is open.
func (s *ImageSurface) Arc(x, y, radius, startAngle, endAngle float64, anticlockwise bool) {
	delta := endAngle - startAngle
	if anticlockwise {
		if delta <= -2*math.Pi {
			delta = -2 * math.Pi
		} else {
			delta = math.Mod(delta, 2*math.Pi)
			if delta > 0 {
				delta -= 2 * math.Pi
			}
		}
	} else {
		if delta >= 2*math.Pi {
			delta = 2 * math.Pi
		} else {
			delta = math.Mod(delta, 2*math.Pi)
			if delta < 0 {
				delta += 2 * math.Pi
			}
		}
	}

	segs := int(math.Ceil(math.Abs(delta) / (math.Pi / 16)))
	if segs < 2 {
		segs = 2
	}
	for i := 0; i <= segs; i++ {
		a := startAngle + delta*float64(i)/float64(segs)
		px := x + radius*math.Cos(a)
		py := y + radius*math.Sin(a)
		s.lineOrMove(px, py)
	}
}

// ArcTo appends the canvas tangent arc between the current point and the
// two control points. Degenerate input (collinear points or zero radius)
// produces a line to (x1, y1).
func (s *ImageSurface) ArcTo(x1, y1, x2, y2, radius float64) {
	if !s.hasCur {
		s.MoveTo(x1, y1)
		return
	}
	x0, y0 := s.curX, s.curY

	v1x, v1y := x0-x1, y0-y1
	v2x, v2y := x2-x1, y2-y1
	l1 := math.Hypot(v1x, v1y)
	l2 := math.Hypot(v2x, v2y)
	cross := v1x*v2y - v1y*v2x
	if radius <= 0 || l1 == 0 || l2 == 0 || cross == 0 {
		s.lineOrMove(x1, y1)
		return
	}
	v1x, v1y = v1x/l1, v1y/l1
	v2x, v2y = v2x/l2, v2y/l2

	theta := math.Acos(v1x*v2x + v1y*v2y)
	dist := radius / math.Tan(theta/2)

	// Tangent points on each leg.
	t1x, t1y := x1+v1x*dist, y1+v1y*dist
	t2x, t2y := x1+v2x*dist, y1+v2y*dist

	// Arc center along the angle bisector.
	bx, by := v1x+v2x, v1y+v2y
	bl := math.Hypot(bx, by)
	cx := x1 + bx/bl*(radius/math.Sin(theta/2))
	cy := y1 + by/bl*(radius/math.Sin(theta/2))

	a0 := math.Atan2(t1y-cy, t1x-cx)
	a1 := math.Atan2(t2y-cy, t2x-cx)

	s.lineOrMove(t1x, t1y)
	// cross > 0 means the second leg turns clockwise from the first.
	s.Arc(cx, cy, radius, a0, a1, cross > 0)
}

// Rect appends a closed rectangle subpath.
func (s *ImageSurface) Rect(x, y, w, h float64) {
	s.MoveTo(x, y)
	s.lineOrMove(x+w, y)
	s.lineOrMove(x+w, y+h)
	s.lineOrMove(x, y+h)
	s.ClosePath()
}

// ClosePath marks the current subpath closed and moves the cursor back
// to its first point.
func (s *ImageSurface) ClosePath() {
	if len(s.subpaths) == 0 {
		return
	}
	sp := &s.subpaths[len(s.subpaths)-1]
	if len(sp.pts) == 0 {
		return
	}
	sp.closed = true
	s.curX, s.curY = sp.pts[0].X, sp.pts[0].Y
}

// --- Paints and stroke attributes ---

// SetFillPaint sets the fill style.
func (s *ImageSurface) SetFillPaint(p Paint) {
	s.fillPaint = p
}

// SetStrokePaint sets the stroke style.
func (s *ImageSurface) SetStrokePaint(p Paint) {
	s.strokePaint = p
}

// SetStrokeStyle sets stroke width and appearance.
func (s *ImageSurface) SetStrokeStyle(width float64, cap LineCap, join LineJoin, miterLimit float64) {
	s.strokeWidth = width
	s.lineCap = cap
	s.lineJoin = join
	s.miterLimit = miterLimit
}

// --- Fill / Stroke ---

// devicePath builds a vector.Path from the flattened subpaths with the
// current transform applied point-wise.
func (s *ImageSurface) devicePath() *vector.Path {
	var p vector.Path
	a, b, c, d, tx, ty := s.tf[0], s.tf[1], s.tf[2], s.tf[3], s.tf[4], s.tf[5]
	for _, sp := range s.subpaths {
		if len(sp.pts) < 2 && !sp.closed {
			continue
		}
		for i, pt := range sp.pts {
			dx := float32(a*pt.X + c*pt.Y + tx)
			dy := float32(b*pt.X + d*pt.Y + ty)
			if i == 0 {
				p.MoveTo(dx, dy)
			} else {
				p.LineTo(dx, dy)
			}
		}
		if sp.closed {
			p.Close()
		}
	}
	return &p
}

// paintVertices assigns source coordinates and colors to triangulated
// vertices for the given paint, and returns the source image to draw
// with plus the address mode. Gradient paints are evaluated per vertex
// in user space (vertices are mapped back through the inverse of the
// current transform).
func (s *ImageSurface) paintVertices(p Paint, vs []ebiten.Vertex, start int) (*ebiten.Image, ebiten.Address) {
	inv := invertSix(s.tf)

	switch paint := p.(type) {
	case Color:
		cr := float32(paint.R * paint.A * s.alpha)
		cg := float32(paint.G * paint.A * s.alpha)
		cb := float32(paint.B * paint.A * s.alpha)
		ca := float32(paint.A * s.alpha)
		for i := start; i < len(vs); i++ {
			vs[i].SrcX = 1
			vs[i].SrcY = 1
			vs[i].ColorR = cr
			vs[i].ColorG = cg
			vs[i].ColorB = cb
			vs[i].ColorA = ca
		}
		return whiteSubImage, ebiten.AddressUnsafe

	case *LinearGradient:
		dx := paint.X1 - paint.X0
		dy := paint.Y1 - paint.Y0
		lenSq := dx*dx + dy*dy
		for i := start; i < len(vs); i++ {
			ux, uy := applySix(inv, float64(vs[i].DstX), float64(vs[i].DstY))
			t := 0.0
			if lenSq > 0 {
				t = ((ux-paint.X0)*dx + (uy-paint.Y0)*dy) / lenSq
			}
			c := colorAt(paint.Stops, t)
			vs[i].SrcX = 1
			vs[i].SrcY = 1
			vs[i].ColorR = float32(c.R * c.A * s.alpha)
			vs[i].ColorG = float32(c.G * c.A * s.alpha)
			vs[i].ColorB = float32(c.B * c.A * s.alpha)
			vs[i].ColorA = float32(c.A * s.alpha)
		}
		return whiteSubImage, ebiten.AddressUnsafe

	case *RadialGradient:
		span := paint.R1 - paint.R0
		for i := start; i < len(vs); i++ {
			ux, uy := applySix(inv, float64(vs[i].DstX), float64(vs[i].DstY))
			dist := math.Hypot(ux-paint.X1, uy-paint.Y1)
			t := 0.0
			if span != 0 {
				t = (dist - paint.R0) / span
			}
			c := colorAt(paint.Stops, t)
			vs[i].SrcX = 1
			vs[i].SrcY = 1
			vs[i].ColorR = float32(c.R * c.A * s.alpha)
			vs[i].ColorG = float32(c.G * c.A * s.alpha)
			vs[i].ColorB = float32(c.B * c.A * s.alpha)
			vs[i].ColorA = float32(c.A * s.alpha)
		}
		return whiteSubImage, ebiten.AddressUnsafe

	case *Pattern:
		ca := float32(s.alpha)
		for i := start; i < len(vs); i++ {
			ux, uy := applySix(inv, float64(vs[i].DstX), float64(vs[i].DstY))
			vs[i].SrcX = float32(ux)
			vs[i].SrcY = float32(uy)
			vs[i].ColorR = ca
			vs[i].ColorG = ca
			vs[i].ColorB = ca
			vs[i].ColorA = ca
		}
		addr := ebiten.AddressRepeat
		if paint.Repeat == RepeatNone {
			addr = ebiten.AddressClampToZero
		}
		return paint.Image, addr
	}
	return whiteSubImage, ebiten.AddressUnsafe
}

// shadowPass re-emits the triangles offset by the shadow offset in
// device space, tinted with the shadow color. Blur is not applied.
func (s *ImageSurface) shadowPass(vs []ebiten.Vertex, is []uint16, fillRule ebiten.FillRule) {
	sh := s.shadow
	cr := float32(sh.Color.R * sh.Color.A * s.alpha)
	cg := float32(sh.Color.G * sh.Color.A * s.alpha)
	cb := float32(sh.Color.B * sh.Color.A * s.alpha)
	ca := float32(sh.Color.A * s.alpha)

	shadowVs := make([]ebiten.Vertex, len(vs))
	copy(shadowVs, vs)
	for i := range shadowVs {
		shadowVs[i].DstX += float32(sh.OffsetX)
		shadowVs[i].DstY += float32(sh.OffsetY)
		shadowVs[i].SrcX = 1
		shadowVs[i].SrcY = 1
		shadowVs[i].ColorR = cr
		shadowVs[i].ColorG = cg
		shadowVs[i].ColorB = cb
		shadowVs[i].ColorA = ca
	}

	var op ebiten.DrawTrianglesOptions
	op.Blend = compositeBlend(s.op)
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true
	op.FillRule = fillRule
	s.image.DrawTriangles(shadowVs, is, whiteSubImage, &op)
}

// Fill rasterizes the current path with the fill paint. The path is
// retained for a subsequent Stroke.
func (s *ImageSurface) Fill() {
	path := s.devicePath()
	s.verts = s.verts[:0]
	s.inds = s.inds[:0]
	s.verts, s.inds = path.AppendVerticesAndIndicesForFilling(s.verts, s.inds)
	if len(s.inds) == 0 {
		return
	}
	if s.shadow != nil {
		s.shadowPass(s.verts, s.inds, ebiten.FillRuleNonZero)
	}
	src, addr := s.paintVertices(s.fillPaint, s.verts, 0)

	var op ebiten.DrawTrianglesOptions
	op.Blend = compositeBlend(s.op)
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true
	op.FillRule = ebiten.FillRuleNonZero
	op.Address = addr
	s.image.DrawTriangles(s.verts, s.inds, src, &op)
}

// Stroke rasterizes the current path outline with the stroke paint.
// Stroke width follows the current transform's average scale.
func (s *ImageSurface) Stroke() {
	path := s.devicePath()

	// Scale the stroke width by the transform's area factor so strokes
	// thicken with scaled nodes. Non-uniform scale is averaged.
	det := s.tf[0]*s.tf[3] - s.tf[1]*s.tf[2]
	widthScale := math.Sqrt(math.Abs(det))
	if widthScale == 0 {
		return
	}

	var strokeOp vector.StrokeOptions
	strokeOp.Width = float32(s.strokeWidth * widthScale)
	strokeOp.MiterLimit = float32(s.miterLimit)
	switch s.lineCap {
	case LineCapRound:
		strokeOp.LineCap = vector.LineCapRound
	case LineCapSquare:
		strokeOp.LineCap = vector.LineCapSquare
	default:
		strokeOp.LineCap = vector.LineCapButt
	}
	switch s.lineJoin {
	case LineJoinRound:
		strokeOp.LineJoin = vector.LineJoinRound
	case LineJoinBevel:
		strokeOp.LineJoin = vector.LineJoinBevel
	default:
		strokeOp.LineJoin = vector.LineJoinMiter
	}

	s.verts = s.verts[:0]
	s.inds = s.inds[:0]
	s.verts, s.inds = path.AppendVerticesAndIndicesForStroke(s.verts, s.inds, &strokeOp)
	if len(s.inds) == 0 {
		return
	}
	if s.shadow != nil {
		s.shadowPass(s.verts, s.inds, ebiten.FillRuleFillAll)
	}
	src, addr := s.paintVertices(s.strokePaint, s.verts, 0)

	var op ebiten.DrawTrianglesOptions
	op.Blend = compositeBlend(s.op)
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true
	op.Address = addr
	s.image.DrawTriangles(s.verts, s.inds, src, &op)
}

// --- Blits ---

// geoM builds an ebiten.GeoM from the current transform.
func (s *ImageSurface) geoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, s.tf[0])
	g.SetElement(0, 1, s.tf[2])
	g.SetElement(0, 2, s.tf[4])
	g.SetElement(1, 0, s.tf[1])
	g.SetElement(1, 1, s.tf[3])
	g.SetElement(1, 2, s.tf[5])
	return g
}

// shadowColorM builds the color matrix for a blit shadow pass: the
// source color collapses to the shadow color, keeping the source alpha
// scaled by the shadow and global alpha.
func shadowColorM(sh *Shadow, alpha float64) colorm.ColorM {
	var cm colorm.ColorM
	cm.Scale(0, 0, 0, sh.Color.A*alpha)
	cm.Translate(sh.Color.R, sh.Color.G, sh.Color.B, 0)
	return cm
}

// shadowBlit draws the image tinted to the shadow color, offset by the
// shadow offset in device space.
func (s *ImageSurface) shadowBlit(sub *ebiten.Image, geo ebiten.GeoM) {
	var op colorm.DrawImageOptions
	op.GeoM = geo
	op.GeoM.Translate(s.shadow.OffsetX, s.shadow.OffsetY)
	op.Blend = compositeBlend(s.op)
	colorm.DrawImage(s.image, sub, shadowColorM(s.shadow, s.alpha), &op)
}

// DrawImage blits a source sub-rectangle to a destination rectangle
// under the current transform, alpha and composite mode.
func (s *ImageSurface) DrawImage(src *ebiten.Image, sx, sy, sw, sh, dx, dy, dw, dh float64) {
	if sw <= 0 || sh <= 0 || dw <= 0 || dh <= 0 {
		return
	}
	sub := src.SubImage(image.Rect(int(sx), int(sy), int(sx+sw), int(sy+sh))).(*ebiten.Image)

	var geo ebiten.GeoM
	geo.Scale(dw/sw, dh/sh)
	geo.Translate(dx, dy)
	geo.Concat(s.geoM())
	if s.shadow != nil {
		s.shadowBlit(sub, geo)
	}

	var op ebiten.DrawImageOptions
	op.GeoM = geo
	op.ColorScale.ScaleAlpha(float32(s.alpha))
	op.Blend = compositeBlend(s.op)
	s.image.DrawImage(sub, &op)
}

// DrawSurface blits another image-backed surface at (dx, dy). Surfaces
// without a backing image are ignored.
func (s *ImageSurface) DrawSurface(src Surface, dx, dy float64) {
	img := src.Image()
	if img == nil {
		return
	}
	b := img.Bounds()
	s.DrawImage(img, 0, 0, float64(b.Dx()), float64(b.Dy()), dx, dy, float64(b.Dx()), float64(b.Dy()))
}

// AlphaAt reads back the alpha of a single pixel.
func (s *ImageSurface) AlphaAt(x, y int) uint8 {
	b := s.image.Bounds()
	if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
		return 0
	}
	_, _, _, a := s.image.At(x, y).RGBA()
	return uint8(a >> 8)
}

// Image returns the backing image.
func (s *ImageSurface) Image() *ebiten.Image {
	return s.image
}

// --- small affine helpers ---

// invertSix inverts a six-coefficient affine transform, returning the
// identity when singular.
func invertSix(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[1]*m[2]
	if det > -1e-12 && det < 1e-12 {
		return [6]float64{1, 0, 0, 1, 0, 0}
	}
	inv := 1 / det
	a := m[3] * inv
	b := -m[1] * inv
	c := -m[2] * inv
	d := m[0] * inv
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// applySix applies a six-coefficient affine transform to a point.
func applySix(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
