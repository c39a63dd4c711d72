package easel

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default paint (opaque white).
var ColorWhite = Color{1, 1, 1, 1}

// Point is a 2D point used for positions and coordinate-conversion results.
type Point struct {
	X, Y float64
}

// Rectangle is an axis-aligned rectangle. The coordinate system has its
// origin at the top-left, with Y increasing downward.
type Rectangle struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rectangle) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Shadow describes a drop shadow inherited down the display list.
// Offsets are in the node's coordinate space; Blur is a softness radius
// in pixels (backends may approximate or ignore it).
type Shadow struct {
	Color   Color
	OffsetX float64
	OffsetY float64
	Blur    float64
}

// CompositeOp identifies a compositing rule using the canvas naming
// convention ("source-over", "multiply", ...). The display list treats the
// value opaquely; the Surface backend maps it to a blend operation.
type CompositeOp string

const (
	CompositeSourceOver      CompositeOp = "source-over"
	CompositeLighter         CompositeOp = "lighter"
	CompositeMultiply        CompositeOp = "multiply"
	CompositeScreen          CompositeOp = "screen"
	CompositeDestinationOut  CompositeOp = "destination-out"
	CompositeDestinationOver CompositeOp = "destination-over"
	CompositeCopy            CompositeOp = "copy"
)

// NodeType distinguishes drawing and visibility behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node compositing an ordered child list
	NodeTypeShape                     // replays a Graphics instruction buffer
	NodeTypeBitmap                    // blits a single image
	NodeTypeSequence                  // plays frames from a SpriteSheet
)

// LineCap selects the stroke end-cap style.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin selects the stroke corner style.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

// globalDebug gates diagnostic logging (unknown sequence names and the
// like). Process-wide state, single rendering goroutine only.
var globalDebug = false

// SetDebug toggles diagnostic logging to the standard logger.
func SetDebug(enabled bool) {
	globalDebug = enabled
}

// SnapToPixelEnabled is the surface-wide pixel-snapping policy. When true,
// nodes with SnapToPixel set have their composed translation rounded to
// whole pixels during draw, provided the composed matrix carries no
// scale/rotation/skew component. Process-wide state, single rendering
// goroutine only.
var SnapToPixelEnabled = false
