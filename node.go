package easel

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

var lastNodeID uint64

// Node is a single element of the display list: a container, a vector
// shape, a bitmap or a sprite-sheet sequence, selected by Type. All
// node kinds share one struct; the payload fields used depend on Type.
//
// Transform fields are plain exported values. Mutating them takes
// effect on the next draw; there is no change notification.
type Node struct {
	// ID is unique per process, assigned at construction.
	ID uint64
	// Name is a free-form label used for lookups and debugging.
	Name string
	// Type selects drawing and visibility behavior. Set by the
	// constructor; do not change it after construction.
	Type NodeType

	// Parent is the containing node, or nil for a detached node or the
	// stage root. Maintained by AddChild/RemoveChild.
	Parent *Node

	// Local transform. Rotation and skews are in degrees. RegX/RegY
	// offset the local origin: the registration point lands at (X, Y)
	// in the parent's space and acts as the pivot for rotation, scale
	// and skew.
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64
	SkewX, SkewY   float64
	RegX, RegY     float64

	// Inherited visual attributes. Alpha multiplies down the tree;
	// Shadow and CompositeOp are inherited unless overridden closer to
	// the leaf.
	Alpha       float64
	Visible     bool
	Shadow      *Shadow
	CompositeOp CompositeOp

	// SnapToPixel rounds this node's composed translation to whole
	// pixels during draw when SnapToPixelEnabled is set and the
	// composed matrix is translation-only.
	SnapToPixel bool

	// OnTick, when non-nil, runs during the stage tick pass before the
	// node's children are ticked.
	OnTick func(n *Node)

	// Filters are applied when the node is cached. They have no effect
	// on an uncached node.
	Filters []Filter

	// Payload fields, by Type.
	Graphics *Graphics      // NodeTypeShape
	Image    *ebiten.Image  // NodeTypeBitmap
	Sequence *FrameSequence // NodeTypeSequence

	children []*Node

	// Offscreen cache state, managed by Cache/UpdateCache/Uncache.
	cache        Surface
	cacheX       float64
	cacheY       float64
	cacheWidth   int
	cacheHeight  int

	// Per-node scratch matrix reused across draws.
	scratch Matrix2D
}

func newNode(name string, t NodeType) *Node {
	lastNodeID++
	return &Node{
		ID:      lastNodeID,
		Name:    name,
		Type:    t,
		ScaleX:  1,
		ScaleY:  1,
		Alpha:   1,
		Visible: true,
	}
}

// NewContainer creates an empty group node. Containers draw nothing
// themselves; they composite their children in list order.
func NewContainer(name string) *Node {
	return newNode(name, NodeTypeContainer)
}

// NewShape creates a node that replays a Graphics instruction buffer.
// A nil Graphics is allowed; the shape is simply not visible until one
// is assigned.
func NewShape(name string, g *Graphics) *Node {
	n := newNode(name, NodeTypeShape)
	n.Graphics = g
	return n
}

// NewBitmap creates a node that blits a single image at its local
// origin.
func NewBitmap(name string, img *ebiten.Image) *Node {
	n := newNode(name, NodeTypeBitmap)
	n.Image = img
	return n
}

// NewFrameSequence creates a node that plays frames from a sprite
// sheet. Playback starts at frame 0, advancing on every stage tick.
func NewFrameSequence(name string, sheet *SpriteSheet) *Node {
	n := newNode(name, NodeTypeSequence)
	n.Sequence = newFrameSequence(sheet)
	return n
}

// --- Tree structure ---

// AddChild appends child to the end of the child list (topmost paint
// position). A child already parented elsewhere is reparented. Panics
// on a nil child or when the insertion would create a cycle.
func (n *Node) AddChild(child *Node) *Node {
	return n.AddChildAt(child, len(n.children))
}

// AddChildAt inserts child at the given index in the child list.
// Existing children at or after the index shift up. A child already
// parented elsewhere is reparented; when reparenting within the same
// node, the index addresses the list after removal. Panics on a nil
// child, an out-of-range index, or a cycle.
func (n *Node) AddChildAt(child *Node, index int) *Node {
	if child == nil {
		panic("easel: AddChildAt called with nil child")
	}
	if child == n || child.Contains(n) {
		panic(fmt.Sprintf("easel: AddChildAt would create a cycle (node %q)", child.Name))
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	if index < 0 || index > len(n.children) {
		panic(fmt.Sprintf("easel: AddChildAt index %d out of range [0, %d]", index, len(n.children)))
	}
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.Parent = n
	return child
}

// RemoveChild detaches child from this node. Returns false when child
// is not a direct child.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			return n.RemoveChildAt(i)
		}
	}
	return false
}

// RemoveChildAt removes the children at the given indices. Indices are
// interpreted against the list as it was at the call, regardless of
// argument order. Returns false without removing anything when any
// index is out of range or duplicated.
func (n *Node) RemoveChildAt(indices ...int) bool {
	if len(indices) == 0 {
		return true
	}
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(n.children) || seen[i] {
			return false
		}
		seen[i] = true
	}

	// Remove highest-first so earlier indices stay valid.
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] > sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	for _, i := range sorted {
		child := n.children[i]
		child.Parent = nil
		copy(n.children[i:], n.children[i+1:])
		n.children[len(n.children)-1] = nil
		n.children = n.children[:len(n.children)-1]
	}
	return true
}

// RemoveAllChildren detaches every child.
func (n *Node) RemoveAllChildren() {
	for _, c := range n.children {
		c.Parent = nil
	}
	for i := range n.children {
		n.children[i] = nil
	}
	n.children = n.children[:0]
}

// NumChildren returns the child count.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at index, or nil when out of range.
func (n *Node) ChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	return n.children[index]
}

// Children returns the child list. The returned slice is the node's
// own backing store; callers must not mutate it.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildByName returns the first direct child with the given name, or
// nil.
func (n *Node) ChildByName(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Contains reports whether target is this node or a descendant of it.
func (n *Node) Contains(target *Node) bool {
	for p := target; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// SwapChildren exchanges the positions of two direct children. Returns
// false when either index is out of range.
func (n *Node) SwapChildren(i, j int) bool {
	if i < 0 || i >= len(n.children) || j < 0 || j >= len(n.children) {
		return false
	}
	n.children[i], n.children[j] = n.children[j], n.children[i]
	return true
}

// SetChildIndex moves a direct child to a new paint position. Returns
// false when child is not a direct child or index is out of range.
func (n *Node) SetChildIndex(child *Node, index int) bool {
	if index < 0 || index >= len(n.children) {
		return false
	}
	cur := -1
	for i, c := range n.children {
		if c == child {
			cur = i
			break
		}
	}
	if cur < 0 {
		return false
	}
	copy(n.children[cur:], n.children[cur+1:])
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	return true
}

// --- Visibility and transforms ---

// IsVisible reports whether drawing this node could produce output:
// it is visible, has positive alpha, non-zero scale, and carries
// content for its type. An active cache always counts as content.
func (n *Node) IsVisible() bool {
	if !n.Visible || n.Alpha <= 0 || n.ScaleX == 0 || n.ScaleY == 0 {
		return false
	}
	if n.cache != nil {
		return true
	}
	switch n.Type {
	case NodeTypeContainer:
		return len(n.children) > 0
	case NodeTypeShape:
		return n.Graphics != nil && !n.Graphics.IsEmpty()
	case NodeTypeBitmap:
		return n.Image != nil
	case NodeTypeSequence:
		return n.Sequence != nil && n.Sequence.Sheet != nil && n.Sequence.Sheet.Image != nil
	}
	return false
}

// LocalMatrix writes the node's local transform and visual attributes
// into dst (allocating when dst is nil) and returns it.
func (n *Node) LocalMatrix(dst *Matrix2D) *Matrix2D {
	if dst == nil {
		dst = NewMatrix2D()
	} else {
		dst.Identity()
	}
	dst.AppendTransform(n.X, n.Y, n.ScaleX, n.ScaleY, n.Rotation, n.SkewX, n.SkewY, n.RegX, n.RegY)
	dst.AppendProperties(n.Alpha, n.Shadow, n.CompositeOp)
	return dst
}

// ConcatenatedMatrix composes the transforms from this node up through
// all ancestors, yielding the node-to-global transform with inherited
// visual attributes resolved (leaf values win).
func (n *Node) ConcatenatedMatrix() *Matrix2D {
	m := NewMatrix2D()
	for p := n; p != nil; p = p.Parent {
		m.PrependTransform(p.X, p.Y, p.ScaleX, p.ScaleY, p.Rotation, p.SkewX, p.SkewY, p.RegX, p.RegY)
		m.PrependProperties(p.Alpha, p.Shadow, p.CompositeOp)
	}
	return m
}

// LocalToGlobal converts a point from this node's coordinate space to
// the global (stage) space.
func (n *Node) LocalToGlobal(x, y float64) Point {
	return n.ConcatenatedMatrix().TransformPoint(x, y)
}

// GlobalToLocal converts a point from the global (stage) space to this
// node's coordinate space. With a singular ancestor transform (zero
// scale on any axis) the result is non-finite.
func (n *Node) GlobalToLocal(x, y float64) Point {
	return n.ConcatenatedMatrix().Invert().TransformPoint(x, y)
}

// LocalToLocal converts a point from this node's coordinate space to
// another node's.
func (n *Node) LocalToLocal(x, y float64, target *Node) Point {
	p := n.LocalToGlobal(x, y)
	return target.GlobalToLocal(p.X, p.Y)
}

// Clone returns a detached copy of the node: same type, transform,
// visual attributes and payload, fresh ID, no parent and no cache.
// Graphics and sprite sheets are shared with the original; sequence
// playback state is copied. With recursive set, children are cloned
// too.
func (n *Node) Clone(recursive bool) *Node {
	c := newNode(n.Name, n.Type)
	c.X, c.Y = n.X, n.Y
	c.ScaleX, c.ScaleY = n.ScaleX, n.ScaleY
	c.Rotation = n.Rotation
	c.SkewX, c.SkewY = n.SkewX, n.SkewY
	c.RegX, c.RegY = n.RegX, n.RegY
	c.Alpha = n.Alpha
	c.Visible = n.Visible
	c.Shadow = n.Shadow
	c.CompositeOp = n.CompositeOp
	c.SnapToPixel = n.SnapToPixel
	c.OnTick = n.OnTick
	c.Filters = append([]Filter(nil), n.Filters...)
	c.Graphics = n.Graphics
	c.Image = n.Image
	if n.Sequence != nil {
		seq := *n.Sequence
		c.Sequence = &seq
	}
	if recursive {
		for _, child := range n.children {
			c.AddChild(child.Clone(true))
		}
	}
	return c
}

// Set applies a decomposed transform in one call and returns the node
// for chaining.
func (n *Node) Set(t Transform) *Node {
	n.X, n.Y = t.X, t.Y
	n.ScaleX, n.ScaleY = t.ScaleX, t.ScaleY
	n.Rotation = t.Rotation
	n.SkewX, n.SkewY = t.SkewX, t.SkewY
	return n
}
