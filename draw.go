package easel

import "math"

// applyState pushes the accumulated matrix and visual attributes onto
// the surface before a paint. Pixel snapping rounds the translation
// only when the composed matrix carries no scale/rotation/skew.
func (n *Node) applyState(s Surface, m *Matrix2D) {
	tx, ty := m.TX, m.TY
	if n.SnapToPixel && SnapToPixelEnabled &&
		m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1 {
		tx = math.Floor(tx + 0.5)
		ty = math.Floor(ty + 0.5)
	}
	s.SetTransform(m.A, m.B, m.C, m.D, tx, ty)
	s.SetAlpha(m.Alpha)
	op := m.CompositeOp
	if op == "" {
		op = CompositeSourceOver
	}
	s.SetCompositeOp(op)
	s.SetShadow(m.Shadow)
}

// paint draws the node's own content at the local origin. The surface
// state must already be set.
func (n *Node) paint(s Surface) {
	switch n.Type {
	case NodeTypeShape:
		if n.Graphics != nil {
			n.Graphics.Draw(s)
		}
	case NodeTypeBitmap:
		if n.Image == nil {
			return
		}
		b := n.Image.Bounds()
		w, h := float64(b.Dx()), float64(b.Dy())
		s.DrawImage(n.Image, 0, 0, w, h, 0, 0, w, h)
	case NodeTypeSequence:
		if n.Sequence == nil || n.Sequence.Sheet == nil || n.Sequence.Sheet.Image == nil {
			return
		}
		r := n.Sequence.CurrentFrameRect()
		s.DrawImage(n.Sequence.Sheet.Image, r.X, r.Y, r.Width, r.Height, 0, 0, r.Width, r.Height)
	}
}

// draw renders the node's content and subtree under the accumulated
// matrix m. The node's own transform is already composed into m by the
// caller. When the node holds an offscreen cache and ignoreCache is
// false, the cache is blitted instead of redrawing the subtree.
func (n *Node) draw(s Surface, m *Matrix2D, ignoreCache bool) {
	if n.cache != nil && !ignoreCache {
		n.applyState(s, m)
		s.DrawSurface(n.cache, n.cacheX, n.cacheY)
		return
	}

	if n.Type != NodeTypeContainer {
		n.applyState(s, m)
		n.paint(s)
		return
	}

	// Snapshot the child list so mutation from a draw callback does not
	// affect this pass. Index 0 paints first (back to front).
	kids := make([]*Node, len(n.children))
	copy(kids, n.children)
	for _, child := range kids {
		if !child.IsVisible() {
			continue
		}
		cm := &child.scratch
		cm.CopyFrom(m)
		cm.AppendTransform(child.X, child.Y, child.ScaleX, child.ScaleY,
			child.Rotation, child.SkewX, child.SkewY, child.RegX, child.RegY)
		cm.AppendProperties(child.Alpha, child.Shadow, child.CompositeOp)
		child.draw(s, cm, false)
	}
}

// Draw renders the node and its subtree onto the surface, applying the
// node's own transform and visual attributes. Returns false without
// drawing when the node is not visible.
func (n *Node) Draw(s Surface, ignoreCache bool) bool {
	if !n.IsVisible() {
		return false
	}
	m := n.scratch.Identity()
	m.AppendTransform(n.X, n.Y, n.ScaleX, n.ScaleY, n.Rotation, n.SkewX, n.SkewY, n.RegX, n.RegY)
	m.AppendProperties(n.Alpha, n.Shadow, n.CompositeOp)
	n.draw(s, m, ignoreCache)
	return true
}
