package easel

import "github.com/hajimehoshi/ebiten/v2"

// Cache renders the node's current appearance into an offscreen
// surface covering the given region of its local coordinate space.
// Subsequent draws blit the cached surface instead of redrawing the
// subtree, until Uncache. The region is not tracked: redraw after
// mutating the node by calling UpdateCache or Cache again.
//
// Filters attached to the node are baked into the cache; the cached
// region grows by each filter's padding on every side. Panics on an
// empty region.
func (n *Node) Cache(x, y float64, w, h int) {
	if w < 1 || h < 1 {
		panic("easel: Cache called with an empty region")
	}
	pad := 0
	for _, f := range n.Filters {
		pad += f.Padding()
	}
	tw, th := w+2*pad, h+2*pad

	if n.cache == nil {
		n.cache = newOffscreen(tw, th)
	} else if cw, ch := n.cache.Size(); cw != tw || ch != th {
		n.cache.Resize(tw, th)
	}
	n.cacheX = x - float64(pad)
	n.cacheY = y - float64(pad)
	n.cacheWidth = tw
	n.cacheHeight = th
	n.UpdateCache("")
}

// UpdateCache redraws the node into its existing cache surface. With
// an empty op the surface is cleared first; otherwise the new render
// composites onto the previous cache content using op. Panics when the
// node has no cache.
func (n *Node) UpdateCache(op CompositeOp) {
	if n.cache == nil {
		panic("easel: UpdateCache called before Cache")
	}
	if op == "" {
		n.cache.Clear()
	}
	m := NewMatrix2D()
	m.TX = -n.cacheX
	m.TY = -n.cacheY
	m.CompositeOp = op
	n.draw(n.cache, m, true)
	n.applyFilters()
}

// Uncache discards the cache surface; the node draws live again.
func (n *Node) Uncache() {
	if n.cache == nil {
		return
	}
	if img := n.cache.Image(); img != nil {
		img.Deallocate()
	}
	n.cache = nil
}

// Cached reports whether the node currently draws from a cache.
func (n *Node) Cached() bool {
	return n.cache != nil
}

// CacheSurface exposes the cache surface, or nil. The caller must not
// resize it.
func (n *Node) CacheSurface() Surface {
	return n.cache
}

// applyFilters runs the node's filter chain over the cache in place.
// Filters require an image-backed cache; on other surfaces (test
// fakes) the chain is skipped.
func (n *Node) applyFilters() {
	if len(n.Filters) == 0 {
		return
	}
	img := n.cache.Image()
	if img == nil {
		return
	}
	b := img.Bounds()
	tmp := ebiten.NewImage(b.Dx(), b.Dy())
	var copyOp ebiten.DrawImageOptions
	copyOp.Blend = ebiten.BlendCopy
	for _, f := range n.Filters {
		tmp.Clear()
		f.Apply(img, tmp)
		img.Clear()
		img.DrawImage(tmp, &copyOp)
	}
	tmp.Deallocate()
}
