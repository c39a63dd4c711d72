package easel

// hitProbe is the shared 1x1 surface pixel hit tests render into. It is
// reset with Resize after every test so stale pixels never leak between
// tests. Process-wide scratch state, single rendering goroutine only.
var hitProbe Surface

func probeSurface() Surface {
	if hitProbe == nil {
		hitProbe = newOffscreen(1, 1)
	}
	return hitProbe
}

// Alpha above this counts as a hit; 1 rather than 0 keeps antialiased
// fringe pixels from registering.
const hitAlphaThreshold = 1

// HitTest reports whether the node's rendered content covers the point
// (x, y) in the node's own coordinate space. The test is pixel exact:
// the node (or its cache) is rendered into a 1x1 probe positioned over
// the point and the resulting alpha is read back.
func (n *Node) HitTest(x, y float64) bool {
	p := probeSurface()
	m := NewMatrix2D()
	m.TX = -x
	m.TY = -y
	n.draw(p, m, false)
	hit := p.AlphaAt(0, 0) > hitAlphaThreshold
	p.Resize(1, 1)
	return hit
}

// testGlobalPoint renders this node's own content (or cache) into the
// probe under its concatenated transform shifted so the global point
// lands on pixel (0, 0).
func (n *Node) testGlobalPoint(gx, gy float64) bool {
	p := probeSurface()
	m := n.ConcatenatedMatrix()
	m.TX -= gx
	m.TY -= gy
	n.applyState(p, m)
	if n.cache != nil {
		p.DrawSurface(n.cache, n.cacheX, n.cacheY)
	} else {
		n.paint(p)
	}
	hit := p.AlphaAt(0, 0) > hitAlphaThreshold
	p.Resize(1, 1)
	return hit
}

// collectUnderPoint walks children topmost first (reverse child-list
// order), appending hits. A cached subtree is tested as a single blit
// and reported as one node. Returns true as soon as a hit is found when
// firstOnly is set.
func (n *Node) collectUnderPoint(gx, gy float64, out *[]*Node, firstOnly bool) bool {
	for i := len(n.children) - 1; i >= 0; i-- {
		child := n.children[i]
		if !child.IsVisible() {
			continue
		}
		if child.cache == nil && child.Type == NodeTypeContainer {
			if child.collectUnderPoint(gx, gy, out, firstOnly) {
				return true
			}
			continue
		}
		if child.testGlobalPoint(gx, gy) {
			*out = append(*out, child)
			if firstOnly {
				return true
			}
		}
	}
	return false
}

// GetObjectsUnderPoint returns every descendant leaf (and cached
// subtree) whose rendered pixels cover the point (x, y) in this node's
// coordinate space, ordered topmost first.
func (n *Node) GetObjectsUnderPoint(x, y float64) []*Node {
	g := n.LocalToGlobal(x, y)
	var out []*Node
	n.collectUnderPoint(g.X, g.Y, &out, false)
	return out
}

// GetObjectUnderPoint returns the topmost descendant under the point
// (x, y) in this node's coordinate space, or nil.
func (n *Node) GetObjectUnderPoint(x, y float64) *Node {
	g := n.LocalToGlobal(x, y)
	var out []*Node
	n.collectUnderPoint(g.X, g.Y, &out, true)
	if len(out) == 0 {
		return nil
	}
	return out[0]
}
