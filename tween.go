package easel

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween drives one animated value toward a target, applying it through
// a setter each update.
type Tween struct {
	inner *gween.Tween
	apply func(v float64)

	// OnComplete, when non-nil, fires once when the tween reaches its
	// target.
	OnComplete func()

	finished bool
}

// Finished reports whether the tween has reached its target.
func (t *Tween) Finished() bool {
	return t.finished
}

// TweenGroup holds active tweens and advances them together. The zero
// value is ready to use. Finished tweens are dropped automatically.
type TweenGroup struct {
	active []*Tween
}

// Tween starts animating from one value to another over duration
// seconds, calling apply with the current value on every update.
func (g *TweenGroup) Tween(from, to, duration float64, easing ease.TweenFunc, apply func(v float64)) *Tween {
	t := &Tween{
		inner: gween.New(float32(from), float32(to), float32(duration), easing),
		apply: apply,
	}
	g.active = append(g.active, t)
	return t
}

// Update advances every active tween by dt seconds.
func (g *TweenGroup) Update(dt float64) {
	if len(g.active) == 0 {
		return
	}
	n := 0
	for _, t := range g.active {
		v, done := t.inner.Update(float32(dt))
		t.apply(float64(v))
		if done {
			t.finished = true
			if t.OnComplete != nil {
				t.OnComplete()
			}
			continue
		}
		g.active[n] = t
		n++
	}
	// Nil out the tail so dropped tweens can be collected.
	for i := n; i < len(g.active); i++ {
		g.active[i] = nil
	}
	g.active = g.active[:n]
}

// Count returns the number of active tweens.
func (g *TweenGroup) Count() int {
	return len(g.active)
}

// StopAll drops every active tween without firing completions.
func (g *TweenGroup) StopAll() {
	for i := range g.active {
		g.active[i] = nil
	}
	g.active = g.active[:0]
}

// --- Node-targeted helpers ---

// MoveTo animates a node's X and Y to the target position.
func (g *TweenGroup) MoveTo(n *Node, x, y, duration float64, easing ease.TweenFunc) (*Tween, *Tween) {
	tx := g.Tween(n.X, x, duration, easing, func(v float64) { n.X = v })
	ty := g.Tween(n.Y, y, duration, easing, func(v float64) { n.Y = v })
	return tx, ty
}

// ScaleTo animates a node's ScaleX and ScaleY to a uniform target.
func (g *TweenGroup) ScaleTo(n *Node, scale, duration float64, easing ease.TweenFunc) (*Tween, *Tween) {
	sx := g.Tween(n.ScaleX, scale, duration, easing, func(v float64) { n.ScaleX = v })
	sy := g.Tween(n.ScaleY, scale, duration, easing, func(v float64) { n.ScaleY = v })
	return sx, sy
}

// RotateTo animates a node's Rotation to the target angle in degrees.
func (g *TweenGroup) RotateTo(n *Node, degrees, duration float64, easing ease.TweenFunc) *Tween {
	return g.Tween(n.Rotation, degrees, duration, easing, func(v float64) { n.Rotation = v })
}

// FadeTo animates a node's Alpha to the target opacity.
func (g *TweenGroup) FadeTo(n *Node, alpha, duration float64, easing ease.TweenFunc) *Tween {
	return g.Tween(n.Alpha, alpha, duration, easing, func(v float64) { n.Alpha = v })
}
