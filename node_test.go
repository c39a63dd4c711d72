package easel

import "testing"

func childNames(n *Node) []string {
	names := make([]string, 0, n.NumChildren())
	for _, c := range n.Children() {
		names = append(names, c.Name)
	}
	return names
}

func assertChildren(t *testing.T, n *Node, want ...string) {
	t.Helper()
	got := childNames(n)
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children = %v, want %v", got, want)
		}
	}
}

func TestNodeConstructorDefaults(t *testing.T) {
	n := NewContainer("c")
	if n.Type != NodeTypeContainer {
		t.Errorf("type = %v, want container", n.Type)
	}
	assertNear(t, "scaleX", n.ScaleX, 1)
	assertNear(t, "scaleY", n.ScaleY, 1)
	assertNear(t, "alpha", n.Alpha, 1)
	if !n.Visible {
		t.Error("new node not visible")
	}
	if n.Parent != nil {
		t.Error("new node has a parent")
	}
}

func TestNodeIDsUnique(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	if a.ID == b.ID {
		t.Fatalf("both nodes got ID %d", a.ID)
	}
}

func TestNodeAddChildOrder(t *testing.T) {
	p := NewContainer("p")
	p.AddChild(NewContainer("a"))
	p.AddChild(NewContainer("b"))
	p.AddChild(NewContainer("c"))
	assertChildren(t, p, "a", "b", "c")
}

func TestNodeAddChildAt(t *testing.T) {
	p := NewContainer("p")
	p.AddChild(NewContainer("a"))
	p.AddChild(NewContainer("c"))
	p.AddChildAt(NewContainer("b"), 1)
	assertChildren(t, p, "a", "b", "c")
}

func TestNodeAddChildReparents(t *testing.T) {
	p1 := NewContainer("p1")
	p2 := NewContainer("p2")
	c := NewContainer("c")
	p1.AddChild(c)
	p2.AddChild(c)

	if p1.NumChildren() != 0 {
		t.Errorf("old parent still has %d children", p1.NumChildren())
	}
	if p2.NumChildren() != 1 || c.Parent != p2 {
		t.Errorf("child not moved to new parent")
	}
}

func TestNodeAddChildNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("AddChild(nil) did not panic")
		}
	}()
	NewContainer("p").AddChild(nil)
}

func TestNodeAddChildCyclePanics(t *testing.T) {
	p := NewContainer("p")
	c := NewContainer("c")
	p.AddChild(c)
	defer func() {
		if recover() == nil {
			t.Fatal("adding an ancestor as a child did not panic")
		}
	}()
	c.AddChild(p)
}

func TestNodeAddChildSelfPanics(t *testing.T) {
	n := NewContainer("n")
	defer func() {
		if recover() == nil {
			t.Fatal("AddChild(self) did not panic")
		}
	}()
	n.AddChild(n)
}

func TestNodeRemoveChild(t *testing.T) {
	p := NewContainer("p")
	c := NewContainer("c")
	p.AddChild(c)

	if !p.RemoveChild(c) {
		t.Fatal("RemoveChild returned false for a direct child")
	}
	if c.Parent != nil || p.NumChildren() != 0 {
		t.Error("child not detached")
	}
	if p.RemoveChild(c) {
		t.Error("RemoveChild returned true for a non-child")
	}
}

func TestNodeRemoveChildAtMultiple(t *testing.T) {
	p := NewContainer("p")
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		p.AddChild(NewContainer(name))
	}
	// Indices address the list as it was at the call, in any order.
	if !p.RemoveChildAt(1, 3) {
		t.Fatal("RemoveChildAt(1, 3) failed")
	}
	assertChildren(t, p, "a", "c", "e")

	if !p.RemoveChildAt(2, 0) {
		t.Fatal("RemoveChildAt(2, 0) failed")
	}
	assertChildren(t, p, "c")
}

func TestNodeRemoveChildAtInvalid(t *testing.T) {
	p := NewContainer("p")
	p.AddChild(NewContainer("a"))
	p.AddChild(NewContainer("b"))

	if p.RemoveChildAt(0, 5) {
		t.Error("out-of-range index reported success")
	}
	assertChildren(t, p, "a", "b")

	if p.RemoveChildAt(1, 1) {
		t.Error("duplicate index reported success")
	}
	assertChildren(t, p, "a", "b")
}

func TestNodeRemoveAllChildren(t *testing.T) {
	p := NewContainer("p")
	a := NewContainer("a")
	b := NewContainer("b")
	p.AddChild(a)
	p.AddChild(b)
	p.RemoveAllChildren()
	if p.NumChildren() != 0 || a.Parent != nil || b.Parent != nil {
		t.Error("children not fully detached")
	}
}

func TestNodeContains(t *testing.T) {
	root := NewContainer("root")
	mid := NewContainer("mid")
	leaf := NewContainer("leaf")
	root.AddChild(mid)
	mid.AddChild(leaf)

	if !root.Contains(leaf) || !root.Contains(root) {
		t.Error("Contains missed a descendant or self")
	}
	if leaf.Contains(root) {
		t.Error("Contains reported an ancestor as descendant")
	}
}

func TestNodeChildByName(t *testing.T) {
	p := NewContainer("p")
	b := NewContainer("b")
	p.AddChild(NewContainer("a"))
	p.AddChild(b)
	if p.ChildByName("b") != b {
		t.Error("ChildByName missed a child")
	}
	if p.ChildByName("zzz") != nil {
		t.Error("ChildByName invented a child")
	}
}

func TestNodeSwapAndSetIndex(t *testing.T) {
	p := NewContainer("p")
	a := NewContainer("a")
	p.AddChild(a)
	p.AddChild(NewContainer("b"))
	p.AddChild(NewContainer("c"))

	if !p.SwapChildren(0, 2) {
		t.Fatal("SwapChildren failed")
	}
	assertChildren(t, p, "c", "b", "a")

	if !p.SetChildIndex(a, 0) {
		t.Fatal("SetChildIndex failed")
	}
	assertChildren(t, p, "a", "c", "b")

	if p.SetChildIndex(NewContainer("x"), 0) {
		t.Error("SetChildIndex accepted a non-child")
	}
}

func TestNodeIsVisible(t *testing.T) {
	c := NewContainer("c")
	if c.IsVisible() {
		t.Error("empty container reported visible")
	}
	c.AddChild(NewContainer("k")) // child itself invisible, but container has content
	if !c.IsVisible() {
		t.Error("non-empty container reported invisible")
	}

	c.Visible = false
	if c.IsVisible() {
		t.Error("hidden node reported visible")
	}
	c.Visible = true
	c.Alpha = 0
	if c.IsVisible() {
		t.Error("transparent node reported visible")
	}
	c.Alpha = 1
	c.ScaleX = 0
	if c.IsVisible() {
		t.Error("zero-scale node reported visible")
	}
}

func TestNodeIsVisibleShape(t *testing.T) {
	s := NewShape("s", nil)
	if s.IsVisible() {
		t.Error("shape without graphics reported visible")
	}
	s.Graphics = NewGraphics()
	if s.IsVisible() {
		t.Error("shape with empty graphics reported visible")
	}
	s.Graphics.BeginFill(ColorWhite).DrawRect(0, 0, 1, 1)
	if !s.IsVisible() {
		t.Error("shape with content reported invisible")
	}
}

func TestNodeLocalGlobalRoundTrip(t *testing.T) {
	root := NewContainer("root")
	child := NewContainer("child")
	root.AddChild(child)
	root.X, root.Y = 100, 50
	child.X, child.Y = 10, 20
	child.Rotation = 30
	child.ScaleX, child.ScaleY = 2, 2

	g := child.LocalToGlobal(3, 4)
	back := child.GlobalToLocal(g.X, g.Y)
	assertNear(t, "round trip x", back.X, 3)
	assertNear(t, "round trip y", back.Y, 4)
}

func TestNodeLocalToGlobalTranslationChain(t *testing.T) {
	root := NewContainer("root")
	child := NewContainer("child")
	root.AddChild(child)
	root.X, root.Y = 100, 50
	child.X, child.Y = 10, 20

	g := child.LocalToGlobal(1, 2)
	assertNear(t, "x", g.X, 111)
	assertNear(t, "y", g.Y, 72)
}

func TestNodeLocalToLocal(t *testing.T) {
	root := NewContainer("root")
	a := NewContainer("a")
	b := NewContainer("b")
	root.AddChild(a)
	root.AddChild(b)
	a.X = 10
	b.X = 50

	p := a.LocalToLocal(5, 0, b)
	// a-local (5,0) is global (15,0), which is b-local (-35,0).
	assertNear(t, "x", p.X, -35)
	assertNear(t, "y", p.Y, 0)
}

func TestNodeConcatenatedMatrixAlpha(t *testing.T) {
	root := NewContainer("root")
	child := NewContainer("child")
	root.AddChild(child)
	root.Alpha = 0.5
	child.Alpha = 0.5

	m := child.ConcatenatedMatrix()
	assertNear(t, "alpha", m.Alpha, 0.25)
}

func TestNodeConcatenatedMatrixShadowPrecedence(t *testing.T) {
	rootShadow := &Shadow{OffsetX: 1}
	leafShadow := &Shadow{OffsetX: 2}
	root := NewContainer("root")
	child := NewContainer("child")
	root.AddChild(child)
	root.Shadow = rootShadow

	if child.ConcatenatedMatrix().Shadow != rootShadow {
		t.Error("shadow not inherited from ancestor")
	}
	child.Shadow = leafShadow
	if child.ConcatenatedMatrix().Shadow != leafShadow {
		t.Error("leaf shadow did not win over ancestor's")
	}
}

func TestNodeClone(t *testing.T) {
	orig := NewShape("orig", NewGraphics())
	orig.X, orig.Y = 10, 20
	orig.Rotation = 45
	orig.Alpha = 0.5
	orig.CompositeOp = CompositeLighter
	orig.Graphics.BeginFill(ColorWhite).DrawRect(0, 0, 4, 4)

	c := orig.Clone(false)
	if c.ID == orig.ID {
		t.Error("clone shares the original's ID")
	}
	if c.Parent != nil {
		t.Error("clone has a parent")
	}
	assertNear(t, "x", c.X, 10)
	assertNear(t, "rotation", c.Rotation, 45)
	assertNear(t, "alpha", c.Alpha, 0.5)
	if c.CompositeOp != CompositeLighter {
		t.Errorf("composite op = %q, want lighter", c.CompositeOp)
	}
	if c.Graphics != orig.Graphics {
		t.Error("graphics not shared with the original")
	}
}

func TestNodeCloneRecursive(t *testing.T) {
	root := NewContainer("root")
	a := NewContainer("a")
	b := NewShape("b", nil)
	root.AddChild(a)
	a.AddChild(b)
	b.X = 7

	shallow := root.Clone(false)
	if shallow.NumChildren() != 0 {
		t.Error("shallow clone copied children")
	}

	deep := root.Clone(true)
	assertChildren(t, deep, "a")
	ca := deep.ChildAt(0)
	assertChildren(t, ca, "b")
	if ca == a {
		t.Error("recursive clone shares a child with the original")
	}
	assertNear(t, "x", ca.ChildAt(0).X, 7)
}

func TestNodeCloneCopiesSequenceState(t *testing.T) {
	sheet := NewSpriteSheet(nil, 8, 8, 6, true)
	orig := NewFrameSequence("orig", sheet)
	orig.Sequence.GotoAndStop(3)

	c := orig.Clone(false)
	if c.Sequence == orig.Sequence {
		t.Error("sequence state shared with the original")
	}
	if c.Sequence.CurrentFrame() != 3 {
		t.Errorf("clone frame = %d, want 3", c.Sequence.CurrentFrame())
	}
	c.Sequence.GotoAndStop(1)
	if orig.Sequence.CurrentFrame() != 3 {
		t.Error("advancing the clone moved the original")
	}
}
