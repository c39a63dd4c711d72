package easel

import "testing"

func TestNewStage(t *testing.T) {
	st := NewStage(320, 240)
	if st.Root == nil || st.Root.Type != NodeTypeContainer {
		t.Fatal("stage has no container root")
	}
	if !st.AutoClear {
		t.Error("AutoClear not on by default")
	}
	w, h := st.Size()
	if w != 320 || h != 240 {
		t.Errorf("size = %dx%d, want 320x240", w, h)
	}
}

func TestStageTickOrder(t *testing.T) {
	st := NewStage(100, 100)
	var order []string
	tick := func(n *Node) { order = append(order, n.Name) }

	a := NewContainer("a")
	b := NewContainer("b")
	b1 := NewContainer("b1")
	b2 := NewContainer("b2")
	st.Root.OnTick = tick
	a.OnTick = tick
	b.OnTick = tick
	b1.OnTick = tick
	b2.OnTick = tick
	st.Root.AddChild(a)
	st.Root.AddChild(b)
	b.AddChild(b1)
	b.AddChild(b2)

	st.Tick()

	// Root first, then children in reverse index order at each level.
	want := []string{"root", "b", "b2", "b1", "a"}
	if len(order) != len(want) {
		t.Fatalf("tick order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("tick order = %v, want %v", order, want)
		}
	}
}

func TestStageTickAdvancesSequences(t *testing.T) {
	st := NewStage(100, 100)
	seq := NewFrameSequence("anim", loopingSheet(10, true))
	st.Root.AddChild(seq)

	st.Tick()
	st.Tick()
	if got := seq.Sequence.CurrentFrame(); got != 2 {
		t.Errorf("frame after 2 ticks = %d, want 2", got)
	}
}

func TestStageTickHandlerCanRestructure(t *testing.T) {
	st := NewStage(100, 100)
	a := NewContainer("a")
	b := NewContainer("b")
	st.Root.AddChild(a)
	st.Root.AddChild(b)
	ticked := false
	b.OnTick = func(n *Node) { st.Root.RemoveChild(a) }
	a.OnTick = func(n *Node) { ticked = true }

	st.Tick()
	// b ticks first (reverse order) and removes a; the snapshot still
	// ticks a this pass, and the removal holds afterwards.
	if !ticked {
		t.Error("snapshotted child skipped mid-pass")
	}
	if st.Root.NumChildren() != 1 {
		t.Errorf("children = %d, want 1 after removal", st.Root.NumChildren())
	}
}

func TestStageDrawAutoClear(t *testing.T) {
	st := NewStage(32, 32)
	st.Root.AddChild(filledRectShape("n", 0, 0))

	s := newFakeSurface(32, 32)
	st.Draw(s)
	if len(logEntries(s, "clear")) != 1 {
		t.Errorf("AutoClear draw did not clear: %v", s.log)
	}

	st.AutoClear = false
	s2 := newFakeSurface(32, 32)
	st.Draw(s2)
	if len(logEntries(s2, "clear")) != 0 {
		t.Errorf("draw cleared with AutoClear off: %v", s2.log)
	}
}

func TestStageDrawEmptyRootIsNoop(t *testing.T) {
	st := NewStage(32, 32)
	s := newFakeSurface(32, 32)
	st.Draw(s)
	// Empty container is not visible; only the clear runs.
	if len(s.log) != 1 || s.log[0] != "clear" {
		t.Errorf("log = %v, want only clear", s.log)
	}
}
