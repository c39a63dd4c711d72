package easel

import "testing"

func TestRectangleContains(t *testing.T) {
	r := Rectangle{X: 10, Y: 10, Width: 20, Height: 10}
	if !r.Contains(15, 15) {
		t.Error("interior point not contained")
	}
	if !r.Contains(10, 10) || !r.Contains(30, 20) {
		t.Error("edge points not contained")
	}
	if r.Contains(9, 15) || r.Contains(15, 21) {
		t.Error("exterior point contained")
	}
}

func TestRectangleIntersects(t *testing.T) {
	a := Rectangle{X: 0, Y: 0, Width: 10, Height: 10}
	if !a.Intersects(Rectangle{X: 5, Y: 5, Width: 10, Height: 10}) {
		t.Error("overlapping rects do not intersect")
	}
	if !a.Intersects(Rectangle{X: 10, Y: 0, Width: 5, Height: 5}) {
		t.Error("edge-adjacent rects do not intersect")
	}
	if a.Intersects(Rectangle{X: 11, Y: 0, Width: 5, Height: 5}) {
		t.Error("disjoint rects intersect")
	}
}
