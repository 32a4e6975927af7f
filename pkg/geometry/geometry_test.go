package geometry

import (
	"math"
	"testing"
)

func TestCentroid(t *testing.T) {
	pts := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	c := Centroid(pts)
	if c.X != 5 || c.Y != 5 {
		t.Errorf("Centroid = (%v, %v), want (5, 5)", c.X, c.Y)
	}
}

func TestCentroidEmpty(t *testing.T) {
	c := Centroid(nil)
	if c.X != 0 || c.Y != 0 {
		t.Errorf("Centroid of empty set = (%v, %v), want origin", c.X, c.Y)
	}
}

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{{X: 3, Y: 7}, {X: -1, Y: 2}, {X: 5, Y: 4}}
	box := BoundingBox(pts)
	if box.X != -1 || box.Y != 2 || box.Width != 6 || box.Height != 5 {
		t.Errorf("BoundingBox = %+v", box)
	}
}

func TestDistance(t *testing.T) {
	a := NewPoint2D(0, 0)
	b := NewPoint2D(3, 4)
	if d := a.Distance(b); math.Abs(d-5) > 1e-9 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !r.Contains(Point2D{X: 5, Y: 5}) {
		t.Error("expected point inside rect")
	}
	if r.Contains(Point2D{X: 11, Y: 5}) {
		t.Error("expected point outside rect")
	}
}
