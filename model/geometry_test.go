package model

import (
	"math"
	"testing"
)

// TestPointDistance tests euclidean distance
func TestPointDistance(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}
	if d := a.Distance(b); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

// TestBBoxFromPoints tests construction from unordered corners
func TestBBoxFromPoints(t *testing.T) {
	b := NewBBoxFromPoints(Point{X: 10, Y: 20}, Point{X: 2, Y: 5})
	if b.X != 2 || b.Y != 5 || b.Width != 8 || b.Height != 15 {
		t.Errorf("bbox = %+v", b)
	}
}

// TestBBoxContains tests point containment
func TestBBoxContains(t *testing.T) {
	b := NewBBox(0, 0, 10, 10)
	if !b.Contains(Point{X: 5, Y: 5}) {
		t.Error("centre should be inside")
	}
	if b.Contains(Point{X: 15, Y: 5}) {
		t.Error("outside point reported inside")
	}
}

// TestBBoxIntersectionAndUnion tests the set operations
func TestBBoxIntersectionAndUnion(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)
	b := NewBBox(5, 5, 10, 10)

	inter := a.Intersection(b)
	if inter.X != 5 || inter.Y != 5 || inter.Width != 5 || inter.Height != 5 {
		t.Errorf("intersection = %+v", inter)
	}

	union := a.Union(b)
	if union.X != 0 || union.Y != 0 || union.Width != 15 || union.Height != 15 {
		t.Errorf("union = %+v", union)
	}
}

// TestMatrixTransform tests point transformation
func TestMatrixTransform(t *testing.T) {
	m := Translate(10, 20)
	p := m.Transform(Point{X: 1, Y: 2})
	if p.X != 11 || p.Y != 22 {
		t.Errorf("transformed = %+v", p)
	}
}

// TestMatrixMultiplyOrder tests the apply-first-then-second convention
func TestMatrixMultiplyOrder(t *testing.T) {
	combined := Translate(10, 0).Multiply(Scale(2, 2))
	p := combined.Transform(Point{X: 1, Y: 1})
	// Translate first (11,1), then scale: (22,2).
	if p.X != 22 || p.Y != 2 {
		t.Errorf("transformed = %+v", p)
	}
}

// TestMatrixInvert tests the inverse round-trip and singular rejection
func TestMatrixInvert(t *testing.T) {
	m := Translate(5, 7).Multiply(Scale(2, 3))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("matrix should be invertible")
	}
	p := inv.Transform(m.Transform(Point{X: 1.5, Y: -2}))
	if math.Abs(p.X-1.5) > 1e-9 || math.Abs(p.Y+2) > 1e-9 {
		t.Errorf("round trip = %+v", p)
	}

	if _, ok := (Matrix{0, 0, 0, 0, 1, 1}).Invert(); ok {
		t.Error("singular matrix should not invert")
	}
}

// TestRotate tests the rotation matrix
func TestRotate(t *testing.T) {
	m := Rotate(math.Pi / 2)
	p := m.Transform(Point{X: 1, Y: 0})
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y-1) > 1e-9 {
		t.Errorf("rotated = %+v", p)
	}
}
