package phys2d

import "testing"

func TestAABBOverlaps(t *testing.T) {
	a := NewAABB(0, 0, 2, 2)
	b := NewAABB(1, 1, 3, 3)
	c := NewAABB(5, 5, 6, 6)
	if !a.Overlaps(b) {
		t.Fatalf("expected a, b to overlap")
	}
	if a.Overlaps(c) {
		t.Fatalf("expected a, c not to overlap")
	}
}

func TestAABBUnion(t *testing.T) {
	a := NewAABB(0, 0, 1, 1)
	b := NewAABB(2, -1, 3, 0.5)
	u := a.Union(b)
	want := NewAABB(0, -1, 3, 1)
	if u != want {
		t.Fatalf("Union: got %v, want %v", u, want)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	a := NewAABB(-1, -1, 1, 1)
	if !a.ContainsPoint(V(0, 0)) {
		t.Fatalf("expected origin inside")
	}
	if a.ContainsPoint(V(2, 0)) {
		t.Fatalf("expected (2,0) outside")
	}
}

func TestAABBClampedTo(t *testing.T) {
	bounds := NewAABB(-10, -10, 10, 10)
	outOfBounds := NewAABB(8, 8, 20, 20)
	clamped := outOfBounds.ClampedTo(bounds)
	if clamped.MaxX != 10 || clamped.MaxY != 10 {
		t.Fatalf("ClampedTo: got %v", clamped)
	}
}

func TestAABBForCircle(t *testing.T) {
	box := AABBForCircle(V(1, 1), 2)
	want := NewAABB(-1, -1, 3, 3)
	if box != want {
		t.Fatalf("AABBForCircle: got %v, want %v", box, want)
	}
}

func TestRaySegmentIntersectHitsBox(t *testing.T) {
	box := NewAABB(-1, -1, 1, 1)
	_, hit := box.RaySegmentIntersect(V(-5, 0), V(1, 0), 10)
	if !hit {
		t.Fatalf("expected ray to hit box")
	}
}

func TestRaySegmentIntersectMisses(t *testing.T) {
	box := NewAABB(-1, -1, 1, 1)
	_, hit := box.RaySegmentIntersect(V(-5, 5), V(1, 0), 10)
	if hit {
		t.Fatalf("expected ray to miss box")
	}
}

func TestRaySegmentIntersectBeyondMaxDist(t *testing.T) {
	box := NewAABB(9, -1, 11, 1)
	_, hit := box.RaySegmentIntersect(V(-5, 0), V(1, 0), 5)
	if hit {
		t.Fatalf("expected ray to fall short of the box")
	}
}
