package phys2d

// aabb.go: axis-aligned bounding boxes. Grounded on the teacher's
// NewBBForCircle/ShapeGetBB/BBTree references in space.go.

import "math"

// AABB is an axis-aligned rectangle with MinX <= MaxX and MinY <= MaxY.
type AABB struct {
	MinX, MinY, MaxX, MaxY float64
}

func NewAABB(minX, minY, maxX, maxY float64) AABB {
	return AABB{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// AABBForCircle builds the AABB of a circle centered at c with the given
// radius.
func AABBForCircle(c Vector2, radius float64) AABB {
	return AABB{c.X - radius, c.Y - radius, c.X + radius, c.Y + radius}
}

// AABBForPoints builds the tight AABB enclosing a set of points. Used for
// polygon world-space bounds.
func AABBForPoints(points []Vector2) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{points[0].X, points[0].Y, points[0].X, points[0].Y}
	for _, p := range points[1:] {
		box.MinX = math.Min(box.MinX, p.X)
		box.MinY = math.Min(box.MinY, p.Y)
		box.MaxX = math.Max(box.MaxX, p.X)
		box.MaxY = math.Max(box.MaxY, p.Y)
	}
	return box
}

func (a AABB) Width() float64  { return a.MaxX - a.MinX }
func (a AABB) Height() float64 { return a.MaxY - a.MinY }
func (a AABB) Area() float64   { return a.Width() * a.Height() }

func (a AABB) Center() Vector2 {
	return Vector2{(a.MinX + a.MaxX) / 2, (a.MinY + a.MaxY) / 2}
}

// Union returns the smallest AABB containing both a and b. Merge is an
// alias of Union.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		MinX: math.Min(a.MinX, b.MinX),
		MinY: math.Min(a.MinY, b.MinY),
		MaxX: math.Max(a.MaxX, b.MaxX),
		MaxY: math.Max(a.MaxY, b.MaxY),
	}
}

func (a AABB) Merge(b AABB) AABB { return a.Union(b) }

func (a AABB) Overlaps(b AABB) bool {
	return a.MinX <= b.MaxX && b.MinX <= a.MaxX && a.MinY <= b.MaxY && b.MinY <= a.MaxY
}

func (a AABB) ContainsPoint(p Vector2) bool {
	return p.X >= a.MinX && p.X <= a.MaxX && p.Y >= a.MinY && p.Y <= a.MaxY
}

// Contains reports whether a fully encloses b.
func (a AABB) Contains(b AABB) bool {
	return a.MinX <= b.MinX && a.MinY <= b.MinY && a.MaxX >= b.MaxX && a.MaxY >= b.MaxY
}

// Expand grows the box by margin on every side.
func (a AABB) Expand(margin float64) AABB {
	return AABB{a.MinX - margin, a.MinY - margin, a.MaxX + margin, a.MaxY + margin}
}

// ClampedTo clips a to the given bounds. Used by the spatial hash grid,
// which clips (never omits) bodies whose AABB leaves the configured
// bounds so they still participate in broad-phase (spec §4.2).
func (a AABB) ClampedTo(bounds AABB) AABB {
	return AABB{
		MinX: clampf(a.MinX, bounds.MinX, bounds.MaxX),
		MinY: clampf(a.MinY, bounds.MinY, bounds.MaxY),
		MaxX: clampf(a.MaxX, bounds.MinX, bounds.MaxX),
		MaxY: clampf(a.MaxY, bounds.MinY, bounds.MaxY),
	}
}

// IsFinite reports whether all four bounds are finite.
func (a AABB) IsFinite() bool {
	vs := []float64{a.MinX, a.MinY, a.MaxX, a.MaxY}
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// RaySegmentIntersect performs a slab-method ray/AABB test, returning the
// entry fraction along the segment [origin, origin+dir*maxDist] and
// whether it hit within [0, maxDist].
func (a AABB) RaySegmentIntersect(origin, dir Vector2, maxDist float64) (t float64, hit bool) {
	tmin, tmax := 0.0, maxDist

	for axis := 0; axis < 2; axis++ {
		var o, d, lo, hi float64
		if axis == 0 {
			o, d, lo, hi = origin.X, dir.X, a.MinX, a.MaxX
		} else {
			o, d, lo, hi = origin.Y, dir.Y, a.MinY, a.MaxY
		}
		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
