package phys2d

// raycast.go: per-shape ray intersection backing World.RayCast (spec §12's
// supplemented ray-casting feature, modeled on original_source's
// nv_Space_shapecast one-ray-many-shapes query). Circle uses the standard
// quadratic; polygon walks every edge as a supporting half-plane and
// narrows [tmin, tmax], the same slab idea AABB.RaySegmentIntersect in
// aabb.go applies to a box's two axes.

import "math"

func rayShapeIntersect(s *Shape, origin, unitDir Vector2, maxDist float64) (RayHit, bool) {
	switch s.Kind {
	case ShapeCircleKind:
		return rayCircle(s, origin, unitDir, maxDist)
	case ShapePolygonKind:
		return rayPolygon(s, origin, unitDir, maxDist)
	}
	return RayHit{}, false
}

func rayCircle(s *Shape, origin, dir Vector2, maxDist float64) (RayHit, bool) {
	m := origin.Sub(s.worldCenter)
	b := m.Dot(dir)
	c := m.LengthSq() - s.Radius*s.Radius

	if c > 0 && b > 0 {
		return RayHit{}, false
	}
	disc := b*b - c
	if disc < 0 {
		return RayHit{}, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 {
		t = 0
	}
	if t > maxDist {
		return RayHit{}, false
	}

	point := origin.Add(dir.Scale(t))
	normal := point.Sub(s.worldCenter).Normalize()
	return RayHit{Point: point, Normal: normal, T: t}, true
}

func rayPolygon(s *Shape, origin, dir Vector2, maxDist float64) (RayHit, bool) {
	tmin, tmax := 0.0, maxDist
	var hitNormal Vector2
	haveNormal := false

	for i, n := range s.worldNormals {
		v := s.worldVertices[i]
		denom := n.Dot(dir)
		num := n.Dot(v.Sub(origin))

		if math.Abs(denom) < 1e-12 {
			if num < 0 {
				return RayHit{}, false
			}
			continue
		}

		t := num / denom
		if denom < 0 {
			if t > tmin {
				tmin = t
				hitNormal = n
				haveNormal = true
			}
		} else {
			if t < tmax {
				tmax = t
			}
		}
		if tmin > tmax {
			return RayHit{}, false
		}
	}

	if !haveNormal {
		// Origin started inside the polygon; report the entry at the ray
		// start rather than claiming no hit.
		return RayHit{Point: origin, Normal: Vector2{}, T: 0}, true
	}

	point := origin.Add(dir.Scale(tmin))
	return RayHit{Point: point, Normal: hitNormal, T: tmin}, true
}
