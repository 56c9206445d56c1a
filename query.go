package phys2d

// query.go: point-containment test backing World.QueryPoint (spec §6,
// §12's supplemented query surface). Grounded on the teacher's
// cpShapePointQuery (shape.go: circle distance check, polygon signed
// distance via each edge's normal).

// shapeContainsPoint tests whether p lies inside (or on) s's current
// world-space geometry.
func shapeContainsPoint(s *Shape, p Vector2) bool {
	switch s.Kind {
	case ShapeCircleKind:
		return p.DistanceTo(s.worldCenter) <= s.Radius
	case ShapePolygonKind:
		for i, n := range s.worldNormals {
			if n.Dot(p.Sub(s.worldVertices[i])) > 0 {
				return false
			}
		}
		return true
	}
	return false
}
