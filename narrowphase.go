package phys2d

// narrowphase.go: exact per-shape-pair collision (spec §4.3). The
// dispatcher name Collide mirrors the teacher's own
// `Collide(a, b, collisionId, space.ContactBufferGetArray())` call in
// space.go; the SAT + incident/reference clipping algorithm for
// polygon-polygon is the one spec §4.3 describes by name
// ("Sutherland-Hodgman on the incident edge clipped against the
// reference side planes").

import "math"

// Collide dispatches on shape kind and always returns a manifold whose
// Normal points from a toward b, regardless of which concrete collision
// routine actually ran (spec §4.3: "Output contacts are expressed in
// world coordinates").
func Collide(a, b *Shape) (ContactManifold, bool) {
	switch {
	case a.Kind == ShapeCircleKind && b.Kind == ShapeCircleKind:
		return collideCircles(a, b)
	case a.Kind == ShapeCircleKind && b.Kind == ShapePolygonKind:
		m, ok := collideCirclePolygon(a, b)
		return m, ok
	case a.Kind == ShapePolygonKind && b.Kind == ShapeCircleKind:
		m, ok := collideCirclePolygon(b, a)
		if ok {
			m = flipManifold(m)
		}
		return m, ok
	default:
		return collidePolygons(a, b)
	}
}

func flipManifold(m ContactManifold) ContactManifold {
	m.BodyA, m.BodyB = m.BodyB, m.BodyA
	m.ShapeAIndex, m.ShapeBIndex = m.ShapeBIndex, m.ShapeAIndex
	for i := range m.Contacts {
		c := &m.Contacts[i]
		c.PointA, c.PointB = c.PointB, c.PointA
		c.Normal = c.Normal.Neg()
		c.Tangent = c.Normal.RPerp()
	}
	return m
}

func baseManifold(a, b *Shape) ContactManifold {
	return ContactManifold{
		BodyA:        a.body.id,
		BodyB:        b.body.id,
		ShapeAIndex:  a.index,
		ShapeBIndex:  b.index,
		Friction:     CombineFriction(a.EffectiveMaterial(), b.EffectiveMaterial()),
		Restitution:  CombineRestitution(a.EffectiveMaterial(), b.EffectiveMaterial()),
	}
}

// collideCircles implements spec §4.3's circle-circle rule exactly,
// including the degenerate near-zero-separation fallback axis.
func collideCircles(a, b *Shape) (ContactManifold, bool) {
	m := baseManifold(a, b)

	delta := b.worldCenter.Sub(a.worldCenter)
	dist := delta.Length()
	depth := a.Radius + b.Radius - dist

	if depth < 0 {
		return m, false
	}

	var normal Vector2
	if dist > 1e-9 {
		normal = delta.Scale(1 / dist)
	} else {
		// Degenerate case: centers coincide. Spec §4.3: "pick an arbitrary
		// axis (e.g., +x) for normal; still report contact."
		normal = Vector2{1, 0}
	}

	pointA := a.worldCenter.Add(normal.Scale(a.Radius))
	pointB := b.worldCenter.Sub(normal.Scale(b.Radius))
	mid := pointA.Add(pointB).Scale(0.5)

	m.Contacts = []Contact{{
		PointA:  mid,
		PointB:  mid,
		Normal:  normal,
		Tangent: normal.RPerp(),
		Depth:   depth,
		Feature: circleFeature,
	}}
	return m, true
}

// collideCirclePolygon implements spec §4.3's circle-polygon rule: find
// the face of maximal signed distance from the polygon to the circle
// center, then classify into a face or vertex contact.
func collideCirclePolygon(circle, poly *Shape) (ContactManifold, bool) {
	m := baseManifold(circle, poly)

	verts := poly.worldVertices
	normals := poly.worldNormals
	n := len(verts)

	bestSep := math.Inf(-1)
	bestEdge := 0
	for i := 0; i < n; i++ {
		sep := normals[i].Dot(circle.worldCenter.Sub(verts[i]))
		if sep > bestSep {
			bestSep = sep
			bestEdge = i
		}
	}

	if bestSep > circle.Radius {
		return m, false
	}

	v1 := verts[bestEdge]
	v2 := verts[(bestEdge+1)%n]

	var normal, contactPoint Vector2
	var depth float64
	var feature FeatureID

	if bestSep < 1e-9 {
		// Circle center is inside the polygon: use the face normal
		// directly, face contact.
		normal = normals[bestEdge]
		depth = circle.Radius - bestSep
		contactPoint = circle.worldCenter.Sub(normal.Scale(circle.Radius))
		feature = polygonFeature(bestEdge, 0)
	} else {
		edge := v2.Sub(v1)
		t := circle.worldCenter.Sub(v1).Dot(edge) / edge.LengthSq()

		switch {
		case t < 0:
			// Vertex contact at v1.
			dist := circle.worldCenter.DistanceTo(v1)
			if dist > circle.Radius {
				return m, false
			}
			normal = circle.worldCenter.Sub(v1).Normalize()
			if normal == (Vector2{}) {
				normal = normals[bestEdge]
			}
			depth = circle.Radius - dist
			contactPoint = v1
			feature = polygonFeature(bestEdge, bestEdge)
		case t > 1:
			// Vertex contact at v2.
			v2idx := (bestEdge + 1) % n
			dist := circle.worldCenter.DistanceTo(v2)
			if dist > circle.Radius {
				return m, false
			}
			normal = circle.worldCenter.Sub(v2).Normalize()
			if normal == (Vector2{}) {
				normal = normals[bestEdge]
			}
			depth = circle.Radius - dist
			contactPoint = v2
			feature = polygonFeature(bestEdge, v2idx)
		default:
			// Face contact: projection lies inside the segment.
			normal = normals[bestEdge]
			depth = circle.Radius - bestSep
			contactPoint = v1.Add(edge.Scale(t))
			feature = polygonFeature(bestEdge, 0)
		}
	}

	pointOnCircle := circle.worldCenter.Sub(normal.Scale(circle.Radius))
	// normal points from the polygon toward the circle; the manifold's A is
	// the circle, so it is reported negated to point from A toward B.
	normal = normal.Neg()
	m.Contacts = []Contact{{
		PointA:  pointOnCircle,
		PointB:  contactPoint,
		Normal:  normal,
		Tangent: normal.RPerp(),
		Depth:   depth,
		Feature: feature,
	}}
	return m, true
}

// findMaxSeparation returns, for polygon a tested against polygon b, the
// index of a's edge with the greatest separating-axis distance and that
// distance. A positive return means the axis actually separates them.
func findMaxSeparation(a, b *Shape) (bestEdge int, bestSep float64) {
	bestSep = math.Inf(-1)
	for i, normal := range a.worldNormals {
		v := a.worldVertices[i]
		// Support point of b in the direction opposite the normal.
		minProj := math.Inf(1)
		for _, bv := range b.worldVertices {
			proj := normal.Dot(bv.Sub(v))
			if proj < minProj {
				minProj = proj
			}
		}
		if minProj > bestSep {
			bestSep = minProj
			bestEdge = i
		}
	}
	return
}

// collidePolygons implements spec §4.3's SAT + incident/reference
// clipping rule.
func collidePolygons(a, b *Shape) (ContactManifold, bool) {
	m := baseManifold(a, b)

	edgeA, sepA := findMaxSeparation(a, b)
	if sepA > 0 {
		return m, false
	}
	edgeB, sepB := findMaxSeparation(b, a)
	if sepB > 0 {
		return m, false
	}

	var ref, inc *Shape
	var refEdge int
	var flip bool
	const tol = 0.95
	const slopBias = 0.01
	if sepB > sepA*tol+slopBias {
		ref, inc = b, a
		refEdge = edgeB
		flip = true
	} else {
		ref, inc = a, b
		refEdge = edgeA
		flip = false
	}

	refNormal := ref.worldNormals[refEdge]

	// Find the incident edge: the edge on inc whose normal is most
	// anti-parallel to the reference normal.
	incEdge := 0
	minDot := math.Inf(1)
	for i, n := range inc.worldNormals {
		d := n.Dot(refNormal)
		if d < minDot {
			minDot = d
			incEdge = i
		}
	}

	incN := len(inc.worldVertices)
	incidentPts := [2]Vector2{inc.worldVertices[incEdge], inc.worldVertices[(incEdge+1)%incN]}
	incidentFeat := [2]int{incEdge, (incEdge + 1) % incN}

	refN := len(ref.worldVertices)
	v1 := ref.worldVertices[refEdge]
	v2 := ref.worldVertices[(refEdge+1)%refN]
	tangent := v2.Sub(v1).Normalize()

	// Clip the incident edge against the two reference side planes, then
	// against the reference face itself (Sutherland-Hodgman on a single
	// segment, as spec §4.3 names it).
	points, feats, count := clipSegment(incidentPts, incidentFeat, tangent.Neg(), -tangent.Dot(v1), refEdge)
	if count < 2 {
		return m, false
	}
	points, feats, count = clipSegment([2]Vector2{points[0], points[1]}, [2]int{feats[0], feats[1]}, tangent, tangent.Dot(v2), refEdge)
	if count < 2 {
		return m, false
	}

	var contacts []Contact
	for i := 0; i < count; i++ {
		sep := refNormal.Dot(points[i].Sub(v1))
		if sep > 0 {
			continue
		}
		var normal Vector2
		var pa, pb Vector2
		var feature FeatureID
		if flip {
			normal = refNormal.Neg()
			pb = points[i].Sub(refNormal.Scale(sep))
			pa = points[i]
			feature = polygonFeature(feats[i], refEdge)
		} else {
			normal = refNormal
			pa = points[i].Sub(refNormal.Scale(sep))
			pb = points[i]
			feature = polygonFeature(refEdge, feats[i])
		}
		contacts = append(contacts, Contact{
			PointA:  pa,
			PointB:  pb,
			Normal:  normal,
			Tangent: normal.RPerp(),
			Depth:   -sep,
			Feature: feature,
		})
	}

	if len(contacts) == 0 {
		return m, false
	}
	// Two clipped points closer than mergeDist come from one corner grazing
	// the reference face; report them as a single contact, the deeper one.
	const mergeDist = 0.01
	if len(contacts) == 2 && contacts[0].PointA.DistanceTo(contacts[1].PointA) < mergeDist {
		if contacts[1].Depth > contacts[0].Depth {
			contacts[0] = contacts[1]
		}
		contacts = contacts[:1]
	}
	m.Contacts = contacts
	return m, true
}

// clipSegment clips the 2-point segment against the half-plane
// {p : axis.Dot(p) <= offset}, discarding points on the wrong side and
// interpolating a new point on the cut edge (classic
// b2ClipSegmentToLine-shaped single-plane clip).
func clipSegment(points [2]Vector2, feats [2]int, axis Vector2, offset float64, clipFeature int) ([2]Vector2, [2]int, int) {
	var out [2]Vector2
	var outFeats [2]int
	count := 0

	d0 := axis.Dot(points[0]) - offset
	d1 := axis.Dot(points[1]) - offset

	if d0 <= 0 {
		out[count] = points[0]
		outFeats[count] = feats[0]
		count++
	}
	if d1 <= 0 {
		out[count] = points[1]
		outFeats[count] = feats[1]
		count++
	}

	if d0*d1 < 0 {
		t := d0 / (d0 - d1)
		out[count] = points[0].Lerp(points[1], t)
		outFeats[count] = clipFeature
		count++
	}

	return out, outFeats, count
}
