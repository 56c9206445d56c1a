package phys2d

// contact.go: Contact and ContactManifold (spec §3). Grounded on the
// teacher's Arbiter/Contact concepts in space.go (arb.contacts, count,
// MAX_CONTACTS_PER_ARBITER == 2).

// FeatureID identifies the geometric feature pair (vertex/edge) that
// produced a contact, stable across frames so the contact cache can
// warm-start it (spec §3/§4.4). Polygon-polygon contacts encode
// (referenceEdge, incidentVertex) when shape A holds the reference face and
// the swapped order when shape B does, so shape A's feature always comes
// first; circle contacts use a fixed sentinel
// since there is only ever one feature pair for a given shape pair.
type FeatureID int32

const circleFeature FeatureID = -1

func polygonFeature(referenceEdge, incidentVertex int) FeatureID {
	return FeatureID(referenceEdge<<16 | (incidentVertex & 0xFFFF))
}

// Contact is one point where two bodies touch (spec §3).
type Contact struct {
	PointA, PointB Vector2 // world points on each body's surface
	Normal         Vector2 // unit, points from body A toward body B
	Tangent        Vector2 // normal rotated -90deg
	Depth          float64 // penetration depth, >= 0
	Feature        FeatureID

	AccumulatedNormalImpulse  float64
	AccumulatedTangentImpulse float64

	// Solver-only scratch state, recomputed every presolve; not part of
	// the public contract but kept on the struct to avoid parallel arrays.
	rA, rB       Vector2 // contact point relative to each body's center of mass
	normalMass   float64
	tangentMass  float64
	velocityBias float64
	baseSeparation float64 // separation measured at presolve time, for restitution bookkeeping
}

// ContactManifold is spec §3's 1-or-2-contact manifold for one colliding
// shape pair.
type ContactManifold struct {
	BodyA, BodyB         BodyID
	ShapeAIndex, ShapeBIndex int
	Friction, Restitution    float64
	Contacts             []Contact
}

// contactKey is the warm-start cache key for one contact point (spec
// §4.4): (body_a_id, body_b_id, shape_a_idx, shape_b_idx, feature_id).
type contactKey struct {
	BodyA, BodyB         BodyID
	ShapeAIndex, ShapeBIndex int
	Feature              FeatureID
}

func (m *ContactManifold) keyFor(c *Contact) contactKey {
	return contactKey{m.BodyA, m.BodyB, m.ShapeAIndex, m.ShapeBIndex, c.Feature}
}
