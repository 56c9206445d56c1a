package phys2d

// shape.go: the Circle/ConvexPolygon shape union (spec §3) plus collision
// filtering. Grounded on the teacher's Shape/ShapeFilter/ShapeUpdateFunc
// (space.go: "shape.Update(body.transform)", "shape.Filter.Reject") and,
// for the mass-property formulas, the polygon centroid/second-moment
// treatment that a convex-polygon shape needs regardless of source
// language (there is no pack dependency for this; plain arithmetic, no
// justification needed beyond "it's math").

import (
	"fmt"
	"math"
)

// ShapeKind tags the Shape union. Spec §9 calls for a sum type here
// instead of an inheritance hierarchy.
type ShapeKind int

const (
	ShapeCircleKind ShapeKind = iota
	ShapePolygonKind
)

func (k ShapeKind) String() string {
	if k == ShapeCircleKind {
		return "circle"
	}
	return "polygon"
}

// CollisionFilter controls which shapes are allowed to generate contacts.
// Group: shapes sharing the same nonzero Group never collide with each
// other, regardless of Category/Mask (useful for a chain's own links).
// Category/Mask: standard bitmask test, a collides with b iff
// (a.Category & b.Mask) != 0 && (b.Category & a.Mask) != 0.
// Grounded on original_source's shape filter shape (group + bitmask
// category/mask), supplementing spec §3's bare "collision_group/mask/category"
// fields with the concrete combine rule.
type CollisionFilter struct {
	Group    int32
	Category uint32
	Mask     uint32
}

// DefaultFilter collides with everything and belongs to no exclusion group.
func DefaultFilter() CollisionFilter {
	return CollisionFilter{Group: 0, Category: math.MaxUint32, Mask: math.MaxUint32}
}

func (f CollisionFilter) ShouldCollide(o CollisionFilter) bool {
	if f.Group != 0 && f.Group == o.Group {
		return false
	}
	return (f.Category&o.Mask) != 0 && (o.Category&f.Mask) != 0
}

// Shape is one collidable piece of a (possibly compound) Body.
type Shape struct {
	Kind   ShapeKind
	Offset Vector2 // local offset from the owning body's origin

	Radius float64 // Circle only, > 0

	LocalVertices []Vector2 // ConvexPolygon only: CCW loop, local to Offset
	LocalNormals  []Vector2 // one outward unit normal per edge, precomputed

	LocalCentroid Vector2 // ConvexPolygon only

	// Material, when non-nil, overrides the owning body's material for
	// this one shape (supplemented feature, SPEC_FULL.md §12 — a compound
	// body may mix surfaces, e.g. a rubber bumper on a steel frame).
	Material *Material

	Filter CollisionFilter
	Sensor bool // sensor shapes are skipped by narrow-phase: no contacts, no impulses

	body  *Body
	index int // position within body.Shapes, stamped on AddShape

	// world-space cache, recomputed once per step (spec §3 invariant).
	worldCenter   Vector2   // circle center, or polygon centroid, in world space
	worldVertices []Vector2 // polygon only
	worldNormals  []Vector2 // polygon only
	bb            AABB
}

// NewCircleShape builds a circle shape of the given radius at the given
// local offset from the body origin.
func NewCircleShape(radius float64, offset Vector2) (*Shape, error) {
	if !(radius > 0) || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, &EngineError{Kind: ErrKindInvalidArgument, Op: "NewCircleShape", Err: fmt.Errorf("radius must be > 0, got %v", radius)}
	}
	return &Shape{
		Kind:   ShapeCircleKind,
		Offset: offset,
		Radius: radius,
		Filter: DefaultFilter(),
	}, nil
}

// NewPolygonShape builds a convex polygon shape from a CCW loop of at
// least 3 local vertices (spec §3). Vertices are validated for convexity
// and winding; face normals and the centroid are precomputed once here
// since "the world never mutates vertices after registration" (spec §3).
func NewPolygonShape(vertices []Vector2) (*Shape, error) {
	if len(vertices) < 3 {
		return nil, &EngineError{Kind: ErrKindInvalidArgument, Op: "NewPolygonShape", Err: fmt.Errorf("need >= 3 vertices, got %d", len(vertices))}
	}
	for _, v := range vertices {
		if !v.IsFinite() {
			return nil, &EngineError{Kind: ErrKindInvalidArgument, Op: "NewPolygonShape", Err: fmt.Errorf("non-finite vertex %v", v)}
		}
	}

	n := len(vertices)
	signedArea := 0.0
	for i := 0; i < n; i++ {
		a := vertices[i]
		b := vertices[(i+1)%n]
		signedArea += a.Cross(b)
	}
	if signedArea < 0 {
		return nil, &EngineError{Kind: ErrKindInvalidArgument, Op: "NewPolygonShape", Err: fmt.Errorf("vertices must be wound counter-clockwise")}
	}
	if signedArea < 1e-12 {
		return nil, &EngineError{Kind: ErrKindInvalidArgument, Op: "NewPolygonShape", Err: fmt.Errorf("degenerate polygon (near-zero area)")}
	}

	normals := make([]Vector2, n)
	for i := 0; i < n; i++ {
		a := vertices[i]
		b := vertices[(i+1)%n]
		edge := b.Sub(a)
		if edge.LengthSq() < 1e-18 {
			return nil, &EngineError{Kind: ErrKindInvalidArgument, Op: "NewPolygonShape", Err: fmt.Errorf("coincident vertices at index %d", i)}
		}
		normals[i] = edge.RPerp().Normalize()
	}

	// Convexity: every vertex must turn left (non-negative cross) relative
	// to the previous edge, for a CCW loop.
	for i := 0; i < n; i++ {
		prev := vertices[(i+n-1)%n]
		cur := vertices[i]
		next := vertices[(i+1)%n]
		e1 := cur.Sub(prev)
		e2 := next.Sub(cur)
		if e1.Cross(e2) < -1e-9 {
			return nil, &EngineError{Kind: ErrKindInvalidArgument, Op: "NewPolygonShape", Err: fmt.Errorf("polygon is not convex at vertex %d", i)}
		}
	}

	centroid := polygonCentroid(vertices, signedArea)

	return &Shape{
		Kind:          ShapePolygonKind,
		LocalVertices: append([]Vector2(nil), vertices...),
		LocalNormals:  normals,
		LocalCentroid: centroid,
		Filter:        DefaultFilter(),
	}, nil
}

// NewBoxShape is a convenience wrapper building an axis-aligned
// half-extent box polygon, analogous to the teacher's higher-level
// constructors layered over the generic shape machinery.
func NewBoxShape(hx, hy float64) (*Shape, error) {
	if hx <= 0 || hy <= 0 {
		return nil, &EngineError{Kind: ErrKindInvalidArgument, Op: "NewBoxShape", Err: fmt.Errorf("half extents must be > 0, got (%v, %v)", hx, hy)}
	}
	return NewPolygonShape([]Vector2{
		{-hx, -hy}, {hx, -hy}, {hx, hy}, {-hx, hy},
	})
}

func polygonCentroid(vertices []Vector2, signedArea float64) Vector2 {
	n := len(vertices)
	cx, cy := 0.0, 0.0
	for i := 0; i < n; i++ {
		a := vertices[i]
		b := vertices[(i+1)%n]
		cross := a.Cross(b)
		cx += (a.X + b.X) * cross
		cy += (a.Y + b.Y) * cross
	}
	area := signedArea / 2
	if math.Abs(area) < 1e-12 {
		return Vector2{}
	}
	return Vector2{cx / (6 * area), cy / (6 * area)}
}

// Body returns the owning body, or nil if the shape has not been
// registered via Body.AddShape yet.
func (s *Shape) Body() *Body { return s.body }

// Index is this shape's position within its owning body's Shapes slice,
// used as the ShapeAIndex/ShapeBIndex half of a contact feature key (spec §4.3).
func (s *Shape) Index() int { return s.index }

// EffectiveMaterial returns the shape's own material override if set,
// otherwise the owning body's material.
func (s *Shape) EffectiveMaterial() Material {
	if s.Material != nil {
		return *s.Material
	}
	if s.body != nil {
		return s.body.Material
	}
	return DefaultMaterial()
}

// UpdateWorld recomputes the shape's world-space vertices/normals/center
// and AABB from the owning body's transform. Called once per step (spec
// §3: "cached once per step") before broad-phase runs.
func (s *Shape) UpdateWorld(bodyPos Vector2, rot Rotation) {
	switch s.Kind {
	case ShapeCircleKind:
		s.worldCenter = bodyPos.Add(rot.Apply(s.Offset))
		s.bb = AABBForCircle(s.worldCenter, s.Radius)
	case ShapePolygonKind:
		if cap(s.worldVertices) < len(s.LocalVertices) {
			s.worldVertices = make([]Vector2, len(s.LocalVertices))
			s.worldNormals = make([]Vector2, len(s.LocalNormals))
		}
		s.worldVertices = s.worldVertices[:len(s.LocalVertices)]
		s.worldNormals = s.worldNormals[:len(s.LocalNormals)]
		for i, v := range s.LocalVertices {
			s.worldVertices[i] = bodyPos.Add(rot.Apply(v.Add(s.Offset)))
		}
		for i, n := range s.LocalNormals {
			s.worldNormals[i] = rot.Apply(n)
		}
		s.worldCenter = bodyPos.Add(rot.Apply(s.LocalCentroid.Add(s.Offset)))
		s.bb = AABBForPoints(s.worldVertices)
	}
}

func (s *Shape) WorldAABB() AABB           { return s.bb }
func (s *Shape) WorldCenter() Vector2      { return s.worldCenter }
func (s *Shape) WorldVertices() []Vector2  { return s.worldVertices }
func (s *Shape) WorldNormals() []Vector2   { return s.worldNormals }

// massData returns the (mass, rotational inertia about the body origin)
// contributed by this shape at the given density, including the parallel
// axis shift for Offset.
func (s *Shape) massData(density float64) (mass, inertia float64) {
	switch s.Kind {
	case ShapeCircleKind:
		mass = density * math.Pi * s.Radius * s.Radius
		// Inertia of a disc about its own centroid, shifted to the body
		// origin via the parallel axis theorem.
		ic := 0.5 * mass * s.Radius * s.Radius
		d2 := s.Offset.LengthSq()
		inertia = ic + mass*d2
		return
	case ShapePolygonKind:
		return polygonMassData(s.LocalVertices, s.Offset, density)
	}
	return 0, 0
}

// polygonMassData computes mass and inertia-about-the-body-origin for a
// convex polygon offset from that origin: it triangulates as a fan from the
// first vertex, then shifts the inertia to the polygon's centroid and on to
// the body origin (standard constant-density polygon formula).
func polygonMassData(vertices []Vector2, offset Vector2, density float64) (mass, inertia float64) {
	n := len(vertices)
	origin := vertices[0]
	area := 0.0
	centerNum := Vector2{}
	I := 0.0

	for i := 1; i < n-1; i++ {
		e1 := vertices[i].Sub(origin)
		e2 := vertices[i+1].Sub(origin)
		d := e1.Cross(e2)
		triArea := 0.5 * d
		area += triArea

		centerNum = centerNum.Add(e1.Add(e2).Scale(triArea / 3))

		intx2 := e1.X*e1.X + e1.X*e2.X + e2.X*e2.X
		inty2 := e1.Y*e1.Y + e1.Y*e2.Y + e2.Y*e2.Y
		I += (0.25 / 3 * d) * (intx2 + inty2)
	}

	mass = density * area
	var center Vector2
	if area > 1e-12 {
		center = centerNum.Scale(1 / area)
	}

	// I above is about `origin`; shift to the polygon's own centroid, then
	// to the body origin (origin + offset + center-relative-to-origin).
	Icentroid := I*density - mass*center.LengthSq()
	d := origin.Add(center).Add(offset)
	inertia = Icentroid + mass*d.LengthSq()
	return
}
