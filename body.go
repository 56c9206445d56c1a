package phys2d

// body.go: the Body type (spec §3). Per spec §9's explicit redesign flag
// ("Raw pointer graphs... replace with a world-owned arena of bodies
// keyed by stable integer ids; contacts and constraints hold ids, not
// references"), this diverges from the teacher's *Body-pointer-heavy
// intrusive lists (arbiterList, constraintList, sleepingNext) in favor of
// a BodyID the World looks up in its own arena. The KinematicClass enum,
// the zero inverse-mass-for-static invariant, and the shape-list compound
// model are grounded on the teacher's BODY_STATIC/BODY_DYNAMIC/BODY_KINEMATIC
// and body.shapeList.

import (
	"fmt"
	"math"
)

type BodyID uint32

// KinematicClass is spec §3's kinematic_class tag.
type KinematicClass int

const (
	BodyStatic KinematicClass = iota
	BodyDynamic
	BodyKinematic
)

func (k KinematicClass) String() string {
	switch k {
	case BodyStatic:
		return "static"
	case BodyKinematic:
		return "kinematic"
	default:
		return "dynamic"
	}
}

// SleepState is spec §3's sleep_state.
type SleepState int

const (
	Awake SleepState = iota
	Sleeping
)

// Body is spec §3's Body record.
type Body struct {
	id    BodyID
	class KinematicClass

	Position Vector2
	Angle    float64
	rotation Rotation // cached cos/sin, refreshed once per step

	LinearVelocity  Vector2
	AngularVelocity float64

	forceAccum  Vector2
	torqueAccum float64

	Mass        float64
	InvMass     float64
	Inertia     float64
	InvInertia  float64

	Material Material
	Shapes   []*Shape

	LinearDamping  float64
	AngularDamping float64

	Filter      CollisionFilter
	IsAttractor bool

	sleepState SleepState
	idleFrames int

	componentRoot BodyID // island representative; 0 (invalid) means "none yet"
	hasComponent  bool

	world *World

	UserData any
}

// invalidBodyID is never assigned to a real body (ids start at 1), so it
// doubles as a "no value" sentinel for componentRoot and contact-graph
// bookkeeping without an extra bool almost everywhere else.
const invalidBodyID BodyID = 0

// NewBody creates an empty body of the given kinematic class at the
// origin; shapes are attached afterward via AddShape (the caller is
// expected to then call World.AddBody to register it).
func NewBody(class KinematicClass) *Body {
	b := &Body{
		class:    class,
		Material: DefaultMaterial(),
		Filter:   DefaultFilter(),
		rotation: IdentityRotation(),
	}
	if class == BodyStatic {
		b.InvMass, b.InvInertia = 0, 0
	}
	return b
}

// NewCircleBody is a convenience constructor for a single-circle body.
func NewCircleBody(class KinematicClass, radius float64) (*Body, error) {
	shape, err := NewCircleShape(radius, Vector2{})
	if err != nil {
		return nil, err
	}
	b := NewBody(class)
	if err := b.AddShape(shape); err != nil {
		return nil, err
	}
	return b, nil
}

// NewPolygonBody is a convenience constructor for a single-polygon body.
func NewPolygonBody(class KinematicClass, vertices []Vector2) (*Body, error) {
	shape, err := NewPolygonShape(vertices)
	if err != nil {
		return nil, err
	}
	b := NewBody(class)
	if err := b.AddShape(shape); err != nil {
		return nil, err
	}
	return b, nil
}

// NewBoxBody is a convenience constructor for a single-box body.
func NewBoxBody(class KinematicClass, hx, hy float64) (*Body, error) {
	shape, err := NewBoxShape(hx, hy)
	if err != nil {
		return nil, err
	}
	b := NewBody(class)
	if err := b.AddShape(shape); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Body) ID() BodyID             { return b.id }
func (b *Body) Class() KinematicClass  { return b.class }
func (b *Body) IsSleeping() bool       { return b.sleepState == Sleeping }
func (b *Body) Rotation() Rotation     { return b.rotation }

// AddShape attaches a shape to the body (compound bodies, spec §3) and
// recomputes derived mass/inertia. Shapes may be added after the body is
// registered with a World; broad-phase picks the new shape up on the next
// Step, which rebuilds the spatial index every step.
func (b *Body) AddShape(s *Shape) error {
	if s.body != nil {
		return &EngineError{Kind: ErrKindState, Op: "Body.AddShape", Err: fmt.Errorf("shape already attached to a body")}
	}
	s.body = b
	s.index = len(b.Shapes)
	b.Shapes = append(b.Shapes, s)
	b.recomputeMass()
	return nil
}

// recomputeMass derives Mass/InvMass/Inertia/InvInertia from the body's
// shapes and material density (spec §3: "Mass and inertia are derived
// from shapes + density on creation, recomputed if a shape is added").
// Static and kinematic bodies always carry zero inverse mass/inertia
// (spec §3 invariant: "inverse_mass = 0 iff the body does not move from
// force; equivalently mass is treated as +Inf").
func (b *Body) recomputeMass() {
	if b.class != BodyDynamic {
		b.Mass, b.InvMass, b.Inertia, b.InvInertia = 0, 0, 0, 0
		return
	}

	totalMass, totalInertia := 0.0, 0.0
	for _, s := range b.Shapes {
		density := b.Material.Density
		if s.Material != nil {
			density = s.Material.Density
		}
		m, i := s.massData(density)
		totalMass += m
		totalInertia += i
	}

	if totalMass <= 0 {
		// No shapes yet, or zero-area shapes only: treat as a point mass
		// of 1 so the body is still simulatable until shapes are attached.
		totalMass = 1
		totalInertia = 0
	}

	b.Mass = totalMass
	b.InvMass = 1 / totalMass
	b.Inertia = totalInertia
	if totalInertia > 1e-12 {
		b.InvInertia = 1 / totalInertia
	} else {
		b.InvInertia = 0
	}
}

// WorldAABB is the union of the body's transformed shape AABBs (spec §3:
// "The world AABB of each body equals the union of its transformed shape
// AABBs; this is the key the spatial index uses").
func (b *Body) WorldAABB() AABB {
	if len(b.Shapes) == 0 {
		return AABBForCircle(b.Position, 0)
	}
	box := b.Shapes[0].WorldAABB()
	for _, s := range b.Shapes[1:] {
		box = box.Union(s.WorldAABB())
	}
	return box
}

// updateShapes refreshes every shape's cached world-space geometry from
// the body's current transform (spec §3: cached once per step).
func (b *Body) updateShapes() {
	b.rotation = RotationFromAngle(b.Angle)
	for _, s := range b.Shapes {
		s.UpdateWorld(b.Position, b.rotation)
	}
}

// ApplyForce accumulates a force at the center of mass. Silently ignored
// on static bodies (spec §3 invariant). A sleeping body wakes, since spec
// §4.7 wakes a body on any non-zero force/impulse applied to it.
func (b *Body) ApplyForce(f Vector2) {
	if b.class != BodyDynamic {
		return
	}
	if b.sleepState != Awake {
		WakeBody(b)
	}
	b.forceAccum = b.forceAccum.Add(f)
}

// ApplyForceAtPoint accumulates a force applied at a world-space point,
// contributing to both the linear force and the torque accumulators.
func (b *Body) ApplyForceAtPoint(f, worldPoint Vector2) {
	if b.class != BodyDynamic {
		return
	}
	if b.sleepState != Awake {
		WakeBody(b)
	}
	b.forceAccum = b.forceAccum.Add(f)
	r := worldPoint.Sub(b.Position)
	b.torqueAccum += r.Cross(f)
}

// ApplyTorque accumulates a pure torque.
func (b *Body) ApplyTorque(t float64) {
	if b.class != BodyDynamic {
		return
	}
	if b.sleepState != Awake {
		WakeBody(b)
	}
	b.torqueAccum += t
}

// ApplyImpulseAtPoint immediately changes velocity/angular velocity (not
// an accumulator — impulses, unlike forces, take effect instantly).
func (b *Body) ApplyImpulseAtPoint(impulse, worldPoint Vector2) {
	if b.class != BodyDynamic {
		return
	}
	if b.sleepState != Awake {
		WakeBody(b)
	}
	b.LinearVelocity = b.LinearVelocity.Add(impulse.Scale(b.InvMass))
	r := worldPoint.Sub(b.Position)
	b.AngularVelocity += b.InvInertia * r.Cross(impulse)
}

func (b *Body) clearAccumulators() {
	b.forceAccum = Vector2{}
	b.torqueAccum = 0
}

// KineticEnergy is used by the sleeping heuristic (spec §4.7).
func (b *Body) KineticEnergy() float64 {
	v2 := b.LinearVelocity.LengthSq()
	w2 := b.AngularVelocity * b.AngularVelocity
	return 0.5*b.Mass*v2 + 0.5*b.Inertia*w2
}

func (b *Body) isFinite() bool {
	return b.Position.IsFinite() && b.LinearVelocity.IsFinite() &&
		!math.IsNaN(b.Angle) && !math.IsInf(b.Angle, 0) &&
		!math.IsNaN(b.AngularVelocity) && !math.IsInf(b.AngularVelocity, 0)
}
