package phys2d

// constraint.go: the joint/constraint abstraction (spec §4.1's
// "constraint_iterations" knob and §6's joint-management API). Grounded
// on the teacher's Constraint interface in constraint.go
// (PreStep/ApplyCachedImpulse/ApplyImpulse/GetImpulse) and, for the
// block-solve shape of the per-joint math, the Jacobian/effective-mass
// treatment g3n-engine's physics package borrows from cannon.js-style
// constraint solvers — simplified here to this engine's own bias/clamp
// contract (no SPOOK stiffness/relaxation parameters).

// ConstraintKind tags the Constraint union, mirroring the Shape sum-type
// treatment (spec §9: prefer tagged unions to an inheritance hierarchy).
type ConstraintKind int

const (
	DistanceConstraintKind ConstraintKind = iota
	SpringConstraintKind
	HingeConstraintKind
)

func (k ConstraintKind) String() string {
	switch k {
	case SpringConstraintKind:
		return "spring"
	case HingeConstraintKind:
		return "hinge"
	default:
		return "distance"
	}
}

// constraintImpl is the per-kind solving strategy, resolved from
// Constraint.Kind. Every stage receives the already-resolved body
// pointers (World looks them up by id once per step) rather than ids, so
// the hot solver loop never touches the arena map.
type constraintImpl interface {
	// ApplyForces runs before force/velocity integration (spec §4.5 step
	// 0), for constraints modeled as a continuous force rather than a
	// solved velocity impulse (the spring). No-op for impulse-based joints.
	ApplyForces(a, b *Body, dt float64)
	// PreStep computes the Jacobian/effective-mass terms that only depend
	// on body geometry, once per step before any impulse is applied.
	PreStep(a, b *Body, dt float64)
	// WarmStart reapplies last step's accumulated impulse so the solver
	// starts closer to the correct answer (spec §4.4's warm-starting idea,
	// extended to joints).
	WarmStart(a, b *Body)
	// SolveVelocity runs one Gauss-Seidel velocity-iteration pass.
	SolveVelocity(a, b *Body)
	// SolvePosition runs one position-correction pass and reports the
	// remaining positional error, used by the solver to decide whether
	// position iterations can stop early.
	SolvePosition(a, b *Body) (remainingError float64)
}

// Constraint is one joint between two bodies (or one body and a fixed
// world anchor, by wiring BodyB to a static body).
type Constraint struct {
	ID      ConstraintID
	Kind    ConstraintKind
	BodyA   BodyID
	BodyB   BodyID
	Enabled bool

	// MaxForce is stored with the constraint, but no solver stage reads it:
	// whatever its value, it does not limit the impulse the joint applies.
	MaxForce float64

	impl constraintImpl
}

type ConstraintID uint32

func (c *Constraint) ApplyForces(a, b *Body, dt float64) { c.impl.ApplyForces(a, b, dt) }
func (c *Constraint) PreStep(a, b *Body, dt float64)     { c.impl.PreStep(a, b, dt) }
func (c *Constraint) WarmStart(a, b *Body)               { c.impl.WarmStart(a, b) }
func (c *Constraint) SolveVelocity(a, b *Body)           { c.impl.SolveVelocity(a, b) }
func (c *Constraint) SolvePosition(a, b *Body) float64  { return c.impl.SolvePosition(a, b) }
