package phys2d

// constraint_spring.go: a damped spring between two anchor points.
// Grounded on cannon.js's force-based Spring (applyForce: computes a
// Hookean restoring force plus a damping term and adds it straight to
// each body's force accumulator, rather than solving it as a velocity
// constraint) — the pattern g3n-engine's physics package borrows from
// cannon.js, per DESIGN.md's dependency survey.

type springConstraint struct {
	anchorA, anchorB   Vector2
	restLength         float64
	stiffness, damping float64
}

// NewSpringConstraint builds a Hookean spring with the given rest length,
// stiffness (force per unit extension), and damping (force per unit rate
// of extension) between anchorA (local to a) and anchorB (local to b).
func NewSpringConstraint(a, b BodyID, anchorA, anchorB Vector2, restLength, stiffness, damping float64) *Constraint {
	return &Constraint{
		Kind:    SpringConstraintKind,
		BodyA:   a,
		BodyB:   b,
		Enabled: true,
		impl: &springConstraint{
			anchorA:    anchorA,
			anchorB:    anchorB,
			restLength: restLength,
			stiffness:  stiffness,
			damping:    damping,
		},
	}
}

// ApplyForces adds the spring force straight to both bodies' force
// accumulators before force/velocity integration runs (spec §4.5 step 0),
// so it is actually present when IntegrateForces turns it into a velocity
// change. A spring is not solved as a velocity constraint, so the
// remaining interface stages are no-ops.
func (sc *springConstraint) ApplyForces(a, b *Body, dt float64) {
	pa := a.Position.Add(a.rotation.Apply(sc.anchorA))
	pb := b.Position.Add(b.rotation.Apply(sc.anchorB))

	delta := pb.Sub(pa)
	dist := delta.Length()
	if dist < 1e-9 {
		return
	}
	dir := delta.Scale(1 / dist)

	stretch := dist - sc.restLength
	rA := pa.Sub(a.Position)
	rB := pb.Sub(b.Position)
	relVel := relativeVelocityAt(a, b, rA, rB)
	closingSpeed := relVel.Dot(dir)

	forceMag := sc.stiffness*stretch + sc.damping*closingSpeed
	force := dir.Scale(forceMag)

	a.ApplyForceAtPoint(force, pa)
	b.ApplyForceAtPoint(force.Neg(), pb)
}

func (sc *springConstraint) PreStep(a, b *Body, dt float64)   {}
func (sc *springConstraint) WarmStart(a, b *Body)             {}
func (sc *springConstraint) SolveVelocity(a, b *Body)         {}
func (sc *springConstraint) SolvePosition(a, b *Body) float64 { return 0 }
