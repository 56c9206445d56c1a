package phys2d

import "math"

// constraint_hinge.go: a revolute joint pinning two anchor points
// together while leaving relative rotation free (spec §8's chain/pyramid
// linkage scenarios). Grounded on the teacher's PivotJoint
// (constraint_pivot_joint.go: "k1, k2, k3 := k_tensor(a, b, rA, rB)...
// vBias = ... Mat2x2 solve"), a 2x2 block solve rather than the distance
// constraint's 1D axis solve since a hinge removes both translation axes
// at once.

type mat2 struct{ a, b, c, d float64 } // [[a b] [c d]]

func (m mat2) solve(x, y float64) (float64, float64) {
	det := m.a*m.d - m.b*m.c
	if math.Abs(det) < 1e-12 {
		return 0, 0
	}
	inv := 1 / det
	return inv * (m.d*x - m.b*y), inv * (m.a*y - m.c*x)
}

type hingeConstraint struct {
	anchorA, anchorB Vector2
	bias, slop       float64

	rA, rB Vector2
	k      mat2

	accumImpulse Vector2
}

// NewHingeConstraint pins anchorA (local to a) to anchorB (local to b),
// letting both bodies rotate freely about that shared point.
func NewHingeConstraint(a, b BodyID, anchorA, anchorB Vector2, bias, slop float64) *Constraint {
	return &Constraint{
		Kind:    HingeConstraintKind,
		BodyA:   a,
		BodyB:   b,
		Enabled: true,
		impl: &hingeConstraint{
			anchorA: anchorA,
			anchorB: anchorB,
			bias:    bias,
			slop:    slop,
		},
	}
}

// ApplyForces is a no-op: a hinge is solved as a velocity impulse, not
// applied as a continuous force.
func (hc *hingeConstraint) ApplyForces(a, b *Body, dt float64) {}

func (hc *hingeConstraint) worldAnchors(a, b *Body) (pa, pb Vector2) {
	pa = a.Position.Add(a.rotation.Apply(hc.anchorA))
	pb = b.Position.Add(b.rotation.Apply(hc.anchorB))
	return
}

func (hc *hingeConstraint) kMatrix(a, b *Body, rA, rB Vector2) mat2 {
	kA := a.InvMass + a.InvInertia*rA.Y*rA.Y
	kB := b.InvMass + b.InvInertia*rB.Y*rB.Y
	k1 := kA + kB
	k2 := -a.InvInertia*rA.X*rA.Y - b.InvInertia*rB.X*rB.Y
	kA2 := a.InvMass + a.InvInertia*rA.X*rA.X
	kB2 := b.InvMass + b.InvInertia*rB.X*rB.X
	k4 := kA2 + kB2
	return mat2{k1, k2, k2, k4}
}

func (hc *hingeConstraint) PreStep(a, b *Body, dt float64) {
	pa, pb := hc.worldAnchors(a, b)
	hc.rA = pa.Sub(a.Position)
	hc.rB = pb.Sub(b.Position)
	hc.k = hc.kMatrix(a, b, hc.rA, hc.rB)
}

func (hc *hingeConstraint) WarmStart(a, b *Body) {
	applyJointImpulse(a, b, hc.accumImpulse, hc.rA, hc.rB)
}

func (hc *hingeConstraint) SolveVelocity(a, b *Body) {
	relVel := relativeVelocityAt(a, b, hc.rA, hc.rB)
	jx, jy := hc.k.solve(-relVel.X, -relVel.Y)
	impulse := Vector2{jx, jy}
	hc.accumImpulse = hc.accumImpulse.Add(impulse)
	applyJointImpulse(a, b, impulse, hc.rA, hc.rB)
}

func (hc *hingeConstraint) SolvePosition(a, b *Body) float64 {
	pa, pb := hc.worldAnchors(a, b)
	c := pb.Sub(pa)
	mag := c.Length()
	if mag < hc.slop {
		return 0
	}

	rA := pa.Sub(a.Position)
	rB := pb.Sub(b.Position)
	k := hc.kMatrix(a, b, rA, rB)
	bx, by := k.solve(-hc.bias*c.X, -hc.bias*c.Y)
	impulse := Vector2{bx, by}

	a.Position = a.Position.Sub(impulse.Scale(a.InvMass))
	b.Position = b.Position.Add(impulse.Scale(b.InvMass))
	a.Angle -= a.InvInertia * rA.Cross(impulse)
	b.Angle += b.InvInertia * rB.Cross(impulse)
	a.rotation = RotationFromAngle(a.Angle)
	b.rotation = RotationFromAngle(b.Angle)

	return mag
}
