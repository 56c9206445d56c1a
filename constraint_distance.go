package phys2d

import "math"

// constraint_distance.go: a rigid rod holding two anchor points at a
// fixed distance apart (spec §8's orbit/chain scenarios). Grounded on the
// teacher's PinJoint (constraint_pin_joint.go: "dist = delta.Length() ...
// jAcc... bias = clamp(maxBias, -cp.biasCoef*cp.step*(dist-joint.dist))").

type distanceConstraint struct {
	anchorA, anchorB Vector2 // local to each body
	restLength       float64

	bias       float64 // correction bias config, mirrors the world's CorrectionBias
	slop       float64
	dt         float64

	rA, rB Vector2
	axis   Vector2
	mass   float64 // effective mass along axis

	accumImpulse float64
}

// NewDistanceConstraint builds a rigid rod between anchorA (local to a)
// and anchorB (local to b), holding them restLength apart. bias/slop
// mirror WorldConfig.CorrectionBias/PenetrationSlop so the joint corrects
// drift at the same rate contacts do.
func NewDistanceConstraint(a, b BodyID, anchorA, anchorB Vector2, restLength, bias, slop float64) *Constraint {
	return &Constraint{
		Kind:    DistanceConstraintKind,
		BodyA:   a,
		BodyB:   b,
		Enabled: true,
		impl: &distanceConstraint{
			anchorA:    anchorA,
			anchorB:    anchorB,
			restLength: restLength,
			bias:       bias,
			slop:       slop,
		},
	}
}

// ApplyForces is a no-op: a distance constraint is solved as a velocity
// impulse, not applied as a continuous force.
func (dc *distanceConstraint) ApplyForces(a, b *Body, dt float64) {}

func (dc *distanceConstraint) worldAnchors(a, b *Body) (pa, pb Vector2) {
	pa = a.Position.Add(a.rotation.Apply(dc.anchorA))
	pb = b.Position.Add(b.rotation.Apply(dc.anchorB))
	return
}

func (dc *distanceConstraint) PreStep(a, b *Body, dt float64) {
	dc.dt = dt
	pa, pb := dc.worldAnchors(a, b)
	dc.rA = pa.Sub(a.Position)
	dc.rB = pb.Sub(b.Position)

	delta := pb.Sub(pa)
	dist := delta.Length()
	if dist < 1e-9 {
		dc.axis = Vector2{1, 0}
	} else {
		dc.axis = delta.Scale(1 / dist)
	}

	rnA := dc.rA.Cross(dc.axis)
	rnB := dc.rB.Cross(dc.axis)
	k := a.InvMass + b.InvMass + a.InvInertia*rnA*rnA + b.InvInertia*rnB*rnB
	if k > 1e-12 {
		dc.mass = 1 / k
	} else {
		dc.mass = 0
	}
}

func (dc *distanceConstraint) WarmStart(a, b *Body) {
	impulse := dc.axis.Scale(dc.accumImpulse)
	applyJointImpulse(a, b, impulse, dc.rA, dc.rB)
}

func (dc *distanceConstraint) SolveVelocity(a, b *Body) {
	relVel := relativeVelocityAt(a, b, dc.rA, dc.rB)
	vn := relVel.Dot(dc.axis)
	j := -dc.mass * vn
	dc.accumImpulse += j
	applyJointImpulse(a, b, dc.axis.Scale(j), dc.rA, dc.rB)
}

func (dc *distanceConstraint) SolvePosition(a, b *Body) float64 {
	pa, pb := dc.worldAnchors(a, b)
	delta := pb.Sub(pa)
	dist := delta.Length()
	c := dist - dc.restLength

	if math.Abs(c) < dc.slop {
		return 0
	}
	var axis Vector2
	if dist < 1e-9 {
		axis = dc.axis
	} else {
		axis = delta.Scale(1 / dist)
	}

	rnA := dc.rA.Cross(axis)
	rnB := dc.rB.Cross(axis)
	k := a.InvMass + b.InvMass + a.InvInertia*rnA*rnA + b.InvInertia*rnB*rnB
	if k < 1e-12 {
		return 0
	}
	correction := dc.bias * c
	lambda := -correction / k

	a.Position = a.Position.Sub(axis.Scale(lambda * a.InvMass))
	b.Position = b.Position.Add(axis.Scale(lambda * b.InvMass))
	a.Angle -= a.InvInertia * rnA * lambda
	b.Angle += b.InvInertia * rnB * lambda
	a.rotation = RotationFromAngle(a.Angle)
	b.rotation = RotationFromAngle(b.Angle)

	return math.Abs(c)
}

// relativeVelocityAt is the relative velocity of body b's material point
// at rB minus body a's material point at rA, shared by every joint type.
func relativeVelocityAt(a, b *Body, rA, rB Vector2) Vector2 {
	vA := a.LinearVelocity.Add(Vector2{-a.AngularVelocity * rA.Y, a.AngularVelocity * rA.X})
	vB := b.LinearVelocity.Add(Vector2{-b.AngularVelocity * rB.Y, b.AngularVelocity * rB.X})
	return vB.Sub(vA)
}

func applyJointImpulse(a, b *Body, impulse, rA, rB Vector2) {
	a.LinearVelocity = a.LinearVelocity.Sub(impulse.Scale(a.InvMass))
	a.AngularVelocity -= a.InvInertia * rA.Cross(impulse)
	b.LinearVelocity = b.LinearVelocity.Add(impulse.Scale(b.InvMass))
	b.AngularVelocity += b.InvInertia * rB.Cross(impulse)
}
