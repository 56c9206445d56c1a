package phys2d

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func twoDynamicBodies(t *testing.T) (*Body, *Body) {
	t.Helper()
	a, err := NewCircleBody(BodyDynamic, 0.5)
	require.NoError(t, err)
	b, err := NewCircleBody(BodyDynamic, 0.5)
	require.NoError(t, err)
	a.Position = V(-1, 0)
	b.Position = V(1, 0)
	a.updateShapes()
	b.updateShapes()
	return a, b
}

func TestDistanceConstraintHoldsRestLength(t *testing.T) {
	a, b := twoDynamicBodies(t)
	c := NewDistanceConstraint(a.id, b.id, Vector2{}, Vector2{}, 2, 0.2, 0.005)
	dc := c.impl.(*distanceConstraint)

	dt := 1.0 / 60
	// Pull b outward for several steps; the rod should resist stretching.
	for i := 0; i < 60; i++ {
		b.ApplyForce(V(5, 0))
		IntegrateForces([]*Body{a, b}, Vector2{}, dt)
		dc.PreStep(a, b, dt)
		dc.WarmStart(a, b)
		for it := 0; it < 8; it++ {
			dc.SolveVelocity(a, b)
		}
		IntegrateVelocities([]*Body{a, b}, dt)
		for it := 0; it < 4; it++ {
			dc.SolvePosition(a, b)
		}
	}

	dist := a.Position.DistanceTo(b.Position)
	require.InDelta(t, 2.0, dist, 0.2)
}

func TestHingeConstraintKeepsAnchorsTogether(t *testing.T) {
	a, b := twoDynamicBodies(t)
	a.Position = V(0, 0)
	b.Position = V(0.01, 0) // anchors start 1.98 apart; the hinge must pull them together
	hc := NewHingeConstraint(a.id, b.id, V(1, 0), V(-0.99, 0), 0.2, 0.001)
	hinge := hc.impl.(*hingeConstraint)

	dt := 1.0 / 60
	for i := 0; i < 120; i++ {
		a.ApplyTorque(0.1)
		IntegrateForces([]*Body{a, b}, V(0, -10), dt)
		hinge.PreStep(a, b, dt)
		hinge.WarmStart(a, b)
		for it := 0; it < 8; it++ {
			hinge.SolveVelocity(a, b)
		}
		IntegrateVelocities([]*Body{a, b}, dt)
		for it := 0; it < 4; it++ {
			hinge.SolvePosition(a, b)
		}
	}

	pa := a.Position.Add(a.rotation.Apply(V(1, 0)))
	pb := b.Position.Add(b.rotation.Apply(V(-0.99, 0)))
	require.InDelta(t, 0, pa.DistanceTo(pb), 0.05)
}

func TestSpringConstraintPullsTowardRestLength(t *testing.T) {
	// Exercised through World.Step, not the impl methods directly: the
	// spring only works if its ApplyForces hook actually runs before
	// IntegrateForces in the real pipeline, which is exactly what this
	// regression-tests.
	w := NewWorld(WithGravity(Vector2{}), WithBroadphase(BruteForce))

	a, err := NewCircleBody(BodyDynamic, 0.5)
	require.NoError(t, err)
	a.Position = V(-1, 0)
	b, err := NewCircleBody(BodyDynamic, 0.5)
	require.NoError(t, err)
	b.Position = V(1, 0)

	idA, err := w.AddBody(a)
	require.NoError(t, err)
	idB, err := w.AddBody(b)
	require.NoError(t, err)

	initialDist := a.Position.DistanceTo(b.Position)
	require.Greater(t, initialDist, 1.0)

	spring := NewSpringConstraint(idA, idB, Vector2{}, Vector2{}, 1, 20, 2)
	_, err = w.AddConstraint(spring)
	require.NoError(t, err)

	const dt = 1.0 / 120
	for i := 0; i < 600; i++ {
		w.Step(dt)
	}

	finalDist := a.Position.DistanceTo(b.Position)
	require.Less(t, finalDist, initialDist)
	require.InDelta(t, 1.0, finalDist, 0.3)
}

func TestConstraintKindString(t *testing.T) {
	require.Equal(t, "distance", DistanceConstraintKind.String())
	require.Equal(t, "spring", SpringConstraintKind.String())
	require.Equal(t, "hinge", HingeConstraintKind.String())
}
