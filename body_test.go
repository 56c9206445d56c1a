package phys2d

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCircleBodyMass(t *testing.T) {
	b, err := NewCircleBody(BodyDynamic, 1)
	require.NoError(t, err)
	require.Greater(t, b.Mass, 0.0)
	require.Greater(t, b.InvMass, 0.0)
}

func TestStaticBodyHasZeroInverseMass(t *testing.T) {
	b, err := NewBoxBody(BodyStatic, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 0.0, b.InvMass)
	require.Equal(t, 0.0, b.InvInertia)
}

func TestApplyForceIgnoredOnStaticBody(t *testing.T) {
	b, err := NewBoxBody(BodyStatic, 1, 1)
	require.NoError(t, err)
	b.ApplyForce(V(100, 0))
	require.Equal(t, Vector2{}, b.forceAccum)
}

func TestApplyForceAccumulatesOnDynamicBody(t *testing.T) {
	b, err := NewBoxBody(BodyDynamic, 1, 1)
	require.NoError(t, err)
	b.ApplyForce(V(1, 2))
	b.ApplyForce(V(3, 4))
	require.Equal(t, V(4, 6), b.forceAccum)
}

func TestApplyImpulseAtPointChangesVelocityImmediately(t *testing.T) {
	b, err := NewCircleBody(BodyDynamic, 1)
	require.NoError(t, err)
	b.ApplyImpulseAtPoint(V(1, 0), b.Position)
	require.InDelta(t, 1*b.InvMass, b.LinearVelocity.X, 1e-9)
}

func TestWorldAABBUnionsShapes(t *testing.T) {
	b := NewBody(BodyDynamic)
	s1, _ := NewCircleShape(1, V(-2, 0))
	s2, _ := NewCircleShape(1, V(2, 0))
	require.NoError(t, b.AddShape(s1))
	require.NoError(t, b.AddShape(s2))
	b.updateShapes()
	box := b.WorldAABB()
	require.InDelta(t, -3, box.MinX, 1e-9)
	require.InDelta(t, 3, box.MaxX, 1e-9)
}

func TestAddShapeTwiceFails(t *testing.T) {
	b1 := NewBody(BodyDynamic)
	b2 := NewBody(BodyDynamic)
	s, _ := NewCircleShape(1, Vector2{})
	require.NoError(t, b1.AddShape(s))
	require.Error(t, b2.AddShape(s))
}

func TestKineticEnergyZeroAtRest(t *testing.T) {
	b, _ := NewCircleBody(BodyDynamic, 1)
	require.Equal(t, 0.0, b.KineticEnergy())
}
