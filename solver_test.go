package phys2d

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lookupFor(bodies ...*Body) BodyLookup {
	m := make(map[BodyID]*Body)
	for i, b := range bodies {
		b.id = BodyID(i + 1)
		m[b.id] = b
	}
	return func(id BodyID) *Body { return m[id] }
}

func TestSolveVelocityContactsSeparatesApproachingBodies(t *testing.T) {
	a, err := NewCircleBody(BodyDynamic, 1)
	require.NoError(t, err)
	b, err := NewCircleBody(BodyDynamic, 1)
	require.NoError(t, err)
	a.Position, b.Position = V(-0.5, 0), V(0.5, 0)
	a.LinearVelocity, b.LinearVelocity = V(1, 0), V(-1, 0)
	a.updateShapes()
	b.updateShapes()

	lookup := lookupFor(a, b)
	m, ok := Collide(a.Shapes[0], b.Shapes[0])
	require.True(t, ok)
	m.BodyA, m.BodyB = a.id, b.id
	m.Restitution = 1
	manifolds := []ContactManifold{m}

	cfg := DefaultWorldConfig()
	PresolveContacts(manifolds, lookup, 1.0/60, cfg)
	for i := 0; i < 8; i++ {
		SolveVelocityContacts(manifolds, lookup)
	}

	relVel := b.LinearVelocity.Sub(a.LinearVelocity)
	require.Greater(t, relVel.X, 0.0, "bodies should separate after solving")
}

func TestSolveVelocityContactsNeverPullsTogether(t *testing.T) {
	a, err := NewCircleBody(BodyDynamic, 1)
	require.NoError(t, err)
	b, err := NewCircleBody(BodyDynamic, 1)
	require.NoError(t, err)
	a.Position, b.Position = V(-0.5, 0), V(0.5, 0)
	a.updateShapes()
	b.updateShapes()

	lookup := lookupFor(a, b)
	m, ok := Collide(a.Shapes[0], b.Shapes[0])
	require.True(t, ok)
	m.BodyA, m.BodyB = a.id, b.id
	manifolds := []ContactManifold{m}

	cfg := DefaultWorldConfig()
	PresolveContacts(manifolds, lookup, 1.0/60, cfg)
	SolveVelocityContacts(manifolds, lookup)

	require.GreaterOrEqual(t, manifolds[0].Contacts[0].AccumulatedNormalImpulse, 0.0)
}

func TestSolvePositionContactsReducesPenetration(t *testing.T) {
	a, err := NewCircleBody(BodyDynamic, 1)
	require.NoError(t, err)
	bb, err := NewCircleBody(BodyDynamic, 1)
	require.NoError(t, err)
	a.Position, bb.Position = V(-0.5, 0), V(0.5, 0)
	a.updateShapes()
	bb.updateShapes()

	lookup := lookupFor(a, bb)
	m, ok := Collide(a.Shapes[0], bb.Shapes[0])
	require.True(t, ok)
	m.BodyA, m.BodyB = a.id, bb.id
	manifolds := []ContactManifold{m}

	cfg := DefaultWorldConfig()
	PresolveContacts(manifolds, lookup, 1.0/60, cfg)

	before := a.Position.DistanceTo(bb.Position)
	SolvePositionContacts(manifolds, lookup, cfg)
	after := a.Position.DistanceTo(bb.Position)

	require.Greater(t, after, before, "position solver should push penetrating circles apart")
}

func TestAccumulatedTangentImpulseWithinFrictionBound(t *testing.T) {
	a, err := NewBoxBody(BodyDynamic, 1, 1)
	require.NoError(t, err)
	b, err := NewBoxBody(BodyStatic, 10, 1)
	require.NoError(t, err)
	a.Position = V(0, 1.9)
	b.Position = V(0, 0)
	a.LinearVelocity = V(3, 0)
	a.Material.Friction = 0.5
	b.Material.Friction = 0.5
	a.updateShapes()
	b.updateShapes()

	lookup := lookupFor(a, b)
	m, ok := Collide(a.Shapes[0], b.Shapes[0])
	require.True(t, ok)
	m.BodyA, m.BodyB = a.id, b.id
	m.Friction = CombineFriction(a.Material, b.Material)
	manifolds := []ContactManifold{m}

	cfg := DefaultWorldConfig()
	PresolveContacts(manifolds, lookup, 1.0/60, cfg)
	for i := 0; i < 8; i++ {
		SolveVelocityContacts(manifolds, lookup)
	}

	for _, c := range manifolds[0].Contacts {
		bound := m.Friction * c.AccumulatedNormalImpulse
		require.LessOrEqual(t, c.AccumulatedTangentImpulse, bound+1e-9)
		require.GreaterOrEqual(t, c.AccumulatedTangentImpulse, -bound-1e-9)
	}
}
