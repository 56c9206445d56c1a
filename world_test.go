package phys2d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorldAddRemoveBody(t *testing.T) {
	w := NewWorld()
	b, err := NewCircleBody(BodyDynamic, 1)
	require.NoError(t, err)
	id, err := w.AddBody(b)
	require.NoError(t, err)
	require.Equal(t, b, w.Body(id))

	require.NoError(t, w.RemoveBody(id))
	require.Nil(t, w.Body(id))
}

func TestWorldAddBodyTwiceFails(t *testing.T) {
	w := NewWorld()
	b, err := NewCircleBody(BodyDynamic, 1)
	require.NoError(t, err)
	_, err = w.AddBody(b)
	require.NoError(t, err)
	_, err = w.AddBody(b)
	require.Error(t, err)
}

func TestWorldStaticBodyUnaffectedByStep(t *testing.T) {
	w := NewWorld(WithGravity(V(0, -10)))
	ground, err := NewBoxBody(BodyStatic, 10, 1)
	require.NoError(t, err)
	ground.Position = V(3, 7)
	ground.Angle = 0.4
	_, err = w.AddBody(ground)
	require.NoError(t, err)

	for i := 0; i < 60; i++ {
		w.Step(1.0 / 60)
	}

	require.Equal(t, V(3, 7), ground.Position)
	require.Equal(t, 0.4, ground.Angle)
	require.Equal(t, Vector2{}, ground.LinearVelocity)
	require.Equal(t, 0.0, ground.AngularVelocity)
}

func TestWorldRemoveBodyDropsDependentConstraints(t *testing.T) {
	w := NewWorld()
	a, _ := NewCircleBody(BodyDynamic, 1)
	b, _ := NewCircleBody(BodyDynamic, 1)
	idA, _ := w.AddBody(a)
	idB, _ := w.AddBody(b)
	c := NewDistanceConstraint(idA, idB, Vector2{}, Vector2{}, 2, 0.2, 0.005)
	cid, err := w.AddConstraint(c)
	require.NoError(t, err)

	require.NoError(t, w.RemoveBody(idA))
	require.Nil(t, w.Constraint(cid))
}

func TestWorldAddConstraintRejectsUnknownBody(t *testing.T) {
	w := NewWorld()
	b, _ := NewCircleBody(BodyDynamic, 1)
	id, _ := w.AddBody(b)
	c := NewDistanceConstraint(id, 9999, Vector2{}, Vector2{}, 2, 0.2, 0.005)
	_, err := w.AddConstraint(c)
	require.Error(t, err)
}

func TestWorldQueryPointFindsBody(t *testing.T) {
	w := NewWorld()
	b, _ := NewBoxBody(BodyStatic, 1, 1)
	b.Position = V(5, 5)
	_, err := w.AddBody(b)
	require.NoError(t, err)
	w.Step(1.0 / 60) // refresh shape world cache

	hits := w.QueryPoint(V(5, 5))
	require.Len(t, hits, 1)
	require.Equal(t, b, hits[0])

	require.Empty(t, w.QueryPoint(V(100, 100)))
}

func TestWorldRayCastHitsBody(t *testing.T) {
	w := NewWorld()
	b, _ := NewCircleBody(BodyStatic, 1)
	b.Position = V(5, 0)
	_, err := w.AddBody(b)
	require.NoError(t, err)
	w.Step(1.0 / 60)

	hits := w.RayCast(V(-10, 0), V(1, 0), 20)
	require.NotEmpty(t, hits)
	require.Equal(t, b, hits[0].Body)
	require.InDelta(t, 14.0, hits[0].T, 1e-6)
}

func TestWorldStepCallbacksFire(t *testing.T) {
	w := NewWorld()
	preCalled, postCalled := false, false
	w.PreStepCallback = func(*World, float64) { preCalled = true }
	w.PostStepCallback = func(*World, float64, []ContactManifold) { postCalled = true }
	w.Step(1.0 / 60)
	require.True(t, preCalled)
	require.True(t, postCalled)
}

func TestWorldErrorsChannelReceivesNonFiniteDetection(t *testing.T) {
	w := NewWorld(WithDetectNonFinite(true))
	b, _ := NewCircleBody(BodyDynamic, 1)
	_, err := w.AddBody(b)
	require.NoError(t, err)
	b.Position = V(math.Inf(1), 0)

	result := w.Step(1.0 / 60)
	require.Error(t, result.Err)

	select {
	case e := <-w.Errors():
		require.Error(t, e)
	default:
		t.Fatalf("expected an error on the world's error channel")
	}
}

func TestWorldDeterministicReplay(t *testing.T) {
	build := func() *World {
		w := NewWorld(WithGravity(V(0, -9.8)), WithBroadphase(BruteForce))
		b, _ := NewBoxBody(BodyDynamic, 0.5, 0.5)
		b.Position = V(0, 5)
		w.AddBody(b)
		return w
	}

	w1, w2 := build(), build()
	for i := 0; i < 120; i++ {
		w1.Step(1.0 / 60)
		w2.Step(1.0 / 60)
	}

	b1, b2 := w1.Bodies()[0], w2.Bodies()[0]
	require.Equal(t, b1.Position, b2.Position)
	require.Equal(t, b1.LinearVelocity, b2.LinearVelocity)
	require.Equal(t, b1.Angle, b2.Angle)
}
