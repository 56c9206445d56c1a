package phys2d

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcessIslandsSleepsAfterSleepFrames(t *testing.T) {
	b, err := NewCircleBody(BodyDynamic, 1)
	require.NoError(t, err)
	bodies := []*Body{b}
	cfg := DefaultWorldConfig()
	cfg.SleepFrames = 3
	lookup := func(id BodyID) *Body {
		if id == b.id {
			return b
		}
		return nil
	}

	for i := 0; i < cfg.SleepFrames; i++ {
		ProcessIslands(bodies, nil, nil, lookup, cfg)
	}
	require.True(t, b.IsSleeping())
}

func TestProcessIslandsResetsIdleFramesWhenMoving(t *testing.T) {
	b, err := NewCircleBody(BodyDynamic, 1)
	require.NoError(t, err)
	bodies := []*Body{b}
	cfg := DefaultWorldConfig()
	cfg.SleepFrames = 5
	lookup := func(id BodyID) *Body { return b }

	for i := 0; i < 3; i++ {
		ProcessIslands(bodies, nil, nil, lookup, cfg)
	}
	b.LinearVelocity = V(10, 0)
	ProcessIslands(bodies, nil, nil, lookup, cfg)
	require.Equal(t, 0, b.idleFrames)
}

func TestProcessIslandsDisabledKeepsBodiesAwake(t *testing.T) {
	b, err := NewCircleBody(BodyDynamic, 1)
	require.NoError(t, err)
	b.sleepState = Sleeping
	cfg := DefaultWorldConfig()
	cfg.AllowSleeping = false
	ProcessIslands([]*Body{b}, nil, nil, func(BodyID) *Body { return b }, cfg)
	require.False(t, b.IsSleeping())
}

func TestProcessIslandsStaticBodyDoesNotMergeIslands(t *testing.T) {
	ground, err := NewBoxBody(BodyStatic, 50, 1)
	require.NoError(t, err)
	a, err := NewBoxBody(BodyDynamic, 1, 1)
	require.NoError(t, err)
	c, err := NewBoxBody(BodyDynamic, 1, 1)
	require.NoError(t, err)
	ground.id, a.id, c.id = 1, 2, 3

	lookup := map[BodyID]*Body{1: ground, 2: a, 3: c}
	lf := func(id BodyID) *Body { return lookup[id] }

	manifolds := []ContactManifold{
		{BodyA: ground.id, BodyB: a.id},
		{BodyA: ground.id, BodyB: c.id},
	}

	cfg := DefaultWorldConfig()
	cfg.SleepFrames = 1
	ProcessIslands([]*Body{ground, a, c}, manifolds, nil, lf, cfg)

	// Both a and c touch only the static ground, never each other, so each
	// must be evaluated (and sleep) as its own island rather than waiting
	// on a shared one.
	require.True(t, a.IsSleeping())
	require.True(t, c.IsSleeping())
}

func TestWakeBodyResetsIdleFrames(t *testing.T) {
	b, _ := NewCircleBody(BodyDynamic, 1)
	b.idleFrames = 10
	b.sleepState = Sleeping
	WakeBody(b)
	require.False(t, b.IsSleeping())
	require.Equal(t, 0, b.idleFrames)
}
