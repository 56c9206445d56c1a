package phys2d

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleManifold() ContactManifold {
	return ContactManifold{
		BodyA: 1, BodyB: 2,
		ShapeAIndex: 0, ShapeBIndex: 0,
		Contacts: []Contact{{Feature: circleFeature}},
	}
}

func TestContactCacheWarmStartRoundtrip(t *testing.T) {
	cache := NewContactCache()
	m := sampleManifold()
	m.Contacts[0].AccumulatedNormalImpulse = 5
	m.Contacts[0].AccumulatedTangentImpulse = 1.5

	cache.Tick()
	cache.Store(&m)

	fresh := sampleManifold()
	cache.WarmStart(&fresh)
	require.Equal(t, 5.0, fresh.Contacts[0].AccumulatedNormalImpulse)
	require.Equal(t, 1.5, fresh.Contacts[0].AccumulatedTangentImpulse)
}

func TestContactCacheMissLeavesZero(t *testing.T) {
	cache := NewContactCache()
	m := sampleManifold()
	cache.WarmStart(&m)
	require.Equal(t, 0.0, m.Contacts[0].AccumulatedNormalImpulse)
}

func TestContactCachePruneEvictsStaleEntries(t *testing.T) {
	cache := NewContactCache()
	m := sampleManifold()
	cache.Tick()
	cache.Store(&m)
	require.Equal(t, 1, cache.Len())

	for i := 0; i < 10; i++ {
		cache.Tick()
	}
	cache.Prune(5)
	require.Equal(t, 0, cache.Len())
}

func TestContactCachePruneKeepsFreshEntries(t *testing.T) {
	cache := NewContactCache()
	m := sampleManifold()
	cache.Tick()
	cache.Store(&m)
	cache.Tick()
	cache.Prune(5)
	require.Equal(t, 1, cache.Len())
}
