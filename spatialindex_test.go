package phys2d

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomishEntries() []IndexEntry {
	// Deterministic fixed layout (no math/rand — avoids relying on a seed
	// remaining stable across Go versions) exercising clustered, isolated,
	// and overlapping-at-cell-boundary bodies.
	positions := []Vector2{
		{0, 0}, {0.5, 0.5}, {1, 1}, {5, 5}, {5.4, 5.4},
		{-10, -10}, {-10.3, -10.3}, {20, 0}, {20.1, 0.1}, {100, 100},
		{1.9, 0}, {2.1, 0}, // straddles a cell boundary at x=2 for cellW=2
	}
	entries := make([]IndexEntry, len(positions))
	for i, p := range positions {
		entries[i] = IndexEntry{ID: BodyID(i + 1), Box: AABBForCircle(p, 0.6)}
	}
	return entries
}

func sortPairs(pairs []BodyPair) []BodyPair {
	out := append([]BodyPair(nil), pairs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

func TestBroadphaseVariantsAgreeOnPairSet(t *testing.T) {
	entries := randomishEntries()

	bf := NewBruteForceIndex()
	bf.Rebuild(entries)
	bfPairs := sortPairs(bf.QueryPairs())

	shg := NewSpatialHashGrid(NewAABB(-200, -200, 200, 200), 2, 2)
	shg.Rebuild(entries)
	shgPairs := sortPairs(shg.QueryPairs())

	bvh := NewBVH()
	bvh.Rebuild(entries)
	bvhPairs := sortPairs(bvh.QueryPairs())

	require.Equal(t, bfPairs, shgPairs, "SHG pair set must match brute force")
	require.Equal(t, bfPairs, bvhPairs, "BVH pair set must match brute force")
}

func TestSpatialHashGridClipsOutOfBoundsRatherThanDropping(t *testing.T) {
	bounds := NewAABB(-10, -10, 10, 10)
	grid := NewSpatialHashGrid(bounds, 2, 2)
	farEntry := IndexEntry{ID: 1, Box: AABBForCircle(V(1000, 1000), 0.5)}
	nearEntry := IndexEntry{ID: 2, Box: AABBForCircle(V(9, 9), 0.5)}
	grid.Rebuild([]IndexEntry{farEntry, nearEntry})

	// A query around the far body clamps to the same boundary cell, so it
	// only finds the body if Rebuild clipped it into that cell.
	farHits := grid.QueryAABB(NewAABB(999, 999, 1001, 1001))
	require.Contains(t, farHits, BodyID(1), "far-away body must still be indexed, clipped to the boundary cell")
	hits := grid.QueryAABB(NewAABB(8, 8, 10, 10))
	require.Contains(t, hits, BodyID(2))
}

func TestBruteForceQueryPoint(t *testing.T) {
	idx := NewBruteForceIndex()
	idx.Rebuild([]IndexEntry{{ID: 1, Box: NewAABB(-1, -1, 1, 1)}})
	require.Equal(t, []BodyID{1}, idx.QueryPoint(V(0, 0)))
	require.Empty(t, idx.QueryPoint(V(5, 5)))
}

func TestBVHQueryAABB(t *testing.T) {
	entries := randomishEntries()
	bvh := NewBVH()
	bvh.Rebuild(entries)
	hits := bvh.QueryAABB(NewAABB(-1, -1, 1, 1))
	require.NotEmpty(t, hits)
}

func TestMakePairOrdersConsistently(t *testing.T) {
	p1 := makePair(3, 1)
	p2 := makePair(1, 3)
	require.Equal(t, p1, p2)
	require.Equal(t, BodyID(1), p1.A)
	require.Equal(t, BodyID(3), p1.B)
}
