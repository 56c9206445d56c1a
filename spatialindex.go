package phys2d

// spatialindex.go: the SpatialIndex interface and two of its three
// implementations (spec §4.2): BruteForce (the trivial O(n^2) oracle) and
// the Spatial Hash Grid. The BVH lives in bvh.go. Cell-key packing and the
// "clip, don't omit" out-of-bounds policy are grounded on
// original_source/include/novaphysics/shg.h and src/shg.c, the exact
// source spec §4.2's SHG section is modeled on. The brute-force pass is
// grounded on g3n-engine's collision/broadphase.go NeedTest + naive
// double loop.

import "sort"

// IndexEntry is one body's broad-phase key: its id and current world AABB
// (spec §4.2: "rebuild(bodies)").
type IndexEntry struct {
	ID  BodyID
	Box AABB
}

// BodyPair is an unordered candidate pair with A < B and no duplicates
// (spec §4.2 contract).
type BodyPair struct {
	A, B BodyID
}

func makePair(a, b BodyID) BodyPair {
	if a < b {
		return BodyPair{a, b}
	}
	return BodyPair{b, a}
}

// SpatialIndex is the one interface both broad-phase variants implement,
// plus the spatial queries (point/AABB/ray) the public World API exposes
// through it (spec §6).
type SpatialIndex interface {
	Rebuild(entries []IndexEntry)
	QueryPairs() []BodyPair
	QueryAABB(box AABB) []BodyID
	QueryPoint(p Vector2) []BodyID
	QueryRay(origin, dir Vector2, maxDist float64) []BodyID
}

// ---- Brute force -----------------------------------------------------

// BruteForceIndex rechecks every pair of entries each rebuild. O(n^2) but
// needs no bookkeeping; used for small worlds and as the correctness
// oracle the SHG/BVH are tested against (spec §8: "Both variants must
// produce identical pair sets").
type BruteForceIndex struct {
	entries []IndexEntry
}

func NewBruteForceIndex() *BruteForceIndex { return &BruteForceIndex{} }

func (idx *BruteForceIndex) Rebuild(entries []IndexEntry) {
	idx.entries = entries
}

func (idx *BruteForceIndex) QueryPairs() []BodyPair {
	var pairs []BodyPair
	for i := 0; i < len(idx.entries); i++ {
		for j := i + 1; j < len(idx.entries); j++ {
			if idx.entries[i].Box.Overlaps(idx.entries[j].Box) {
				pairs = append(pairs, makePair(idx.entries[i].ID, idx.entries[j].ID))
			}
		}
	}
	return pairs
}

func (idx *BruteForceIndex) QueryAABB(box AABB) []BodyID {
	var out []BodyID
	for _, e := range idx.entries {
		if e.Box.Overlaps(box) {
			out = append(out, e.ID)
		}
	}
	return out
}

func (idx *BruteForceIndex) QueryPoint(p Vector2) []BodyID {
	var out []BodyID
	for _, e := range idx.entries {
		if e.Box.ContainsPoint(p) {
			out = append(out, e.ID)
		}
	}
	return out
}

func (idx *BruteForceIndex) QueryRay(origin, dir Vector2, maxDist float64) []BodyID {
	var out []BodyID
	for _, e := range idx.entries {
		if _, hit := e.Box.RaySegmentIntersect(origin, dir, maxDist); hit {
			out = append(out, e.ID)
		}
	}
	return out
}

// ---- Spatial Hash Grid -------------------------------------------------

// cellKey packs (cx, cy) into a single comparable value, widened from a
// 16/16 split to 32/32 signed halves of an int64 per spec §9's note that
// "implementation may widen to 32/32" if a 16-bit split limits world
// extent; grounded on original_source/src/shg.c's cell hashing.
type cellKey int64

func packCell(cx, cy int32) cellKey {
	return cellKey(uint64(uint32(cx))<<32 | uint64(uint32(cy)))
}

// SpatialHashGrid is spec §4.2's SHG: bounds + uniform cell size, rebuilt
// every step, with bodies leaving the bounds clipped to the edge cells
// rather than dropped.
type SpatialHashGrid struct {
	bounds             AABB
	cellW, cellH       float64
	cells              map[cellKey][]BodyID
	entries            []IndexEntry
	filter             PairFilter
}

// PairFilter lets the owning World reject candidate pairs (sleeping/sleeping,
// collision group/mask/category) before they reach narrow-phase (spec §4.2:
// "filter... with collision_group/mask/category rules before handing to
// narrow-phase").
type PairFilter func(a, b BodyID) bool

func NewSpatialHashGrid(bounds AABB, cellWidth, cellHeight float64) *SpatialHashGrid {
	if cellWidth <= 0 {
		cellWidth = 1
	}
	if cellHeight <= 0 {
		cellHeight = 1
	}
	return &SpatialHashGrid{
		bounds: bounds,
		cellW:  cellWidth,
		cellH:  cellHeight,
		cells:  make(map[cellKey][]BodyID),
	}
}

func (g *SpatialHashGrid) SetFilter(f PairFilter) { g.filter = f }

func (g *SpatialHashGrid) cellCoords(box AABB) (minCx, minCy, maxCx, maxCy int32) {
	clamped := box.ClampedTo(g.bounds)
	minCx = int32((clamped.MinX - g.bounds.MinX) / g.cellW)
	minCy = int32((clamped.MinY - g.bounds.MinY) / g.cellH)
	maxCx = int32((clamped.MaxX - g.bounds.MinX) / g.cellW)
	maxCy = int32((clamped.MaxY - g.bounds.MinY) / g.cellH)
	return
}

func (g *SpatialHashGrid) Rebuild(entries []IndexEntry) {
	g.entries = entries
	for k := range g.cells {
		delete(g.cells, k)
	}
	for _, e := range entries {
		minCx, minCy, maxCx, maxCy := g.cellCoords(e.Box)
		for cx := minCx; cx <= maxCx; cx++ {
			for cy := minCy; cy <= maxCy; cy++ {
				key := packCell(cx, cy)
				g.cells[key] = append(g.cells[key], e.ID)
			}
		}
	}
}

func (g *SpatialHashGrid) boxByID(id BodyID) (AABB, bool) {
	for _, e := range g.entries {
		if e.ID == id {
			return e.Box, true
		}
	}
	return AABB{}, false
}

var cellNeighborOffsets = [8][2]int32{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// QueryPairs generates intra-cell pairs for every cell with >= 2
// occupants, plus cross-cell pairs with each occupied cell's 8 neighbors
// emitted exactly once via the canonical "only emit when neighbor key >
// cell key" direction (spec §4.2), then AABB- and filter-checks the
// result before returning.
func (g *SpatialHashGrid) QueryPairs() []BodyPair {
	seen := make(map[BodyPair]bool)
	var pairs []BodyPair

	add := func(a, b BodyID) {
		if a == b {
			return
		}
		p := makePair(a, b)
		if seen[p] {
			return
		}
		boxA, okA := g.boxByID(a)
		boxB, okB := g.boxByID(b)
		if !okA || !okB || !boxA.Overlaps(boxB) {
			return
		}
		if g.filter != nil && !g.filter(p.A, p.B) {
			return
		}
		seen[p] = true
		pairs = append(pairs, p)
	}

	// Deterministic iteration order over the cell map keeps pair emission
	// order stable across runs for a given input (spec §4.5 determinism
	// concern extends here indirectly: a stable candidate-pair order feeds
	// a stable manifold order).
	keys := make([]cellKey, 0, len(g.cells))
	for k := range g.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		occupants := g.cells[key]
		for i := 0; i < len(occupants); i++ {
			for j := i + 1; j < len(occupants); j++ {
				add(occupants[i], occupants[j])
			}
		}

		cx := int32(int64(key) >> 32)
		cy := int32(int64(key) & 0xFFFFFFFF)
		for _, off := range cellNeighborOffsets {
			nKey := packCell(cx+off[0], cy+off[1])
			if nKey <= key {
				continue
			}
			neighbors, ok := g.cells[nKey]
			if !ok {
				continue
			}
			for _, a := range occupants {
				for _, b := range neighbors {
					add(a, b)
				}
			}
		}
	}

	return pairs
}

func (g *SpatialHashGrid) QueryAABB(box AABB) []BodyID {
	seen := make(map[BodyID]bool)
	var out []BodyID
	minCx, minCy, maxCx, maxCy := g.cellCoords(box)
	for cx := minCx; cx <= maxCx; cx++ {
		for cy := minCy; cy <= maxCy; cy++ {
			for _, id := range g.cells[packCell(cx, cy)] {
				if seen[id] {
					continue
				}
				if b, ok := g.boxByID(id); ok && b.Overlaps(box) {
					seen[id] = true
					out = append(out, id)
				}
			}
		}
	}
	return out
}

func (g *SpatialHashGrid) QueryPoint(p Vector2) []BodyID {
	return g.QueryAABB(AABB{p.X, p.Y, p.X, p.Y})
}

func (g *SpatialHashGrid) QueryRay(origin, dir Vector2, maxDist float64) []BodyID {
	// Conservative broad pass: test against the ray's own bounding box.
	end := origin.Add(dir.Scale(maxDist))
	box := AABBForPoints([]Vector2{origin, end})
	candidates := g.QueryAABB(box)
	var out []BodyID
	for _, id := range candidates {
		if b, ok := g.boxByID(id); ok {
			if _, hit := b.RaySegmentIntersect(origin, dir, maxDist); hit {
				out = append(out, id)
			}
		}
	}
	return out
}
