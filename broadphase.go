package phys2d

// broadphase.go: glue between World and the SpatialIndex variants (spec
// §4.2). Grounded on the teacher's cpSpaceReindexStatic/Collide split in
// space.go, which separates "rebuild the index from current shapes" from
// "filter pairs before handing them to narrow-phase".

// newSpatialIndex constructs the configured SpatialIndex implementation
// from a WorldConfig (spec §4.1: "Broadphase selects the spatial index
// implementation").
func newSpatialIndex(cfg WorldConfig) SpatialIndex {
	switch cfg.Broadphase {
	case BoundingVolumeHierarchy:
		return NewBVH()
	case BruteForce:
		return NewBruteForceIndex()
	default:
		return NewSpatialHashGrid(cfg.SHGBounds, cfg.SHGCellWidth, cfg.SHGCellHeight)
	}
}

// setFilterable is implemented by the index variants that support pair
// filtering (SHG and BVH); BruteForceIndex filters post-hoc in
// Broadphase.Pairs instead.
type setFilterable interface {
	SetFilter(PairFilter)
}

// Broadphase owns one World's SpatialIndex instance plus the logic that
// turns live bodies into IndexEntry records and candidate pairs into a
// filtered, sleeping-aware pair list (spec §4.2: "filter... with
// collision_group/mask/category rules... before handing to narrow-phase").
type Broadphase struct {
	index SpatialIndex
}

func newBroadphase(cfg WorldConfig, filter PairFilter) *Broadphase {
	idx := newSpatialIndex(cfg)
	if f, ok := idx.(setFilterable); ok {
		f.SetFilter(filter)
	}
	return &Broadphase{index: idx}
}

// Rebuild refreshes the spatial index from the current set of bodies'
// world AABBs. Sleeping dynamic-dynamic pairs are still indexed (spec
// §4.7: a sleeping body must still block/support others), filtering
// happens in the pair filter itself.
func (bp *Broadphase) Rebuild(bodies []*Body) {
	entries := make([]IndexEntry, 0, len(bodies))
	for _, b := range bodies {
		entries = append(entries, IndexEntry{ID: b.id, Box: b.WorldAABB()})
	}
	bp.index.Rebuild(entries)
}

// Pairs returns the filtered candidate-pair list for this step. For
// BruteForceIndex, which has no SetFilter hook, filtering is applied
// here instead so all three variants present the same filtered contract
// to the caller.
func (bp *Broadphase) Pairs(filter PairFilter) []BodyPair {
	pairs := bp.index.QueryPairs()
	if _, ok := bp.index.(setFilterable); ok || filter == nil {
		return pairs
	}
	out := pairs[:0]
	for _, p := range pairs {
		if filter(p.A, p.B) {
			out = append(out, p)
		}
	}
	return out
}

func (bp *Broadphase) QueryAABB(box AABB) []BodyID { return bp.index.QueryAABB(box) }
func (bp *Broadphase) QueryPoint(p Vector2) []BodyID { return bp.index.QueryPoint(p) }
func (bp *Broadphase) QueryRay(origin, dir Vector2, maxDist float64) []BodyID {
	return bp.index.QueryRay(origin, dir, maxDist)
}
