package phys2d

// island.go: sleeping and island bookkeeping (spec §4.7). Grounded on the
// teacher's cpSpaceProcessComponents/FloodFillComponent/ComponentActive
// (space.go), reimplemented as a flat union-find over BodyID instead of
// chipmunk's intrusive per-body sleepingNext/root linked list, per spec
// §9's arena redesign.

// islandForest is a simple union-find keyed by BodyID, rebuilt fresh
// every step from the current contact/constraint graph.
type islandForest struct {
	parent map[BodyID]BodyID
}

func newIslandForest() *islandForest {
	return &islandForest{parent: make(map[BodyID]BodyID)}
}

func (f *islandForest) find(x BodyID) BodyID {
	root, ok := f.parent[x]
	if !ok {
		f.parent[x] = x
		return x
	}
	if root == x {
		return x
	}
	r := f.find(root)
	f.parent[x] = r
	return r
}

func (f *islandForest) union(x, y BodyID) {
	rx, ry := f.find(x), f.find(y)
	if rx != ry {
		f.parent[rx] = ry
	}
}

// ProcessIslands groups bodies into connected components via the active
// contact/constraint graph, restricted to dynamic-dynamic edges (spec
// §4.7: "static and kinematic bodies never merge two islands, so a dozen
// boxes resting on the same floor remain independent components"), then
// applies the per-component sleep heuristic: a component sleeps once
// every one of its bodies has stayed below the linear/angular sleep
// thresholds for SleepFrames consecutive steps, and wakes immediately if
// any member is force-awake (spec §4.7).
func ProcessIslands(bodies []*Body, manifolds []ContactManifold, constraints []*Constraint, lookup BodyLookup, cfg WorldConfig) {
	if !cfg.AllowSleeping {
		for _, b := range bodies {
			b.sleepState = Awake
			b.idleFrames = 0
		}
		return
	}

	forest := newIslandForest()
	for _, b := range bodies {
		if b.class == BodyDynamic {
			forest.find(b.id)
		}
	}

	edge := func(aID, bID BodyID) {
		a, b := lookup(aID), lookup(bID)
		if a == nil || b == nil {
			return
		}
		if a.class == BodyDynamic && b.class == BodyDynamic {
			forest.union(a.id, b.id)
		}
	}

	for _, m := range manifolds {
		edge(m.BodyA, m.BodyB)
	}
	for _, c := range constraints {
		if c.Enabled {
			edge(c.BodyA, c.BodyB)
		}
	}

	groups := make(map[BodyID][]*Body)
	for _, b := range bodies {
		if b.class != BodyDynamic {
			continue
		}
		root := forest.find(b.id)
		groups[root] = append(groups[root], b)
	}

	for _, members := range groups {
		updateIdleFrames(members, cfg)

		allAsleepEligible := true
		anyForceAwake := false
		for _, b := range members {
			if b.idleFrames < cfg.SleepFrames {
				allAsleepEligible = false
			}
			if b.sleepState == Awake && b.idleFrames == 0 && b.KineticEnergy() > sleepEnergyFloor(cfg) {
				anyForceAwake = true
			}
		}

		switch {
		case anyForceAwake:
			for _, b := range members {
				b.sleepState = Awake
			}
		case allAsleepEligible:
			for _, b := range members {
				b.sleepState = Sleeping
				b.LinearVelocity = Vector2{}
				b.AngularVelocity = 0
			}
		}
	}
}

func sleepEnergyFloor(cfg WorldConfig) float64 {
	return 0.5 * cfg.LinearSleepThreshold * cfg.LinearSleepThreshold
}

// updateIdleFrames advances or resets each body's idle-frame counter
// based on its own velocity, independent of its neighbors (spec §4.7's
// per-body threshold check, aggregated at the component level above).
func updateIdleFrames(members []*Body, cfg WorldConfig) {
	for _, b := range members {
		below := b.LinearVelocity.LengthSq() < cfg.LinearSleepThreshold*cfg.LinearSleepThreshold &&
			b.AngularVelocity*b.AngularVelocity < cfg.AngularSleepThreshold*cfg.AngularSleepThreshold
		if below {
			b.idleFrames++
		} else {
			b.idleFrames = 0
		}
	}
}

// WakeBody immediately marks a single body awake and resets its idle-frame
// count; used when an external caller applies a force/impulse to a sleeping
// body. The other members of its island are not changed here.
func WakeBody(b *Body) {
	b.sleepState = Awake
	b.idleFrames = 0
}
