package phys2d

// world.go: the World type (spec §6) and the Step pipeline (spec §4.5,
// §2). Grounded on the teacher's Space (space.go: "func (space *Space)
// Step(dt float64)" driving reindex -> collide -> solve -> integrate),
// adapted to the arena-of-IDs redesign (spec §9) and the error-channel/
// logger ambient stack (spec §7/§10, DESIGN.md).

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// World owns every body, constraint, and the spatial index backing
// broad-phase, and drives the fixed-pipeline Step (spec §6).
type World struct {
	id uuid.UUID

	cfg WorldConfig

	bodies      map[BodyID]*Body
	bodyOrder   []BodyID // insertion order, for deterministic iteration
	nextBodyID  BodyID

	constraints     map[ConstraintID]*Constraint
	constraintOrder []ConstraintID
	nextConstraintID ConstraintID

	broadphase *Broadphase
	cache      *ContactCache

	stamp uint64

	lastErr chan error

	// PreStepCallback/PostStepCallback let an embedder observe each step
	// without subclassing the World (spec §6: "callbacks fire synchronously
	// within Step, in pipeline order").
	PreStepCallback  func(w *World, dt float64)
	PostStepCallback func(w *World, dt float64, manifolds []ContactManifold)
}

// NewWorld constructs a World from the given options layered over
// DefaultWorldConfig (spec §6).
func NewWorld(opts ...Option) *World {
	cfg := DefaultWorldConfig()
	for _, o := range opts {
		o(&cfg)
	}

	w := &World{
		id:          uuid.New(),
		cfg:         cfg,
		bodies:      make(map[BodyID]*Body),
		constraints: make(map[ConstraintID]*Constraint),
		cache:       NewContactCache(),
		lastErr:     make(chan error, 16),
		nextBodyID:  1,
		nextConstraintID: 1,
	}
	w.broadphase = newBroadphase(cfg, w.pairFilter)
	return w
}

func (w *World) ID() uuid.UUID       { return w.id }
func (w *World) Config() WorldConfig { return w.cfg }
func (w *World) Stamp() uint64       { return w.stamp }

// Errors returns the world's last-error channel (spec §7's per-world
// channel, replacing a shared global buffer). Non-blocking sends mean a
// slow consumer drops the oldest backlog rather than stalling Step.
func (w *World) Errors() <-chan error { return w.lastErr }

func (w *World) reportErr(err error) {
	w.cfg.Logger.Errorf("%v", err)
	select {
	case w.lastErr <- err:
	default:
		<-w.lastErr
		w.lastErr <- err
	}
}

// ---- Entity management (spec §6) --------------------------------------

// AddBody registers a body with the world, assigning it a stable id.
func (w *World) AddBody(b *Body) (BodyID, error) {
	if b.world != nil {
		return 0, &EngineError{Kind: ErrKindState, Op: taggedOp(w.id, "AddBody"), Err: fmt.Errorf("body already belongs to a world")}
	}
	id := w.nextBodyID
	w.nextBodyID++
	b.id = id
	b.world = w
	w.bodies[id] = b
	w.bodyOrder = append(w.bodyOrder, id)
	return id, nil
}

// RemoveBody deregisters a body and drops any contacts/constraints that
// referenced it.
func (w *World) RemoveBody(id BodyID) error {
	if _, ok := w.bodies[id]; !ok {
		return &EngineError{Kind: ErrKindInvalidArgument, Op: taggedOp(w.id, "RemoveBody"), BodyID: id, Err: fmt.Errorf("no such body")}
	}
	delete(w.bodies, id)
	for i, bid := range w.bodyOrder {
		if bid == id {
			w.bodyOrder = append(w.bodyOrder[:i], w.bodyOrder[i+1:]...)
			break
		}
	}
	for cid, c := range w.constraints {
		if c.BodyA == id || c.BodyB == id {
			delete(w.constraints, cid)
			w.removeConstraintOrder(cid)
		}
	}
	return nil
}

func (w *World) removeConstraintOrder(id ConstraintID) {
	for i, cid := range w.constraintOrder {
		if cid == id {
			w.constraintOrder = append(w.constraintOrder[:i], w.constraintOrder[i+1:]...)
			return
		}
	}
}

// Body looks up a registered body by id, or nil if it does not exist
// (used as the BodyLookup passed to solver/constraint/island stages).
func (w *World) Body(id BodyID) *Body { return w.bodies[id] }

// Bodies returns every registered body in insertion order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, 0, len(w.bodyOrder))
	for _, id := range w.bodyOrder {
		out = append(out, w.bodies[id])
	}
	return out
}

// AddConstraint registers a joint between two already-registered bodies.
func (w *World) AddConstraint(c *Constraint) (ConstraintID, error) {
	if _, ok := w.bodies[c.BodyA]; !ok {
		return 0, &EngineError{Kind: ErrKindInvalidArgument, Op: taggedOp(w.id, "AddConstraint"), Err: fmt.Errorf("unknown BodyA %d", c.BodyA)}
	}
	if _, ok := w.bodies[c.BodyB]; !ok {
		return 0, &EngineError{Kind: ErrKindInvalidArgument, Op: taggedOp(w.id, "AddConstraint"), Err: fmt.Errorf("unknown BodyB %d", c.BodyB)}
	}
	id := w.nextConstraintID
	w.nextConstraintID++
	c.ID = id
	w.constraints[id] = c
	w.constraintOrder = append(w.constraintOrder, id)
	return id, nil
}

func (w *World) RemoveConstraint(id ConstraintID) error {
	if _, ok := w.constraints[id]; !ok {
		return &EngineError{Kind: ErrKindInvalidArgument, Op: taggedOp(w.id, "RemoveConstraint"), Err: fmt.Errorf("no such constraint")}
	}
	delete(w.constraints, id)
	w.removeConstraintOrder(id)
	return nil
}

func (w *World) Constraint(id ConstraintID) *Constraint { return w.constraints[id] }

func (w *World) Constraints() []*Constraint {
	out := make([]*Constraint, 0, len(w.constraintOrder))
	for _, id := range w.constraintOrder {
		out = append(out, w.constraints[id])
	}
	return out
}

// pairFilter is the broad-phase PairFilter: rejects pairs where neither
// body is dynamic and pairs where both bodies are sleeping (spec
// §4.2/§4.7). Shape filters and sensors are checked per shape pair in
// narrow-phase (collideBodies).
func (w *World) pairFilter(a, b BodyID) bool {
	ba, bb := w.bodies[a], w.bodies[b]
	if ba == nil || bb == nil {
		return false
	}
	if ba.class != BodyDynamic && bb.class != BodyDynamic {
		return false
	}
	if ba.sleepState == Sleeping && bb.sleepState == Sleeping {
		return false
	}
	return true
}

// ---- Spatial queries (spec §6) ----------------------------------------

func (w *World) QueryAABB(box AABB) []*Body {
	ids := w.broadphase.QueryAABB(box)
	return w.resolveIDs(ids)
}

func (w *World) QueryPoint(p Vector2) []*Body {
	var out []*Body
	for _, id := range w.broadphase.QueryPoint(p) {
		b := w.bodies[id]
		if b == nil {
			continue
		}
		for _, s := range b.Shapes {
			if shapeContainsPoint(s, p) {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// RayHit is one ray-cast result (spec §12's supplemented ray-casting
// feature): the body hit, and the world-space point and unit normal at
// the hit.
type RayHit struct {
	Body   *Body
	Point  Vector2
	Normal Vector2
	T      float64
}

// RayCast casts a ray from origin along dir (need not be normalized) for
// up to maxDist, returning every body whose shapes it actually
// intersects, nearest first.
func (w *World) RayCast(origin, dir Vector2, maxDist float64) []RayHit {
	length := dir.Length()
	if length < 1e-12 {
		return nil
	}
	unit := dir.Scale(1 / length)

	candidateIDs := w.broadphase.QueryRay(origin, unit, maxDist)
	var hits []RayHit
	for _, id := range candidateIDs {
		b := w.bodies[id]
		if b == nil {
			continue
		}
		for _, s := range b.Shapes {
			if hit, ok := rayShapeIntersect(s, origin, unit, maxDist); ok {
				hit.Body = b
				hits = append(hits, hit)
			}
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].T < hits[j].T })
	return hits
}

func (w *World) resolveIDs(ids []BodyID) []*Body {
	out := make([]*Body, 0, len(ids))
	for _, id := range ids {
		if b := w.bodies[id]; b != nil {
			out = append(out, b)
		}
	}
	return out
}

// ---- Step (spec §2, §4.5) ---------------------------------------------

// Step advances the simulation by dt, split into cfg.Substeps equal
// sub-intervals (spec §2: "the step pipeline... may subdivide dt into N
// equal substeps, each running the full pipeline").
func (w *World) Step(dt float64) StepResult {
	if w.PreStepCallback != nil {
		w.PreStepCallback(w, dt)
	}

	substeps := w.cfg.Substeps
	if substeps < 1 {
		substeps = 1
	}
	sub := dt / float64(substeps)

	var lastManifolds []ContactManifold
	for i := 0; i < substeps; i++ {
		manifolds, err := w.stepOnce(sub)
		lastManifolds = manifolds
		if err != nil {
			w.reportErr(err)
			ClearAccumulators(w.Bodies())
			return StepResult{Stamp: w.stamp, Err: err}
		}
	}

	// Accumulated force/torque is cleared once per full step, not once per
	// substep, so a force applied once per Step call still acts across
	// every substep (spec §4.6).
	ClearAccumulators(w.Bodies())

	if w.PostStepCallback != nil {
		w.PostStepCallback(w, dt, lastManifolds)
	}

	return StepResult{Stamp: w.stamp}
}

func (w *World) stepOnce(dt float64) ([]ContactManifold, error) {
	w.stamp++
	w.cache.Tick()

	bodies := w.Bodies()
	lookup := w.Body

	// 0: refresh world-space shape geometry before anything queries it.
	for _, b := range bodies {
		b.updateShapes()
	}

	// 1: broad-phase.
	w.broadphase.Rebuild(bodies)
	pairs := w.broadphase.Pairs(w.pairFilter)

	// 2: narrow-phase.
	var manifolds []ContactManifold
	if w.cfg.ParallelNarrowphase && len(pairs) >= w.cfg.ParallelPairThreshold {
		manifolds = RunNarrowphaseParallel(pairs, lookup, w.cfg.ParallelWorkers)
	} else {
		manifolds = RunNarrowphaseSerial(pairs, lookup)
	}

	// 3: islands and sleeping, recomputed from this step's contact graph.
	ProcessIslands(bodies, manifolds, w.Constraints(), lookup, w.cfg)

	// 3.5: force-based constraints (the spring) add to the force
	// accumulators before integration, so IntegrateForces below actually
	// sees them; this must run before step 4, not alongside the
	// impulse-based PreStep/WarmStart loop in step 5.
	for _, c := range w.Constraints() {
		if !c.Enabled {
			continue
		}
		a, b := lookup(c.BodyA), lookup(c.BodyB)
		if a == nil || b == nil {
			continue
		}
		c.ApplyForces(a, b, dt)
	}

	// 4: integrate forces (gravity, user forces, attractors) into velocity.
	IntegrateForces(bodies, w.cfg.Gravity, dt)

	// 5: presolve + warm start.
	PresolveContacts(manifolds, lookup, dt, w.cfg)
	WarmStartContacts(manifolds, lookup, w.cache, w.cfg.WarmStarting)
	for _, c := range w.Constraints() {
		if !c.Enabled {
			continue
		}
		a, b := lookup(c.BodyA), lookup(c.BodyB)
		if a == nil || b == nil {
			continue
		}
		c.PreStep(a, b, dt)
		c.WarmStart(a, b)
	}

	// 6: velocity iterations, constraints then contacts each pass (joints
	// are typically stiffer and should see the freshest velocity).
	for i := 0; i < w.cfg.VelocityIterations; i++ {
		for _, c := range w.Constraints() {
			if !c.Enabled {
				continue
			}
			a, b := lookup(c.BodyA), lookup(c.BodyB)
			if a == nil || b == nil {
				continue
			}
			c.SolveVelocity(a, b)
		}
		SolveVelocityContacts(manifolds, lookup)
	}

	// 7: integrate velocities into position.
	IntegrateVelocities(bodies, dt)

	// 8: position-correction iterations.
	for i := 0; i < w.cfg.PositionIterations; i++ {
		remaining := SolvePositionContacts(manifolds, lookup, w.cfg)
		if remaining <= w.cfg.PenetrationSlop {
			break
		}
	}
	for i := 0; i < w.cfg.ConstraintIterations; i++ {
		worst := 0.0
		for _, c := range w.Constraints() {
			if !c.Enabled {
				continue
			}
			a, b := lookup(c.BodyA), lookup(c.BodyB)
			if a == nil || b == nil {
				continue
			}
			if e := c.SolvePosition(a, b); e > worst {
				worst = e
			}
		}
		if worst <= w.cfg.PenetrationSlop {
			break
		}
	}

	StoreContacts(manifolds, w.cache)
	w.cache.Prune(600)

	if w.cfg.DetectNonFinite {
		for _, b := range bodies {
			if !b.isFinite() {
				return manifolds, &EngineError{Kind: ErrKindNumerical, Op: taggedOp(w.id, "Step"), BodyID: b.id, Err: fmt.Errorf("body state went non-finite")}
			}
		}
	}

	return manifolds, nil
}
