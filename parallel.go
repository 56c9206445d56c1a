package phys2d

// parallel.go: the optional worker-pool narrow-phase mode (spec §5).
// Grounded on Gekko3D-gekko's particles_ecs.go worker-pool pattern
// (sync.WaitGroup fan-out over a fixed number of goroutines, each
// claiming a chunk of the work slice) — the only pack member with a
// concurrency pattern to borrow from, hence stdlib sync rather than
// golang.org/x/sync (see DESIGN.md's "Dropped / not wired" section).

import "sync"

// narrowphaseJob is one candidate pair's collision test plus its World
// state, resolved once and handed to a worker.
type narrowphaseJob struct {
	pair BodyPair
	a, b *Body
}

// RunNarrowphaseParallel dispatches the per-pair shape collision tests
// for candidatePairs across workers goroutines and returns every manifold
// that produced at least one contact. Output order is not guaranteed to
// match input order; callers that need determinism should sort the
// result (the solver does not care about manifold order beyond per-step
// warm-start key stability, which is independent of slice order).
func RunNarrowphaseParallel(candidatePairs []BodyPair, lookup BodyLookup, workers int) []ContactManifold {
	if workers < 1 {
		workers = 1
	}
	if len(candidatePairs) == 0 {
		return nil
	}

	jobs := make(chan narrowphaseJob, len(candidatePairs))
	for _, p := range candidatePairs {
		a, b := lookup(p.A), lookup(p.B)
		if a == nil || b == nil {
			continue
		}
		jobs <- narrowphaseJob{pair: p, a: a, b: b}
	}
	close(jobs)

	resultsCh := make(chan []ContactManifold, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			var local []ContactManifold
			for job := range jobs {
				local = append(local, collideBodies(job.a, job.b)...)
			}
			resultsCh <- local
		}()
	}
	wg.Wait()
	close(resultsCh)

	var out []ContactManifold
	for r := range resultsCh {
		out = append(out, r...)
	}
	return out
}

// RunNarrowphaseSerial is the single-goroutine equivalent of
// RunNarrowphaseParallel, used below WorldConfig.ParallelPairThreshold
// where spinning up workers would cost more than it saves (spec §5: "the
// sequential path remains the default and must produce identical results
// to the parallel path for the same input").
func RunNarrowphaseSerial(candidatePairs []BodyPair, lookup BodyLookup) []ContactManifold {
	var out []ContactManifold
	for _, p := range candidatePairs {
		a, b := lookup(p.A), lookup(p.B)
		if a == nil || b == nil {
			continue
		}
		out = append(out, collideBodies(a, b)...)
	}
	return out
}

// collideBodies runs narrow-phase across every shape pair of two
// (possibly compound) bodies (spec §4.3's compound-body handling: "test
// every shape of A against every shape of B").
func collideBodies(a, b *Body) []ContactManifold {
	var out []ContactManifold
	for _, sa := range a.Shapes {
		for _, sb := range b.Shapes {
			if sa.Sensor || sb.Sensor {
				continue
			}
			if !sa.Filter.ShouldCollide(sb.Filter) {
				continue
			}
			m, ok := Collide(sa, sb)
			if ok && len(m.Contacts) > 0 {
				out = append(out, m)
			}
		}
	}
	return out
}
