package phys2d

// integrator.go: the acceleration and velocity integration stages (spec
// §4.5 steps 0 and 5, and §2's semi-implicit Euler requirement). Grounded
// on the teacher's cpBodyUpdateVelocity/cpBodyUpdatePosition
// (body.go: "v = v*damping + (f*m_inv + gravity)*dt", "p += v*dt"); the
// pairwise Newtonian attractor pass is the supplemented feature from
// SPEC_FULL.md §12, grounded on original_source's gravity-well bodies.

import "math"

// IntegrateForces applies gravity, accumulated forces/torques, and
// pairwise attractor gravity to every dynamic, awake body's velocity,
// using semi-implicit ("symplectic") Euler: velocities update from the
// force accumulators first, and IntegrateVelocities below then advances
// position from the *new* velocity (spec §2).
func IntegrateForces(bodies []*Body, gravity Vector2, dt float64) {
	applyAttractors(bodies, dt)

	for _, b := range bodies {
		if b.class != BodyDynamic || b.sleepState == Sleeping {
			continue
		}
		b.LinearVelocity = b.LinearVelocity.Add(gravity.Add(b.forceAccum.Scale(b.InvMass)).Scale(dt))
		b.AngularVelocity += b.torqueAccum * b.InvInertia * dt

		if b.LinearDamping > 0 {
			b.LinearVelocity = b.LinearVelocity.Scale(1 / (1 + dt*b.LinearDamping))
		}
		if b.AngularDamping > 0 {
			b.AngularVelocity /= 1 + dt*b.AngularDamping
		}
	}
}

// attractorConstant is Newton's gravitational constant in this engine's
// arbitrary units; attractors are an opt-in per-body feature (spec §12),
// not a real-world-units simulation, so a round constant is appropriate.
const attractorConstant = 1.0

// applyAttractors adds pairwise Newtonian gravity from every body flagged
// IsAttractor to every other dynamic body (spec §12: O(A*N) where A is
// the attractor count, not O(N^2), since most bodies are never
// attractors).
func applyAttractors(bodies []*Body, dt float64) {
	var attractors []*Body
	for _, b := range bodies {
		if b.IsAttractor {
			attractors = append(attractors, b)
		}
	}
	if len(attractors) == 0 {
		return
	}

	for _, target := range bodies {
		if target.class != BodyDynamic || target.sleepState == Sleeping {
			continue
		}
		for _, src := range attractors {
			if src == target {
				continue
			}
			delta := src.Position.Sub(target.Position)
			distSq := delta.LengthSq()
			if distSq < 1e-6 {
				continue
			}
			dist := math.Sqrt(distSq)
			forceMag := attractorConstant * src.Mass * target.Mass / distSq
			target.LinearVelocity = target.LinearVelocity.Add(delta.Scale(forceMag * target.InvMass / dist * dt))
		}
	}
}

// IntegrateVelocities advances every non-static, awake body's position and
// angle from its (already solved) velocity (spec §4.5 step 5). It does
// not clear the force/torque accumulators: with WorldConfig.Substeps > 1
// this runs once per substep, but spec §4.6 clears accumulators once per
// full step, after the last substep — see ClearAccumulators.
func IntegrateVelocities(bodies []*Body, dt float64) {
	for _, b := range bodies {
		if b.class == BodyStatic || b.sleepState == Sleeping {
			continue
		}
		b.Position = b.Position.Add(b.LinearVelocity.Scale(dt))
		b.Angle += b.AngularVelocity * dt
	}
}

// ClearAccumulators zeroes every body's accumulated force/torque. Called
// once per World.Step, after all substeps have run, so a persistently
// applied force (e.g. ApplyForce called once per full step) still acts on
// every substep rather than only the first (spec §4.6).
func ClearAccumulators(bodies []*Body) {
	for _, b := range bodies {
		b.clearAccumulators()
	}
}
