package phys2d

// solver.go: the sequential-impulse contact solver (spec §4.5). Grounded
// on the teacher's arbiter solving in cpArbiterPreStep/ApplyCachedImpulse/
// ApplyImpulse (constraint.go/space.go: per-contact normal+friction mass,
// "bias = -bounce ... Max(delta, 0) * biasCoef", penetration slop clamp)
// and cannon.js's Gauss-Seidel contact-equation treatment g3n-engine's
// physics package borrows the Jacobian/effective-mass shape from.

import "math"

// BodyLookup resolves a stable id to its live Body, the indirection the
// arena redesign (spec §9) routes every solver/constraint stage through
// instead of holding pointers directly.
type BodyLookup func(BodyID) *Body

// PresolveContacts computes the per-contact geometric terms (relative
// anchors, effective masses, restitution bias) that only depend on body
// state at the start of the step, once per manifold (spec §4.5 step 1).
func PresolveContacts(manifolds []ContactManifold, lookup BodyLookup, dt float64, cfg WorldConfig) {
	for mi := range manifolds {
		m := &manifolds[mi]
		a := lookup(m.BodyA)
		b := lookup(m.BodyB)
		if a == nil || b == nil {
			continue
		}
		for ci := range m.Contacts {
			c := &m.Contacts[ci]
			mid := c.PointA.Add(c.PointB).Scale(0.5)
			c.rA = mid.Sub(a.Position)
			c.rB = mid.Sub(b.Position)

			rnA := c.rA.Cross(c.Normal)
			rnB := c.rB.Cross(c.Normal)
			kNormal := a.InvMass + b.InvMass + a.InvInertia*rnA*rnA + b.InvInertia*rnB*rnB
			if kNormal > 1e-12 {
				c.normalMass = 1 / kNormal
			}

			rtA := c.rA.Cross(c.Tangent)
			rtB := c.rB.Cross(c.Tangent)
			kTangent := a.InvMass + b.InvMass + a.InvInertia*rtA*rtA + b.InvInertia*rtB*rtB
			if kTangent > 1e-12 {
				c.tangentMass = 1 / kTangent
			}

			c.baseSeparation = -c.Depth

			relVel := relativeVelocityAt(a, b, c.rA, c.rB)
			closingSpeed := -relVel.Dot(c.Normal)
			if closingSpeed > cfg.RestitutionVelocityThreshold {
				c.velocityBias = m.Restitution * closingSpeed
			} else {
				c.velocityBias = 0
			}
		}
	}
}

// WarmStartContacts reapplies the prior step's cached impulses (spec
// §4.4/§4.5 step 2), routed through the given ContactCache.
func WarmStartContacts(manifolds []ContactManifold, lookup BodyLookup, cache *ContactCache, enabled bool) {
	if !enabled {
		return
	}
	for mi := range manifolds {
		m := &manifolds[mi]
		cache.WarmStart(m)
		a := lookup(m.BodyA)
		b := lookup(m.BodyB)
		if a == nil || b == nil {
			continue
		}
		for ci := range m.Contacts {
			c := &m.Contacts[ci]
			impulse := c.Normal.Scale(c.AccumulatedNormalImpulse).Add(c.Tangent.Scale(c.AccumulatedTangentImpulse))
			applyJointImpulse(a, b, impulse, c.rA, c.rB)
		}
	}
}

// SolveVelocityContacts runs one Gauss-Seidel velocity-iteration pass
// over every manifold: normal impulse first (clamped >= 0, i.e. contacts
// only push), then Coulomb friction clamped to mu * accumulated normal
// impulse (spec §4.5 step 3).
func SolveVelocityContacts(manifolds []ContactManifold, lookup BodyLookup) {
	for mi := range manifolds {
		m := &manifolds[mi]
		a := lookup(m.BodyA)
		b := lookup(m.BodyB)
		if a == nil || b == nil {
			continue
		}
		for ci := range m.Contacts {
			c := &m.Contacts[ci]
			if c.normalMass <= 0 {
				continue
			}

			relVel := relativeVelocityAt(a, b, c.rA, c.rB)
			vn := relVel.Dot(c.Normal)
			lambda := c.normalMass * (-vn + c.velocityBias)

			newAccum := math.Max(c.AccumulatedNormalImpulse+lambda, 0)
			lambda = newAccum - c.AccumulatedNormalImpulse
			c.AccumulatedNormalImpulse = newAccum

			applyJointImpulse(a, b, c.Normal.Scale(lambda), c.rA, c.rB)
		}

		for ci := range m.Contacts {
			c := &m.Contacts[ci]
			if c.tangentMass <= 0 {
				continue
			}

			relVel := relativeVelocityAt(a, b, c.rA, c.rB)
			vt := relVel.Dot(c.Tangent)
			lambda := -c.tangentMass * vt

			maxFriction := m.Friction * c.AccumulatedNormalImpulse
			newAccum := clampf(c.AccumulatedTangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newAccum - c.AccumulatedTangentImpulse
			c.AccumulatedTangentImpulse = newAccum

			applyJointImpulse(a, b, c.Tangent.Scale(lambda), c.rA, c.rB)
		}
	}
}

// SolvePositionContacts runs one Non-linear-Gauss-Seidel position
// correction pass: recompute each contact's current separation from the
// bodies' (already moved) positions and nudge them apart directly,
// clamped by PenetrationSlop/CorrectionBias (spec §4.5 step 6). Returns
// the worst remaining penetration across all manifolds, letting the
// caller stop iterating early once it's within slop.
func SolvePositionContacts(manifolds []ContactManifold, lookup BodyLookup, cfg WorldConfig) float64 {
	worst := 0.0
	for mi := range manifolds {
		m := &manifolds[mi]
		a := lookup(m.BodyA)
		b := lookup(m.BodyB)
		if a == nil || b == nil {
			continue
		}
		for ci := range m.Contacts {
			c := &m.Contacts[ci]

			worldA := a.Position.Add(c.rA)
			worldB := b.Position.Add(c.rB)
			separation := c.baseSeparation + (worldB.Sub(worldA)).Dot(c.Normal)

			clamped := clampf(cfg.CorrectionBias*(separation+cfg.PenetrationSlop), -0.2, 0)
			if clamped >= 0 {
				continue
			}
			worst = math.Min(worst, separation)

			rnA := c.rA.Cross(c.Normal)
			rnB := c.rB.Cross(c.Normal)
			k := a.InvMass + b.InvMass + a.InvInertia*rnA*rnA + b.InvInertia*rnB*rnB
			if k < 1e-12 {
				continue
			}
			lambda := -clamped / k

			correction := c.Normal.Scale(lambda)
			a.Position = a.Position.Sub(correction.Scale(a.InvMass))
			b.Position = b.Position.Add(correction.Scale(b.InvMass))
			a.Angle -= a.InvInertia * rnA * lambda
			b.Angle += b.InvInertia * rnB * lambda
			a.rotation = RotationFromAngle(a.Angle)
			b.rotation = RotationFromAngle(b.Angle)
		}
	}
	return -worst
}

// StoreContacts writes every manifold's post-solve accumulated impulses
// back into the cache for next step's warm start (spec §4.5 step 7).
func StoreContacts(manifolds []ContactManifold, cache *ContactCache) {
	for mi := range manifolds {
		cache.Store(&manifolds[mi])
	}
}
