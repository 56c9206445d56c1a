package phys2d

// contactcache.go: persistent warm-start cache across steps (spec §4.4).
// Grounded on the teacher's cpSpaceProcessComponents-adjacent arbiter
// cache in space.go ("cachedArbiters", arbiter persistence keyed by shape
// pair hash) and spec §4.4's explicit contactKey tuple and LRU-by-stamp
// pruning rule.

// cachedImpulse is what survives between steps for one contact feature:
// the accumulated impulses from the last time this feature was solved,
// plus the step stamp it was last touched at.
type cachedImpulse struct {
	normal, tangent float64
	stamp           uint64
}

// ContactCache persists accumulated impulses across steps, keyed by the
// stable (body, shape, feature) tuple described in spec §4.4, so the
// solver can warm-start instead of resolving every contact from zero
// impulse every step.
type ContactCache struct {
	entries map[contactKey]cachedImpulse
	stamp   uint64
}

func NewContactCache() *ContactCache {
	return &ContactCache{entries: make(map[contactKey]cachedImpulse)}
}

// Tick advances the cache's step stamp; call once per World.Step before
// WarmStart/Store for that step.
func (c *ContactCache) Tick() { c.stamp++ }

// WarmStart looks up a manifold's contacts in the cache and, for each hit,
// seeds AccumulatedNormalImpulse/AccumulatedTangentImpulse from the prior
// step (spec §4.4: "On a cache hit, seed the new contact's accumulated
// impulse from the old one before the velocity iterations run").
func (c *ContactCache) WarmStart(m *ContactManifold) {
	for i := range m.Contacts {
		ct := &m.Contacts[i]
		if cached, ok := c.entries[m.keyFor(ct)]; ok {
			ct.AccumulatedNormalImpulse = cached.normal
			ct.AccumulatedTangentImpulse = cached.tangent
		}
	}
}

// Store writes back the post-solve accumulated impulses for every contact
// in m, stamped with the cache's current step.
func (c *ContactCache) Store(m *ContactManifold) {
	for i := range m.Contacts {
		ct := &m.Contacts[i]
		c.entries[m.keyFor(ct)] = cachedImpulse{
			normal:  ct.AccumulatedNormalImpulse,
			tangent: ct.AccumulatedTangentImpulse,
			stamp:   c.stamp,
		}
	}
}

// Prune evicts every entry not touched within the last maxAge steps (spec
// §4.4: "entries untouched for N steps are evicted, LRU-by-stamp"), so a
// shape pair that separates and never comes back doesn't leak memory.
func (c *ContactCache) Prune(maxAge uint64) {
	if c.stamp < maxAge {
		return
	}
	cutoff := c.stamp - maxAge
	for k, v := range c.entries {
		if v.stamp < cutoff {
			delete(c.entries, k)
		}
	}
}

func (c *ContactCache) Len() int { return len(c.entries) }
