package systems

import (
	"math/rand"

	"github.com/pthm-cable/cytosoup/components"
)

// ReactionEvents tallies what one Advance pass did, for telemetry.
type ReactionEvents struct {
	Binds           int
	Releases        int
	Products        [components.KindCount]int
	EnergyConsumed  float32
	InsertsRejected int
}

// ReactionSystem advances the per-enzyme state machines. Each enzyme kind is
// described by one ReactionRule; the engine itself has no per-species
// branches. Binding is opportunistic and lossy: a probability check per
// tick, capturing stochastic kinetics without rate equations.
type ReactionSystem struct {
	rules   [components.KindCount]*components.ReactionRule
	rng     *rand.Rand
	scratch []int32
}

// NewReactionSystem builds a system from a rule table. The RNG drives all
// binding and consumption decisions; inject a seeded source for
// deterministic scenarios.
func NewReactionSystem(rules []components.ReactionRule, rng *rand.Rand) *ReactionSystem {
	rs := &ReactionSystem{
		rng:     rng,
		scratch: make([]int32, 0, MaxQueryResults),
	}
	for i := range rules {
		r := rules[i]
		rs.rules[r.Enzyme] = &r
	}
	return rs
}

// Advance runs one tick of every enzyme's state machine. Products inserted
// this tick are not themselves processed until the next tick (the active
// count is captured before iteration).
func (rs *ReactionSystem) Advance(store *ParticleStore, grid *HashGrid, pool *EnergyPool) ReactionEvents {
	var ev ReactionEvents
	n := store.Count()
	for i := int32(0); i < n; i++ {
		rule := rs.rules[store.Kind[i]]
		if rule == nil {
			continue
		}
		if store.Bind[i].Bound() {
			rs.advanceBound(store, pool, i, rule, &ev)
		} else {
			rs.tryBind(store, grid, pool, i, rule, &ev)
		}
	}
	return ev
}

// tryBind searches the neighborhood for a substrate and binds with the
// rule's per-tick probability. The energy gate is checked before searching;
// a gated enzyme stays Unbound regardless of nearby substrates.
func (rs *ReactionSystem) tryBind(store *ParticleStore, grid *HashGrid, pool *EnergyPool, i int32, rule *components.ReactionRule, ev *ReactionEvents) {
	if pool.Level() < rule.EnergyGate {
		return
	}

	rs.scratch = grid.QueryInto(rs.scratch[:0], store.Pos[i])
	target := components.NoTarget
	for _, j := range rs.scratch {
		if j != i && store.Kind[j] == rule.Substrate {
			target = j
			break
		}
	}
	if target == components.NoTarget {
		return
	}
	if rs.rng.Float32() >= rule.BindChance {
		return
	}

	store.Bind[i] = components.Binding{Target: target}
	store.Vel[i] = components.Vec3{}
	rs.snapToSubstrate(store, i, target)
	ev.Binds++
}

// advanceBound tracks the substrate, accumulates dwell, burns energy, and
// emits the product once the dwell threshold is reached.
func (rs *ReactionSystem) advanceBound(store *ParticleStore, pool *EnergyPool, i int32, rule *components.ReactionRule, ev *ReactionEvents) {
	bind := &store.Bind[i]
	rs.snapToSubstrate(store, i, bind.Target)
	bind.Dwell++

	if rule.BurnChance > 0 && rs.rng.Float32() < rule.BurnChance {
		if pool.Consume(1) {
			ev.EnergyConsumed++
		}
	}

	if bind.Dwell < rule.DwellTicks {
		return
	}

	// Dwell complete: emit the product adjacent to the enzyme. A full store
	// is non-fatal; the enzyme releases either way.
	spawn := store.Pos[i].Add(components.Vec3{X: store.Radius[i] + rule.ProductRadius})
	if store.Insert(spawn, rule.Product, rule.ProductRadius) == NoIndex {
		ev.InsertsRejected++
	} else {
		ev.Products[rule.Product]++
	}
	bind.Release()
	ev.Releases++
}

// snapToSubstrate repositions the enzyme adjacent to its (possibly moving)
// substrate, touching along the current separation direction.
func (rs *ReactionSystem) snapToSubstrate(store *ParticleStore, i, t int32) {
	dir := store.Pos[i].Sub(store.Pos[t])
	if dir.LengthSq() == 0 {
		dir = components.Vec3{X: 1}
	} else {
		dir = dir.Normalized()
	}
	contact := store.Radius[i] + store.Radius[t]
	store.Pos[i] = store.Pos[t].Add(dir.Scale(contact))
}
