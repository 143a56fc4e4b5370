package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/cytosoup/components"
)

// reactionFixture wires a store, grid, pool, and a single-rule reaction
// system for scenario tests. BindChance 1 makes binding deterministic.
type reactionFixture struct {
	store *ParticleStore
	grid  *HashGrid
	pool  *EnergyPool
	rs    *ReactionSystem
}

func newReactionFixture(capacity int32, rule components.ReactionRule) *reactionFixture {
	rng := rand.New(rand.NewSource(1))
	return &reactionFixture{
		store: NewParticleStore(capacity, rng),
		grid:  NewHashGrid(2.0),
		pool:  NewEnergyPool(10),
		rs:    NewReactionSystem([]components.ReactionRule{rule}, rng),
	}
}

func (f *reactionFixture) add(pos components.Vec3, kind components.Kind, radius float32) int32 {
	i := f.store.Insert(pos, kind, radius)
	f.store.Cell[i] = f.grid.Insert(i, pos)
	return i
}

func (f *reactionFixture) advance() ReactionEvents {
	return f.rs.Advance(f.store, f.grid, f.pool)
}

// TestPolymeraseTranscribes walks the full state machine: bind, dwell,
// product emission, release.
func TestPolymeraseTranscribes(t *testing.T) {
	f := newReactionFixture(8, components.ReactionRule{
		Enzyme:        components.KindPolymerase,
		Substrate:     components.KindDNA,
		Product:       components.KindMRNA,
		DwellTicks:    3,
		BindChance:    1,
		ProductRadius: 0.4,
	})
	f.add(components.Vec3{}, components.KindDNA, 0.5)
	poly := f.add(components.Vec3{X: 1.2}, components.KindPolymerase, 0.8)

	ev := f.advance()
	if ev.Binds != 1 {
		t.Fatalf("Binds after first tick = %v, want 1", ev.Binds)
	}
	if !f.store.Bind[poly].Bound() {
		t.Fatal("polymerase not bound after bind tick")
	}
	if f.store.Vel[poly] != (components.Vec3{}) {
		t.Errorf("bound enzyme velocity = %v, want zero", f.store.Vel[poly])
	}

	// Dwell ticks 1 and 2: no product yet.
	for i := 0; i < 2; i++ {
		ev = f.advance()
		if ev.Products[components.KindMRNA] != 0 {
			t.Fatalf("product emitted during dwell tick %d", i+1)
		}
	}

	ev = f.advance()
	if ev.Products[components.KindMRNA] != 1 {
		t.Fatalf("Products[mRNA] at dwell completion = %v, want 1", ev.Products[components.KindMRNA])
	}
	if ev.Releases != 1 {
		t.Errorf("Releases = %v, want 1", ev.Releases)
	}
	if f.store.Bind[poly].Bound() {
		t.Error("polymerase still bound after emission")
	}
	if f.store.Count() != 3 {
		t.Fatalf("Count() = %v, want 3", f.store.Count())
	}
	if f.store.Kind[2] != components.KindMRNA {
		t.Errorf("Kind[2] = %v, want mRNA", f.store.Kind[2])
	}
}

// TestEnergyGateBlocksBinding: a gated enzyme ignores adjacent substrates
// until the pool crosses the threshold.
func TestEnergyGateBlocksBinding(t *testing.T) {
	f := newReactionFixture(8, components.ReactionRule{
		Enzyme:        components.KindRibosome,
		Substrate:     components.KindMRNA,
		Product:       components.KindProtein,
		DwellTicks:    3,
		BindChance:    1,
		EnergyGate:    1,
		ProductRadius: 0.5,
	})
	f.add(components.Vec3{}, components.KindMRNA, 0.4)
	rib := f.add(components.Vec3{X: 1.2}, components.KindRibosome, 1.0)

	if ev := f.advance(); ev.Binds != 0 {
		t.Fatalf("Binds with empty pool = %v, want 0", ev.Binds)
	}
	if f.store.Bind[rib].Bound() {
		t.Fatal("gated ribosome bound with empty pool")
	}

	f.pool.Absorb(5)
	if ev := f.advance(); ev.Binds != 1 {
		t.Fatalf("Binds with energy available = %v, want 1", ev.Binds)
	}
}

// TestBoundEnzymeBurnsEnergy: BurnChance 1 forces one unit per bound tick.
func TestBoundEnzymeBurnsEnergy(t *testing.T) {
	f := newReactionFixture(8, components.ReactionRule{
		Enzyme:        components.KindRibosome,
		Substrate:     components.KindMRNA,
		Product:       components.KindProtein,
		DwellTicks:    2,
		BindChance:    1,
		EnergyGate:    1,
		BurnChance:    1,
		ProductRadius: 0.5,
	})
	f.add(components.Vec3{}, components.KindMRNA, 0.4)
	f.add(components.Vec3{X: 1.2}, components.KindRibosome, 1.0)
	f.pool.Absorb(5)

	var consumed float32
	var products int
	for i := 0; i < 3; i++ {
		ev := f.advance()
		consumed += ev.EnergyConsumed
		products += ev.Products[components.KindProtein]
	}

	if consumed != 2 {
		t.Errorf("energy consumed over dwell = %v, want 2", consumed)
	}
	if f.pool.Level() != 3 {
		t.Errorf("pool level = %v, want 3", f.pool.Level())
	}
	if products != 1 {
		t.Errorf("proteins emitted = %v, want 1", products)
	}
}

// TestFullStoreRejectsProduct: dwell completion at capacity drops the
// product but still releases the enzyme.
func TestFullStoreRejectsProduct(t *testing.T) {
	f := newReactionFixture(2, components.ReactionRule{
		Enzyme:        components.KindPolymerase,
		Substrate:     components.KindDNA,
		Product:       components.KindMRNA,
		DwellTicks:    1,
		BindChance:    1,
		ProductRadius: 0.4,
	})
	f.add(components.Vec3{}, components.KindDNA, 0.5)
	poly := f.add(components.Vec3{X: 1.2}, components.KindPolymerase, 0.8)

	f.advance() // bind
	ev := f.advance()

	if ev.InsertsRejected != 1 {
		t.Errorf("InsertsRejected = %v, want 1", ev.InsertsRejected)
	}
	if ev.Products[components.KindMRNA] != 0 {
		t.Errorf("Products[mRNA] = %v, want 0", ev.Products[components.KindMRNA])
	}
	if ev.Releases != 1 {
		t.Errorf("Releases = %v, want 1", ev.Releases)
	}
	if f.store.Bind[poly].Bound() {
		t.Error("enzyme still bound after rejected emission")
	}
	if f.store.Count() != 2 {
		t.Errorf("Count() = %v, want unchanged 2", f.store.Count())
	}
}

// TestNoSubstrateNoBind: an enzyme with nothing to bind stays idle.
func TestNoSubstrateNoBind(t *testing.T) {
	f := newReactionFixture(8, components.ReactionRule{
		Enzyme:        components.KindPolymerase,
		Substrate:     components.KindDNA,
		Product:       components.KindMRNA,
		DwellTicks:    3,
		BindChance:    1,
		ProductRadius: 0.4,
	})
	f.add(components.Vec3{}, components.KindWater, 0.25)
	f.add(components.Vec3{X: 1.2}, components.KindPolymerase, 0.8)

	if ev := f.advance(); ev.Binds != 0 {
		t.Errorf("Binds with no substrate = %v, want 0", ev.Binds)
	}
}

// TestZeroBindChanceNeverBinds: the probability check is exclusive at the
// bound, so chance 0 can never fire.
func TestZeroBindChanceNeverBinds(t *testing.T) {
	f := newReactionFixture(8, components.ReactionRule{
		Enzyme:        components.KindPolymerase,
		Substrate:     components.KindDNA,
		Product:       components.KindMRNA,
		DwellTicks:    3,
		BindChance:    0,
		ProductRadius: 0.4,
	})
	f.add(components.Vec3{}, components.KindDNA, 0.5)
	f.add(components.Vec3{X: 1.2}, components.KindPolymerase, 0.8)

	for i := 0; i < 20; i++ {
		if ev := f.advance(); ev.Binds != 0 {
			t.Fatalf("bound on tick %d with zero chance", i)
		}
	}
}
