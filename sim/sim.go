// Package sim owns the simulation context: the particle store, spatial
// index, solvers, reaction engine, and energy pool, advanced by a fixed
// timestep. One Sim is one independent simulation; nothing here is global,
// so multiple instances can run side by side.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/cytosoup/components"
	"github.com/pthm-cable/cytosoup/config"
	"github.com/pthm-cable/cytosoup/systems"
	"github.com/pthm-cable/cytosoup/telemetry"
)

// NoIndex mirrors the store sentinel for callers that only import sim.
const NoIndex = systems.NoIndex

// Options configures a new simulation.
type Options struct {
	Seed           int64
	StatsWindowSec float64        // 0 = use config value
	Cfg            *config.Config // nil = use the global config
}

// Sim is one owned simulation instance. All mutable state (particles, grid,
// energy pool) lives here; a Step is atomic from the caller's perspective.
type Sim struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed uint64

	store     *systems.ParticleStore
	grid      *systems.HashGrid
	relaxer   *systems.Relaxer
	capsule   *systems.Capsule
	resolver  *systems.Resolver
	reactions *systems.ReactionSystem
	pool      *systems.EnergyPool
	field     *systems.NutrientField

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	parallel  *parallelState

	tick      int64
	baseCount int32 // seeded particle count, the division baseline
}

// New creates a simulation from the loaded configuration. The seed drives
// every random decision (initial velocities, Brownian kicks, reaction
// probabilities), making runs reproducible.
func New(opts Options) (*Sim, error) {
	cfg := opts.Cfg
	if cfg == nil {
		cfg = config.Cfg()
	}

	capsule, err := systems.NewCapsule(float32(cfg.Capsule.Radius), float32(cfg.Capsule.InitialLength))
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	store := systems.NewParticleStore(cfg.Derived.Capacity, rng)

	s := &Sim{
		cfg:       cfg,
		rng:       rng,
		seed:      uint64(opts.Seed),
		store:     store,
		grid:      systems.NewHashGrid(float32(cfg.Physics.GridCellSize)),
		relaxer:   systems.NewRelaxer(cfg.Physics.RelaxIterations),
		capsule:   capsule,
		resolver:  systems.NewResolver(float32(cfg.Physics.Repulsion)),
		reactions: systems.NewReactionSystem(buildRules(cfg), rng),
		pool:      systems.NewEnergyPool(float32(cfg.Energy.Max)),
		field:     systems.NewNutrientField(opts.Seed, cfg.Field.Scale, cfg.Field.TimeSpeed),
		collector: telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		parallel:  newParallelState(),
	}
	return s, nil
}

// Tick returns the number of completed steps.
func (s *Sim) Tick() int64 {
	return s.tick
}

// Count returns the active particle count.
func (s *Sim) Count() int32 {
	return s.store.Count()
}

// EnergyLevel returns the current shared energy pool level.
func (s *Sim) EnergyLevel() float32 {
	return s.pool.Level()
}

// BoundaryLength returns the current capsule length.
func (s *Sim) BoundaryLength() float32 {
	return s.capsule.Length()
}

// KindCounts tallies active particles per kind.
func (s *Sim) KindCounts() [components.KindCount]int {
	return s.store.CountByKind()
}

// Perf exposes the phase-timing collector.
func (s *Sim) Perf() *telemetry.PerfCollector {
	return s.perf
}

// AddParticle inserts a particle and registers it with the spatial index.
// A non-positive radius is a caller bug and is rejected with an error.
// A full store is a runtime condition, not an error: the sentinel NoIndex
// is returned and the simulation continues without the particle.
func (s *Sim) AddParticle(pos components.Vec3, kind components.Kind, radius float32) (int32, error) {
	if radius <= 0 {
		return NoIndex, fmt.Errorf("sim: particle radius must be positive, got %v", radius)
	}
	idx := s.store.Insert(pos, kind, radius)
	if idx == NoIndex {
		s.collector.RecordRejectedInsert()
		return NoIndex, nil
	}
	s.store.Cell[idx] = s.grid.Insert(idx, pos)
	return idx, nil
}

// AddConstraint bonds two existing particles at the given rest length.
func (s *Sim) AddConstraint(a, b int32, restLength float32) error {
	n := s.store.Count()
	if a < 0 || a >= n || b < 0 || b >= n {
		return fmt.Errorf("sim: constraint references inactive particle (%d, %d), count %d", a, b, n)
	}
	return s.relaxer.Add(a, b, restLength)
}

// SetBoundaryLength sets the capsule length; the external growth driver
// calls this as the cell cycle advances.
func (s *Sim) SetBoundaryLength(length float32) {
	s.capsule.SetLength(length)
}

// Truncate discards all particles with index >= n: the division trigger.
// Grid membership for the truncated range is removed, constraints
// referencing it are dropped, and surviving enzymes bound to truncated
// substrates are released, so no stale reference outlives the reset.
func (s *Sim) Truncate(n int32) {
	if n < 0 {
		n = 0
	}
	count := s.store.Count()
	if n >= count {
		return
	}
	for i := n; i < count; i++ {
		s.grid.Remove(i, s.store.Cell[i])
	}
	s.relaxer.DropFrom(n)
	for i := int32(0); i < n; i++ {
		if s.store.Bind[i].Target >= n {
			s.store.Bind[i].Release()
		}
	}
	s.store.Truncate(n)
	s.collector.RecordDivision()
}

// Step advances the simulation by one fixed tick. Phase order is strict:
// integrate, relax constraints, confine, resync spatial index, resolve
// collisions, advance reactions, update the energy pool. No partial-step
// state is observable from outside.
func (s *Sim) Step() {
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseIntegrate)
	s.integrate()

	s.perf.StartPhase(telemetry.PhaseConstraint)
	s.relaxer.Relax(s.store)

	s.perf.StartPhase(telemetry.PhaseConfine)
	s.confine()

	s.perf.StartPhase(telemetry.PhaseSpatial)
	s.resyncGrid()

	s.perf.StartPhase(telemetry.PhaseCollision)
	s.collector.RecordCollisions(s.resolver.Resolve(s.store, s.grid))

	s.perf.StartPhase(telemetry.PhaseReactions)
	s.advanceReactions()

	s.perf.StartPhase(telemetry.PhaseEnergy)
	s.absorb()

	s.perf.EndTick()
	s.tick++
}

// resyncGrid updates each particle's cell after the position-writing
// phases. Runs single-threaded; the index must only be touched after all
// position writes for the tick are complete.
func (s *Sim) resyncGrid() {
	n := s.store.Count()
	for i := int32(0); i < n; i++ {
		s.store.Cell[i] = s.grid.Resync(i, s.store.Cell[i], s.store.Pos[i])
	}
}

// advanceReactions runs the enzyme state machines and registers any spawned
// products with the spatial index.
func (s *Sim) advanceReactions() {
	before := s.store.Count()
	ev := s.reactions.Advance(s.store, s.grid, s.pool)
	for i := before; i < s.store.Count(); i++ {
		s.store.Cell[i] = s.grid.Insert(i, s.store.Pos[i])
	}

	for i := 0; i < ev.Binds; i++ {
		s.collector.RecordBind()
	}
	for i := 0; i < ev.Releases; i++ {
		s.collector.RecordRelease()
	}
	for i := 0; i < ev.Products[components.KindMRNA]; i++ {
		s.collector.RecordTranscript()
	}
	for i := 0; i < ev.Products[components.KindProtein]; i++ {
		s.collector.RecordTranslation()
	}
	for i := 0; i < ev.InsertsRejected; i++ {
		s.collector.RecordRejectedInsert()
	}
	s.collector.RecordEnergyConsumed(float64(ev.EnergyConsumed))
}

// absorb advances the nutrient field and feeds the energy pool from the
// mean concentration at the membrane.
func (s *Sim) absorb() {
	dt := s.cfg.Physics.DT
	s.field.Advance(dt)
	conc := s.field.MeanAlongSurface(s.capsule, s.cfg.Field.SurfaceSamples)
	absorbed := s.pool.Absorb(conc * float32(s.cfg.Energy.AbsorbRate) * s.cfg.Derived.DT32)
	s.collector.RecordEnergyAbsorbed(float64(absorbed))
}

// StatsDue reports whether a telemetry window has elapsed.
func (s *Sim) StatsDue() bool {
	return s.collector.Due(s.tick)
}

// FlushWindowStats assembles the window's statistics and resets the window
// counters.
func (s *Sim) FlushWindowStats() telemetry.WindowStats {
	var stats telemetry.WindowStats
	s.collector.Flush(s.tick, &stats)

	counts := s.store.CountByKind()
	stats.Water = counts[components.KindWater]
	stats.Proteins = counts[components.KindProtein]
	stats.Lipids = counts[components.KindLipid]
	stats.DNASegments = counts[components.KindDNA]
	stats.MRNA = counts[components.KindMRNA]
	stats.Polymerases = counts[components.KindPolymerase]
	stats.Ribosomes = counts[components.KindRibosome]

	stats.EnergyLevel = float64(s.pool.Level())
	stats.CapsuleLength = float64(s.capsule.Length())
	stats.OccupiedCells = s.grid.CellCount()

	n := s.store.Count()
	radial := make([]float64, n)
	for i := int32(0); i < n; i++ {
		radial[i] = float64(s.capsule.AxisDistance(s.store.Pos[i]))
	}
	stats.RadialMean, stats.RadialStd, stats.RadialP50, stats.RadialP90 = telemetry.RadialStats(radial)

	return stats
}

// Close stops the internal worker pool.
func (s *Sim) Close() {
	s.parallel.stop()
}

// buildRules maps the reaction config onto the built-in rule table.
func buildRules(cfg *config.Config) []components.ReactionRule {
	rules := components.DefaultRules()
	for i := range rules {
		var ec config.EnzymeConfig
		switch rules[i].Enzyme {
		case components.KindPolymerase:
			ec = cfg.Reactions.Polymerase
		case components.KindRibosome:
			ec = cfg.Reactions.Ribosome
		default:
			continue
		}
		rules[i].DwellTicks = float32(ec.DwellTicks)
		rules[i].BindChance = float32(ec.BindChance)
		rules[i].EnergyGate = float32(ec.EnergyGate)
		rules[i].BurnChance = float32(ec.BurnChance)
		rules[i].ProductRadius = kindRadius[rules[i].Product]
	}
	return rules
}
