// Package systems provides the simulation systems: particle storage, spatial
// indexing, constraint relaxation, confinement, collisions, and reactions.
package systems

import (
	"math/rand"

	"github.com/pthm-cable/cytosoup/components"
)

// NoIndex is the sentinel returned by Insert when the store is at capacity.
const NoIndex int32 = -1

// initialSpeed is the magnitude scale of the random velocity assigned to
// newly inserted particles.
const initialSpeed = 0.05

// ParticleStore is fixed-capacity columnar storage of particle attributes.
// Each attribute slice has length capacity; only indices < Count() are
// meaningful. Particles are appended by Insert and logically destroyed only
// by Truncate, so a live index is never reused.
type ParticleStore struct {
	capacity int32
	count    int32

	Pos    []components.Vec3
	Vel    []components.Vec3
	Radius []float32
	Kind   []components.Kind
	Cell   []CellKey            // last-known spatial cell, maintained by the grid resync pass
	Bind   []components.Binding // enzyme state; unused for non-enzyme kinds

	rng *rand.Rand
}

// NewParticleStore allocates a store for up to capacity particles.
// The RNG seeds initial velocities; inject a seeded source for
// deterministic runs.
func NewParticleStore(capacity int32, rng *rand.Rand) *ParticleStore {
	return &ParticleStore{
		capacity: capacity,
		Pos:      make([]components.Vec3, capacity),
		Vel:      make([]components.Vec3, capacity),
		Radius:   make([]float32, capacity),
		Kind:     make([]components.Kind, capacity),
		Cell:     make([]CellKey, capacity),
		Bind:     make([]components.Binding, capacity),
		rng:      rng,
	}
}

// Count returns the number of active particles.
func (s *ParticleStore) Count() int32 {
	return s.count
}

// Capacity returns the fixed particle capacity.
func (s *ParticleStore) Capacity() int32 {
	return s.capacity
}

// Insert appends a particle and returns its index, or NoIndex if the store
// is full. The new particle gets a small random initial velocity.
func (s *ParticleStore) Insert(pos components.Vec3, kind components.Kind, radius float32) int32 {
	if s.count >= s.capacity {
		return NoIndex
	}
	i := s.count
	s.Pos[i] = pos
	s.Vel[i] = components.Vec3{
		X: (s.rng.Float32() - 0.5) * initialSpeed,
		Y: (s.rng.Float32() - 0.5) * initialSpeed,
		Z: (s.rng.Float32() - 0.5) * initialSpeed,
	}
	s.Radius[i] = radius
	s.Kind[i] = kind
	s.Bind[i] = components.Binding{Target: components.NoTarget}
	s.count++
	return i
}

// Truncate discards all particles with index >= n. Callers own the cleanup
// of spatial-index and constraint entries referencing the truncated range;
// the Sim wrapper does both.
func (s *ParticleStore) Truncate(n int32) {
	if n < 0 {
		n = 0
	}
	if n < s.count {
		s.count = n
	}
}

// CountByKind tallies active particles per kind.
func (s *ParticleStore) CountByKind() [components.KindCount]int {
	var counts [components.KindCount]int
	for i := int32(0); i < s.count; i++ {
		counts[s.Kind[i]]++
	}
	return counts
}
