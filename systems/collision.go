package systems

// Resolver pushes overlapping particles apart: a positional correction
// splitting the overlap 50/50 plus a fixed-magnitude symmetric velocity
// impulse along the contact normal. Not momentum-conserving; the acting
// regime is overdamped viscous motion, not rigid-body mechanics.
type Resolver struct {
	repulsion float32
	scratch   []int32
}

// NewResolver creates a resolver with the given repulsion impulse magnitude.
func NewResolver(repulsion float32) *Resolver {
	return &Resolver{
		repulsion: repulsion,
		scratch:   make([]int32, 0, MaxQueryResults),
	}
}

// Resolve finds overlapping pairs through the grid and corrects them.
// A single pass does not guarantee full separation when three or more
// particles mutually overlap; residual overlap is picked up next tick.
// Returns the number of contacts corrected.
func (r *Resolver) Resolve(store *ParticleStore, grid *HashGrid) int {
	resolved := 0
	n := store.Count()
	for i := int32(0); i < n; i++ {
		r.scratch = grid.QueryInto(r.scratch[:0], store.Pos[i])
		for _, j := range r.scratch {
			if j == i {
				continue
			}
			delta := store.Pos[j].Sub(store.Pos[i])
			distSq := delta.LengthSq()
			sum := store.Radius[i] + store.Radius[j]
			if distSq >= sum*sum {
				continue
			}
			if distSq == 0 {
				// Coincident positions have no defined normal; skip as degenerate.
				continue
			}
			dist := fastSqrt(distSq)
			norm := delta.Scale(1 / dist)

			overlap := sum - dist
			corr := norm.Scale(overlap * 0.5)
			store.Pos[i] = store.Pos[i].Sub(corr)
			store.Pos[j] = store.Pos[j].Add(corr)

			imp := norm.Scale(r.repulsion)
			store.Vel[i] = store.Vel[i].Sub(imp)
			store.Vel[j] = store.Vel[j].Add(imp)
			resolved++
		}
	}
	return resolved
}
