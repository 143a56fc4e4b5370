package sim

import "github.com/pthm-cable/cytosoup/components"

// ParticleView is the read-only per-particle state exposed to external
// collaborators (renderers, inspectors).
type ParticleView struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Z      float32 `json:"z"`
	Radius float32 `json:"r"`
	Kind   uint8   `json:"kind"`
}

// Snapshot is a consistent copy of the observable simulation state, taken
// between steps. External consumers never see partial-step state.
type Snapshot struct {
	Tick          int64          `json:"tick"`
	Count         int            `json:"count"`
	Energy        float64        `json:"energy"`
	CapsuleRadius float32        `json:"capsule_radius"`
	CapsuleLength float32        `json:"capsule_length"`
	KindCounts    map[string]int `json:"kind_counts"`
	Particles     []ParticleView `json:"particles,omitempty"`
}

// Snapshot copies the observable state. Set particles to include the full
// per-particle arrays (positions, radii, kinds); leave it false for light
// instrumentation snapshots.
func (s *Sim) Snapshot(particles bool) Snapshot {
	counts := s.store.CountByKind()
	kindCounts := make(map[string]int, components.KindCount)
	for k, n := range counts {
		kindCounts[components.Kind(k).String()] = n
	}

	snap := Snapshot{
		Tick:          s.tick,
		Count:         int(s.store.Count()),
		Energy:        float64(s.pool.Level()),
		CapsuleRadius: s.capsule.Radius(),
		CapsuleLength: s.capsule.Length(),
		KindCounts:    kindCounts,
	}

	if particles {
		n := s.store.Count()
		snap.Particles = make([]ParticleView, n)
		for i := int32(0); i < n; i++ {
			pos := s.store.Pos[i]
			snap.Particles[i] = ParticleView{
				X:      pos.X,
				Y:      pos.Y,
				Z:      pos.Z,
				Radius: s.store.Radius[i],
				Kind:   uint8(s.store.Kind[i]),
			}
		}
	}
	return snap
}
