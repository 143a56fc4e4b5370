package sim

import (
	"math"

	"github.com/pthm-cable/cytosoup/components"
)

// kindRadius is the default particle radius per kind, in world units.
var kindRadius = [components.KindCount]float32{
	components.KindWater:      0.25,
	components.KindProtein:    0.5,
	components.KindLipid:      0.35,
	components.KindDNA:        0.5,
	components.KindMRNA:       0.4,
	components.KindPolymerase: 0.8,
	components.KindRibosome:   1.0,
}

// SeedCell populates an empty simulation with the configured initial
// contents: the chromosome chain along the axis, enzymes, lipids, and the
// crowding water background. The count after seeding is remembered as the
// division baseline.
func (s *Sim) SeedCell() error {
	seed := s.cfg.Seed
	bond := float32(seed.BondLength)

	// Chromosome: DNA segments chained by rest-length bonds, laid out along
	// the capsule axis centered at the origin.
	span := bond * float32(seed.DNASegments-1)
	prev := NoIndex
	for i := 0; i < seed.DNASegments; i++ {
		pos := components.Vec3{X: -span/2 + bond*float32(i)}
		idx, err := s.AddParticle(pos, components.KindDNA, kindRadius[components.KindDNA])
		if err != nil {
			return err
		}
		if idx == NoIndex {
			break
		}
		if prev != NoIndex {
			if err := s.AddConstraint(prev, idx, bond); err != nil {
				return err
			}
		}
		prev = idx
	}

	if err := s.scatter(components.KindPolymerase, seed.Polymerases); err != nil {
		return err
	}
	if err := s.scatter(components.KindRibosome, seed.Ribosomes); err != nil {
		return err
	}
	if err := s.scatter(components.KindLipid, seed.Lipids); err != nil {
		return err
	}
	if err := s.scatter(components.KindWater, seed.Water); err != nil {
		return err
	}

	s.baseCount = s.store.Count()
	return nil
}

// scatter inserts n particles of the given kind at random positions inside
// the capsule's cylindrical section.
func (s *Sim) scatter(kind components.Kind, n int) error {
	radius := kindRadius[kind]
	for i := 0; i < n; i++ {
		idx, err := s.AddParticle(s.randomInside(radius), kind, radius)
		if err != nil {
			return err
		}
		if idx == NoIndex {
			break
		}
	}
	return nil
}

// randomInside samples a position inside the cylinder, keeping a particle
// of radius pr clear of the wall.
func (s *Sim) randomInside(pr float32) components.Vec3 {
	half := s.capsule.Length() / 2
	maxR := s.capsule.Radius() - pr
	if maxR < 0 {
		maxR = 0
	}
	x := (s.rng.Float32()*2 - 1) * half
	// sqrt for uniform area density over the disc
	r := maxR * float32(math.Sqrt(float64(s.rng.Float32())))
	theta := s.rng.Float64() * 2 * math.Pi
	return components.Vec3{
		X: x,
		Y: r * float32(math.Cos(theta)),
		Z: r * float32(math.Sin(theta)),
	}
}

// Divide resets the simulation to its seeded baseline: everything produced
// since seeding is truncated away and the capsule shrinks back to its
// initial length. This is the whole-chromosome reset, not a per-particle
// removal.
func (s *Sim) Divide() {
	s.Truncate(s.baseCount)
	s.capsule.SetLength(float32(s.cfg.Capsule.InitialLength))
}
