package systems

import (
	"github.com/aquilax/go-perlin"

	"github.com/pthm-cable/cytosoup/components"
)

// NutrientField models the ambient nutrient concentration around the cell.
// It stands in for the external diffusion field at the interface the
// chemistry model needs: a concentration sample per point, drifting slowly
// over time. Absorption through the membrane feeds the energy pool.
type NutrientField struct {
	noise     *perlin.Perlin
	scale     float64
	timeSpeed float64
	time      float64
}

// NewNutrientField creates a Perlin-noise concentration field. Scale sets
// the spatial frequency; timeSpeed animates the field (0 = static).
func NewNutrientField(seed int64, scale, timeSpeed float64) *NutrientField {
	return &NutrientField{
		noise:     perlin.NewPerlin(2, 2, 3, seed),
		scale:     scale,
		timeSpeed: timeSpeed,
	}
}

// Advance moves the field forward by dt seconds.
func (f *NutrientField) Advance(dt float64) {
	f.time += dt * f.timeSpeed
}

// Sample returns the nutrient concentration at pos in [0, 1].
func (f *NutrientField) Sample(pos components.Vec3) float32 {
	v := f.noise.Noise3D(
		float64(pos.X)*f.scale,
		float64(pos.Y)*f.scale,
		float64(pos.Z)*f.scale+f.time,
	)
	// Noise3D is roughly [-1, 1]; fold into [0, 1].
	return clampf(float32(v)*0.5+0.5, 0, 1)
}

// MeanAlongSurface averages the concentration at sample points along the
// capsule wall. The mean drives whole-cell absorption; per-particle uptake
// is below the resolution this model cares about.
func (f *NutrientField) MeanAlongSurface(c *Capsule, samples int) float32 {
	if samples < 1 {
		samples = 1
	}
	half := c.Length() / 2
	var sum float32
	for i := 0; i < samples; i++ {
		t := float32(i) / float32(samples)
		x := -half + c.Length()*t
		sum += f.Sample(components.Vec3{X: x, Y: c.Radius()})
	}
	return sum / float32(samples)
}
