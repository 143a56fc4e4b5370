package systems

import (
	"errors"

	"github.com/pthm-cable/cytosoup/components"
)

// confineEpsilon is the inward bias applied when repositioning an escaped
// particle, so floating-point roundoff cannot re-trip the wall immediately.
const confineEpsilon = 1e-3

// Capsule confines particles to a cylinder with hemispherical caps. The
// central segment lies on the X axis, spanning [-length/2, length/2]; the
// radius is the perpendicular confinement distance. Length grows over the
// simulated cell cycle.
type Capsule struct {
	radius float32
	length float32
}

// NewCapsule creates a capsule boundary. The radius must be positive and
// the length non-negative; anything else is a caller bug reported as an
// error at construction.
func NewCapsule(radius, length float32) (*Capsule, error) {
	if radius <= 0 {
		return nil, errors.New("capsule: radius must be positive")
	}
	if length < 0 {
		return nil, errors.New("capsule: negative length")
	}
	return &Capsule{radius: radius, length: length}, nil
}

// Radius returns the confinement radius.
func (c *Capsule) Radius() float32 {
	return c.radius
}

// Length returns the current segment length.
func (c *Capsule) Length() float32 {
	return c.length
}

// SetLength updates the segment length; the external growth driver calls
// this as the cell cycle advances. Negative lengths are clamped to zero.
func (c *Capsule) SetLength(length float32) {
	if length < 0 {
		length = 0
	}
	c.length = length
}

// closest returns the nearest point on the central segment to pos.
func (c *Capsule) closest(pos components.Vec3) components.Vec3 {
	half := c.length / 2
	x := pos.X
	if x < -half {
		x = -half
	} else if x > half {
		x = half
	}
	return components.Vec3{X: x}
}

// AxisDistance returns the distance from pos to the central segment.
func (c *Capsule) AxisDistance(pos components.Vec3) float32 {
	return pos.Sub(c.closest(pos)).Length()
}

// Contains reports whether pos lies inside the capsule (within tol of the
// confinement radius).
func (c *Capsule) Contains(pos components.Vec3, tol float32) bool {
	offset := pos.Sub(c.closest(pos))
	return offset.Length() <= c.radius+tol
}

// Confine returns pos and vel corrected to lie inside the capsule. If the
// particle is outside, its velocity is reflected about the outward normal
// (only when moving outward) and it is repositioned just inside the wall.
func (c *Capsule) Confine(pos, vel components.Vec3) (components.Vec3, components.Vec3) {
	cl := c.closest(pos)
	offset := pos.Sub(cl)
	dist := offset.Length()
	if dist <= c.radius {
		return pos, vel
	}

	n := offset.Scale(1 / dist) // outward normal; dist > radius > 0
	if vn := vel.Dot(n); vn > 0 {
		vel = vel.Sub(n.Scale(2 * vn))
	}
	pos = cl.Add(n.Scale(c.radius - confineEpsilon))
	return pos, vel
}
