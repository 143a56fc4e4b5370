package systems

// EnergyPool is the shared chemical energy budget. One scalar, clamped to
// [0, max], refilled by absorption and drained by ribosome activity.
type EnergyPool struct {
	level float32
	max   float32
}

// NewEnergyPool creates a pool clamped to [0, max].
func NewEnergyPool(max float32) *EnergyPool {
	if max <= 0 {
		max = 1000
	}
	return &EnergyPool{max: max}
}

// Level returns the current energy.
func (p *EnergyPool) Level() float32 {
	return p.level
}

// Max returns the pool ceiling.
func (p *EnergyPool) Max() float32 {
	return p.max
}

// Absorb adds energy from external input, clamped to the ceiling.
// Returns the amount actually absorbed.
func (p *EnergyPool) Absorb(amount float32) float32 {
	if amount <= 0 {
		return 0
	}
	before := p.level
	p.level = clampf(p.level+amount, 0, p.max)
	return p.level - before
}

// Consume removes amount if available and reports success. Partial
// consumption does not happen; reactions take whole units or nothing.
func (p *EnergyPool) Consume(amount float32) bool {
	if amount < 0 || p.level < amount {
		return false
	}
	p.level -= amount
	return true
}
