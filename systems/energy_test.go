package systems

import "testing"

func TestEnergyPoolAbsorb(t *testing.T) {
	tests := []struct {
		name         string
		max          float32
		start        float32
		amount       float32
		wantAbsorbed float32
		wantLevel    float32
	}{
		{"plain absorb", 10, 0, 3, 3, 3},
		{"clamped at ceiling", 10, 8, 5, 2, 10},
		{"already full", 10, 10, 1, 0, 10},
		{"zero amount", 10, 2, 0, 0, 2},
		{"negative amount ignored", 10, 2, -5, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewEnergyPool(tt.max)
			p.Absorb(tt.start)
			got := p.Absorb(tt.amount)
			if got != tt.wantAbsorbed {
				t.Errorf("Absorb(%v) = %v, want %v", tt.amount, got, tt.wantAbsorbed)
			}
			if p.Level() != tt.wantLevel {
				t.Errorf("Level() = %v, want %v", p.Level(), tt.wantLevel)
			}
		})
	}
}

// TestEnergyPoolConsume: consumption is all-or-nothing, never partial.
func TestEnergyPoolConsume(t *testing.T) {
	p := NewEnergyPool(10)
	p.Absorb(5)

	if !p.Consume(3) {
		t.Error("Consume(3) with level 5 = false, want true")
	}
	if p.Level() != 2 {
		t.Errorf("Level() = %v, want 2", p.Level())
	}
	if p.Consume(3) {
		t.Error("Consume(3) with level 2 = true, want false")
	}
	if p.Level() != 2 {
		t.Errorf("Level() after refused consume = %v, want unchanged 2", p.Level())
	}
	if p.Consume(-1) {
		t.Error("Consume(-1) = true, want false")
	}
}

func TestNewEnergyPoolDefaultCeiling(t *testing.T) {
	p := NewEnergyPool(0)
	if p.Max() != 1000 {
		t.Errorf("Max() = %v, want fallback 1000", p.Max())
	}
}
