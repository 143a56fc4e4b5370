package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/cytosoup/components"
)

func TestRelaxerAddRejectsInvalid(t *testing.T) {
	r := NewRelaxer(3)

	if err := r.Add(0, 1, -1); err == nil {
		t.Error("Add with negative rest length: want error, got nil")
	}
	if err := r.Add(2, 2, 1); err == nil {
		t.Error("Add with identical endpoints: want error, got nil")
	}
	if err := r.Add(0, 1, 1); err != nil {
		t.Errorf("Add(0, 1, 1) = %v, want nil", err)
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %v, want 1", r.Count())
	}
}

// TestRelaxConverges drives a stretched pair toward its rest length and
// checks the error shrinks monotonically across calls.
func TestRelaxConverges(t *testing.T) {
	s := newTestStore(2)
	s.Insert(components.Vec3{}, components.KindDNA, 0.5)
	s.Insert(components.Vec3{X: 4}, components.KindDNA, 0.5)

	r := NewRelaxer(3)
	if err := r.Add(0, 1, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}

	dist := func() float32 { return s.Pos[1].Sub(s.Pos[0]).Length() }

	prevErr := float32(math.Abs(float64(dist() - 1)))
	for i := 0; i < 10; i++ {
		r.Relax(s)
		err := float32(math.Abs(float64(dist() - 1)))
		if err > prevErr {
			t.Fatalf("error grew on call %d: %v -> %v", i, prevErr, err)
		}
		prevErr = err
	}
	if prevErr > 0.01 {
		t.Errorf("separation after 10 calls = %v, want within 0.01 of rest length 1", dist())
	}

	// Corrections are symmetric, so the midpoint must not drift.
	mid := s.Pos[0].Add(s.Pos[1]).Scale(0.5)
	if math.Abs(float64(mid.X-2)) > 1e-3 {
		t.Errorf("midpoint X = %v, want 2", mid.X)
	}
}

// TestRelaxCoincidentEndpoints exercises the zero-separation guard: no NaN,
// no movement (a zero delta has no direction to correct along).
func TestRelaxCoincidentEndpoints(t *testing.T) {
	s := newTestStore(2)
	pos := components.Vec3{X: 1, Y: 1, Z: 1}
	s.Insert(pos, components.KindDNA, 0.5)
	s.Insert(pos, components.KindDNA, 0.5)

	r := NewRelaxer(3)
	if err := r.Add(0, 1, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	r.Relax(s)

	for i := int32(0); i < 2; i++ {
		p := s.Pos[i]
		if math.IsNaN(float64(p.X)) || math.IsNaN(float64(p.Y)) || math.IsNaN(float64(p.Z)) {
			t.Fatalf("Pos[%d] = %v, want finite", i, p)
		}
		if p != pos {
			t.Errorf("Pos[%d] = %v, want unchanged %v", i, p, pos)
		}
	}
}

func TestDropFrom(t *testing.T) {
	r := NewRelaxer(1)
	r.Add(0, 1, 1)
	r.Add(1, 2, 1)
	r.Add(2, 3, 1)
	r.Add(0, 3, 1)

	r.DropFrom(2)

	cs := r.Constraints()
	if len(cs) != 1 {
		t.Fatalf("Count() after DropFrom(2) = %v, want 1", len(cs))
	}
	if cs[0].A != 0 || cs[0].B != 1 {
		t.Errorf("surviving constraint = (%d, %d), want (0, 1)", cs[0].A, cs[0].B)
	}
}

// TestNewRelaxerClampsIterations: zero or negative iteration counts fall
// back to one pass instead of dividing by zero in the step size.
func TestNewRelaxerClampsIterations(t *testing.T) {
	s := newTestStore(2)
	s.Insert(components.Vec3{}, components.KindDNA, 0.5)
	s.Insert(components.Vec3{X: 2}, components.KindDNA, 0.5)

	r := NewRelaxer(0)
	r.Add(0, 1, 1)
	r.Relax(s)

	d := s.Pos[1].Sub(s.Pos[0]).Length()
	if math.IsNaN(float64(d)) || math.IsInf(float64(d), 0) {
		t.Fatalf("separation = %v, want finite", d)
	}
	if d >= 2 {
		t.Errorf("separation = %v, want < 2 after one pass", d)
	}
}
