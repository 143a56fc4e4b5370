package systems

import (
	"testing"

	"github.com/pthm-cable/cytosoup/components"
)

func TestKey(t *testing.T) {
	g := NewHashGrid(2.0)

	tests := []struct {
		name string
		pos  components.Vec3
		want CellKey
	}{
		{"origin", components.Vec3{}, CellKey{0, 0, 0}},
		{"inside first cell", components.Vec3{X: 1.99, Y: 0.5, Z: 1.0}, CellKey{0, 0, 0}},
		{"on positive boundary", components.Vec3{X: 2.0}, CellKey{1, 0, 0}},
		{"negative rounds down", components.Vec3{X: -0.5}, CellKey{-1, 0, 0}},
		{"on negative boundary", components.Vec3{X: -2.0}, CellKey{-1, 0, 0}},
		{"far corner", components.Vec3{X: 7, Y: -7, Z: 7}, CellKey{3, -4, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Key(tt.pos); got != tt.want {
				t.Errorf("Key(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

// TestQueryIncludesSelf ensures a particle appears in a query centered on
// its own position; callers filter self-matches.
func TestQueryIncludesSelf(t *testing.T) {
	g := NewHashGrid(2.0)
	pos := components.Vec3{X: 1, Y: 1, Z: 1}
	g.Insert(7, pos)

	ids := g.QueryInto(nil, pos)
	if len(ids) != 1 || ids[0] != 7 {
		t.Errorf("QueryInto = %v, want [7]", ids)
	}
}

// TestQueryNeighborhood verifies the 27-cell reach: ids one cell away are
// found, ids further out are not.
func TestQueryNeighborhood(t *testing.T) {
	g := NewHashGrid(2.0)
	g.Insert(0, components.Vec3{})                // cell (0,0,0)
	g.Insert(1, components.Vec3{X: 3})            // cell (1,0,0), adjacent
	g.Insert(2, components.Vec3{X: -1, Y: -1})    // cell (-1,-1,0), adjacent
	g.Insert(3, components.Vec3{X: 10})           // cell (5,0,0), out of reach
	g.Insert(4, components.Vec3{Y: 5, Z: 5})      // cell (0,2,2), out of reach

	ids := g.QueryInto(nil, components.Vec3{})
	found := make(map[int32]bool, len(ids))
	for _, id := range ids {
		found[id] = true
	}

	for _, want := range []int32{0, 1, 2} {
		if !found[want] {
			t.Errorf("QueryInto missing adjacent id %d, got %v", want, ids)
		}
	}
	for _, reject := range []int32{3, 4} {
		if found[reject] {
			t.Errorf("QueryInto returned distant id %d, got %v", reject, ids)
		}
	}
}

// TestRemoveEvictsEmptyCells checks memory stays proportional to occupancy.
func TestRemoveEvictsEmptyCells(t *testing.T) {
	g := NewHashGrid(2.0)
	pos := components.Vec3{X: 1}
	key := g.Insert(0, pos)
	g.Insert(1, pos)

	g.Remove(0, key)
	if g.CellCount() != 1 {
		t.Errorf("CellCount() after partial removal = %v, want 1", g.CellCount())
	}
	g.Remove(1, key)
	if g.CellCount() != 0 {
		t.Errorf("CellCount() after full removal = %v, want 0", g.CellCount())
	}

	// Removing from a vacated cell must be harmless.
	g.Remove(1, key)
}

func TestResync(t *testing.T) {
	g := NewHashGrid(2.0)
	oldPos := components.Vec3{X: 1}
	newPos := components.Vec3{X: 9}
	key := g.Insert(0, oldPos)

	// Same cell: key unchanged, no churn.
	if got := g.Resync(0, key, components.Vec3{X: 1.5}); got != key {
		t.Errorf("Resync within cell = %v, want %v", got, key)
	}

	key = g.Resync(0, key, newPos)
	if want := g.Key(newPos); key != want {
		t.Errorf("Resync across cells = %v, want %v", key, want)
	}
	if ids := g.QueryInto(nil, newPos); len(ids) != 1 || ids[0] != 0 {
		t.Errorf("query at new position = %v, want [0]", ids)
	}
	if ids := g.QueryInto(nil, oldPos); len(ids) != 0 {
		t.Errorf("query at old position = %v, want empty", ids)
	}
}

// TestQueryCapped verifies the density guard: surrounding cells stop
// contributing once MaxQueryResults is reached.
func TestQueryCapped(t *testing.T) {
	g := NewHashGrid(2.0)
	center := components.Vec3{X: 1, Y: 1, Z: 1}
	neighbor := components.Vec3{X: 3, Y: 1, Z: 1}

	g.Insert(0, center)
	for i := int32(1); i <= MaxQueryResults*2; i++ {
		g.Insert(i, neighbor)
	}

	ids := g.QueryInto(nil, center)
	if len(ids) != MaxQueryResults {
		t.Errorf("len(QueryInto) = %v, want %v", len(ids), MaxQueryResults)
	}
	if ids[0] != 0 {
		t.Errorf("ids[0] = %v, want center-cell id 0 first", ids[0])
	}
}

// TestQuerySelfSurvivesCrowding: the querying particle's own id must appear
// even when the block holds more ids than the query cap, in whichever cell
// ordering the map produces.
func TestQuerySelfSurvivesCrowding(t *testing.T) {
	g := NewHashGrid(2.0)
	own := components.Vec3{X: 1, Y: 1, Z: 1}
	neighbor := components.Vec3{X: 3, Y: 1, Z: 1}

	for i := int32(0); i < MaxQueryResults*2; i++ {
		g.Insert(i, neighbor)
	}
	self := int32(MaxQueryResults * 2)
	g.Insert(self, own)

	ids := g.QueryInto(nil, own)
	found := false
	for _, id := range ids {
		if id == self {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("query at own position returned %d ids without self id %d", len(ids), self)
	}

	// The guarantee holds even when the particle's own cell is the
	// crowded one.
	last := int32(MaxQueryResults*2 + 1)
	g.Insert(last, neighbor)
	ids = g.QueryInto(nil, neighbor)
	found = false
	for _, id := range ids {
		if id == last {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("query inside crowded cell returned %d ids without self id %d", len(ids), last)
	}
}

// TestQueryReusesDst confirms append-into-dst semantics for allocation-free
// hot loops.
func TestQueryReusesDst(t *testing.T) {
	g := NewHashGrid(2.0)
	g.Insert(3, components.Vec3{})

	scratch := make([]int32, 0, MaxQueryResults)
	ids := g.QueryInto(scratch[:0], components.Vec3{})
	ids = g.QueryInto(ids[:0], components.Vec3{})
	if len(ids) != 1 || ids[0] != 3 {
		t.Errorf("QueryInto with reused dst = %v, want [3]", ids)
	}
}
