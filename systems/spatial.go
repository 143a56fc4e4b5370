package systems

import (
	"math"

	"github.com/pthm-cable/cytosoup/components"
)

// CellKey identifies one cell of the hash grid: floor(pos / cellSize) per axis.
type CellKey struct {
	X, Y, Z int32
}

// MaxQueryResults bounds how many ids a neighbor query gathers from the
// surrounding cells, so density spikes cannot cause unbounded work. The
// querying particle's own cell is exempt from the cap.
const MaxQueryResults = 128

// HashGrid maps 3-D cells to the particle ids inside them. Unlike a
// fixed-extent flat grid, the map-keyed form covers an unbounded world,
// which the growing capsule requires. Empty cells are evicted so memory
// stays proportional to occupied space.
type HashGrid struct {
	cellSize float32
	cells    map[CellKey][]int32
}

// NewHashGrid creates a grid with the given cell size. The size should be
// tuned to roughly the largest common interaction radius.
func NewHashGrid(cellSize float32) *HashGrid {
	return &HashGrid{
		cellSize: cellSize,
		cells:    make(map[CellKey][]int32, 256),
	}
}

// CellSize returns the configured cell edge length.
func (g *HashGrid) CellSize() float32 {
	return g.cellSize
}

// Key returns the cell containing pos.
func (g *HashGrid) Key(pos components.Vec3) CellKey {
	return CellKey{
		X: int32(math.Floor(float64(pos.X / g.cellSize))),
		Y: int32(math.Floor(float64(pos.Y / g.cellSize))),
		Z: int32(math.Floor(float64(pos.Z / g.cellSize))),
	}
}

// Insert adds id to the cell at Key(pos) and returns that key for the
// caller to remember.
func (g *HashGrid) Insert(id int32, pos components.Vec3) CellKey {
	key := g.Key(pos)
	g.cells[key] = append(g.cells[key], id)
	return key
}

// Remove deletes id from the named cell. Emptied cells are evicted.
func (g *HashGrid) Remove(id int32, key CellKey) {
	ids, ok := g.cells[key]
	if !ok {
		return
	}
	for i, v := range ids {
		if v == id {
			ids[i] = ids[len(ids)-1]
			ids = ids[:len(ids)-1]
			break
		}
	}
	if len(ids) == 0 {
		delete(g.cells, key)
	} else {
		g.cells[key] = ids
	}
}

// Resync moves id from oldKey to the cell containing pos if they differ,
// returning the current key. Lazy per-particle resync keeps amortized cost
// near O(1) per moved particle.
func (g *HashGrid) Resync(id int32, oldKey CellKey, pos components.Vec3) CellKey {
	key := g.Key(pos)
	if key == oldKey {
		return oldKey
	}
	g.Remove(id, oldKey)
	g.cells[key] = append(g.cells[key], id)
	return key
}

// QueryInto appends the ids in the 27 cells centered on Key(pos) to dst and
// returns the updated slice. The center cell is always appended in full, so
// a particle querying at its own position sees its own id no matter how
// crowded the block is; MaxQueryResults caps only the surrounding-cell
// contribution. Callers exclude self-matches explicitly. Reuse dst across
// calls to avoid allocations.
func (g *HashGrid) QueryInto(dst []int32, pos components.Vec3) []int32 {
	center := g.Key(pos)
	dst = append(dst, g.cells[center]...)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				key := CellKey{center.X + dx, center.Y + dy, center.Z + dz}
				for _, id := range g.cells[key] {
					dst = append(dst, id)
					if len(dst) >= MaxQueryResults {
						return dst
					}
				}
			}
		}
	}
	return dst
}

// CellCount returns the number of occupied cells.
func (g *HashGrid) CellCount() int {
	return len(g.cells)
}
