// Package systems provides ECS systems for the game.
package systems

import (
	"iter"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultCellSize is the spatial hash cell edge in world units.
const DefaultCellSize = 100.0

// SpatialEntry is one collider registered in the spatial hash.
type SpatialEntry struct {
	Entity   ecs.Entity
	Position r3.Vec
	Collider AbsoluteCollider
}

type cell struct {
	X, Y int
}

// SpatialHash buckets entries into an unbounded grid of square cells.
// It is rebuilt every tick; queries return entries from the 3x3 cells around a point.
type SpatialHash struct {
	cellSize float64
	cells    map[cell][]SpatialEntry
	count    int
}

// NewSpatialHash creates an empty hash. Non-positive sizes fall back to DefaultCellSize.
func NewSpatialHash(cellSize float64) *SpatialHash {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &SpatialHash{
		cellSize: cellSize,
		cells:    make(map[cell][]SpatialEntry),
	}
}

// CellSize returns the cell edge length.
func (h *SpatialHash) CellSize() float64 { return h.cellSize }

// Clear removes all entries. Bucket storage is kept for the next tick;
// buckets that were already empty are dropped.
func (h *SpatialHash) Clear() {
	for k, bucket := range h.cells {
		if len(bucket) == 0 {
			delete(h.cells, k)
			continue
		}
		h.cells[k] = bucket[:0]
	}
	h.count = 0
}

// Insert adds an entry to the cell containing its position.
func (h *SpatialHash) Insert(e SpatialEntry) {
	k := h.cellOf(e.Position)
	h.cells[k] = append(h.cells[k], e)
	h.count++
}

// Len returns the number of entries inserted since the last Clear.
func (h *SpatialHash) Len() int { return h.count }

// Nearby yields every entry in the 3x3 block of cells around pos.
// Entries further than one cell away are never yielded, whatever their size.
func (h *SpatialHash) Nearby(pos r3.Vec) iter.Seq[SpatialEntry] {
	center := h.cellOf(pos)
	return func(yield func(SpatialEntry) bool) {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, e := range h.cells[cell{center.X + dx, center.Y + dy}] {
					if !yield(e) {
						return
					}
				}
			}
		}
	}
}

func (h *SpatialHash) cellOf(p r3.Vec) cell {
	return cell{
		X: int(math.Floor(p.X / h.cellSize)),
		Y: int(math.Floor(p.Y / h.cellSize)),
	}
}
