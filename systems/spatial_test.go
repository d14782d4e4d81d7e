package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

func nearbyEntities(h *SpatialHash, pos r3.Vec) map[ecs.Entity]bool {
	out := make(map[ecs.Entity]bool)
	for e := range h.Nearby(pos) {
		out[e.Entity] = true
	}
	return out
}

func TestSpatialHash_DefaultCellSize(t *testing.T) {
	if got := NewSpatialHash(0).CellSize(); got != DefaultCellSize {
		t.Errorf("cell size = %v, want %v", got, DefaultCellSize)
	}
	if got := NewSpatialHash(-5).CellSize(); got != DefaultCellSize {
		t.Errorf("cell size = %v, want %v", got, DefaultCellSize)
	}
}

func TestSpatialHash_Nearby(t *testing.T) {
	w := ecs.NewWorld()
	ents := make([]ecs.Entity, 5)
	for i := range ents {
		ents[i] = w.NewEntity()
	}

	h := NewSpatialHash(100)
	positions := []r3.Vec{
		{X: 50, Y: 50},     // cell (0,0)
		{X: 150, Y: 50},    // cell (1,0)
		{X: -50, Y: -50},   // cell (-1,-1)
		{X: 250, Y: 50},    // cell (2,0), two cells away
		{X: 1000, Y: 1000}, // far away
	}
	for i, p := range positions {
		h.Insert(SpatialEntry{Entity: ents[i], Position: p})
	}
	if h.Len() != len(positions) {
		t.Fatalf("len = %d, want %d", h.Len(), len(positions))
	}

	got := nearbyEntities(h, r3.Vec{X: 10, Y: 10})
	for i, want := range []bool{true, true, true, false, false} {
		if got[ents[i]] != want {
			t.Errorf("entity %d at %v: nearby = %v, want %v", i, positions[i], got[ents[i]], want)
		}
	}
}

func TestSpatialHash_DiagonalNeighbourIncluded(t *testing.T) {
	w := ecs.NewWorld()
	home, diagonal, beyond := w.NewEntity(), w.NewEntity(), w.NewEntity()

	h := NewSpatialHash(100)
	h.Insert(SpatialEntry{Entity: home, Position: r3.Vec{X: 5, Y: 5}})         // cell (0,0)
	h.Insert(SpatialEntry{Entity: diagonal, Position: r3.Vec{X: 150, Y: 150}}) // cell (1,1)
	h.Insert(SpatialEntry{Entity: beyond, Position: r3.Vec{X: 250, Y: 250}})   // cell (2,2)

	got := nearbyEntities(h, r3.Vec{X: 50, Y: 50})
	if !got[home] || !got[diagonal] {
		t.Errorf("query at (50,50) = %v, want both (0,0) and (1,1) entries", got)
	}
	if got[beyond] {
		t.Error("entry two cells away should not be yielded")
	}
}

func TestSpatialHash_NegativeCoordinatesFloor(t *testing.T) {
	w := ecs.NewWorld()
	e := w.NewEntity()

	h := NewSpatialHash(100)
	// -0.5 lies in cell -1, not cell 0
	h.Insert(SpatialEntry{Entity: e, Position: r3.Vec{X: -0.5, Y: 0}})

	if !nearbyEntities(h, r3.Vec{X: -150, Y: 0})[e] {
		t.Error("entry in cell -1 should be near cell -2")
	}
	if nearbyEntities(h, r3.Vec{X: 150, Y: 0})[e] {
		t.Error("entry in cell -1 should not be near cell 1")
	}
}

func TestSpatialHash_LargeShapeNotFoundFarAway(t *testing.T) {
	w := ecs.NewWorld()
	e := w.NewEntity()

	h := NewSpatialHash(100)
	// A huge collider is still bucketed by its center only
	h.Insert(SpatialEntry{Entity: e, Position: r3.Vec{}, Collider: circleAt(0, 0, 1000)})

	if nearbyEntities(h, r3.Vec{X: 500})[e] {
		t.Error("entries are only visible from the 3x3 block around their cell")
	}
}

func TestSpatialHash_Clear(t *testing.T) {
	w := ecs.NewWorld()
	e := w.NewEntity()

	h := NewSpatialHash(100)
	h.Insert(SpatialEntry{Entity: e, Position: r3.Vec{X: 10}})
	h.Clear()

	if h.Len() != 0 {
		t.Errorf("len after clear = %d, want 0", h.Len())
	}
	if len(nearbyEntities(h, r3.Vec{})) != 0 {
		t.Error("cleared hash still yields entries")
	}

	h.Insert(SpatialEntry{Entity: e, Position: r3.Vec{X: 10}})
	if !nearbyEntities(h, r3.Vec{})[e] {
		t.Error("hash unusable after clear")
	}
}

func TestSpatialHash_EarlyStop(t *testing.T) {
	w := ecs.NewWorld()
	h := NewSpatialHash(100)
	for range 10 {
		h.Insert(SpatialEntry{Entity: w.NewEntity(), Position: r3.Vec{X: 1}})
	}

	n := 0
	for range h.Nearby(r3.Vec{}) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("iterated %d entries, want 3", n)
	}
}
