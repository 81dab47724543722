package geo

import (
	"sync"

	"buurtmarkt/internal/domain/entities"
)

// distanceRounding is the slack DistanceKm rounding adds to a radius check.
const distanceRounding = 0.1

// CellIndex maps record IDs to geohash cells so a radius query only has to
// look at the 3x3 block of cells around the reference point.
//
// It is a coarse filter: Near returns a superset of the records within the
// radius and never computes distances. The discovery pipeline applies the
// exact radius afterwards.
//
// Go Learning Note — sync.RWMutex:
// RWMutex lets many goroutines hold a read lock (RLock) at once while a
// write lock (Lock) is exclusive. Discovery queries read the index far more
// often than listings are added, so reads should not serialize each other.
type CellIndex struct {
	mu        sync.RWMutex
	precision int
	cells     map[string]map[string]struct{} // geohash -> set of IDs
	cellOf    map[string]string              // ID -> geohash
}

// NewCellIndex creates an empty index. precision <= 0 selects
// DefaultCellPrecision.
func NewCellIndex(precision int) *CellIndex {
	return &CellIndex{
		precision: clampPrecision(precision),
		cells:     make(map[string]map[string]struct{}),
		cellOf:    make(map[string]string),
	}
}

// Put records the position of id, moving it between cells when needed. A nil
// or invalid coordinate removes id from the index.
func (x *CellIndex) Put(id string, c *entities.Coordinate) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if c == nil || !c.Valid() {
		x.removeLocked(id)
		return
	}
	cell := Encode(*c, x.precision)
	if old, ok := x.cellOf[id]; ok {
		if old == cell {
			return
		}
		x.removeLocked(id)
	}
	ids, ok := x.cells[cell]
	if !ok {
		ids = make(map[string]struct{})
		x.cells[cell] = ids
	}
	ids[id] = struct{}{}
	x.cellOf[id] = cell
}

// Remove drops id from the index. Unknown IDs are ignored.
func (x *CellIndex) Remove(id string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.removeLocked(id)
}

func (x *CellIndex) removeLocked(id string) {
	cell, ok := x.cellOf[id]
	if !ok {
		return
	}
	delete(x.cellOf, id)
	if ids, ok := x.cells[cell]; ok {
		delete(ids, id)
		if len(ids) == 0 {
			delete(x.cells, cell) // Drop empty cells so the map does not grow forever.
		}
	}
}

// Near returns the IDs indexed in the 3x3 cell block around ref, in no
// particular order. ok is false when the block cannot be trusted to cover
// radiusKm (unlimited radius, a radius wider than a cell, or a reference too
// close to a pole); callers must then fall back to a full scan.
func (x *CellIndex) Near(ref entities.Coordinate, radiusKm float64) (ids []string, ok bool) {
	if radiusKm <= 0 || !ref.Valid() || radiusKm+distanceRounding >= BlockCoverageKm(x.precision, ref.Lat) {
		return nil, false
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	for _, cell := range Block(Encode(ref, x.precision)) {
		for id := range x.cells[cell] {
			ids = append(ids, id)
		}
	}
	return ids, true
}

// Len returns the number of indexed IDs.
func (x *CellIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.cellOf)
}
