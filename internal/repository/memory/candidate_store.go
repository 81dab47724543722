package memory

import (
	"sort"
	"sync"

	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/geo"
	"buurtmarkt/internal/repository"
)

type record[T any] struct {
	value T
	seq   uint64
}

// candidateStore keeps listings or people in insertion order, with a
// geohash cell index over the located ones.
//
// Go Learning Note — Type Parameters:
// Listings and people are stored the same way; only how to get an ID and a
// coordinate differs. A generic store with two accessor funcs avoids writing
// the same map bookkeeping twice. The exported repositories wrap it with
// concrete types so callers never see the type parameter.
//
// Go Learning Note — Dual Index:
// records is the primary ID lookup; index and unlocated together cover every
// record for spatial queries. Both must be updated under the same lock.
type candidateStore[T any] struct {
	mu        sync.RWMutex
	seq       uint64
	records   map[string]record[T]
	unlocated map[string]struct{}
	index     *geo.CellIndex

	idOf    func(T) string
	coordOf func(T) *entities.Coordinate
}

func newCandidateStore[T any](idOf func(T) string, coordOf func(T) *entities.Coordinate) *candidateStore[T] {
	return &candidateStore[T]{
		records:   make(map[string]record[T]),
		unlocated: make(map[string]struct{}),
		index:     geo.NewCellIndex(geo.DefaultCellPrecision),
		idOf:      idOf,
		coordOf:   coordOf,
	}
}

func (s *candidateStore[T]) create(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.idOf(v)
	if _, exists := s.records[id]; exists {
		return repository.ErrAlreadyExists
	}
	s.seq++
	s.records[id] = record[T]{value: v, seq: s.seq}
	s.placeLocked(id, v)
	return nil
}

func (s *candidateStore[T]) get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[id]
	if !exists {
		var zero T
		return zero, repository.ErrNotFound
	}
	return rec.value, nil
}

// update replaces a record in place; it keeps its position in the order.
func (s *candidateStore[T]) update(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.idOf(v)
	rec, exists := s.records[id]
	if !exists {
		return repository.ErrNotFound
	}
	rec.value = v
	s.records[id] = rec
	s.placeLocked(id, v)
	return nil
}

func (s *candidateStore[T]) delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return repository.ErrNotFound
	}
	delete(s.records, id)
	delete(s.unlocated, id)
	s.index.Remove(id)
	return nil
}

func (s *candidateStore[T]) list() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]record[T], 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	return ordered(recs)
}

// nearby returns the located records in the cell block around ref plus all
// unlocated ones. Without a usable block it returns everything.
func (s *candidateStore[T]) nearby(ref entities.Coordinate, radiusKm float64) []T {
	ids, ok := s.index.Near(ref, radiusKm)
	if !ok {
		return s.list()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]record[T], 0, len(ids)+len(s.unlocated))
	for _, id := range ids {
		// The index is read before the lock is taken, so an ID may have
		// been deleted or lost its coordinate in between.
		if _, moved := s.unlocated[id]; moved {
			continue
		}
		if rec, exists := s.records[id]; exists {
			recs = append(recs, rec)
		}
	}
	for id := range s.unlocated {
		if rec, exists := s.records[id]; exists {
			recs = append(recs, rec)
		}
	}
	return ordered(recs)
}

func (s *candidateStore[T]) placeLocked(id string, v T) {
	c := s.coordOf(v)
	if c == nil || !c.Valid() {
		s.unlocated[id] = struct{}{}
		s.index.Remove(id)
		return
	}
	delete(s.unlocated, id)
	s.index.Put(id, c)
}

func ordered[T any](recs []record[T]) []T {
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	out := make([]T, len(recs))
	for i, rec := range recs {
		out[i] = rec.value
	}
	return out
}
