// Package store holds the process-wide (session-wide) mapping from
// Tacview id to Object, exclusively owned by one enrichment session and
// never mutated concurrently.
package store

import "github.com/rhino11/tacenrich/internal/track"

// Store maps Tacview tac_id to its Object. Insertion order is not
// preserved; the Store is never locked internally because the core
// processes one line to completion before starting the next, and
// ownership never crosses that boundary.
type Store struct {
	objects map[int64]*track.Object
}

// New returns an empty Store.
func New() *Store {
	return &Store{objects: make(map[int64]*track.Object)}
}

// Get returns the object for tacID, or nil if it has never been seen.
func (s *Store) Get(tacID int64) *track.Object {
	return s.objects[tacID]
}

// GetOrCreate returns the existing object for tacID, or inserts and
// returns a freshly created one via newFn (which is only invoked on a
// miss).
func (s *Store) GetOrCreate(tacID int64, newFn func() *track.Object) (obj *track.Object, created bool) {
	if existing, ok := s.objects[tacID]; ok {
		return existing, false
	}
	obj = newFn()
	s.objects[tacID] = obj
	return obj, true
}

// Values returns every object currently in the Store. Order is
// unspecified.
func (s *Store) Values() []*track.Object {
	out := make([]*track.Object, 0, len(s.objects))
	for _, o := range s.objects {
		out = append(out, o)
	}
	return out
}

// Len returns the number of distinct tac_ids ever observed this session.
func (s *Store) Len() int {
	return len(s.objects)
}
