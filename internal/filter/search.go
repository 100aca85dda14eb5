package filter

import "sync"

// Search holds a record collection, the live query and the derived
// results. Results are recomputed synchronously on every change.
type Search[R Record] struct {
	mu      sync.RWMutex
	records []R
	query   string
	results []R
}

// NewSearch creates a search over the initial records with an empty query.
func NewSearch[R Record](records []R) *Search[R] {
	return &Search[R]{records: records, results: records}
}

// SetRecords replaces the source collection and re-filters.
func (s *Search[R]) SetRecords(records []R) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.results = Filter(records, s.query)
}

// SetQuery updates the query and re-filters.
func (s *Search[R]) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.results = Filter(s.records, query)
}

// Query returns the current query.
func (s *Search[R]) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Records returns the unfiltered collection.
func (s *Search[R]) Records() []R {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Results returns the records matching the current query.
func (s *Search[R]) Results() []R {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results
}

// NoResults reports whether a non-empty query matched nothing.
func (s *Search[R]) NoResults() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query != "" && len(s.results) == 0
}
