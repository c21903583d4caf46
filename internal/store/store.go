package store

import (
	"sort"
	"sync"

	"pv_simulator/internal/model"
)

// Store holds generation results in memory, keyed by building name. Results
// are copied on read so callers can never mutate stored state.
type Store struct {
	mu      sync.RWMutex
	results map[string]model.GenerationResult
}

func New() *Store {
	return &Store{
		results: make(map[string]model.GenerationResult),
	}
}

// Put stores the result for its building, replacing any previous run.
func (s *Store) Put(res model.GenerationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[res.Building] = res
}

// Get returns a copy of the stored result for a building.
func (s *Store) Get(building string) (model.GenerationResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.results[building]
	if !ok {
		return model.GenerationResult{}, false
	}
	return copyResult(res), true
}

// Buildings returns the buildings with stored results, sorted by name.
func (s *Store) Buildings() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.results))
	for name := range s.results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func copyResult(res model.GenerationResult) model.GenerationResult {
	out := res
	out.PowerKW = append([]float64(nil), res.PowerKW...)
	if res.GroupPowerKW != nil {
		out.GroupPowerKW = make([][]float64, len(res.GroupPowerKW))
		for i, g := range res.GroupPowerKW {
			out.GroupPowerKW[i] = append([]float64(nil), g...)
		}
	}
	return out
}
