package trexio

import "sort"

type sparse struct {
	index []int32
	value []float64
}

func (s *sparse) size() int64 {
	if s == nil {
		return 0
	}
	return int64(len(s.value))
}

// store holds the attributes of a File in memory. Backends serialize
// it group by group.
type store struct {
	ints   map[string]int64
	floats map[string]float64
	arrays map[string][]float64
	dims   map[string][]int
	sparse map[string]*sparse
}

func newStore() *store {
	return &store{
		ints:   make(map[string]int64),
		floats: make(map[string]float64),
		arrays: make(map[string][]float64),
		dims:   make(map[string][]int),
		sparse: make(map[string]*sparse),
	}
}

func (s *store) has(name string) bool {
	if _, ok := s.ints[name]; ok {
		return true
	}
	if _, ok := s.floats[name]; ok {
		return true
	}
	if _, ok := s.arrays[name]; ok {
		return true
	}
	_, ok := s.sparse[name]
	return ok
}

// members returns the attribute names of group present in s, sorted
// so that files are written deterministically
func (s *store) members(group string) (ints, floats, arrays []string) {
	for name, g := range groups {
		if g != group {
			continue
		}
		if _, ok := s.ints[name]; ok {
			ints = append(ints, name)
		}
		if _, ok := s.floats[name]; ok {
			floats = append(floats, name)
		}
		if _, ok := s.arrays[name]; ok {
			arrays = append(arrays, name)
		}
	}
	sort.Strings(ints)
	sort.Strings(floats)
	sort.Strings(arrays)
	return
}
