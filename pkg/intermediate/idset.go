package intermediate

import (
	"maps"
	"slices"
)

// IDSet is a set of entity ids.
type IDSet map[int64]struct{}

// NewIDSet creates a set from the given ids.
func NewIDSet(ids ...int64) IDSet {
	res := make(IDSet, len(ids))
	for _, id := range ids {
		res[id] = struct{}{}
	}
	return res
}

func (s IDSet) Add(id int64) {
	s[id] = struct{}{}
}

func (s IDSet) AddAll(o IDSet) {
	for id := range o {
		s[id] = struct{}{}
	}
}

func (s IDSet) Remove(id int64) {
	delete(s, id)
}

func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns ids in ascending order.
func (s IDSet) Sorted() []int64 {
	return slices.Sorted(maps.Keys(s))
}

func (s IDSet) Clone() IDSet {
	return maps.Clone(s)
}

// SubsetOf is true if every id of s is also in o.
func (s IDSet) SubsetOf(o IDSet) bool {
	if len(s) > len(o) {
		return false
	}
	for id := range s {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

func (s IDSet) Equal(o IDSet) bool {
	return len(s) == len(o) && s.SubsetOf(o)
}
