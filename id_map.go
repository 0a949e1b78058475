package replicator

import "github.com/google/btree"

const idMapDegree = 16

type idMapItem[V any] struct {
	id    StreamID
	value V
}

func idMapLess[V any](a, b idMapItem[V]) bool {
	return a.id.Less(b.id)
}

// IDMap is an ordered map keyed by StreamID. Iteration is always in ascending ID order regardless
// of insertion order. The zero value is not usable, create one with NewIDMap.
type IDMap[V any] struct {
	tree *btree.BTreeG[idMapItem[V]]
}

// NewIDMap returns an empty IDMap.
func NewIDMap[V any]() *IDMap[V] {
	return &IDMap[V]{tree: btree.NewG(idMapDegree, idMapLess[V])}
}

// Len returns the number of entries.
func (m *IDMap[V]) Len() int {
	return m.tree.Len()
}

// Put stores value under id and reports whether an existing value was replaced.
func (m *IDMap[V]) Put(id StreamID, value V) bool {
	_, replaced := m.tree.ReplaceOrInsert(idMapItem[V]{id: id, value: value})
	return replaced
}

// Get returns the value stored under id.
func (m *IDMap[V]) Get(id StreamID) (V, bool) {
	item, ok := m.tree.Get(idMapItem[V]{id: id})
	return item.value, ok
}

// Has reports whether id is present.
func (m *IDMap[V]) Has(id StreamID) bool {
	return m.tree.Has(idMapItem[V]{id: id})
}

// Delete removes id and returns the value it held.
func (m *IDMap[V]) Delete(id StreamID) (V, bool) {
	item, ok := m.tree.Delete(idMapItem[V]{id: id})
	return item.value, ok
}

// Min returns the lowest ID and its value.
func (m *IDMap[V]) Min() (StreamID, V, bool) {
	item, ok := m.tree.Min()
	return item.id, item.value, ok
}

// Max returns the highest ID and its value.
func (m *IDMap[V]) Max() (StreamID, V, bool) {
	item, ok := m.tree.Max()
	return item.id, item.value, ok
}

// Ascend calls fn for every entry in ascending ID order until fn returns false.
func (m *IDMap[V]) Ascend(fn func(id StreamID, value V) bool) {
	m.tree.Ascend(func(item idMapItem[V]) bool {
		return fn(item.id, item.value)
	})
}

// AscendRange calls fn in ascending order for every entry with from <= id <= to, until fn
// returns false.
func (m *IDMap[V]) AscendRange(from, to StreamID, fn func(id StreamID, value V) bool) {
	if to.Less(from) {
		return
	}
	m.tree.AscendGreaterOrEqual(idMapItem[V]{id: from}, func(item idMapItem[V]) bool {
		if to.Less(item.id) {
			return false
		}
		return fn(item.id, item.value)
	})
}

// Descend calls fn for every entry in descending ID order until fn returns false.
func (m *IDMap[V]) Descend(fn func(id StreamID, value V) bool) {
	m.tree.Descend(func(item idMapItem[V]) bool {
		return fn(item.id, item.value)
	})
}

// Keys returns every ID in ascending order.
func (m *IDMap[V]) Keys() []StreamID {
	keys := make([]StreamID, 0, m.tree.Len())
	m.tree.Ascend(func(item idMapItem[V]) bool {
		keys = append(keys, item.id)
		return true
	})
	return keys
}
