// Package btreeset 以 B-tree 實作 skiplist.OrderedSet，作為效能比較的參考
package btreeset

import (
	"cmp"
	"iter"

	"github.com/tidwall/btree"
)

type Set[K cmp.Ordered] struct {
	tree *btree.BTreeG[K]
}

func New[K cmp.Ordered]() *Set[K] {
	return &Set[K]{tree: btree.NewBTreeG(cmp.Less[K])}
}

func (s *Set[K]) Insert(key K) {
	s.tree.Set(key)
}

func (s *Set[K]) Contains(key K) bool {
	_, ok := s.tree.Get(key)
	return ok
}

func (s *Set[K]) Erase(key K) bool {
	_, ok := s.tree.Delete(key)
	return ok
}

func (s *Set[K]) Len() int { return s.tree.Len() }

func (s *Set[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		s.tree.Scan(yield)
	}
}
