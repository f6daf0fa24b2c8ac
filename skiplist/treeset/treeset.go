// Package treeset 以紅黑樹實作 skiplist.OrderedSet，作為效能比較的參考
package treeset

import (
	"cmp"
	"iter"

	godsset "github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Set 與 std::set 相同，重複插入同一個 key 只保留一份
type Set[K cmp.Ordered] struct {
	tree *godsset.Set
}

func comparator[K cmp.Ordered]() utils.Comparator {
	return func(a, b interface{}) int {
		return cmp.Compare(a.(K), b.(K))
	}
}

func New[K cmp.Ordered]() *Set[K] {
	return &Set[K]{tree: godsset.NewWith(comparator[K]())}
}

func (s *Set[K]) Insert(key K) {
	s.tree.Add(key)
}

func (s *Set[K]) Contains(key K) bool {
	return s.tree.Contains(key)
}

func (s *Set[K]) Erase(key K) bool {
	if !s.tree.Contains(key) {
		return false
	}
	s.tree.Remove(key)
	return true
}

func (s *Set[K]) Len() int { return s.tree.Size() }

func (s *Set[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		it := s.tree.Iterator()
		for it.Next() {
			if !yield(it.Value().(K)) {
				return
			}
		}
	}
}
