package skiplist

import (
	"cmp"
	"iter"
)

// OrderedSet 是 skip list 與參考用平衡樹共同的介面
type OrderedSet[K cmp.Ordered] interface {
	Insert(key K)
	Contains(key K) bool
	Erase(key K) bool
	Len() int
	All() iter.Seq[K]
}

// Analyable 提供分析功能的介面
type Analyable[K cmp.Ordered] interface {
	OrderedSet[K]
	GetHead() Nodelike[K]
	// GetMaxStats 獲取節點數和目前最高層級
	GetMaxStats() (nodes int, level int)
}

// Nodelike 讓 analyTool 不必知道節點的實作。
// level 為層數，節點存在於 0..GetLevel()-1 各層
type Nodelike[K cmp.Ordered] interface {
	GetKey() K
	GetBound() Bound
	GetLevel() int
	GetNextAt(level int) Nodelike[K]
}
