package basic

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/Hakuto4838/skipset/skiplist"
	"github.com/Hakuto4838/skipset/skiplist/levelgen"
	"go.uber.org/zap"
)

// Node 為 skip list 的節點。forward 與節點一起配置，長度即為節點層數
type Node[K cmp.Ordered] struct {
	key     K
	bound   skiplist.Bound
	forward []*Node[K]
}

// List 是以 head/tail sentinel 包夾的 skip list，允許重複 key。
// 非 thread-safe
type List[K cmp.Ordered] struct {
	head     *Node[K]
	tail     *Node[K]
	level    int // 目前有實際節點的最高層數，至少為 1
	maxLevel int
	length   int
	gen      levelgen.Generator
	update   []*Node[K]
	log      *zap.Logger
}

func newNode[K cmp.Ordered](key K, bound skiplist.Bound, level int) *Node[K] {
	return &Node[K]{
		key:     key,
		bound:   bound,
		forward: make([]*Node[K], level),
	}
}

func New[K cmp.Ordered](opts ...Option) (*List[K], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.MaxLevel < 1 || o.MaxLevel > levelgen.LimitMaxLevel {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidMaxLevel, o.MaxLevel, levelgen.LimitMaxLevel)
	}
	if o.Generator == nil {
		return nil, ErrNilGenerator
	}

	var zero K
	head := newNode(zero, skiplist.NegInf, o.MaxLevel)
	tail := newNode(zero, skiplist.PosInf, o.MaxLevel)
	for i := range head.forward {
		head.forward[i] = tail
	}
	return &List[K]{
		head:     head,
		tail:     tail,
		level:    1,
		maxLevel: o.MaxLevel,
		gen:      o.Generator,
		update:   make([]*Node[K], o.MaxLevel),
		log:      o.Logger,
	}, nil
}

// MustNew 與 New 相同，但設定錯誤時 panic
func MustNew[K cmp.Ordered](opts ...Option) *List[K] {
	sl, err := New[K](opts...)
	if err != nil {
		panic(err)
	}
	return sl
}

// before 回傳 n 是否排在 key 之前
func (n *Node[K]) before(key K) bool {
	switch n.bound {
	case skiplist.NegInf:
		return true
	case skiplist.PosInf:
		return false
	}
	return cmp.Less(n.key, key)
}

func (n *Node[K]) matches(key K) bool {
	return n.bound == skiplist.Finite && cmp.Compare(n.key, key) == 0
}

func (sl *List[K]) randomLevel() int {
	lvl := sl.gen.Level(sl.level, sl.maxLevel)
	if lvl < 1 {
		return 1
	}
	if lvl > sl.maxLevel {
		return sl.maxLevel
	}
	return lvl
}

// Insert 新增一個節點，不合併重複的 key。
// 新節點會排在既有相同 key 的節點之前
func (sl *List[K]) Insert(key K) {
	lvl := sl.randomLevel()
	if lvl > sl.level {
		sl.log.Debug("skip list level raised", zap.Int("from", sl.level), zap.Int("to", lvl))
		sl.level = lvl
	}

	update := sl.update
	curr := sl.head
	for h := sl.level - 1; h >= 0; h-- {
		for curr.forward[h].before(key) {
			curr = curr.forward[h]
		}
		if h < lvl {
			update[h] = curr
		}
	}

	nd := newNode(key, skiplist.Finite, lvl)
	for h := 0; h < lvl; h++ {
		nd.forward[h] = update[h].forward[h]
		update[h].forward[h] = nd
	}
	clear(update[:lvl])
	sl.length++
}

// Find 回傳 level 0 順序中第一個 key 相等的節點，找不到時回傳 End()
func (sl *List[K]) Find(key K) *Node[K] {
	curr := sl.head
	for h := sl.level - 1; h >= 0; h-- {
		for curr.forward[h].before(key) {
			curr = curr.forward[h]
		}
	}
	curr = curr.forward[0]
	if curr.matches(key) {
		return curr
	}
	return sl.tail
}

func (sl *List[K]) Contains(key K) bool {
	return sl.Find(key) != sl.tail
}

// Erase 移除一個 key 相等的節點，key 不存在時不做任何事
func (sl *List[K]) Erase(key K) bool {
	update := sl.update
	curr := sl.head
	for h := sl.level - 1; h >= 0; h-- {
		for curr.forward[h].before(key) {
			curr = curr.forward[h]
		}
		update[h] = curr
	}
	defer clear(update[:sl.level])

	target := update[0].forward[0]
	if !target.matches(key) {
		return false
	}

	for h := 0; h < sl.level; h++ {
		if update[h].forward[h] != target {
			break
		}
		update[h].forward[h] = target.forward[h]
	}
	clear(target.forward)
	sl.length--
	sl.shrink()
	return true
}

// shrink 降低 level 直到最高層有實際節點
func (sl *List[K]) shrink() {
	from := sl.level
	for sl.level > 1 && sl.head.forward[sl.level-1] == sl.tail {
		sl.level--
	}
	if sl.level != from {
		sl.log.Debug("skip list level lowered", zap.Int("from", from), zap.Int("to", sl.level))
	}
}

// Clear 沿 level 0 拆除所有節點，list 回到剛建立時的狀態
func (sl *List[K]) Clear() {
	for nd := sl.head.forward[0]; nd != sl.tail; {
		next := nd.forward[0]
		clear(nd.forward)
		nd = next
	}
	for h := range sl.head.forward {
		sl.head.forward[h] = sl.tail
	}
	sl.level = 1
	sl.length = 0
}

// All 依遞增順序走訪 level 0。走訪期間不可修改 list
func (sl *List[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for nd := sl.head.forward[0]; nd != sl.tail; nd = nd.forward[0] {
			if !yield(nd.key) {
				return
			}
		}
	}
}

// Front 回傳第一個節點，空的 list 回傳 End()
func (sl *List[K]) Front() *Node[K] { return sl.head.forward[0] }

// End 回傳 tail sentinel，作為找不到或走訪結束的標記
func (sl *List[K]) End() *Node[K] { return sl.tail }

func (sl *List[K]) Len() int { return sl.length }

// Level 回傳目前的最高層數
func (sl *List[K]) Level() int { return sl.level }

func (sl *List[K]) MaxLevel() int { return sl.maxLevel }

func (sl *List[K]) GetHead() skiplist.Nodelike[K] {
	return sl.head
}

func (sl *List[K]) GetMaxStats() (int, int) {
	return sl.length, sl.level
}

func (nd *Node[K]) Key() K { return nd.key }

func (nd *Node[K]) Level() int { return len(nd.forward) }

// IsSentinel 回傳節點是否為 head 或 tail
func (nd *Node[K]) IsSentinel() bool { return nd.bound != skiplist.Finite }

// Next 回傳 level 0 的下一個節點；tail 或已移除的節點回傳 nil
func (nd *Node[K]) Next() *Node[K] {
	if len(nd.forward) == 0 {
		return nil
	}
	return nd.forward[0]
}

func (nd *Node[K]) GetKey() K {
	return nd.key
}

func (nd *Node[K]) GetBound() skiplist.Bound {
	return nd.bound
}

func (nd *Node[K]) GetLevel() int {
	return len(nd.forward)
}

func (nd *Node[K]) GetNextAt(level int) skiplist.Nodelike[K] {
	if level < 0 || level >= len(nd.forward) || nd.forward[level] == nil {
		return nil
	}
	return nd.forward[level]
}
