package datastream

import (
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/roaring64"
)

// OperationType 表示操作種類
type OperationType uint8

const (
	OpQuery OperationType = iota
	OpInsert
	OpDelete
)

func (t OperationType) String() string {
	switch t {
	case OpQuery:
		return "Query"
	case OpInsert:
		return "Insert"
	case OpDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// Operation 表示一筆操作
type Operation struct {
	Type OperationType
	Key  int64
}

// Workload 為一份完整的測試資料：key 的出現機率與操作序列。
// 前 Setup 筆操作為建置階段，重播時不計時
type Workload struct {
	Dist  map[int64]float64
	Ops   []Operation
	Setup int
}

// Timed 回傳需要計時的操作
func (wl *Workload) Timed() []Operation {
	return wl.Ops[min(max(wl.Setup, 0), len(wl.Ops)):]
}

// Keys 回傳依遞增排序的所有 key
func (wl *Workload) Keys() []int64 {
	keys := make([]int64, 0, len(wl.Dist))
	for k := range wl.Dist {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Entropy 計算分布的熵（單位：bit），忽略 <= 0 的值
func (wl *Workload) Entropy() float64 {
	return EntropyFromDist(wl.Dist)
}

func EntropyFromDist(dist map[int64]float64) float64 {
	h := 0.0
	for _, p := range dist {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

// Count 回傳各種操作的數量
func (wl *Workload) Count() (query, insert, del int) {
	for _, op := range wl.Ops {
		switch op.Type {
		case OpQuery:
			query++
		case OpInsert:
			insert++
		case OpDelete:
			del++
		}
	}
	return
}

// LiveKey 將 int64 key 轉成保持大小順序的 uint64（翻轉 sign bit）
func LiveKey(k int64) uint64 { return uint64(k) ^ (1 << 63) }

// KeyOf 為 LiveKey 的反函數
func KeyOf(v uint64) int64 { return int64(v ^ (1 << 63)) }

// Live 重播操作序列，回傳結束時仍存在的 key（以 LiveKey 編碼）
func (wl *Workload) Live() *roaring64.Bitmap {
	live := roaring64.New()
	for _, op := range wl.Ops {
		switch op.Type {
		case OpInsert:
			live.Add(LiveKey(op.Key))
		case OpDelete:
			live.Remove(LiveKey(op.Key))
		}
	}
	return live
}

// LiveKeys 回傳結束時仍存在的 key，依遞增排序
func (wl *Workload) LiveKeys() []int64 {
	live := wl.Live()
	keys := make([]int64, 0, live.GetCardinality())
	for it := live.Iterator(); it.HasNext(); {
		keys = append(keys, KeyOf(it.Next()))
	}
	return keys
}

// ToSequenceModel 將 Workload 轉為可重播的 SequenceModel
func (wl *Workload) ToSequenceModel() *SequenceModel {
	if wl == nil {
		return NewSequenceModelFromOps(nil)
	}
	return NewSequenceModelFromOps(wl.Ops)
}

// SequenceModel 以既有的 Operation 序列提供順序重播
type SequenceModel struct {
	ops []Operation
	pos int
}

// NewSequenceModelFromOps 由外部供給的操作序列建立模型
func NewSequenceModelFromOps(ops []Operation) *SequenceModel {
	cp := make([]Operation, len(ops))
	copy(cp, ops)
	return &SequenceModel{ops: cp}
}

// Next 回傳下一筆操作，若結束則回傳零值與 false
func (m *SequenceModel) Next() (Operation, bool) {
	if m.pos >= len(m.ops) {
		return Operation{}, false
	}
	op := m.ops[m.pos]
	m.pos++
	return op, true
}

// NextN 回傳接下來 n 筆（或直到結束）的操作
func (m *SequenceModel) NextN(n int) []Operation {
	if n <= 0 || m.pos >= len(m.ops) {
		return nil
	}
	end := min(m.pos+n, len(m.ops))
	out := make([]Operation, end-m.pos)
	copy(out, m.ops[m.pos:end])
	m.pos = end
	return out
}

// Reset 游標重置到起點
func (m *SequenceModel) Reset() { m.pos = 0 }
