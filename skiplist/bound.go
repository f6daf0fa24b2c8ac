package skiplist

import "cmp"

// Bound 標示節點位於 key 域的哪一側。
// head 為 NegInf、tail 為 PosInf，其餘節點皆為 Finite，
// 因此 key 型別不需要可表示的最小值或最大值。
type Bound int8

const (
	NegInf Bound = iota - 1
	Finite
	PosInf
)

func (b Bound) String() string {
	switch b {
	case NegInf:
		return "-inf"
	case Finite:
		return "finite"
	case PosInf:
		return "+inf"
	default:
		return "unknown"
	}
}

// Compare 比較 (ba, a) 與 (bb, b)，sentinel 永遠在所有實際 key 的兩端
func Compare[K cmp.Ordered](ba Bound, a K, bb Bound, b K) int {
	if ba != bb {
		return cmp.Compare(ba, bb)
	}
	if ba != Finite {
		return 0
	}
	return cmp.Compare(a, b)
}
