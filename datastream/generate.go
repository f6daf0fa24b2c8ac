package datastream

import (
	"fmt"
	"math"
	randv2 "math/rand/v2"

	"github.com/RoaringBitmap/roaring"
)

// Sequential 重現最原始的比較測試：
// 依序插入 0..n-1（建置階段，不計時），再由大到小查詢所有偶數 key，最後以相同順序刪除
func Sequential(n int) (*Workload, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidParams, n)
	}
	dist := make(map[int64]float64, n)
	ops := make([]Operation, 0, 2*n+2)
	for i := 0; i < n; i++ {
		dist[int64(i)] = 1.0 / float64(n)
		ops = append(ops, Operation{Type: OpInsert, Key: int64(i)})
	}

	top := int64(n - 1)
	if top%2 != 0 {
		top--
	}
	for k := top; k >= 0; k -= 2 {
		ops = append(ops, Operation{Type: OpQuery, Key: k})
	}
	for k := top; k >= 0; k -= 2 {
		ops = append(ops, Operation{Type: OpDelete, Key: k})
	}
	return &Workload{Dist: dist, Ops: ops, Setup: n}, nil
}

// GenConfig 為 Generate 的參數
type GenConfig struct {
	N           int     // key 數量
	S           float64 // Zipf 參數 s，為 0 時使用均勻分布；否則需 > 1
	V           float64 // Zipf 參數 v，需 >= 1
	Seed        uint64
	K           int     // 操作數量，需 >= N
	Phase1Ratio float64 // 第一階段佔 K 的比例，第一階段保證每個 key 至少出現一次
	DeleteRatio float64 // key 存在時產生 Delete 的機率
	SimpleKey   bool    // true 時 key 為 0..N-1，否則為不重複的隨機 uint32
}

func (c GenConfig) validate() error {
	phase1Size := int(float64(c.K) * c.Phase1Ratio)
	switch {
	case c.N <= 0:
		return fmt.Errorf("%w: n=%d", ErrInvalidParams, c.N)
	case c.S != 0 && (c.S <= 1.0 || c.V < 1.0):
		return fmt.Errorf("%w: zipf s=%v must >1, v=%v must >=1", ErrInvalidParams, c.S, c.V)
	case c.K < c.N:
		return fmt.Errorf("%w: k (%d) must be >= n (%d) to ensure each key appears at least once", ErrInvalidParams, c.K, c.N)
	case phase1Size < c.N || phase1Size > c.K:
		return fmt.Errorf("%w: phase1Size (%d) must satisfy n <= phase1Size <= k", ErrInvalidParams, phase1Size)
	case c.DeleteRatio < 0.0 || c.DeleteRatio > 1.0:
		return fmt.Errorf("%w: deleteRatio (%v) must be between 0.0 and 1.0", ErrInvalidParams, c.DeleteRatio)
	}
	return nil
}

// Generate 產生兩階段的操作序列：
//   - 第一階段：前 N 個位置涵蓋所有 key，其餘依分布抽樣，最後打亂
//   - 第二階段：剩餘的操作依分布抽樣
//
// key 不存在時一律為 Insert；存在時以 DeleteRatio 機率 Delete，否則 Query
func Generate(cfg GenConfig) (*Workload, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	n := cfg.N
	r := randv2.New(randv2.NewPCG(cfg.Seed, 0))

	// rank -> key 的隨機對應（不重複）
	rankToKey := make([]int64, n)
	if cfg.SimpleKey {
		for i := 0; i < n; i++ {
			rankToKey[i] = int64(i)
		}
		r.Shuffle(n, func(i, j int) { rankToKey[i], rankToKey[j] = rankToKey[j], rankToKey[i] })
	} else {
		used := roaring.New()
		for i := 0; i < n; i++ {
			genKey := r.Uint32()
			for !used.CheckedAdd(genKey) {
				genKey = r.Uint32()
			}
			rankToKey[i] = int64(genKey)
		}
	}

	var draw func() int
	weights := make([]float64, n)
	if cfg.S == 0 {
		for i := range weights {
			weights[i] = 1.0 / float64(n)
		}
		draw = func() int { return r.IntN(n) }
	} else {
		var sumW float64
		for i := range weights {
			weights[i] = 1.0 / math.Pow(cfg.V+float64(i), cfg.S)
			sumW += weights[i]
		}
		for i := range weights {
			weights[i] /= sumW
		}
		zipf := randv2.NewZipf(r, cfg.S, cfg.V, uint64(n-1))
		draw = func() int { return int(zipf.Uint64()) }
	}

	dist := make(map[int64]float64, n)
	for rank, key := range rankToKey {
		dist[key] = weights[rank]
	}

	phase1Size := int(float64(cfg.K) * cfg.Phase1Ratio)
	phase1Keys := make([]int64, phase1Size)
	copy(phase1Keys, rankToKey)
	for i := n; i < phase1Size; i++ {
		phase1Keys[i] = rankToKey[draw()]
	}
	r.Shuffle(len(phase1Keys), func(i, j int) { phase1Keys[i], phase1Keys[j] = phase1Keys[j], phase1Keys[i] })

	present := roaring.New()
	ops := make([]Operation, 0, cfg.K)
	next := func(key int64) {
		op := OpInsert
		if present.Contains(uint32(key)) {
			if r.Float64() < cfg.DeleteRatio {
				op = OpDelete
				present.Remove(uint32(key))
			} else {
				op = OpQuery
			}
		} else {
			present.Add(uint32(key))
		}
		ops = append(ops, Operation{Type: op, Key: key})
	}

	for _, key := range phase1Keys {
		next(key)
	}
	for i := phase1Size; i < cfg.K; i++ {
		next(rankToKey[draw()])
	}
	return &Workload{Dist: dist, Ops: ops}, nil
}
