package levelgen

import (
	"math/rand/v2"
)

const (
	// DefaultMaxLevel 為每個節點 forward 指標數量的預設上限
	DefaultMaxLevel = 16
	// LimitMaxLevel 為可設定的最大層數
	LimitMaxLevel = 64
)

// Generator 決定新節點的層數。
// current 為 list 目前的最高層數，max 為 list 的層數上限
type Generator interface {
	Level(current, max int) int
}

// Clamp 將 level 限制在 [1, min(current+1, max)]，
// 新節點最多只會比目前最高的節點高一層
func Clamp(level, current, max int) int {
	limit := current + 1
	if limit > max {
		limit = max
	}
	if level > limit {
		level = limit
	}
	if level < 1 {
		level = 1
	}
	return level
}

// CoinFlip 以公平硬幣決定層數，每次正面就往上加一層
type CoinFlip struct {
	rng *rand.Rand
}

func NewCoinFlip(seed uint64) *CoinFlip {
	return NewCoinFlipFrom(rand.NewPCG(seed, 0))
}

func NewCoinFlipFrom(src rand.Source) *CoinFlip {
	return &CoinFlip{rng: rand.New(src)}
}

func (c *CoinFlip) Level(current, max int) int {
	lvl := 1
	for c.rng.Uint64()&1 == 1 && lvl <= current && lvl < max {
		lvl++
	}
	return lvl
}

// Script 依序回傳預先指定的層數（套用 Clamp），用完後回傳 1。
// 測試時用來建出固定形狀的 list
type Script struct {
	levels []int
	pos    int
}

func NewScript(levels ...int) *Script {
	cp := make([]int, len(levels))
	copy(cp, levels)
	return &Script{levels: cp}
}

func (s *Script) Level(current, max int) int {
	if s.pos >= len(s.levels) {
		return 1
	}
	lvl := s.levels[s.pos]
	s.pos++
	return Clamp(lvl, current, max)
}

// Remaining 回傳尚未使用的層數數量
func (s *Script) Remaining() int { return len(s.levels) - s.pos }
