package bench

import (
	"fmt"
	"strings"

	"github.com/Hakuto4838/skipset/skiplist"
	"github.com/Hakuto4838/skipset/skiplist/basic"
	"github.com/Hakuto4838/skipset/skiplist/btreeset"
	"github.com/Hakuto4838/skipset/skiplist/treeset"
)

// Factory 建立一個空的 set，seed 只對隨機結構有意義
type Factory func(seed uint64) skiplist.OrderedSet[int64]

var (
	registry = map[string]Factory{
		"skiplist": func(seed uint64) skiplist.OrderedSet[int64] {
			return basic.MustNew[int64](basic.WithSeed(seed))
		},
		"treeset": func(uint64) skiplist.OrderedSet[int64] {
			return treeset.New[int64]()
		},
		"btree": func(uint64) skiplist.OrderedSet[int64] {
			return btreeset.New[int64]()
		},
	}
	order = []string{"skiplist", "treeset", "btree"}
)

// Names 回傳所有可用的實作名稱
func Names() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

func New(name string, seed uint64) (skiplist.OrderedSet[int64], error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownImpl, name)
	}
	return f(seed), nil
}

// ParseImpls 解析逗號分隔的實作清單，"all" 或空字串代表全部
func ParseImpls(s string) ([]string, error) {
	if s == "" || s == "all" {
		return Names(), nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := map[string]bool{}
	for _, p := range parts {
		t := strings.TrimSpace(strings.ToLower(p))
		if t == "" || seen[t] {
			continue
		}
		if _, ok := registry[t]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownImpl, t)
		}
		out = append(out, t)
		seen[t] = true
	}
	if len(out) == 0 {
		return Names(), nil
	}
	return out, nil
}
