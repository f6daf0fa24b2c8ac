package basic

import (
	"math/rand/v2"

	"github.com/Hakuto4838/skipset/skiplist/levelgen"
	"go.uber.org/zap"
)

type Option func(*Options)

type Options struct {
	MaxLevel  int
	Generator levelgen.Generator
	Logger    *zap.Logger
}

func defaultOptions() *Options {
	return &Options{
		MaxLevel:  levelgen.DefaultMaxLevel,
		Generator: levelgen.NewCoinFlip(rand.Uint64()),
		Logger:    zap.NewNop(),
	}
}

// WithMaxLevel 設定節點層數上限，建立後不可變更
func WithMaxLevel(n int) Option {
	return func(opts *Options) {
		opts.MaxLevel = n
	}
}

// WithGenerator 指定層數產生器，list 會獨佔使用它
func WithGenerator(g levelgen.Generator) Option {
	return func(opts *Options) {
		opts.Generator = g
	}
}

// WithSeed 使用固定種子的 CoinFlip
func WithSeed(seed uint64) Option {
	return func(opts *Options) {
		opts.Generator = levelgen.NewCoinFlip(seed)
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(opts *Options) {
		if l != nil {
			opts.Logger = l
		}
	}
}
