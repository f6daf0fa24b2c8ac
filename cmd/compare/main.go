package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Hakuto4838/skipset/bench"
	"github.com/Hakuto4838/skipset/datastream"
	"github.com/Hakuto4838/skipset/pkg/logger"
	"github.com/Hakuto4838/skipset/skiplist/analyTool"
	"github.com/Hakuto4838/skipset/skiplist/basic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 插入 0..n-1 後，由大到小查詢並刪除所有偶數 key，比較 skip list 與平衡樹
func main() {
	var n int
	var runs int
	var seed uint64
	var impls string
	var levels bool
	var verbose bool

	flag.IntVar(&n, "n", 99999, "number of keys to insert")
	flag.IntVar(&runs, "runs", 5, "how many times to repeat each benchmark")
	flag.Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "seed for the skip list level generator")
	flag.StringVar(&impls, "impl", "all", "implementations to run: all or comma list (skiplist,treeset,btree)")
	flag.BoolVar(&levels, "levels", false, "print the level distribution of a skip list built from the keys")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	if verbose {
		logger.Init(zapcore.DebugLevel)
	} else {
		logger.Init(zapcore.InfoLevel)
	}
	defer logger.Sync()

	toRun, err := bench.ParseImpls(impls)
	if err != nil {
		logger.Fatal("parse -impl", zap.Error(err))
	}
	wl, err := datastream.Sequential(n)
	if err != nil {
		logger.Fatal("build workload", zap.Error(err))
	}
	q, ins, del := wl.Count()
	logger.Info("workload ready",
		zap.Int("n", n),
		zap.Int("insert", ins),
		zap.Int("query", q),
		zap.Int("delete", del),
		zap.Int("setup", wl.Setup),
		zap.Uint64("seed", seed),
	)

	r := bench.NewRunner(runs, seed, logger.GetLogger())
	rows := make([]bench.Stats, 0, len(toRun))
	for _, impl := range toRun {
		logger.Info("benchmarking", zap.String("impl", impl))
		s, err := r.Run(impl, wl)
		if err != nil {
			logger.Fatal("benchmark failed", zap.String("impl", impl), zap.Error(err))
		}
		rows = append(rows, s)
	}
	bench.Render(os.Stdout, rows)

	if levels {
		sl := basic.MustNew[int64](basic.WithSeed(seed), basic.WithLogger(logger.GetLogger()))
		for _, k := range wl.Keys() {
			sl.Insert(k)
		}
		if err := analyTool.CheckStruct[int64](sl); err != nil {
			logger.Fatal("skip list check failed", zap.Error(err))
		}
		fmt.Printf("\nlevel distribution (%d keys, level %d)\n", sl.Len(), sl.Level())
		analyTool.RenderLevelTable[int64](os.Stdout, sl)
	}
}
