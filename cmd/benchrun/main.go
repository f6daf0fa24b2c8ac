package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Hakuto4838/skipset/bench"
	"github.com/Hakuto4838/skipset/datastream"
	"github.com/Hakuto4838/skipset/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Input: either provide -file, -dir, or provide -out and generation params
	var file string
	var dir string
	var out string
	var impls string
	var runs int
	var seed uint64
	var verbose bool
	var noVerify bool
	var cfg datastream.GenConfig

	flag.StringVar(&file, "file", "", "existing bench file (SLBENCH1 format)")
	flag.StringVar(&dir, "dir", "", "directory containing bench files to test (all .bin files)")
	flag.StringVar(&out, "out", "", "output path to write a generated bench file")
	flag.IntVar(&cfg.N, "n", 0, "number of keys for the generator")
	flag.Float64Var(&cfg.S, "a", 1.07, "Zipf parameter s (0 for uniform)")
	flag.Float64Var(&cfg.V, "b", 1.0, "Zipf parameter v")
	flag.IntVar(&cfg.K, "k", 0, "number of operations to generate")
	flag.Float64Var(&cfg.Phase1Ratio, "phase1Ratio", 0.5, "ratio of phase1 operations")
	flag.Float64Var(&cfg.DeleteRatio, "deleteRatio", 0.1, "ratio of delete operations")
	flag.Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "seed for generators and skip lists")
	flag.StringVar(&impls, "impl", "all", "implementations to run: all or comma list (skiplist,treeset,btree)")
	flag.IntVar(&runs, "runs", 5, "how many times to repeat each benchmark")
	flag.BoolVar(&noVerify, "noverify", false, "skip checking the final set contents against the workload")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	if verbose {
		logger.Init(zapcore.DebugLevel)
	} else {
		logger.Init(zapcore.InfoLevel)
	}
	defer logger.Sync()

	var benchPaths []string
	switch {
	case dir != "":
		files, err := collectBenchFilesFromDir(dir)
		if err != nil {
			logger.Fatal("scan directory", zap.String("dir", dir), zap.Error(err))
		}
		if len(files) == 0 {
			logger.Fatal("no .bin files found", zap.String("dir", dir))
		}
		benchPaths = files
		logger.Info("found bench files", zap.Int("count", len(files)), zap.String("dir", dir))
	case file != "":
		benchPaths = []string{file}
	case out != "":
		cfg.Seed = seed
		wl, err := datastream.Generate(cfg)
		if err != nil {
			logger.Fatal("generate bench file", zap.Error(err))
		}
		if err := datastream.SaveBenchFile(out, wl); err != nil {
			logger.Fatal("write bench file", zap.String("file", out), zap.Error(err))
		}
		logger.Info("generated bench file", zap.String("file", out))
		benchPaths = []string{out}
	default:
		logger.Fatal("either -file, -dir, or -out with generation params (-n,-a,-b,-k,-seed) must be provided")
	}

	toRun, err := bench.ParseImpls(impls)
	if err != nil {
		logger.Fatal("parse -impl", zap.Error(err))
	}
	logger.Info("implementations to test", zap.String("impl", strings.Join(toRun, ",")))

	r := bench.NewRunner(runs, seed, logger.GetLogger())
	r.Verify = !noVerify

	if len(benchPaths) > 1 {
		runBatchBenchmark(r, benchPaths, toRun)
	} else {
		runBenchmark(r, benchPaths[0], toRun)
	}
}

// collectBenchFilesFromDir 收集指定目錄下所有 .bin 檔案
func collectBenchFilesFromDir(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".bin" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// runBatchBenchmark 對多個 benchmark 檔案執行測試並匯總統計
func runBatchBenchmark(r *bench.Runner, benchPaths []string, toRun []string) {
	all := make(map[string][]bench.Stats, len(toRun))
	for idx, benchPath := range benchPaths {
		wl, err := datastream.LoadBenchFile(benchPath)
		if err != nil {
			logger.Error("skip bench file", zap.String("file", benchPath), zap.Error(err))
			continue
		}
		logger.Info("testing",
			zap.String("progress", fmt.Sprintf("%d/%d", idx+1, len(benchPaths))),
			zap.String("file", filepath.Base(benchPath)),
			zap.Int("ops", len(wl.Ops)),
			zap.Float64("entropy", wl.Entropy()),
		)
		for _, impl := range toRun {
			s, err := r.Run(impl, wl)
			if err != nil {
				logger.Error("benchmark failed", zap.String("impl", impl), zap.String("file", benchPath), zap.Error(err))
				continue
			}
			all[impl] = append(all[impl], s)
		}
	}

	rows := make([]bench.Stats, 0, len(toRun))
	for _, impl := range toRun {
		if len(all[impl]) == 0 {
			continue
		}
		rows = append(rows, bench.Aggregate(impl, all[impl]))
	}
	fmt.Println("AGGREGATE STATISTICS (across all benchmark files)")
	bench.Render(os.Stdout, rows)
}

// runBenchmark 執行單一 benchmark 檔案的測試
func runBenchmark(r *bench.Runner, benchPath string, toRun []string) {
	wl, err := datastream.LoadBenchFile(benchPath)
	if err != nil {
		logger.Fatal("read bench file", zap.String("file", benchPath), zap.Error(err))
	}
	logger.Info("bench file loaded",
		zap.String("file", benchPath),
		zap.Int("ops", len(wl.Ops)),
		zap.Float64("entropy", wl.Entropy()),
	)

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
}
