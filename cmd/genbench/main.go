package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Hakuto4838/skipset/datastream"
	"github.com/Hakuto4838/skipset/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// parseScientificNotation 解析科學記號字串（如 "1e5"）為整數
func parseScientificNotation(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// formatScientific 將數字格式化為科學記號（用於檔名）
func formatScientific(n int) string {
	if n == 0 {
		return "0"
	}
	exp := 0
	divisor := 1
	for temp := n; temp >= 10; temp /= 10 {
		exp++
		divisor *= 10
	}
	coefficient := float64(n) / float64(divisor)
	if coefficient == float64(int(coefficient)) {
		return fmt.Sprintf("%de%d", int(coefficient), exp)
	}
	return fmt.Sprintf("%.1fe%d", coefficient, exp)
}

// formatDecimal 將浮點數格式化為不含小數點的字串（用於檔名）
func formatDecimal(f float64) string {
	val := int(f*100 + 0.5)
	switch {
	case val%100 == 0:
		return fmt.Sprintf("%d", val/100)
	case val%10 == 0:
		return fmt.Sprintf("%d_%d", val/100, (val%100)/10)
	default:
		return fmt.Sprintf("%d_%02d", val/100, val%100)
	}
}

func main() {
	var out string
	var path string
	var nStr string
	var kStr string
	var seed uint64
	var nums int
	var sequential bool
	var cfg datastream.GenConfig

	flag.StringVar(&nStr, "n", "0", "number of keys (supports scientific notation, e.g. 1e5)")
	flag.Float64Var(&cfg.S, "a", 1.07, "Zipf parameter s (0 for a uniform distribution)")
	flag.Float64Var(&cfg.V, "b", 1.0, "Zipf parameter v (used when a > 0)")
	flag.StringVar(&kStr, "k", "0", "number of operations (supports scientific notation, e.g. 1e6)")
	flag.Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "seed for the generator")
	flag.Float64Var(&cfg.Phase1Ratio, "phase1Ratio", 0.5, "ratio of phase1 operations")
	flag.Float64Var(&cfg.DeleteRatio, "deleteRatio", 0.1, "ratio of delete operations")
	flag.BoolVar(&cfg.SimpleKey, "simple", false, "use keys 0..n-1 instead of random uint32 keys")
	flag.BoolVar(&sequential, "sequential", false, "insert 0..n-1 then query and delete even keys in descending order (ignores -k, -a, -b)")
	flag.IntVar(&nums, "nums", 1, "number of files to generate")
	flag.StringVar(&out, "out", "", "output filename prefix (generated from the parameters when empty)")
	flag.StringVar(&path, "path", ".", "output directory")
	flag.Parse()

	logger.Init(zapcore.InfoLevel)
	defer logger.Sync()

	n, err := parseScientificNotation(nStr)
	if err != nil {
		logger.Fatal("parse -n", zap.String("value", nStr), zap.Error(err))
	}
	k, err := parseScientificNotation(kStr)
	if err != nil {
		logger.Fatal("parse -k", zap.String("value", kStr), zap.Error(err))
	}
	cfg.N, cfg.K = n, k

	if out == "" {
		if sequential {
			out = fmt.Sprintf("bench_seq_n%s", formatScientific(n))
		} else {
			out = fmt.Sprintf("bench_n%s_k%s_a%s_b%s_p1r%s_dr%s",
				formatScientific(n),
				formatScientific(k),
				formatDecimal(cfg.S),
				formatDecimal(cfg.V),
				formatDecimal(cfg.Phase1Ratio),
				formatDecimal(cfg.DeleteRatio))
		}
	}
	if path != "." && path != "" {
		if err := os.MkdirAll(path, 0755); err != nil {
			logger.Fatal("create output directory", zap.String("path", path), zap.Error(err))
		}
	}

	logger.Info("generating",
		zap.Int("n", n),
		zap.Int("k", k),
		zap.Float64("a", cfg.S),
		zap.Float64("b", cfg.V),
		zap.Float64("phase1Ratio", cfg.Phase1Ratio),
		zap.Float64("deleteRatio", cfg.DeleteRatio),
		zap.Bool("sequential", sequential),
		zap.Uint64("seed", seed),
		zap.Int("files", nums),
	)

	for i := 0; i < nums; i++ {
		filename := fmt.Sprintf("%s.bin", out)
		if nums > 1 {
			filename = fmt.Sprintf("%s_%d.bin", out, i)
		}
		outfile := filepath.Join(path, filename)

		var wl *datastream.Workload
		if sequential {
			wl, err = datastream.Sequential(n)
		} else {
			cfg.Seed = seed + uint64(i)
			wl, err = datastream.Generate(cfg)
		}
		if err != nil {
			logger.Fatal("generate workload", zap.Error(err))
		}
		if err := datastream.SaveBenchFile(outfile, wl); err != nil {
			logger.Fatal("write bench file", zap.String("file", outfile), zap.Error(err))
		}
		logger.Info("written", zap.String("file", outfile), zap.Int("ops", len(wl.Ops)), zap.Float64("entropy", wl.Entropy()))
	}
}
