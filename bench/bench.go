package bench

import (
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/Hakuto4838/skipset/datastream"
	"github.com/Hakuto4838/skipset/skiplist"
	"github.com/Hakuto4838/skipset/skiplist/analyTool"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

type Stats struct {
	Impl     string
	Runs     int
	Ops      int // 計時的操作數，不含建置階段
	AvgMs    float64
	MinMs    float64
	MaxMs    float64
	AvgSteps float64 // 只有 Analyable 的實作有值，其餘為 NaN
	Hits     int     // 最後一次執行中 Query 命中的次數
	FinalLen int
}

// Throughput 回傳平均每秒操作數
func (s Stats) Throughput() float64 {
	if s.AvgMs <= 0 {
		return 0
	}
	return float64(s.Ops) / (s.AvgMs / 1000.0)
}

// Runner 依序對各實作重播 workload 並計時
type Runner struct {
	Runs   int
	Seed   uint64
	Verify bool
	Log    *zap.Logger
}

func NewRunner(runs int, seed uint64, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Runs: max(runs, 1), Seed: seed, Verify: true, Log: log}
}

// Replay 先執行 wl 的建置操作，再對其餘操作計時，
// 回傳計時部分的耗時與 Query 命中次數
func Replay(set skiplist.OrderedSet[int64], wl *datastream.Workload) (time.Duration, int) {
	apply(set, wl.Ops[:len(wl.Ops)-len(wl.Timed())])
	start := time.Now()
	hits := apply(set, wl.Timed())
	return time.Since(start), hits
}

func apply(set skiplist.OrderedSet[int64], ops []datastream.Operation) int {
	hits := 0
	for _, op := range ops {
		switch op.Type {
		case datastream.OpQuery:
			if set.Contains(op.Key) {
				hits++
			}
		case datastream.OpInsert:
			set.Insert(op.Key)
		case datastream.OpDelete:
			set.Erase(op.Key)
		}
	}
	return hits
}

// Verify 檢查 set 的內容是否與 workload 結束時存在的 key 相同
func Verify(set skiplist.OrderedSet[int64], wl *datastream.Workload) error {
	it := wl.Live().Iterator()
	n := 0
	for k := range set.All() {
		if !it.HasNext() {
			return fmt.Errorf("%w: unexpected key %d", ErrMismatch, k)
		}
		if want := datastream.KeyOf(it.Next()); k != want {
			return fmt.Errorf("%w: at position %d got %d, want %d", ErrMismatch, n, k, want)
		}
		n++
	}
	if it.HasNext() {
		return fmt.Errorf("%w: missing key %d", ErrMismatch, datastream.KeyOf(it.Next()))
	}
	if set.Len() != n {
		return fmt.Errorf("%w: Len() = %d, iterated %d", ErrMismatch, set.Len(), n)
	}
	return nil
}

func (r *Runner) Run(name string, wl *datastream.Workload) (Stats, error) {
	durations := make([]float64, 0, r.Runs)
	stats := Stats{Impl: name, Runs: r.Runs, Ops: len(wl.Timed()), AvgSteps: math.NaN()}

	for i := 0; i < r.Runs; i++ {
		set, err := New(name, r.Seed+uint64(i))
		if err != nil {
			return Stats{}, err
		}
		elapsed, hits := Replay(set, wl)
		durations = append(durations, float64(elapsed.Microseconds())/1000.0)
		r.Log.Debug("bench run finished",
			zap.String("impl", name),
			zap.Int("run", i),
			zap.Duration("elapsed", elapsed),
			zap.Int("hits", hits),
		)

		if i == 0 {
			if r.Verify {
				if err := Verify(set, wl); err != nil {
					return Stats{}, fmt.Errorf("%s: %w", name, err)
				}
			}
			if analy, ok := set.(skiplist.Analyable[int64]); ok {
				stats.AvgSteps, _ = analyTool.AnalyzeStep(analy, wl.Dist)
			}
		}
		stats.Hits = hits
		stats.FinalLen = set.Len()
	}

	slices.Sort(durations)
	sum := 0.0
	for _, v := range durations {
		sum += v
	}
	stats.AvgMs = sum / float64(len(durations))
	stats.MinMs = durations[0]
	stats.MaxMs = durations[len(durations)-1]
	return stats, nil
}

// Aggregate 合併同一實作在多個 workload 上的結果。
// AvgMs 與 Ops 取平均，因此 Throughput 為總操作數 / 總時間
func Aggregate(name string, all []Stats) Stats {
	out := Stats{Impl: name, AvgSteps: math.NaN()}
	if len(all) == 0 {
		return out
	}
	out.MinMs = math.Inf(1)
	totalOps := 0
	var steps []float64
	for _, s := range all {
		out.Runs += s.Runs
		out.Hits += s.Hits
		out.FinalLen += s.FinalLen
		out.AvgMs += s.AvgMs
		out.MinMs = min(out.MinMs, s.MinMs)
		out.MaxMs = max(out.MaxMs, s.MaxMs)
		totalOps += s.Ops
		if !math.IsNaN(s.AvgSteps) {
			steps = append(steps, s.AvgSteps)
		}
	}
	out.AvgMs /= float64(len(all))
	out.Ops = totalOps / len(all)
	if len(steps) > 0 {
		sum := 0.0
		for _, v := range steps {
			sum += v
		}
		out.AvgSteps = sum / float64(len(steps))
	}
	return out
}

// Render 以表格輸出結果
func Render(w io.Writer, rows []Stats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Impl", "Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Ops/s", "AvgSteps", "Hits", "Len"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	for _, s := range rows {
		steps := "N/A"
		if !math.IsNaN(s.AvgSteps) {
			steps = fmt.Sprintf("%.6f", s.AvgSteps)
		}
		table.Append([]string{
			s.Impl,
			fmt.Sprintf("%d", s.Runs),
			fmt.Sprintf("%.3f", s.AvgMs),
			fmt.Sprintf("%.3f", s.MinMs),
			fmt.Sprintf("%.3f", s.MaxMs),
			fmt.Sprintf("%.2f", s.Throughput()),
			steps,
			fmt.Sprintf("%d", s.Hits),
			fmt.Sprintf("%d", s.FinalLen),
		})
	}
	table.Render()
}
