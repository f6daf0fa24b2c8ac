package basic

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/Hakuto4838/skipset/skiplist"
	"github.com/Hakuto4838/skipset/skiplist/analyTool"
	"github.com/Hakuto4838/skipset/skiplist/levelgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBasicSkipListInterface(t *testing.T) {
	var _ skiplist.OrderedSet[int] = (*List[int])(nil)
	var _ skiplist.Analyable[string] = (*List[string])(nil)
	var _ skiplist.Nodelike[float64] = (*Node[float64])(nil)
}

func TestNewOptions(t *testing.T) {
	_, err := New[int](WithMaxLevel(0))
	require.ErrorIs(t, err, ErrInvalidMaxLevel)

	_, err = New[int](WithMaxLevel(levelgen.LimitMaxLevel + 1))
	require.ErrorIs(t, err, ErrInvalidMaxLevel)

	_, err = New[int](WithGenerator(nil))
	require.ErrorIs(t, err, ErrNilGenerator)

	sl, err := New[int](WithMaxLevel(4), WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, 4, sl.MaxLevel())
	assert.Equal(t, 1, sl.Level())
	assert.Equal(t, 0, sl.Len())

	assert.Panics(t, func() { MustNew[int](WithMaxLevel(-1)) })
}

func TestBasicSkipListBasic(t *testing.T) {
	sl := MustNew[int](WithSeed(42))
	for _, k := range []int{5, 1, 9, 3} {
		sl.Insert(k)
	}
	assert.Equal(t, []int{1, 3, 5, 9}, slices.Collect(sl.All()))

	nd := sl.Find(9)
	require.NotSame(t, sl.End(), nd)
	assert.Equal(t, 9, nd.Key())
	assert.Same(t, sl.End(), sl.Find(7))

	assert.True(t, sl.Erase(5))
	assert.Equal(t, []int{1, 3, 9}, slices.Collect(sl.All()))
	assert.Same(t, sl.End(), sl.Find(5))
	assert.NoError(t, analyTool.CheckStruct[int](sl))
}

func TestFindEraseEvenDescending(t *testing.T) {
	const n = 100000
	sl := MustNew[int](WithSeed(7))
	for i := 0; i < n; i++ {
		sl.Insert(i)
	}
	require.Equal(t, n, sl.Len())

	for k := n - 2; k >= 0; k -= 2 {
		require.Equal(t, k, sl.Find(k).Key())
	}
	for k := n - 2; k >= 0; k -= 2 {
		require.True(t, sl.Erase(k))
	}

	for k := 0; k < n; k++ {
		if k%2 == 0 {
			require.Same(t, sl.End(), sl.Find(k), "even key %d should be gone", k)
		} else {
			require.Equal(t, k, sl.Find(k).Key(), "odd key %d should remain", k)
		}
	}
	assert.Equal(t, n/2, sl.Len())
	assert.NoError(t, analyTool.CheckStruct[int](sl))
}

func TestOrderAndMembership(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 0))
	sl := MustNew[int](WithSeed(3))
	var want []int
	for range 5000 {
		k := r.IntN(2000) - 1000
		sl.Insert(k)
		want = append(want, k)
	}
	slices.Sort(want)

	got := slices.Collect(sl.All())
	assert.Equal(t, want, got)
	assert.True(t, slices.IsSorted(got))
	for _, k := range want {
		require.True(t, sl.Contains(k))
	}
	assert.False(t, sl.Contains(5000))
	assert.False(t, sl.Contains(-5000))
	require.NoError(t, analyTool.CheckStruct[int](sl))
}

func TestEraseRemovesExactlyOne(t *testing.T) {
	sl := MustNew[int](WithSeed(11))
	for i := 0; i < 100; i++ {
		sl.Insert(i * 3)
	}
	before := sl.Len()

	sl.Insert(50)
	require.True(t, sl.Contains(50))
	require.True(t, sl.Erase(50))
	assert.False(t, sl.Contains(50))
	assert.Equal(t, before, sl.Len())
}

func TestDuplicateKeys(t *testing.T) {
	sl := MustNew[int](WithSeed(5))
	sl.Insert(1)
	sl.Insert(5)
	first := sl.Find(5)
	sl.Insert(5)
	sl.Insert(9)

	second := sl.Find(5)
	assert.NotSame(t, first, second)
	// 後插入的節點排在前面
	assert.Same(t, first, second.Next())
	assert.Equal(t, []int{1, 5, 5, 9}, slices.Collect(sl.All()))

	require.True(t, sl.Erase(5))
	assert.Same(t, first, sl.Find(5))
	assert.Equal(t, 3, sl.Len())

	require.True(t, sl.Erase(5))
	assert.False(t, sl.Contains(5))
	assert.NoError(t, analyTool.CheckStruct[int](sl))
}

func TestEraseAbsentIsNoop(t *testing.T) {
	sl := MustNew[int](WithSeed(9))
	assert.False(t, sl.Erase(1))
	assert.Equal(t, 1, sl.Level())

	for _, k := range []int{10, 20, 30, 40} {
		sl.Insert(k)
	}
	keys := slices.Collect(sl.All())
	lvl, n := sl.Level(), sl.Len()

	for _, k := range []int{5, 15, 25, 45} {
		assert.False(t, sl.Erase(k))
	}
	assert.Equal(t, keys, slices.Collect(sl.All()))
	assert.Equal(t, lvl, sl.Level())
	assert.Equal(t, n, sl.Len())
}

func TestLevelMonotonic(t *testing.T) {
	r := rand.New(rand.NewPCG(21, 0))
	sl := MustNew[int](WithSeed(21), WithMaxLevel(8))
	prev := sl.Level()
	for range 20000 {
		k := r.IntN(500)
		erased := false
		if r.IntN(3) == 0 {
			erased = sl.Erase(k)
		} else {
			sl.Insert(k)
		}
		lvl := sl.Level()
		require.LessOrEqual(t, lvl, sl.MaxLevel())
		require.GreaterOrEqual(t, lvl, 1)
		if lvl < prev {
			require.True(t, erased, "level dropped without a successful erase")
		}
		if lvl > prev {
			require.Equal(t, prev+1, lvl, "level grew by more than one")
		}
		prev = lvl
	}
	require.NoError(t, analyTool.CheckStruct[int](sl))
}

func TestShrinkCollapsesEmptyLevels(t *testing.T) {
	sl := MustNew[int](WithGenerator(levelgen.NewScript(1, 2, 3)))
	sl.Insert(10)
	sl.Insert(20)
	sl.Insert(30)
	require.Equal(t, 3, sl.Level())
	assert.Equal(t, 1, sl.Find(10).Level())
	assert.Equal(t, 2, sl.Find(20).Level())
	assert.Equal(t, 3, sl.Find(30).Level())

	require.True(t, sl.Erase(20))
	assert.Equal(t, 3, sl.Level())

	// 30 是唯一高於第一層的節點，移除後兩層同時變空
	require.True(t, sl.Erase(30))
	assert.Equal(t, 1, sl.Level())
	assert.NoError(t, analyTool.CheckStruct[int](sl))

	require.True(t, sl.Erase(10))
	assert.Equal(t, 1, sl.Level())
	assert.Equal(t, 0, sl.Len())
	assert.Same(t, sl.End(), sl.Front())
}

func TestExtremeKeys(t *testing.T) {
	ints := MustNew[int64](WithSeed(1))
	for _, k := range []int64{0, math.MaxInt64, math.MinInt64, -1} {
		ints.Insert(k)
	}
	assert.Equal(t, []int64{math.MinInt64, -1, 0, math.MaxInt64}, slices.Collect(ints.All()))
	assert.Equal(t, int64(math.MinInt64), ints.Find(math.MinInt64).Key())
	assert.Equal(t, int64(math.MaxInt64), ints.Find(math.MaxInt64).Key())
	assert.True(t, ints.Erase(math.MaxInt64))
	assert.False(t, ints.Contains(math.MaxInt64))

	strs := MustNew[string](WithSeed(1))
	for _, k := range []string{"b", "", "a", "zz"} {
		strs.Insert(k)
	}
	assert.Equal(t, []string{"", "a", "b", "zz"}, slices.Collect(strs.All()))
	assert.True(t, strs.Contains(""))

	floats := MustNew[float64](WithSeed(1))
	for _, k := range []float64{math.Inf(1), 0.5, math.Inf(-1)} {
		floats.Insert(k)
	}
	assert.Equal(t, []float64{math.Inf(-1), 0.5, math.Inf(1)}, slices.Collect(floats.All()))
	assert.True(t, floats.Contains(math.Inf(1)))
	assert.False(t, floats.Contains(1))
}

func TestFindOnEmpty(t *testing.T) {
	sl := MustNew[int]()
	nd := sl.Find(0)
	assert.Same(t, sl.End(), nd)
	assert.True(t, nd.IsSentinel())
	assert.Nil(t, nd.Next())
	assert.Empty(t, slices.Collect(sl.All()))
}

func TestAllIsRestartable(t *testing.T) {
	sl := MustNew[int](WithSeed(2))
	for i := 10; i > 0; i-- {
		sl.Insert(i)
	}
	seq := sl.All()
	assert.Equal(t, slices.Collect(seq), slices.Collect(seq))

	var firstThree []int
	for k := range seq {
		if len(firstThree) == 3 {
			break
		}
		firstThree = append(firstThree, k)
	}
	assert.Equal(t, []int{1, 2, 3}, firstThree)

	var walked []int
	for nd := sl.Front(); nd != sl.End(); nd = nd.Next() {
		walked = append(walked, nd.Key())
	}
	assert.Equal(t, slices.Collect(seq), walked)
}

func TestClear(t *testing.T) {
	sl := MustNew[int](WithSeed(4))
	for i := 0; i < 1000; i++ {
		sl.Insert(i)
	}
	kept := sl.Find(500)
	sl.Clear()

	assert.Equal(t, 0, sl.Len())
	assert.Equal(t, 1, sl.Level())
	assert.Same(t, sl.End(), sl.Front())
	assert.Nil(t, kept.Next())
	assert.NoError(t, analyTool.CheckStruct[int](sl))

	sl.Insert(3)
	assert.Equal(t, []int{3}, slices.Collect(sl.All()))
}

func TestLevelChangesAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := MustNew[int](WithGenerator(levelgen.NewScript(2)), WithLogger(zap.New(core)))

	sl.Insert(1)
	require.Equal(t, 1, logs.FilterMessage("skip list level raised").Len())

	sl.Erase(1)
	require.Equal(t, 1, logs.FilterMessage("skip list level lowered").Len())
}

func BenchmarkInsert(b *testing.B) {
	sl := MustNew[int](WithSeed(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sl.Insert(i)
	}
}

func BenchmarkFind(b *testing.B) {
	const n = 1 << 16
	sl := MustNew[int](WithSeed(1))
	for i := 0; i < n; i++ {
		sl.Insert(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sl.Find(i & (n - 1))
	}
}
