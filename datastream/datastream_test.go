package datastream

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequential(t *testing.T) {
	wl, err := Sequential(10)
	require.NoError(t, err)

	q, ins, del := wl.Count()
	assert.Equal(t, 10, ins)
	assert.Equal(t, 5, q)
	assert.Equal(t, 5, del)

	assert.Equal(t, Operation{Type: OpQuery, Key: 8}, wl.Ops[10])
	assert.Equal(t, Operation{Type: OpQuery, Key: 0}, wl.Ops[14])
	assert.Equal(t, Operation{Type: OpDelete, Key: 8}, wl.Ops[15])
	assert.Equal(t, []int64{1, 3, 5, 7, 9}, wl.LiveKeys())
	// 插入階段不計時
	assert.Equal(t, 10, wl.Setup)
	assert.Equal(t, wl.Ops[10:], wl.Timed())
	assert.InDelta(t, math.Log2(10), wl.Entropy(), 1e-9)

	_, err = Sequential(0)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestSequentialOddCount(t *testing.T) {
	wl, err := Sequential(7)
	require.NoError(t, err)
	assert.Equal(t, Operation{Type: OpQuery, Key: 6}, wl.Ops[7])
	assert.Equal(t, []int64{1, 3, 5}, wl.LiveKeys())
	assert.Len(t, wl.Timed(), 8)
}

func TestLiveKeysFullRange(t *testing.T) {
	wl := &Workload{Ops: []Operation{
		{Type: OpInsert, Key: 1},
		{Type: OpInsert, Key: 1<<32 + 1},
		{Type: OpInsert, Key: -5},
		{Type: OpInsert, Key: math.MinInt64},
		{Type: OpInsert, Key: math.MaxInt64},
		{Type: OpDelete, Key: 1},
	}}
	assert.Equal(t, []int64{math.MinInt64, -5, 1<<32 + 1, math.MaxInt64}, wl.LiveKeys())
	assert.Equal(t, uint64(4), wl.Live().GetCardinality())

	for _, k := range []int64{math.MinInt64, -1, 0, 1, math.MaxInt64} {
		assert.Equal(t, k, KeyOf(LiveKey(k)))
	}
	assert.Less(t, LiveKey(-1), LiveKey(0))
}

func TestTimedClampsSetup(t *testing.T) {
	ops := []Operation{{Type: OpInsert, Key: 1}, {Type: OpQuery, Key: 1}}
	assert.Equal(t, ops, (&Workload{Ops: ops}).Timed())
	assert.Equal(t, ops, (&Workload{Ops: ops, Setup: -3}).Timed())
	assert.Empty(t, (&Workload{Ops: ops, Setup: 5}).Timed())
}

func TestGenerateZipf(t *testing.T) {
	cfg := GenConfig{N: 50, S: 1.2, V: 1, Seed: 42, K: 2000, Phase1Ratio: 0.5, DeleteRatio: 0.1}
	wl, err := Generate(cfg)
	require.NoError(t, err)
	require.Len(t, wl.Ops, cfg.K)
	require.Len(t, wl.Dist, cfg.N)

	total := 0.0
	for _, p := range wl.Dist {
		total += p
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	// 第一次出現必為 Insert，Query/Delete 只會發生在 key 存在時
	present := map[int64]bool{}
	for i, op := range wl.Ops {
		_, known := wl.Dist[op.Key]
		require.True(t, known, "op[%d] key %d not in dist", i, op.Key)
		switch op.Type {
		case OpInsert:
			require.False(t, present[op.Key], "op[%d] inserts a present key", i)
			present[op.Key] = true
		case OpQuery:
			require.True(t, present[op.Key], "op[%d] queries an absent key", i)
		case OpDelete:
			require.True(t, present[op.Key], "op[%d] deletes an absent key", i)
			present[op.Key] = false
		}
	}

	again, err := Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, wl.Ops, again.Ops)
}

func TestGenerateUniformSimpleKey(t *testing.T) {
	wl, err := Generate(GenConfig{N: 16, Seed: 1, K: 100, Phase1Ratio: 0.5, DeleteRatio: 0.2, SimpleKey: true})
	require.NoError(t, err)
	for k, p := range wl.Dist {
		assert.GreaterOrEqual(t, k, int64(0))
		assert.Less(t, k, int64(16))
		assert.InDelta(t, 1.0/16, p, 1e-12)
	}
	assert.InDelta(t, 4.0, wl.Entropy(), 1e-9)
}

func TestGenerateInvalid(t *testing.T) {
	cases := []GenConfig{
		{N: 0, K: 10, Phase1Ratio: 1},
		{N: 10, S: 0.5, V: 1, K: 100, Phase1Ratio: 0.5},
		{N: 10, S: 1.5, V: 0.5, K: 100, Phase1Ratio: 0.5},
		{N: 10, K: 5, Phase1Ratio: 1},
		{N: 10, K: 100, Phase1Ratio: 0.05},
		{N: 10, K: 100, Phase1Ratio: 0.5, DeleteRatio: 1.5},
	}
	for _, c := range cases {
		_, err := Generate(c)
		assert.ErrorIs(t, err, ErrInvalidParams, "%+v", c)
	}
}

func TestWriteAndReadBenchFile(t *testing.T) {
	wl, err := Generate(GenConfig{N: 8, S: 1.2, V: 1, Seed: 42, K: 200, Phase1Ratio: 0.5, DeleteRatio: 0.1})
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "bench.bin")
	require.NoError(t, SaveBenchFile(file, wl))

	got, err := LoadBenchFile(file)
	require.NoError(t, err)
	assert.Equal(t, wl.Dist, got.Dist)
	assert.Equal(t, wl.Ops, got.Ops)

	m := got.ToSequenceModel()
	first := m.NextN(3)
	assert.Equal(t, wl.Ops[:3], first)
	count := len(first)
	for {
		if _, ok := m.Next(); !ok {
			break
		}
		count++
	}
	assert.Equal(t, len(wl.Ops), count)
	m.Reset()
	op, ok := m.Next()
	assert.True(t, ok)
	assert.Equal(t, wl.Ops[0], op)
}

func TestBenchFileLayout(t *testing.T) {
	wl := &Workload{
		Dist: map[int64]float64{7: 0.25, -3: 0.75},
		Ops:  []Operation{{Type: OpInsert, Key: 7}, {Type: OpDelete, Key: -3}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteBenchFile(&buf, wl))

	raw := buf.Bytes()
	// header 12 + count 4 + 2*16 + count 8 + 2*9
	require.Len(t, raw, 12+4+32+8+18)
	assert.Equal(t, []byte("SLBENCH1"), raw[:8])
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(raw[8:]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(raw[12:]))
	// 分布依 key 升冪
	assert.Equal(t, int64(-3), int64(binary.LittleEndian.Uint64(raw[16:])))
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(raw[48:]))
	assert.Equal(t, byte(OpInsert), raw[56])
}

func TestReadBenchFileErrors(t *testing.T) {
	wl := &Workload{
		Dist: map[int64]float64{1: 1},
		Ops:  []Operation{{Type: OpInsert, Key: 1}, {Type: OpQuery, Key: 1}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteBenchFile(&buf, wl))
	good := buf.Bytes()

	t.Run("magic", func(t *testing.T) {
		bad := bytes.Clone(good)
		copy(bad, "NOTBENCH")
		_, err := ReadBenchFile(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("version", func(t *testing.T) {
		bad := bytes.Clone(good)
		binary.LittleEndian.PutUint16(bad[8:], 9)
		_, err := ReadBenchFile(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("operation", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[len(bad)-9] = 7
		_, err := ReadBenchFile(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrUnknownOperation)
	})

	t.Run("truncated", func(t *testing.T) {
		for _, n := range []int{0, 5, 14, len(good) - 1} {
			_, err := ReadBenchFile(bytes.NewReader(good[:n]))
			assert.ErrorIs(t, err, io.ErrUnexpectedEOF, "cut at %d", n)
		}
	})

	t.Run("huge dist count", func(t *testing.T) {
		bad := bytes.Clone(good[:16])
		binary.LittleEndian.PutUint32(bad[12:], math.MaxUint32)
		_, err := ReadBenchFile(bytes.NewReader(bad))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	_, err := LoadBenchFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestOperationTypeString(t *testing.T) {
	assert.Equal(t, "Query", OpQuery.String())
	assert.Equal(t, "Insert", OpInsert.String())
	assert.Equal(t, "Delete", OpDelete.String())
	assert.Equal(t, "Unknown", OperationType(9).String())
}
