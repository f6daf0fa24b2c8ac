package datastream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// 檔案格式（LittleEndian）：
// Workload.Setup 不寫入檔案，讀回的 workload 全部操作都計時
// [8]byte  Magic: "SLBENCH1"
// uint16   Version: 1
// uint16   Reserved: 0
// uint32   DistCount
// 重複 DistCount 次（key 升冪）：
//   int64   Key
//   float64 Weight
// uint64   OpCount
// 重複 OpCount 次：
//   uint8   OperationType (0=Query,1=Insert,2=Delete)
//   int64   Key

var (
	benchMagic   = [8]byte{'S', 'L', 'B', 'E', 'N', 'C', 'H', '1'}
	benchVersion = uint16(1)
)

type benchHeader struct {
	Magic    [8]byte
	Version  uint16
	Reserved uint16
}

type distEntry struct {
	Key    int64
	Weight float64
}

type opEntry struct {
	Type uint8
	Key  int64
}

// WriteBenchFile 將 workload 以 SLBENCH1 格式寫入 w
func WriteBenchFile(w io.Writer, wl *Workload) error {
	bw := bufio.NewWriter(w)
	le := binary.LittleEndian

	if err := binary.Write(bw, le, benchHeader{Magic: benchMagic, Version: benchVersion}); err != nil {
		return err
	}

	keys := wl.Keys()
	if err := binary.Write(bw, le, uint32(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := binary.Write(bw, le, distEntry{Key: k, Weight: wl.Dist[k]}); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, le, uint64(len(wl.Ops))); err != nil {
		return err
	}
	for _, op := range wl.Ops {
		if err := binary.Write(bw, le, opEntry{Type: uint8(op.Type), Key: op.Key}); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadBenchFile 讀取 SLBENCH1 格式的 workload
func ReadBenchFile(r io.Reader) (*Workload, error) {
	br := bufio.NewReader(r)
	le := binary.LittleEndian

	var hdr benchHeader
	if err := readFull(br, &hdr, "header"); err != nil {
		return nil, err
	}
	if hdr.Magic != benchMagic {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, hdr.Magic[:])
	}
	if hdr.Version != benchVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, hdr.Version)
	}

	var distCount uint32
	if err := readFull(br, &distCount, "dist count"); err != nil {
		return nil, err
	}
	// distCount 來自檔案，預先配置的容量需設上限
	dist := make(map[int64]float64, min(distCount, 1<<16))
	for i := uint32(0); i < distCount; i++ {
		var e distEntry
		if err := readFull(br, &e, "dist entry"); err != nil {
			return nil, err
		}
		dist[e.Key] = e.Weight
	}

	var opCount uint64
	if err := binary.Read(br, le, &opCount); err != nil {
		return nil, wrapEOF(err, "op count")
	}
	ops := make([]Operation, 0, min(opCount, 1<<20))
	for i := uint64(0); i < opCount; i++ {
		var e opEntry
		if err := readFull(br, &e, "operation"); err != nil {
			return nil, err
		}
		if OperationType(e.Type) > OpDelete {
			return nil, fmt.Errorf("%w: %d at op %d", ErrUnknownOperation, e.Type, i)
		}
		ops = append(ops, Operation{Type: OperationType(e.Type), Key: e.Key})
	}

	return &Workload{Dist: dist, Ops: ops}, nil
}

func readFull(r io.Reader, data any, what string) error {
	return wrapEOF(binary.Read(r, binary.LittleEndian, data), what)
}

// 檔案在任何欄位中途結束都視為截斷
func wrapEOF(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("read %s: %w", what, err)
}

// SaveBenchFile 將 workload 寫入檔案
func SaveBenchFile(filename string, wl *Workload) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteBenchFile(file, wl); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return file.Close()
}

// LoadBenchFile 從檔案讀取 workload
func LoadBenchFile(filename string) (*Workload, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	wl, err := ReadBenchFile(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return wl, nil
}
