package analyTool

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/Hakuto4838/skipset/skiplist"
	"github.com/olekukonko/tablewriter"
)

var ErrBrokenStruct = errors.New("broken skip list structure")

type StepMap[K cmp.Ordered] map[K]int

func isTail[K cmp.Ordered](nd skiplist.Nodelike[K]) bool {
	return nd == nil || nd.GetBound() == skiplist.PosInf
}

func keyString[K cmp.Ordered](nd skiplist.Nodelike[K]) string {
	if nd.GetBound() != skiplist.Finite {
		return nd.GetBound().String()
	}
	return fmt.Sprint(nd.GetKey())
}

// FindStep 計算找到指定 key 的總步數和各層水平步數。
// 路徑與 Find 相同：每層往右走到下一個節點不小於 key，再往下一層，
// 最後在 level 0 多走一步到候選節點
func FindStep[K cmp.Ordered](sl skiplist.Analyable[K], key K) (step int, level []int) {
	cur := sl.GetHead()
	_, maxLevel := sl.GetMaxStats()
	stepsPerLevel := make([]int, maxLevel)

	for h := maxLevel - 1; h >= 0; h-- {
		levelSteps := 0
		for {
			next := cur.GetNextAt(h)
			if isTail(next) || skiplist.Compare(next.GetBound(), next.GetKey(), skiplist.Finite, key) >= 0 {
				break
			}
			cur = next
			levelSteps++
		}
		stepsPerLevel[h] = levelSteps
		step += levelSteps
		if h > 0 {
			step++ // 下降也算一步
		}
	}
	return step + 1, stepsPerLevel
}

// AnalyzeStep 根據 weights 提供的 key 出現機率計算平均搜尋步數，
// 不在 list 中的 key 不計入
func AnalyzeStep[K cmp.Ordered](sl skiplist.Analyable[K], weights map[K]float64) (float64, StepMap[K]) {
	if len(weights) == 0 {
		return 0.0, nil
	}

	step := StepMap[K]{}
	var totalExpectedSteps float64
	var totalProbability float64
	for k, p := range weights {
		if !sl.Contains(k) {
			continue
		}
		s, _ := FindStep(sl, k)
		step[k] = s
		totalExpectedSteps += float64(s) * p
		totalProbability += p
	}

	if totalProbability > 0 {
		return totalExpectedSteps / totalProbability, step
	}
	return 0.0, step
}

// PrintSkipList 打印 skip list 的結構，head 與 tail 以 -inf / +inf 表示
func PrintSkipList[K cmp.Ordered](w io.Writer, sl skiplist.Analyable[K], maxLevel, maxNodes int) {
	_, actualMaxLevel := sl.GetMaxStats()
	maxLevel = min(maxLevel, actualMaxLevel)
	output := make([]string, maxLevel)
	for i := range output {
		output[i] = fmt.Sprintf("level %d : ", i)
	}

	node := sl.GetHead()
	for count := 0; node != nil && count < maxNodes; count++ {
		lv := node.GetLevel()
		label := keyString(node)
		for i := range output {
			if i < lv {
				output[i] += fmt.Sprintf("%4s ->", label)
			} else {
				output[i] += "     ->"
			}
		}
		if isTail(node) {
			break
		}
		node = node.GetNextAt(0)
	}

	for i := maxLevel - 1; i >= 0; i-- {
		fmt.Fprintln(w, output[i])
	}
}

// PrintSkipListToCSV 將 skip list 的結構輸出到 CSV，每層一列
func PrintSkipListToCSV[K cmp.Ordered](sl skiplist.Analyable[K], maxLevel, maxNodes int, writer *csv.Writer) error {
	_, actualMaxLevel := sl.GetMaxStats()
	maxLevel = min(maxLevel, actualMaxLevel)

	var nodes []skiplist.Nodelike[K]
	for nd := sl.GetHead().GetNextAt(0); !isTail(nd) && len(nodes) < maxNodes; nd = nd.GetNextAt(0) {
		nodes = append(nodes, nd)
	}

	for i := maxLevel - 1; i >= 0; i-- {
		row := make([]string, 0, len(nodes)+1)
		row = append(row, fmt.Sprintf("level %d", i))
		for _, nd := range nodes {
			if nd.GetLevel() > i {
				row = append(row, keyString(nd))
			} else {
				row = append(row, "")
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CheckStruct 檢查 skip list 的結構是否正確：
// 每層由 head 出發、key 不遞減並結束於 tail；
// 第 h 層的節點恰為 level 0 中層數大於 h 的節點（依相同順序）；
// 目前最高層有實際節點（list 為空時除外）
func CheckStruct[K cmp.Ordered](sl skiplist.Analyable[K]) error {
	nodes, level := sl.GetMaxStats()
	head := sl.GetHead()
	if head == nil || head.GetBound() != skiplist.NegInf {
		return fmt.Errorf("%w: head is not a -inf sentinel", ErrBrokenStruct)
	}
	maxLevel := head.GetLevel()
	if level < 1 || level > maxLevel {
		return fmt.Errorf("%w: level %d outside [1, %d]", ErrBrokenStruct, level, maxLevel)
	}

	var base []skiplist.Nodelike[K]
	for h := 0; h < maxLevel; h++ {
		var chain []skiplist.Nodelike[K]
		prev := head
		cur := head.GetNextAt(h)
		for cur != nil && cur.GetBound() == skiplist.Finite {
			if cur.GetLevel() <= h {
				return fmt.Errorf("%w: node %s with %d levels linked on level %d", ErrBrokenStruct, keyString(cur), cur.GetLevel(), h)
			}
			if skiplist.Compare(prev.GetBound(), prev.GetKey(), cur.GetBound(), cur.GetKey()) > 0 {
				return fmt.Errorf("%w: level %d out of order at %s -> %s", ErrBrokenStruct, h, keyString(prev), keyString(cur))
			}
			chain = append(chain, cur)
			if len(chain) > nodes {
				return fmt.Errorf("%w: level %d has more than %d nodes", ErrBrokenStruct, h, nodes)
			}
			prev = cur
			cur = cur.GetNextAt(h)
		}
		if cur == nil || cur.GetBound() != skiplist.PosInf {
			return fmt.Errorf("%w: level %d does not end at the tail sentinel", ErrBrokenStruct, h)
		}

		if h == 0 {
			if len(chain) != nodes {
				return fmt.Errorf("%w: level 0 has %d nodes, want %d", ErrBrokenStruct, len(chain), nodes)
			}
			base = chain
		} else {
			j := 0
			for _, nd := range base {
				if nd.GetLevel() <= h {
					continue
				}
				if j >= len(chain) || chain[j] != nd {
					return fmt.Errorf("%w: node %s missing from level %d", ErrBrokenStruct, keyString(nd), h)
				}
				j++
			}
			if j != len(chain) {
				return fmt.Errorf("%w: level %d links a node absent from level 0", ErrBrokenStruct, h)
			}
		}

		if h >= level && len(chain) > 0 {
			return fmt.Errorf("%w: level %d populated above current level %d", ErrBrokenStruct, h, level)
		}
		if h == level-1 && len(chain) == 0 && nodes > 0 && level > 1 {
			return fmt.Errorf("%w: top level %d is empty", ErrBrokenStruct, h)
		}
	}
	return nil
}

// CountLevel 回傳每層的節點數量
func CountLevel[K cmp.Ordered](sl skiplist.Analyable[K]) []int {
	_, maxLevel := sl.GetMaxStats()
	levelCounts := make([]int, maxLevel)

	for cur := sl.GetHead().GetNextAt(0); !isTail(cur); cur = cur.GetNextAt(0) {
		for i := 0; i < cur.GetLevel() && i < len(levelCounts); i++ {
			levelCounts[i]++
		}
	}
	return levelCounts
}

// RenderLevelTable 以表格輸出每層節點數量與相對上一層的比例
func RenderLevelTable[K cmp.Ordered](w io.Writer, sl skiplist.Analyable[K]) {
	counts := CountLevel(sl)
	rows := make([][]string, 0, len(counts))
	for i := len(counts) - 1; i >= 0; i-- {
		ratio := "-"
		if i > 0 && counts[i-1] > 0 {
			ratio = strconv.FormatFloat(float64(counts[i])/float64(counts[i-1]), 'f', 3, 64)
		}
		rows = append(rows, []string{strconv.Itoa(i), strconv.Itoa(counts[i]), ratio})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Level", "Nodes", "Ratio"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func (mp StepMap[K]) Print(w io.Writer) {
	keys := make([]K, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		fmt.Fprintf(w, "%4v  ", k)
	}
	fmt.Fprintln(w)
	for _, k := range keys {
		fmt.Fprintf(w, "%4d  ", mp[k])
	}
	fmt.Fprintln(w)
}
