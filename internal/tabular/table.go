package tabular

import "sort"

type key struct {
	code     string
	scenario int
}

// 文档注释：只读索引表
// 背景：(code, 场景) 精确匹配；重复行以先出现者为准。
type Table struct {
	rows []Row
	idx  map[key]int
}

func NewTable(rows []Row) *Table {
	t := &Table{rows: rows, idx: make(map[key]int, len(rows))}
	for i, r := range rows {
		k := key{r.Code, r.Scenario}
		if _, dup := t.idx[k]; dup {
			continue
		}
		t.idx[k] = i
	}
	return t
}

func (t *Table) Rows() []Row { return t.rows }

func (t *Table) Len() int { return len(t.rows) }

// Find：按 code 与场景序号查找
func (t *Table) Find(code string, scenario int) (Row, bool) {
	if t == nil {
		return Row{}, false
	}
	i, ok := t.idx[key{code, scenario}]
	if !ok {
		return Row{}, false
	}
	return t.rows[i], true
}

// Value：查找并解析数值；无行或数值不可解析均返回 false
func (t *Table) Value(code string, scenario int) (float64, bool) {
	r, ok := t.Find(code, scenario)
	if !ok {
		return 0, false
	}
	return ParseValue(r.Value)
}

// Range：全部可解析数值的最小/最大值（跨场景，用于气泡大小的统一刻度）
func (t *Table) Range() (min, max float64, ok bool) {
	if t == nil {
		return 0, 0, false
	}
	for _, r := range t.rows {
		v, good := ParseValue(r.Value)
		if !good {
			continue
		}
		if !ok {
			min, max, ok = v, v, true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, ok
}

// Scenarios：出现过的场景序号（升序）
func (t *Table) Scenarios() []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range t.rows {
		if _, ok := seen[r.Scenario]; ok {
			continue
		}
		seen[r.Scenario] = struct{}{}
		out = append(out, r.Scenario)
	}
	sort.Ints(out)
	return out
}

// View：固定场景的数值视图
type View struct {
	t        *Table
	scenario int
}

func (t *Table) Scenario(s int) View { return View{t: t, scenario: s} }

func (v View) Value(code string) (float64, bool) { return v.t.Value(code, v.scenario) }
