package colorscale

import (
	"encoding/json"
	"errors"
	"math"
)

// Neutral：无数据或未命中任何分段时的中性灰
const Neutral = "#DDDDDD"

// ValueSource：按区域代码查询当前场景的数值（特例地区借用邻区数据时使用）
type ValueSource interface {
	Value(code string) (float64, bool)
}

// Resolver：基于只读配色设置的颜色解析器
type Resolver struct {
	s Settings
}

func NewResolver(s *Settings) *Resolver {
	r := &Resolver{}
	if s != nil {
		r.s = *s
	}
	return r
}

func (r *Resolver) Settings() Settings { return r.s }

// 文档注释：数值 → 基础颜色
// 连续模式：顺序扫描节点，取最后一个 position ≤ v 的节点为下界、第一个 position > v 的节点为上界；
// 两者都存在时逐通道线性插值并四舍五入，低于全部节点取首节点颜色，高于全部节点取末节点颜色（不外推）。
// 离散模式：按列表顺序返回第一个 from ≤ v ≤ to 的分段颜色，重叠分段以顺序优先。
// 约束：v 为 nil 或 NaN 返回中性灰；连续模式但没有任何节点时按离散分段处理。
func (r *Resolver) Base(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return Neutral
	}
	x := *v
	if r.s.Mode == Continuous {
		var lower, upper *Stop
		for i := range r.s.Stops {
			st := &r.s.Stops[i]
			if st.Position <= x {
				lower = st
			} else {
				upper = st
				break
			}
		}
		if lower != nil && upper != nil {
			return interpolate(*lower, *upper, x)
		}
		if lower != nil {
			return lower.Color
		}
		if upper != nil {
			return upper.Color
		}
	}
	for _, rg := range r.s.Ranges {
		from := math.Inf(-1)
		if rg.From != nil {
			from = *rg.From
		}
		to := math.Inf(1)
		if rg.To != nil {
			to = *rg.To
		}
		if x >= from && x <= to {
			return rg.Color
		}
	}
	return Neutral
}

func interpolate(lower, upper Stop, x float64) string {
	ratio := (x - lower.Position) / (upper.Position - lower.Position)
	lc, _ := ParseHex(lower.Color)
	uc, _ := ParseHex(upper.Color)
	mix := func(a, b int) int { return int(math.Floor(float64(a) + ratio*float64(b-a) + 0.5)) }
	return RGB{R: mix(lc.R, uc.R), G: mix(lc.G, uc.G), B: mix(lc.B, uc.B)}.Hex()
}

// 文档注释：数值 + 区域代码 → 填充
// 背景：少数地区没有独立数据，需借用或混合邻区的分类结果，规则见 specialCases。
// 约束：特例代码无论自身数值为何都走特例；借用的数值查不到时按空值处理（中性灰）。
func (r *Resolver) Resolve(v *float64, code string, src ValueSource) Fill {
	sp, ok := specialCases[code]
	if !ok {
		return Fill{Color: r.Base(v)}
	}
	lookup := func(c string) *float64 {
		if src == nil {
			return nil
		}
		if x, ok := src.Value(c); ok {
			return &x
		}
		return nil
	}
	switch sp.Kind {
	case KindPattern:
		return Fill{Pattern: hatch(r.Base(lookup(sp.Sources[0])), r.Base(lookup(sp.Sources[1])))}
	case KindSubstitute:
		return Fill{Color: r.Base(lookup(sp.Sources[0]))}
	}
	return Fill{Color: r.Base(v)}
}

// Fill：纯色或图案填充，二者其一
type Fill struct {
	Color   string
	Pattern *Pattern
}

func (f Fill) IsPattern() bool { return f.Pattern != nil }

// MarshalJSON：纯色输出为字符串，图案输出为 {"pattern": {...}}
func (f Fill) MarshalJSON() ([]byte, error) {
	if f.Pattern != nil {
		return json.Marshal(struct {
			Pattern *Pattern `json:"pattern"`
		}{f.Pattern})
	}
	return json.Marshal(f.Color)
}

func (f *Fill) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = Fill{Color: s}
		return nil
	}
	var obj struct {
		Pattern *Pattern `json:"pattern"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Pattern == nil {
		return errors.New("colorscale: fill is neither a color nor a pattern")
	}
	*f = Fill{Pattern: obj.Pattern}
	return nil
}
