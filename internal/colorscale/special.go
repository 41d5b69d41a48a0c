package colorscale

import "math"

// SpecialKind：特例处理方式
type SpecialKind int

const (
	// KindPattern：斜线图案，前景/背景分别取两个来源地区的颜色
	KindPattern SpecialKind = iota + 1
	// KindSubstitute：整体替换为来源地区的颜色
	KindSubstitute
)

const (
	CodeAksaiChin = "C00002"
	CodeKosovo    = "412"

	codeChina   = "156"
	codeKashmir = "C00007"
	codeSerbia  = "688"
)

// Special：特例规则；KindPattern 的 Sources 依次为前景、背景来源
type Special struct {
	Kind    SpecialKind
	Sources []string
}

// 文档注释：争议地区特例表
// 约束：仅此两项，不做推广；新增条目须有明确的业务口径。
var specialCases = map[string]Special{
	CodeAksaiChin: {Kind: KindPattern, Sources: []string{codeChina, codeKashmir}},
	CodeKosovo:    {Kind: KindSubstitute, Sources: []string{codeSerbia}},
}

// SpecialCase：查询特例规则（返回副本）
func SpecialCase(code string) (Special, bool) {
	sp, ok := specialCases[code]
	if !ok {
		return Special{}, false
	}
	sp.Sources = append([]string(nil), sp.Sources...)
	return sp, true
}

// Pattern：图案填充描述
type Pattern struct {
	Path            PatternPath `json:"path"`
	Width           int         `json:"width"`
	Height          int         `json:"height"`
	Color           string      `json:"color"`
	BackgroundColor string      `json:"backgroundColor"`
}

type PatternPath struct {
	D           string  `json:"d"`
	StrokeWidth float64 `json:"strokeWidth"`
}

const hatchPath = "M 0 10 L 10 0 M -1 1 L 1 -1 M 9 11 L 11 9"

// hatch：10×10 斜线图案
func hatch(fg, bg string) *Pattern {
	return &Pattern{
		Path:            PatternPath{D: hatchPath, StrokeWidth: 2.5 * math.Sqrt2},
		Width:           10,
		Height:          10,
		Color:           fg,
		BackgroundColor: bg,
	}
}
