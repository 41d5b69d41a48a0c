// 包 colorscale：数值 → 颜色映射（连续插值 / 离散分段）及争议地区的特例处理
package colorscale

import (
	"encoding/json"
	"os"
)

// Mode：continuous 为连续色带插值，其余取值一律按离散分段处理
type Mode string

const (
	Continuous Mode = "continuous"
	Discrete   Mode = "discrete"
)

// Stop：连续色带节点
type Stop struct {
	Position float64 `json:"position"`
	Color    string  `json:"color"`
}

// Range：离散分段，From/To 为 nil 分别表示 -∞/+∞，两端均为闭区间
type Range struct {
	From  *float64 `json:"fromValue"`
	To    *float64 `json:"toValue"`
	Color string   `json:"color"`
}

// 文档注释：配色设置（会话期只读）
// 背景：来自 settings.json 的 non_dw 段；LineWidth 为边界线宽显示参数。
type Settings struct {
	Mode      Mode    `json:"mode"`
	Stops     []Stop  `json:"stops"`
	Ranges    []Range `json:"ranges"`
	LineWidth float64 `json:"lineWidth"`
}

const defaultLineWidth = 1.0

type section struct {
	Colorscale struct {
		Mode   Mode   `json:"mode"`
		Colors []Stop `json:"colors"`
	} `json:"colorscale"`
	ColorRanges []Range  `json:"colorRanges"`
	LineWidth   *float64 `json:"lineWidth"`
}

type document struct {
	NonDW *section `json:"non_dw"`
	section
}

// 文档注释：解析设置文档
// 背景：优先读取 non_dw 段，缺失时按顶层字段读取；颜色统一规整为小写 6 位十六进制。
func ParseSettings(b []byte) (*Settings, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	sec := doc.section
	if doc.NonDW != nil {
		sec = *doc.NonDW
	}
	s := &Settings{
		Mode:      sec.Colorscale.Mode,
		Stops:     sec.Colorscale.Colors,
		Ranges:    sec.ColorRanges,
		LineWidth: defaultLineWidth,
	}
	if sec.LineWidth != nil {
		s.LineWidth = *sec.LineWidth
	}
	s.normalize()
	return s, nil
}

func LoadSettings(path string) (*Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSettings(b)
}

func (s *Settings) normalize() {
	for i := range s.Stops {
		s.Stops[i].Color = NormalizeHex(s.Stops[i].Color)
	}
	for i := range s.Ranges {
		s.Ranges[i].Color = NormalizeHex(s.Ranges[i].Color)
	}
}
