// 包 scene：解码几何 × 场景数据 × 配色 → 可渲染图层
package scene

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/colorscale"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/topo"
)

const (
	// TransparentColor：提示层与区域边框使用的全透明色
	TransparentColor = "rgba(0, 0, 0, 0)"
	// BackgroundColor：气泡模式下填充层的统一底色
	BackgroundColor = "#dad4d0"
)

// ColorPolicy：区域图层的着色策略
type ColorPolicy int

const (
	ByValue ColorPolicy = iota
	Transparent
	FlatBackground
)

// Shape：缓存的解码几何，GeoJSON 形式在会话构建时生成一次
type Shape struct {
	Code     string
	Type     topo.GeometryType
	Geometry orb.Geometry
	JSON     *geojson.Geometry
}

func newShapes(ds []topo.Decoded) []Shape {
	out := make([]Shape, 0, len(ds))
	for _, d := range ds {
		out = append(out, Shape{Code: d.Code(), Type: d.Type, Geometry: d.Geometry, JSON: geojson.NewGeometry(d.Geometry)})
	}
	return out
}

// RegionRecord：区域填充/提示层的一条记录
type RegionRecord struct {
	Code        string            `json:"code"`
	Name        string            `json:"name"`
	Value       *float64          `json:"value"`
	Color       colorscale.Fill   `json:"color"`
	BorderColor string            `json:"borderColor"`
	BorderWidth float64           `json:"borderWidth"`
	Geometry    *geojson.Geometry `json:"geometry"`
}

// LineRecord：边界线图层的一条记录，name 为区域代码
type LineRecord struct {
	Name     string            `json:"name"`
	Geometry *geojson.Geometry `json:"geometry"`
}

type Marker struct {
	LineColor string `json:"lineColor"`
}

// BubbleRecord：气泡图层记录，z 决定气泡大小
type BubbleRecord struct {
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	Lat    float64  `json:"lat"`
	Lon    float64  `json:"lon"`
	Value  *float64 `json:"value"`
	Z      *float64 `json:"z"`
	Color  string   `json:"color"`
	Marker Marker   `json:"marker"`
}

type RegionLayer struct {
	Name    string         `json:"name"`
	Visible bool           `json:"visible"`
	Data    []RegionRecord `json:"data"`
}

type BorderLayer struct {
	Name      string       `json:"name"`
	DashStyle string       `json:"dashStyle"`
	Data      []LineRecord `json:"data"`
}

type BubbleLayer struct {
	Name    string         `json:"name"`
	Visible bool           `json:"visible"`
	ZMin    *float64       `json:"zMin"`
	ZMax    *float64       `json:"zMax"`
	Data    []BubbleRecord `json:"data"`
}

// 文档注释：一次场景构建的完整输出
// 约束：Seq 只对当前场景有意义，按需构建（可被缓存复用）的场景不带 Seq。
// Borders 在会话内不随场景变化，各次构建共享同一份切片，只读使用。
type Scene struct {
	Version   string        `json:"version"`
	Seq       uint64        `json:"seq,omitempty"`
	Scenario  int           `json:"scenario"`
	BubbleMap bool          `json:"bubbleMap"`
	LineWidth float64       `json:"lineWidth"`
	Regions   RegionLayer   `json:"regions"`
	Tooltips  RegionLayer   `json:"tooltips"`
	Borders   []BorderLayer `json:"borders"`
	Bubbles   BubbleLayer   `json:"bubbles"`
}
