// 包 topo：TopoJSON 拓扑解码（共享弧 + 仿射变换 → 绝对坐标几何）
package topo

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// 文档注释：几何类型
// 约束：解码只支持线与面四种类型；Point 仅用于点位对象（DecodePoints）
type GeometryType string

const (
	LineString      GeometryType = "LineString"
	MultiLineString GeometryType = "MultiLineString"
	Polygon         GeometryType = "Polygon"
	MultiPolygon    GeometryType = "MultiPolygon"
	Point           GeometryType = "Point"
)

// Position：网格坐标（arc[0] 为绝对值，其后为相对上一点的增量）
type Position [2]float64

// UnmarshalJSON：容忍三维及以上的坐标，只取前两维
func (p *Position) UnmarshalJSON(b []byte) error {
	var raw []float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) < 2 {
		return fmt.Errorf("topo: position needs 2 components, got %d", len(raw))
	}
	p[0], p[1] = raw[0], raw[1]
	return nil
}

// Arc：增量编码折线，被多个几何按索引共享引用
type Arc []Position

// 文档注释：拓扑文档
// 背景：加载后只读，所有解码调用共享；Transform 缺省时按恒等变换处理。
type Topology struct {
	Type      string             `json:"type"`
	Arcs      []Arc              `json:"arcs"`
	Transform *Transform         `json:"transform,omitempty"`
	Objects   map[string]*Object `json:"objects"`

	rescale float64
}

// Object：命名几何集合（GeometryCollection）
type Object struct {
	Type       string     `json:"type"`
	Geometries []Geometry `json:"geometries"`
}

// 文档注释：拓扑几何
// 背景：arcs 的嵌套层级随类型变化，解析时统一规整为 parts → 线/环 → 弧引用 三层。
// 约束：LineString/MultiLineString/Polygon 只有一个 part；MultiPolygon 每个多边形一个 part。
// 形状与类型不符时不会让整个文档失败，而是记录在 shapeErr 中，解码该几何时返回错误。
type Geometry struct {
	Type        GeometryType
	Parts       [][][]int
	Coordinates []float64
	Properties  Properties

	shapeErr error
}

type rawGeometry struct {
	Type        GeometryType    `json:"type"`
	Arcs        json.RawMessage `json:"arcs,omitempty"`
	Coordinates []float64       `json:"coordinates,omitempty"`
	Properties  Properties      `json:"properties,omitempty"`
}

func (g *Geometry) UnmarshalJSON(b []byte) error {
	var raw rawGeometry
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	g.Type = raw.Type
	g.Coordinates = raw.Coordinates
	g.Properties = raw.Properties
	g.Parts = nil
	g.shapeErr = nil
	if len(raw.Arcs) == 0 || string(raw.Arcs) == "null" {
		return nil
	}
	switch raw.Type {
	case LineString:
		var refs []int
		if err := json.Unmarshal(raw.Arcs, &refs); err != nil {
			g.shapeErr = fmt.Errorf("%w: %s: %v", ErrArcShape, raw.Type, err)
			return nil
		}
		g.Parts = [][][]int{{refs}}
	case MultiLineString, Polygon:
		var lines [][]int
		if err := json.Unmarshal(raw.Arcs, &lines); err != nil {
			g.shapeErr = fmt.Errorf("%w: %s: %v", ErrArcShape, raw.Type, err)
			return nil
		}
		g.Parts = [][][]int{lines}
	case MultiPolygon:
		var polys [][][]int
		if err := json.Unmarshal(raw.Arcs, &polys); err != nil {
			g.shapeErr = fmt.Errorf("%w: %s: %v", ErrArcShape, raw.Type, err)
			return nil
		}
		g.Parts = polys
	}
	return nil
}

func (g Geometry) MarshalJSON() ([]byte, error) {
	raw := rawGeometry{Type: g.Type, Coordinates: g.Coordinates, Properties: g.Properties}
	var arcs any
	switch g.Type {
	case LineString:
		if len(g.Parts) > 0 && len(g.Parts[0]) > 0 {
			arcs = g.Parts[0][0]
		}
	case MultiLineString, Polygon:
		if len(g.Parts) > 0 {
			arcs = g.Parts[0]
		}
	case MultiPolygon:
		arcs = g.Parts
	}
	if arcs != nil {
		b, err := json.Marshal(arcs)
		if err != nil {
			return nil, err
		}
		raw.Arcs = b
	}
	return json.Marshal(raw)
}

// Properties：几何属性透传（code、labelen、labelfr 等）
type Properties map[string]any

// Code：区域代码；数字型代码转换为十进制字符串
func (p Properties) Code() string { return p.str("code") }

func (p Properties) LabelEN() string { return p.str("labelen") }

func (p Properties) LabelFR() string { return p.str("labelfr") }

func (p Properties) str(k string) string {
	switch v := p[k].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	}
	return ""
}
