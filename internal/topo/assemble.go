package topo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/metrics"
)

// flattening：按几何类型选择的展平策略
type flattening int

const (
	// 全部弧首尾拼接为一条线（LineString、MultiLineString 不保留子线边界）
	flattenLine flattening = iota
	// 全部环拼接为一个环（Polygon 不保留内外环边界）
	flattenPolygon
	// 每个多边形的环各自拼接，一个多边形对应一个环
	flattenMultiPolygon
)

func policyFor(t GeometryType) (flattening, bool) {
	switch t {
	case LineString, MultiLineString:
		return flattenLine, true
	case Polygon:
		return flattenPolygon, true
	case MultiPolygon:
		return flattenMultiPolygon, true
	}
	return 0, false
}

// 文档注释：解码结果
// 约束：Geometry 为 orb.LineString（线类）、orb.Polygon（单环）或 orb.MultiPolygon（每个多边形单环）；
// Type 保留源类型，Properties 原样透传。
type Decoded struct {
	Type       GeometryType
	Geometry   orb.Geometry
	Properties Properties
}

func (d Decoded) Code() string { return d.Properties.Code() }

// Decode：按几何类型对应的展平策略解码单个几何
func (t *Topology) Decode(g *Geometry) (Decoded, error) {
	if g.shapeErr != nil {
		return Decoded{}, g.shapeErr
	}
	pol, ok := policyFor(g.Type)
	if !ok {
		return Decoded{}, fmt.Errorf("%w: %q", ErrGeometryType, g.Type)
	}
	out := Decoded{Type: g.Type, Properties: g.Properties}
	switch pol {
	case flattenLine, flattenPolygon:
		var groups [][]int
		if len(g.Parts) > 0 {
			groups = g.Parts[0]
		}
		pts, err := t.joinArcs(groups)
		if err != nil {
			return Decoded{}, err
		}
		if pol == flattenLine {
			out.Geometry = orb.LineString(pts)
		} else {
			out.Geometry = orb.Polygon{orb.Ring(pts)}
		}
	case flattenMultiPolygon:
		mp := make(orb.MultiPolygon, 0, len(g.Parts))
		for _, rings := range g.Parts {
			pts, err := t.joinArcs(rings)
			if err != nil {
				return Decoded{}, err
			}
			mp = append(mp, orb.Polygon{orb.Ring(pts)})
		}
		out.Geometry = mp
	}
	return out, nil
}

func isLine(t GeometryType) bool { return t == LineString || t == MultiLineString }

func isPolygon(t GeometryType) bool { return t == Polygon || t == MultiPolygon }

// 文档注释：解码边界线对象
// 背景：逐个几何解码；对象不存在时记录错误并返回空集合（该图层不绘制）。
// 返回：解码结果与被跳过的几何数量（弧索引越界、形状不符或非线类型）。
func (t *Topology) DecodeLines(name string) ([]Decoded, int) {
	return t.decodeObject(name, isLine)
}

// 文档注释：解码区域面对象，语义同 DecodeLines
func (t *Topology) DecodePolygons(name string) ([]Decoded, int) {
	return t.decodeObject(name, isPolygon)
}

func (t *Topology) decodeObject(name string, accept func(GeometryType) bool) ([]Decoded, int) {
	l := logger.Component("topo")
	obj, ok := t.Objects[name]
	if !ok || obj == nil {
		l.Error("topo_object_missing", "name", name)
		metrics.ObjectMissingTotal.WithLabelValues(name).Inc()
		return []Decoded{}, 0
	}
	out := make([]Decoded, 0, len(obj.Geometries))
	skipped := 0
	for i := range obj.Geometries {
		g := &obj.Geometries[i]
		if !accept(g.Type) {
			skipped++
			l.Warn("topo_geometry_skipped", "object", name, "index", i, "code", g.Properties.Code(), "err", fmt.Errorf("%w: %q", ErrGeometryType, g.Type))
			continue
		}
		d, err := t.Decode(g)
		if err != nil {
			skipped++
			l.Warn("topo_geometry_skipped", "object", name, "index", i, "code", g.Properties.Code(), "err", err)
			continue
		}
		out = append(out, d)
	}
	metrics.GeometriesDecodedTotal.WithLabelValues(name).Add(float64(len(out)))
	if skipped > 0 {
		metrics.GeometriesSkippedTotal.WithLabelValues(name).Add(float64(skipped))
	}
	l.Debug("topo_object_decoded", "name", name, "decoded", len(out), "skipped", skipped)
	return out, skipped
}
