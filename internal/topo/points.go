package topo

import (
	"github.com/paulmach/orb"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/metrics"
)

// 文档注释：解码点位对象（code → 投影坐标）
// 背景：点位几何直接携带量化后的绝对坐标（非增量），只需应用仿射变换。
// 约束：非 Point 类型、坐标不足两维或缺少 code 的几何被忽略；同一 code 出现多次时后者覆盖前者。
func (t *Topology) DecodePoints(name string) map[string]orb.Point {
	out := make(map[string]orb.Point)
	obj, ok := t.Objects[name]
	if !ok || obj == nil {
		logger.Component("topo").Error("topo_object_missing", "name", name)
		metrics.ObjectMissingTotal.WithLabelValues(name).Inc()
		return out
	}
	tr := t.Effective()
	for _, g := range obj.Geometries {
		if g.Type != Point || len(g.Coordinates) < 2 {
			continue
		}
		code := g.Properties.Code()
		if code == "" {
			continue
		}
		out[code] = tr.Apply(g.Coordinates[0], g.Coordinates[1])
	}
	return out
}

// Label：区域名称（英/法）
type Label struct {
	EN string `json:"labelen"`
	FR string `json:"labelfr"`
}

// Labels：从对象属性构建 code → 名称表
func (t *Topology) Labels(name string) map[string]Label {
	out := make(map[string]Label)
	obj, ok := t.Objects[name]
	if !ok || obj == nil {
		logger.Component("topo").Error("topo_object_missing", "name", name)
		return out
	}
	for _, g := range obj.Geometries {
		code := g.Properties.Code()
		if code == "" {
			continue
		}
		out[code] = Label{EN: g.Properties.LabelEN(), FR: g.Properties.LabelFR()}
	}
	return out
}
