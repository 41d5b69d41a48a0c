package topo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// 文档注释：保留环边界的面解码
// 背景：渲染用的展平结果把内外环拼成一个序列，无法做点在面内判定；命中检测需要逐环还原。
// 约束：仅接受 Polygon/MultiPolygon；Polygon 返回只含一个多边形的 MultiPolygon，环序与源数据一致（首环为外环）。
func (t *Topology) DecodeRings(g *Geometry) (orb.MultiPolygon, error) {
	if g.shapeErr != nil {
		return nil, g.shapeErr
	}
	if !isPolygon(g.Type) {
		return nil, fmt.Errorf("%w: %q", ErrGeometryType, g.Type)
	}
	mp := make(orb.MultiPolygon, 0, len(g.Parts))
	for _, rings := range g.Parts {
		poly := make(orb.Polygon, 0, len(rings))
		for _, refs := range rings {
			pts, err := t.joinArcs([][]int{refs})
			if err != nil {
				return nil, err
			}
			poly = append(poly, orb.Ring(pts))
		}
		mp = append(mp, poly)
	}
	return mp, nil
}
