package topo

import "github.com/paulmach/orb"

// 文档注释：仿射变换（量化网格 → 投影平面）
// 背景：lon = x*scale[0]+translate[0]，lat = y*scale[1]+translate[1]，再整体乘以显示缩放系数。
// 约束：不做任何校验，非法的 scale/translate 以 NaN/Inf 形式传到下游几何。
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
	// Rescale：显示缩放系数，0 视为 1
	Rescale float64 `json:"-"`
}

// Identity：scale=1、translate=0
func Identity() Transform { return Transform{Scale: [2]float64{1, 1}} }

// Apply：对网格坐标应用变换
func (t Transform) Apply(x, y float64) orb.Point {
	lon := x*t.Scale[0] + t.Translate[0]
	lat := y*t.Scale[1] + t.Translate[1]
	if t.Rescale != 0 && t.Rescale != 1 {
		lon *= t.Rescale
		lat *= t.Rescale
	}
	return orb.Point{lon, lat}
}

// SetRescale：设置整个会话固定的显示缩放系数
func (t *Topology) SetRescale(f float64) { t.rescale = f }

// Effective：实际生效的变换（缺省为恒等变换，附带显示缩放）
func (t *Topology) Effective() Transform {
	tr := Identity()
	if t.Transform != nil {
		tr = *t.Transform
	}
	tr.Rescale = t.rescale
	return tr
}
