package topo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

var (
	// ErrArcIndex：弧引用（取反还原后）超出 arcs 范围
	ErrArcIndex = errors.New("topo: arc index out of range")
	// ErrArcShape：arcs 字段嵌套层级与声明的几何类型不符
	ErrArcShape = errors.New("topo: arcs do not match geometry type")
	// ErrGeometryType：当前解码策略不支持该几何类型
	ErrGeometryType = errors.New("topo: unsupported geometry type")
)

// resolveRef：负数引用按位取反得到真实索引，并标记需要反转
func resolveRef(ref int) (int, bool) {
	if ref < 0 {
		return ^ref, true
	}
	return ref, false
}

// 文档注释：解码单条弧
// 背景：arc[0] 为绝对起点，其后每点为相对当前位置的增量；累加后逐点应用仿射变换。
// 负数引用表示相邻区域以相反方向共享该弧，解码完成后整体反转。
// 约束：累加状态只存在于局部变量，共享弧数据不会被修改，多次解码同一引用结果一致。
func (t *Topology) DecodeArc(ref int) (orb.LineString, error) {
	idx, reversed := resolveRef(ref)
	if idx < 0 || idx >= len(t.Arcs) {
		return nil, fmt.Errorf("%w: ref %d -> %d (arcs=%d)", ErrArcIndex, ref, idx, len(t.Arcs))
	}
	arc := t.Arcs[idx]
	tr := t.Effective()
	out := make(orb.LineString, 0, len(arc))
	var x, y float64
	for i, d := range arc {
		if i == 0 {
			x, y = d[0], d[1]
		} else {
			x += d[0]
			y += d[1]
		}
		out = append(out, tr.Apply(x, y))
	}
	if reversed {
		out.Reverse()
	}
	return out, nil
}

// joinArcs：按顺序解码各组弧引用并首尾拼接为一个坐标序列（不去重连接点）
func (t *Topology) joinArcs(groups [][]int) ([]orb.Point, error) {
	out := make([]orb.Point, 0)
	for _, refs := range groups {
		for _, ref := range refs {
			pts, err := t.DecodeArc(ref)
			if err != nil {
				return nil, err
			}
			out = append(out, pts...)
		}
	}
	return out, nil
}
