package scene

import (
	"github.com/paulmach/orb"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/colorscale"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/tabular"
)

// 图层名称与边界线样式
const (
	FillLayerName    = "Economies-colour"
	TooltipLayerName = "Economies"
	BubbleLayerName  = "Average Tariff Rate"
)

// BorderSpec：一个边界线对象及其图层名、线型
type BorderSpec struct {
	Object    string
	Name      string
	DashStyle string
}

// Objects：会话使用的拓扑对象名
type Objects struct {
	Fill    string
	Outline string
	Points  string
	Labels  string
	Borders []BorderSpec
}

// DefaultObjects：世界经济体地图的对象布局
func DefaultObjects() Objects {
	return Objects{
		Fill:    "economies-color",
		Outline: "economies",
		Points:  "economies-point",
		Labels:  "economies",
		Borders: []BorderSpec{
			{Object: "dashed-borders", Name: "Dashed Borders", DashStyle: "Dash"},
			{Object: "dotted-borders", Name: "Dotted Borders", DashStyle: "Dot"},
			{Object: "dash-dotted-borders", Name: "Dash Dotted Borders", DashStyle: "DashDot"},
			{Object: "plain-borders", Name: "Plain Borders", DashStyle: "Solid"},
		},
	}
}

// 发展水平 → 气泡颜色
var devStatusColors = map[string]string{
	"Developed":       "#004987",
	"Developing":      "#009edb",
	"Least developed": "#FBAF17",
}

const defaultBubbleColor = "#999"

func bubbleColor(status string) string {
	if c, ok := devStatusColors[status]; ok {
		return c
	}
	return defaultBubbleColor
}

// Join：一次场景构建的输入（数据表 + 场景编号 + 名称 + 配色）
type Join struct {
	Table    *tabular.Table
	Scenario int
	Labels   Labels
	Resolver *colorscale.Resolver
}

// row：code + 场景编号精确匹配，取首条
func (j Join) row(code string) (tabular.Row, bool) { return j.Table.Find(code, j.Scenario) }

// 文档注释：区域图层构建
// 背景：场景切换时反复调用，几何来自会话缓存，这里只做关联与着色。
// 约束：无匹配行或数值无法解析时 value 为 null，颜色按空值解析；名称缺失回退为代码。
func BuildRegionLayer(shapes []Shape, j Join, policy ColorPolicy) []RegionRecord {
	out := make([]RegionRecord, 0, len(shapes))
	values := j.Table.Scenario(j.Scenario)
	for _, sh := range shapes {
		var v *float64
		if r, ok := j.row(sh.Code); ok {
			v = r.Number()
		}
		rec := RegionRecord{
			Code:        sh.Code,
			Name:        j.Labels.Name(sh.Code),
			Value:       v,
			BorderColor: TransparentColor,
			Geometry:    sh.JSON,
		}
		switch policy {
		case Transparent:
			rec.Color = colorscale.Fill{Color: TransparentColor}
		case FlatBackground:
			rec.Color = colorscale.Fill{Color: BackgroundColor}
		default:
			rec.Color = j.Resolver.Resolve(v, sh.Code, values)
		}
		out = append(out, rec)
	}
	return out
}

// BuildBubbleLayer：按点位表逐个关联当前场景的数据，颜色取发展水平分类
func BuildBubbleLayer(points map[string]orb.Point, j Join) []BubbleRecord {
	out := make([]BubbleRecord, 0, len(points))
	for _, code := range sortCodes(points) {
		pt := points[code]
		var v *float64
		var status string
		if r, ok := j.row(code); ok {
			v = r.Number()
			status = r.DevStatus
		}
		c := bubbleColor(status)
		out = append(out, BubbleRecord{
			Code:   code,
			Name:   j.Labels.Name(code),
			Lon:    pt.X(),
			Lat:    pt.Y(),
			Value:  v,
			Z:      v,
			Color:  c,
			Marker: Marker{LineColor: c},
		})
	}
	return out
}

// BuildBorderLayer：边界线与场景无关，name 为区域代码
func BuildBorderLayer(spec BorderSpec, shapes []Shape) BorderLayer {
	data := make([]LineRecord, 0, len(shapes))
	for _, sh := range shapes {
		data = append(data, LineRecord{Name: sh.Code, Geometry: sh.JSON})
	}
	return BorderLayer{Name: spec.Name, DashStyle: spec.DashStyle, Data: data}
}

// zRange：整个数据表中可解析数值的最小/最大值，用于气泡尺寸归一
func zRange(t *tabular.Table) (zmin, zmax *float64) {
	lo, hi, ok := t.Range()
	if !ok {
		return nil, nil
	}
	return &lo, &hi
}
