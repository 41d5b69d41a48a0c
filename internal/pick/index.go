// 包 pick：坐标 → 区域代码的命中检测（地图点选/悬停）
package pick

import (
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/metrics"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/topo"
)

const defaultCacheSize = 4096

type entry struct {
	code  string
	bound orb.Bound
	shape orb.MultiPolygon
}

// 文档注释：区域命中索引
// 背景：构建时逐环还原面几何并计算包围盒；查询先用包围盒过滤，再做点在面内判定（含洞）。
// 约束：多个区域重叠时按对象中的几何顺序取第一个命中者；只读，可并发查询。
type Index struct {
	entries []entry
	cache   *lru
}

// NewIndex：从拓扑对象构建索引，无法解码的几何被跳过
func NewIndex(t *topo.Topology, object string, cacheSize int) *Index {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	ix := &Index{cache: newLRU(cacheSize)}
	l := logger.Component("pick")
	obj, ok := t.Objects[object]
	if !ok || obj == nil {
		l.Error("pick_object_missing", "name", object)
		return ix
	}
	skipped := 0
	for i := range obj.Geometries {
		g := &obj.Geometries[i]
		code := g.Properties.Code()
		if code == "" {
			skipped++
			continue
		}
		mp, err := t.DecodeRings(g)
		if err != nil || len(mp) == 0 {
			skipped++
			continue
		}
		ix.entries = append(ix.entries, entry{code: code, bound: mp.Bound(), shape: mp})
	}
	l.Info("pick_index_ready", "object", object, "entries", len(ix.entries), "skipped", skipped)
	return ix
}

func (ix *Index) Len() int { return len(ix.entries) }

// Lookup：返回包含该点的区域代码
func (ix *Index) Lookup(p orb.Point) (string, bool) {
	key := ix.key(p)
	if code, ok, hit := ix.cache.get(key); hit {
		metrics.PickRequestsTotal.WithLabelValues("cache").Inc()
		return code, ok
	}
	code, ok := ix.scan(p)
	ix.cache.set(key, code, ok)
	outcome := "miss"
	if ok {
		outcome = "hit"
	}
	metrics.PickRequestsTotal.WithLabelValues(outcome).Inc()
	return code, ok
}

func (ix *Index) scan(p orb.Point) (string, bool) {
	for _, e := range ix.entries {
		if !e.bound.Contains(p) {
			continue
		}
		if planar.MultiPolygonContains(e.shape, p) {
			return e.code, true
		}
	}
	return "", false
}

// key：按精确坐标生成缓存键
// 约束：不做取整；取整后的格子可能跨越区域边界或落入洞中，缓存结果会与实际扫描不一致。
func (ix *Index) key(p orb.Point) string {
	return strconv.FormatFloat(p.X(), 'g', -1, 64) + "," + strconv.FormatFloat(p.Y(), 'g', -1, 64)
}
