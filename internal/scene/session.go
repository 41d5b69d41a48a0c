package scene

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/colorscale"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/metrics"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/tabular"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/topo"
)

// ErrStale：场景构建期间出现了更新的场景切换，本次结果已丢弃
var ErrStale = errors.New("scene: superseded by a newer scenario change")

// ErrNoTopology：会话缺少拓扑文档
var ErrNoTopology = errors.New("scene: topology document is required")

const defaultScenario = 1

// Documents：会话启动时加载的三份文档
type Documents struct {
	Topology *topo.Topology
	Rows     []tabular.Row
	Settings *colorscale.Settings
}

// Options：会话参数
type Options struct {
	Objects   Objects
	BubbleMap bool
	// Rescale：显示缩放系数，0 视为 1
	Rescale  float64
	Scenario int
}

// 文档注释：地图会话
// 背景：拓扑、数据表、配色在构建时一次性解码/索引，之后只读；几何缓存跨场景复用，
// 每次场景切换只重算关联与着色。
// 约束：SetScenario 以单调递增序号标记每次请求，构建在锁外完成，仅当序号仍为最新时才替换当前场景，
// 被更新请求取代的结果返回 ErrStale 并丢弃。
type Session struct {
	version  string
	opts     Options
	topology *topo.Topology
	table    *tabular.Table
	resolver *colorscale.Resolver
	labels   Labels
	shapes   map[string][]Shape
	points   map[string]orb.Point
	borders  []BorderLayer
	skipped  map[string]int
	zmin     *float64
	zmax     *float64

	seq     atomic.Uint64
	mu      sync.RWMutex
	current *Scene

	// beforeApply：测试钩子，在构建完成、加锁替换之前调用
	beforeApply func(seq uint64)
}

// NewSession：解码几何并构建初始场景
func NewSession(docs Documents, opts Options) (*Session, error) {
	if docs.Topology == nil {
		return nil, ErrNoTopology
	}
	if opts.Objects.Fill == "" && opts.Objects.Outline == "" && len(opts.Objects.Borders) == 0 {
		opts.Objects = DefaultObjects()
	}
	if opts.Scenario == 0 {
		opts.Scenario = defaultScenario
	}
	// 浅拷贝后再设置缩放系数，调用方的拓扑保持只读；弧与对象仍共享
	tp := *docs.Topology
	tp.SetRescale(opts.Rescale)
	t := &tp

	s := &Session{
		version:  uuid.NewString(),
		opts:     opts,
		topology: t,
		table:    tabular.NewTable(docs.Rows),
		resolver: colorscale.NewResolver(docs.Settings),
		shapes:   make(map[string][]Shape),
		skipped:  make(map[string]int),
	}
	l := logger.Component("scene")
	start := time.Now()

	for _, name := range []string{opts.Objects.Fill, opts.Objects.Outline} {
		if name == "" {
			continue
		}
		if _, done := s.shapes[name]; done {
			continue
		}
		ds, skipped := t.DecodePolygons(name)
		s.shapes[name] = newShapes(ds)
		s.skipped[name] = skipped
	}
	for _, b := range opts.Objects.Borders {
		ds, skipped := t.DecodeLines(b.Object)
		shapes := newShapes(ds)
		s.shapes[b.Object] = shapes
		s.skipped[b.Object] = skipped
		s.borders = append(s.borders, BuildBorderLayer(b, shapes))
	}

	s.labels = Labels{}
	if opts.Objects.Labels != "" {
		s.labels = Labels(t.Labels(opts.Objects.Labels))
	}
	s.labels[euCode] = euLabel

	s.points = map[string]orb.Point{}
	if opts.Objects.Points != "" {
		s.points = t.DecodePoints(opts.Objects.Points)
	}
	s.points[euCode] = t.Effective().Apply(euGrid[0], euGrid[1])

	s.zmin, s.zmax = zRange(s.table)

	sc := s.build(opts.Scenario, s.seq.Load())
	s.current = sc
	l.Info("scene_session_ready", "version", s.version, "rows", s.table.Len(), "regions", len(sc.Regions.Data), "bubbles", len(sc.Bubbles.Data), "border_layers", len(s.borders), "scenario", opts.Scenario, "duration_ms", time.Since(start).Milliseconds())
	return s, nil
}

// Build：按场景编号构建完整场景，不改变当前场景
// 约束：结果可能被缓存后在之后的切换中复用，因此不带 Seq。
func (s *Session) Build(scenario int) *Scene {
	return s.build(scenario, 0)
}

func (s *Session) build(scenario int, seq uint64) *Scene {
	start := time.Now()
	j := Join{Table: s.table, Scenario: scenario, Labels: s.labels, Resolver: s.resolver}

	fillPolicy := ByValue
	if s.opts.BubbleMap {
		fillPolicy = FlatBackground
	}
	sc := &Scene{
		Version:   s.version,
		Seq:       seq,
		Scenario:  scenario,
		BubbleMap: s.opts.BubbleMap,
		LineWidth: s.resolver.Settings().LineWidth,
		Regions: RegionLayer{
			Name:    FillLayerName,
			Visible: true,
			Data:    BuildRegionLayer(s.shapes[s.opts.Objects.Fill], j, fillPolicy),
		},
		Tooltips: RegionLayer{
			Name:    TooltipLayerName,
			Visible: !s.opts.BubbleMap,
			Data:    BuildRegionLayer(s.shapes[s.opts.Objects.Outline], j, Transparent),
		},
		Borders: s.borders,
		Bubbles: BubbleLayer{
			Name:    BubbleLayerName,
			Visible: s.opts.BubbleMap,
			ZMin:    s.zmin,
			ZMax:    s.zmax,
			Data:    BuildBubbleLayer(s.points, j),
		},
	}
	metrics.SceneBuildsTotal.Inc()
	metrics.SceneBuildDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	logger.Component("scene").Debug("scene_built", "scenario", scenario, "seq", seq, "duration_ms", time.Since(start).Milliseconds())
	return sc
}

// 文档注释：切换当前场景
// 返回：新的当前场景；构建期间被更新的切换取代时返回 ErrStale（当前场景保持为更新者的结果）。
func (s *Session) SetScenario(scenario int) (*Scene, error) {
	seq := s.seq.Add(1)
	sc := s.build(scenario, seq)
	if s.beforeApply != nil {
		s.beforeApply(seq)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq.Load() {
		metrics.SceneStaleTotal.Inc()
		logger.Component("scene").Info("scene_stale_discarded", "scenario", scenario, "seq", seq, "latest", s.seq.Load())
		return nil, ErrStale
	}
	s.current = sc
	return sc, nil
}

// Current：当前场景（只读）
func (s *Session) Current() *Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Version：会话标识，文档重新加载即变化，用作图层缓存键的一部分
func (s *Session) Version() string { return s.version }

func (s *Session) Labels() Labels { return s.labels }

func (s *Session) Topology() *topo.Topology { return s.topology }

func (s *Session) Table() *tabular.Table { return s.table }

// Shapes：按对象名取缓存的解码几何
func (s *Session) Shapes(object string) ([]Shape, bool) {
	sh, ok := s.shapes[object]
	return sh, ok
}

// Skipped：各对象解码时跳过的几何数量
func (s *Session) Skipped() map[string]int {
	out := make(map[string]int, len(s.skipped))
	for k, v := range s.skipped {
		out[k] = v
	}
	return out
}
