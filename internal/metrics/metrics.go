package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GeometriesDecodedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariffmap_geometries_decoded_total",
		Help: "Total geometries decoded per topology object",
	}, []string{"object"})
	GeometriesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariffmap_geometries_skipped_total",
		Help: "Total geometries skipped per topology object (bad arc index or type)",
	}, []string{"object"})
	ObjectMissingTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariffmap_object_missing_total",
		Help: "Total decode requests for topology objects that do not exist",
	}, []string{"object"})
	SceneBuildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tariffmap_scene_builds_total",
		Help: "Total scene builds (one per scenario change or layer request)",
	})
	SceneStaleTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tariffmap_scene_stale_total",
		Help: "Total scene builds discarded because a newer scenario change superseded them",
	})
	SceneBuildDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tariffmap_scene_build_duration_ms",
		Help:    "Scene build duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	LayerCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tariffmap_layer_cache_hits_total",
		Help: "Total redis layer cache hits",
	})
	LayerCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tariffmap_layer_cache_misses_total",
		Help: "Total redis layer cache misses",
	})
	FetchDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tariffmap_fetch_duration_ms",
		Help:    "Document load duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"document"})
	FetchFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariffmap_fetch_fail_total",
		Help: "Document load failures",
	}, []string{"document"})
	LocateRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariffmap_locate_requests_total",
		Help: "Visitor economy lookups by outcome",
	}, []string{"outcome"})
	PickRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariffmap_pick_requests_total",
		Help: "Point-in-region lookups by outcome (hit, miss, cache)",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(GeometriesDecodedTotal)
	prometheus.MustRegister(GeometriesSkippedTotal)
	prometheus.MustRegister(ObjectMissingTotal)
	prometheus.MustRegister(SceneBuildsTotal)
	prometheus.MustRegister(SceneStaleTotal)
	prometheus.MustRegister(SceneBuildDurationMs)
	prometheus.MustRegister(LayerCacheHitsTotal)
	prometheus.MustRegister(LayerCacheMissesTotal)
	prometheus.MustRegister(FetchDurationMs)
	prometheus.MustRegister(FetchFailTotal)
	prometheus.MustRegister(LocateRequestsTotal)
	prometheus.MustRegister(PickRequestsTotal)
}

// 文档注释：返回 Prometheus 指标处理器，在主入口挂载到 {API_BASE}/metrics
func Handler() http.Handler { return promhttp.Handler() }
