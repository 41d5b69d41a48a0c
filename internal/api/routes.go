// 包 api：集中注册 HTTP 路由，主入口挂载到 API_BASE 前缀
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/redis/go-redis/v9"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/locate"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/scene"
)

// Locator：访问者定位（未配置 GeoIP 库时为 nil）
type Locator interface {
	Locate(ip string, codes locate.CodeLookup) (locate.Result, error)
}

// Picker：坐标 → 区域代码
type Picker interface {
	Lookup(p orb.Point) (string, bool)
}

// Deps：路由依赖
type Deps struct {
	Session  *scene.Session
	Redis    *redis.Client
	CacheTTL time.Duration
	Locator  Locator
	Picker   Picker
}

// 文档注释：构建 API 路由
// 路由：
// - GET  /layers?scenario=N  场景图层；缺省返回当前场景
// - POST /scenario?index=N   切换当前场景；被更新请求取代时返回 409
// - GET  /scenarios          数据表中出现的场景编号
// - GET  /geojson?object=X   已解码对象导出为 GeoJSON FeatureCollection
// - GET  /pick?lon=X&lat=Y   坐标命中的区域及其当前场景记录
// - GET  /locate             访问者所在经济体
// - GET  /health             会话状态
func BuildRoutes(d Deps) *http.ServeMux {
	cache := layerCache{rc: d.Redis, ttl: d.CacheTTL}
	mux := http.NewServeMux()

	mux.HandleFunc("/layers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		q := r.URL.Query().Get("scenario")
		if q == "" {
			writeJSON(w, http.StatusOK, d.Session.Current())
			return
		}
		n, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "scenario must be an integer")
			return
		}
		key := layerKey(d.Session.Version(), n)
		if b, ok := cache.get(r.Context(), key); ok {
			writeRaw(w, http.StatusOK, b)
			return
		}
		b, err := json.Marshal(d.Session.Build(n))
		if err != nil {
			logger.Component("api").Error("layers_encode_error", "scenario", n, "err", err)
			writeError(w, http.StatusInternalServerError, "encode failed")
			return
		}
		cache.set(r.Context(), key, b)
		writeRaw(w, http.StatusOK, b)
	})

	mux.HandleFunc("/scenario", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		n, err := strconv.Atoi(r.URL.Query().Get("index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "index must be an integer")
			return
		}
		sc, err := d.Session.SetScenario(n)
		if err != nil {
			// 仅 ErrStale：更新的切换已生效
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		logger.Component("api").Info("scenario_changed", "scenario", n, "seq", sc.Seq)
		writeJSON(w, http.StatusOK, sc)
	})

	mux.HandleFunc("/scenarios", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"scenarios": d.Session.Table().Scenarios()})
	})

	mux.HandleFunc("/geojson", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("object")
		shapes, ok := d.Session.Shapes(name)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown object")
			return
		}
		b, err := FeatureCollection(shapes, d.Session.Labels()).MarshalJSON()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "encode failed")
			return
		}
		w.Header().Set("content-type", "application/geo+json")
		w.Header().Set("cache-control", "public, max-age=3600")
		_, _ = w.Write(b)
	})

	mux.HandleFunc("/pick", func(w http.ResponseWriter, r *http.Request) {
		if d.Picker == nil {
			writeError(w, http.StatusServiceUnavailable, "pick index not built")
			return
		}
		q := r.URL.Query()
		lon, err1 := strconv.ParseFloat(q.Get("lon"), 64)
		lat, err2 := strconv.ParseFloat(q.Get("lat"), 64)
		if err1 != nil || err2 != nil {
			writeError(w, http.StatusBadRequest, "lon and lat must be numbers")
			return
		}
		code, ok := d.Picker.Lookup(orb.Point{lon, lat})
		if !ok {
			writeError(w, http.StatusNotFound, "no region at point")
			return
		}
		for _, rec := range d.Session.Current().Regions.Data {
			if rec.Code == code {
				rec.Geometry = nil
				writeJSON(w, http.StatusOK, rec)
				return
			}
		}
		writeJSON(w, http.StatusOK, scene.RegionRecord{Code: code, Name: d.Session.Labels().Name(code)})
	})

	mux.HandleFunc("/locate", func(w http.ResponseWriter, r *http.Request) {
		if d.Locator == nil {
			writeError(w, http.StatusServiceUnavailable, "geoip database not configured")
			return
		}
		res, err := d.Locator.Locate(getClientIP(r), d.Session.Labels())
		if errors.Is(err, locate.ErrBadIP) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			logger.Component("api").Error("locate_error", "err", err)
			writeError(w, http.StatusInternalServerError, "lookup failed")
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		cur := d.Session.Current()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"version":  d.Session.Version(),
			"scenario": cur.Scenario,
			"seq":      cur.Seq,
			"skipped":  d.Session.Skipped(),
			"redis":    d.Redis != nil,
			"geoip":    d.Locator != nil,
			"pick":     d.Picker != nil,
		})
	})

	return mux
}

// 文档注释：解码几何 → GeoJSON FeatureCollection（附 code/name 属性与整体 bbox）
func FeatureCollection(shapes []scene.Shape, labels scene.Labels) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	var bound orb.Bound
	for i, sh := range shapes {
		f := geojson.NewFeature(sh.Geometry)
		f.Properties["code"] = sh.Code
		f.Properties["name"] = labels.Name(sh.Code)
		fc.Append(f)
		if i == 0 {
			bound = sh.Geometry.Bound()
		} else {
			bound = bound.Union(sh.Geometry.Bound())
		}
	}
	if len(shapes) > 0 {
		fc.BBox = geojson.NewBBox(bound)
	}
	return fc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, b []byte) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
