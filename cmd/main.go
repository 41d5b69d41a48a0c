// 程序入口：仅负责读取配置、加载文档、建立会话并启动服务；API 注册在 internal/api
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/api"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/config"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/locate"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/metrics"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/middleware"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/migrate"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/pick"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/scene"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/source"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/store"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/utils"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Debug("log_init_ok")
	cfg := config.FromEnv()
	l.Debug("config_loaded", "api_base", cfg.APIBase, "data_dir", cfg.DataDir, "data_base_url", cfg.DataBaseURL, "bubble_map", cfg.BubbleMap, "rescale", cfg.Rescale)

	ctx := context.Background()
	loader := &source.Loader{
		Dir:          cfg.DataDir,
		BaseURL:      cfg.DataBaseURL,
		TopologyFile: cfg.TopologyFile,
		DataFile:     cfg.DataFile,
		SettingsFile: cfg.SettingsFile,
		Timeout:      cfg.FetchTimeout,
	}

	// 数据表可选改由 PostgreSQL 提供（由 rows-import 写入）
	if cfg.RowsFromDB {
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			l.Error("db_ping_error", "err", err)
			os.Exit(1)
		}
		l.Info("db_ping_ok")
		if err := migrate.EnsureSchema(ctx, db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		loader.Rows = store.AttachDB(db)
	}

	docs, err := loader.Load(ctx)
	if err != nil {
		l.Error("documents_load_error", "err", err)
		os.Exit(1)
	}
	sess, err := scene.NewSession(docs, scene.Options{
		Objects:   scene.DefaultObjects(),
		BubbleMap: cfg.BubbleMap,
		Rescale:   cfg.Rescale,
		Scenario:  cfg.Scenario,
	})
	if err != nil {
		l.Error("session_error", "err", err)
		os.Exit(1)
	}

	deps := api.Deps{
		Session:  sess,
		CacheTTL: cfg.LayerCacheTTL,
		Picker:   pick.NewIndex(sess.Topology(), scene.DefaultObjects().Fill, cfg.PickCacheSize),
	}
	if rc := utils.OpenRedisFromEnv(); rc == nil {
		l.Info("redis_disabled")
	} else if err := rc.Ping(ctx).Err(); err != nil {
		l.Error("redis_ping_error", "err", err)
	} else {
		l.Info("redis_ping_ok")
		deps.Redis = rc
	}
	if cfg.GeoIPPath != "" {
		if loc, err := locate.Open(cfg.GeoIPPath); err != nil {
			l.Error("geoip_open_error", "path", cfg.GeoIPPath, "err", err)
		} else {
			defer loc.Close()
			deps.Locator = loc
		}
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, api.BuildRoutes(deps)))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())

	qps := 0
	if cfg.RateLimitEnabled {
		qps = cfg.RateLimitQPS
	}
	handler := middleware.RateLimit(qps, logger.AccessMiddleware(l)(mux))
	s := &http.Server{Addr: cfg.Addr, Handler: handler}
	if cfg.TLSEnable {
		if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "tariffs.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		if err := s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath); err != nil {
			l.Error("server_error", "err", err)
			os.Exit(1)
		}
		return
	}
	l.Info("listening", "addr", cfg.Addr)
	if err := s.ListenAndServe(); err != nil {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
}
