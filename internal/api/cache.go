package api

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/metrics"
)

// 文档注释：按场景缓存序列化后的图层 JSON
// 背景：同一会话版本下场景构建结果确定，键为 layers:<会话版本>:<场景编号>，文档重载后旧键自然失效。
// 约束：rc 为 nil 时不缓存；Redis 错误只记录日志，不影响响应。
type layerCache struct {
	rc  *redis.Client
	ttl time.Duration
}

func layerKey(version string, scenario int) string {
	return "layers:" + version + ":" + strconv.Itoa(scenario)
}

func (c layerCache) get(ctx context.Context, key string) ([]byte, bool) {
	if c.rc == nil {
		return nil, false
	}
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Component("api").Error("layer_cache_get_error", "key", key, "err", err)
		}
		metrics.LayerCacheMissesTotal.Inc()
		return nil, false
	}
	metrics.LayerCacheHitsTotal.Inc()
	return b, true
}

func (c layerCache) set(ctx context.Context, key string, b []byte) {
	if c.rc == nil {
		return
	}
	if err := c.rc.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logger.Component("api").Error("layer_cache_set_error", "key", key, "err", err)
	}
}
