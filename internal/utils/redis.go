package utils

import (
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
)

// OpenRedisFromEnv：REDIS_ENABLE=true 时按 REDIS_HOST/REDIS_PORT/REDIS_PASS/REDIS_DB 打开客户端
// 约束：未启用时返回 nil，调用方据此跳过图层缓存；REDIS_DB 解析失败回退到 0
func OpenRedisFromEnv() *redis.Client {
	if os.Getenv("REDIS_ENABLE") != "true" {
		return nil
	}
	addr := envOr("REDIS_HOST", "127.0.0.1") + ":" + envOr("REDIS_PORT", "6379")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, _ := strconv.Atoi(v); n >= 0 {
			db = n
		}
	}
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASS"), DB: db})
}
