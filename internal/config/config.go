// 包 config：集中读取环境变量（.env 由入口通过 godotenv 预先加载）
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config：服务与离线工具共用的运行参数
type Config struct {
	Addr    string
	APIBase string

	DataDir      string
	DataBaseURL  string
	TopologyFile string
	DataFile     string
	SettingsFile string
	FetchTimeout time.Duration

	Rescale   float64
	BubbleMap bool
	Scenario  int

	RowsFromDB    bool
	RedisEnable   bool
	LayerCacheTTL time.Duration
	GeoIPPath     string

	PickCacheSize int

	RateLimitEnabled bool
	RateLimitQPS     int

	TLSEnable   bool
	TLSCertPath string
	TLSKeyPath  string
}

// 文档注释：从环境变量构建配置
// 约束：数值解析失败时静默回退默认值；布尔值仅识别 "true"/"false"。
func FromEnv() Config {
	return Config{
		Addr:    getenv("ADDR", ":8080"),
		APIBase: getenv("API_BASE", "/api"),

		DataDir:      getenv("DATA_DIR", filepath.Join("assets", "data")),
		DataBaseURL:  os.Getenv("DATA_BASE_URL"),
		TopologyFile: getenv("TOPOLOGY_FILE", "worldmap-economies-54030.topo.json"),
		DataFile:     getenv("DATA_FILE", "data.json"),
		SettingsFile: getenv("SETTINGS_FILE", "settings.json"),
		FetchTimeout: time.Duration(getint("FETCH_TIMEOUT_S", 10)) * time.Second,

		Rescale:   getfloat("COORD_RESCALE", 1),
		BubbleMap: getbool("BUBBLE_MAP", true),
		Scenario:  getint("SCENARIO_DEFAULT", 1),

		RowsFromDB:    getbool("ROWS_FROM_DB", false),
		RedisEnable:   getbool("REDIS_ENABLE", false),
		LayerCacheTTL: time.Duration(getint("LAYER_CACHE_TTL_S", 3600)) * time.Second,
		GeoIPPath:     os.Getenv("GEOIP_DB_PATH"),

		PickCacheSize: getint("PICK_CACHE_SIZE", 4096),

		RateLimitEnabled: getbool("RATE_LIMIT_ENABLED", false),
		RateLimitQPS:     getint("RATE_LIMIT_QPS", 200),

		TLSEnable:   getbool("TLS_ENABLE", false),
		TLSCertPath: getenv("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt")),
		TLSKeyPath:  getenv("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key")),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "true":
		return true
	case "false":
		return false
	}
	return def
}
