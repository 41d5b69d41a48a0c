// 包 locate：访问者 IP → 所在经济体代码（用于前端默认高亮）
package locate

import (
	"errors"
	"net"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/metrics"
)

// ErrBadIP：无法解析的 IP 文本
var ErrBadIP = errors.New("locate: invalid ip")

// CodeLookup：名称 → 区域代码（由会话标签表提供）
type CodeLookup interface {
	CodeByName(name string) (string, bool)
}

type countryReader interface {
	Country(ip net.IP) (*geoip2.Country, error)
}

// Result：定位结果；Code 为空表示国家已识别但地图上没有对应区域
type Result struct {
	IP      string `json:"ip"`
	ISO     string `json:"iso"`
	Country string `json:"country"`
	Code    string `json:"code"`
	Name    string `json:"name"`
}

// Info：数据库元信息
type Info struct {
	DatabaseType string    `json:"databaseType"`
	Built        time.Time `json:"built"`
	NodeCount    uint      `json:"nodeCount"`
}

// 文档注释：基于 GeoIP2/GeoLite2 Country 库的定位器
// 约束：只读，可并发使用；库文件在 Open 时整体载入。
type Locator struct {
	r     countryReader
	close func() error
	info  Info
}

// Open：打开 mmdb 文件并记录元信息
func Open(path string) (*Locator, error) {
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	info := infoFrom(r.Metadata())
	logger.Component("locate").Info("geoip_open_ok", "path", path, "type", info.DatabaseType, "built", info.Built.Format(time.RFC3339), "nodes", info.NodeCount)
	return &Locator{r: r, close: r.Close, info: info}, nil
}

func infoFrom(m maxminddb.Metadata) Info {
	return Info{DatabaseType: m.DatabaseType, Built: time.Unix(int64(m.BuildEpoch), 0).UTC(), NodeCount: m.NodeCount}
}

func (l *Locator) Info() Info { return l.info }

func (l *Locator) Close() error {
	if l.close == nil {
		return nil
	}
	return l.close()
}

// 文档注释：查询 IP 所在国家并映射为区域代码
// 背景：优先使用英文国家名匹配标签表，其次法文名；注册国家用于补足匿名网段。
// 约束：未识别的国家返回空 Code 而非错误。
func (l *Locator) Locate(ipText string, codes CodeLookup) (Result, error) {
	res := Result{IP: ipText}
	ip := net.ParseIP(strings.TrimSpace(ipText))
	if ip == nil {
		metrics.LocateRequestsTotal.WithLabelValues("bad_ip").Inc()
		return res, ErrBadIP
	}
	c, err := l.r.Country(ip)
	if err != nil {
		metrics.LocateRequestsTotal.WithLabelValues("error").Inc()
		return res, err
	}
	names, iso := c.Country.Names, c.Country.IsoCode
	if iso == "" {
		names, iso = c.RegisteredCountry.Names, c.RegisteredCountry.IsoCode
	}
	res.ISO = iso
	res.Country = names["en"]
	if codes != nil {
		for _, lang := range []string{"en", "fr"} {
			if code, ok := codes.CodeByName(names[lang]); ok {
				res.Code = code
				res.Name = names["en"]
				break
			}
		}
	}
	outcome := "matched"
	switch {
	case iso == "":
		outcome = "unknown"
	case res.Code == "":
		outcome = "unmapped"
	}
	metrics.LocateRequestsTotal.WithLabelValues(outcome).Inc()
	logger.Component("locate").Debug("locate_result", "ip", ipText, "iso", iso, "code", res.Code, "outcome", outcome)
	return res, nil
}
