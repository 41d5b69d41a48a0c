// 包 source：加载拓扑、数据表、配色设置三份文档（本地目录或远程地址）
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/colorscale"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/metrics"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/scene"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/tabular"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/topo"
)

// ErrStatus：远程文档返回非 2xx 状态
var ErrStatus = errors.New("source: unexpected http status")

const defaultTimeout = 10 * time.Second

// RowSource：数据表的替代来源（例如 PostgreSQL）
type RowSource interface {
	LoadRows(ctx context.Context) ([]tabular.Row, error)
}

// 文档注释：文档加载器
// 背景：BaseURL 非空时通过 HTTP 拉取，否则从 Dir 读取本地文件；数据表请求附带随机版本参数绕过缓存。
// 约束：三份文档并行加载，任一失败即整体失败；Rows 非空时数据表改由 Rows 提供。
type Loader struct {
	Dir          string
	BaseURL      string
	TopologyFile string
	DataFile     string
	SettingsFile string
	Client       *http.Client
	Timeout      time.Duration
	Rows         RowSource
}

// Load：并行加载三份文档并解析
func (l *Loader) Load(ctx context.Context) (scene.Documents, error) {
	var (
		docs scene.Documents
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(doc string, err error) {
		metrics.FetchFailTotal.WithLabelValues(doc).Inc()
		logger.Component("source").Error("source_load_error", "document", doc, "err", err)
		mu.Lock()
		errs = append(errs, fmt.Errorf("%s: %w", doc, err))
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		b, err := l.read(ctx, "topology", l.TopologyFile, false)
		if err != nil {
			fail("topology", err)
			return
		}
		t, err := topo.Parse(b)
		if err != nil {
			fail("topology", err)
			return
		}
		docs.Topology = t
	}()
	go func() {
		defer wg.Done()
		var (
			rows []tabular.Row
			err  error
		)
		if l.Rows != nil {
			start := time.Now()
			rows, err = l.Rows.LoadRows(ctx)
			metrics.FetchDurationMs.WithLabelValues("data").Observe(float64(time.Since(start).Milliseconds()))
		} else {
			var b []byte
			if b, err = l.read(ctx, "data", l.DataFile, true); err == nil {
				rows, err = tabular.Parse(b)
			}
		}
		if err != nil {
			fail("data", err)
			return
		}
		docs.Rows = rows
	}()
	go func() {
		defer wg.Done()
		b, err := l.read(ctx, "settings", l.SettingsFile, false)
		if err != nil {
			fail("settings", err)
			return
		}
		s, err := colorscale.ParseSettings(b)
		if err != nil {
			fail("settings", err)
			return
		}
		docs.Settings = s
	}()
	wg.Wait()

	if len(errs) > 0 {
		return scene.Documents{}, errors.Join(errs...)
	}
	logger.Component("source").Info("source_loaded", "remote", l.BaseURL != "", "rows", len(docs.Rows), "arcs", len(docs.Topology.Arcs), "objects", len(docs.Topology.Objects))
	return docs, nil
}

func (l *Loader) read(ctx context.Context, doc, name string, bust bool) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.FetchDurationMs.WithLabelValues(doc).Observe(float64(time.Since(start).Milliseconds()))
	}()
	if l.BaseURL == "" {
		return os.ReadFile(filepath.Join(l.Dir, name))
	}
	return l.fetch(ctx, name, bust)
}

// 文档注释：拉取单个远程文档
// 参数：bust 为真时追加 v=<uuid> 查询参数，避免中间缓存返回旧数据。
// 约束：Client 为空时使用带 Timeout（默认 10s）的客户端；非 2xx 返回 ErrStatus。
func (l *Loader) fetch(ctx context.Context, name string, bust bool) ([]byte, error) {
	u, err := url.Parse(strings.TrimRight(l.BaseURL, "/") + "/" + strings.TrimLeft(name, "/"))
	if err != nil {
		return nil, err
	}
	if bust {
		q := u.Query()
		q.Set("v", uuid.NewString())
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		timeout := l.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	logger.Component("source").Debug("source_fetch", "url", u.String())
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %d", ErrStatus, u.Path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
