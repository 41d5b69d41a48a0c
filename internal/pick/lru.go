package pick

import (
	"container/list"
	"sync"
)

// 文档注释：进程内 LRU（精确坐标 → 命中结果）
// 背景：悬停/点击在相邻像素上反复查询同一位置；拓扑在会话期不变，因此不设过期时间。
type lru struct {
	mu   sync.Mutex
	cap  int
	lst  *list.List
	dict map[string]*list.Element
}

type kv struct {
	k    string
	code string
	ok   bool
}

func newLRU(capacity int) *lru {
	return &lru{cap: capacity, lst: list.New(), dict: make(map[string]*list.Element)}
}

func (c *lru) get(k string) (code string, ok, hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.dict[k]
	if !found {
		return "", false, false
	}
	c.lst.MoveToFront(e)
	it := e.Value.(kv)
	return it.code, it.ok, true
}

func (c *lru) set(k, code string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, found := c.dict[k]; found {
		e.Value = kv{k: k, code: code, ok: ok}
		c.lst.MoveToFront(e)
		return
	}
	c.dict[k] = c.lst.PushFront(kv{k: k, code: code, ok: ok})
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		delete(c.dict, back.Value.(kv).k)
		c.lst.Remove(back)
	}
}

func (c *lru) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}
