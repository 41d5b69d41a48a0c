package colorscale

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB：0..255 三通道
type RGB struct{ R, G, B int }

// ParseHex：解析 #rgb 或 #rrggbb；其余格式返回 false
func ParseHex(s string) (RGB, bool) {
	if !strings.HasPrefix(s, "#") {
		return RGB{}, false
	}
	h := s[1:]
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, true
}

// Hex：输出小写 #rrggbb，通道值超出范围时截断
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.R), clamp(c.G), clamp(c.B))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// NormalizeHex：可解析的十六进制颜色规整为小写 6 位，其他颜色（rgba 等）原样返回
func NormalizeHex(s string) string {
	if c, ok := ParseHex(s); ok {
		return c.Hex()
	}
	return s
}
