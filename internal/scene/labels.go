package scene

import (
	"sort"
	"strconv"
	"strings"

	"github.com/unctad-infovis/2025-tariffs-updated/internal/topo"
)

const euCode = "918"

var euLabel = topo.Label{EN: "European Union", FR: "Union européenne"}

// euGrid：欧盟气泡在量化网格中的位置（拓扑中没有对应点位）
var euGrid = [2]float64{69042, 64101}

// Labels：code → 名称
type Labels map[string]topo.Label

// Name：英文名，缺失或为空时回退为代码本身
func (l Labels) Name(code string) string {
	if lb, ok := l[code]; ok && lb.EN != "" {
		return lb.EN
	}
	return code
}

// CodeByName：按英文或法文名称（不区分大小写）反查代码
func (l Labels) CodeByName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for _, code := range sortCodes(l) {
		lb := l[code]
		if strings.EqualFold(lb.EN, name) || strings.EqualFold(lb.FR, name) {
			return code, true
		}
	}
	return "", false
}

// sortCodes：纯数字代码按数值升序排在前，其余按字典序
func sortCodes[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		a, aok := numericCode(out[i])
		b, bok := numericCode(out[j])
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		}
		return out[i] < out[j]
	})
	return out
}

func numericCode(s string) (uint64, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 32)
	return n, err == nil
}
