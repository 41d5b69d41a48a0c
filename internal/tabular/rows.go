// 包 tabular：场景数据行（code × 场景序号 → 数值、发展水平）
package tabular

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Row：一行场景数据；Value 保留原始文本，数值解析延后到使用时
type Row struct {
	Code      string `json:"code"`
	Scenario  int    `json:"tariff_scenario_index"`
	Value     string `json:"value"`
	DevStatus string `json:"dev_status,omitempty"`
}

type rawRow struct {
	Code      json.RawMessage `json:"code"`
	Scenario  json.RawMessage `json:"tariff_scenario_index"`
	Legacy    json.RawMessage `json:"tariff_structure"`
	Value     json.RawMessage `json:"value"`
	DevStatus *string         `json:"dev_status"`
}

// 文档注释：容错解析
// 背景：上游导出的 code 可能是数字或字符串，value 可能是数字或字符串；旧版数据的场景字段名为 tariff_structure。
// 约束：场景字段缺失或无法解析为整数时整行报错，避免静默归入场景 0。
func (r *Row) UnmarshalJSON(b []byte) error {
	var raw rawRow
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Code = scalarText(raw.Code)
	r.Value = scalarText(raw.Value)
	r.DevStatus = ""
	if raw.DevStatus != nil {
		r.DevStatus = *raw.DevStatus
	}
	sc := raw.Scenario
	if len(sc) == 0 || string(sc) == "null" {
		sc = raw.Legacy
	}
	txt := scalarText(sc)
	n, err := strconv.Atoi(txt)
	if err != nil {
		return fmt.Errorf("tabular: code %q: bad scenario index %q", r.Code, txt)
	}
	r.Scenario = n
	return nil
}

// scalarText：JSON 字符串取其内容，数字取其字面量，null/缺失为空串
func scalarText(b json.RawMessage) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return ""
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			return s
		}
		return ""
	}
	return string(b)
}

// ParseValue：数值文本解析；非数字、NaN 与 ±Inf 视为无值
func ParseValue(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Number：解析后的数值，无值为 nil
func (r Row) Number() *float64 {
	v, ok := ParseValue(r.Value)
	if !ok {
		return nil
	}
	return &v
}

func Parse(b []byte) ([]Row, error) {
	var rows []Row
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func ParseReader(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func Load(path string) ([]Row, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}
