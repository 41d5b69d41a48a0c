package topo

import (
	"encoding/json"
	"errors"
	"io"
	"os"
)

// Parse：解析拓扑文档
func Parse(b []byte) (*Topology, error) {
	var t Topology
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	if t.Objects == nil {
		return nil, errors.New("topo: document has no objects")
	}
	return &t, nil
}

func ParseReader(r io.Reader) (*Topology, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Load：从文件读取拓扑文档
func Load(path string) (*Topology, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}
