package agent

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	clientllm "lyticalpilot/internal/client/llm"
)

//go:embed catalog.yaml
var catalogYAML []byte

// ToolSpec 一个可暴露给模型的 provider 动作，Parameters 为 JSON Schema
type ToolSpec struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Parameters  map[string]any `yaml:"parameters"`
}

// Catalog 内置工具目录
type Catalog struct {
	Tools []ToolSpec `yaml:"tools"`
}

// LoadCatalog 解析内置工具目录
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog 解析 YAML 格式的工具目录
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse tool catalog: %w", err)
	}
	for i, t := range c.Tools {
		if t.Name == "" {
			return nil, fmt.Errorf("parse tool catalog: tool %d has no name", i)
		}
	}
	return &c, nil
}

// Toolkits 返回已连接且在允许列表中的 provider 族（大写、去重、保持输入顺序）
func Toolkits(connected, families []string) []string {
	allowed := make(map[string]bool, len(families))
	for _, f := range families {
		allowed[strings.ToUpper(f)] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, c := range connected {
		k := strings.ToUpper(strings.TrimSpace(c))
		if !allowed[k] || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Select 按 provider 族前缀（不区分大小写）过滤工具，最多返回 limit 个。
// discovered 为空时使用内置目录。
func (c *Catalog) Select(toolkits []string, discovered []ToolSpec, limit int) []ToolSpec {
	candidates := discovered
	if len(candidates) == 0 {
		candidates = c.Tools
	}
	seen := make(map[string]bool)
	var out []ToolSpec
	for _, t := range candidates {
		if limit > 0 && len(out) >= limit {
			break
		}
		if seen[t.Name] || !hasFamilyPrefix(t.Name, toolkits) {
			continue
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	return out
}

func hasFamilyPrefix(name string, toolkits []string) bool {
	upper := strings.ToUpper(name)
	for _, k := range toolkits {
		if strings.HasPrefix(upper, k) {
			return true
		}
	}
	return false
}

// ParseDiscovered 解析代理返回的动作列表，兼容 {items:[...]} 与裸数组两种形态
func ParseDiscovered(payload any) []ToolSpec {
	var items []any
	switch v := payload.(type) {
	case []any:
		items = v
	case map[string]any:
		items, _ = v["items"].([]any)
	}
	var out []ToolSpec
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if name == "" {
			name, _ = m["slug"].(string)
		}
		if name == "" {
			continue
		}
		desc, _ := m["description"].(string)
		if desc == "" {
			desc = "Execute " + name
		}
		props := map[string]any{}
		required := []any{}
		if p, ok := m["parameters"].(map[string]any); ok {
			if pp, ok := p["properties"].(map[string]any); ok {
				props = pp
			}
			if r, ok := p["required"].([]any); ok {
				required = r
			}
		}
		out = append(out, ToolSpec{
			Name:        name,
			Description: desc,
			Parameters: map[string]any{
				"type":       "object",
				"properties": props,
				"required":   required,
			},
		})
	}
	return out
}

// toLLMTools 转换为函数调用格式
func toLLMTools(specs []ToolSpec) []clientllm.Tool {
	tools := make([]clientllm.Tool, 0, len(specs))
	for _, s := range specs {
		params := s.Parameters
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		tools = append(tools, clientllm.Tool{
			Type: "function",
			Function: clientllm.FunctionDef{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  params,
			},
		})
	}
	return tools
}
