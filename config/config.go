package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 应用总配置，按环境加载；启动时加载一次后以只读方式传入各组件
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	LLM      LLMConfig      `yaml:"llm"`
	Composio ComposioConfig `yaml:"composio"`
	Agent    AgentConfig    `yaml:"agent"`
	Langflow LangflowConfig `yaml:"langflow"`
	Market   MarketConfig   `yaml:"market"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	Mode        string   `yaml:"mode"` // debug, release
	CORSOrigins []string `yaml:"cors_origins"`
}

type LLMConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ComposioConfig 集成代理（Composio）配置
type ComposioConfig struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"` // 不含版本号，如 https://backend.composio.dev/api
	Timeout      time.Duration `yaml:"timeout"`
	SnippetLimit int           `yaml:"snippet_limit"` // 诊断用响应片段最大长度
}

// AgentConfig 大模型工具调用循环配置
type AgentConfig struct {
	MaxTools int      `yaml:"max_tools"` // 单次请求最多暴露给模型的工具数
	Families []string `yaml:"families"`  // 允许的工具前缀族，如 GMAIL/SLACK/QUICKBOOKS
}

type LangflowConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	FlowID  string `yaml:"flow_id"`
}

type MarketConfig struct {
	ChartBaseURL  string `yaml:"chart_base_url"`
	SearchBaseURL string `yaml:"search_base_url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Load 根据环境变量 APP_ENV 加载对应配置文件
// 支持: local, dev, prod，默认 local
func Load() (*Config, error) {
	// .env 可选，不存在时忽略
	_ = godotenv.Load()

	env := Env()
	path := fmt.Sprintf("config/%s.yaml", env)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse 解析 YAML 配置，补默认值并应用环境变量覆盖
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	// 允许环境变量覆盖敏感配置
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// Env 返回当前运行环境
func Env() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		return "local"
	}
	return env
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 120 * time.Second
	}
	if c.Composio.BaseURL == "" {
		c.Composio.BaseURL = "https://backend.composio.dev/api"
	}
	if c.Composio.Timeout == 0 {
		c.Composio.Timeout = 30 * time.Second
	}
	if c.Composio.SnippetLimit == 0 {
		c.Composio.SnippetLimit = 400
	}
	if c.Agent.MaxTools == 0 {
		c.Agent.MaxTools = 10
	}
	if len(c.Agent.Families) == 0 {
		c.Agent.Families = []string{"GMAIL", "SLACK", "QUICKBOOKS"}
	}
	if c.Market.ChartBaseURL == "" {
		c.Market.ChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	if c.Market.SearchBaseURL == "" {
		c.Market.SearchBaseURL = "https://query2.finance.yahoo.com/v1/finance/search"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func overrideFromEnv(c *Config) {
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("COMPOSIO_API_KEY"); v != "" {
		c.Composio.APIKey = v
	}
	if v := os.Getenv("LANGFLOW_API_KEY"); v != "" {
		c.Langflow.APIKey = v
	}
	if v := os.Getenv("LANGFLOW_BASE_URL"); v != "" {
		c.Langflow.BaseURL = v
	}
	if v := os.Getenv("LANGFLOW_FLOW_ID"); v != "" {
		c.Langflow.FlowID = v
	}
}
