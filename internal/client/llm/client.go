package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lyticalpilot/internal/metrics"
	"lyticalpilot/internal/model"
)

// Config LLM 客户端配置
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Client 大模型客户端（OpenAI 兼容接口）
type Client struct {
	cfg     Config
	client  *http.Client
	metrics *metrics.Metrics
}

// Option 客户端可选项
type Option func(*Client)

// WithHTTPClient 自定义 HTTP 客户端
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithMetrics 记录请求结果
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient 创建 LLM 客户端
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	c := &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configured 是否配置了 API key
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// ChatRequest 聊天请求（OpenAI 兼容）
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Tools       []Tool    `json:"tools,omitempty"`
	ToolChoice  string    `json:"tool_choice,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// Tool 暴露给模型的函数
type Tool struct {
	Type     string      `json:"type"` // function
	Function FunctionDef `json:"function"`
}

type FunctionDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolCall 模型选择的一次函数调用，Arguments 为 JSON 字符串
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatResponse 聊天响应
type ChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// APIError 模型接口返回非 200
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm api error: %s %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error { return model.ErrLLMUnavailable }

// Float 返回 f 的指针，便于设置 Temperature
func Float(f float64) *float64 { return &f }

// Chat 发送单轮对话请求，返回大模型回复文本
func (c *Client) Chat(ctx context.Context, systemPrompt, userContent string) (string, error) {
	msg, err := c.Complete(ctx, ChatRequest{
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
	})
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

// Complete 发送完整的对话请求（可带工具），返回第一条候选消息。
// 未指定 Model/Temperature 时使用配置值。
func (c *Client) Complete(ctx context.Context, reqBody ChatRequest) (*Message, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not configured", model.ErrMissingCredential)
	}
	if reqBody.Model == "" {
		reqBody.Model = c.cfg.Model
	}
	if reqBody.Temperature == nil && c.cfg.Temperature != 0 {
		reqBody.Temperature = Float(c.cfg.Temperature)
	}
	msg, err := c.do(ctx, reqBody)
	c.metrics.ObserveLLM(err == nil)
	return msg, err
}

func (c *Client) do(ctx context.Context, reqBody ChatRequest) (*Message, error) {
	url := c.cfg.BaseURL + "/chat/completions"
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: do request: %v", model.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       model.Truncate(string(data), model.MaxMessageLen),
		}
	}
	var chatResp ChatResponse
	if err := json.Unmarshal(data, &chatResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("empty choices")
	}
	return &chatResp.Choices[0].Message, nil
}
