package langflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"lyticalpilot/internal/model"
)

// Config Langflow 客户端配置
type Config struct {
	APIKey  string
	BaseURL string
	FlowID  string
}

// Client Langflow flow 运行接口客户端
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient 创建 Langflow 客户端
func NewClient(cfg Config, hc *http.Client) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{cfg: cfg, client: hc}
}

const defaultSessionID = "user_1"

// 依次尝试的回复文本路径
var replyPaths = []string{
	"$.outputs[0].outputs[0].results.message.text",
	"$.outputs[0].outputs[0].artifacts.message",
}

type runRequest struct {
	OutputType string `json:"output_type"`
	InputType  string `json:"input_type"`
	InputValue string `json:"input_value"`
	SessionID  string `json:"session_id"`
}

// Run 运行 flow，返回回复文本与原始响应
func (c *Client) Run(ctx context.Context, message, sessionID string) (string, any, error) {
	switch {
	case c.cfg.APIKey == "":
		return "", nil, fmt.Errorf("%w: LANGFLOW_API_KEY not configured", model.ErrMissingCredential)
	case c.cfg.BaseURL == "":
		return "", nil, fmt.Errorf("%w: LANGFLOW_BASE_URL not configured", model.ErrMissingCredential)
	case c.cfg.FlowID == "":
		return "", nil, fmt.Errorf("%w: LANGFLOW_FLOW_ID not configured", model.ErrMissingCredential)
	}
	if sessionID == "" {
		sessionID = defaultSessionID
	}
	body, _ := json.Marshal(runRequest{
		OutputType: "chat",
		InputType:  "chat",
		InputValue: message,
		SessionID:  sessionID,
	})
	url := fmt.Sprintf("%s/api/v1/run/%s", c.cfg.BaseURL, c.cfg.FlowID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: langflow: %v", model.ErrUpstream, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("langflow: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("%w: langflow api error: %s", model.ErrUpstream, resp.Status)
	}
	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		return "", nil, fmt.Errorf("langflow parse response: %w", err)
	}
	return ReplyText(data), data, nil
}

// ReplyText 从 flow 响应中提取回复文本，找不到时返回整个响应的 JSON
func ReplyText(data any) string {
	for _, path := range replyPaths {
		v, err := jsonpath.Get(path, data)
		if err != nil {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	raw, _ := json.Marshal(data)
	return string(raw)
}
