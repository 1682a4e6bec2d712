package composio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"lyticalpilot/internal/metrics"
	"lyticalpilot/internal/model"
)

// Config Composio 客户端配置
type Config struct {
	APIKey       string
	BaseURL      string // 不含版本号，如 https://backend.composio.dev/api
	Timeout      time.Duration
	SnippetLimit int
}

// Client 集成代理 API 客户端。每个操作按固定顺序尝试若干变体，第一个成功即返回。
type Client struct {
	cfg     Config
	client  *http.Client
	sdk     SDK
	metrics *metrics.Metrics
}

// Option 客户端可选项
type Option func(*Client)

// WithHTTPClient 自定义 HTTP 客户端
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithSDK 启用 SDK 优先调用
func WithSDK(sdk SDK) Option {
	return func(c *Client) { c.sdk = sdk }
}

// WithMetrics 记录每次尝试
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient 创建 Composio 客户端
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://backend.composio.dev/api"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.SnippetLimit <= 0 {
		cfg.SnippetLimit = model.MaxMessageLen
	}
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

// Initiate 为用户发起一个 OAuth 连接
func (c *Client) Initiate(ctx context.Context, userID, authConfigID string) (*model.DispatchResult, error) {
	if !c.Configured() {
		return nil, missingKey()
	}
	if userID == "" || authConfigID == "" {
		return nil, fmt.Errorf("%w: userId and authConfigId are required for initiation", model.ErrMissingField)
	}
	return c.dispatch(ctx, OpInitiate, initiateVariants(userID, authConfigID))
}

// CheckConnection 查询连接请求的状态
func (c *Client) CheckConnection(ctx context.Context, connectionRequestID string) (*model.DispatchResult, error) {
	if !c.Configured() {
		return nil, missingKey()
	}
	if connectionRequestID == "" {
		return nil, fmt.Errorf("%w: connectionRequestId is required for checking connection", model.ErrMissingField)
	}
	return c.dispatch(ctx, OpCheckConnection, checkConnectionVariants(connectionRequestID))
}

// ListActions 列出代理侧可用的动作
func (c *Client) ListActions(ctx context.Context, userID string, tools []string) (*model.DispatchResult, error) {
	if !c.Configured() {
		return nil, missingKey()
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrMissingField)
	}
	return c.dispatch(ctx, OpListActions, listActionsVariants(userID, tools))
}

// Execute 以 userID 身份执行一个 provider 动作。重复调用会重复触发副作用，幂等由代理负责。
func (c *Client) Execute(ctx context.Context, userID string, data model.ActionData) (*model.DispatchResult, error) {
	if !c.Configured() {
		return nil, missingKey()
	}
	if userID == "" || data.Action == "" {
		return nil, fmt.Errorf("%w: userId and actionData are required", model.ErrMissingField)
	}
	return c.dispatch(ctx, OpExecute, executeVariants(userID, data))
}

func missingKey() error {
	return fmt.Errorf("%w: COMPOSIO_API_KEY not configured", model.ErrMissingCredential)
}

// dispatch 依次尝试各变体，遇到第一个成功立即返回；全部失败时返回 *model.DispatchError
func (c *Client) dispatch(ctx context.Context, op Operation, variants []Variant) (*model.DispatchResult, error) {
	res := &model.DispatchResult{}
	for _, v := range variants {
		if v.Kind == KindSDK && c.sdk == nil {
			continue
		}
		var (
			attempt model.ActionAttempt
			data    any
			snippet string
		)
		if v.Kind == KindSDK {
			attempt, data = c.callSDK(ctx, v)
		} else {
			attempt, data, snippet = c.callREST(ctx, v)
		}
		res.Attempts = append(res.Attempts, attempt)
		c.metrics.ObserveAttempt(string(op), v.Name, attempt.Succeeded)
		if attempt.Succeeded {
			res.Success = true
			res.Data = data
			res.Snippet = snippet
			return res, nil
		}
		if err := ctx.Err(); err != nil {
			break
		}
	}
	log.Warn().Str("operation", string(op)).Int("attempts", len(res.Attempts)).Msg("composio: all variants failed")
	return res, &model.DispatchError{Operation: string(op), Attempts: res.Attempts}
}

func (c *Client) callSDK(ctx context.Context, v Variant) (model.ActionAttempt, any) {
	attempt := model.ActionAttempt{
		Variant: string(KindSDK),
		URL:     "sdk://" + v.Name,
		Method:  "SDK",
	}
	data, err := v.SDKCall(ctx, c.sdk)
	if err != nil {
		attempt.Error = err.Error()
		log.Warn().Err(err).Str("url", attempt.URL).Msg("composio: sdk call failed")
		return attempt, nil
	}
	attempt.Succeeded = true
	attempt.Status = http.StatusOK
	attempt.StatusText = http.StatusText(http.StatusOK)
	return attempt, data
}

// callREST 发起一次 REST 调用并记录诊断信息。
// 2xx 但响应体不是 JSON 时仍视为成功，只返回片段。
func (c *Client) callREST(ctx context.Context, v Variant) (model.ActionAttempt, any, string) {
	target := c.cfg.BaseURL + v.Path
	attempt := model.ActionAttempt{
		Variant:   v.Name,
		URL:       target,
		Method:    v.Method,
		BodyShape: string(v.Shape),
	}
	var body io.Reader
	if v.Body != nil {
		b, err := json.Marshal(v.Body)
		if err != nil {
			attempt.Error = fmt.Sprintf("marshal request: %v", err)
			return attempt, nil, ""
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, v.Method, target, body)
	if err != nil {
		attempt.Error = fmt.Sprintf("new request: %v", err)
		return attempt, nil, ""
	}
	req.Header.Set(v.KeyHeader, c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug().Str("method", v.Method).Str("url", target).Msg("composio: attempting")
	resp, err := c.client.Do(req)
	if err != nil {
		attempt.Error = err.Error()
		log.Warn().Err(err).Str("url", target).Msg("composio: request failed")
		return attempt, nil, ""
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	attempt.Status = resp.StatusCode
	attempt.StatusText = http.StatusText(resp.StatusCode)
	if err != nil {
		attempt.Error = fmt.Sprintf("read body: %v", err)
		return attempt, nil, ""
	}
	snippet := model.Truncate(string(raw), c.cfg.SnippetLimit)
	log.Debug().Int("status", resp.StatusCode).Str("url", target).Str("snippet", snippet).Msg("composio: response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		attempt.BodySnippet = snippet
		return attempt, nil, ""
	}
	attempt.Succeeded = true
	if len(bytes.TrimSpace(raw)) == 0 {
		return attempt, map[string]any{}, ""
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Warn().Str("url", target).Msg("composio: non-JSON success response, keeping raw snippet")
		attempt.BodySnippet = snippet
		return attempt, nil, snippet
	}
	return attempt, data, ""
}
