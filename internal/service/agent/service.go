package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	clientllm "lyticalpilot/internal/client/llm"
	"lyticalpilot/internal/model"
)

// DefaultReply 模型首轮无文本回复时的默认回复
const DefaultReply = "I understand your request."

// ChatModel 支持函数调用的大模型
type ChatModel interface {
	Configured() bool
	Complete(ctx context.Context, req clientllm.ChatRequest) (*clientllm.Message, error)
}

// Broker 集成代理：动作发现与执行
type Broker interface {
	Configured() bool
	ListActions(ctx context.Context, userID string, tools []string) (*model.DispatchResult, error)
	Execute(ctx context.Context, userID string, data model.ActionData) (*model.DispatchResult, error)
}

// Config 工具调用循环配置
type Config struct {
	MaxTools    int
	Families    []string
	Temperature float64
}

// Service 工具调用循环：模型选工具 -> 逐个执行 -> 模型总结
type Service struct {
	model   ChatModel
	broker  Broker
	catalog *Catalog
	cfg     Config
}

// NewService 创建工具调用服务
func NewService(m ChatModel, b Broker, catalog *Catalog, cfg Config) *Service {
	if cfg.MaxTools <= 0 {
		cfg.MaxTools = 10
	}
	return &Service{model: m, broker: b, catalog: catalog, cfg: cfg}
}

// Run 处理一次请求。状态流转：
// Received -> ToolsDiscovered -> ModelTurn1 -> (ToolsExecuted)? -> ModelTurn2? -> Responded
func (s *Service) Run(ctx context.Context, req model.AgentRequest) (model.AgentResponse, error) {
	resp := model.AgentResponse{TaskID: uuid.NewString()}
	logger := log.With().Str("task_id", resp.TaskID).Str("user_id", req.UserID).Logger()
	logger.Info().Str("stage", "received").Strs("connected", req.ConnectedIntegrations).Msg("agent")

	if !s.model.Configured() || !s.broker.Configured() {
		return resp, fmt.Errorf("%w: model and broker API keys are required", model.ErrMissingCredential)
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Message) == "" {
		return resp, fmt.Errorf("%w: userId and message are required", model.ErrMissingField)
	}

	specs := s.discover(ctx, req, logger)
	logger.Info().Str("stage", "tools_discovered").Int("tools", len(specs)).Msg("agent")

	system := systemPrompt(req.UserID, req.ConnectedIntegrations)
	messages := []clientllm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: req.Message},
	}
	turn1 := clientllm.ChatRequest{
		Messages:    messages,
		Temperature: clientllm.Float(s.cfg.Temperature),
	}
	if len(specs) > 0 {
		turn1.Tools = toLLMTools(specs)
		turn1.ToolChoice = "auto"
	}
	first, err := s.model.Complete(ctx, turn1)
	if err != nil {
		logger.Error().Err(err).Str("stage", "model_turn_1").Msg("agent")
		return resp, err
	}
	logger.Info().Str("stage", "model_turn_1").Int("tool_calls", len(first.ToolCalls)).Msg("agent")

	resp.Message = first.Content
	if resp.Message == "" {
		resp.Message = DefaultReply
	}
	if len(first.ToolCalls) == 0 {
		resp.Success = true
		logger.Info().Str("stage", "responded").Msg("agent")
		return resp, nil
	}

	// 工具按模型返回顺序串行执行，单个失败不中断
	toolMsgs := make([]clientllm.Message, 0, len(first.ToolCalls))
	for _, call := range first.ToolCalls {
		turn := s.invoke(ctx, req.UserID, call, logger)
		resp.Tools = append(resp.Tools, turn)
		toolMsgs = append(toolMsgs, clientllm.Message{
			Role:       "tool",
			ToolCallID: call.ID,
			Content:    toolResultContent(turn),
		})
	}
	resp.ToolsExecuted = len(resp.Tools)
	logger.Info().Str("stage", "tools_executed").Int("count", resp.ToolsExecuted).Msg("agent")

	assistant := *first
	assistant.Role = "assistant"
	final := append(messages, assistant)
	final = append(final, toolMsgs...)
	second, err := s.model.Complete(ctx, clientllm.ChatRequest{
		Messages:    final,
		Temperature: clientllm.Float(s.cfg.Temperature),
	})
	if err != nil {
		logger.Error().Err(err).Str("stage", "model_turn_2").Msg("agent")
		return resp, err
	}
	if second.Content != "" {
		resp.Message = second.Content
	}
	resp.Success = true
	logger.Info().Str("stage", "responded").Msg("agent")
	return resp, nil
}

// discover 向代理查询可用动作并按已连接集成过滤；查询失败时回退到内置目录
func (s *Service) discover(ctx context.Context, req model.AgentRequest, logger zerolog.Logger) []ToolSpec {
	toolkits := Toolkits(req.ConnectedIntegrations, s.cfg.Families)
	if len(toolkits) == 0 {
		return nil
	}
	var discovered []ToolSpec
	res, err := s.broker.ListActions(ctx, req.UserID, toolkits)
	if err != nil {
		logger.Warn().Err(err).Msg("agent: action discovery failed, using built-in catalog")
	} else {
		discovered = ParseDiscovered(res.Payload())
	}
	return s.catalog.Select(toolkits, discovered, s.cfg.MaxTools)
}

func (s *Service) invoke(ctx context.Context, userID string, call clientllm.ToolCall, logger zerolog.Logger) model.ToolCallTurn {
	turn := model.ToolCallTurn{CallID: call.ID, ToolName: call.Function.Name}
	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			turn.Error = fmt.Sprintf("%v: arguments are not a JSON object: %v", model.ErrInvalidAction, err)
			logger.Warn().Str("tool", call.Function.Name).Msg("agent: invalid tool arguments")
			return turn
		}
	}
	turn.Arguments = args

	res, err := s.broker.Execute(ctx, userID, model.ActionData{Action: call.Function.Name, Parameters: args})
	if res != nil && len(res.Attempts) > 0 {
		last := res.Attempts[len(res.Attempts)-1]
		turn.Attempt = &last
	}
	if err != nil {
		turn.Error = err.Error()
		logger.Warn().Err(err).Str("tool", call.Function.Name).Msg("agent: tool failed")
		return turn
	}
	turn.Success = true
	turn.Result = res.Payload()
	logger.Info().Str("tool", call.Function.Name).Msg("agent: tool executed")
	return turn
}

// toolResultContent 工具结果序列化后作为 tool 消息回传给模型
func toolResultContent(turn model.ToolCallTurn) string {
	var v any = turn.Result
	if !turn.Success {
		v = map[string]any{"error": turn.Error}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(b)
}

func systemPrompt(userID string, connected []string) string {
	return fmt.Sprintf(`You are Jarvis, an intelligent AI assistant that can execute actions across various platforms.

Available integrations: %s

You can help with:
- Gmail: Send emails, read messages, manage inbox
- Slack: Send messages, create channels, manage workspace
- QuickBooks: Create entries, manage finances, generate reports

When a user asks you to do something, analyze their request and use the appropriate tool to execute the action. Always be helpful and execute the requested actions efficiently.

User ID: %s`, strings.Join(connected, ", "), userID)
}
