package model

// AgentRequest 经由大模型选择工具的请求
type AgentRequest struct {
	UserID                string   `json:"userId"`
	Message               string   `json:"message"`
	ConnectedIntegrations []string `json:"connectedIntegrations"`
	// SessionID 仅供模型侧会话记忆使用，本服务不跟踪
	SessionID string `json:"sessionId,omitempty"`
}

// ToolCallTurn 模型选择的一次工具调用及其执行结果
type ToolCallTurn struct {
	CallID    string         `json:"call_id"`
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
	Success   bool           `json:"success"`
	Attempt   *ActionAttempt `json:"attempt,omitempty"`
	Result    any            `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// AgentResponse 工具调用循环的最终结果
type AgentResponse struct {
	TaskID        string         `json:"task_id"`
	Message       string         `json:"message"`
	ToolsExecuted int            `json:"toolsExecuted"`
	Success       bool           `json:"success"`
	Tools         []ToolCallTurn `json:"tools,omitempty"`
}

// ChatRequest Langflow 对话请求
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse Langflow 对话响应
type ChatResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Response any    `json:"response,omitempty"`
}
