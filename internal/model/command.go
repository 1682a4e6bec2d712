package model

// CommandRequest 自由文本命令请求
type CommandRequest struct {
	// Text 用户输入的命令文本
	Text string `json:"text"`
	// UserID 代理侧关联账号的用户标识（邮箱）
	UserID string `json:"user_id"`
}

// CommandResponse 命令处理结果
type CommandResponse struct {
	TaskID   string          `json:"task_id"`
	Success  bool            `json:"success"`
	Kind     IntentKind      `json:"kind"`
	Message  string          `json:"message,omitempty"`
	Action   *ActionData     `json:"action,omitempty"`
	Data     any             `json:"data,omitempty"`
	Attempts []ActionAttempt `json:"attempts,omitempty"`
}

// ComposioRequest 代理操作请求，字段命名与前端保持一致
type ComposioRequest struct {
	Action              string      `json:"action"` // initiate, checkConnection, getTools, executeAction
	UserID              string      `json:"userId,omitempty"`
	AuthConfigID        string      `json:"authConfigId,omitempty"`
	Tools               []string    `json:"tools,omitempty"`
	ActionData          *ActionData `json:"actionData,omitempty"`
	ConnectionRequestID string      `json:"connectionRequestId,omitempty"`
}
