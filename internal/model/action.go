package model

import "fmt"

// ActionData 交给集成代理执行的动作：provider 动作名 + 参数
type ActionData struct {
	// Action provider 动作名，如 GMAIL_SEND_EMAIL
	Action string `json:"action"`
	// Parameters 动作参数
	Parameters map[string]any `json:"parameters"`
}

// ActionAttempt 对代理的一次调用记录（SDK 或某个 REST 变体）
type ActionAttempt struct {
	Variant     string `json:"variant"`              // sdk, rest_v2, rest_v2_snake, rest_v1
	URL         string `json:"url"`                  // sdk 调用为 sdk://<method>
	Method      string `json:"method"`               // GET, POST, SDK
	BodyShape   string `json:"body_shape,omitempty"` // camel, snake, tool_args
	Status      int    `json:"status,omitempty"`
	StatusText  string `json:"status_text,omitempty"`
	BodySnippet string `json:"body_snippet,omitempty"`
	Succeeded   bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
}

// DispatchResult 一次分发的结果。成功时 Data 为解析后的 JSON；
// 响应体无法解析为 JSON 时 Data 为 nil，仅保留 Snippet。
type DispatchResult struct {
	Success  bool            `json:"success"`
	Data     any             `json:"data,omitempty"`
	Snippet  string          `json:"snippet,omitempty"`
	Attempts []ActionAttempt `json:"attempts"`
}

// Payload 返回给调用方的数据：解析后的 JSON，或仅有片段时的占位对象
func (r *DispatchResult) Payload() any {
	if r.Data != nil {
		return r.Data
	}
	if r.Snippet != "" {
		return map[string]any{"ok": true, "raw": r.Snippet}
	}
	return map[string]any{"ok": true}
}

// DispatchError 所有变体均失败，携带完整尝试记录
type DispatchError struct {
	Operation string
	Attempts  []ActionAttempt
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s: %d attempts failed", e.Operation, len(e.Attempts))
}

func (e *DispatchError) Unwrap() error { return ErrAllVariantsFailed }
