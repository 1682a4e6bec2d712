package composio

import (
	"context"

	"lyticalpilot/internal/model"
)

// SDK 更高层的代理客户端抽象。配置后每个操作先尝试 SDK，失败再依次回退到 REST 变体。
type SDK interface {
	InitiateConnection(ctx context.Context, userID, authConfigID string) (any, error)
	WaitForConnection(ctx context.Context, connectionRequestID string) (any, error)
	ListActions(ctx context.Context, userID string, tools []string) (any, error)
	ExecuteAction(ctx context.Context, userID string, data model.ActionData) (any, error)
}
