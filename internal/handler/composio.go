package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lyticalpilot/internal/model"
)

// Broker 集成代理操作；composio.Client 实现该接口
type Broker interface {
	Initiate(ctx context.Context, userID, authConfigID string) (*model.DispatchResult, error)
	CheckConnection(ctx context.Context, connectionRequestID string) (*model.DispatchResult, error)
	ListActions(ctx context.Context, userID string, tools []string) (*model.DispatchResult, error)
	Execute(ctx context.Context, userID string, data model.ActionData) (*model.DispatchResult, error)
}

// ComposioHandler 连接管理、动作发现与直接执行
type ComposioHandler struct {
	broker Broker
}

func NewComposioHandler(b Broker) *ComposioHandler {
	return &ComposioHandler{broker: b}
}

// Handle 按 action 字段分派
// POST /api/v1/composio
func (h *ComposioHandler) Handle(c *gin.Context) {
	var req model.ComposioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	var (
		res *model.DispatchResult
		err error
	)
	switch req.Action {
	case "initiate":
		res, err = h.broker.Initiate(ctx, req.UserID, req.AuthConfigID)
	case "checkConnection":
		res, err = h.broker.CheckConnection(ctx, req.ConnectionRequestID)
	case "getTools":
		res, err = h.broker.ListActions(ctx, req.UserID, req.Tools)
	case "executeAction":
		if req.ActionData == nil {
			err = fmt.Errorf("%w: userId and actionData are required", model.ErrMissingField)
			break
		}
		res, err = h.broker.Execute(ctx, req.UserID, *req.ActionData)
	default:
		err = fmt.Errorf("%w: %q", model.ErrInvalidAction, req.Action)
	}
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res.Payload())
}
