package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lyticalpilot/internal/model"
	"lyticalpilot/internal/service"
)

// ChatHandler Langflow 对话代理
type ChatHandler struct {
	svc *service.ChatService
}

func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Chat POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.Chat(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, resp)
}
