package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lyticalpilot/internal/model"
	"lyticalpilot/internal/service"
)

// CommandHandler 处理自由文本命令
type CommandHandler struct {
	svc *service.CommandService
}

func NewCommandHandler(svc *service.CommandService) *CommandHandler {
	return &CommandHandler{svc: svc}
}

// Process 解析并执行命令
// POST /api/v1/command
func (h *CommandHandler) Process(c *gin.Context) {
	var req model.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.Process(c.Request.Context(), req)
	if err != nil {
		extra := gin.H{"task_id": resp.TaskID, "result": resp}
		if resp.Message != "" {
			extra["message"] = resp.Message
		}
		respondError(c, err, extra)
		return
	}
	c.JSON(http.StatusOK, resp)
}
