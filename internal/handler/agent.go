package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lyticalpilot/internal/model"
	"lyticalpilot/internal/service/agent"
)

// AgentHandler 大模型工具调用
type AgentHandler struct {
	svc *agent.Service
}

func NewAgentHandler(svc *agent.Service) *AgentHandler {
	return &AgentHandler{svc: svc}
}

// Run POST /api/v1/agent
func (h *AgentHandler) Run(c *gin.Context) {
	var req model.AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.Run(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, gin.H{"task_id": resp.TaskID, "success": false, "result": resp})
		return
	}
	c.JSON(http.StatusOK, resp)
}
