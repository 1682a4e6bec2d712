package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lyticalpilot/internal/model"
)

// statusFor 错误到 HTTP 状态码的映射
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrMissingField),
		errors.Is(err, model.ErrUnrecognizedCommand),
		errors.Is(err, model.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrMissingCredential):
		return http.StatusInternalServerError
	case errors.Is(err, model.ErrAllVariantsFailed),
		errors.Is(err, model.ErrUpstream),
		errors.Is(err, model.ErrLLMUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError 写错误响应；错误文本截断到 MaxMessageLen，全部变体失败时附带尝试记录
func respondError(c *gin.Context, err error, extra gin.H) {
	body := gin.H{"error": model.Truncate(err.Error(), model.MaxMessageLen)}
	var de *model.DispatchError
	if errors.As(err, &de) {
		body["attempts"] = de.Attempts
	}
	for k, v := range extra {
		body[k] = v
	}
	_ = c.Error(err)
	c.JSON(statusFor(err), body)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": model.Truncate("invalid request: "+err.Error(), model.MaxMessageLen)})
}
