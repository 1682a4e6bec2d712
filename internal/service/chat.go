package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"lyticalpilot/internal/model"
)

// FlowRunner 运行对话 flow
type FlowRunner interface {
	Run(ctx context.Context, message, sessionID string) (string, any, error)
}

// ChatService Langflow 对话代理
type ChatService struct {
	flow FlowRunner
}

func NewChatService(flow FlowRunner) *ChatService {
	return &ChatService{flow: flow}
}

// Chat 转发一条消息并返回 flow 的回复
func (s *ChatService) Chat(ctx context.Context, req model.ChatRequest) (model.ChatResponse, error) {
	text, raw, err := s.flow.Run(ctx, req.Message, req.SessionID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", req.SessionID).Msg("chat: flow run failed")
		return model.ChatResponse{}, err
	}
	return model.ChatResponse{Success: true, Message: text, Response: raw}, nil
}
