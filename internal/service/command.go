package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lyticalpilot/internal/metrics"
	"lyticalpilot/internal/model"
	"lyticalpilot/internal/service/command"
	"lyticalpilot/internal/service/executor"
)

// CommandService 编排：自由文本 -> 意图 -> provider 动作 -> 集成代理
type CommandService struct {
	executor *executor.Executor
	metrics  *metrics.Metrics
}

// NewCommandService 创建命令服务；m 可为 nil
func NewCommandService(exec *executor.Executor, m *metrics.Metrics) *CommandService {
	return &CommandService{executor: exec, metrics: m}
}

// Process 解析并执行一条命令。无法识别时返回帮助文本与 ErrUnrecognizedCommand。
func (s *CommandService) Process(ctx context.Context, req model.CommandRequest) (model.CommandResponse, error) {
	resp := model.CommandResponse{TaskID: uuid.NewString()}

	// 1. 解析意图，不做任何外部调用
	intent := command.Parse(req.Text)
	resp.Kind = intent.Kind()
	s.metrics.ObserveCommand(string(resp.Kind))
	if resp.Kind == model.KindUnrecognized {
		resp.Message = command.HelpText
		return resp, model.ErrUnrecognizedCommand
	}

	// 2. 映射为 provider 动作并交给代理执行
	data, res, err := s.executor.Execute(ctx, req.UserID, intent)
	if data.Action != "" {
		resp.Action = &data
	}
	if res != nil {
		resp.Attempts = res.Attempts
	}
	if err != nil {
		resp.Message = model.Truncate("Action failed: "+failureDetail(err), model.MaxMessageLen)
		log.Warn().Err(err).Str("task_id", resp.TaskID).Str("kind", string(resp.Kind)).Msg("command failed")
		return resp, err
	}

	resp.Success = true
	resp.Message = fmt.Sprintf("%s action succeeded.", resp.Kind.Label())
	resp.Data = res.Payload()
	log.Info().Str("task_id", resp.TaskID).Str("action", data.Action).Msg("command executed")
	return resp, nil
}

// failureDetail 全部变体失败时取最后一次尝试的诊断信息
func failureDetail(err error) string {
	var de *model.DispatchError
	if !errors.As(err, &de) || len(de.Attempts) == 0 {
		return err.Error()
	}
	last := de.Attempts[len(de.Attempts)-1]
	switch {
	case last.BodySnippet != "":
		return fmt.Sprintf("%d %s %s", last.Status, last.StatusText, last.BodySnippet)
	case last.Error != "":
		return last.Error
	default:
		return err.Error()
	}
}
