package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"lyticalpilot/internal/model"
)

// provider 动作名
const (
	ActionSendEmail   = "GMAIL_SEND_EMAIL"
	ActionSendMessage = "SLACK_SEND_MESSAGE"
	ActionCreateItem  = "QUICKBOOKS_CREATE_ITEM"
)

// LedgerItemName QuickBooks 记账条目固定名称
const LedgerItemName = "Investment"

// Dispatcher 以用户身份执行 provider 动作；composio.Client 实现该接口
type Dispatcher interface {
	Execute(ctx context.Context, userID string, data model.ActionData) (*model.DispatchResult, error)
}

// Executor 将解析后的意图映射为 provider 动作，并委托给集成代理执行
type Executor struct {
	broker Dispatcher
}

// NewExecutor 创建执行器
func NewExecutor(broker Dispatcher) *Executor {
	return &Executor{broker: broker}
}

// ActionFor 按意图类型构造 provider 动作与参数；字段缺失或意图无法识别时返回错误
func ActionFor(intent model.Intent) (model.ActionData, error) {
	switch in := intent.(type) {
	case model.EmailIntent:
		if in.To == "" {
			return model.ActionData{}, fmt.Errorf("%w: recipient email", model.ErrMissingField)
		}
		return model.ActionData{
			Action: ActionSendEmail,
			Parameters: map[string]any{
				"to_email": in.To,
				"subject":  in.Subject,
				"body":     in.Body,
			},
		}, nil
	case model.ChatPostIntent:
		if in.Channel == "" {
			return model.ActionData{}, fmt.Errorf("%w: slack channel", model.ErrMissingField)
		}
		return model.ActionData{
			Action: ActionSendMessage,
			Parameters: map[string]any{
				"channel": in.Channel,
				"text":    in.Text,
			},
		}, nil
	case model.LedgerEntryIntent:
		return model.ActionData{
			Action: ActionCreateItem,
			Parameters: map[string]any{
				"name":        LedgerItemName,
				"description": in.Memo,
				// json.Number 按数字字面量输出，不丢精度
				"unit_price": json.Number(in.Amount.String()),
			},
		}, nil
	case nil, model.Unrecognized:
		return model.ActionData{}, model.ErrUnrecognizedCommand
	default:
		return model.ActionData{}, fmt.Errorf("%w: %T", model.ErrUnrecognizedCommand, intent)
	}
}

// Execute 执行意图对应的动作。userID 为空、意图不完整时在任何网络调用前返回错误。
func (e *Executor) Execute(ctx context.Context, userID string, intent model.Intent) (model.ActionData, *model.DispatchResult, error) {
	data, err := ActionFor(intent)
	if err != nil {
		return model.ActionData{}, nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return data, nil, fmt.Errorf("%w: user email", model.ErrMissingField)
	}
	res, err := e.ExecuteAction(ctx, userID, data)
	return data, res, err
}

// ExecuteAction 直接执行给定的 provider 动作（供工具调用循环使用）
func (e *Executor) ExecuteAction(ctx context.Context, userID string, data model.ActionData) (*model.DispatchResult, error) {
	if data.Action == "" {
		return nil, fmt.Errorf("%w: empty action name", model.ErrInvalidAction)
	}
	res, err := e.broker.Execute(ctx, userID, data)
	if err != nil {
		log.Warn().Err(err).Str("action", data.Action).Msg("executor: action failed")
		return res, err
	}
	log.Info().Str("action", data.Action).Int("attempts", len(res.Attempts)).Msg("executor: action succeeded")
	return res, nil
}
