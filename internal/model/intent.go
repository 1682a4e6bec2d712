package model

import "github.com/shopspring/decimal"

// IntentKind 意图类别
type IntentKind string

const (
	KindGmail        IntentKind = "gmail"
	KindSlack        IntentKind = "slack"
	KindQuickBooks   IntentKind = "quickbooks"
	KindUnrecognized IntentKind = "unrecognized"
)

// Intent 命令解析结果，取值只能是下面四种类型之一
type Intent interface {
	Kind() IntentKind
}

// EmailIntent 通过 Gmail 发送邮件
type EmailIntent struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ChatPostIntent 向 Slack 频道（#channel）或用户（@user）发消息
type ChatPostIntent struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// LedgerEntryIntent 在 QuickBooks 中记一笔
type LedgerEntryIntent struct {
	Amount decimal.Decimal `json:"amount"`
	Memo   string          `json:"memo"`
}

// Unrecognized 无法解析
type Unrecognized struct{}

func (EmailIntent) Kind() IntentKind       { return KindGmail }
func (ChatPostIntent) Kind() IntentKind    { return KindSlack }
func (LedgerEntryIntent) Kind() IntentKind { return KindQuickBooks }
func (Unrecognized) Kind() IntentKind      { return KindUnrecognized }

// Label 面向用户展示的集成名称
func (k IntentKind) Label() string {
	switch k {
	case KindGmail:
		return "Gmail"
	case KindSlack:
		return "Slack"
	case KindQuickBooks:
		return "QuickBooks"
	default:
		return ""
	}
}
