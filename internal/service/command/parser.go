package command

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"lyticalpilot/internal/model"
)

const (
	DefaultSubject   = "Stock Analysis from LyticalPilot"
	DefaultSlackText = "Automated update from LyticalPilot"
	DefaultMemo      = "Automated entry from LyticalPilot"
)

// HelpText 无法解析时展示给用户的三种支持格式
const HelpText = "I couldn't parse that. Try one of these formats:\n" +
	"- Email to jane@example.com subject: Hello body: Here is the update\n" +
	"- Slack #general message: Heads up team...\n" +
	"- QuickBooks amount: 250.00 memo: Research expense"

var (
	emailRE   = regexp.MustCompile(`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)
	gmailRE   = regexp.MustCompile(`(?i)gmail|email`)
	slackRE   = regexp.MustCompile(`(?i)slack`)
	qbRE      = regexp.MustCompile(`(?i)quickbooks`)
	channelRE = regexp.MustCompile(`(#\w+|@\w+)`)
	amountRE  = regexp.MustCompile(`(?i)amount\s*[:=]?\s*\$?(-?\d+(\.\d+)?)`)

	subjectMarkerRE = regexp.MustCompile(`(?i)subject\s*:\s*`)
	bodyMarkerRE    = regexp.MustCompile(`(?i)body\s*:`)
	bodyRE          = regexp.MustCompile(`(?is)body\s*:\s*(.+)$`)
	messageRE       = regexp.MustCompile(`(?is)message\s*:\s*(.+)$`)
	memoRE          = regexp.MustCompile(`(?is)memo\s*:\s*(.+)$`)

	gmailPrefixRE = regexp.MustCompile(`(?i).*?(gmail|email)\b`)
	slackPrefixRE = regexp.MustCompile(`(?i).*?slack\b`)
)

// rule 一条解析规则：trigger 命中后由 extract 提取字段，必填字段缺失时返回 false，继续尝试下一条
type rule struct {
	kind    model.IntentKind
	trigger *regexp.Regexp
	extract func(text string) (model.Intent, bool)
}

// rules 按优先级排列，第一条成功提取的规则胜出。
// 同时包含 email 与 slack 的文本按 Gmail 处理。
var rules = []rule{
	{kind: model.KindGmail, trigger: gmailRE, extract: extractEmail},
	{kind: model.KindSlack, trigger: slackRE, extract: extractChatPost},
	{kind: model.KindQuickBooks, trigger: qbRE, extract: extractLedgerEntry},
}

// Precedence 返回规则的求值顺序
func Precedence() []model.IntentKind {
	kinds := make([]model.IntentKind, len(rules))
	for i, r := range rules {
		kinds[i] = r.kind
	}
	return kinds
}

// Parse 将一条自由文本解析为意图，不发起任何外部调用；无法解析时返回 model.Unrecognized
func Parse(input string) model.Intent {
	text := strings.TrimSpace(input)
	if text == "" {
		return model.Unrecognized{}
	}
	for _, r := range rules {
		if !r.trigger.MatchString(text) {
			continue
		}
		if intent, ok := r.extract(text); ok {
			return intent
		}
	}
	return model.Unrecognized{}
}

func extractEmail(text string) (model.Intent, bool) {
	m := emailRE.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	subject := DefaultSubject
	if loc := subjectMarkerRE.FindStringIndex(text); loc != nil {
		rest := text[loc[1]:]
		if end := bodyMarkerRE.FindStringIndex(rest); end != nil {
			rest = rest[:end[0]]
		}
		if s := strings.TrimSpace(rest); s != "" {
			subject = s
		}
	}
	var body string
	if bm := bodyRE.FindStringSubmatch(text); bm != nil {
		body = strings.TrimSpace(bm[1])
	} else {
		body = stripThrough(gmailPrefixRE, text)
	}
	return model.EmailIntent{To: m[1], Subject: subject, Body: body}, true
}

func extractChatPost(text string) (model.Intent, bool) {
	m := channelRE.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	var msg string
	if mm := messageRE.FindStringSubmatch(text); mm != nil {
		msg = strings.TrimSpace(mm[1])
	} else {
		msg = stripThrough(slackPrefixRE, text)
	}
	if msg == "" {
		msg = DefaultSlackText
	}
	return model.ChatPostIntent{Channel: m[1], Text: msg}, true
}

func extractLedgerEntry(text string) (model.Intent, bool) {
	m := amountRE.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return nil, false
	}
	memo := DefaultMemo
	if mm := memoRE.FindStringSubmatch(text); mm != nil {
		if s := strings.TrimSpace(mm[1]); s != "" {
			memo = s
		}
	}
	return model.LedgerEntryIntent{Amount: amount, Memo: memo}, true
}

// stripThrough 删除文本开头到第一个触发词（含）之间的内容
func stripThrough(re *regexp.Regexp, text string) string {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
}
