package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	clientllm "lyticalpilot/internal/client/llm"
	"lyticalpilot/internal/client/market"
	"lyticalpilot/internal/model"
)

// MarketData 行情数据源
type MarketData interface {
	Quote(ctx context.Context, symbol string) (*model.StockQuote, error)
	Quotes(ctx context.Context, symbols []string) ([]model.StockQuote, error)
	News(ctx context.Context, symbol string) ([]model.NewsArticle, error)
}

// Completer 单次对话补全
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, req clientllm.ChatRequest) (*clientllm.Message, error)
}

const (
	analysisMaxTokens   = 300
	analysisTemperature = 0.7
	analystSystemPrompt = "You are LyticalPilot, an expert AI financial analyst that provides accurate, unbiased stock analysis based on market data and news."
)

// MarketService 行情查询与大模型点评
type MarketService struct {
	data MarketData
	llm  Completer
	now  func() time.Time
}

// NewMarketService 创建行情服务
func NewMarketService(data MarketData, llm Completer) *MarketService {
	return &MarketService{data: data, llm: llm, now: time.Now}
}

// Quote 单只股票行情
func (s *MarketService) Quote(ctx context.Context, symbol string) (*model.StockQuote, error) {
	return s.data.Quote(ctx, strings.ToUpper(symbol))
}

// Quotes 批量行情，symbols 为空时返回 ErrMissingField
func (s *MarketService) Quotes(ctx context.Context, symbols []string) ([]model.StockQuote, error) {
	var clean []string
	for _, sym := range symbols {
		if sym = strings.ToUpper(strings.TrimSpace(sym)); sym != "" {
			clean = append(clean, sym)
		}
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("%w: symbols", model.ErrMissingField)
	}
	return s.data.Quotes(ctx, clean)
}

// News 个股新闻；上游失败时返回占位条目
func (s *MarketService) News(ctx context.Context, symbol string) []model.NewsArticle {
	symbol = strings.ToUpper(symbol)
	news, err := s.data.News(ctx, symbol)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("market: news unavailable, using placeholder")
		return market.PlaceholderNews(symbol, s.now())
	}
	return news
}

// Analyze 结合行情与新闻让大模型生成点评
func (s *MarketService) Analyze(ctx context.Context, symbol string) (*model.StockAnalysis, error) {
	if !s.llm.Configured() {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not configured", model.ErrMissingCredential)
	}
	quote, err := s.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	news := s.News(ctx, quote.Symbol)

	msg, err := s.llm.Complete(ctx, clientllm.ChatRequest{
		Messages: []clientllm.Message{
			{Role: "system", Content: analystSystemPrompt},
			{Role: "user", Content: analysisPrompt(quote, news)},
		},
		MaxTokens:   analysisMaxTokens,
		Temperature: clientllm.Float(analysisTemperature),
	})
	if err != nil {
		return nil, err
	}
	if msg.Content == "" {
		return nil, errors.New("empty analysis from model")
	}
	return &model.StockAnalysis{
		Analysis:  msg.Content,
		Sentiment: Sentiment(msg.Content),
		Valuation: Valuation(msg.Content),
		StockData: quote,
		Timestamp: s.now().UnixMilli(),
	}, nil
}

// Sentiment 按关键词判断情绪，bullish 优先
func Sentiment(analysis string) string {
	lower := strings.ToLower(analysis)
	switch {
	case strings.Contains(lower, "bullish"):
		return "bullish"
	case strings.Contains(lower, "bearish"):
		return "bearish"
	default:
		return "neutral"
	}
}

// Valuation 按关键词判断估值，overvalued 优先
func Valuation(analysis string) string {
	lower := strings.ToLower(analysis)
	switch {
	case strings.Contains(lower, "overvalued"):
		return "overvalued"
	case strings.Contains(lower, "undervalued"):
		return "undervalued"
	default:
		return "fairly valued"
	}
}

func analysisPrompt(q *model.StockQuote, news []model.NewsArticle) string {
	sign := ""
	if q.Change.IsPositive() {
		sign = "+"
	}
	items := make([]string, 0, len(news))
	for _, n := range news {
		items = append(items, fmt.Sprintf("Title: %s\nSummary: %s", n.Title, n.Summary))
	}
	return fmt.Sprintf(`As LyticalPilot, an expert financial analyst, analyze %s based on the following data:

Stock Data:
- Current Price: $%s
- Change: %s%s (%s%%)
- Volume: %d
- Day High: $%s
- Day Low: $%s
- Previous Close: $%s

Recent News:
%s

Provide a concise analysis covering:
1. Current sentiment (bullish/bearish/neutral)
2. Valuation assessment (overvalued/fairly valued/undervalued)
3. Key factors influencing the stock
4. Risk assessment
5. Short-term outlook

Keep the response professional, data-driven, and under 200 words.`,
		q.Symbol, q.Price, sign, q.Change.StringFixed(2), q.ChangePercent.StringFixed(2), q.Volume,
		q.DayHigh, q.DayLow, q.PreviousClose, strings.Join(items, "\n\n"))
}
