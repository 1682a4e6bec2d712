package model

import "github.com/shopspring/decimal"

// StockQuote 行情快照
type StockQuote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Volume        int64           `json:"volume"`
	MarketCap     decimal.Decimal `json:"marketCap,omitempty"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	DayHigh       decimal.Decimal `json:"dayHigh,omitempty"`
	DayLow        decimal.Decimal `json:"dayLow,omitempty"`
	Timestamp     int64           `json:"timestamp"`
}

// NewsArticle 个股新闻
type NewsArticle struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Publisher   string `json:"publisher"`
	PublishTime int64  `json:"publishTime"`
	Link        string `json:"link"`
	UUID        string `json:"uuid"`
}

// StockAnalysis 大模型生成的个股点评
type StockAnalysis struct {
	Analysis  string      `json:"analysis"`
	Sentiment string      `json:"sentiment"` // bullish, bearish, neutral
	Valuation string      `json:"valuation"` // overvalued, undervalued, fairly valued
	StockData *StockQuote `json:"stockData"`
	Timestamp int64       `json:"timestamp"`
}
