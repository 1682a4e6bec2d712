package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"lyticalpilot/internal/model"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	// MaxNews 单只股票返回的新闻条数上限
	MaxNews = 5
	// 批量查询时的并发上限
	quoteConcurrency = 4
)

// Config 行情接口配置
type Config struct {
	ChartBaseURL  string
	SearchBaseURL string
}

// Client 公开行情接口（Yahoo Finance）客户端
type Client struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

// NewClient 创建行情客户端
func NewClient(cfg Config, hc *http.Client) *Client {
	cfg.ChartBaseURL = strings.TrimRight(cfg.ChartBaseURL, "/")
	cfg.SearchBaseURL = strings.TrimRight(cfg.SearchBaseURL, "/")
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{cfg: cfg, client: hc, now: time.Now}
}

// Quote 查询单只股票的行情快照
func (c *Client) Quote(ctx context.Context, symbol string) (*model.StockQuote, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", model.ErrMissingField)
	}
	data, err := c.getJSON(ctx, c.cfg.ChartBaseURL+"/"+url.PathEscape(symbol))
	if err != nil {
		return nil, fmt.Errorf("fetch stock data for %s: %w", symbol, err)
	}
	meta, err := jsonpath.Get("$.chart.result[0].meta", data)
	if err != nil {
		return nil, fmt.Errorf("%w: no chart data for %s", model.ErrUpstream, symbol)
	}
	m, ok := meta.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected chart meta for %s", model.ErrUpstream, symbol)
	}
	return c.quoteFromMeta(symbol, m), nil
}

func (c *Client) quoteFromMeta(symbol string, m map[string]any) *model.StockQuote {
	price := num(m, "regularMarketPrice")
	prev := num(m, "previousClose")
	if prev.IsZero() {
		prev = num(m, "chartPreviousClose")
	}
	q := &model.StockQuote{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: prev,
		Change:        price.Sub(prev),
		Volume:        num(m, "regularMarketVolume").IntPart(),
		DayHigh:       num(m, "regularMarketDayHigh"),
		DayLow:        num(m, "regularMarketDayLow"),
		Timestamp:     c.now().UnixMilli(),
	}
	if s, ok := m["symbol"].(string); ok && s != "" {
		q.Symbol = s
	}
	if !prev.IsZero() {
		q.ChangePercent = q.Change.Div(prev).Mul(decimal.NewFromInt(100)).Round(4)
	}
	if shares := num(m, "sharesOutstanding"); !shares.IsZero() {
		q.MarketCap = price.Mul(shares)
	}
	return q
}

// Quotes 并发查询多只股票，查询失败的股票被跳过，结果保持输入顺序
func (c *Client) Quotes(ctx context.Context, symbols []string) ([]model.StockQuote, error) {
	results := make([]*model.StockQuote, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteConcurrency)
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			q, err := c.Quote(gctx, sym)
			if err != nil {
				log.Warn().Err(err).Str("symbol", sym).Msg("market: quote failed, skipping")
				return nil
			}
			results[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	quotes := make([]model.StockQuote, 0, len(symbols))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes, nil
}

// News 查询个股新闻，最多 MaxNews 条
func (c *Client) News(ctx context.Context, symbol string) ([]model.NewsArticle, error) {
	q := url.Values{}
	q.Set("q", symbol)
	q.Set("lang", "en-US")
	q.Set("region", "US")
	q.Set("quotesCount", "1")
	q.Set("newsCount", "10")
	q.Set("enableFuzzyQuery", "false")
	data, err := c.getJSON(ctx, c.cfg.SearchBaseURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", symbol, err)
	}
	raw, err := jsonpath.Get("$.news", data)
	if err != nil {
		return []model.NewsArticle{}, nil
	}
	items, _ := raw.([]any)
	news := make([]model.NewsArticle, 0, MaxNews)
	for _, it := range items {
		if len(news) == MaxNews {
			break
		}
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		news = append(news, model.NewsArticle{
			Title:       str(m, "title"),
			Summary:     str(m, "summary"),
			Publisher:   str(m, "publisher"),
			PublishTime: num(m, "providerPublishTime").IntPart(),
			Link:        str(m, "link"),
			UUID:        str(m, "uuid"),
		})
	}
	return news, nil
}

// PlaceholderNews 新闻接口不可用时返回的占位条目
func PlaceholderNews(symbol string, now time.Time) []model.NewsArticle {
	return []model.NewsArticle{{
		Title:       symbol + " Stock Analysis Update",
		Summary:     "Latest market analysis and trends for this stock.",
		Publisher:   "Market Insights",
		PublishTime: now.Unix(),
		Link:        "#",
		UUID:        "mock-1",
	}}
}

func (c *Client) getJSON(ctx context.Context, target string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", model.ErrUpstream, resp.Status)
	}
	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", model.ErrUpstream, err)
	}
	return data, nil
}

func num(m map[string]any, key string) decimal.Decimal {
	if f, ok := m[key].(float64); ok {
		return decimal.NewFromFloat(f)
	}
	return decimal.Zero
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
