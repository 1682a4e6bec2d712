package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	clientllm "lyticalpilot/internal/client/llm"
	"lyticalpilot/internal/model"
)

type stubMarket struct {
	newsErr error
	symbols []string
}

func (m *stubMarket) Quote(_ context.Context, symbol string) (*model.StockQuote, error) {
	return &model.StockQuote{
		Symbol:        symbol,
		Price:         decimal.RequireFromString("110"),
		Change:        decimal.RequireFromString("10"),
		ChangePercent: decimal.RequireFromString("10"),
		PreviousClose: decimal.RequireFromString("100"),
	}, nil
}

func (m *stubMarket) Quotes(_ context.Context, symbols []string) ([]model.StockQuote, error) {
	m.symbols = symbols
	return nil, nil
}

func (m *stubMarket) News(context.Context, string) ([]model.NewsArticle, error) {
	if m.newsErr != nil {
		return nil, m.newsErr
	}
	return []model.NewsArticle{{Title: "Record quarter", Summary: "Sales up"}}, nil
}

type stubCompleter struct {
	configured bool
	reply      string
	req        clientllm.ChatRequest
}

func (c *stubCompleter) Configured() bool { return c.configured }

func (c *stubCompleter) Complete(_ context.Context, req clientllm.ChatRequest) (*clientllm.Message, error) {
	c.req = req
	return &clientllm.Message{Role: "assistant", Content: c.reply}, nil
}

func TestAnalyze(t *testing.T) {
	llm := &stubCompleter{configured: true, reply: "Momentum looks Bullish, though the stock appears overvalued."}
	svc := NewMarketService(&stubMarket{}, llm)
	svc.now = func() time.Time { return time.UnixMilli(7) }

	got, err := svc.Analyze(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Sentiment != "bullish" || got.Valuation != "overvalued" || got.Timestamp != 7 {
		t.Errorf("analysis = %+v", got)
	}
	if got.StockData.Symbol != "AAPL" {
		t.Errorf("symbol = %s", got.StockData.Symbol)
	}
	if llm.req.MaxTokens != 300 || llm.req.Temperature == nil || *llm.req.Temperature != 0.7 {
		t.Errorf("request = %+v", llm.req)
	}
	prompt := llm.req.Messages[1].Content
	for _, want := range []string{"analyze AAPL", "Change: +10.00 (10.00%)", "Title: Record quarter"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestAnalyzeMissingKey(t *testing.T) {
	svc := NewMarketService(&stubMarket{}, &stubCompleter{})
	if _, err := svc.Analyze(context.Background(), "AAPL"); !errors.Is(err, model.ErrMissingCredential) {
		t.Fatalf("Analyze() error = %v", err)
	}
}

func TestNewsPlaceholder(t *testing.T) {
	svc := NewMarketService(&stubMarket{newsErr: model.ErrUpstream}, &stubCompleter{})
	news := svc.News(context.Background(), "tsla")
	if len(news) != 1 || news[0].Title != "TSLA Stock Analysis Update" {
		t.Errorf("news = %+v", news)
	}
}

func TestQuotesNormalizesSymbols(t *testing.T) {
	m := &stubMarket{}
	svc := NewMarketService(m, &stubCompleter{})
	if _, err := svc.Quotes(context.Background(), []string{" aapl", "", "msft "}); err != nil {
		t.Fatal(err)
	}
	if strings.Join(m.symbols, ",") != "AAPL,MSFT" {
		t.Errorf("symbols = %v", m.symbols)
	}
	if _, err := svc.Quotes(context.Background(), []string{" "}); !errors.Is(err, model.ErrMissingField) {
		t.Errorf("empty symbols error = %v", err)
	}
}

func TestKeywordFlags(t *testing.T) {
	tests := []struct {
		text, sentiment, valuation string
	}{
		{"bearish and undervalued", "bearish", "undervalued"},
		{"nothing notable", "neutral", "fairly valued"},
		{"bullish vs bearish; overvalued or undervalued", "bullish", "overvalued"},
	}
	for _, tt := range tests {
		if got := Sentiment(tt.text); got != tt.sentiment {
			t.Errorf("Sentiment(%q) = %q, want %q", tt.text, got, tt.sentiment)
		}
		if got := Valuation(tt.text); got != tt.valuation {
			t.Errorf("Valuation(%q) = %q, want %q", tt.text, got, tt.valuation)
		}
	}
}
