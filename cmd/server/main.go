package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lyticalpilot/config"
	"lyticalpilot/internal/client/composio"
	"lyticalpilot/internal/client/langflow"
	"lyticalpilot/internal/client/llm"
	"lyticalpilot/internal/client/market"
	"lyticalpilot/internal/handler"
	"lyticalpilot/internal/metrics"
	"lyticalpilot/internal/service"
	"lyticalpilot/internal/service/agent"
	"lyticalpilot/internal/service/executor"
)

func main() {
	// 按环境加载配置（APP_ENV=local|dev|prod）
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogger(cfg.Log)

	ginMode := cfg.Server.Mode
	if os.Getenv("GIN_MODE") != "" {
		ginMode = os.Getenv("GIN_MODE")
	}
	gin.SetMode(ginMode)

	m := metrics.New()

	// 客户端
	llmClient := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, llm.WithMetrics(m))
	broker := composio.NewClient(composio.Config{
		APIKey:       cfg.Composio.APIKey,
		BaseURL:      cfg.Composio.BaseURL,
		Timeout:      cfg.Composio.Timeout,
		SnippetLimit: cfg.Composio.SnippetLimit,
	}, composio.WithMetrics(m))
	flow := langflow.NewClient(langflow.Config{
		APIKey:  cfg.Langflow.APIKey,
		BaseURL: cfg.Langflow.BaseURL,
		FlowID:  cfg.Langflow.FlowID,
	}, &http.Client{Timeout: cfg.LLM.Timeout})
	quotes := market.NewClient(market.Config{
		ChartBaseURL:  cfg.Market.ChartBaseURL,
		SearchBaseURL: cfg.Market.SearchBaseURL,
	}, nil)

	// 服务层
	catalog, err := agent.LoadCatalog()
	if err != nil {
		log.Fatal().Err(err).Msg("load tool catalog")
	}
	agentSvc := agent.NewService(llmClient, broker, catalog, agent.Config{
		MaxTools:    cfg.Agent.MaxTools,
		Families:    cfg.Agent.Families,
		Temperature: cfg.LLM.Temperature,
	})
	commandSvc := service.NewCommandService(executor.NewExecutor(broker), m)

	// 路由
	r := handler.Router(handler.Deps{
		Command:     commandSvc,
		Agent:       agentSvc,
		Chat:        service.NewChatService(flow),
		Market:      service.NewMarketService(quotes, llmClient),
		Broker:      broker,
		Metrics:     m,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	// 工具调用循环包含两轮模型请求与若干代理调用
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLM.Timeout*2 + cfg.Composio.Timeout*4,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	if !broker.Configured() {
		log.Warn().Msg("COMPOSIO_API_KEY not set, broker requests will fail")
	}
	if !llmClient.Configured() {
		log.Warn().Msg("OPENAI_API_KEY not set, agent and analysis requests will fail")
	}
	log.Info().Str("addr", srv.Addr).Str("env", config.Env()).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("serve")
	}
}

func setupLogger(c config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
