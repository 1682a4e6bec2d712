package handler

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lyticalpilot/internal/metrics"
	"lyticalpilot/internal/middleware"
	"lyticalpilot/internal/service"
	"lyticalpilot/internal/service/agent"
)

// Deps 路由依赖；为 nil 的服务不注册对应路由
type Deps struct {
	Command     *service.CommandService
	Agent       *agent.Service
	Chat        *service.ChatService
	Market      *service.MarketService
	Broker      Broker
	Metrics     *metrics.Metrics
	CORSOrigins []string
}

// Router 注册路由与中间件
func Router(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logger(), cors.New(corsConfig(d.CORSOrigins)))

	v1 := r.Group("/api/v1")
	{
		if d.Command != nil {
			v1.POST("/command", NewCommandHandler(d.Command).Process)
		}
		if d.Broker != nil {
			v1.POST("/composio", NewComposioHandler(d.Broker).Handle)
		}
		if d.Agent != nil {
			v1.POST("/agent", NewAgentHandler(d.Agent).Run)
		}
		if d.Chat != nil {
			v1.POST("/chat", NewChatHandler(d.Chat).Chat)
		}
		if d.Market != nil {
			mh := NewMarketHandler(d.Market)
			v1.GET("/stocks", mh.Quotes)
			v1.GET("/stocks/:symbol", mh.Quote)
			v1.GET("/stocks/:symbol/news", mh.News)
			v1.GET("/stocks/:symbol/analysis", mh.Analyze)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
