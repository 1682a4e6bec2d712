package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lyticalpilot/internal/service"
)

// MarketHandler 行情与点评
type MarketHandler struct {
	svc *service.MarketService
}

func NewMarketHandler(svc *service.MarketService) *MarketHandler {
	return &MarketHandler{svc: svc}
}

// Quote GET /api/v1/stocks/:symbol
func (h *MarketHandler) Quote(c *gin.Context) {
	q, err := h.svc.Quote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stockData": q})
}

// Quotes GET /api/v1/stocks?symbols=AAPL,MSFT
func (h *MarketHandler) Quotes(c *gin.Context) {
	quotes, err := h.svc.Quotes(c.Request.Context(), strings.Split(c.Query("symbols"), ","))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stocks": quotes})
}

// News GET /api/v1/stocks/:symbol/news
func (h *MarketHandler) News(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"news": h.svc.News(c.Request.Context(), c.Param("symbol"))})
}

// Analyze GET /api/v1/stocks/:symbol/analysis
func (h *MarketHandler) Analyze(c *gin.Context) {
	a, err := h.svc.Analyze(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, a)
}
