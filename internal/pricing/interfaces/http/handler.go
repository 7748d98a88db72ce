// Package http 定价服务的 HTTP 接口
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/optionpricer/internal/pricing/application"
	"github.com/wyfcoding/optionpricer/internal/pricing/domain"
	"github.com/wyfcoding/optionpricer/pkg/logger"
	"github.com/wyfcoding/optionpricer/pkg/response"
)

// PricingHandler 定价 HTTP 处理器
type PricingHandler struct {
	svc *application.PricingService
}

// NewPricingHandler 创建 HTTP 处理器实例
func NewPricingHandler(svc *application.PricingService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *PricingHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api/v1/pricing")
	{
		api.POST("/quote", h.Quote)
		api.POST("/surface", h.Surface)
		api.POST("/payoff", h.Payoff)
	}
}

// QuoteRequest 单点定价请求
// T=0 表示到期边界，是合法输入，因此 time_to_maturity 不加 required
type QuoteRequest struct {
	UnderlyingPrice float64 `json:"underlying_price" binding:"required,gt=0"`
	StrikePrice     float64 `json:"strike_price" binding:"required,gt=0"`
	TimeToMaturity  float64 `json:"time_to_maturity" binding:"gte=0"`
	RiskFreeRate    float64 `json:"risk_free_rate"`
	Volatility      float64 `json:"volatility" binding:"required,gt=0"`
}

// SurfaceRequest 敏感度网格请求
type SurfaceRequest struct {
	QuoteRequest

	PriceMin float64 `json:"price_min" binding:"gte=0"`
	PriceMax float64 `json:"price_max" binding:"gte=0"`
	VolMin   float64 `json:"vol_min" binding:"gte=0"`
	VolMax   float64 `json:"vol_max" binding:"gte=0"`
	Rows     int     `json:"rows" binding:"gte=0"`
	Cols     int     `json:"cols" binding:"gte=0"`

	PurchaseCall *float64 `json:"purchase_call"`
	PurchasePut  *float64 `json:"purchase_put"`
}

// PayoffRequest 到期收益曲线请求
type PayoffRequest struct {
	UnderlyingPrice float64 `json:"underlying_price" binding:"required,gt=0"`
	StrikePrice     float64 `json:"strike_price" binding:"required,gt=0"`

	PriceMin float64 `json:"price_min" binding:"gte=0"`
	PriceMax float64 `json:"price_max" binding:"gte=0"`
	Samples  int     `json:"samples" binding:"gte=0"`

	PurchaseCall *float64 `json:"purchase_call"`
	PurchasePut  *float64 `json:"purchase_put"`
}

// Quote 单点定价：理论价格与全部希腊字母
func (h *PricingHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	dto, err := h.svc.Quote(c.Request.Context(), application.QuoteCommand{
		UnderlyingPrice: req.UnderlyingPrice,
		StrikePrice:     req.StrikePrice,
		TimeToMaturity:  req.TimeToMaturity,
		RiskFreeRate:    req.RiskFreeRate,
		Volatility:      req.Volatility,
	})
	if err != nil {
		h.fail(c, "Failed to compute quote", err)
		return
	}
	response.Success(c, dto)
}

// Surface 敏感度网格：（价格 × 波动率）的看涨/看跌价值矩阵
func (h *PricingHandler) Surface(c *gin.Context) {
	var req SurfaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	dto, err := h.svc.Surface(c.Request.Context(), application.SurfaceCommand{
		QuoteCommand: application.QuoteCommand{
			UnderlyingPrice: req.UnderlyingPrice,
			StrikePrice:     req.StrikePrice,
			TimeToMaturity:  req.TimeToMaturity,
			RiskFreeRate:    req.RiskFreeRate,
			Volatility:      req.Volatility,
		},
		PriceMin:     req.PriceMin,
		PriceMax:     req.PriceMax,
		VolMin:       req.VolMin,
		VolMax:       req.VolMax,
		Rows:         req.Rows,
		Cols:         req.Cols,
		PurchaseCall: req.PurchaseCall,
		PurchasePut:  req.PurchasePut,
	})
	if err != nil {
		h.fail(c, "Failed to compute surface", err)
		return
	}
	response.Success(c, dto)
}

// Payoff 到期收益曲线
func (h *PricingHandler) Payoff(c *gin.Context) {
	var req PayoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	dto, err := h.svc.Payoff(c.Request.Context(), application.PayoffCommand{
		UnderlyingPrice: req.UnderlyingPrice,
		StrikePrice:     req.StrikePrice,
		PriceMin:        req.PriceMin,
		PriceMax:        req.PriceMax,
		Samples:         req.Samples,
		PurchaseCall:    req.PurchaseCall,
		PurchasePut:     req.PurchasePut,
	})
	if err != nil {
		h.fail(c, "Failed to compute payoff", err)
		return
	}
	response.Success(c, dto)
}

// fail 将领域错误映射为 HTTP 状态码
func (h *PricingHandler) fail(c *gin.Context, msg string, err error) {
	if errors.Is(err, domain.ErrInvalidParameter) || errors.Is(err, domain.ErrInvalidOptionType) {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}
	logger.Error(c.Request.Context(), msg, "error", err)
	response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
}
