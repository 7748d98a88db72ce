// Package web 定价服务的可视化面板，基于 go-echarts 渲染热力图与到期收益曲线
package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/wyfcoding/optionpricer/internal/pricing/application"
	"github.com/wyfcoding/optionpricer/pkg/logger"
	"github.com/wyfcoding/optionpricer/pkg/response"
)

// DashboardHandler 可视化面板处理器
type DashboardHandler struct {
	svc *application.PricingService
}

// NewDashboardHandler 创建面板处理器实例
func NewDashboardHandler(svc *application.PricingService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *DashboardHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/dashboard", h.Dashboard)
}

// Dashboard 渲染面板页面：看涨/看跌热力图与到期收益曲线
// 市场参数通过 query 传入，缺省使用平值示例（S=K=100, T=1, r=5%, σ=20%）
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	quote := application.QuoteCommand{
		UnderlyingPrice: queryFloat(c, "s", 100),
		StrikePrice:     queryFloat(c, "k", 100),
		TimeToMaturity:  queryFloat(c, "t", 1),
		RiskFreeRate:    queryFloat(c, "r", 0.05),
		Volatility:      queryFloat(c, "sigma", 0.20),
	}

	surfaceCmd := application.SurfaceCommand{QuoteCommand: quote}
	payoffCmd := application.PayoffCommand{
		UnderlyingPrice: quote.UnderlyingPrice,
		StrikePrice:     quote.StrikePrice,
	}
	if pc, ok := optionalFloat(c, "purchase_call"); ok {
		if pp, ok := optionalFloat(c, "purchase_put"); ok {
			surfaceCmd.PurchaseCall, surfaceCmd.PurchasePut = &pc, &pp
			payoffCmd.PurchaseCall, payoffCmd.PurchasePut = &pc, &pp
		}
	}

	ctx := c.Request.Context()
	surface, err := h.svc.Surface(ctx, surfaceCmd)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}
	payoff, err := h.svc.Payoff(ctx, payoffCmd)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	page := components.NewPage()
	page.AddCharts(
		h.heatMap("Call Option Value", surface, surface.Call),
		h.heatMap("Put Option Value", surface, surface.Put),
		h.payoffLine("Call Payoff at Expiration", quote.StrikePrice, payoff, payoff.Call),
		h.payoffLine("Put Payoff at Expiration", quote.StrikePrice, payoff, payoff.Put),
	)

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(c.Writer); err != nil {
		logger.Error(ctx, "Failed to render dashboard", "error", err)
	}
}

// heatMap 构建（价格 × 波动率）价值热力图
func (h *DashboardHandler) heatMap(title string, surface *application.SurfaceDTO, values [][]float64) *charts.HeatMap {
	prices := formatAxis(surface.Prices, "%.1f")
	vols := formatAxis(surface.Vols, "%.2f")

	min, max := values[0][0], values[0][0]
	data := make([]opts.HeatMapData, 0, len(values)*len(values[0]))
	for i, row := range values {
		for j, v := range row {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, v}})
		}
	}

	subtitle := "Stock price vs volatility"
	if surface.PnL {
		subtitle = "PnL: value minus purchase price"
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Name:      "Stock Price",
			Data:      prices,
			SplitArea: &opts.SplitArea{Show: true},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Name:      "Volatility",
			Data:      vols,
			SplitArea: &opts.SplitArea{Show: true},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        float32(min),
			Max:        float32(max),
			InRange:    &opts.VisualMapInRange{Color: []string{"#50a3ba", "#eac736", "#d94e5d"}},
		}),
	)
	hm.SetXAxis(prices).AddSeries("value", data)
	return hm
}

// payoffLine 构建到期收益曲线，并以竖线标注行权价
func (h *DashboardHandler) payoffLine(title string, strike float64, payoff *application.PayoffDTO, values []float64) *charts.Line {
	prices := formatAxis(payoff.Prices, "%.1f")

	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}

	yName := "Payoff"
	if payoff.PnL {
		yName = "PnL"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Stock Price at Expiration"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	line.SetXAxis(prices).
		AddSeries(yName, data).
		SetSeriesOptions(
			charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
				Name:  "Strike",
				XAxis: fmt.Sprintf("%.1f", strike),
			}),
		)
	return line
}

func formatAxis(values []float64, format string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf(format, v)
	}
	return out
}

func queryFloat(c *gin.Context, name string, fallback float64) float64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func optionalFloat(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
