package application

import (
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/optionpricer/internal/pricing/domain"
)

// QuoteCommand 单点定价命令
type QuoteCommand struct {
	UnderlyingPrice float64
	StrikePrice     float64
	TimeToMaturity  float64
	RiskFreeRate    float64
	Volatility      float64
}

// SurfaceCommand 敏感度网格命令
// 区间为 0 时按当前快照推导默认区间，行列为 0 时使用配置默认值
type SurfaceCommand struct {
	QuoteCommand

	PriceMin float64
	PriceMax float64
	VolMin   float64
	VolMax   float64
	Rows     int
	Cols     int

	// PurchaseCall/PurchasePut 非 nil 时输出 P&L 网格（价值减买入成本）
	PurchaseCall *float64
	PurchasePut  *float64
}

// PayoffCommand 到期收益曲线命令
type PayoffCommand struct {
	UnderlyingPrice float64
	StrikePrice     float64

	PriceMin float64
	PriceMax float64
	Samples  int

	PurchaseCall *float64
	PurchasePut  *float64
}

// GreeksDTO 希腊字母展示对象
// Theta 为日度值，Vega/Rho 为未缩放年化值，缩放留给展示方
type GreeksDTO struct {
	Delta decimal.Decimal `json:"delta"`
	Gamma decimal.Decimal `json:"gamma"`
	Vega  decimal.Decimal `json:"vega"`
	Theta decimal.Decimal `json:"theta"`
	Rho   decimal.Decimal `json:"rho"`
}

// QuoteDTO 单点定价结果
type QuoteDTO struct {
	CallPrice decimal.Decimal `json:"call_price"`
	PutPrice  decimal.Decimal `json:"put_price"`
	Call      GreeksDTO       `json:"call_greeks"`
	Put       GreeksDTO       `json:"put_greeks"`
}

// SurfaceDTO 敏感度网格结果
// Call/Put 按 [波动率行][价格列] 排列
type SurfaceDTO struct {
	Prices []float64   `json:"prices"`
	Vols   []float64   `json:"vols"`
	Call   [][]float64 `json:"call"`
	Put    [][]float64 `json:"put"`
	PnL    bool        `json:"pnl"`
}

// PayoffDTO 到期收益曲线结果
type PayoffDTO struct {
	Prices []float64 `json:"prices"`
	Call   []float64 `json:"call"`
	Put    []float64 `json:"put"`
	PnL    bool      `json:"pnl"`
}

// displayDigits DTO 展示精度（小数位）
const displayDigits = 6

func toGreeksDTO(g domain.Greeks) GreeksDTO {
	return GreeksDTO{
		Delta: round(g.Delta),
		Gamma: round(g.Gamma),
		Vega:  round(g.Vega),
		Theta: round(g.Theta),
		Rho:   round(g.Rho),
	}
}

func round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(displayDigits)
}
