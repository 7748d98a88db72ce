package domain

import (
	"fmt"
	"math"
)

// PayoffParams 到期收益曲线的计算参数
// 曲线是 T=0 时价格维度上的一维扫描
type PayoffParams struct {
	K float64

	PriceMin float64
	PriceMax float64
	Samples  int
}

// PayoffCurve 到期收益曲线
type PayoffCurve struct {
	Prices []float64
	Call   []float64
	Put    []float64
}

// Validate 校验曲线参数
func (p PayoffParams) Validate() error {
	switch {
	case p.K <= 0:
		return fmt.Errorf("%w: strike price must be positive, got %v", ErrInvalidParameter, p.K)
	case p.PriceMin <= 0 || p.PriceMax < p.PriceMin:
		return fmt.Errorf("%w: bad price range [%v, %v]", ErrInvalidParameter, p.PriceMin, p.PriceMax)
	case p.Samples < 2:
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidParameter, p.Samples)
	}
	return nil
}

// ComputePayoff 计算到期时刻的看涨/看跌收益曲线
func ComputePayoff(p PayoffParams) (*PayoffCurve, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	curve := &PayoffCurve{
		Prices: Linspace(p.PriceMin, p.PriceMax, p.Samples),
		Call:   make([]float64, p.Samples),
		Put:    make([]float64, p.Samples),
	}
	for i, price := range curve.Prices {
		curve.Call[i] = math.Max(0, price-p.K)
		curve.Put[i] = math.Max(0, p.K-price)
	}
	return curve, nil
}

// Shift 将收益曲线减去买入成本，得到 P&L 曲线
func (c *PayoffCurve) Shift(callOffset, putOffset float64) {
	for i := range c.Call {
		c.Call[i] -= callOffset
		c.Put[i] -= putOffset
	}
}
