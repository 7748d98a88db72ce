package application

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wyfcoding/optionpricer/internal/pricing/domain"
	"github.com/wyfcoding/optionpricer/pkg/config"
	"github.com/wyfcoding/optionpricer/pkg/logger"
	"github.com/wyfcoding/optionpricer/pkg/metrics"
)

// PricingService 定价应用服务
// 组合纯函数的定价引擎与边界校验、默认值推导、指标上报
type PricingService struct {
	cfg     config.PricingConfig
	metrics *metrics.Metrics
}

// NewPricingService 创建定价应用服务
func NewPricingService(cfg config.PricingConfig, m *metrics.Metrics) *PricingService {
	return &PricingService{cfg: cfg, metrics: m}
}

// Quote 单点定价：价格与全部希腊字母，看涨看跌一次算出
func (s *PricingService) Quote(ctx context.Context, cmd QuoteCommand) (*QuoteDTO, error) {
	start := time.Now()

	if err := s.checkRange(cmd); err != nil {
		s.countInvalid()
		return nil, err
	}

	snap, err := domain.NewSnapshot(cmd.UnderlyingPrice, cmd.StrikePrice, cmd.TimeToMaturity, cmd.RiskFreeRate, cmd.Volatility)
	if err != nil {
		s.countInvalid()
		return nil, err
	}

	callGreeks, err := snap.Greeks(domain.OptionTypeCall)
	if err != nil {
		return nil, err
	}
	putGreeks, err := snap.Greeks(domain.OptionTypePut)
	if err != nil {
		return nil, err
	}

	dto := &QuoteDTO{
		CallPrice: round(snap.CallPrice()),
		PutPrice:  round(snap.PutPrice()),
		Call:      toGreeksDTO(callGreeks),
		Put:       toGreeksDTO(putGreeks),
	}

	if s.metrics != nil {
		s.metrics.QuotesTotal.Inc()
		s.metrics.ObservePricing(start)
	}
	logger.Debug(ctx, "quote computed",
		"underlying", cmd.UnderlyingPrice,
		"strike", cmd.StrikePrice,
		"maturity", cmd.TimeToMaturity,
		"duration", time.Since(start),
	)
	return dto, nil
}

// Surface 敏感度网格：（价格 × 波动率）二维扫描下的看涨/看跌价值矩阵
func (s *PricingService) Surface(ctx context.Context, cmd SurfaceCommand) (*SurfaceDTO, error) {
	start := time.Now()

	if err := s.checkRange(cmd.QuoteCommand); err != nil {
		s.countInvalid()
		return nil, err
	}

	params := s.surfaceParams(cmd)
	if params.Rows > s.cfg.MaxGridSize || params.Cols > s.cfg.MaxGridSize {
		s.countInvalid()
		return nil, fmt.Errorf("%w: grid %dx%d exceeds limit %d",
			domain.ErrInvalidParameter, params.Rows, params.Cols, s.cfg.MaxGridSize)
	}

	surf, err := domain.ComputeSurface(params)
	if err != nil {
		s.countInvalid()
		return nil, err
	}

	pnl := cmd.PurchaseCall != nil && cmd.PurchasePut != nil
	if pnl {
		surf.Shift(*cmd.PurchaseCall, *cmd.PurchasePut)
	}

	if s.metrics != nil {
		s.metrics.SurfacesTotal.Inc()
		s.metrics.SurfaceCellsTotal.Add(float64(params.Rows * params.Cols))
		s.metrics.ObservePricing(start)
	}
	logger.Info(ctx, "surface computed",
		"rows", params.Rows,
		"cols", params.Cols,
		"pnl", pnl,
		"duration", time.Since(start),
	)

	return &SurfaceDTO{
		Prices: surf.Prices,
		Vols:   surf.Vols,
		Call:   surf.Call,
		Put:    surf.Put,
		PnL:    pnl,
	}, nil
}

// Payoff 到期收益曲线：T=0 时价格维度上的一维扫描
func (s *PricingService) Payoff(ctx context.Context, cmd PayoffCommand) (*PayoffDTO, error) {
	start := time.Now()

	params := domain.PayoffParams{
		K:        cmd.StrikePrice,
		PriceMin: cmd.PriceMin,
		PriceMax: cmd.PriceMax,
		Samples:  cmd.Samples,
	}
	if params.PriceMin == 0 && params.PriceMax == 0 {
		params.PriceMin = cmd.UnderlyingPrice * 0.5
		params.PriceMax = cmd.UnderlyingPrice * 1.5
	}
	if params.Samples == 0 {
		params.Samples = s.cfg.DefaultPayoffSamples
	}

	curve, err := domain.ComputePayoff(params)
	if err != nil {
		s.countInvalid()
		return nil, err
	}

	pnl := cmd.PurchaseCall != nil && cmd.PurchasePut != nil
	if pnl {
		curve.Shift(*cmd.PurchaseCall, *cmd.PurchasePut)
	}

	if s.metrics != nil {
		s.metrics.PayoffsTotal.Inc()
		s.metrics.ObservePricing(start)
	}
	logger.Debug(ctx, "payoff computed", "samples", params.Samples, "pnl", pnl)

	return &PayoffDTO{
		Prices: curve.Prices,
		Call:   curve.Call,
		Put:    curve.Put,
		PnL:    pnl,
	}, nil
}

// surfaceParams 补全网格默认区间：波动率 ±0.3、价格 ±30%
func (s *PricingService) surfaceParams(cmd SurfaceCommand) domain.SurfaceParams {
	p := domain.SurfaceParams{
		K:        cmd.StrikePrice,
		T:        cmd.TimeToMaturity,
		R:        cmd.RiskFreeRate,
		PriceMin: cmd.PriceMin,
		PriceMax: cmd.PriceMax,
		VolMin:   cmd.VolMin,
		VolMax:   cmd.VolMax,
		Rows:     cmd.Rows,
		Cols:     cmd.Cols,
		Workers:  s.cfg.GridWorkers(),
	}
	if p.VolMin == 0 && p.VolMax == 0 {
		p.VolMin = math.Max(0.05, cmd.Volatility-0.3)
		p.VolMax = cmd.Volatility + 0.3
	}
	if p.PriceMin == 0 && p.PriceMax == 0 {
		p.PriceMin = math.Max(s.cfg.MinPrice, cmd.UnderlyingPrice*0.7)
		p.PriceMax = cmd.UnderlyingPrice * 1.3
	}
	if p.Rows == 0 {
		p.Rows = s.cfg.DefaultGridSize
	}
	if p.Cols == 0 {
		p.Cols = s.cfg.DefaultGridSize
	}
	return p
}

// checkRange 校验输入是否落在服务配置的合法区间内
// 引擎只保证数学前置条件，业务区间（如利率 [0, 0.20]）在这里把关
func (s *PricingService) checkRange(cmd QuoteCommand) error {
	c := s.cfg
	switch {
	case cmd.UnderlyingPrice < c.MinPrice || cmd.UnderlyingPrice > c.MaxPrice:
		return fmt.Errorf("%w: underlying price %v outside [%v, %v]",
			domain.ErrInvalidParameter, cmd.UnderlyingPrice, c.MinPrice, c.MaxPrice)
	case cmd.StrikePrice < c.MinPrice || cmd.StrikePrice > c.MaxPrice:
		return fmt.Errorf("%w: strike price %v outside [%v, %v]",
			domain.ErrInvalidParameter, cmd.StrikePrice, c.MinPrice, c.MaxPrice)
	case cmd.TimeToMaturity < c.MinMaturity || cmd.TimeToMaturity > c.MaxMaturity:
		return fmt.Errorf("%w: time to maturity %v outside [%v, %v]",
			domain.ErrInvalidParameter, cmd.TimeToMaturity, c.MinMaturity, c.MaxMaturity)
	case cmd.Volatility < c.MinVolatility || cmd.Volatility > c.MaxVolatility:
		return fmt.Errorf("%w: volatility %v outside [%v, %v]",
			domain.ErrInvalidParameter, cmd.Volatility, c.MinVolatility, c.MaxVolatility)
	case cmd.RiskFreeRate < c.MinRate || cmd.RiskFreeRate > c.MaxRate:
		return fmt.Errorf("%w: risk-free rate %v outside [%v, %v]",
			domain.ErrInvalidParameter, cmd.RiskFreeRate, c.MinRate, c.MaxRate)
	}
	return nil
}

func (s *PricingService) countInvalid() {
	if s.metrics != nil {
		s.metrics.InvalidParamsTotal.Inc()
	}
}
