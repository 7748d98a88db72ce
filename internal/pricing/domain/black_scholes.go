package domain

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// stdNormal 标准正态分布，提供 Φ (CDF) 与 φ (PDF)
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Price 计算期权理论价格
// T <= 0 时返回内在价值，否则按 Black-Scholes 闭式公式计算
func (s *Snapshot) Price(t OptionType) (float64, error) {
	switch t {
	case OptionTypeCall:
		return s.CallPrice(), nil
	case OptionTypePut:
		return s.PutPrice(), nil
	default:
		return 0, ErrInvalidOptionType
	}
}

// CallPrice 看涨期权价格
func (s *Snapshot) CallPrice() float64 {
	if s.Expired() {
		return math.Max(0, s.S-s.K)
	}
	return s.S*stdNormal.CDF(s.d1) - s.K*math.Exp(-s.R*s.T)*stdNormal.CDF(s.d2)
}

// PutPrice 看跌期权价格
func (s *Snapshot) PutPrice() float64 {
	if s.Expired() {
		return math.Max(0, s.K-s.S)
	}
	return s.K*math.Exp(-s.R*s.T)*stdNormal.CDF(-s.d2) - s.S*stdNormal.CDF(-s.d1)
}

// Greek 计算单个希腊字母，Gamma 与 Vega 与期权类型无关
func (s *Snapshot) Greek(name GreekName, t OptionType) (float64, error) {
	if !t.Valid() {
		return 0, ErrInvalidOptionType
	}
	switch name {
	case GreekDelta:
		if t == OptionTypeCall {
			return s.DeltaCall(), nil
		}
		return s.DeltaPut(), nil
	case GreekGamma:
		return s.Gamma(), nil
	case GreekVega:
		return s.Vega(), nil
	case GreekTheta:
		if t == OptionTypeCall {
			return s.ThetaCall(), nil
		}
		return s.ThetaPut(), nil
	case GreekRho:
		if t == OptionTypeCall {
			return s.RhoCall(), nil
		}
		return s.RhoPut(), nil
	default:
		return 0, ErrInvalidGreekName
	}
}

// Greeks 一次性计算全部希腊字母
func (s *Snapshot) Greeks(t OptionType) (Greeks, error) {
	switch t {
	case OptionTypeCall:
		return Greeks{
			Delta: s.DeltaCall(),
			Gamma: s.Gamma(),
			Vega:  s.Vega(),
			Theta: s.ThetaCall(),
			Rho:   s.RhoCall(),
		}, nil
	case OptionTypePut:
		return Greeks{
			Delta: s.DeltaPut(),
			Gamma: s.Gamma(),
			Vega:  s.Vega(),
			Theta: s.ThetaPut(),
			Rho:   s.RhoPut(),
		}, nil
	default:
		return Greeks{}, ErrInvalidOptionType
	}
}

// DeltaCall 看涨期权 Delta；到期时退化为 0/1 阶跃
func (s *Snapshot) DeltaCall() float64 {
	if s.Expired() {
		if s.S > s.K {
			return 1
		}
		return 0
	}
	return stdNormal.CDF(s.d1)
}

// DeltaPut 看跌期权 Delta；到期时退化为 -1/0 阶跃
func (s *Snapshot) DeltaPut() float64 {
	if s.Expired() {
		if s.S < s.K {
			return -1
		}
		return 0
	}
	return stdNormal.CDF(s.d1) - 1
}

// Gamma Delta 对标的价格的敏感度，看涨与看跌相同
func (s *Snapshot) Gamma() float64 {
	if s.Expired() {
		return 0
	}
	return stdNormal.Prob(s.d1) / (s.S * s.Sigma * math.Sqrt(s.T))
}

// Vega 价格对波动率的敏感度，看涨与看跌相同，未缩放年化值
func (s *Snapshot) Vega() float64 {
	if s.Expired() {
		return 0
	}
	return s.S * stdNormal.Prob(s.d1) * math.Sqrt(s.T)
}

// ThetaCall 看涨期权 Theta，年化值除以 365 转为日度值
func (s *Snapshot) ThetaCall() float64 {
	if s.Expired() {
		return 0
	}
	theta := -s.S*stdNormal.Prob(s.d1)*s.Sigma/(2*math.Sqrt(s.T)) -
		s.R*s.K*math.Exp(-s.R*s.T)*stdNormal.CDF(s.d2)
	return theta / 365
}

// ThetaPut 看跌期权 Theta，年化值除以 365 转为日度值
func (s *Snapshot) ThetaPut() float64 {
	if s.Expired() {
		return 0
	}
	theta := -s.S*stdNormal.Prob(s.d1)*s.Sigma/(2*math.Sqrt(s.T)) +
		s.R*s.K*math.Exp(-s.R*s.T)*stdNormal.CDF(-s.d2)
	return theta / 365
}

// RhoCall 看涨期权 Rho，未缩放年化值
func (s *Snapshot) RhoCall() float64 {
	if s.Expired() {
		return 0
	}
	return s.K * s.T * math.Exp(-s.R*s.T) * stdNormal.CDF(s.d2)
}

// RhoPut 看跌期权 Rho，未缩放年化值
func (s *Snapshot) RhoPut() float64 {
	if s.Expired() {
		return 0
	}
	return -s.K * s.T * math.Exp(-s.R*s.T) * stdNormal.CDF(-s.d2)
}
