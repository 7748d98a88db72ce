package domain

import (
	"fmt"
	"math"
)

// Snapshot 期权市场快照，五个市场参数的不可变值对象
// 构造时校验前置条件并缓存 (d1, d2)，同一快照派生的所有量共享同一对参数
type Snapshot struct {
	// S 标的资产当前价格
	S float64
	// K 行权价格
	K float64
	// T 到期时间（年）
	T float64
	// R 连续复利的年化无风险利率
	R float64
	// Sigma 年化波动率
	Sigma float64

	d1 float64
	d2 float64
}

// NewSnapshot 创建市场快照
// 要求 S > 0、K > 0、Sigma > 0、T >= 0，违反任一条件返回 ErrInvalidParameter
// T = 0 是合法的到期边界，此时各公式走内在价值/极限值分支
func NewSnapshot(s, k, t, r, sigma float64) (*Snapshot, error) {
	switch {
	case math.IsNaN(s) || s <= 0:
		return nil, fmt.Errorf("%w: underlying price must be positive, got %v", ErrInvalidParameter, s)
	case math.IsNaN(k) || k <= 0:
		return nil, fmt.Errorf("%w: strike price must be positive, got %v", ErrInvalidParameter, k)
	case math.IsNaN(t) || t < 0:
		return nil, fmt.Errorf("%w: time to maturity must be non-negative, got %v", ErrInvalidParameter, t)
	case math.IsNaN(sigma) || sigma <= 0:
		return nil, fmt.Errorf("%w: volatility must be positive, got %v", ErrInvalidParameter, sigma)
	case math.IsNaN(r):
		return nil, fmt.Errorf("%w: risk-free rate is NaN", ErrInvalidParameter)
	}

	snap := &Snapshot{S: s, K: k, T: t, R: r, Sigma: sigma}
	if t > 0 {
		sqrtT := math.Sqrt(t)
		snap.d1 = (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * sqrtT)
		snap.d2 = snap.d1 - sigma*sqrtT
	}
	return snap, nil
}

// Expired 是否处于到期边界（T <= 0）
func (s *Snapshot) Expired() bool {
	return s.T <= 0
}

// D1 返回缓存的 d1，仅当 T > 0 时有定义
func (s *Snapshot) D1() float64 {
	return s.d1
}

// D2 返回缓存的 d2，仅当 T > 0 时有定义
func (s *Snapshot) D2() float64 {
	return s.d2
}
