// Package domain 定价服务的领域模型：Black-Scholes 定价引擎
package domain

import "errors"

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall OptionType = "CALL" // 看涨期权
	OptionTypePut  OptionType = "PUT"  // 看跌期权
)

// Valid 判断期权类型是否合法
func (t OptionType) Valid() bool {
	return t == OptionTypeCall || t == OptionTypePut
}

// GreekName 希腊字母名称
type GreekName string

const (
	GreekDelta GreekName = "DELTA" // 价格对标的价格的敏感度
	GreekGamma GreekName = "GAMMA" // Delta 对标的价格的敏感度
	GreekVega  GreekName = "VEGA"  // 价格对波动率的敏感度
	GreekTheta GreekName = "THETA" // 价格对时间的敏感度（按日）
	GreekRho   GreekName = "RHO"   // 价格对利率的敏感度
)

// Greeks 希腊字母集合
// Theta 为日度值（年化值除以 365），Vega 与 Rho 为未缩放的年化值
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// ErrInvalidParameter 非法参数：违反 S>0、K>0、T>=0、sigma>0 任一前置条件
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrInvalidOptionType 非法期权类型
var ErrInvalidOptionType = errors.New("invalid option type")

// ErrInvalidGreekName 非法希腊字母名称
var ErrInvalidGreekName = errors.New("invalid greek name")
