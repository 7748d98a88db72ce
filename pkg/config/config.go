// Package config 提供 TOML 配置加载与环境变量覆盖
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/wyfcoding/optionpricer/pkg/logger"
)

// Config 服务配置
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 服务版本
	Version string `mapstructure:"version"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// 指标配置
	Metrics MetricsConfig `mapstructure:"metrics"`
	// 日志配置
	Logger logger.Config `mapstructure:"logger"`
	// 定价配置
	Pricing PricingConfig `mapstructure:"pricing"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	// 监听地址
	Host string `mapstructure:"host"`
	// 监听端口
	Port int `mapstructure:"port"`
	// 读超时（秒）
	ReadTimeout int `mapstructure:"read_timeout"`
	// 写超时（秒）
	WriteTimeout int `mapstructure:"write_timeout"`
	// 单客户端限流速率（请求/秒），0 表示不限流
	RateLimitRPS float64 `mapstructure:"rate_limit_rps"`
	// 限流突发容量
	RateLimitBurst int `mapstructure:"rate_limit_burst"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	// 是否启用
	Enabled bool `mapstructure:"enabled"`
	// Prometheus 监听端口
	Port int `mapstructure:"port"`
	// 指标路径
	Path string `mapstructure:"path"`
}

// PricingConfig 定价服务配置
type PricingConfig struct {
	// 标的价格/行权价的合法区间
	MinPrice float64 `mapstructure:"min_price"`
	MaxPrice float64 `mapstructure:"max_price"`
	// 到期时间合法区间（年）
	MinMaturity float64 `mapstructure:"min_maturity"`
	MaxMaturity float64 `mapstructure:"max_maturity"`
	// 波动率合法区间
	MinVolatility float64 `mapstructure:"min_volatility"`
	MaxVolatility float64 `mapstructure:"max_volatility"`
	// 无风险利率合法区间
	MinRate float64 `mapstructure:"min_rate"`
	MaxRate float64 `mapstructure:"max_rate"`
	// 热力图网格单边最大格数
	MaxGridSize int `mapstructure:"max_grid_size"`
	// 热力图网格默认格数
	DefaultGridSize int `mapstructure:"default_grid_size"`
	// 到期收益曲线默认采样点数
	DefaultPayoffSamples int `mapstructure:"default_payoff_samples"`
	// 网格计算并发度（0 表示 GOMAXPROCS）
	Workers int `mapstructure:"workers"`
}

// Load 从 TOML 文件加载配置，支持环境变量覆盖
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 环境变量前缀，例如 PRICER_HTTP_PORT
	v.SetEnvPrefix("PRICER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTP.Port)
	}
	p := c.Pricing
	if p.MinPrice <= 0 || p.MaxPrice <= p.MinPrice {
		return fmt.Errorf("invalid price range: [%v, %v]", p.MinPrice, p.MaxPrice)
	}
	if p.MinVolatility <= 0 || p.MaxVolatility <= p.MinVolatility {
		return fmt.Errorf("invalid volatility range: [%v, %v]", p.MinVolatility, p.MaxVolatility)
	}
	if p.MaxGridSize < 2 || p.DefaultGridSize < 2 || p.DefaultGridSize > p.MaxGridSize {
		return fmt.Errorf("invalid grid size: default=%d max=%d", p.DefaultGridSize, p.MaxGridSize)
	}
	return nil
}

// GridWorkers 返回网格计算的并发度
func (c *PricingConfig) GridWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "pricer")
	v.SetDefault("version", "0.1.0")
	v.SetDefault("environment", "dev")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)
	v.SetDefault("http.rate_limit_rps", 50.0)
	v.SetDefault("http.rate_limit_burst", 100)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/pricer.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)

	v.SetDefault("pricing.min_price", 1.0)
	v.SetDefault("pricing.max_price", 10000.0)
	v.SetDefault("pricing.min_maturity", 0.0)
	v.SetDefault("pricing.max_maturity", 10.0)
	v.SetDefault("pricing.min_volatility", 0.01)
	v.SetDefault("pricing.max_volatility", 2.0)
	v.SetDefault("pricing.min_rate", 0.0)
	v.SetDefault("pricing.max_rate", 0.20)
	v.SetDefault("pricing.max_grid_size", 100)
	v.SetDefault("pricing.default_grid_size", 20)
	v.SetDefault("pricing.default_payoff_samples", 100)
	v.SetDefault("pricing.workers", 0)
}
