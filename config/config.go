package config

import (
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	redis_wrapper "github.com/joripage/marketsim/pkg/infra/redis"
)

type SimulationConfig struct {
	PoolSize               int   `yaml:"pool_size"`
	DurationSeconds        int   `yaml:"duration_seconds"`
	NumProducts            int   `yaml:"num_products"`
	OrderTimeLimitSeconds  int   `yaml:"order_time_limit_seconds"`
	AuctionDurationSeconds int   `yaml:"auction_duration_seconds"`
	SweepIntervalMs        int64 `yaml:"sweep_interval_ms"`
}

func (c *SimulationConfig) Duration() time.Duration {
	return time.Duration(c.DurationSeconds) * time.Second
}

func (c *SimulationConfig) OrderTimeLimit() time.Duration {
	return time.Duration(c.OrderTimeLimitSeconds) * time.Second
}

func (c *SimulationConfig) AuctionDuration() time.Duration {
	return time.Duration(c.AuctionDurationSeconds) * time.Second
}

func (c *SimulationConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMs) * time.Millisecond
}

type AppConfig struct {
	ServiceName string                     `yaml:"service_name"`
	LogLevel    string                     `yaml:"log_level"`
	Simulation  SimulationConfig           `yaml:"simulation"`
	TradeFeed   *redis_wrapper.RedisConfig `yaml:"trade_feed"`
	ReportPath  string                     `yaml:"report_path"`
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		ServiceName: "marketsim",
		LogLevel:    "info",
		Simulation: SimulationConfig{
			PoolSize:               200,
			DurationSeconds:        120,
			NumProducts:            10,
			OrderTimeLimitSeconds:  5,
			AuctionDurationSeconds: 5,
			SweepIntervalMs:        500,
		},
	}
}

// Load reads config from file and environment variables. An empty path
// falls back to CONFIG_FILE; no file at all yields the defaults.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	cfg := defaultConfig()
	if len(filePath) == 0 {
		return cfg, nil
	}

	sugar := zap.S().With("func", "config.Load", "filePath", filePath)
	sugar.Debug("Load config...")

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	// The trader pool draws commodities from a non-empty product list.
	if cfg.Simulation.NumProducts < 1 {
		sugar.Warnf("num_products %d is invalid, using 1", cfg.Simulation.NumProducts)
		cfg.Simulation.NumProducts = 1
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}
