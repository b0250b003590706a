// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Keeper    KeeperConfig    `mapstructure:"keeper"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// LedgerConfig holds chain node configuration.
type LedgerConfig struct {
	HTTPURL        string        `mapstructure:"http_url"`
	ChainID        uint64        `mapstructure:"chain_id"`
	RPCPerMinute   int           `mapstructure:"rpc_per_minute"`
	ConfirmDepth   uint64        `mapstructure:"confirm_depth"`
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	FeeCacheTTL    time.Duration `mapstructure:"fee_cache_ttl"`
}

// KeeperConfig holds the maintenance loop configuration.
type KeeperConfig struct {
	WatchAddress     string        `mapstructure:"watch_address"`
	FundingKey       string        `mapstructure:"funding_key"`
	MinBalance       string        `mapstructure:"min_balance"`
	TopUpAmount      string        `mapstructure:"topup_amount"`
	FeeReserve       string        `mapstructure:"fee_reserve"`
	Cadence          time.Duration `mapstructure:"cadence"`
	RecoveryInterval time.Duration `mapstructure:"recovery_interval"`
	HistorySize      int           `mapstructure:"history_size"`
	TUIMode          bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// WatchAddressHex returns the watched address as common.Address.
func (c *KeeperConfig) WatchAddressHex() common.Address {
	return common.HexToAddress(c.WatchAddress)
}

// MinBalanceDecimal returns the min balance threshold as decimal.Decimal.
func (c *KeeperConfig) MinBalanceDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(c.MinBalance)
}

// TopUpAmountDecimal returns the top-up amount as decimal.Decimal.
func (c *KeeperConfig) TopUpAmountDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(c.TopUpAmount)
}

// FeeReserveDecimal returns the fee reserve as decimal.Decimal.
func (c *KeeperConfig) FeeReserveDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(c.FeeReserve)
}

// WebhookConfig holds alert delivery configuration.
type WebhookConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("WK")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "WK_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "WK_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "WK_LOG_LEVEL", "LOG_LEVEL")

	// Ledger
	v.BindEnv("ledger.http_url", "WK_RPC_URL", "RPC_URL")
	v.BindEnv("ledger.chain_id", "WK_CHAIN_ID", "CHAIN_ID")
	v.BindEnv("ledger.confirm_depth", "WK_CONFIRM_DEPTH")
	v.BindEnv("ledger.confirm_timeout", "WK_CONFIRM_TIMEOUT")

	// Keeper
	v.BindEnv("keeper.watch_address", "WK_WATCH_ADDRESS", "WATCH_ADDRESS")
	v.BindEnv("keeper.funding_key", "WK_FUNDING_KEY", "FUNDING_KEY")
	v.BindEnv("keeper.min_balance", "WK_MIN_BALANCE")
	v.BindEnv("keeper.topup_amount", "WK_TOPUP_AMOUNT")
	v.BindEnv("keeper.fee_reserve", "WK_FEE_RESERVE")
	v.BindEnv("keeper.cadence", "WK_CADENCE")
	v.BindEnv("keeper.recovery_interval", "WK_RECOVERY_INTERVAL")

	// Webhook
	v.BindEnv("webhook.url", "WK_WEBHOOK_URL", "WEBHOOK_URL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "WK_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "WK_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "WK_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "walletkeeper")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Ledger defaults
	v.SetDefault("ledger.chain_id", 1)
	v.SetDefault("ledger.rpc_per_minute", 300)
	v.SetDefault("ledger.confirm_depth", 1)
	v.SetDefault("ledger.confirm_timeout", "3m")
	v.SetDefault("ledger.poll_interval", "3s")
	v.SetDefault("ledger.fee_cache_ttl", "12s") // ~1 block

	// Keeper defaults
	v.SetDefault("keeper.min_balance", "0.05")
	v.SetDefault("keeper.topup_amount", "0.1")
	v.SetDefault("keeper.fee_reserve", "0.01")
	v.SetDefault("keeper.cadence", "1h")
	v.SetDefault("keeper.recovery_interval", "5m")
	v.SetDefault("keeper.history_size", 50)

	// Webhook defaults
	v.SetDefault("webhook.timeout", "10s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "walletkeeper")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ledger.HTTPURL == "" {
		return fmt.Errorf("ledger.http_url is required")
	}
	if c.Keeper.WatchAddress != "" && !common.IsHexAddress(c.Keeper.WatchAddress) {
		return fmt.Errorf("invalid keeper.watch_address: %s", c.Keeper.WatchAddress)
	}
	if _, err := c.Keeper.MinBalanceDecimal(); err != nil {
		return fmt.Errorf("invalid keeper.min_balance: %s", c.Keeper.MinBalance)
	}
	if _, err := c.Keeper.TopUpAmountDecimal(); err != nil {
		return fmt.Errorf("invalid keeper.topup_amount: %s", c.Keeper.TopUpAmount)
	}
	if _, err := c.Keeper.FeeReserveDecimal(); err != nil {
		return fmt.Errorf("invalid keeper.fee_reserve: %s", c.Keeper.FeeReserve)
	}
	if c.Keeper.Cadence <= 0 {
		return fmt.Errorf("keeper.cadence must be positive")
	}
	if c.Keeper.RecoveryInterval <= 0 {
		return fmt.Errorf("keeper.recovery_interval must be positive")
	}
	return nil
}
