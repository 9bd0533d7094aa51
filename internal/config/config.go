package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ujjain127/better-wealth/internal/advisor"
	"github.com/ujjain127/better-wealth/internal/model"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Owner     OwnerConfig
	Security  SecurityConfig
	Advisor   AdvisorConfig
	Metrics   MetricsConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// OwnerConfig controls how a request's owner is resolved.
type OwnerConfig struct {
	// DefaultID is used when a request carries no X-Owner-ID header.
	// Empty means the header is required.
	DefaultID string
}

// SecurityConfig holds keys for encryption at rest.
type SecurityConfig struct {
	// NotesKeys are fernet keys; the first encrypts, all decrypt.
	NotesKeys []string
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// RateLimitConfig bounds requests per client on the API routes.
// Requests of zero disables limiting.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// AdvisorConfig holds rebalance advisor and sweep settings. It is read from
// the YAML file named by ADVISOR_CONFIG.
type AdvisorConfig struct {
	FeePerTrade float64                                 `yaml:"fee_per_trade"`
	Instruments map[model.AssetClass]advisor.Instrument `yaml:"instruments"`
	Sweep       SweepConfig                             `yaml:"sweep"`
}

// SweepConfig schedules the automatic rebalance sweep.
type SweepConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Schedule     string `yaml:"schedule"`
	IntervalDays int    `yaml:"interval_days"`
}

// Interval is the gap between two automatic rebalances of the same portfolio.
func (s SweepConfig) Interval() time.Duration {
	return time.Duration(s.IntervalDays) * 24 * time.Hour
}

// DefaultAdvisorConfig returns the advisor settings used when no file is present.
func DefaultAdvisorConfig() AdvisorConfig {
	return AdvisorConfig{
		FeePerTrade: 8.50,
		Instruments: map[model.AssetClass]advisor.Instrument{
			model.Stocks: {Symbol: "VTI", Name: "Vanguard Total Stock Market ETF", Price: 246.00},
			model.Bonds:  {Symbol: "BND", Name: "Vanguard Total Bond Market ETF", Price: 72.50},
			model.REITs:  {Symbol: "VNQ", Name: "Vanguard Real Estate ETF", Price: 85.00},
		},
		Sweep: SweepConfig{
			Enabled:      true,
			Schedule:     "0 6 * * *",
			IntervalDays: 30,
		},
	}
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5000"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/better_wealth.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", getEnv("FRONTEND_URL", "http://localhost:3000"))),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnv("LOG_PRETTY", "false") == "true",
		},
		Owner: OwnerConfig{
			DefaultID: getEnv("DEFAULT_OWNER_ID", ""),
		},
		Security: SecurityConfig{
			NotesKeys: splitList(getEnv("NOTES_ENCRYPTION_KEY", "")),
		},
		Metrics: MetricsConfig{
			Enabled: getEnv("METRICS_ENABLED", "true") == "true",
		},
	}

	requests, err := strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "100"))
	if err != nil || requests < 0 {
		return nil, fmt.Errorf("parse RATE_LIMIT_REQUESTS: must be a non-negative integer")
	}
	window, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "15m"))
	if err != nil || window <= 0 {
		return nil, fmt.Errorf("parse RATE_LIMIT_WINDOW: must be a positive duration")
	}
	config.RateLimit = RateLimitConfig{Requests: requests, Window: window}

	advisorCfg, err := LoadAdvisor(getEnv("ADVISOR_CONFIG", "./config/advisor.yaml"))
	if err != nil {
		return nil, err
	}
	config.Advisor = advisorCfg

	if v := os.Getenv("REBALANCE_SCHEDULE"); v != "" {
		config.Advisor.Sweep.Schedule = v
	}
	if v := os.Getenv("REBALANCE_SWEEP_ENABLED"); v != "" {
		config.Advisor.Sweep.Enabled = v == "true"
	}
	if v := os.Getenv("REBALANCE_FEE_PER_TRADE"); v != "" {
		fee, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse REBALANCE_FEE_PER_TRADE: %w", err)
		}
		config.Advisor.FeePerTrade = fee
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// LoadAdvisor reads advisor settings from a YAML file layered over the
// defaults. A missing file is not an error.
func LoadAdvisor(path string) (AdvisorConfig, error) {
	cfg := DefaultAdvisorConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return AdvisorConfig{}, fmt.Errorf("read advisor config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AdvisorConfig{}, fmt.Errorf("parse advisor config: %w", err)
		}
	}

	for class := range cfg.Instruments {
		if !class.Valid() {
			return AdvisorConfig{}, fmt.Errorf("advisor config: unknown asset class %q", class)
		}
	}
	if cfg.FeePerTrade < 0 {
		return AdvisorConfig{}, fmt.Errorf("advisor config: fee_per_trade cannot be negative")
	}
	if cfg.Sweep.IntervalDays <= 0 {
		cfg.Sweep.IntervalDays = DefaultAdvisorConfig().Sweep.IntervalDays
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
