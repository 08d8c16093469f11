// internal/config/config.go
//
// 服務設定：預設值 → YAML 設定檔（可選）→ 環境變數覆寫。
// 只有 cmd/server 使用；帳本核心不讀取任何設定。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the bank HTTP server.
type Config struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	Log             LogConfig     `yaml:"log"`
	RateLimit       RateConfig    `yaml:"rateLimit"`
}

// LogConfig 控制 zap logger 的輸出格式與等級。
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | console
}

// RateConfig 為整個伺服器共用的 token bucket；RPS <= 0 表示停用。
type RateConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Default 回傳未經任何覆寫的預設設定。
func Default() Config {
	return Config{
		Addr:            ":8080",
		ShutdownTimeout: 5 * time.Second,
		Log:             LogConfig{Level: "info", Format: "json"},
		RateLimit:       RateConfig{RPS: 0, Burst: 20},
	}
}

// Load 讀取設定。path 為空時只套用預設值與環境變數；
// 指定的檔案不存在或格式錯誤時回傳錯誤。
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		var parsed Config
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		merge(&cfg, parsed)
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate 檢查設定值是否合法。
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("config: addr is required")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: shutdownTimeout must be > 0")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		return fmt.Errorf("config: rateLimit.burst must be > 0 when rps is set")
	}
	return nil
}

func merge(dst *Config, src Config) {
	if src.Addr != "" {
		dst.Addr = src.Addr
	}
	if src.ShutdownTimeout != 0 {
		dst.ShutdownTimeout = src.ShutdownTimeout
	}
	if src.Log.Level != "" {
		dst.Log.Level = src.Log.Level
	}
	if src.Log.Format != "" {
		dst.Log.Format = src.Log.Format
	}
	if src.RateLimit.RPS != 0 {
		dst.RateLimit.RPS = src.RateLimit.RPS
	}
	if src.RateLimit.Burst != 0 {
		dst.RateLimit.Burst = src.RateLimit.Burst
	}
}

func applyEnv(cfg *Config) error {
	cfg.Addr = getEnv("BANK_ADDR", cfg.Addr)
	cfg.Log.Level = getEnv("BANK_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("BANK_LOG_FORMAT", cfg.Log.Format)

	if raw := getEnv("BANK_RATE_RPS", ""); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("BANK_RATE_RPS: %w", err)
		}
		cfg.RateLimit.RPS = v
	}
	if raw := getEnv("BANK_RATE_BURST", ""); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("BANK_RATE_BURST: %w", err)
		}
		cfg.RateLimit.Burst = v
	}
	if raw := getEnv("BANK_SHUTDOWN_TIMEOUT", ""); raw != "" {
		v, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("BANK_SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = v
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value if not set
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
