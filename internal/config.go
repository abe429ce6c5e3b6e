package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/tuannm99/novabuf/internal/storage"
)

var (
	ErrInvalidPoolSize  = errors.New("config: bufferpool.pool_size must be positive")
	ErrInvalidUsageCap  = errors.New("config: bufferpool.max_usage_count must not be negative")
	ErrPageSizeMismatch = errors.New("config: storage.page_size does not match the compiled page size")
)

type NovaBufConfig struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		Workdir  string `mapstructure:"workdir"`
		Base     string `mapstructure:"base"`
		PageSize int    `mapstructure:"page_size"`
	} `mapstructure:"storage"`

	BufferPool struct {
		PoolSize      int `mapstructure:"pool_size"`
		MaxUsageCount int `mapstructure:"max_usage_count"`
	} `mapstructure:"bufferpool"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Metrics struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "novabuf")
	v.SetDefault("storage.workdir", "./data")
	v.SetDefault("storage.base", "pages")
	v.SetDefault("storage.page_size", storage.PageSize)
	v.SetDefault("bufferpool.pool_size", 128)
	v.SetDefault("bufferpool.max_usage_count", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.addr", "")
}

// LoadConfig reads a YAML file at path (skipped when path is empty), applies defaults
// and NOVABUF_* environment overrides, e.g. NOVABUF_BUFFERPOOL_POOL_SIZE=64.
func LoadConfig(path string) (*NovaBufConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("novabuf")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg NovaBufConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *NovaBufConfig) Validate() error {
	if c.BufferPool.PoolSize <= 0 {
		return ErrInvalidPoolSize
	}
	if c.BufferPool.MaxUsageCount < 0 {
		return ErrInvalidUsageCap
	}
	if c.Storage.PageSize != storage.PageSize {
		return fmt.Errorf("%w: got %d, want %d", ErrPageSizeMismatch, c.Storage.PageSize, storage.PageSize)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

func (c *NovaBufConfig) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return lvl, fmt.Errorf("config: log.level: %w", err)
	}
	return lvl, nil
}
