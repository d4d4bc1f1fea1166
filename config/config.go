package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type SchedulerConfig struct {
	Port                  int
	LogLevel              string
	TimeQuantum           int64
	ContextSwitchOverhead float64
	MaxDispatches         int64
}

var (
	once    sync.Once
	config  *SchedulerConfig
	loadErr error
)

// GetSchedulerConfig loads config.yaml from the working directory once and
// returns the shared result.
func GetSchedulerConfig() (*SchedulerConfig, error) {
	once.Do(func() {
		config, loadErr = Load("./")
	})
	return config, loadErr
}

// Load reads config.yaml from dir, applying PRRSCHED_* environment overrides.
// A missing file leaves the defaults in place.
func Load(dir string) (*SchedulerConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("port", 9095)
	v.SetDefault("log_level", "info")
	v.SetDefault("scheduler.time_quantum", 2)
	v.SetDefault("scheduler.context_switch_overhead", 0.5)
	v.SetDefault("scheduler.max_dispatches", 1000000)

	v.SetEnvPrefix("prrsched")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &SchedulerConfig{
		Port:                  v.GetInt("port"),
		LogLevel:              v.GetString("log_level"),
		TimeQuantum:           v.GetInt64("scheduler.time_quantum"),
		ContextSwitchOverhead: v.GetFloat64("scheduler.context_switch_overhead"),
		MaxDispatches:         v.GetInt64("scheduler.max_dispatches"),
	}
	if cfg.TimeQuantum < 1 {
		return nil, fmt.Errorf("scheduler.time_quantum must be positive, got %d", cfg.TimeQuantum)
	}
	if cfg.ContextSwitchOverhead < 0 {
		return nil, fmt.Errorf("scheduler.context_switch_overhead must not be negative, got %v", cfg.ContextSwitchOverhead)
	}
	if cfg.MaxDispatches < 1 {
		return nil, fmt.Errorf("scheduler.max_dispatches must be positive, got %d", cfg.MaxDispatches)
	}
	return cfg, nil
}
