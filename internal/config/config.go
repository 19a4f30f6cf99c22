package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/abatilo/taskdeck/internal/task"
)

const (
	fileName  = ".taskdeck"
	envPrefix = "TASKDECK"
)

// Config holds all application configuration.
type Config struct {
	LogLevel        string `mapstructure:"log_level"`
	Output          string `mapstructure:"output"`
	Color           bool   `mapstructure:"color"`
	DefaultPriority string `mapstructure:"default_priority"`
	DefaultCategory string `mapstructure:"default_category"`
	Seed            string `mapstructure:"seed"`

	// File is the config file that was read, empty if none was found.
	File string `mapstructure:"-"`
}

// Load reads configuration from path, or from .taskdeck.yaml in the project
// root or home directory when path is empty. Environment variables prefixed
// with TASKDECK_ override file values; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "warn")
	v.SetDefault("output", "human")
	v.SetDefault("color", true)
	v.SetDefault("default_priority", string(task.DefaultPriority))
	v.SetDefault("default_category", string(task.DefaultCategory))
	v.SetDefault("seed", "")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		for _, dir := range searchPaths() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate performs basic validation of the configuration and normalises
// case.
func (c *Config) validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s': must be debug, info, warn, or error", c.LogLevel)
	}

	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	if c.Output != "human" && c.Output != "json" {
		return fmt.Errorf("invalid output '%s': must be human or json", c.Output)
	}

	c.DefaultPriority = strings.ToLower(strings.TrimSpace(c.DefaultPriority))
	if !task.IsValidPriority(task.Priority(c.DefaultPriority)) {
		return fmt.Errorf("invalid default priority '%s': must be high, medium, or low", c.DefaultPriority)
	}

	c.DefaultCategory = strings.TrimSpace(c.DefaultCategory)
	if c.DefaultCategory == "" {
		return errors.New("default category cannot be empty")
	}

	c.Seed = strings.TrimSpace(c.Seed)
	return nil
}
