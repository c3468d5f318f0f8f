// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Gateway names accepted in the gateway key.
const (
	GatewayNATS      = "nats"
	GatewaySimulated = "simulated"
)

// Config holds all configuration values for bluebook.
type Config struct {
	DataDir          string        `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel         string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile          string        `mapstructure:"log_file" yaml:"log_file"`
	Gateway          string        `mapstructure:"gateway" yaml:"gateway"`
	SimulatedLatency time.Duration `mapstructure:"simulated_latency" yaml:"simulated_latency"`
	SplashDelay      time.Duration `mapstructure:"splash_delay" yaml:"splash_delay"`
	Timezone         string        `mapstructure:"timezone" yaml:"timezone"`
	ReceiptTemplate  string        `mapstructure:"receipt_template" yaml:"receipt_template"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DataDir:          ".bluebook",
		LogLevel:         "info",
		Gateway:          GatewayNATS,
		SimulatedLatency: 2 * time.Second,
		SplashDelay:      3500 * time.Millisecond,
		Timezone:         "Local",
	}
}

var envKeys = []string{
	"data_dir",
	"log_level",
	"log_file",
	"gateway",
	"simulated_latency",
	"splash_delay",
	"timezone",
	"receipt_template",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
// Flags are applied by the caller on the returned value.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("bluebook")

	def := Default()
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("gateway", def.Gateway)
	v.SetDefault("simulated_latency", def.SimulatedLatency)
	v.SetDefault("splash_delay", def.SplashDelay)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("receipt_template", def.ReceiptTemplate)

	v.SetEnvPrefix("BLUEBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range envKeys {
		if err := v.BindEnv(key, "BLUEBOOK_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that Load cannot type-check.
func (c *Config) Validate() error {
	switch c.Gateway {
	case GatewayNATS, GatewaySimulated:
	default:
		return fmt.Errorf("unknown gateway %q (want %s or %s)", c.Gateway, GatewayNATS, GatewaySimulated)
	}
	if c.SplashDelay < 0 {
		return fmt.Errorf("splash_delay must not be negative")
	}
	if c.SimulatedLatency < 0 {
		return fmt.Errorf("simulated_latency must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the timezone key. Empty and "Local" mean the system zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/bluebook/bluebook.yml or $XDG_CONFIG_HOME/bluebook/bluebook.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bluebook", "bluebook.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "bluebook", "bluebook.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "bluebook.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return writeFile(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return writeFile(ProjectPath(), cfg)
}

func writeFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(fileConfig(cfg))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileShape is the on-disk form. Durations are written as strings like
// "3.5s" rather than integer nanoseconds.
type fileShape struct {
	DataDir          string `yaml:"data_dir"`
	LogLevel         string `yaml:"log_level"`
	LogFile          string `yaml:"log_file,omitempty"`
	Gateway          string `yaml:"gateway"`
	SimulatedLatency string `yaml:"simulated_latency"`
	SplashDelay      string `yaml:"splash_delay"`
	Timezone         string `yaml:"timezone"`
	ReceiptTemplate  string `yaml:"receipt_template,omitempty"`
}

func fileConfig(cfg *Config) fileShape {
	return fileShape{
		DataDir:          cfg.DataDir,
		LogLevel:         cfg.LogLevel,
		LogFile:          cfg.LogFile,
		Gateway:          cfg.Gateway,
		SimulatedLatency: cfg.SimulatedLatency.String(),
		SplashDelay:      cfg.SplashDelay.String(),
		Timezone:         cfg.Timezone,
		ReceiptTemplate:  cfg.ReceiptTemplate,
	}
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
