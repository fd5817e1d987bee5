// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (BOXFLOW_LAYOUT_MAX_DEPTH).
const EnvPrefix = "BOXFLOW"

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Layout() LayoutConfig
	Engine() EngineConfig
	Output() OutputConfig

	// Layout Setters
	SetViewport(width, height float64)

	// Engine Setters
	SetEngineWorkerConcurrency(int)

	// Output Setters
	SetOutputFormat(string)
	SetOutputPath(string)
}

// Config holds the entire application configuration.
// Sections are exported for the decoder; callers should go through Interface.
type Config struct {
	LoggerCfg LoggerConfig `mapstructure:"logger" yaml:"logger"`
	LayoutCfg LayoutConfig `mapstructure:"layout" yaml:"layout"`
	EngineCfg EngineConfig `mapstructure:"engine" yaml:"engine"`
	OutputCfg OutputConfig `mapstructure:"output" yaml:"output"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig { return c.LoggerCfg }
func (c *Config) Layout() LayoutConfig { return c.LayoutCfg }
func (c *Config) Engine() EngineConfig { return c.EngineCfg }
func (c *Config) Output() OutputConfig { return c.OutputCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetViewport(width, height float64) {
	c.LayoutCfg.ViewportWidth = width
	c.LayoutCfg.ViewportHeight = height
}

func (c *Config) SetEngineWorkerConcurrency(w int) { c.EngineCfg.WorkerConcurrency = w }

func (c *Config) SetOutputFormat(f string) { c.OutputCfg.Format = f }
func (c *Config) SetOutputPath(p string)   { c.OutputCfg.Path = p }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the ANSI color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// LayoutConfig configures the style and layout stages.
type LayoutConfig struct {
	ViewportWidth  float64 `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight float64 `mapstructure:"viewport_height" yaml:"viewport_height"`
	// MaxDepth bounds the recursion of both tree builders.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`
}

// EngineConfig configures the batch renderer.
type EngineConfig struct {
	WorkerConcurrency int           `mapstructure:"worker_concurrency" yaml:"worker_concurrency"`
	JobTimeout        time.Duration `mapstructure:"job_timeout" yaml:"job_timeout"`
}

// OutputConfig selects the reporter.
type OutputConfig struct {
	// Format is "text" or "json".
	Format string `mapstructure:"format" yaml:"format"`
	// Path is a file path, or "stdout"/"-"/"" for standard output.
	Path string `mapstructure:"path" yaml:"path"`
}

// NewDefaultConfig returns a configuration built purely from defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are static; a failure here is a programming error.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "boxflow")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Layout --
	v.SetDefault("layout.viewport_width", 1024.0)
	v.SetDefault("layout.viewport_height", 768.0)
	v.SetDefault("layout.max_depth", 512)

	// -- Engine --
	v.SetDefault("engine.worker_concurrency", 4)
	v.SetDefault("engine.job_timeout", "30s")

	// -- Output --
	v.SetDefault("output.format", "text")
	v.SetDefault("output.path", "stdout")
}

// BindEnv wires BOXFLOW_ prefixed environment variables onto the keys.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the optional config file at path (which may start with ~) on
// top of defaults and environment overrides.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	BindEnv(v)

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("could not expand config path '%s': %w", path, err)
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file '%s': %w", expanded, err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.LayoutCfg.Validate(); err != nil {
		return fmt.Errorf("layout configuration invalid: %w", err)
	}
	if c.EngineCfg.WorkerConcurrency <= 0 {
		return fmt.Errorf("engine.worker_concurrency must be a positive integer")
	}
	if c.EngineCfg.JobTimeout < 0 {
		return fmt.Errorf("engine.job_timeout must not be negative")
	}
	switch c.OutputCfg.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output.format must be 'text' or 'json', got '%s'", c.OutputCfg.Format)
	}
	return nil
}

// Validate checks the layout settings.
func (l *LayoutConfig) Validate() error {
	if l.ViewportWidth < 0 || l.ViewportHeight < 0 {
		return fmt.Errorf("viewport dimensions must not be negative")
	}
	if l.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be greater than 0")
	}
	return nil
}
