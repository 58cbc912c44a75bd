package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"specline/internal/extractor"
	"specline/internal/parser"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `mapstructure:"project_path"`

	// Report discovery
	ReportDir     string   `mapstructure:"report_dir"`
	ReportPattern string   `mapstructure:"report_pattern"`
	PathsToIgnore []string `mapstructure:"paths_to_ignore"`

	// Processing settings
	Processors   int    `mapstructure:"processors"`
	Format       string `mapstructure:"format"`
	FramePattern string `mapstructure:"frame_pattern"`

	Logging LoggingConfig `mapstructure:"logging"`

	// Command flags
	Flags Flags `mapstructure:"-"`
}

// LoggingConfig controls diagnostics logging
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// Flags holds command-line flags
type Flags struct {
	Processors   int
	Format       string
	ReportDir    string
	NameFilter   string
	FramePattern string
	FailFast     bool
	Progress     bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:   DefaultProjectPath,
		ReportDir:     DefaultReportDir,
		ReportPattern: DefaultReportPattern,
		Processors:    DefaultProcessors,
		Format:        DefaultFormat,
		FramePattern:  extractor.DefaultFramePattern,
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load reads configuration from the given file, or from specline.yaml in the
// project directory when path is empty. A .env file in the project directory is
// loaded first; SPECLINE_* environment variables override file values.
func Load(path string) (*Config, error) {
	defaults := New()

	projectPath := os.Getenv(EnvPrefix + "_PROJECT_PATH")
	if projectPath == "" {
		projectPath = defaults.ProjectPath
	}
	// A missing .env is fine; variables may come from the environment itself
	_ = godotenv.Load(filepath.Join(projectPath, ".env"))

	v := viper.New()
	setDefaults(v, defaults)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(v.GetString("project_path"))
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("project_path", cfg.ProjectPath)
	v.SetDefault("report_dir", cfg.ReportDir)
	v.SetDefault("report_pattern", cfg.ReportPattern)
	v.SetDefault("paths_to_ignore", cfg.PathsToIgnore)
	v.SetDefault("processors", cfg.Processors)
	v.SetDefault("format", cfg.Format)
	v.SetDefault("frame_pattern", cfg.FramePattern)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}

// ApplyFlags merges command-line flags over the loaded values
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.ReportDir != "" {
		c.ReportDir = flags.ReportDir
	}
	if flags.FramePattern != "" {
		c.FramePattern = flags.FramePattern
	}
}

// Validate performs basic sanity checks on configuration values
func (c *Config) Validate() error {
	if c.Processors <= 0 {
		return errors.New("processors must be > 0")
	}
	if _, err := parser.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if _, err := extractor.New(c.FramePattern); err != nil {
		return fmt.Errorf("frame_pattern: %w", err)
	}
	if _, err := filepath.Match(c.ReportPattern, ""); err != nil {
		return fmt.Errorf("report_pattern %q: %w", c.ReportPattern, err)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be one of console or json, got %q", c.Logging.Format)
	}
	return nil
}

// Extractor builds the failure line extractor for the configured frame pattern
func (c *Config) Extractor() (*extractor.Extractor, error) {
	if c.FramePattern == "" || c.FramePattern == extractor.DefaultFramePattern {
		return extractor.Default(), nil
	}
	return extractor.New(c.FramePattern)
}

// GetReportDir returns the report directory, relative to the project path unless absolute
func (c *Config) GetReportDir() string {
	if filepath.IsAbs(c.ReportDir) {
		return c.ReportDir
	}
	return filepath.Join(c.ProjectPath, c.ReportDir)
}
