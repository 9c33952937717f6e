package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultLogLevel       = "info"
	DefaultMaxFileSize    = 100 * 1024 * 1024 // 100MB
	DefaultMaxRuntimeSecs = 10.0

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the outline extraction CLI
type Config struct {
	// Batch configuration
	InputDirectory  string
	OutputDirectory string

	// Extraction configuration
	MaxRuntimeSecs float64 // wall-clock budget per document, in seconds
	MaxFileSize    int64   // maximum PDF file size in bytes

	// Application configuration
	Version  string
	AppName  string
	LogLevel string
}

// MaxRuntime returns the per-document budget as a duration
func (c *Config) MaxRuntime() time.Duration {
	return time.Duration(c.MaxRuntimeSecs * float64(time.Second))
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		InputDirectory:  "input",
		OutputDirectory: "output",
		MaxRuntimeSecs:  DefaultMaxRuntimeSecs,
		MaxFileSize:     DefaultMaxFileSize,
		Version:         "1.0.0",
		AppName:         "docstructx",
		LogLevel:        DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if expanded, err := filepath.Abs(cfg.InputDirectory); err == nil {
		cfg.InputDirectory = expanded
	}
	if expanded, err := filepath.Abs(cfg.OutputDirectory); err == nil {
		cfg.OutputDirectory = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("DOCSTRUCTX")
	viper.AutomaticEnv()

	viper.SetDefault("input", cfg.InputDirectory)
	viper.SetDefault("output", cfg.OutputDirectory)
	viper.SetDefault("maxruntime", cfg.MaxRuntimeSecs)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("input", cfg.InputDirectory, "Directory containing the PDF files to process")
	pflag.String("output", cfg.OutputDirectory, "Directory the per-document outline JSON files are written to")
	pflag.Float64("maxruntime", cfg.MaxRuntimeSecs, "Wall-clock budget per document, in seconds")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("input", pflag.Lookup("input"))
	_ = viper.BindPFlag("output", pflag.Lookup("output"))
	_ = viper.BindPFlag("maxruntime", pflag.Lookup("maxruntime"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ndocstructx - hierarchical outline extraction for PDF documents\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                      # process ./input into ./output\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input=/data/pdfs --output=/tmp/out # custom directories\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --maxruntime=30                      # looser per-document budget\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DOCSTRUCTX_INPUT        Input directory\n")
		fmt.Fprintf(os.Stderr, "  DOCSTRUCTX_OUTPUT       Output directory\n")
		fmt.Fprintf(os.Stderr, "  DOCSTRUCTX_MAXRUNTIME   Per-document budget in seconds\n")
		fmt.Fprintf(os.Stderr, "  DOCSTRUCTX_MAXFILESIZE  Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  DOCSTRUCTX_LOGLEVEL     Log level\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.InputDirectory = viper.GetString("input")
	cfg.OutputDirectory = viper.GetString("output")
	cfg.MaxRuntimeSecs = viper.GetFloat64("maxruntime")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.InputDirectory == "" {
		return errors.New("input directory cannot be empty")
	}
	if info, err := os.Stat(c.InputDirectory); err != nil {
		return fmt.Errorf("cannot access input directory %s: %w", c.InputDirectory, err)
	} else if !info.IsDir() {
		return fmt.Errorf("input path is not a directory: %s", c.InputDirectory)
	}

	if c.OutputDirectory == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutputDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDirectory, err)
	}

	if c.MaxRuntimeSecs <= 0 {
		return errors.New("maximum runtime must be positive")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{InputDirectory: %s, OutputDirectory: %s, MaxRuntimeSecs: %.1f, MaxFileSize: %d, LogLevel: %s}",
		c.InputDirectory, c.OutputDirectory, c.MaxRuntimeSecs, c.MaxFileSize, c.LogLevel)
}
