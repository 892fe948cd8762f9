package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before they are mapped onto config keys.
const EnvPrefix = "GLUCOSE_"

const maxConfigFileSize = 1 << 20

// Config holds all application configuration
type Config struct {
	Provider ProviderConfig `koanf:"provider"`
	Batch    BatchConfig    `koanf:"batch"`
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
}

// ProviderConfig holds the poppler tool settings and classifier options
type ProviderConfig struct {
	Pdftotext           string `koanf:"pdftotext"`
	Pdftoppm            string `koanf:"pdftoppm"`
	DPI                 int    `koanf:"dpi"`
	ClassifierPages     int    `koanf:"classifier_pages"`
	AllowLegacySnapshot bool   `koanf:"allow_legacy_snapshot"`
	TempDir             string `koanf:"temp_dir"`
}

// BatchConfig holds worker pool settings for batch and watch modes
type BatchConfig struct {
	Workers        int           `koanf:"workers"`
	QueueSize      int           `koanf:"queue_size"`
	ProcessTimeout time.Duration `koanf:"process_timeout"`
	Debounce       time.Duration `koanf:"debounce"`
}

// ServerConfig holds the upload server settings
type ServerConfig struct {
	GRPCAddr       string `koanf:"grpc_addr"`
	HTTPAddr       string `koanf:"http_addr"`
	MaxUploadBytes int64  `koanf:"max_upload_bytes"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderConfig{
			Pdftotext:       "pdftotext",
			Pdftoppm:        "pdftoppm",
			DPI:             72,
			ClassifierPages: 3,
		},
		Batch: BatchConfig{
			Workers:        4,
			QueueSize:      256,
			ProcessTimeout: 2 * time.Minute,
			Debounce:       500 * time.Millisecond,
		},
		Server: ServerConfig{
			GRPCAddr:       ":8080",
			HTTPAddr:       ":8081",
			MaxUploadBytes: 32 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration: defaults, then the optional YAML file at path,
// then GLUCOSE_* environment variables.
//
//	GLUCOSE_PROVIDER_PDFTOTEXT -> provider.pdftotext
//	GLUCOSE_BATCH_PROCESS_TIMEOUT -> batch.process_timeout
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps GLUCOSE_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("provider.pdftotext", c.Provider.Pdftotext, Required)
	v.Field("provider.pdftoppm", c.Provider.Pdftoppm, Required)
	if c.Provider.DPI <= 0 {
		v.Field("provider.dpi", c.Provider.DPI, mustBePositive)
	}
	if c.Provider.ClassifierPages < 1 {
		v.Field("provider.classifier_pages", c.Provider.ClassifierPages, mustBePositive)
	}
	if c.Batch.Workers < 1 {
		v.Field("batch.workers", c.Batch.Workers, mustBePositive)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		v.Field("log.format", c.Log.Format, func(name string, value interface{}) *ValidationError {
			return &ValidationError{Field: name, Value: value, Message: "must be json or text"}
		})
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}

func mustBePositive(name string, value interface{}) *ValidationError {
	return &ValidationError{Field: name, Value: value, Message: "must be positive"}
}
