package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr                   string   `json:"addr" yaml:"addr" toml:"addr" env:"ADDR"`
	Backend                string   `json:"backend" yaml:"backend" toml:"backend" env:"BACKEND"`
	LogLevel               string   `json:"log_level" yaml:"log_level" toml:"log_level" env:"LOG_LEVEL"`
	LogFormat              string   `json:"log_format" yaml:"log_format" toml:"log_format" env:"LOG_FORMAT"`
	MaxBodyMB              int      `json:"max_body_mb" yaml:"max_body_mb" toml:"max_body_mb" env:"MAX_BODY_MB"`
	MaxPixels              int64    `json:"max_pixels" yaml:"max_pixels" toml:"max_pixels" env:"MAX_PIXELS"`
	StatusMessage          string   `json:"status_message" yaml:"status_message" toml:"status_message" env:"STATUS_MESSAGE"`
	ShutdownTimeoutSeconds int      `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds" env:"SHUTDOWN_TIMEOUT_SECONDS"`
	UpscaleTimeoutSeconds  int      `json:"upscale_timeout_seconds" yaml:"upscale_timeout_seconds" toml:"upscale_timeout_seconds" env:"UPSCALE_TIMEOUT_SECONDS"`
	CORSOrigins            []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
	CORSHeaders            []string `json:"cors_headers" yaml:"cors_headers" toml:"cors_headers" env:"CORS_HEADERS" envSeparator:","`

	// Backends
	ResizeFactor         int    `json:"resize_factor" yaml:"resize_factor" toml:"resize_factor" env:"RESIZE_FACTOR"`
	EDSRWeights          string `json:"edsr_weights" yaml:"edsr_weights" toml:"edsr_weights" env:"EDSR_WEIGHTS"`
	RealESRGANWeights    string `json:"realesrgan_weights" yaml:"realesrgan_weights" toml:"realesrgan_weights" env:"REALESRGAN_WEIGHTS"`
	RealESRGANMaxDim     int    `json:"realesrgan_max_dim" yaml:"realesrgan_max_dim" toml:"realesrgan_max_dim" env:"REALESRGAN_MAX_DIM"`
	ONNXLibrary          string `json:"onnx_lib" yaml:"onnx_lib" toml:"onnx_lib" env:"ONNX_LIB"`
	ONNXInputName        string `json:"onnx_input" yaml:"onnx_input" toml:"onnx_input" env:"ONNX_INPUT"`
	ONNXOutputName       string `json:"onnx_output" yaml:"onnx_output" toml:"onnx_output" env:"ONNX_OUTPUT"`
	RemoteEndpoint       string `json:"remote_endpoint" yaml:"remote_endpoint" toml:"remote_endpoint" env:"REMOTE_ENDPOINT"`
	RemoteAPIKey         string `json:"remote_api_key" yaml:"remote_api_key" toml:"remote_api_key" env:"REMOTE_API_KEY"`
	RemotePrompt         string `json:"remote_prompt" yaml:"remote_prompt" toml:"remote_prompt" env:"REMOTE_PROMPT"`
	RemoteTimeoutSeconds int    `json:"remote_timeout_seconds" yaml:"remote_timeout_seconds" toml:"remote_timeout_seconds" env:"REMOTE_TIMEOUT_SECONDS"`

	// Admission
	MaxInflight   int `json:"max_inflight" yaml:"max_inflight" toml:"max_inflight" env:"MAX_INFLIGHT"`
	MaxQueueDepth int `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth" env:"MAX_QUEUE_DEPTH"`
	MaxWaitMS     int `json:"max_wait_ms" yaml:"max_wait_ms" toml:"max_wait_ms" env:"MAX_WAIT_MS"`
}

// EnvPrefix is prepended to every env tag.
const EnvPrefix = "UPSCALED_"

// Defaults.
const (
	DefaultAddr                   = ":8000"
	DefaultBackend                = "resize"
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "json"
	DefaultMaxBodyMB              = 32
	DefaultShutdownTimeoutSeconds = 30
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// FromEnv overlays UPSCALED_* variables onto cfg. Unset variables leave
// fields untouched.
func FromEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("env: %w", err)
	}
	return nil
}

// ApplyDefaults fills zero values. Backend-specific defaults are left to the
// backend package.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.MaxBodyMB <= 0 {
		c.MaxBodyMB = DefaultMaxBodyMB
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		c.ShutdownTimeoutSeconds = DefaultShutdownTimeoutSeconds
	}
}
