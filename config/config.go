// Package config handles configuration loading and saving.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/linanwx/shopchat/logger"
)

const (
	configDirName  = ".shopchat"
	configFileName = "config.yaml"
)

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	Assistant AssistantConfig `json:"assistant" yaml:"assistant"`
	Commerce  CommerceConfig  `json:"commerce,omitempty" yaml:"commerce,omitempty"`
	Capture   CaptureConfig   `json:"capture,omitempty" yaml:"capture,omitempty"`
	Widget    WidgetConfig    `json:"widget,omitempty" yaml:"widget,omitempty"`
	Logging   LoggingConfig   `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// AssistantConfig points the widget at its upstream assistant service.
type AssistantConfig struct {
	SocketURL   string `json:"socketURL" yaml:"socketURL"`                         // websocket endpoint for send/replies
	UploadURL   string `json:"uploadURL,omitempty" yaml:"uploadURL,omitempty"`     // image upload action endpoint
	AssistantID string `json:"assistantId,omitempty" yaml:"assistantId,omitempty"` // carried on analytics events
	ThreadID    string `json:"threadId,omitempty" yaml:"threadId,omitempty"`       // generated per session when empty

	// SearchTool is the function-call name whose results render as
	// products.
	SearchTool string `json:"searchTool,omitempty" yaml:"searchTool,omitempty"`

	OpenAI OpenAIConfig `json:"openai,omitempty" yaml:"openai,omitempty"`
}

// OpenAIConfig holds credentials and models for the describe-image and
// transcribe-audio calls.
type OpenAIConfig struct {
	APIKey          string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	APIBase         string `json:"apiBase,omitempty" yaml:"apiBase,omitempty"`
	VisionModel     string `json:"visionModel,omitempty" yaml:"visionModel,omitempty"`
	TranscribeModel string `json:"transcribeModel,omitempty" yaml:"transcribeModel,omitempty"`
}

// CommerceConfig holds the storefront commerce endpoints.
type CommerceConfig struct {
	CartURL string `json:"cartURL,omitempty" yaml:"cartURL,omitempty"` // add-to-cart action endpoint
	Seller  string `json:"seller,omitempty" yaml:"seller,omitempty"`   // fallback seller id
}

// CaptureConfig configures the microphone capture device.
type CaptureConfig struct {
	// Command is the capture executable (ffmpeg-style) that writes
	// encoded audio to stdout. Empty disables voice input.
	Command string   `json:"command,omitempty" yaml:"command,omitempty"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
	// Formats lists the encodings the device supports, in preference
	// order as reported by the device.
	Formats []string `json:"formats,omitempty" yaml:"formats,omitempty"`
}

// WidgetConfig holds presentation settings.
type WidgetConfig struct {
	// WideWidth is the terminal width at which the product shelf
	// replaces the carousel.
	WideWidth int `json:"wideWidth,omitempty" yaml:"wideWidth,omitempty"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"` // debug, info, warn, error
	Stdout  bool   `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
}

// ConfigDir returns the configuration directory, honoring the override.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the path of the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file, applying defaults for missing fields.
// A missing file yields the default config and no error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config file, creating the config directory if needed.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// BuildLoggerConfig converts the logging section into logger settings.
func (c *Config) BuildLoggerConfig() logger.Config {
	return logger.Config{
		Enabled: c.Logging.Enabled == nil || *c.Logging.Enabled,
		Level:   c.Logging.Level,
		Stdout:  c.Logging.Stdout,
		File:    c.Logging.File,
	}
}
