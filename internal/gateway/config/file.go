package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML overlay shape. Only set fields override what the
// environment produced; zero values are ignored.
type fileConfig struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`

	LLM struct {
		Provider      string `yaml:"provider"`
		Model         string `yaml:"model"`
		OllamaBaseURL string `yaml:"ollama_base_url"`
	} `yaml:"llm"`

	Staging struct {
		MinConfidence float64 `yaml:"min_confidence"`
	} `yaml:"staging"`

	Watermark struct {
		Anchor   string  `yaml:"anchor"`
		Padding  float64 `yaml:"padding"`
		FontSize float64 `yaml:"font_size"`
	} `yaml:"watermark"`
}

func applyFile(cfg *Config, path string) error {
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	}
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.Port != "" {
		if strings.HasPrefix(fc.Port, ":") {
			cfg.Port = fc.Port
		} else {
			cfg.Port = ":" + fc.Port
		}
	}
	if fc.DatabaseURL != "" {
		cfg.DatabaseURL = fc.DatabaseURL
	}
	if fc.LLM.Provider != "" {
		cfg.LLM.Provider = fc.LLM.Provider
	}
	if fc.LLM.Model != "" {
		cfg.LLM.Model = fc.LLM.Model
	}
	if fc.LLM.OllamaBaseURL != "" {
		cfg.LLM.OllamaBaseURL = fc.LLM.OllamaBaseURL
	}
	if fc.Staging.MinConfidence > 0 {
		cfg.Staging.MinConfidence = fc.Staging.MinConfidence
	}
	if fc.Watermark.Anchor != "" {
		cfg.Watermark.Anchor = fc.Watermark.Anchor
	}
	if fc.Watermark.Padding > 0 {
		cfg.Watermark.Padding = fc.Watermark.Padding
	}
	if fc.Watermark.FontSize > 0 {
		cfg.Watermark.FontSize = fc.Watermark.FontSize
	}
	return nil
}
