// Package config loads the application configuration: a YAML file with
// per-section defaults and environment-variable overlays for secrets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/studyloop/tutorbridge/pkg/httpapi"
	"github.com/studyloop/tutorbridge/pkg/search"
	"github.com/studyloop/tutorbridge/pkg/store"
	"github.com/studyloop/tutorbridge/pkg/tutor"
)

type Config struct {
	LogLevel string            `yaml:"log_level"`
	HTTP     httpapi.Config    `yaml:"http"`
	Model    tutor.ModelConfig `yaml:"model"`
	Search   search.Config     `yaml:"search"`
	Store    store.Config      `yaml:"store"`
}

func (c Config) WithDefaults() Config {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.HTTP = c.HTTP.WithDefaults()
	c.Search = *c.Search.WithDefaults()
	c.Store = c.Store.WithDefaults()
	return c
}

// applyEnv overlays secrets and endpoints from the environment so config
// files never have to carry keys.
func (c Config) applyEnv() Config {
	if v := os.Getenv("MODEL_API_KEY"); v != "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv("MODEL_BASE_URL"); v != "" {
		c.Model.BaseURL = v
	}
	if v := os.Getenv("MODEL_NAME"); v != "" {
		c.Model.Model = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	c.Search = *search.ApplyEnvDefaults(&c.Search)
	return c
}

// Load reads the YAML file at path, overlays the environment, and applies
// defaults. A missing file is not an error: env plus defaults must be
// enough to run.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return cfg.applyEnv().WithDefaults(), nil
}
