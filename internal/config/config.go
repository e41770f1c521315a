// Package config loads job files for the posematch CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the default job file.
const EnvConfigPath = "POSEMATCH_CONFIG"

// DefaultFile is looked up in the working directory when no file is named.
const DefaultFile = "posematch.yaml"

// Config is the content of a job file (YAML, or JSON by extension).
type Config struct {
	// Resources is the directory the file store resolves paths against.
	Resources string `mapstructure:"resources"`
	Model     string `mapstructure:"model"`
	Space     string `mapstructure:"space"`
	Output    string `mapstructure:"output"`

	// Epsilon overrides the matching tolerance when set.
	Epsilon *float64 `mapstructure:"epsilon"`

	// Store selects the document backend: "file" (default) or "redis".
	Store string      `mapstructure:"store"`
	Redis RedisConfig `mapstructure:"redis"`

	// Scene, when set, receives a glTF export of the gizmos.
	Scene string `mapstructure:"scene"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// RedisConfig configures the redis store.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Default returns the configuration used when no job file exists.
func Default() Config {
	return Config{
		Resources: ".",
		Store:     "file",
		Redis:     RedisConfig{Addr: "localhost:6379"},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// DefaultPath returns $POSEMATCH_CONFIG or DefaultFile.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultFile
}

// Load reads a job file on top of Default.
// A missing file is not an error unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := Decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Decode applies raw values onto cfg.
// Values are weakly typed: epsilon: "1e-4" and ttl: "30s" are both accepted.
// Unknown keys are rejected.
func Decode(raw map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}
