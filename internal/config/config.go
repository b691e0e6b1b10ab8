package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the corpmatch configuration.
type Config struct {
	Match    MatchConfig    `yaml:"match"`
	Resolver ResolverConfig `yaml:"resolver"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MatchConfig holds matching engine settings. Threshold is a pointer so an
// explicit 0 (accept every fuzzy hit) stays distinguishable from an absent key.
type MatchConfig struct {
	Threshold     *int   `yaml:"threshold"`      // minimum fuzzy score [0,100] (default: 80)
	MaxCandidates int    `yaml:"max_candidates"` // shortlist size per query (default: 50)
	PrefixLength  int    `yaml:"prefix_length"`  // index prefix key length (default: 3)
	Scorer        string `yaml:"scorer"`         // scorer name (default: ratio)
}

// ResolverConfig holds batch resolution settings.
type ResolverConfig struct {
	Workers       int `yaml:"workers"`        // 0 = NumCPU
	ProgressEvery int `yaml:"progress_every"` // log progress every N queries
}

// InputConfig holds data source settings.
type InputConfig struct {
	PoolCSV       string   `yaml:"pool_csv"`       // candidate pool as CSV export
	RegistryFiles []string `yaml:"registry_files"` // fixed-width registry files
	Roster        string   `yaml:"roster"`         // query names, xlsx or text
}

// OutputConfig holds report and checkpoint settings.
type OutputConfig struct {
	Report              string `yaml:"report"`
	Checkpoint          string `yaml:"checkpoint"`
	CheckpointSaveEvery int    `yaml:"checkpoint_save_every"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Match.Threshold == nil {
		threshold := 80
		c.Match.Threshold = &threshold
	}
	if c.Match.MaxCandidates <= 0 {
		c.Match.MaxCandidates = 50
	}
	if c.Match.PrefixLength <= 0 {
		c.Match.PrefixLength = 3
	}
	if c.Match.Scorer == "" {
		c.Match.Scorer = "ratio"
	}
	if c.Resolver.ProgressEvery <= 0 {
		c.Resolver.ProgressEvery = 1000
	}
	if c.Output.CheckpointSaveEvery <= 0 {
		c.Output.CheckpointSaveEvery = 1000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if t := c.Match.Threshold; t != nil && (*t < 0 || *t > 100) {
		return fmt.Errorf("match.threshold must be between 0 and 100, got %d", *t)
	}
	if c.Match.MaxCandidates < 1 {
		return fmt.Errorf("match.max_candidates must be positive, got %d", c.Match.MaxCandidates)
	}
	if c.Match.PrefixLength < 1 {
		return fmt.Errorf("match.prefix_length must be positive, got %d", c.Match.PrefixLength)
	}
	if c.Resolver.Workers < 0 {
		return fmt.Errorf("resolver.workers must not be negative, got %d", c.Resolver.Workers)
	}
	if c.HTTP.Port != 0 && (c.HTTP.Port < 1 || c.HTTP.Port > 65535) {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
