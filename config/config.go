package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/s0up4200/reelscout/catalog"
)

// AppName names the config directory and the environment prefix.
const AppName = "reelscout"

const apiKeyPlaceholder = "your-api-key-here"

// Load loads the configuration from file and environment. A missing config
// file is not an error unless configPath names it explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}

		// Check /etc
		v.AddConfigPath(filepath.Join("/etc", AppName))
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	normalize(&cfg)

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Dir returns the per-user config directory, ~/.reelscout.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+AppName), nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TMDB defaults
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.image_base_url", "https://image.tmdb.org/t/p")
	v.SetDefault("tmdb.language", string(catalog.DefaultLanguage))
	v.SetDefault("tmdb.watch_region", "ES")
	v.SetDefault("tmdb.timeout", 30*time.Second)

	// Storage defaults
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "")

	// Retry defaults
	v.SetDefault("retry.attempts", 1)
	v.SetDefault("retry.delay", time.Second)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
}

// bindEnv maps REELSCOUT_* variables onto config keys. TMDB_API_KEY is
// accepted as well since it is the name most TMDB tooling uses.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("tmdb.api_key", "REELSCOUT_TMDB_API_KEY", "TMDB_API_KEY")
}

// normalize fills derived values. The API key is not validated here: a
// missing key is reported by the client as MissingCredential on first use.
func normalize(cfg *Config) {
	cfg.TMDB.APIKey = strings.TrimSpace(cfg.TMDB.APIKey)
	if cfg.TMDB.APIKey == apiKeyPlaceholder {
		cfg.TMDB.APIKey = ""
	}
	cfg.TMDB.WatchRegion = strings.ToUpper(cfg.TMDB.WatchRegion)
	cfg.Storage.Backend = strings.ToLower(cfg.Storage.Backend)
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath(cfg.Storage.Backend)
	}
}

// DefaultStoragePath returns the storage location used when none is configured.
func DefaultStoragePath(backend string) string {
	dir, err := Dir()
	if err != nil {
		dir = "." + AppName
	}
	if backend == "sqlite" {
		return filepath.Join(dir, AppName+".db")
	}
	return filepath.Join(dir, "state")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url is required")
	}

	if _, err := catalog.ParseLanguage(cfg.TMDB.Language); err != nil {
		return fmt.Errorf("invalid tmdb.language: %w", err)
	}

	if len(cfg.TMDB.WatchRegion) != 2 {
		return fmt.Errorf("invalid tmdb.watch_region: %q (must be a two-letter country code)", cfg.TMDB.WatchRegion)
	}

	if cfg.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive")
	}

	validBackends := map[string]bool{
		"file":   true,
		"sqlite": true,
		"memory": true,
	}
	if !validBackends[cfg.Storage.Backend] {
		return fmt.Errorf("invalid storage.backend: %s (must be 'file', 'sqlite' or 'memory')", cfg.Storage.Backend)
	}

	if cfg.Retry.Attempts < 1 {
		return fmt.Errorf("retry.attempts must be at least 1")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// WriteDefault writes a YAML config file holding the default values. An
// existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	v := viper.New()
	setDefaults(v)
	settings := yamlSafe(v.AllSettings()).(map[string]any)
	settings["tmdb"].(map[string]any)["api_key"] = apiKeyPlaceholder
	settings["filter"] = map[string]string{
		"top_rated": "VoteAverage >= 7.5 and VoteCount >= 1000",
		"recent":    "Year >= 2020",
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	header := "# reelscout configuration\n# TMDB_API_KEY in the environment overrides tmdb.api_key\n\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// yamlSafe renders durations as strings so the file stays readable.
func yamlSafe(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = yamlSafe(val)
		}
		return out
	case time.Duration:
		return t.String()
	default:
		return v
	}
}
