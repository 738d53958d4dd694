// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "business-locator/internal/common/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultProviderBaseURL = "https://maps.googleapis.com"
	DefaultPacingDelayMS   = 2000
)

// Load reads configs/config.yaml, overlays config.<APP_ENVIRONMENT>.yaml and
// the process environment, then applies defaults. Only the provider key is
// validated here; worker runtime settings are checked by ValidateWorkerRuntime.
func Load() (*Config, error) {
	envFile := loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // env overlay is optional

	cfg, err := finish(v)
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = envFile
	return cfg, nil
}

// LoadFromFile loads a single explicit YAML file plus environment overrides.
func LoadFromFile(path string) (*Config, error) {
	envFile := loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := finish(v)
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = envFile
	return cfg, nil
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up from the working directory
// and returns its path, or "" when none exists.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills settings from the plain environment names the
// locator has always used (API_KEY, DEFAULT_SEARCH_TERMS).
func overrideEmptyConfig(cfg *Config) {
	if cfg.Provider.APIKey == "" {
		if val := os.Getenv("API_KEY"); val != "" {
			cfg.Provider.APIKey = val
		}
	}

	if len(cfg.Search.DefaultTerms) == 0 {
		if val := os.Getenv("DEFAULT_SEARCH_TERMS"); val != "" {
			cfg.Search.DefaultTerms = SplitList(val)
		}
	} else if len(cfg.Search.DefaultTerms) == 1 && strings.Contains(cfg.Search.DefaultTerms[0], ",") {
		// SEARCH_DEFAULT_TERMS via AutomaticEnv arrives as one comma-joined string
		cfg.Search.DefaultTerms = SplitList(cfg.Search.DefaultTerms[0])
	}

	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

// SplitList splits a comma-separated value, trimming blanks.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "business-locator"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = DefaultProviderBaseURL
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = 10000
	}

	// pacing_delay_ms: 0 in the file means "use the default"; a negative value disables pacing
	switch {
	case cfg.Search.PacingDelay == 0:
		cfg.Search.PacingDelay = DefaultPacingDelayMS
	case cfg.Search.PacingDelay < 0:
		cfg.Search.PacingDelay = 0
	}
	if cfg.Search.ResultTTLMinutes == 0 {
		cfg.Search.ResultTTLMinutes = 60
	}

	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = "."
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 2
		}
		if worker.Timeout == 0 {
			worker.Timeout = 600000 // a batch of terms with pacing can run for minutes
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// Validate checks the settings every entry point needs. A missing provider
// key is fatal at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provider.APIKey) == "" {
		return apperrors.NewConfigurationError("provider.api_key (API_KEY) is required")
	}
	return nil
}

// ValidateWorkerRuntime checks the settings only the worker manager needs.
func (c *Config) ValidateWorkerRuntime() error {
	switch {
	case c.Camunda.BrokerAddress == "":
		return apperrors.NewConfigurationError("camunda.broker_address is required")
	case c.Database.Postgres.Host == "":
		return apperrors.NewConfigurationError("database.postgres.host is required")
	case c.Database.Postgres.Database == "":
		return apperrors.NewConfigurationError("database.postgres.database is required")
	case c.Database.Postgres.User == "":
		return apperrors.NewConfigurationError("database.postgres.user is required")
	case c.Database.Redis.Address == "":
		return apperrors.NewConfigurationError("database.redis.address is required")
	}
	return nil
}

// PacingDelay returns the delay between consecutive search terms.
func (c *Config) PacingDelay() time.Duration {
	return GetDuration(c.Search.PacingDelay)
}

func (c *Config) ProviderTimeout() time.Duration {
	return GetDuration(c.Provider.Timeout)
}

func (c *Config) ResultTTL() time.Duration {
	return time.Duration(c.Search.ResultTTLMinutes) * time.Minute
}

// GetDuration converts milliseconds to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig returns worker-specific configuration
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 2,
		Timeout:       600000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
