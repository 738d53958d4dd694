// internal/workers/locator/business-search/config.go
package businesssearch

import (
	"time"

	"business-locator/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	DefaultTerms []string
	PacingDelay  time.Duration
	AppVersion   string
}

// LoadConfig derives the worker settings from the application config.
func LoadConfig(cfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:      config.GetDuration(wcfg.Timeout),
		DefaultTerms: cfg.Search.DefaultTerms,
		PacingDelay:  cfg.PacingDelay(),
		AppVersion:   cfg.App.Version,
	}
}
