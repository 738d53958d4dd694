package businesssearch

import (
	"encoding/json"
	"time"

	"business-locator/internal/common/errors"
	"business-locator/pkg/registry"
)

// Activity describes the business-search task for the activity registry.
func Activity(cfg *Config, retries int) registry.Activity {
	var input map[string]interface{}
	_ = json.Unmarshal([]byte(inputSchema), &input)

	return registry.Activity{
		ID:                   TaskType,
		DisplayName:          "Business Search",
		Description:          "Searches every term near a location, filters by radius or drive time and stores the merged results as a downloadable workbook.",
		Category:             "locator",
		Version:              cfg.AppVersion,
		TaskType:             TaskType,
		ImplementationStatus: "implemented",
		InputSchema:          input,
		ErrorCodes: []string{
			string(errors.ErrCodeInvalidSearchInput),
			string(errors.ErrCodeExportFailed),
			string(errors.ErrCodeResultStoreFailed),
		},
		Timeout: cfg.Timeout.Round(time.Second).String(),
		Retries: retries,
		Tags:    []string{"maps", "export"},
	}
}
