// internal/workers/locator/business-search/models.go
package businesssearch

import (
	"encoding/json"
	"fmt"

	"business-locator/internal/locator"
	"business-locator/internal/models"
)

type Input struct {
	SearchName   string   `json:"searchName,omitempty"`
	Location     string   `json:"location"`
	SearchBy     string   `json:"searchBy,omitempty"`
	Radius       *float64 `json:"radius,omitempty"`
	MaxDriveTime *float64 `json:"maxDriveTime,omitempty"`
	SearchTerms  TermList `json:"searchTerms,omitempty"`
}

type Output struct {
	SearchID      string                  `json:"searchId"`
	FileName      string                  `json:"fileName"`
	DownloadPath  string                  `json:"downloadPath"`
	RecordCount   int                     `json:"recordCount"`
	SearchedTerms []string                `json:"searchedTerms"`
	FailedTerms   []string                `json:"failedTerms"`
	NotFoundTerms []string                `json:"notFoundTerms"`
	Records       []models.EnrichedRecord `json:"records"`
}

// TermList accepts either a comma-separated string or an array of strings.
type TermList []string

func (t *TermList) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*t = locator.ParseTerms(raw)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("searchTerms must be a string or an array of strings")
	}
	*t = list
	return nil
}

const inputSchema = `{
	"type": "object",
	"required": ["location"],
	"properties": {
		"searchName":   {"type": "string", "maxLength": 200},
		"location":     {"type": "string", "pattern": "\\S"},
		"searchBy":     {"type": "string", "enum": ["", "r", "d", "b", "R", "D", "B"]},
		"radius":       {"type": ["number", "null"], "minimum": 0},
		"maxDriveTime": {"type": ["number", "null"], "minimum": 0},
		"searchTerms":  {
			"oneOf": [
				{"type": "string"},
				{"type": "array", "items": {"type": "string"}},
				{"type": "null"}
			]
		}
	}
}`
