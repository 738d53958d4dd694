package locator

import "business-locator/internal/models"

// Aggregate merges records describing the same business (same DedupKey).
// The first occurrence keeps its position and fields; each later duplicate
// appends ", <term>" to its SearchTerm. The input slice is not modified.
func Aggregate(records []models.EnrichedRecord) []models.EnrichedRecord {
	merged := make([]models.EnrichedRecord, 0, len(records))
	index := make(map[string]int, len(records))

	for _, r := range records {
		key := r.DedupKey()
		if i, ok := index[key]; ok {
			merged[i].SearchTerm += ", " + r.SearchTerm
			continue
		}
		index[key] = len(merged)
		merged = append(merged, r)
	}
	return merged
}
