package locator

import (
	"context"

	"business-locator/internal/common/logger"
	"business-locator/internal/models"
)

// Finder runs the places text search for one term.
type Finder struct {
	provider Provider
	logger   logger.Logger
}

func NewFinder(provider Provider, log logger.Logger) *Finder {
	return &Finder{provider: provider, logger: log}
}

// Find returns candidates in provider order. A nil or non-positive radius
// falls back to models.DefaultRadiusMeters.
func (f *Finder) Find(ctx context.Context, coord models.Coordinate, query string, radiusMiles *float64) ([]models.Candidate, error) {
	radius := models.SearchParams{RadiusMiles: radiusMiles}.RadiusMeters()

	candidates, err := f.provider.SearchPlaces(ctx, query, coord, radius)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("places search complete", map[string]interface{}{
		"query":        query,
		"radiusMeters": radius,
		"candidates":   len(candidates),
	})
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	return candidates, nil
}
