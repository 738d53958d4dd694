package locator

import (
	"context"
	"strings"

	"business-locator/internal/common/logger"
	"business-locator/internal/models"
)

// Resolver turns a free-text address into a coordinate.
type Resolver struct {
	provider Provider
	logger   logger.Logger
}

func NewResolver(provider Provider, log logger.Logger) *Resolver {
	return &Resolver{provider: provider, logger: log}
}

// Resolve returns the first geocoding match. A blank address, an empty
// result and a provider failure all yield ErrNotFound; failures are logged.
// A cancelled or expired ctx is returned as is.
func (r *Resolver) Resolve(ctx context.Context, address string) (models.Coordinate, error) {
	if strings.TrimSpace(address) == "" {
		return models.Coordinate{}, ErrNotFound
	}

	coords, err := r.provider.Geocode(ctx, address)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return models.Coordinate{}, ctxErr
	}
	if err != nil {
		r.logger.Error("geocoding failed", map[string]interface{}{
			"address": address,
			"error":   err,
		})
		return models.Coordinate{}, ErrNotFound
	}
	if len(coords) == 0 {
		r.logger.Warn("address not found", map[string]interface{}{"address": address})
		return models.Coordinate{}, ErrNotFound
	}
	return coords[0], nil
}
