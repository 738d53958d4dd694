package locator

import (
	"context"
	"fmt"

	apperrors "business-locator/internal/common/errors"
	"business-locator/internal/models"
)

// RouteEnricher fetches driving routes from one origin.
type RouteEnricher struct {
	provider Provider
}

func NewRouteEnricher(provider Provider) *RouteEnricher {
	return &RouteEnricher{provider: provider}
}

// RouteBatch issues a single distance-matrix call covering all destinations
// and returns one result per destination, in order. No call is made for an
// empty list.
func (e *RouteEnricher) RouteBatch(ctx context.Context, origin models.Coordinate, destinations []models.Coordinate) ([]models.RouteResult, error) {
	if len(destinations) == 0 {
		return []models.RouteResult{}, nil
	}

	results, err := e.provider.DistanceMatrix(ctx, origin, destinations)
	if err != nil {
		return nil, err
	}
	if len(results) != len(destinations) {
		return nil, apperrors.NewProviderUnavailableError("distance_matrix",
			fmt.Errorf("got %d route results for %d destinations", len(results), len(destinations)))
	}
	return results, nil
}
