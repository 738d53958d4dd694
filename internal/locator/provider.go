// Package locator finds businesses for a list of search terms near an
// address, enriches them with drive time, distance and contact details, and
// merges the per-term results into one deduplicated record set.
//
// Every stage talks to the maps provider through the Provider interface so
// the engine can run against a fake in tests.
package locator

import (
	"context"
	"errors"

	"business-locator/internal/models"
)

// ErrNotFound is returned by Resolver when an address yields no coordinate.
var ErrNotFound = errors.New("locator: address not found")

// Provider is the subset of the maps web services the engine needs.
type Provider interface {
	// Geocode returns candidate coordinates for address, best first.
	Geocode(ctx context.Context, address string) ([]models.Coordinate, error)
	// SearchPlaces runs a text search around location within radiusMeters.
	SearchPlaces(ctx context.Context, query string, location models.Coordinate, radiusMeters float64) ([]models.Candidate, error)
	// DistanceMatrix returns one driving route per destination, in order.
	DistanceMatrix(ctx context.Context, origin models.Coordinate, destinations []models.Coordinate) ([]models.RouteResult, error)
	// PlaceDetails returns the phone and website of a place.
	PlaceDetails(ctx context.Context, placeID string) (models.PlaceDetail, error)
}
