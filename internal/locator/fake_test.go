package locator

import (
	"context"

	"business-locator/internal/models"
)

// fakeProvider is an in-memory Provider that records every call.
type fakeProvider struct {
	coords    []models.Coordinate
	geoErr    error
	places    map[string][]models.Candidate
	placesErr error
	// routes by destination; missing destinations route as failed.
	routes    map[models.Coordinate]models.RouteResult
	routeErr  error
	details   map[string]models.PlaceDetail
	detailErr error
	onGeocode func()

	geocodeCalls []string
	searchCalls  []searchCall
	matrixCalls  [][]models.Coordinate
	detailCalls  []string
}

type searchCall struct {
	query  string
	radius float64
}

func (f *fakeProvider) Geocode(_ context.Context, address string) ([]models.Coordinate, error) {
	f.geocodeCalls = append(f.geocodeCalls, address)
	if f.onGeocode != nil {
		f.onGeocode()
	}
	return f.coords, f.geoErr
}

func (f *fakeProvider) SearchPlaces(_ context.Context, query string, _ models.Coordinate, radius float64) ([]models.Candidate, error) {
	f.searchCalls = append(f.searchCalls, searchCall{query: query, radius: radius})
	if f.placesErr != nil {
		return nil, f.placesErr
	}
	return f.places[query], nil
}

func (f *fakeProvider) DistanceMatrix(_ context.Context, _ models.Coordinate, destinations []models.Coordinate) ([]models.RouteResult, error) {
	f.matrixCalls = append(f.matrixCalls, destinations)
	if f.routeErr != nil {
		return nil, f.routeErr
	}
	out := make([]models.RouteResult, len(destinations))
	for i, d := range destinations {
		r, ok := f.routes[d]
		if !ok {
			r = models.RouteResult{Status: models.RouteFailed}
		}
		out[i] = r
	}
	return out, nil
}

func (f *fakeProvider) PlaceDetails(_ context.Context, placeID string) (models.PlaceDetail, error) {
	f.detailCalls = append(f.detailCalls, placeID)
	if f.detailErr != nil {
		return models.PlaceDetail{}, f.detailErr
	}
	return f.details[placeID], nil
}

func at(lat float64) models.Coordinate {
	return models.Coordinate{Lat: lat, Lng: -lat}
}

func okRoute(seconds, meters float64) models.RouteResult {
	return models.RouteResult{Status: models.RouteOK, DurationSeconds: seconds, DistanceMeters: meters}
}
