// Package maps adapts the Google Maps web-service client to the locator's
// geocoding, places, routing and place-detail provider.
package maps

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"time"

	gmaps "googlemaps.github.io/maps"

	apperrors "business-locator/internal/common/errors"
	commonhttp "business-locator/internal/common/http"
	"business-locator/internal/common/logger"
	"business-locator/internal/common/metrics"
	"business-locator/internal/models"
)

const (
	opGeocode        = "geocode"
	opTextSearch     = "text_search"
	opDistanceMatrix = "distance_matrix"
	opPlaceDetails   = "place_details"

	statusOK        = "OK"
	statusTransport = "TRANSPORT_ERROR"
)

var detailFields = []gmaps.PlaceDetailsFieldMask{
	gmaps.PlaceDetailsFieldMaskFormattedPhoneNumber,
	gmaps.PlaceDetailsFieldMaskWebsite,
}

// providerStatus pulls the API status out of the client's "maps: STATUS - message" errors.
var providerStatus = regexp.MustCompile(`^maps: ([A-Z_]+)`)

type Config struct {
	APIKey string
	// BaseURL overrides the Google host, e.g. for a local stand-in. Empty
	// means the public endpoint.
	BaseURL string
	Timeout time.Duration
}

// Client is safe to share across jobs.
type Client struct {
	api    *gmaps.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) (*Client, error) {
	opts := []gmaps.ClientOption{
		gmaps.WithAPIKey(config.APIKey),
		gmaps.WithHTTPClient(commonhttp.NewClient(config.Timeout)),
	}
	if config.BaseURL != "" {
		opts = append(opts, gmaps.WithBaseURL(strings.TrimRight(config.BaseURL, "/")))
	}

	api, err := gmaps.NewClient(opts...)
	if err != nil {
		return nil, apperrors.NewConfigurationError(err.Error())
	}
	return &Client{
		api:    api,
		logger: log.WithFields(map[string]interface{}{"component": "maps"}),
	}, nil
}

// Geocode returns the provider's matches for address, best first. An empty
// slice means the address could not be geocoded.
func (c *Client) Geocode(ctx context.Context, address string) ([]models.Coordinate, error) {
	var results []gmaps.GeocodingResult
	err := c.call(ctx, opGeocode, func() (err error) {
		results, err = c.api.Geocode(ctx, &gmaps.GeocodingRequest{Address: address})
		return err
	})
	if err != nil {
		return nil, err
	}

	coords := make([]models.Coordinate, 0, len(results))
	for _, r := range results {
		coords = append(coords, fromLatLng(r.Geometry.Location))
	}
	return coords, nil
}

// SearchPlaces runs a text search biased to location within radiusMeters,
// reading the first result page only. Results keep the provider's order.
func (c *Client) SearchPlaces(ctx context.Context, query string, location models.Coordinate, radiusMeters float64) ([]models.Candidate, error) {
	req := &gmaps.TextSearchRequest{
		Query:    query,
		Location: toLatLng(location),
		Radius:   wireRadius(radiusMeters),
	}

	var resp gmaps.PlacesSearchResponse
	err := c.call(ctx, opTextSearch, func() (err error) {
		resp, err = c.api.TextSearch(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	if resp.NextPageToken != "" {
		c.logger.Debug("further result pages ignored", map[string]interface{}{
			"query":   query,
			"results": len(resp.Results),
		})
	}

	candidates := make([]models.Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		candidates = append(candidates, models.Candidate{
			PlaceID:  r.PlaceID,
			Name:     r.Name,
			Address:  r.FormattedAddress,
			Location: fromLatLng(r.Geometry.Location),
		})
	}
	return candidates, nil
}

// DistanceMatrix returns one driving route per destination, in order.
func (c *Client) DistanceMatrix(ctx context.Context, origin models.Coordinate, destinations []models.Coordinate) ([]models.RouteResult, error) {
	if len(destinations) == 0 {
		return []models.RouteResult{}, nil
	}

	dests := make([]string, len(destinations))
	for i, d := range destinations {
		dests[i] = toLatLng(d).String()
	}
	req := &gmaps.DistanceMatrixRequest{
		Origins:      []string{toLatLng(origin).String()},
		Destinations: dests,
		Mode:         gmaps.TravelModeDriving,
	}

	var resp *gmaps.DistanceMatrixResponse
	err := c.call(ctx, opDistanceMatrix, func() (err error) {
		resp, err = c.api.DistanceMatrix(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Rows) == 0 {
		return nil, apperrors.NewProviderUnavailableError(opDistanceMatrix, errors.New("response has no rows"))
	}

	elements := resp.Rows[0].Elements
	results := make([]models.RouteResult, len(elements))
	for i, el := range elements {
		if el == nil || el.Status != statusOK {
			results[i] = models.RouteResult{Status: models.RouteFailed}
			continue
		}
		results[i] = models.RouteResult{
			Status:          models.RouteOK,
			DurationSeconds: el.Duration.Seconds(),
			DistanceMeters:  float64(el.Distance.Meters),
		}
	}
	return results, nil
}

// PlaceDetails fetches phone and website. Fields the provider omits stay nil.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (models.PlaceDetail, error) {
	var result gmaps.PlaceDetailsResult
	err := c.call(ctx, opPlaceDetails, func() (err error) {
		result, err = c.api.PlaceDetails(ctx, &gmaps.PlaceDetailsRequest{
			PlaceID: placeID,
			Fields:  detailFields,
		})
		return err
	})
	if err != nil {
		return models.PlaceDetail{}, err
	}

	return models.PlaceDetail{
		Phone:   optional(result.FormattedPhoneNumber),
		Website: optional(result.Website),
	}, nil
}

// call records metrics for one provider request and maps its failure to a
// StandardError. The client already treats ZERO_RESULTS as an empty answer.
func (c *Client) call(ctx context.Context, op string, do func() error) error {
	start := time.Now()
	err := do()
	metrics.ProviderCallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err == nil {
		metrics.ProviderCalls.WithLabelValues(op, statusOK).Inc()
		return nil
	}

	status := statusTransport
	if m := providerStatus.FindStringSubmatch(err.Error()); m != nil {
		status = m[1]
	}
	metrics.ProviderCalls.WithLabelValues(op, status).Inc()

	if isTimeout(ctx, err) {
		return apperrors.NewProviderTimeoutError(op, err)
	}
	c.logger.Debug("provider call failed", map[string]interface{}{
		"operation": op,
		"status":    status,
	})
	return apperrors.NewProviderUnavailableError(op, err)
}

// wireRadius rounds to the whole metres the API accepts; it is never zero
// because the client rejects a location without a radius.
func wireRadius(meters float64) uint {
	if meters < 1 {
		return 1
	}
	return uint(math.Round(meters))
}

func toLatLng(c models.Coordinate) *gmaps.LatLng {
	return &gmaps.LatLng{Lat: c.Lat, Lng: c.Lng}
}

func fromLatLng(l gmaps.LatLng) models.Coordinate {
	return models.Coordinate{Lat: l.Lat, Lng: l.Lng}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Client.Timeout") || strings.Contains(msg, "deadline exceeded")
}
