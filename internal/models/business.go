package models

import "fmt"

const (
	// NotAvailable fills any text field the provider did not return.
	NotAvailable = "N/A"

	// MetersPerMile is the conversion the provider's metre-based APIs are fed with.
	MetersPerMile = 1609.34

	// DefaultRadiusMeters is used when no search radius is configured (about 12.4 miles).
	DefaultRadiusMeters = 20000.0

	mapsPlaceURLFormat = "https://www.google.com/maps/place/?q=place_id:%s"
)

// Coordinate is a resolved latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lng)
}

// Candidate is a raw place returned by a places search, before enrichment.
// Name and Address are empty when the provider omitted them.
type Candidate struct {
	PlaceID  string     `json:"placeId"`
	Name     string     `json:"name"`
	Address  string     `json:"address"`
	Location Coordinate `json:"location"`
}

type RouteStatus string

const (
	RouteOK     RouteStatus = "OK"
	RouteFailed RouteStatus = "FAILED"
)

// RouteResult is one destination's entry from a batch routing call.
type RouteResult struct {
	Status          RouteStatus `json:"status"`
	DurationSeconds float64     `json:"durationSeconds"`
	DistanceMeters  float64     `json:"distanceMeters"`
}

func (r RouteResult) OK() bool {
	return r.Status == RouteOK
}

// DriveTimeMinutes converts the routed duration for export.
func (r RouteResult) DriveTimeMinutes() float64 {
	return r.DurationSeconds / 60
}

// DistanceMiles converts the routed distance for export.
func (r RouteResult) DistanceMiles() float64 {
	return r.DistanceMeters / MetersPerMile
}

// PlaceDetail holds the contact fields of a place. nil means the provider
// had no value; substitution to NotAvailable happens when a record is built.
type PlaceDetail struct {
	Phone   *string `json:"phone,omitempty"`
	Website *string `json:"website,omitempty"`
}

// EnrichedRecord is one exported business row.
type EnrichedRecord struct {
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Phone            string  `json:"phone"`
	Website          string  `json:"website"`
	MapsURL          string  `json:"mapsUrl"`
	DriveTimeMinutes float64 `json:"driveTimeMinutes"`
	DistanceMiles    float64 `json:"distanceMiles"`
	SearchTerm       string  `json:"searchTerm"`
}

// DedupKey identifies the same business across search terms.
func (r EnrichedRecord) DedupKey() string {
	return r.Name + "/" + r.Address + "/" + r.Phone + "/" + r.Website
}

// MapsURL derives the public Google Maps link for a place.
func MapsURL(placeID string) string {
	return fmt.Sprintf(mapsPlaceURLFormat, placeID)
}

// OrNotAvailable substitutes NotAvailable for a missing or blank value.
func OrNotAvailable(v *string) string {
	if v == nil || *v == "" {
		return NotAvailable
	}
	return *v
}

// SearchParams are the per-batch filters. A nil or non-positive value means
// the filter is not configured.
type SearchParams struct {
	Address             string   `json:"address"`
	RadiusMiles         *float64 `json:"radiusMiles,omitempty"`
	MaxDriveTimeMinutes *float64 `json:"maxDriveTimeMinutes,omitempty"`
}

func (p SearchParams) HasRadius() bool {
	return p.RadiusMiles != nil && *p.RadiusMiles > 0
}

func (p SearchParams) HasMaxDriveTime() bool {
	return p.MaxDriveTimeMinutes != nil && *p.MaxDriveTimeMinutes > 0
}

// RadiusMeters is the provider radius for the search: miles converted with
// MetersPerMile, or DefaultRadiusMeters when no radius is configured.
func (p SearchParams) RadiusMeters() float64 {
	if !p.HasRadius() {
		return DefaultRadiusMeters
	}
	return *p.RadiusMiles * MetersPerMile
}

// MaxDriveTimeSeconds is the inclusive drive-time bound.
func (p SearchParams) MaxDriveTimeSeconds() float64 {
	if !p.HasMaxDriveTime() {
		return 0
	}
	return *p.MaxDriveTimeMinutes * 60
}

// Float returns a pointer to v, for optional params.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to v, for optional detail fields.
func String(v string) *string {
	return &v
}
