package locator

import (
	"context"
	"errors"

	"business-locator/internal/common/logger"
	"business-locator/internal/models"
)

// Outcome is the result of searching one term. AddressFound is false when the
// search address could not be resolved, in which case Records is empty.
type Outcome struct {
	Records      []models.EnrichedRecord
	AddressFound bool
}

// Orchestrator runs the full pipeline for a single search term:
// resolve, find, route (filtered or per candidate), fetch details.
type Orchestrator struct {
	resolver *Resolver
	finder   *Finder
	router   *RouteEnricher
	details  *DetailFetcher
	logger   logger.Logger
}

func NewOrchestrator(provider Provider, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		resolver: NewResolver(provider, log),
		finder:   NewFinder(provider, log),
		router:   NewRouteEnricher(provider),
		details:  NewDetailFetcher(provider),
		logger:   log,
	}
}

type routedCandidate struct {
	candidate models.Candidate
	route     models.RouteResult
}

// Search returns the enriched records for term. An unresolvable address
// yields no records and no error.
func (o *Orchestrator) Search(ctx context.Context, term string, params models.SearchParams) ([]models.EnrichedRecord, error) {
	out, err := o.Run(ctx, term, params)
	if err != nil {
		return nil, err
	}
	return out.Records, nil
}

// Run is Search with the address resolution outcome exposed.
func (o *Orchestrator) Run(ctx context.Context, term string, params models.SearchParams) (Outcome, error) {
	origin, err := o.resolver.Resolve(ctx, params.Address)
	if errors.Is(err, ErrNotFound) {
		return Outcome{}, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	candidates, err := o.finder.Find(ctx, origin, term, params.RadiusMiles)
	if err != nil {
		return Outcome{AddressFound: true}, err
	}

	var retained []routedCandidate
	if params.HasMaxDriveTime() {
		retained, err = o.filterByDriveTime(ctx, origin, candidates, params.MaxDriveTimeSeconds())
	} else {
		retained, err = o.routeEach(ctx, term, origin, candidates)
	}
	if err != nil {
		return Outcome{AddressFound: true}, err
	}

	records := make([]models.EnrichedRecord, 0, len(retained))
	for _, rc := range retained {
		detail, err := o.details.FetchDetail(ctx, rc.candidate.PlaceID)
		if err != nil {
			return Outcome{AddressFound: true}, err
		}
		records = append(records, buildRecord(term, rc.candidate, rc.route, detail))
	}

	o.logger.Info("search term complete", map[string]interface{}{
		"term":       term,
		"candidates": len(candidates),
		"records":    len(records),
	})
	return Outcome{Records: records, AddressFound: true}, nil
}

// filterByDriveTime routes all candidates in one batch and keeps those with
// an OK route no longer than maxSeconds.
func (o *Orchestrator) filterByDriveTime(ctx context.Context, origin models.Coordinate, candidates []models.Candidate, maxSeconds float64) ([]routedCandidate, error) {
	destinations := make([]models.Coordinate, len(candidates))
	for i, c := range candidates {
		destinations[i] = c.Location
	}

	routes, err := o.router.RouteBatch(ctx, origin, destinations)
	if err != nil {
		return nil, err
	}

	retained := make([]routedCandidate, 0, len(candidates))
	for i, c := range candidates {
		r := routes[i]
		if r.OK() && r.DurationSeconds <= maxSeconds {
			retained = append(retained, routedCandidate{candidate: c, route: r})
		}
	}
	return retained, nil
}

// routeEach routes every candidate on its own. Candidates without an OK route
// are dropped.
func (o *Orchestrator) routeEach(ctx context.Context, term string, origin models.Coordinate, candidates []models.Candidate) ([]routedCandidate, error) {
	retained := make([]routedCandidate, 0, len(candidates))
	for _, c := range candidates {
		routes, err := o.router.RouteBatch(ctx, origin, []models.Coordinate{c.Location})
		if err != nil {
			return nil, err
		}
		if !routes[0].OK() {
			o.logger.Warn("no route to candidate, skipping", map[string]interface{}{
				"term":    term,
				"placeId": c.PlaceID,
				"name":    c.Name,
			})
			continue
		}
		retained = append(retained, routedCandidate{candidate: c, route: routes[0]})
	}
	return retained, nil
}

func buildRecord(term string, c models.Candidate, r models.RouteResult, d models.PlaceDetail) models.EnrichedRecord {
	return models.EnrichedRecord{
		Name:             models.OrNotAvailable(&c.Name),
		Address:          models.OrNotAvailable(&c.Address),
		Phone:            models.OrNotAvailable(d.Phone),
		Website:          models.OrNotAvailable(d.Website),
		MapsURL:          models.MapsURL(c.PlaceID),
		DriveTimeMinutes: r.DriveTimeMinutes(),
		DistanceMiles:    r.DistanceMiles(),
		SearchTerm:       term,
	}
}
