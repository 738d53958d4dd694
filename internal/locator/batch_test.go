package locator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "business-locator/internal/common/errors"
	"business-locator/internal/common/logger"
	"business-locator/internal/models"
)

type scriptedSearcher struct {
	outcomes map[string]Outcome
	errs     map[string]error
	calls    []string
	onRun    func(term string)
}

func (s *scriptedSearcher) Run(_ context.Context, term string, _ models.SearchParams) (Outcome, error) {
	s.calls = append(s.calls, term)
	if s.onRun != nil {
		s.onRun(term)
	}
	if err := s.errs[term]; err != nil {
		return Outcome{AddressFound: true}, err
	}
	return s.outcomes[term], nil
}

func rec(name, term string) models.EnrichedRecord {
	return models.EnrichedRecord{Name: name, Address: "addr", Phone: "N/A", Website: "N/A", SearchTerm: term}
}

func TestBatchRunner_PacesBetweenTermsOnly(t *testing.T) {
	s := &scriptedSearcher{outcomes: map[string]Outcome{
		"a": {AddressFound: true}, "b": {AddressFound: true}, "c": {AddressFound: true},
	}}
	var sleeps []time.Duration
	var events []string
	s.onRun = func(term string) { events = append(events, "run:"+term) }

	b := NewBatchRunner(s, 2*time.Second, logger.NewTestLogger(t))
	b.Sleep = func(d time.Duration) {
		sleeps = append(sleeps, d)
		events = append(events, "sleep")
	}

	_, report := b.RunAll(context.Background(), []string{"a", "b", "c"}, models.SearchParams{})

	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, sleeps)
	assert.Equal(t, []string{"run:a", "sleep", "run:b", "sleep", "run:c"}, events)
	assert.Equal(t, []string{"a", "b", "c"}, report.Searched)
}

func TestBatchRunner_ZeroDelayNeverSleeps(t *testing.T) {
	s := &scriptedSearcher{outcomes: map[string]Outcome{}}
	b := NewBatchRunner(s, 0, logger.NewTestLogger(t))
	b.Sleep = func(time.Duration) { t.Fatal("unexpected sleep") }

	b.RunAll(context.Background(), []string{"a", "b"}, models.SearchParams{})
	assert.Equal(t, []string{"a", "b"}, s.calls)
}

func TestBatchRunner_FailedTermIsSkipped(t *testing.T) {
	s := &scriptedSearcher{
		outcomes: map[string]Outcome{
			"bakery": {AddressFound: true, Records: []models.EnrichedRecord{rec("Crumbs", "bakery")}},
			"cafe":   {AddressFound: true, Records: []models.EnrichedRecord{rec("Beans", "cafe")}},
		},
		errs: map[string]error{"florist": errors.New("provider down")},
	}
	b := NewBatchRunner(s, time.Millisecond, logger.NewTestLogger(t))
	b.Sleep = func(time.Duration) {}

	var progress []TermResult
	b.Progress = func(r TermResult) { progress = append(progress, r) }

	records, report := b.RunAll(context.Background(), []string{"bakery", "florist", "cafe"}, models.SearchParams{})

	require.Len(t, records, 2)
	assert.Equal(t, "Crumbs", records[0].Name)
	assert.Equal(t, "Beans", records[1].Name)
	assert.Equal(t, []string{"bakery", "cafe"}, report.Searched)
	assert.Equal(t, []string{"florist"}, report.Failed)
	assert.Empty(t, report.NotFound)

	require.Len(t, progress, 3)
	assert.Equal(t, OutcomeFailed, progress[1].Outcome)
	assert.Error(t, progress[1].Err)
	assert.Equal(t, 2, progress[2].Index)
}

func TestBatchRunner_NotFoundReported(t *testing.T) {
	s := &scriptedSearcher{outcomes: map[string]Outcome{}}
	b := NewBatchRunner(s, 0, logger.NewTestLogger(t))
	var seen []TermResult
	b.Progress = func(r TermResult) { seen = append(seen, r) }

	records, report := b.RunAll(context.Background(), []string{"bakery"}, models.SearchParams{Address: "Atlantis"})
	assert.Empty(t, records)
	assert.NotNil(t, records)
	assert.Equal(t, []string{"bakery"}, report.NotFound)

	require.Len(t, seen, 1)
	assert.Equal(t, OutcomeNotFound, seen[0].Outcome)
	assert.Equal(t, apperrors.ErrCodeGeocodeNotFound, apperrors.Normalize(seen[0].Err).Code)
}

func TestBatchRunner_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &scriptedSearcher{outcomes: map[string]Outcome{"a": {AddressFound: true}}}
	s.onRun = func(string) { cancel() }

	b := NewBatchRunner(s, 0, logger.NewTestLogger(t))
	_, report := b.RunAll(ctx, []string{"a", "b", "c"}, models.SearchParams{})

	assert.Equal(t, []string{"a"}, s.calls)
	assert.Equal(t, []string{"a"}, report.Searched)
	assert.Equal(t, []string{"b", "c"}, report.Failed)
}

func TestBatchRunner_WithOrchestrator_MergesAcrossTerms(t *testing.T) {
	shared := models.Candidate{PlaceID: "p1", Name: "Crumbs & Coffee", Address: "1 Main St", Location: at(1)}
	p := &fakeProvider{
		coords: []models.Coordinate{at(0)},
		places: map[string][]models.Candidate{
			"bakery": {shared, {PlaceID: "p2", Name: "Loaf", Address: "2 Main St", Location: at(2)}},
			"cafe":   {shared},
		},
		routes: map[models.Coordinate]models.RouteResult{
			at(1): okRoute(300, 3218.68),
			at(2): okRoute(600, 6437.36),
		},
		details: map[string]models.PlaceDetail{"p1": {Phone: models.String("555-0101")}},
	}
	log := logger.NewTestLogger(t)
	b := NewBatchRunner(NewOrchestrator(p, log), 0, log)

	records, _ := b.RunAll(context.Background(), []string{"bakery", "cafe"}, models.SearchParams{Address: "Austin, TX"})
	require.Len(t, records, 3)

	merged := Aggregate(records)
	require.Len(t, merged, 2)
	assert.Equal(t, "Crumbs & Coffee", merged[0].Name)
	assert.Equal(t, "bakery, cafe", merged[0].SearchTerm)
	assert.Equal(t, "Loaf", merged[1].Name)
	assert.Equal(t, "bakery", merged[1].SearchTerm)
}
