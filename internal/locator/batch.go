package locator

import (
	"context"
	"time"

	"business-locator/internal/common/errors"
	"business-locator/internal/common/logger"
	"business-locator/internal/common/metrics"
	"business-locator/internal/models"
)

// TermSearcher searches a single term. *Orchestrator implements it.
type TermSearcher interface {
	Run(ctx context.Context, term string, params models.SearchParams) (Outcome, error)
}

// TermResult is reported to the progress callback after each term.
type TermResult struct {
	Index   int
	Term    string
	Records []models.EnrichedRecord
	Outcome string
	Err     error
}

const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// ProgressFunc observes per-term results as they complete.
type ProgressFunc func(TermResult)

// BatchReport summarizes a RunAll call.
type BatchReport struct {
	Searched []string `json:"searched"`
	Failed   []string `json:"failed"`
	NotFound []string `json:"notFound"`
}

// BatchRunner searches terms one after another with a fixed pause between
// consecutive terms.
type BatchRunner struct {
	searcher TermSearcher
	delay    time.Duration
	logger   logger.Logger

	// Sleep pauses between terms. Replaced in tests.
	Sleep func(time.Duration)
	// Progress, when set, is called after every term.
	Progress ProgressFunc
}

func NewBatchRunner(searcher TermSearcher, delay time.Duration, log logger.Logger) *BatchRunner {
	return &BatchRunner{
		searcher: searcher,
		delay:    delay,
		logger:   log,
		Sleep:    time.Sleep,
	}
}

// RunAll concatenates the records of every term in term order. A failing
// term is logged and skipped; a cancelled context stops the batch before the
// next term.
func (b *BatchRunner) RunAll(ctx context.Context, terms []string, params models.SearchParams) ([]models.EnrichedRecord, BatchReport) {
	var (
		all    []models.EnrichedRecord
		report = BatchReport{Searched: []string{}, Failed: []string{}, NotFound: []string{}}
	)

	for i, term := range terms {
		if i > 0 && b.delay > 0 {
			b.Sleep(b.delay)
		}
		if err := ctx.Err(); err != nil {
			b.logger.Warn("batch cancelled", map[string]interface{}{
				"remaining": len(terms) - i,
				"error":     err,
			})
			report.Failed = append(report.Failed, terms[i:]...)
			break
		}

		b.logger.Info("searching term", map[string]interface{}{
			"term":  term,
			"index": i + 1,
			"total": len(terms),
		})

		out, err := b.searcher.Run(ctx, term, params)
		result := TermResult{Index: i, Term: term, Records: out.Records, Err: err}

		switch {
		case err != nil:
			b.logger.Error("search term failed, continuing", map[string]interface{}{
				"term":  term,
				"error": err,
			})
			result.Outcome = OutcomeFailed
			report.Failed = append(report.Failed, term)
		case !out.AddressFound:
			result.Outcome = OutcomeNotFound
			result.Err = errors.NewGeocodeNotFoundError(params.Address)
			b.logger.Warn("address not found, term skipped", map[string]interface{}{
				"term":  term,
				"error": result.Err,
			})
			report.NotFound = append(report.NotFound, term)
		default:
			result.Outcome = OutcomeOK
			report.Searched = append(report.Searched, term)
			all = append(all, out.Records...)
		}

		metrics.SearchTerms.WithLabelValues(result.Outcome).Inc()
		if b.Progress != nil {
			b.Progress(result)
		}
	}

	if all == nil {
		all = []models.EnrichedRecord{}
	}
	return all, report
}
