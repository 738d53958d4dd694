package businesssearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"business-locator/internal/common/errors"
	"business-locator/internal/common/logger"
	"business-locator/internal/common/metrics"
	"business-locator/internal/common/observability"
	"business-locator/internal/common/validation"
	"business-locator/internal/export"
	"business-locator/internal/locator"
	"business-locator/internal/models"
	"business-locator/internal/store"
)

const TaskType = "business-search"

// storeTimeout bounds the writes after the batch. They run detached from the
// job deadline so records gathered before a timeout are still stored.
const storeTimeout = 10 * time.Second

var schema = validation.MustCompile(inputSchema)

type ResultSaver interface {
	Save(ctx context.Context, e store.StoredExport) error
}

type HistoryRecorder interface {
	Record(ctx context.Context, run store.SearchRun) error
}

type Handler struct {
	config     *Config
	provider   locator.Provider
	results    ResultSaver
	history    HistoryRecorder
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger

	newID func() string
	sleep func(time.Duration)
}

func NewHandler(
	config *Config,
	provider locator.Provider,
	results ResultSaver,
	history HistoryRecorder,
	obs *observability.Observability,
	log logger.Logger,
) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		provider:   provider,
		results:    results,
		history:    history,
		obs:        obs,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
		newID:      uuid.NewString,
		sleep:      time.Sleep,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := parseInput(job.Variables)
	if err != nil {
		h.fail(client, job, start, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.obs.StartSpan(ctx, TaskType, map[string]string{
		"jobKey":   strconv.FormatInt(job.Key, 10),
		"location": input.Location,
	})
	output, err := h.Execute(ctx, input)
	h.obs.EndSpan(span, err)
	if err != nil {
		h.fail(client, job, start, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(context.Background(), "completed")
	h.obs.RecordJobDuration(context.Background(), time.Since(start), "completed")
}

// parseInput validates the raw job variables against the input schema
// before decoding them.
func parseInput(variables string) (*Input, error) {
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}
	if res := schema.ValidateJSON(variables); !res.Valid {
		return nil, errors.NewInvalidSearchInputError(strings.Join(res.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidSearchInputError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

// Execute runs the batch for input, stores the workbook for download and
// records the run. A history write failure does not fail the search.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	mode, err := models.ParseSearchMode(input.SearchBy)
	if err != nil {
		return nil, errors.NewInvalidSearchInputError(err.Error())
	}

	location := strings.TrimSpace(input.Location)
	params := mode.Params(location, input.Radius, input.MaxDriveTime)
	terms := locator.MergeTerms(h.config.DefaultTerms, input.SearchTerms)
	if len(terms) == 0 {
		return nil, errors.NewInvalidSearchInputError("no search terms given and no default terms configured")
	}

	searchID := h.newID()
	searchName := input.SearchName
	if strings.TrimSpace(searchName) == "" {
		searchName = location
	}
	log := h.logger.WithFields(map[string]interface{}{"searchId": searchID})
	log.Info("starting business search", map[string]interface{}{
		"location": location,
		"mode":     string(mode),
		"terms":    len(terms),
	})

	startedAt := time.Now().UTC()
	runner := locator.NewBatchRunner(locator.NewOrchestrator(h.provider, log), h.config.PacingDelay, log)
	runner.Sleep = h.sleep
	records, report := runner.RunAll(ctx, terms, params)
	merged := locator.Aggregate(records)

	content, err := export.Bytes(merged)
	if err != nil {
		return nil, err
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	fileName := export.FileName(searchName)
	if err := h.results.Save(writeCtx, store.StoredExport{
		SearchID:    searchID,
		FileName:    fileName,
		Content:     content,
		RecordCount: len(merged),
		CreatedAt:   startedAt,
	}); err != nil {
		return nil, err
	}

	metrics.RecordsExported.Add(float64(len(merged)))
	h.obs.RecordTerms(writeCtx, locator.OutcomeOK, len(report.Searched))
	h.obs.RecordTerms(writeCtx, locator.OutcomeFailed, len(report.Failed))
	h.obs.RecordTerms(writeCtx, locator.OutcomeNotFound, len(report.NotFound))

	run := store.SearchRun{
		ID:                  searchID,
		SearchName:          searchName,
		Location:            location,
		SearchMode:          string(mode),
		RadiusMiles:         params.RadiusMiles,
		MaxDriveTimeMinutes: params.MaxDriveTimeMinutes,
		Terms:               terms,
		FailedTerms:         report.Failed,
		NotFoundTerms:       report.NotFound,
		RecordCount:         len(merged),
		FileName:            fileName,
		StartedAt:           startedAt,
		FinishedAt:          time.Now().UTC(),
	}
	if err := h.history.Record(writeCtx, run); err != nil {
		log.Warn("search history not recorded", map[string]interface{}{"error": err})
	}

	log.Info("business search complete", map[string]interface{}{
		"records":  len(merged),
		"failed":   len(report.Failed),
		"notFound": len(report.NotFound),
	})

	return &Output{
		SearchID:      searchID,
		FileName:      fileName,
		DownloadPath:  "/exports/" + searchID,
		RecordCount:   len(merged),
		SearchedTerms: report.Searched,
		FailedTerms:   report.Failed,
		NotFoundTerms: report.NotFound,
		Records:       merged,
	}, nil
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, start time.Time, err error) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(context.Background(), "failed")
	h.obs.RecordJobDuration(context.Background(), time.Since(start), "failed")

	h.errHandler.HandleJobError(context.Background(), client, job, stdErr)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}
