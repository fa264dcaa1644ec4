package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/domain/repository"
	"flightsearch-service/pkg/logger"
	"flightsearch-service/pkg/metrics"
)

// SourceAdapter fetches raw offers from one external source. An empty slice
// is the correct answer when the source has no offers; adapters must never
// invent records.
type SourceAdapter interface {
	Fetch(ctx context.Context, source entity.SourceDescriptor, query entity.SearchQuery) ([]entity.RawOffer, error)
}

// AdapterResolver maps a source descriptor to the adapter that serves it.
type AdapterResolver interface {
	ForSource(source entity.SourceDescriptor) SourceAdapter
}

// OrchestratorConfig bounds the fan-out behavior of a search run.
type OrchestratorConfig struct {
	// Concurrency caps the number of in-flight fetches across all sources.
	Concurrency int
	// PerSourceInterval is the minimum spacing between two dispatches to
	// the same source, across search runs.
	PerSourceInterval time.Duration
	// PerSourceTimeout abandons a single fetch after this long.
	PerSourceTimeout time.Duration
	// HorizonDays bounds how far ahead a query date may lie.
	HorizonDays int
}

// SearchOrchestrator drives the end-to-end pipeline for one query: fan-out
// to every registered source under concurrency and rate limits, then
// validation, then deduplication. Individual source failures are absorbed
// into the outcome report; only QueryInvalid and NoDataAvailable cross the
// boundary as errors.
type SearchOrchestrator struct {
	catalog   repository.SourceCatalog
	adapters  AdapterResolver
	validator *AuthenticityValidator
	dedup     *Deduplicator
	cfg       OrchestratorConfig
	logger    logger.Logger
	metrics   *metrics.Metrics

	gateMu sync.Mutex
	gates  map[string]*sourceGate
}

// sourceGate serializes dispatches to one source. Holding mu for the whole
// fetch keeps at most one outstanding request per source; lastDispatch
// enforces the minimum inter-request spacing.
type sourceGate struct {
	mu           sync.Mutex
	lastDispatch time.Time
}

// NewSearchOrchestrator creates a new search orchestrator
func NewSearchOrchestrator(
	catalog repository.SourceCatalog,
	adapters AdapterResolver,
	validator *AuthenticityValidator,
	dedup *Deduplicator,
	cfg OrchestratorConfig,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *SearchOrchestrator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 20
	}
	if cfg.PerSourceTimeout <= 0 {
		cfg.PerSourceTimeout = 30 * time.Second
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 365
	}

	return &SearchOrchestrator{
		catalog:   catalog,
		adapters:  adapters,
		validator: validator,
		dedup:     dedup,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		gates:     make(map[string]*sourceGate),
	}
}

var airportCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Search runs the full pipeline for one query. The returned report is
// non-nil whenever fetching started, including on NoDataAvailable.
func (o *SearchOrchestrator) Search(ctx context.Context, query entity.SearchQuery) ([]entity.FlightOffer, *entity.OutcomeReport, error) {
	query.Origin = strings.ToUpper(strings.TrimSpace(query.Origin))
	query.Destination = strings.ToUpper(strings.TrimSpace(query.Destination))

	if err := o.validateQuery(query); err != nil {
		return nil, nil, err
	}

	sources := o.catalog.ListSources()
	report := &entity.OutcomeReport{
		SourcesAttempted:  len(sources),
		RejectionsByCheck: make(map[string]int),
	}

	o.logger.Info("Starting flight search",
		"origin", query.Origin,
		"destination", query.Destination,
		"departureDate", query.DepartureDate,
		"sources", len(sources),
	)
	if o.metrics != nil {
		o.metrics.SearchesTotal.Inc()
	}

	var (
		reportMu sync.Mutex
		raws     []entity.RawOffer
	)

	g := new(errgroup.Group)
	g.SetLimit(o.cfg.Concurrency)

	for _, src := range sources {
		src := src
		g.Go(func() error {
			records, err := o.fetchOne(ctx, src, query)

			reportMu.Lock()
			defer reportMu.Unlock()
			if err != nil {
				reason := failureReason(err)
				report.SourcesFailed++
				report.Failures = append(report.Failures, entity.SourceFailure{SourceID: src.ID, Reason: reason})
				o.logger.Warn("Source fetch failed", "source", src.ID, "reason", reason)
				if o.metrics != nil {
					o.metrics.SourceFetches.WithLabelValues("failure").Inc()
				}
				return nil
			}
			report.SourcesSucceeded++
			raws = append(raws, records...)
			o.logger.Debug("Source fetch succeeded", "source", src.ID, "records", len(records))
			if o.metrics != nil {
				o.metrics.SourceFetches.WithLabelValues("success").Inc()
			}
			return nil
		})
	}
	// Tasks never return errors; failures are absorbed into the report.
	_ = g.Wait()

	report.RawRecords = len(raws)

	validated := make([]entity.FlightOffer, 0, len(raws))
	for _, raw := range raws {
		offer, err := o.validator.Validate(raw)
		if err != nil {
			var rej *Rejection
			if errors.As(err, &rej) {
				report.RejectionsByCheck[string(rej.Check)]++
			}
			if o.metrics != nil {
				o.metrics.RecordsRejected.Inc()
			}
			continue
		}
		validated = append(validated, offer)
	}
	report.ValidatedRecords = len(validated)
	if o.metrics != nil {
		o.metrics.RecordsValidated.Add(float64(len(validated)))
	}

	canonical := o.dedup.Dedupe(validated)
	report.DedupedRecords = len(canonical)

	o.logger.Info("Flight search finished",
		"raw", report.RawRecords,
		"validated", report.ValidatedRecords,
		"deduped", report.DedupedRecords,
		"failedSources", report.SourcesFailed,
	)

	if len(canonical) == 0 {
		return nil, report, &entity.NoDataAvailableError{Report: report}
	}
	return canonical, report, nil
}

// fetchOne dispatches a single fetch task against one source, honoring the
// per-source gate and timeout.
func (o *SearchOrchestrator) fetchOne(ctx context.Context, src entity.SourceDescriptor, query entity.SearchQuery) ([]entity.RawOffer, error) {
	adapter := o.adapters.ForSource(src)
	if adapter == nil {
		return nil, errors.New(entity.ReasonNoAdapter)
	}

	gate := o.gate(src.ID)
	gate.mu.Lock()
	defer gate.mu.Unlock()

	if wait := o.cfg.PerSourceInterval - time.Since(gate.lastDispatch); wait > 0 && !gate.lastDispatch.IsZero() {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	gate.lastDispatch = time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, o.cfg.PerSourceTimeout)
	defer cancel()

	start := time.Now()
	records, err := adapter.Fetch(fetchCtx, src, query)
	if o.metrics != nil {
		o.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (o *SearchOrchestrator) gate(sourceID string) *sourceGate {
	o.gateMu.Lock()
	defer o.gateMu.Unlock()
	g, ok := o.gates[sourceID]
	if !ok {
		g = &sourceGate{}
		o.gates[sourceID] = g
	}
	return g
}

func (o *SearchOrchestrator) validateQuery(query entity.SearchQuery) error {
	if !airportCodeRe.MatchString(query.Origin) {
		return &entity.QueryInvalidError{Field: "origin", Detail: "must be a 3-letter airport code"}
	}
	if !airportCodeRe.MatchString(query.Destination) {
		return &entity.QueryInvalidError{Field: "destination", Detail: "must be a 3-letter airport code"}
	}
	if query.Origin == query.Destination {
		return &entity.QueryInvalidError{Field: "destination", Detail: "origin and destination must differ"}
	}

	departure, err := time.Parse(entity.DateLayout, query.DepartureDate)
	if err != nil {
		return &entity.QueryInvalidError{Field: "departureDate", Detail: "must be formatted " + entity.DateLayout}
	}
	today := time.Now().Truncate(24 * time.Hour)
	if departure.Before(today) {
		return &entity.QueryInvalidError{Field: "departureDate", Detail: "must not be in the past"}
	}
	if departure.After(today.AddDate(0, 0, o.cfg.HorizonDays)) {
		return &entity.QueryInvalidError{Field: "departureDate", Detail: "is beyond the result horizon"}
	}

	if query.ReturnDate != "" {
		ret, err := time.Parse(entity.DateLayout, query.ReturnDate)
		if err != nil {
			return &entity.QueryInvalidError{Field: "returnDate", Detail: "must be formatted " + entity.DateLayout}
		}
		if ret.Before(departure) {
			return &entity.QueryInvalidError{Field: "returnDate", Detail: "must not precede departureDate"}
		}
	}
	return nil
}

// failureReason maps a fetch error to its report entry. Deadline errors
// collapse to a single timeout reason.
func failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return entity.ReasonTimeout
	}
	return err.Error()
}
