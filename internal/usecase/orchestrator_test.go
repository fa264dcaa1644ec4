package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/pkg/logger"
)

type stubCatalog struct {
	sources []entity.SourceDescriptor
}

func (c *stubCatalog) ListSources() []entity.SourceDescriptor {
	return c.sources
}

type stubResolver struct {
	adapters map[string]SourceAdapter
}

func (r *stubResolver) ForSource(source entity.SourceDescriptor) SourceAdapter {
	return r.adapters[source.ID]
}

// fakeAdapter runs a canned fetch function and records every invocation.
type fakeAdapter struct {
	fetch func(ctx context.Context, source entity.SourceDescriptor, query entity.SearchQuery) ([]entity.RawOffer, error)

	mu          sync.Mutex
	invocations []time.Time
}

func (a *fakeAdapter) Fetch(ctx context.Context, source entity.SourceDescriptor, query entity.SearchQuery) ([]entity.RawOffer, error) {
	a.mu.Lock()
	a.invocations = append(a.invocations, time.Now())
	a.mu.Unlock()
	return a.fetch(ctx, source, query)
}

func (a *fakeAdapter) invocationCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.invocations)
}

func descriptor(id string) entity.SourceDescriptor {
	return entity.SourceDescriptor{
		ID:          id,
		DisplayName: id,
		Category:    entity.CategoryAggregator,
	}
}

func rawOfferFor(sourceID, flightNo string, price float64) entity.RawOffer {
	departure := time.Now().Add(48 * time.Hour).UTC()
	return entity.RawOffer{
		CarrierCode:   flightNo[:2],
		FlightNumber:  flightNo,
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureTime: departure.Format("2006-01-02 15:04:05"),
		ArrivalTime:   departure.Add(5 * time.Hour).Format("2006-01-02 15:04:05"),
		Price:         price,
		Currency:      "USD",
		SourceID:      sourceID,
	}
}

func validQuery() entity.SearchQuery {
	return entity.SearchQuery{
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: time.Now().Add(48 * time.Hour).Format(entity.DateLayout),
	}
}

func newTestOrchestrator(catalog *stubCatalog, resolver *stubResolver, cfg OrchestratorConfig) *SearchOrchestrator {
	rules := DefaultRuleset().
		WithCarriers([]string{"DL", "UA", "BA"}).
		WithAirports([]string{"JFK", "LAX", "LHR"})

	return NewSearchOrchestrator(
		catalog,
		resolver,
		NewAuthenticityValidator(rules),
		NewDeduplicator(),
		cfg,
		logger.NewNopLogger(),
		nil,
	)
}

func returning(offers ...entity.RawOffer) *fakeAdapter {
	return &fakeAdapter{
		fetch: func(context.Context, entity.SourceDescriptor, entity.SearchQuery) ([]entity.RawOffer, error) {
			return offers, nil
		},
	}
}

func blockingUntilCancelled() *fakeAdapter {
	return &fakeAdapter{
		fetch: func(ctx context.Context, _ entity.SourceDescriptor, _ entity.SearchQuery) ([]entity.RawOffer, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
}

func TestSearchMergesSourcesAndIsolatesTimeouts(t *testing.T) {
	catalog := &stubCatalog{sources: []entity.SourceDescriptor{
		descriptor("delta"), descriptor("kayak"), descriptor("skyscanner"),
	}}

	one := rawOfferFor("delta", "DL1234", 420)
	duplicate := one
	duplicate.SourceID = "kayak"
	duplicate.Price = 435 // same flight, different quote

	resolver := &stubResolver{adapters: map[string]SourceAdapter{
		"delta":      returning(one),
		"kayak":      returning(duplicate),
		"skyscanner": blockingUntilCancelled(),
	}}

	o := newTestOrchestrator(catalog, resolver, OrchestratorConfig{
		PerSourceTimeout: 50 * time.Millisecond,
	})

	offers, report, err := o.Search(context.Background(), validQuery())
	require.NoError(t, err)
	require.NotNil(t, report)

	require.Len(t, offers, 1)
	assert.Equal(t, "DL1234", offers[0].FlightNumber)

	assert.Equal(t, 3, report.SourcesAttempted)
	assert.Equal(t, 2, report.SourcesSucceeded)
	assert.Equal(t, 1, report.SourcesFailed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "skyscanner", report.Failures[0].SourceID)
	assert.Equal(t, entity.ReasonTimeout, report.Failures[0].Reason)

	assert.Equal(t, 2, report.RawRecords)
	assert.Equal(t, 2, report.ValidatedRecords)
	assert.Equal(t, 1, report.DedupedRecords)
}

func TestSearchNoDataAvailable(t *testing.T) {
	catalog := &stubCatalog{sources: []entity.SourceDescriptor{
		descriptor("delta"), descriptor("kayak"), descriptor("skyscanner"),
	}}

	// Placeholder prices fail the price check; one source is honest about
	// having nothing.
	resolver := &stubResolver{adapters: map[string]SourceAdapter{
		"delta":      returning(rawOfferFor("delta", "DL1234", 999.99)),
		"kayak":      returning(rawOfferFor("kayak", "UA77", 999.99)),
		"skyscanner": returning(),
	}}

	o := newTestOrchestrator(catalog, resolver, OrchestratorConfig{})

	offers, report, err := o.Search(context.Background(), validQuery())
	assert.Nil(t, offers)
	require.NotNil(t, report)

	var noData *entity.NoDataAvailableError
	require.True(t, errors.As(err, &noData))
	assert.Same(t, report, noData.Report)

	assert.Equal(t, 3, report.SourcesAttempted)
	assert.Equal(t, 3, report.SourcesSucceeded)
	assert.Equal(t, 2, report.RawRecords)
	assert.Equal(t, 0, report.ValidatedRecords)
	assert.Equal(t, 0, report.DedupedRecords)
	assert.Equal(t, 2, report.RejectionsByCheck[string(CheckPrice)])
}

func TestSearchQueryInvalidDispatchesNothing(t *testing.T) {
	adapter := returning(rawOfferFor("delta", "DL1234", 420))
	catalog := &stubCatalog{sources: []entity.SourceDescriptor{descriptor("delta")}}
	resolver := &stubResolver{adapters: map[string]SourceAdapter{"delta": adapter}}

	o := newTestOrchestrator(catalog, resolver, OrchestratorConfig{})

	tests := []struct {
		name  string
		query entity.SearchQuery
	}{
		{
			name:  "origin equals destination",
			query: entity.SearchQuery{Origin: "JFK", Destination: "JFK", DepartureDate: validQuery().DepartureDate},
		},
		{
			name:  "bad origin code",
			query: entity.SearchQuery{Origin: "NEWYORK", Destination: "LAX", DepartureDate: validQuery().DepartureDate},
		},
		{
			name:  "unparseable date",
			query: entity.SearchQuery{Origin: "JFK", Destination: "LAX", DepartureDate: "03/15/2026"},
		},
		{
			name:  "past date",
			query: entity.SearchQuery{Origin: "JFK", Destination: "LAX", DepartureDate: "2020-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers, report, err := o.Search(context.Background(), tt.query)
			assert.Nil(t, offers)
			assert.Nil(t, report)

			var invalid *entity.QueryInvalidError
			require.True(t, errors.As(err, &invalid))
		})
	}

	assert.Equal(t, 0, adapter.invocationCount())
}

func TestSearchHonorsConcurrencyCeiling(t *testing.T) {
	const sources = 6
	const ceiling = 2

	var inflight, peak int32
	adapter := &fakeAdapter{
		fetch: func(ctx context.Context, _ entity.SourceDescriptor, _ entity.SearchQuery) ([]entity.RawOffer, error) {
			cur := atomic.AddInt32(&inflight, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
					break
				}
			}
			time.Sleep(40 * time.Millisecond)
			atomic.AddInt32(&inflight, -1)
			return nil, nil
		},
	}

	catalog := &stubCatalog{}
	resolver := &stubResolver{adapters: make(map[string]SourceAdapter)}
	ids := []string{"delta", "united", "kayak", "skyscanner", "amadeus", "british"}
	for i := 0; i < sources; i++ {
		catalog.sources = append(catalog.sources, descriptor(ids[i]))
		resolver.adapters[ids[i]] = adapter
	}

	o := newTestOrchestrator(catalog, resolver, OrchestratorConfig{Concurrency: ceiling})

	_, report, err := o.Search(context.Background(), validQuery())
	require.NotNil(t, report)

	var noData *entity.NoDataAvailableError
	require.True(t, errors.As(err, &noData))
	assert.Equal(t, sources, report.SourcesSucceeded)

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(ceiling))
	assert.Equal(t, sources, adapter.invocationCount())
}

func TestSearchSpacesDispatchesToSameSource(t *testing.T) {
	const interval = 120 * time.Millisecond

	adapter := returning(rawOfferFor("delta", "DL1234", 420))
	catalog := &stubCatalog{sources: []entity.SourceDescriptor{descriptor("delta")}}
	resolver := &stubResolver{adapters: map[string]SourceAdapter{"delta": adapter}}

	o := newTestOrchestrator(catalog, resolver, OrchestratorConfig{PerSourceInterval: interval})

	_, _, err := o.Search(context.Background(), validQuery())
	require.NoError(t, err)
	_, _, err = o.Search(context.Background(), validQuery())
	require.NoError(t, err)

	require.Equal(t, 2, adapter.invocationCount())
	gap := adapter.invocations[1].Sub(adapter.invocations[0])
	assert.GreaterOrEqual(t, gap, interval-10*time.Millisecond,
		"second dispatch started %v after the first, want at least %v", gap, interval)
}

func TestSearchDeadlineCountsPendingAsTimeouts(t *testing.T) {
	catalog := &stubCatalog{sources: []entity.SourceDescriptor{
		descriptor("delta"), descriptor("kayak"),
	}}
	resolver := &stubResolver{adapters: map[string]SourceAdapter{
		"delta": returning(rawOfferFor("delta", "DL1234", 420)),
		"kayak": blockingUntilCancelled(),
	}}

	o := newTestOrchestrator(catalog, resolver, OrchestratorConfig{
		PerSourceTimeout: time.Minute,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	offers, report, err := o.Search(ctx, validQuery())
	require.NoError(t, err)
	require.Len(t, offers, 1)

	assert.Equal(t, 1, report.SourcesFailed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, entity.ReasonTimeout, report.Failures[0].Reason)
}

func TestSearchFailsSourceWithoutAdapter(t *testing.T) {
	catalog := &stubCatalog{sources: []entity.SourceDescriptor{descriptor("mystery")}}
	resolver := &stubResolver{adapters: map[string]SourceAdapter{}}

	o := newTestOrchestrator(catalog, resolver, OrchestratorConfig{})

	_, report, err := o.Search(context.Background(), validQuery())
	var noData *entity.NoDataAvailableError
	require.True(t, errors.As(err, &noData))

	require.Len(t, report.Failures, 1)
	assert.Equal(t, entity.ReasonNoAdapter, report.Failures[0].Reason)
}
