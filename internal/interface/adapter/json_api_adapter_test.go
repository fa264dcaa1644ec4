package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/pkg/logger"
)

func testQuery() entity.SearchQuery {
	return entity.SearchQuery{
		Origin:        "JFK",
		Destination:   "LHR",
		DepartureDate: "2026-04-10",
	}
}

func TestFetchDecodesOffers(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"carrierCode": "BA", "flightNumber": "BA178", "origin": "JFK", "destination": "LHR",
			 "departureTime": "2026-04-10 18:30:00", "price": 612.40, "currency": "USD"},
			{"carrierCode": "DL", "flightNumber": "DL1", "origin": "JFK", "destination": "LHR",
			 "departureTime": "2026-04-10 21:05:00", "price": 540.00, "currency": "USD", "sourceId": "partner-feed"}
		]`))
	}))
	defer server.Close()

	a := NewJSONAPIAdapter(logger.NewNopLogger(), 5*time.Second)
	source := entity.SourceDescriptor{ID: "british-airways", Category: entity.CategoryDirectCarrier, EndpointHint: server.URL}

	offers, err := a.Fetch(context.Background(), source, testQuery())
	require.NoError(t, err)
	require.Len(t, offers, 2)

	assert.Contains(t, gotQuery, "origin=JFK")
	assert.Contains(t, gotQuery, "destination=LHR")
	assert.Contains(t, gotQuery, "departureDate=2026-04-10")

	assert.Equal(t, "BA178", offers[0].FlightNumber)
	// Missing sourceId is filled with the source's own id; a reported one
	// is kept.
	assert.Equal(t, "british-airways", offers[0].SourceID)
	assert.Equal(t, "partner-feed", offers[1].SourceID)
}

func TestFetchEmptyResultIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	a := NewJSONAPIAdapter(logger.NewNopLogger(), 5*time.Second)
	source := entity.SourceDescriptor{ID: "delta", EndpointHint: server.URL}

	offers, err := a.Fetch(context.Background(), source, testQuery())
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestFetchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	a := NewJSONAPIAdapter(logger.NewNopLogger(), 5*time.Second)
	source := entity.SourceDescriptor{ID: "delta", EndpointHint: server.URL}

	_, err := a.Fetch(context.Background(), source, testQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	a := NewJSONAPIAdapter(logger.NewNopLogger(), 5*time.Second)
	source := entity.SourceDescriptor{ID: "delta", EndpointHint: server.URL}

	_, err := a.Fetch(context.Background(), source, testQuery())
	assert.Error(t, err)
}

func TestFetchMissingEndpoint(t *testing.T) {
	a := NewJSONAPIAdapter(logger.NewNopLogger(), 5*time.Second)
	source := entity.SourceDescriptor{ID: "delta"}

	_, err := a.Fetch(context.Background(), source, testQuery())
	assert.Error(t, err)
}
