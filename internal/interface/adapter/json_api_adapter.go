package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/pkg/logger"
)

// JSONAPIAdapter fetches offers from sources that expose a JSON search API
// at their endpoint hint. It returns whatever the source reports, or an
// empty slice when the source has no offers; it never fills gaps itself.
type JSONAPIAdapter struct {
	client *http.Client
	logger logger.Logger
}

// NewJSONAPIAdapter creates an adapter using a plain HTTP client
func NewJSONAPIAdapter(logger logger.Logger, timeout time.Duration) *JSONAPIAdapter {
	return &JSONAPIAdapter{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// NewOAuthJSONAPIAdapter creates an adapter whose client obtains bearer
// tokens via the OAuth2 client-credentials flow, as aggregator APIs like
// Amadeus require.
func NewOAuthJSONAPIAdapter(ctx context.Context, logger logger.Logger, clientID, clientSecret, tokenURL string, timeout time.Duration) *JSONAPIAdapter {
	creds := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}

	client := creds.Client(ctx)
	client.Timeout = timeout

	return &JSONAPIAdapter{
		client: client,
		logger: logger,
	}
}

// Fetch queries one source for offers matching the query
func (a *JSONAPIAdapter) Fetch(ctx context.Context, source entity.SourceDescriptor, query entity.SearchQuery) ([]entity.RawOffer, error) {
	if source.EndpointHint == "" {
		return nil, fmt.Errorf("source %s has no endpoint", source.ID)
	}

	params := url.Values{}
	params.Set("origin", query.Origin)
	params.Set("destination", query.Destination)
	params.Set("departureDate", query.DepartureDate)
	if query.ReturnDate != "" {
		params.Set("returnDate", query.ReturnDate)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.EndpointHint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source %s returned status %d", source.ID, resp.StatusCode)
	}

	var offers []entity.RawOffer
	if err := json.NewDecoder(resp.Body).Decode(&offers); err != nil {
		return nil, fmt.Errorf("source %s returned malformed body: %w", source.ID, err)
	}

	for i := range offers {
		if offers[i].SourceID == "" {
			offers[i].SourceID = source.ID
		}
	}

	a.logger.Debug("Fetched offers", "source", source.ID, "count", len(offers))
	return offers, nil
}
