// Package places consumes the Google Places Text Search and Details APIs:
// paginated candidate retrieval plus the single-field phone lookup.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"buscacnpj/apperrors"
)

const (
	defaultSearchURL  = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	defaultDetailsURL = "https://maps.googleapis.com/maps/api/place/details/json"

	// languageHint biases result names and addresses to Brazilian
	// Portuguese.
	languageHint = "pt-BR"

	// maxPages caps the pagination loop of a text search.
	maxPages = 3

	// pageTokenDelay is how long a next_page_token takes to become valid
	// upstream. Requesting earlier returns INVALID_REQUEST, so this wait
	// is a correctness requirement.
	pageTokenDelay = 2 * time.Second
)

// Place is one business candidate from the text search.
type Place struct {
	ID      string
	Name    string
	Address string
}

// Client talks to the Google Places APIs.
type Client struct {
	apiKey     string
	searchURL  string
	detailsURL string
	pageDelay  time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

type searchResponse struct {
	Status        string `json:"status"`
	ErrorMessage  string `json:"error_message"`
	NextPageToken string `json:"next_page_token"`
	Results       []struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		FormattedPhoneNumber string `json:"formatted_phone_number"`
	} `json:"result"`
}

// NewClient creates a Places client with the default endpoints.
func NewClient(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 5,
	}

	return &Client{
		apiKey:     apiKey,
		searchURL:  defaultSearchURL,
		detailsURL: defaultDetailsURL,
		pageDelay:  pageTokenDelay,
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// FetchPlaces runs a text search for query and follows the pagination token
// for up to three pages. A ZERO_RESULTS answer yields an empty slice; any
// other non-OK status is an upstream error carrying the status token.
func (c *Client) FetchPlaces(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)
	params.Set("language", languageHint)

	var results []Place
	for page := 1; ; page++ {
		payload, err := c.search(ctx, params)
		if err != nil {
			return nil, err
		}

		status := payload.Status
		if status == "" {
			status = "OK"
		}
		if status != "OK" && status != "ZERO_RESULTS" {
			msg := "Google Places: " + status
			if payload.ErrorMessage != "" {
				msg += " - " + payload.ErrorMessage
			}
			return nil, apperrors.NewUpstreamError(msg, status, nil)
		}

		for _, item := range payload.Results {
			if item.PlaceID == "" {
				continue
			}
			results = append(results, Place{
				ID:      item.PlaceID,
				Name:    item.Name,
				Address: item.FormattedAddress,
			})
		}

		if payload.NextPageToken == "" || page >= maxPages {
			return results, nil
		}

		// The token only becomes valid a moment after the response that
		// issued it.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pageDelay):
		}

		params = url.Values{}
		params.Set("pagetoken", payload.NextPageToken)
		params.Set("key", c.apiKey)
		params.Set("language", languageHint)
	}
}

// FetchPhone retrieves the formatted phone number of one place. An absent
// field yields an empty string.
func (c *Client) FetchPhone(ctx context.Context, placeID string) (string, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "formatted_phone_number")
	params.Set("key", c.apiKey)
	params.Set("language", languageHint)

	body, err := c.get(ctx, c.detailsURL, params)
	if err != nil {
		return "", err
	}

	var payload detailsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", apperrors.NewUpstreamError("failed to decode details response", "", err)
	}
	return payload.Result.FormattedPhoneNumber, nil
}

func (c *Client) search(ctx context.Context, params url.Values) (*searchResponse, error) {
	body, err := c.get(ctx, c.searchURL, params)
	if err != nil {
		return nil, err
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.NewUpstreamError("failed to decode search response", "", err)
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, baseURL string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	fullURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.FromTransport(err, "Google Places request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamError(
			fmt.Sprintf("Google Places returned HTTP %d", resp.StatusCode),
			http.StatusText(resp.StatusCode), nil)
	}

	return io.ReadAll(resp.Body)
}
