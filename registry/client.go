package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"buscacnpj/apperrors"
)

const defaultBaseURL = "https://api.cnpja.com/office"

const userAgent = "cnpja-client/1.0"

// Client talks to the CNPJá office-search API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// searchResponse is one page of the office search. The records field may be
// absent on empty pages; next carries the continuation token when more
// pages exist.
type searchResponse struct {
	Records []Office `json:"records"`
	Next    string   `json:"next"`
}

// NewClient creates a registry client. baseURL may be empty to use the
// production endpoint.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
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
		apiKey:  apiKey,
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// SearchOffices retrieves every office registered at the given postal code
// and street number that carries the active status filter, following the
// continuation cursor until exhausted. Follow-up requests carry only the
// token; the API scopes the cursor to the original filters.
func (c *Client) SearchOffices(ctx context.Context, cepDigits, streetNumber string) ([]Office, error) {
	var all []Office
	token := ""

	for {
		params := url.Values{}
		if token != "" {
			params.Set("token", token)
		} else {
			params.Set("address.zip.in", cepDigits)
			params.Set("address.number.in", strings.TrimSpace(streetNumber))
			params.Set("status.id.in", activeStatusID)
		}

		page, err := c.searchPage(ctx, params)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Records...)
		if page.Next == "" {
			return all, nil
		}
		token = page.Next
	}
}

func (c *Client) searchPage(ctx context.Context, params url.Values) (*searchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.FromTransport(err, "CNPJA request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, apperrors.NewUpstreamError(
			fmt.Sprintf("CNPJA API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			http.StatusText(resp.StatusCode), nil)
	}

	var page searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, apperrors.NewUpstreamError("failed to decode CNPJA response", "", err)
	}
	return &page, nil
}
