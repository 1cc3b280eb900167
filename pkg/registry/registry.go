// Package registry provides a client for the external candidate
// registration service. Candidate records are owned by the registry; the
// tally service only mirrors the roster it publishes.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/campuslabs/unionvote/internal/logger"
)

// Candidate is one roster entry as the registry publishes it.
type Candidate struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Post       string `json:"post"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Manifesto  string `json:"manifesto"`
	Photo      string `json:"photo"`
}

// listResponse is the registry's envelope for list endpoints.
type listResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Count   int         `json:"count"`
	Data    []Candidate `json:"data"`
}

// Client defines the interface for registry operations
type Client interface {
	// FetchCandidates retrieves the full candidate roster
	FetchCandidates(ctx context.Context) ([]Candidate, error)
	// BaseURL returns the configured registry base URL
	BaseURL() string
	// SetBaseURL updates the registry base URL
	SetBaseURL(url string)
	// SetAPIKey configures the bearer token sent with requests
	SetAPIKey(key string)
}

// HTTPClient is a real HTTP client for the registry
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new registry HTTP client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// NewHTTPClientWithHTTPClient creates a registry client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{baseURL: baseURL, httpClient: httpClient, log: log}
}

// BaseURL returns the configured registry base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SetBaseURL updates the registry base URL
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = url
}

// SetAPIKey configures the bearer token sent with requests
func (c *HTTPClient) SetAPIKey(key string) {
	c.apiKey = key
}

// FetchCandidates retrieves the full candidate roster from the registry.
func (c *HTTPClient) FetchCandidates(ctx context.Context) ([]Candidate, error) {
	var resp listResponse
	if err := c.doRequest(ctx, "/api/candidates", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// doRequest executes a GET against the registry and decodes the envelope,
// checking the success flag for API-level failures.
func (c *HTTPClient) doRequest(ctx context.Context, path string, response *listResponse) error {
	url := c.baseURL + path
	c.log.Debug("Registry request", "method", "GET", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to registry: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Registry response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if !response.Success {
		return fmt.Errorf("registry error: %s", response.Message)
	}

	return nil
}
