package registry

import "context"

// MockClient is a mock registry client for testing
type MockClient struct {
	candidates []Candidate
	baseURL    string
	apiKey     string
	fetchErr   error
	fetchCalls int
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithCandidates sets the candidates to return
func WithCandidates(candidates []Candidate) MockOption {
	return func(m *MockClient) {
		m.candidates = candidates
	}
}

// WithFetchError sets an error to return from FetchCandidates
func WithFetchError(err error) MockOption {
	return func(m *MockClient) {
		m.fetchErr = err
	}
}

// WithBaseURL sets the base URL
func WithBaseURL(url string) MockOption {
	return func(m *MockClient) {
		m.baseURL = url
	}
}

// NewMockClient creates a new mock registry client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FetchCandidates returns the configured candidates or error
func (m *MockClient) FetchCandidates(ctx context.Context) ([]Candidate, error) {
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.candidates, nil
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	return m.baseURL
}

// SetBaseURL updates the base URL
func (m *MockClient) SetBaseURL(url string) {
	m.baseURL = url
}

// SetAPIKey records the configured key
func (m *MockClient) SetAPIKey(key string) {
	m.apiKey = key
}

// FetchCalls returns how many times FetchCandidates was invoked
func (m *MockClient) FetchCalls() int {
	return m.fetchCalls
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
