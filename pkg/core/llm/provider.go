package llm

import (
	"context"
	"errors"
	"fmt"
)

// Provider is the search capability behind the gateway: one grounded
// generation call per invocation, no retries.
type Provider interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// SearchRequest is everything a provider needs for one grounded generation.
type SearchRequest struct {
	Model             string // empty means the provider default
	SystemInstruction string
	Contents          string
	GoogleSearch      bool  // enable web search grounding
	ThinkingBudget    int32 // bounded reasoning effort; 0 leaves the model default
}

// Citation is a grounding chunk as returned by the service. Either field may
// be empty; the gateway decides what to keep.
type Citation struct {
	URI   string
	Title string
}

// SearchResponse is the raw provider answer.
type SearchResponse struct {
	Text      string
	Citations []Citation
}

// KeySource yields the API key to use for the next call. It is consulted on
// every call so a key selected at runtime takes effect immediately.
type KeySource interface {
	APIKey() string
}

// ErrNoAPIKey is returned by providers that need a key when none is set.
var ErrNoAPIKey = errors.New("API Key not found")

// NewProvider builds the provider named in configuration.
func NewProvider(name string, keys KeySource, fixturePath string) (Provider, error) {
	switch name {
	case "", "gemini":
		return &GeminiProvider{Keys: keys}, nil
	case "fixture":
		if fixturePath == "" {
			return nil, fmt.Errorf("fixture provider needs a fixture path")
		}
		return &FixtureProvider{Path: fixturePath}, nil
	default:
		return nil, fmt.Errorf("provider %s not found", name)
	}
}
