package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when neither the request nor the provider names one.
const DefaultGeminiModel = "gemini-3-flash-preview"

// GeminiProvider implements Provider on top of Google's GenAI SDK with the
// Google Search tool for grounding.
type GeminiProvider struct {
	Model string
	Keys  KeySource
}

// Ensure interface compliance
var _ Provider = (*GeminiProvider)(nil)

// Search sends a single generateContent request. A new client is created per
// call so the most recently selected key is always used.
func (p *GeminiProvider) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	apiKey := ""
	if p.Keys != nil {
		apiKey = p.Keys.APIKey()
	}
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	model := req.Model
	if model == "" {
		model = p.Model
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{
				{Text: req.SystemInstruction},
			},
		}
	}
	if req.GoogleSearch {
		config.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}
	if req.ThinkingBudget > 0 {
		config.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(req.ThinkingBudget),
		}
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(req.Contents), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}

	return &SearchResponse{
		Text:      result.Text(),
		Citations: groundingCitations(result),
	}, nil
}

// groundingCitations pulls web grounding chunks off the first candidate.
func groundingCitations(result *genai.GenerateContentResponse) []Citation {
	if result == nil || len(result.Candidates) == 0 {
		return nil
	}
	meta := result.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}

	var citations []Citation
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		citations = append(citations, Citation{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return citations
}
