package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"grant_finder/pkg/core/utils"
)

// FixtureProvider answers every search from a file on disk. It lets the UI and
// the export path run without network access.
//
// A ".md" file is returned verbatim with no citations. A ".yaml" or ".json"
// file holds the text, the citations, and optionally an error to fail with:
//
//	text: |
//	  # Title
//	  ...
//	citations:
//	  - uri: https://reliefweb.int
//	    title: ReliefWeb
//	error: "Rpc failed"
type FixtureProvider struct {
	Path string
}

var _ Provider = (*FixtureProvider)(nil)

type fixtureFile struct {
	Text      string            `yaml:"text" json:"text"`
	Citations []fixtureCitation `yaml:"citations" json:"citations"`
	Error     string            `yaml:"error" json:"error"`
}

type fixtureCitation struct {
	URI   string `yaml:"uri" json:"uri"`
	Title string `yaml:"title" json:"title"`
}

func (p *FixtureProvider) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", p.Path, err)
	}

	var f fixtureFile
	switch strings.ToLower(filepath.Ext(p.Path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse fixture %s: %w", p.Path, err)
		}
	case ".json", ".hjson":
		if err := utils.DecodeLenient(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse fixture %s: %w", p.Path, err)
		}
	default:
		return &SearchResponse{Text: string(data)}, nil
	}

	if f.Error != "" {
		return nil, errors.New(f.Error)
	}
	resp := &SearchResponse{Text: f.Text}
	for _, c := range f.Citations {
		resp.Citations = append(resp.Citations, Citation{URI: c.URI, Title: c.Title})
	}
	return resp, nil
}
