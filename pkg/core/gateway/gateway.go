// Package gateway issues the grant research request and normalizes the
// answer into a ResearchResult.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"grant_finder/pkg/core/errclass"
	"grant_finder/pkg/core/llm"
	"grant_finder/pkg/core/locale"
	"grant_finder/pkg/core/prompt"
	"grant_finder/pkg/core/utils"
	"grant_finder/pkg/models"
)

// Searcher is the narrow interface the application controller depends on.
type Searcher interface {
	Search(ctx context.Context, query string, lang models.Language) (*models.ResearchResult, error)
}

// Options tunes a Gateway. Zero values fall back to sensible defaults.
type Options struct {
	Model          string
	ThinkingBudget int32
	Prompts        *prompt.Registry
	Logger         *zap.Logger
}

// Gateway turns one query into exactly one provider call.
type Gateway struct {
	provider llm.Provider
	opts     Options
}

var _ Searcher = (*Gateway)(nil)

// New creates a Gateway over provider.
func New(provider llm.Provider, opts Options) *Gateway {
	if opts.Prompts == nil {
		opts.Prompts = prompt.Get()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Gateway{provider: provider, opts: opts}
}

// Search runs the research request. Failures come back as *errclass.Error.
func (g *Gateway) Search(ctx context.Context, query string, lang models.Language) (*models.ResearchResult, error) {
	log := g.opts.Logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("lang", string(lang)),
	)

	payload, err := prompt.BuildResearch(g.opts.Prompts, lang, query)
	if err != nil {
		log.Error("failed to build research prompt", zap.Error(err))
		return nil, &errclass.Error{Kind: errclass.KindUpstreamUnknown, Message: locale.For(lang).ErrUnknown, Cause: err}
	}

	start := time.Now()
	resp, err := g.provider.Search(ctx, llm.SearchRequest{
		Model:             g.opts.Model,
		SystemInstruction: payload.System,
		Contents:          payload.User,
		GoogleSearch:      true,
		ThinkingBudget:    g.opts.ThinkingBudget,
	})
	elapsed := time.Since(start)
	if err != nil {
		var ce *errclass.Error
		if errors.Is(err, llm.ErrNoAPIKey) {
			ce = errclass.NoCredential(lang)
			ce.Cause = err
		} else {
			ce = errclass.FromCause(err, lang)
		}
		log.Warn("research engine error",
			zap.Duration("elapsed", elapsed),
			zap.Stringer("kind", ce.Kind),
			zap.Error(err))
		return nil, ce
	}

	result := Normalize(resp, lang)
	outline := utils.HeadingOutline(result.Summary)
	log.Info("research completed",
		zap.Duration("elapsed", elapsed),
		zap.Int("sources", len(result.Sources)),
		zap.Int("sections", outline[3]),
		zap.Int("summary_bytes", len(result.Summary)))
	if outline[1] == 0 {
		log.Warn("report has no title heading; rendering with fallback title")
	}
	return result, nil
}

// Normalize maps a raw provider answer onto a ResearchResult: empty text is
// replaced by the localized failure notice, citations without a URI are
// dropped and untitled ones get a placeholder title. Order is preserved and
// duplicates are kept.
func Normalize(resp *llm.SearchResponse, lang models.Language) *models.ResearchResult {
	t := locale.For(lang)
	result := &models.ResearchResult{
		Grants:  []models.Grant{},
		Sources: []models.GroundingSource{},
	}
	if resp == nil {
		result.Summary = t.ReportFailed
		return result
	}

	result.Summary = utils.CleanMarkdown(resp.Text)
	if result.Summary == "" {
		result.Summary = t.ReportFailed
	}

	for _, c := range resp.Citations {
		if c.URI == "" {
			continue
		}
		title := c.Title
		if title == "" {
			title = t.VerifiedSource
		}
		result.Sources = append(result.Sources, models.GroundingSource{URI: c.URI, Title: title})
	}
	return result
}
