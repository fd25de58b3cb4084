package prompt

import (
	"fmt"
	"strings"

	"grant_finder/pkg/models"
)

// PromptIDs contains all known prompt identifiers
var PromptIDs = struct {
	ResearchGrants string
}{
	ResearchGrants: "research.grants",
}

// Research is the instruction payload for one grant search.
type Research struct {
	System string
	User   string
}

// BuildResearch renders the grant research prompt for lang and query. Only
// the language changes the system instruction; the query goes into the user turn.
func BuildResearch(r *Registry, lang models.Language, query string) (Research, error) {
	pt, err := r.GetPrompt(PromptIDs.ResearchGrants)
	if err != nil {
		return Research{}, err
	}

	ctx := NewContext().
		Set("Language", lang.Name()).
		Set("LanguageUpper", strings.ToUpper(lang.Name())).
		Set("IsArabic", lang.IsRTL()).
		Set("Query", query)

	system, err := RenderSystemPrompt(pt, ctx)
	if err != nil {
		return Research{}, fmt.Errorf("render %s system prompt: %w", pt.ID, err)
	}
	user, err := RenderUserPrompt(pt, ctx)
	if err != nil {
		return Research{}, fmt.Errorf("render %s user prompt: %w", pt.ID, err)
	}
	return Research{System: system, User: user}, nil
}
