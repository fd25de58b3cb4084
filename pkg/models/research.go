// Package models holds the data carried between the search gateway, the
// application controller and the report views.
package models

import "strings"

// Language is the locale tag that selects UI strings, text direction and the
// language the research service is told to answer in.
type Language string

const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
)

// DefaultLanguage is the language a fresh session starts in.
const DefaultLanguage = LangArabic

// ParseLanguage maps a user supplied tag onto one of the two supported
// languages. Unknown tags fall back to DefaultLanguage.
func ParseLanguage(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LangEnglish:
		return LangEnglish
	case LangArabic:
		return LangArabic
	default:
		return DefaultLanguage
	}
}

// IsRTL reports whether the language is written right-to-left.
func (l Language) IsRTL() bool {
	return l == LangArabic
}

// Dir returns the value for the HTML dir attribute.
func (l Language) Dir() string {
	if l.IsRTL() {
		return "rtl"
	}
	return "ltr"
}

// Name is the English name of the language, used inside prompts.
func (l Language) Name() string {
	if l == LangArabic {
		return "Arabic"
	}
	return "English"
}

// Grant is reserved for structured grant extraction. The gateway never fills it.
type Grant struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Donor       string   `json:"donor"`
	Deadline    string   `json:"deadline"`
	Description string   `json:"description"`
	Amount      string   `json:"amount,omitempty"`
	Sectors     []string `json:"sectors"`
	Link        string   `json:"link"`
}

// GroundingSource is a citation the search service attached to its answer.
type GroundingSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// ResearchResult is produced once per successful search and never mutated.
type ResearchResult struct {
	Summary string            `json:"summary"` // Markdown-like report text
	Grants  []Grant           `json:"grants"`  // always empty
	Sources []GroundingSource `json:"sources"`
}

// ReportSection is derived from ResearchResult.Summary on demand.
type ReportSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
