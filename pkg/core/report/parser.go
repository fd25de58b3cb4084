// Package report turns the research service's Markdown-like answer into a
// titled, sectioned report and renders its lines into display fragments.
//
// Header parsing is flat: the report is split at every line that
// starts with "### ", with no notion of nesting. A "### " line inside a
// section's body therefore starts a new section.
package report

import (
	"regexp"
	"strings"

	"grant_finder/pkg/core/locale"
	"grant_finder/pkg/models"
)

const (
	titlePrefix    = "# "
	subtitlePrefix = "## "
	sectionPrefix  = "### "
)

var (
	leadingHashes = regexp.MustCompile(`^#+\s*`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Report is the parsed form of a ResearchResult summary.
type Report struct {
	Title    string
	Subtitle string
	Sections []models.ReportSection
}

// Parse splits raw into title, subtitle and sections. It never fails: text
// without any structure comes back as a single untitled section.
func Parse(raw string, lang models.Language) Report {
	t := locale.For(lang)
	lines := strings.Split(raw, "\n")

	rep := Report{
		Title:    firstWithPrefix(lines, titlePrefix, t.DefaultTitle),
		Subtitle: firstWithPrefix(lines, subtitlePrefix, t.DefaultSubtitle),
		Sections: splitSections(lines),
	}

	if len(rep.Sections) == 0 {
		if body := strings.TrimSpace(stripHeaderLines(lines)); body != "" {
			rep.Sections = []models.ReportSection{{Content: body}}
		}
	}
	return rep
}

// Slug derives a section id: lowercased, whitespace runs collapsed to "-".
func Slug(title string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(title), "-")
}

func firstWithPrefix(lines []string, prefix, fallback string) string {
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return strings.TrimPrefix(l, prefix)
		}
	}
	return fallback
}

// splitSections walks the lines once, opening a chunk at every "### " line.
// The chunk before the first such line is the preamble and is dropped when it
// starts with the report title.
func splitSections(lines []string) []models.ReportSection {
	var chunks [][]string
	current := []string{}
	for _, l := range lines {
		if strings.HasPrefix(l, sectionPrefix) {
			chunks = append(chunks, current)
			current = []string{strings.TrimPrefix(l, sectionPrefix)}
			continue
		}
		current = append(current, l)
	}
	chunks = append(chunks, current)

	// Without any "### " line there is nothing to split; Parse falls back to
	// a single untitled section.
	if len(chunks) == 1 {
		return nil
	}

	var sections []models.ReportSection
	for i, chunk := range chunks {
		// Only the preamble may open with blank lines; every other chunk
		// starts with its header text, even when that text is empty.
		if i == 0 {
			chunk = trimLeadingBlank(chunk)
			if len(chunk) == 0 || strings.HasPrefix(chunk[0], titlePrefix) {
				continue
			}
		}
		title := leadingHashes.ReplaceAllString(strings.TrimSpace(chunk[0]), "")
		sections = append(sections, models.ReportSection{
			ID:      Slug(title),
			Title:   title,
			Content: strings.TrimSpace(strings.Join(chunk[1:], "\n")),
		})
	}
	return sections
}

func trimLeadingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return lines
}

func stripHeaderLines(lines []string) string {
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.HasPrefix(l, titlePrefix) || strings.HasPrefix(l, subtitlePrefix) {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, "\n")
}
