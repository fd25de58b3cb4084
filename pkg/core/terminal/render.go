// Package terminal prints a parsed report for the command line.
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"grant_finder/pkg/core/errclass"
	"grant_finder/pkg/core/locale"
	"grant_finder/pkg/core/report"
	"grant_finder/pkg/models"
)

// DefaultWidth is used when the caller does not know the terminal width.
const DefaultWidth = 100

// Renderer writes reports as styled text.
type Renderer struct {
	Width int
	Lang  models.Language
	Plain bool // no styling; for pipes and files
}

// New returns a renderer for lang at width columns.
func New(lang models.Language, width int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{Width: width, Lang: lang}
}

// Render prints the report in result followed by its sources.
func (r *Renderer) Render(w io.Writer, result *models.ResearchResult) error {
	if result == nil {
		return fmt.Errorf("no result to render")
	}
	t := locale.For(r.Lang)
	rep := report.Parse(result.Summary, r.Lang)
	rtl := r.Lang.IsRTL()

	var b strings.Builder
	b.WriteString(r.paint(titleStyle, rep.Title) + "\n")
	b.WriteString(r.paint(subtitleStyle, rep.Subtitle) + "\n")

	for _, s := range rep.Sections {
		if s.Title != "" {
			b.WriteString(r.paint(sectionStyle, s.Title) + "\n")
		}
		for _, block := range report.RenderContent(s.Content, rtl) {
			b.WriteString(r.block(block) + "\n")
		}
	}

	if len(result.Sources) > 0 {
		b.WriteString(r.paint(sectionStyle, t.Sources) + "\n")
		for i, src := range result.Sources {
			fmt.Fprintf(&b, "%2d. %s %s\n", i+1, src.Title, r.paint(linkStyle, src.URI))
		}
	}
	b.WriteString("\n" + r.paint(dimStyle, t.Notice) + "\n")

	_, err := io.WriteString(w, r.align(b.String()))
	return err
}

// RenderError prints a classified failure.
func (r *Renderer) RenderError(w io.Writer, err *errclass.Error) error {
	t := locale.For(r.Lang)
	title := t.StalledTitle
	if err.Kind.RequiresAuthorization() {
		title = t.KeyRequiredTitle
	}
	out := r.paint(errorStyle, title) + "\n" + err.Message + "\n"
	_, werr := io.WriteString(w, r.align(out))
	return werr
}

func (r *Renderer) block(b report.Block) string {
	text := r.inline(b.Fragments)
	switch b.Kind {
	case report.LineBlank:
		return ""
	case report.LineHeading3:
		return r.paint(sectionStyle, text)
	case report.LineHeading4:
		return r.paint(donorStyle, text)
	case report.LineBullet:
		return "  • " + text
	default:
		return text
	}
}

func (r *Renderer) inline(frags []report.Fragment) string {
	if r.Plain {
		return report.PlainText(frags)
	}
	var b strings.Builder
	for _, f := range frags {
		switch f.Kind {
		case report.FragBold:
			b.WriteString(r.paint(boldStyle, f.Text))
		case report.FragLink:
			b.WriteString(r.paint(linkStyle, f.Text))
		default:
			b.WriteString(f.Text)
		}
	}
	return b.String()
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if r.Plain {
		return s
	}
	return style.Render(s)
}

// align wraps to the renderer width; right-to-left output is right aligned.
func (r *Renderer) align(s string) string {
	style := lipgloss.NewStyle().Width(r.Width)
	if r.Lang.IsRTL() {
		style = style.Align(lipgloss.Right)
	}
	return style.Render(strings.TrimRight(s, "\n")) + "\n"
}
