package search

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"grant_finder/pkg/core/locale"
	"grant_finder/pkg/core/report"
	"grant_finder/pkg/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

// BillingDocsURL is linked from the authorization panel.
const BillingDocsURL = "https://ai.google.dev/gemini-api/docs/billing"

type pageData struct {
	Lang    models.Language
	Dir     string
	T       *locale.Strings
	State   string
	Query   string
	Message string
	Alert   string
	KeyHint string
	Report  *reportView

	BillingURL     string
	RootMargin     string
	HeaderOffset   float64
	InitialSection string
}

type reportView struct {
	Title    string
	Subtitle string
	Nav      []report.NavEntry
	Sections []sectionView
	Sources  []models.GroundingSource
	Compiled string
	Version  string
	Export   bool // rendering for capture; interactive chrome is omitted

	active string
}

type sectionView struct {
	ID     string
	Title  string
	Label  string
	Blocks []blockView
}

type blockView struct {
	Kind      string
	Fragments []report.Fragment
	Mirrored  bool
}

func newPageData(lang models.Language, state string) pageData {
	return pageData{
		Lang:         lang,
		Dir:          lang.Dir(),
		T:            locale.For(lang),
		State:        state,
		BillingURL:   BillingDocsURL,
		RootMargin:   report.DefaultBand.RootMargin(),
		HeaderOffset: report.HeaderOffset,
	}
}

// ReportPage is everything needed to render a finished report on its own.
type ReportPage struct {
	Language models.Language
	Query    string
	Result   *models.ResearchResult
	Compiled time.Time
	Revision uint64
	Export   bool
	Section  string // section to open at; ignored when unknown
}

// Title is the parsed report title, used for export file names.
func (p ReportPage) Title() string {
	return report.Parse(p.summary(), p.Language).Title
}

func (p ReportPage) summary() string {
	if p.Result == nil {
		return ""
	}
	return p.Result.Summary
}

func buildReportView(p ReportPage) *reportView {
	rtl := p.Language.IsRTL()
	rep := report.Parse(p.summary(), p.Language)
	nav := report.NewNavigator(rep.Sections)
	nav.Select(p.Section)

	view := &reportView{
		Title:    rep.Title,
		Subtitle: rep.Subtitle,
		Nav:      nav.Entries(),
		Compiled: p.Compiled.UTC().Format("2006-01-02"),
		Version:  fmt.Sprintf("1.%d", p.Revision),
		Export:   p.Export,
	}
	if p.Result != nil {
		view.Sources = p.Result.Sources
	}
	view.active = nav.Active()
	for i, s := range rep.Sections {
		sv := sectionView{ID: s.ID, Title: s.Title, Label: report.Label(i)}
		for _, b := range report.RenderContent(s.Content, rtl) {
			sv.Blocks = append(sv.Blocks, blockView{Kind: b.Kind.String(), Fragments: b.Fragments, Mirrored: b.Mirrored})
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}

// RenderReport writes a standalone report page. The PDF exporter captures
// its #report-region element.
func RenderReport(w io.Writer, p ReportPage) error {
	data := newPageData(p.Language, "showing_result")
	data.Query = p.Query
	data.Report = buildReportView(p)
	data.InitialSection = data.Report.active
	return pages.ExecuteTemplate(w, "page", data)
}

func render(w io.Writer, data pageData) error {
	return pages.ExecuteTemplate(w, "page", data)
}
