package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"grant_finder/pkg/core/app"
	"grant_finder/pkg/core/credential"
	"grant_finder/pkg/core/errclass"
	"grant_finder/pkg/core/export"
	"grant_finder/pkg/core/locale"
	"grant_finder/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleReport = `# Yemen Funding Report
## Q4 Donor Landscape
### Overview
Intro text with **bold** words.
### Opportunities
#### UNICEF – Education
- **Deadline:** 30 November
- Apply: https://unicef.org/apply.
`

type stubSearcher struct {
	mu      sync.Mutex
	result  *models.ResearchResult
	err     error
	block   chan struct{}
	queries []string
}

func (s *stubSearcher) Search(ctx context.Context, query string, lang models.Language) (*models.ResearchResult, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	return s.result, s.err
}

type stubExporter struct {
	page  string
	title string
	err   error
}

func (s *stubExporter) Export(ctx context.Context, page, title string, lang models.Language) (*export.Document, error) {
	s.page = page
	s.title = title
	if s.err != nil {
		return nil, s.err
	}
	return &export.Document{Filename: export.Filename(title, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)), Data: []byte("%PDF-1.3 fake"), Pages: 1}, nil
}

type fixture struct {
	ctrl     *app.Controller
	searcher *stubSearcher
	exporter *stubExporter
	creds    *credential.Store
	mux      *http.ServeMux
}

func newFixture(t *testing.T, lang models.Language, key string) *fixture {
	t.Helper()
	f := &fixture{
		searcher: &stubSearcher{result: &models.ResearchResult{
			Summary: sampleReport,
			Sources: []models.GroundingSource{{URI: "https://reliefweb.int/x", Title: "ReliefWeb"}},
		}},
		exporter: &stubExporter{},
		creds:    credential.NewStore(key, "env"),
		mux:      http.NewServeMux(),
	}
	f.ctrl = app.New(f.searcher, app.Options{Language: lang, Checker: f.creds, Selector: f.creds})
	h := NewHandler(f.ctrl, f.exporter, f.creds, nil)
	h.Now = func() time.Time { return time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC) }
	h.Register(f.mux)
	t.Cleanup(f.ctrl.Wait)
	return f
}

func (f *fixture) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) page(t *testing.T, target string) *goquery.Document {
	t.Helper()
	rec := f.do(t, http.MethodGet, target, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func (f *fixture) search(t *testing.T, query string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/search", url.Values{"query": {query}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	f.ctrl.Wait()
}

func TestIndex_DefaultsToArabic(t *testing.T) {
	f := newFixture(t, models.DefaultLanguage, "k")
	doc := f.page(t, "/")

	html := doc.Find("html")
	assert.Equal(t, "rtl", html.AttrOr("dir", ""))
	assert.Equal(t, "ar", html.AttrOr("lang", ""))
	assert.Equal(t, 1, doc.Find("form#search-form").Length())
	assert.Equal(t, locale.For(models.LangArabic).AppTitle, strings.TrimSpace(doc.Find("h1").First().Text()))
	assert.Equal(t, 3, doc.Find(".feature").Length())
}

func TestLanguageSwitch(t *testing.T) {
	f := newFixture(t, models.LangArabic, "k")

	rec := f.do(t, http.MethodPost, "/language", url.Values{"lang": {"en"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "ltr", f.page(t, "/").Find("html").AttrOr("dir", ""))

	f.do(t, http.MethodPost, "/language", url.Values{"lang": {"ar"}})
	assert.Equal(t, "rtl", f.page(t, "/").Find("html").AttrOr("dir", ""))
}

func TestSearchFlow_RendersReport(t *testing.T) {
	f := newFixture(t, models.LangEnglish, "k")
	f.search(t, "education grants")

	doc := f.page(t, "/")
	assert.Equal(t, "Yemen Funding Report", strings.TrimSpace(doc.Find("#report-region h1").Text()))
	assert.Equal(t, "Q4 Donor Landscape", strings.TrimSpace(doc.Find("#report-region .report-head h2").Text()))

	var titles []string
	doc.Find("h2.section-title").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, strings.TrimSpace(s.Text()))
	})
	assert.Equal(t, []string{"Overview", "Opportunities"}, titles)

	assert.Equal(t, 2, doc.Find("#section-nav a[data-section]").Length())
	assert.Equal(t, 1, doc.Find("section#overview").Length())
	assert.Equal(t, "bold", doc.Find("section#overview strong").Text())
	assert.Equal(t, "UNICEF – Education", strings.TrimSpace(doc.Find("h4.donor").Text()))
	assert.Equal(t, 1, doc.Find(`a[href="https://unicef.org/apply"]`).Length())
	assert.Equal(t, 2, doc.Find("#opportunities .bullet").Length())
	assert.Equal(t, 1, doc.Find(`.sources a[href="https://reliefweb.int/x"]`).Length())

	script := doc.Find("script").Text()
	assert.Contains(t, script, `"-10% 0% -80% 0%"`)
	assert.Contains(t, script, "140")

	assert.Equal(t, []string{"education grants"}, f.searcher.queries)
}

func TestIndex_QuickSearchAndTags(t *testing.T) {
	f := newFixture(t, models.LangEnglish, "k")
	doc := f.page(t, "/")
	t9n := locale.For(models.LangEnglish)

	quick := doc.Find("form#quick-search")
	assert.Equal(t, "/search", quick.AttrOr("action", ""))
	assert.Equal(t, t9n.DefaultQuery, quick.Find(`input[name="query"]`).AttrOr("value", ""))
	assert.Equal(t, t9n.QuickSearch, strings.TrimSpace(quick.Find("button").Text()))

	var tags []string
	doc.Find(".tags button.chip").Each(func(_ int, s *goquery.Selection) {
		tags = append(tags, s.AttrOr("value", ""))
	})
	assert.Equal(t, []string{"Emergency Relief", "YHF Allocation", "Health Funding", "Local NGO Support"}, tags)

	f.search(t, "Health Funding")
	assert.Equal(t, []string{"Health Funding"}, f.searcher.queries)
}

func TestReport_SectionLabelsAndPrint(t *testing.T) {
	f := newFixture(t, models.LangEnglish, "k")
	f.search(t, "x")

	doc := f.page(t, "/")
	var labels []string
	doc.Find(".report-section .section-label").Each(func(_ int, s *goquery.Selection) {
		labels = append(labels, s.Text())
	})
	assert.Equal(t, []string{"SEC-01", "SEC-02"}, labels)

	printBtn := doc.Find("#section-nav #print-report")
	require.Equal(t, 1, printBtn.Length())
	assert.True(t, printBtn.HasClass("print-hidden"))
	assert.Equal(t, 0, doc.Find("#section-nav a.active").Length())

	doc = f.page(t, "/?section=opportunities")
	assert.Equal(t, "opportunities", doc.Find("#section-nav a.active").AttrOr("data-section", ""))
	assert.Contains(t, doc.Find("script").Text(), `"opportunities"`)

	doc = f.page(t, "/?section=nowhere")
	assert.Equal(t, 0, doc.Find("#section-nav a.active").Length())
}

func TestSearch_EmptyQueryUsesDefault(t *testing.T) {
	f := newFixture(t, models.LangArabic, "k")
	f.search(t, "  ")
	assert.Equal(t, []string{locale.For(models.LangArabic).DefaultQuery}, f.searcher.queries)
}

func TestSearch_MissingKeyShowsAuthorization(t *testing.T) {
	f := newFixture(t, models.LangEnglish, "")
	f.search(t, "x")

	doc := f.page(t, "/")
	assert.Equal(t, 1, doc.Find("#auth-panel").Length())
	assert.Empty(t, f.searcher.queries)

	rec := f.do(t, http.MethodPost, "/credential", url.Values{"key": {"  "}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/credential", url.Values{"key": {"new-key-1234"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "new-key-1234", f.creds.APIKey())
	assert.Equal(t, 1, f.page(t, "/").Find("form#search-form").Length())
}

func TestSearch_PermissionDenied(t *testing.T) {
	f := newFixture(t, models.LangEnglish, "k")
	f.searcher.err = errors.New("Permission Denied 403")
	f.search(t, "x")

	doc := f.page(t, "/")
	panel := doc.Find("#auth-panel")
	require.Equal(t, 1, panel.Length())
	assert.Contains(t, panel.Text(), locale.For(models.LangEnglish).ErrPermission)
	assert.Contains(t, panel.Text(), "(env)")
}

func TestSearch_UpstreamErrorAndDismiss(t *testing.T) {
	f := newFixture(t, models.LangEnglish, "k")
	f.searcher.err = errors.New("500 Internal")
	f.search(t, "x")

	doc := f.page(t, "/")
	assert.Contains(t, doc.Find("#error-panel").Text(), locale.For(models.LangEnglish).ErrTimeout)

	rec := f.do(t, http.MethodPost, "/dismiss", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, f.page(t, "/").Find("form#search-form").Length())
}

func TestSearch_BusyWhileLoading(t *testing.T) {
	f := newFixture(t, models.LangEnglish, "k")
	f.searcher.block = make(chan struct{})

	rec := f.do(t, http.MethodPost, "/search", url.Values{"query": {"first"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	doc := f.page(t, "/")
	assert.Equal(t, "2", doc.Find(`meta[http-equiv="refresh"]`).AttrOr("content", ""))
	assert.Equal(t, 1, doc.Find(".loading button[disabled]").Length())

	rec = f.do(t, http.MethodPost, "/search", url.Values{"query": {"second"}})
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(f.searcher.block)
	f.ctrl.Wait()
	assert.Equal(t, []string{"first"}, f.searcher.queries)
}

func TestExport(t *testing.T) {
	f := newFixture(t, models.LangEnglish, "k")
	f.search(t, "x")

	rec := f.do(t, http.MethodGet, "/export.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Yemen_Funding_Report_2026-01-02.pdf")
	assert.Equal(t, "Yemen Funding Report", f.exporter.title)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(f.exporter.page))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#report-region").Length())
	assert.Equal(t, 0, doc.Find("#section-nav").Length())
	assert.Equal(t, 0, doc.Find("#print-report").Length())
	assert.Equal(t, 0, doc.Find("script").Length())
}

func TestExport_FailureKeepsReport(t *testing.T) {
	f := newFixture(t, models.LangArabic, "k")
	f.exporter.err = errclass.ExportFailed(errors.New("no chrome"), models.LangArabic)
	f.search(t, "x")

	rec := f.do(t, http.MethodGet, "/export.pdf", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?alert=export", rec.Header().Get("Location"))

	doc := f.page(t, "/?alert=export")
	assert.Equal(t, locale.For(models.LangArabic).ErrPDF, strings.TrimSpace(doc.Find(".alert").Text()))
	assert.Equal(t, 1, doc.Find("#report-region").Length())
}

func TestExport_NoReport(t *testing.T) {
	f := newFixture(t, models.LangEnglish, "k")
	rec := f.do(t, http.MethodGet, "/export.pdf", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_StateAndReport(t *testing.T) {
	f := newFixture(t, models.LangEnglish, "k")

	rec := f.do(t, http.MethodGet, "/api/report", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f.search(t, "x")

	rec = f.do(t, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state StateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.Equal(t, "showing_result", state.State)
	assert.Equal(t, "ltr", state.Dir)
	assert.Equal(t, "x", state.Query)

	rec = f.do(t, http.MethodGet, "/api/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rep ReportResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rep))
	assert.Equal(t, "Yemen Funding Report", rep.Title)
	require.Len(t, rep.Sections, 2)
	assert.Equal(t, "opportunities", rep.Sections[1].ID)
	assert.Len(t, rep.Sources, 1)

	rec = f.do(t, http.MethodPost, "/close", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	rec = f.do(t, http.MethodPost, "/close", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_JSONClients(t *testing.T) {
	f := newFixture(t, models.LangEnglish, "k")
	req := httptest.NewRequest(http.MethodPost, "/language", strings.NewReader("lang=ar"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var state StateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.Equal(t, models.LangArabic, state.Language)
	assert.Equal(t, "rtl", state.Dir)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, models.LangEnglish, "k")
	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
