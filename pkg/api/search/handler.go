// Package search serves the grant finder's web page and its JSON mirror.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"grant_finder/pkg/core/app"
	"grant_finder/pkg/core/errclass"
	"grant_finder/pkg/core/export"
	"grant_finder/pkg/core/report"
	"grant_finder/pkg/models"
)

// Exporter turns a rendered report page into a downloadable document.
type Exporter interface {
	Export(ctx context.Context, page, title string, lang models.Language) (*export.Document, error)
}

// KeyInfo describes the active credential for the authorization panel.
type KeyInfo interface {
	Masked() string
	Source() string
}

// Handler holds dependencies for the search endpoints
type Handler struct {
	Ctrl     *app.Controller
	Exporter Exporter
	Keys     KeyInfo
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewHandler creates a new search handler
func NewHandler(ctrl *app.Controller, exporter Exporter, keys KeyInfo, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Ctrl:     ctrl,
		Exporter: exporter,
		Keys:     keys,
		Logger:   logger,
		Now:      time.Now,
	}
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("POST /search", h.HandleSearch)
	mux.HandleFunc("POST /language", h.HandleLanguage)
	mux.HandleFunc("POST /credential", h.HandleCredential)
	mux.HandleFunc("POST /dismiss", h.HandleDismiss)
	mux.HandleFunc("POST /close", h.HandleClose)
	mux.HandleFunc("GET /export.pdf", h.HandleExport)
	mux.HandleFunc("GET /api/state", h.HandleState)
	mux.HandleFunc("GET /api/report", h.HandleReport)
	mux.HandleFunc("GET /healthz", h.HandleHealth)
}

const (
	exportAlertParam = "alert"
	sectionParam     = "section"
)

// HandleIndex renders the page for the current state.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	snap := h.Ctrl.Snapshot()
	data := newPageData(snap.Language, snap.State.Name())

	switch st := snap.State.(type) {
	case app.Loading:
		data.Query = st.Query
	case app.AwaitingAuthorization:
		data.Message = st.Message
		if h.Keys != nil && h.Keys.Source() != "" {
			data.KeyHint = fmt.Sprintf("%s (%s)", h.Keys.Masked(), h.Keys.Source())
		}
	case app.Failed:
		data.Message = st.Message
	case app.ShowingResult:
		data.Query = st.Query
		page := h.reportPage(snap, st, false)
		page.Section = r.URL.Query().Get(sectionParam)
		data.Report = buildReportView(page)
		data.InitialSection = data.Report.active
		if r.URL.Query().Get(exportAlertParam) == "export" {
			data.Alert = data.T.ErrPDF
		}
	}

	var buf bytes.Buffer
	if err := render(&buf, data); err != nil {
		h.Logger.Error("render page", zap.String("state", data.State), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) reportPage(snap app.Snapshot, st app.ShowingResult, forExport bool) ReportPage {
	return ReportPage{
		Language: snap.Language,
		Query:    st.Query,
		Result:   st.Result,
		Compiled: h.now(),
		Revision: snap.Version,
		Export:   forExport,
	}
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// HandleSearch starts a search with the submitted query.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	query := r.FormValue("query")
	if err := h.Ctrl.Submit(query); err != nil {
		h.respondTransitionError(w, err)
		return
	}
	h.done(w, r)
}

// HandleLanguage switches the session language.
func (h *Handler) HandleLanguage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Ctrl.SetLanguage(models.ParseLanguage(r.FormValue("lang"))); err != nil {
		h.respondTransitionError(w, err)
		return
	}
	h.done(w, r)
}

// HandleCredential stores a user supplied API key and returns to the form.
func (h *Handler) HandleCredential(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Ctrl.SelectCredential(r.Context(), r.FormValue("key")); err != nil {
		if errors.Is(err, app.ErrInvalidTransition) {
			h.respondTransitionError(w, err)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Logger.Info("api key selected")
	h.done(w, r)
}

// HandleDismiss closes the error or authorization panel.
func (h *Handler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	if err := h.Ctrl.Dismiss(); err != nil {
		h.respondTransitionError(w, err)
		return
	}
	h.done(w, r)
}

// HandleClose discards the current report.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	if err := h.Ctrl.Close(); err != nil {
		h.respondTransitionError(w, err)
		return
	}
	h.done(w, r)
}

// HandleExport renders the current report to PDF. On failure the user is
// sent back to the report with an alert; the report itself is untouched.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	snap := h.Ctrl.Snapshot()
	st, ok := snap.State.(app.ShowingResult)
	if !ok {
		http.Error(w, "no report to export", http.StatusConflict)
		return
	}
	if h.Exporter == nil {
		h.exportFailed(w, r, errclass.ExportFailed(errors.New("export disabled"), snap.Language))
		return
	}

	page := h.reportPage(snap, st, true)
	var buf bytes.Buffer
	if err := RenderReport(&buf, page); err != nil {
		h.exportFailed(w, r, errclass.ExportFailed(err, snap.Language))
		return
	}

	doc, err := h.Exporter.Export(r.Context(), buf.String(), page.Title(), snap.Language)
	if err != nil {
		h.exportFailed(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(doc.Filename)))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	_, _ = w.Write(doc.Data)
}

func (h *Handler) exportFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.Logger.Warn("export failed", zap.Error(err))
	if wantsJSON(r) {
		lang := h.Ctrl.Snapshot().Language
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errclass.As(err, lang).Message,
			Kind:  errclass.KindExportFailure.String(),
		})
		return
	}
	http.Redirect(w, r, "/?"+exportAlertParam+"=export", http.StatusSeeOther)
}

// StateResponse is the JSON view of the controller.
type StateResponse struct {
	State    string          `json:"state"`
	Language models.Language `json:"language"`
	Dir      string          `json:"dir"`
	Version  uint64          `json:"version"`
	Query    string          `json:"query,omitempty"`
	Kind     string          `json:"kind,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// HandleState returns the current state as JSON.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse(h.Ctrl.Snapshot()))
}

func stateResponse(snap app.Snapshot) StateResponse {
	resp := StateResponse{
		State:    snap.State.Name(),
		Language: snap.Language,
		Dir:      snap.Dir(),
		Version:  snap.Version,
	}
	switch st := snap.State.(type) {
	case app.Loading:
		resp.Query = st.Query
	case app.ShowingResult:
		resp.Query = st.Query
	case app.AwaitingAuthorization:
		resp.Kind = "authorization"
		resp.Message = st.Message
	case app.Failed:
		resp.Kind = st.Kind.String()
		resp.Message = st.Message
	}
	return resp
}

// ReportResponse is the parsed report as JSON.
type ReportResponse struct {
	Query    string                   `json:"query"`
	Title    string                   `json:"title"`
	Subtitle string                   `json:"subtitle"`
	Sections []models.ReportSection   `json:"sections"`
	Sources  []models.GroundingSource `json:"sources"`
	Summary  string                   `json:"summary"`
}

// HandleReport returns the current report, or 404 when none is shown.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	snap := h.Ctrl.Snapshot()
	st, ok := snap.State.(app.ShowingResult)
	if !ok || st.Result == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no report"})
		return
	}

	rep := report.Parse(st.Result.Summary, snap.Language)
	sections := rep.Sections
	if sections == nil {
		sections = []models.ReportSection{}
	}
	writeJSON(w, http.StatusOK, ReportResponse{
		Query:    st.Query,
		Title:    rep.Title,
		Subtitle: rep.Subtitle,
		Sections: sections,
		Sources:  st.Result.Sources,
		Summary:  st.Result.Summary,
	})
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (h *Handler) respondTransitionError(w http.ResponseWriter, err error) {
	status := http.StatusConflict
	if !errors.Is(err, app.ErrBusy) && !errors.Is(err, app.ErrInvalidTransition) {
		status = http.StatusInternalServerError
	}
	h.Logger.Debug("request refused", zap.Error(err))
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// done answers a successful form post: JSON clients get the new state,
// browsers are redirected back to the page.
func (h *Handler) done(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, stateResponse(h.Ctrl.Snapshot()))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
