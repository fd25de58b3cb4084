// Package export turns a rendered report page into a paginated A4 PDF: the
// report region is captured as one tall PNG and sliced across pages.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // DecodeConfig for captured screenshots
	"regexp"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"grant_finder/pkg/core/errclass"
	"grant_finder/pkg/models"
)

// Document is a finished export.
type Document struct {
	Filename string
	Data     []byte
	Pages    int
}

// Exporter captures and assembles report PDFs.
type Exporter struct {
	Capturer Capturer
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewExporter returns an exporter using c for screenshots.
func NewExporter(c Capturer, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{Capturer: c, Logger: logger, Now: time.Now}
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename builds "<title>_<YYYY-MM-DD>.pdf" with whitespace runs in the
// title replaced by underscores. The date is taken in UTC.
func Filename(title string, now time.Time) string {
	return whitespace.ReplaceAllString(title, "_") + "_" + now.UTC().Format("2006-01-02") + ".pdf"
}

// Export renders page to a PDF named after title. Every failure is returned
// as an errclass.Error of kind KindExportFailure carrying the localized alert.
func (e *Exporter) Export(ctx context.Context, page, title string, lang models.Language) (*Document, error) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	ts := now()

	doc, err := e.export(ctx, page, title, ts)
	if err != nil {
		e.Logger.Warn("pdf export failed", zap.String("title", title), zap.Error(err))
		return nil, errclass.ExportFailed(err, lang)
	}
	e.Logger.Info("pdf exported",
		zap.String("filename", doc.Filename),
		zap.Int("pages", doc.Pages),
		zap.Int("bytes", len(doc.Data)))
	return doc, nil
}

func (e *Exporter) export(ctx context.Context, page, title string, ts time.Time) (*Document, error) {
	if e.Capturer == nil {
		return nil, fmt.Errorf("no capturer configured")
	}

	prepared, err := PrepareDocument(page)
	if err != nil {
		return nil, err
	}

	png, err := e.Capturer.Capture(ctx, prepared, RegionSelector)
	if err != nil {
		return nil, fmt.Errorf("capture report: %w", err)
	}

	data, pages, err := Assemble(png, title, ts)
	if err != nil {
		return nil, err
	}
	return &Document{Filename: Filename(title, ts), Data: data, Pages: pages}, nil
}

// Assemble lays a PNG over A4 pages. Creation and modification dates are
// pinned to ts so the same input yields the same bytes.
func Assemble(png []byte, title string, ts time.Time) ([]byte, int, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return nil, 0, fmt.Errorf("decode capture: %w", err)
	}
	if format != "png" {
		return nil, 0, fmt.Errorf("capture is %s, want png", format)
	}

	layout := Paginate(cfg.Width, cfg.Height, PageWidthMM, PageHeightMM)
	if layout.Pages() == 0 {
		return nil, 0, fmt.Errorf("capture is empty (%dx%d)", cfg.Width, cfg.Height)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(ts)
	pdf.SetModificationDate(ts)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(title, true)
	pdf.SetCreator("grantfinder", true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	const name = "report"
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))

	for _, y := range layout.Offsets {
		pdf.AddPage()
		pdf.ImageOptions(name, 0, y, layout.ImageWidth, layout.ImageHeight, false, opts, 0, "")
	}
	if err := pdf.Error(); err != nil {
		return nil, 0, fmt.Errorf("assemble pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), layout.Pages(), nil
}
