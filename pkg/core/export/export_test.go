package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grant_finder/pkg/core/errclass"
	"grant_finder/pkg/core/locale"
	"grant_finder/pkg/models"
)

const reportPage = `<!doctype html><html><head><title>r</title></head><body>
<nav class="print-hidden" id="nav">nav</nav>
<main id="report-region"><h1>Report</h1><p>body</p>
<button class="print-hidden" id="save">Save</button></main>
<script>console.log("spy")</script>
</body></html>`

type fakeCapturer struct {
	png      []byte
	err      error
	page     string
	selector string
}

func (f *fakeCapturer) Capture(ctx context.Context, page, selector string) ([]byte, error) {
	f.page = page
	f.selector = selector
	return f.png, f.err
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var fixedNow = time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)

func TestFilename(t *testing.T) {
	assert.Equal(t, "Yemen_Grants_Report_2026-03-14.pdf", Filename("Yemen Grants  Report", fixedNow))
	assert.Equal(t, "تقرير_المنح_2026-03-14.pdf", Filename("تقرير\tالمنح", fixedNow))
}

func TestPrepareDocument(t *testing.T) {
	out, err := PrepareDocument(reportPage)
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find(".print-hidden").Length())
	assert.Equal(t, 0, doc.Find("script").Length())
	assert.Equal(t, 1, doc.Find("#report-region h1").Length())
	assert.Equal(t, 1, doc.Find("head style#export-style").Length())
}

func TestPrepareDocument_NoRegion(t *testing.T) {
	_, err := PrepareDocument("<html><body><p>nothing</p></body></html>")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	fc := &fakeCapturer{png: testPNG(t, 100, 300)}
	e := NewExporter(fc, nil)
	e.Now = func() time.Time { return fixedNow }

	doc, err := e.Export(context.Background(), reportPage, "Grant Report", models.LangEnglish)
	require.NoError(t, err)

	assert.Equal(t, "Grant_Report_2026-03-14.pdf", doc.Filename)
	assert.Equal(t, 3, doc.Pages)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
	assert.Equal(t, RegionSelector, fc.selector)
	assert.NotContains(t, fc.page, "print-hidden\"")

	again, err := e.Export(context.Background(), reportPage, "Grant Report", models.LangEnglish)
	require.NoError(t, err)
	assert.Equal(t, doc.Data, again.Data)
}

func TestExport_CaptureFailure(t *testing.T) {
	e := NewExporter(&fakeCapturer{err: errors.New("chrome crashed")}, nil)

	_, err := e.Export(context.Background(), reportPage, "R", models.LangArabic)
	require.Error(t, err)

	var ce *errclass.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errclass.KindExportFailure, ce.Kind)
	assert.Equal(t, locale.For(models.LangArabic).ErrPDF, ce.Message)
	assert.Contains(t, err.Error(), "chrome crashed")
}

func TestExport_BadImage(t *testing.T) {
	e := NewExporter(&fakeCapturer{png: []byte("not a png")}, nil)
	_, err := e.Export(context.Background(), reportPage, "R", models.LangEnglish)

	var ce *errclass.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errclass.KindExportFailure, ce.Kind)
}

func TestExport_NoCapturer(t *testing.T) {
	_, err := NewExporter(nil, nil).Export(context.Background(), reportPage, "R", models.LangEnglish)
	assert.Error(t, err)
}
