package export

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RegionSelector is the element that gets captured.
const RegionSelector = "#report-region"

// printHiddenSelector marks chrome that must not appear in the document
// (navigation bar, buttons, floating actions).
const printHiddenSelector = ".print-hidden"

const captureStyle = `<style id="export-style">html,body{background:#ffffff !important}` +
	`.print-hidden{display:none !important}</style>`

// PrepareDocument strips interactive chrome from a rendered report page and
// forces a white background. It fails if the page has no report region.
func PrepareDocument(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse report page: %w", err)
	}

	if doc.Find(RegionSelector).Length() == 0 {
		return "", fmt.Errorf("report page has no %s element", RegionSelector)
	}

	doc.Find(printHiddenSelector).Remove()
	doc.Find("script").Remove()
	doc.Find("head").AppendHtml(captureStyle)

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("serialize report page: %w", err)
	}
	return out, nil
}
