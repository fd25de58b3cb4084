package export

// A4 portrait in millimetres.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// Layout is where one captured image lands on each page. The same image is
// drawn on every page, shifted up by one page height each time.
type Layout struct {
	ImageWidth  float64   // mm, always the page width
	ImageHeight float64   // mm, scaled to keep the aspect ratio
	Offsets     []float64 // y position of the image on each page
}

// Pages is the number of pages in the document.
func (l Layout) Pages() int { return len(l.Offsets) }

// Paginate scales a pxWidth x pxHeight image to the page width and slices it
// over as many pages as needed. The first page places the image at y=0; each
// following page places it at heightLeft-imageHeight while heightLeft, reduced
// by one page height per page, stays non-negative.
func Paginate(pxWidth, pxHeight int, pageWidth, pageHeight float64) Layout {
	if pxWidth <= 0 || pxHeight <= 0 {
		return Layout{}
	}

	imgHeight := float64(pxHeight) * pageWidth / float64(pxWidth)
	layout := Layout{
		ImageWidth:  pageWidth,
		ImageHeight: imgHeight,
		Offsets:     []float64{0},
	}

	heightLeft := imgHeight - pageHeight
	for heightLeft >= 0 {
		layout.Offsets = append(layout.Offsets, heightLeft-imgHeight)
		heightLeft -= pageHeight
	}
	return layout
}
