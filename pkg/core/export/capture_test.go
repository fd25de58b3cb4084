package export

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenshotRequest_TallRegion(t *testing.T) {
	req := screenshotRequest(region{X: 8, Y: 96, Width: 1200, Height: 8000})

	require.NotNil(t, req.Clip)
	assert.Equal(t, proto.PageCaptureScreenshotFormatPng, req.Format)
	assert.True(t, req.CaptureBeyondViewport)
	assert.Equal(t, 8.0, req.Clip.X)
	assert.Equal(t, 96.0, req.Clip.Y)
	assert.Equal(t, 1200.0, req.Clip.Width)
	assert.Equal(t, 8000.0, req.Clip.Height)
	// Clip scale 1 keeps the device scale factor as the only multiplier.
	assert.Equal(t, 1.0, req.Clip.Scale)
}

func TestPaginate_FullRegionAtScale(t *testing.T) {
	// An 8000 CSS px region at scale 2 comes back 2400x16000; the width
	// scales to 210 mm so the image is 1400 mm tall.
	layout := Paginate(2400, 16000, PageWidthMM, PageHeightMM)
	assert.Equal(t, 5, layout.Pages())
	assert.InDelta(t, 1400.0, layout.ImageHeight, 0.001)
}
