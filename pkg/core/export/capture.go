package export

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Capturer renders an HTML page and returns a PNG of the element matching
// selector.
type Capturer interface {
	Capture(ctx context.Context, page, selector string) ([]byte, error)
}

// RodCapturer drives a headless Chrome through go-rod. A browser is launched
// per capture.
type RodCapturer struct {
	Bin           string  // Chrome binary; empty lets the launcher find or fetch one
	Scale         float64 // device scale factor
	ViewportWidth int     // CSS pixels
	Timeout       time.Duration
}

var _ Capturer = (*RodCapturer)(nil)

// Capture implements Capturer.
func (r *RodCapturer) Capture(ctx context.Context, page, selector string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	l := launcher.New().Context(ctx).Headless(true)
	if r.Bin != "" {
		l = l.Bin(r.Bin)
	}
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer browser.Close()

	p, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	scale := r.Scale
	if scale <= 0 {
		scale = 2
	}
	width := r.ViewportWidth
	if width <= 0 {
		width = 1200
	}
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            900,
		DeviceScaleFactor: scale,
		Mobile:            false,
	}).Call(p); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	if err := p.SetDocumentContent(page); err != nil {
		return nil, fmt.Errorf("load report page: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for report page: %w", err)
	}

	el, err := p.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", selector, err)
	}
	res, err := el.Eval(regionBoxJS)
	if err != nil {
		return nil, fmt.Errorf("measure %s: %w", selector, err)
	}
	box := region{
		X:      res.Value.Get("x").Num(),
		Y:      res.Value.Get("y").Num(),
		Width:  res.Value.Get("width").Num(),
		Height: res.Value.Get("height").Num(),
	}
	if box.Width <= 0 || box.Height <= 0 {
		return nil, fmt.Errorf("%s has no size", selector)
	}

	shot, err := screenshotRequest(box).Call(p)
	if err != nil {
		return nil, fmt.Errorf("screenshot %s: %w", selector, err)
	}
	return shot.Data, nil
}

// regionBoxJS returns the element's box in document coordinates.
const regionBoxJS = `() => {
	const r = this.getBoundingClientRect();
	return {x: r.left + window.scrollX, y: r.top + window.scrollY, width: r.width, height: r.height};
}`

// region is an element box in document CSS pixels.
type region struct {
	X, Y, Width, Height float64
}

// screenshotRequest clips the capture to box and lets it extend past the
// viewport, so tall regions come back whole. The image is box times the
// device scale factor.
func screenshotRequest(box region) proto.PageCaptureScreenshot {
	return proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      box.X,
			Y:      box.Y,
			Width:  box.Width,
			Height: box.Height,
			Scale:  1,
		},
		CaptureBeyondViewport: true,
		FromSurface:           true,
	}
}
