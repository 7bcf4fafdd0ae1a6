// Package main - browser.go
//
// Browser backend: a chromedp controlled Chrome window running the web
// client. It captures frames, persists the session cookies and hosts the
// injected input helpers from eval.js (see action.go).
//
// Contexts:
//   - allocCtx: browser process
//   - ctx: page operations
//
// Timeouts:
//   - Navigation: 60 seconds
//   - Screenshot: 5 seconds
//   - Canvas check: 2 seconds
package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

//go:embed eval.js
var evalJS string

var errBrowserInvalid = errors.New("browser context is invalid")

// Browser manages the chromedp instance hosting the game.
type Browser struct {
	url    string
	width  int
	height int

	ctx         context.Context
	cancel      context.CancelFunc
	allocCtx    context.Context
	allocCancel context.CancelFunc

	injected bool
}

// NewBrowser returns a browser that will open url in a width×height window.
func NewBrowser(url string, width, height int) *Browser {
	return &Browser{url: url, width: width, height: height}
}

// Start launches Chrome, restores cookies and navigates to the game.
//
// Automation flags are disabled and the window is visible so the user can
// log in on first start.
func (b *Browser) Start(cookies []CookieData) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-gpu", false),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(b.width, b.height),
	)

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	b.ctx, b.cancel = chromedp.NewContext(b.allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		LogDebug(format, args...)
	}))
	LogInfo("Browser context created")

	if len(cookies) > 0 {
		LogInfo("Setting %d cookies before navigation", len(cookies))
		if err := b.SetCookies(cookies); err != nil {
			LogWarn("Failed to set cookies before navigation: %v", err)
		}
	}

	LogInfo("Navigating to %s", b.url)
	navCtx, navCancel := context.WithTimeout(b.ctx, 60*time.Second)
	defer navCancel()

	if err := chromedp.Run(navCtx, chromedp.Navigate(b.url)); err != nil {
		return fmt.Errorf("browser: navigate: %w", err)
	}
	LogInfo("Navigation completed successfully")
	return nil
}

func (b *Browser) alive() bool {
	return b.ctx != nil && b.ctx.Err() == nil
}

// Ready reports whether the game canvas exists. The input helpers are
// injected the first time it does.
func (b *Browser) Ready() bool {
	if !b.alive() {
		return false
	}

	var exists bool
	checkCtx, cancel := context.WithTimeout(b.ctx, 2*time.Second)
	defer cancel()
	if err := chromedp.Run(checkCtx, chromedp.Evaluate(`document.querySelector('canvas') !== null`, &exists)); err != nil {
		LogDebug("Failed to check canvas existence: %v", err)
		return false
	}
	if !exists {
		return false
	}

	if !b.injected {
		if err := b.InjectJS(); err != nil {
			LogWarn("Failed to inject input helpers: %v", err)
			return false
		}
		b.injected = true
		LogInfo("Input helpers injected")
	}
	return true
}

// InjectJS evaluates eval.js in the page.
func (b *Browser) InjectJS() error {
	if !b.alive() {
		return errBrowserInvalid
	}
	return chromedp.Run(b.ctx, chromedp.Evaluate(evalJS, nil))
}

// Eval runs js in the page with a short timeout.
func (b *Browser) Eval(js string) error {
	if !b.alive() {
		return errBrowserInvalid
	}
	ctx, cancel := context.WithTimeout(b.ctx, 2*time.Second)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Evaluate(js, nil))
}

// Capture screenshots the viewport.
func (b *Browser) Capture() (*image.RGBA, error) {
	if !b.alive() {
		return nil, errBrowserInvalid
	}

	var buf []byte
	captureCtx, cancel := context.WithTimeout(b.ctx, 5*time.Second)
	defer cancel()
	if err := chromedp.Run(captureCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("browser: screenshot: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("browser: decode screenshot: %w", err)
	}
	return toRGBA(img), nil
}

// toRGBA returns img as *image.RGBA, copying only when needed.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// GetCookies reads every cookie of the session.
func (b *Browser) GetCookies() ([]CookieData, error) {
	if !b.alive() {
		return nil, errBrowserInvalid
	}

	var cookies []*network.Cookie
	err := chromedp.Run(b.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("browser: get cookies: %w", err)
	}

	out := make([]CookieData, len(cookies))
	for i, c := range cookies {
		out[i] = CookieData{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		}
	}
	LogInfo("Retrieved %d cookies from browser", len(out))
	return out, nil
}

// SetCookies installs cookies. Individual failures are logged and skipped.
func (b *Browser) SetCookies(cookies []CookieData) error {
	if len(cookies) == 0 {
		return nil
	}
	if !b.alive() {
		return errBrowserInvalid
	}

	err := chromedp.Run(b.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			params := network.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithHTTPOnly(c.HTTPOnly).
				WithSecure(c.Secure)
			if c.Expires > 0 {
				expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
				params = params.WithExpires(&expires)
			}
			if c.SameSite != "" {
				params = params.WithSameSite(network.CookieSameSite(c.SameSite))
			}
			if err := params.Do(ctx); err != nil {
				LogWarn("Failed to set cookie %s: %v", c.Name, err)
			}
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("browser: set cookies: %w", err)
	}
	LogInfo("Set %d cookies in browser", len(cookies))
	return nil
}

// Close shuts down the page and the browser process.
func (b *Browser) Close() {
	LogInfo("Closing browser...")
	if b.cancel != nil {
		b.cancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
}
