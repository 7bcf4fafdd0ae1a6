// Package main - native.go
//
// Native backend for a client running outside the managed browser. Frames
// come from kbinani/screenshot, input from robotgo. Coordinates passed to
// Click are window-relative and offset by the configured window origin.
package main

import (
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"

	"flyff-farm-bot/internal/config"
)

// Native drives a game window through the OS.
type Native struct {
	window image.Rectangle
}

// NewNative returns a backend for the window described by cfg.
func NewNative(cfg config.Native) *Native {
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = 800, 600
	}
	return &Native{window: image.Rect(cfg.WindowX, cfg.WindowY, cfg.WindowX+w, cfg.WindowY+h)}
}

// Ready reports whether a display is available.
func (n *Native) Ready() bool {
	return screenshot.NumActiveDisplays() > 0
}

// Capture grabs the configured window rectangle.
func (n *Native) Capture() (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(n.window)
	if err != nil {
		return nil, fmt.Errorf("native: capture %v: %w", n.window, err)
	}
	// Rebase so pixel coordinates are window-relative.
	img.Rect = img.Rect.Sub(img.Rect.Min)
	return img, nil
}

// nativeKey maps client key names onto robotgo names.
func nativeKey(key string) string {
	k := strings.ToLower(key)
	if k == "escape" {
		return "esc"
	}
	return k
}

// SendKey taps, holds or releases key.
func (n *Native) SendKey(key string, mode KeyMode) error {
	k := nativeKey(key)
	switch mode {
	case KeyPress:
		return robotgo.KeyTap(k)
	case KeyHold:
		return robotgo.KeyToggle(k, "down")
	case KeyRelease:
		return robotgo.KeyToggle(k, "up")
	}
	return fmt.Errorf("unsupported key mode: %d", mode)
}

// SendSlot selects the bar with F<bar+1> and taps the slot digit.
func (n *Native) SendSlot(bar, slot int) error {
	if err := robotgo.KeyTap("f" + strconv.Itoa(bar+1)); err != nil {
		return fmt.Errorf("native: slot bar F%d: %w", bar+1, err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := robotgo.KeyTap(strconv.Itoa(slot)); err != nil {
		return fmt.Errorf("native: slot F%d-%d: %w", bar+1, slot, err)
	}
	return nil
}

// Click moves the cursor into the window and left-clicks.
func (n *Native) Click(x, y int) error {
	robotgo.Move(n.window.Min.X+x, n.window.Min.Y+y)
	robotgo.Click("left")
	return nil
}

// TypeText types text into the focused input.
func (n *Native) TypeText(text string) error {
	robotgo.TypeStr(text)
	return nil
}
