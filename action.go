// Package main - action.go
//
// Input and capture backends. The bot talks to the game through two small
// interfaces so the browser client and a native window can be driven the
// same way:
//   - InputBackend: keys, slots, clicks and chat text
//   - CaptureBackend: readiness check and frame capture
//
// Action is the browser implementation of InputBackend. It calls the
// helpers injected from eval.js:
//   - keyboardEvent(mode, key)
//   - mouseEvent(type, x, y, options)
//   - sendSlot(slotBarIndex, slotIndex)
//   - setInputChat(text)
//
// Errors are returned to the caller, which logs and ignores them.
package main

import (
	"fmt"
	"image"
	"strings"
)

// KeyMode selects what a key event does.
type KeyMode int

const (
	KeyPress   KeyMode = iota // Press and release
	KeyHold                   // Hold down
	KeyRelease                // Release held key
)

func (m KeyMode) String() string {
	switch m {
	case KeyPress:
		return "press"
	case KeyHold:
		return "hold"
	case KeyRelease:
		return "release"
	}
	return fmt.Sprintf("KeyMode(%d)", int(m))
}

// InputBackend injects input into the game client. Keys use the names the
// web client understands ("w", "space", "escape", "F1", "right").
type InputBackend interface {
	SendKey(key string, mode KeyMode) error
	SendSlot(bar, slot int) error
	Click(x, y int) error
	TypeText(text string) error
}

// CaptureBackend yields frames of the game client.
type CaptureBackend interface {
	Ready() bool
	Capture() (*image.RGBA, error)
}

// Action injects input into the browser page.
type Action struct {
	browser *Browser
}

// NewAction returns an input backend bound to browser.
func NewAction(browser *Browser) *Action {
	return &Action{browser: browser}
}

// SendKey dispatches a keyboard event on the canvas.
func (a *Action) SendKey(key string, mode KeyMode) error {
	switch mode {
	case KeyPress, KeyHold, KeyRelease:
	default:
		return fmt.Errorf("unsupported key mode: %d", mode)
	}
	js := fmt.Sprintf("keyboardEvent('%s', '%s');", mode, escapeJavaScriptString(key))
	if err := a.browser.Eval(js); err != nil {
		return fmt.Errorf("send key %s: %w", key, err)
	}
	return nil
}

// SendSlot presses F<bar+1> followed by the slot digit.
func (a *Action) SendSlot(bar, slot int) error {
	if err := a.browser.Eval(fmt.Sprintf("sendSlot(%d, %d);", bar, slot)); err != nil {
		return fmt.Errorf("send slot F%d-%d: %w", bar+1, slot, err)
	}
	return nil
}

// Click moves to x,y on the canvas and clicks.
func (a *Action) Click(x, y int) error {
	if err := a.browser.Eval(fmt.Sprintf("mouseEvent('moveClick', %d, %d);", x, y)); err != nil {
		return fmt.Errorf("click at (%d, %d): %w", x, y, err)
	}
	return nil
}

// TypeText fills and selects the chat input. The message is not sent.
func (a *Action) TypeText(text string) error {
	if err := a.browser.Eval(fmt.Sprintf("setInputChat('%s');", escapeJavaScriptString(text))); err != nil {
		return fmt.Errorf("type text: %w", err)
	}
	return nil
}

var jsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
)

// escapeJavaScriptString makes s safe inside a single quoted JS literal.
func escapeJavaScriptString(s string) string {
	return jsEscaper.Replace(s)
}
