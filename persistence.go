// Package main - persistence.go
//
// JSON files written next to config.yaml:
//   - cookies.json: browser session, restored on the next start so the
//     login survives restarts
//   - status.json: the latest telemetry, rewritten once per second for
//     external dashboards
//
// A missing or corrupt cookies.json yields an empty session rather than an
// error; the user simply logs in again.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flyff-farm-bot/internal/combat"
)

// CookieData is a browser cookie as stored in cookies.json.
type CookieData struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// Status is the document written to status.json.
type Status struct {
	Mode      string           `json:"mode"`
	Backend   string           `json:"backend"`
	Farming   combat.Telemetry `json:"farming"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// SaveCookies writes cookies to path.
func SaveCookies(path string, cookies []CookieData) error {
	return writeJSON(path, cookies)
}

// LoadCookies reads path. A missing or unreadable file yields no cookies.
func LoadCookies(path string) []CookieData {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		LogInfo("No saved cookies at %s", path)
		return nil
	}
	if err != nil {
		LogWarn("Failed to read cookies: %v", err)
		return nil
	}

	var cookies []CookieData
	if err := json.Unmarshal(data, &cookies); err != nil {
		LogError("Failed to decode %s: %v", path, err)
		return nil
	}
	LogInfo("Loaded %d cookies from %s", len(cookies), path)
	return cookies
}

// WriteStatus replaces path with s.
func WriteStatus(path string, s Status) error {
	return writeJSON(path, s)
}

// writeJSON encodes v into a temporary file and renames it over path so
// readers never observe a partial document.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
