package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"flyff-farm-bot/internal/combat"
)

func TestLoadCookiesMissingOrCorrupt(t *testing.T) {
	dir := t.TempDir()
	if got := LoadCookies(filepath.Join(dir, "cookies.json")); got != nil {
		t.Fatalf("missing file = %v, want nil", got)
	}

	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := LoadCookies(path); got != nil {
		t.Fatalf("corrupt file = %v, want nil", got)
	}
}

func TestSaveCookiesIsReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	in := []CookieData{{Name: "session", Value: "abc", Domain: ".flyff.com", Path: "/", Expires: 1.7e9, Secure: true, SameSite: "Lax"}}
	if err := SaveCookies(path, in); err != nil {
		t.Fatalf("SaveCookies: %v", err)
	}
	got := LoadCookies(path)
	if len(got) != 1 || got[0] != in[0] {
		t.Fatalf("cookies = %+v, want %+v", got, in)
	}
}

func TestWriteStatusReplacesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status.json")
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for kills := 1; kills <= 2; kills++ {
		s := Status{Mode: "farming", Backend: "browser", Farming: combat.Telemetry{Kills: kills, State: "Attacking"}, UpdatedAt: at}
		if err := WriteStatus(path, s); err != nil {
			t.Fatalf("WriteStatus: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("status.json: %v", err)
	}
	farming := doc["farming"].(map[string]any)
	if farming["kills"] != float64(2) || farming["state"] != "Attacking" {
		t.Fatalf("farming = %v", farming)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want only status.json", len(entries))
	}
}
