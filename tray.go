// Package main - tray.go
//
// System tray UI built on getlantern/systray.
//
// Menu Structure:
//   Flyff Bot
//   ├─ Status: Mode | State | Kills | KPM | Uptime (read-only, refreshed every second)
//   ├─ Mode
//   │  ├─ Stop (idle, recognition continues)
//   │  └─ Farming (autonomous mob hunting)
//   ├─ Farming
//   │  ├─ Prioritize Aggressive
//   │  ├─ Stay In Area
//   │  └─ Stop Fighting (support only)
//   └─ Quit (graceful shutdown)
//
// Every change goes through the config store and is saved to config.yaml
// immediately. Checkmarks follow the store, so hand edits to the file show
// up in the menu as well.
package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/getlantern/systray"

	"flyff-farm-bot/internal/config"
)

// TrayApp owns the tray menu.
type TrayApp struct {
	bot   *Bot
	ready atomic.Bool

	statusItem *systray.MenuItem

	stopItem    *systray.MenuItem
	farmingItem *systray.MenuItem

	prioritizeItem   *systray.MenuItem
	stayInAreaItem   *systray.MenuItem
	stopFightingItem *systray.MenuItem

	quitItem *systray.MenuItem
}

// NewTrayApp creates the tray for bot.
func NewTrayApp(bot *Bot) *TrayApp {
	return &TrayApp{bot: bot}
}

// Run shows the tray and blocks until Quit. onStart runs once the menu
// exists.
func (t *TrayApp) Run(onStart func()) {
	LogInfo("Starting system tray application")
	systray.Run(func() {
		t.onReady()
		onStart()
	}, func() {
		t.ready.Store(false)
		LogInfo("System tray exit complete")
	})
}

// Quit closes the tray, which makes Run return.
func (t *TrayApp) Quit() {
	systray.Quit()
}

func (t *TrayApp) onReady() {
	systray.SetTitle("Flyff Bot")
	systray.SetTooltip("Flyff Universe Bot")

	t.statusItem = systray.AddMenuItem("Status: Starting...", "Current bot status")
	t.statusItem.Disable()

	systray.AddSeparator()

	modeMenu := systray.AddMenuItem("Mode", "Select bot mode")
	t.stopItem = modeMenu.AddSubMenuItemCheckbox("Stop", "Stop all actions", false)
	t.farmingItem = modeMenu.AddSubMenuItemCheckbox("Farming", "Farm mobs automatically", false)

	farmingMenu := systray.AddMenuItem("Farming", "Farming behavior")
	t.prioritizeItem = farmingMenu.AddSubMenuItemCheckbox("Prioritize Aggressive", "Attack aggressive mobs first", false)
	t.stayInAreaItem = farmingMenu.AddSubMenuItemCheckbox("Stay In Area", "Circle around instead of wandering", false)
	t.stopFightingItem = farmingMenu.AddSubMenuItemCheckbox("Stop Fighting", "Only buff and restore", false)

	systray.AddSeparator()
	t.quitItem = systray.AddMenuItem("Quit", "Quit the application")

	t.refresh(t.bot.store.Current())
	t.bot.store.OnChange(t.refresh)
	t.ready.Store(true)

	go t.handleEvents()
	LogInfo("System tray initialized")
}

func (t *TrayApp) handleEvents() {
	for {
		select {
		case <-t.stopItem.ClickedCh:
			t.onModeClicked(config.ModeStop)
		case <-t.farmingItem.ClickedCh:
			t.onModeClicked(config.ModeFarming)
		case <-t.prioritizeItem.ClickedCh:
			t.toggle("prioritize_aggressive", func(f *config.Farming) { f.PrioritizeAggressive = !f.PrioritizeAggressive })
		case <-t.stayInAreaItem.ClickedCh:
			t.toggle("stay_in_area", func(f *config.Farming) { f.StayInArea = !f.StayInArea })
		case <-t.stopFightingItem.ClickedCh:
			t.toggle("stop_fighting", func(f *config.Farming) { f.StopFighting = !f.StopFighting })
		case <-t.quitItem.ClickedCh:
			LogInfo("Quit requested by user")
			t.bot.Stop(0)
			return
		}
	}
}

func (t *TrayApp) onModeClicked(mode string) {
	LogInfo("Mode changed to: %s", mode)
	if err := t.bot.SetMode(mode); err != nil {
		LogError("Failed to change mode: %v", err)
	}
}

func (t *TrayApp) toggle(name string, fn func(*config.Farming)) {
	if err := t.bot.UpdateFarming(fn); err != nil {
		LogError("Failed to toggle %s: %v", name, err)
		return
	}
	LogInfo("Toggled %s", name)
}

// refresh syncs the checkmarks with cfg.
func (t *TrayApp) refresh(cfg *config.Config) {
	setChecked(t.stopItem, cfg.Mode == config.ModeStop)
	setChecked(t.farmingItem, cfg.Mode == config.ModeFarming)
	setChecked(t.prioritizeItem, cfg.Farming.PrioritizeAggressive)
	setChecked(t.stayInAreaItem, cfg.Farming.StayInArea)
	setChecked(t.stopFightingItem, cfg.Farming.StopFighting)
}

func setChecked(item *systray.MenuItem, checked bool) {
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

// UpdateStatus shows s in the status line. No-op before the tray is up.
func (t *TrayApp) UpdateStatus(s Status) {
	if !t.ready.Load() {
		return
	}
	t.statusItem.SetTitle(statusLine(s))
}

func statusLine(s Status) string {
	if s.Mode != config.ModeFarming {
		return fmt.Sprintf("Status: Mode: %s (Idle)", s.Mode)
	}
	f := s.Farming
	uptime := time.Duration(f.UptimeSeconds) * time.Second
	return fmt.Sprintf("Status: %s | %d kills | %.1f/min | %s", f.State, f.Kills, f.KillsPerMinute, uptime)
}
