// Package main implements a farming bot for Flyff Universe.
//
// Architecture Overview:
// Three concurrent parts cooperate:
//
//  1. Control loop: captures a frame at the configured interval, runs the
//     perception pipeline and feeds the snapshot into the combat controller.
//     Everything that touches game input runs on this goroutine.
//
//  2. Status writer: once per second publishes the controller telemetry to
//     the tray status line and status.json.
//
//  3. System tray: mode switching, behavior toggles and quit. Changes go
//     through the config store, which persists them to config.yaml; edits
//     made to the file by hand are picked up by the file watcher.
//
// Startup:
//   - Debug.log is truncated and logging starts
//   - config.yaml is loaded (defaults when missing) and watched
//   - the backend (browser or native) starts in the background
//   - the tray comes up and starts the control loop
//
// Shutdown:
// SIGINT/SIGTERM or tray Quit stop the loop, save cookies and status and
// exit 0. Running out of mobs for longer than mobs_timeout_ms ends the run
// with exit code 1.
//
// Offline analysis: `flyff-farm-bot --train` analyzes train.png instead of
// running the bot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"flyff-farm-bot/internal/clock"
	"flyff-farm-bot/internal/combat"
	"flyff-farm-bot/internal/config"
	"flyff-farm-bot/internal/perception"
)

const statusInterval = time.Second

// Bot owns every subsystem and runs the control loop.
type Bot struct {
	store   *config.Store
	watcher *config.Watcher
	clock   clock.Clock

	backend  string
	browser  *Browser
	capture  CaptureBackend
	input    InputBackend
	movement *MovementCoordinator

	analyzer   *perception.Analyzer
	controller *combat.Controller
	tray       *TrayApp

	cookiesPath string
	statusPath  string

	// Control loop state.
	applied      *config.Config
	lastMode     string
	cookiesSaved bool

	cancel   context.CancelFunc
	stopOnce sync.Once
	exitCode int
	exitMu   sync.Mutex
}

// NewBot wires the subsystems selected by the active configuration.
func NewBot(store *config.Store) *Bot {
	cfg := store.Current()
	clk := clock.New()
	dir := filepath.Dir(store.Path())

	b := &Bot{
		store:       store,
		clock:       clk,
		backend:     cfg.Backend,
		lastMode:    config.ModeStop,
		cookiesPath: filepath.Join(dir, "cookies.json"),
		statusPath:  filepath.Join(dir, "status.json"),
	}

	switch cfg.Backend {
	case config.BackendNative:
		native := NewNative(cfg.Native)
		b.capture, b.input = native, native
		LogInfo("Using native backend at %d,%d", cfg.Native.WindowX, cfg.Native.WindowY)
	default:
		b.browser = NewBrowser(cfg.GameURL, cfg.Native.Width, cfg.Native.Height)
		b.capture, b.input = b.browser, NewAction(b.browser)
		LogInfo("Using browser backend")
	}

	b.movement = NewMovementCoordinator(b.input, clk)
	b.analyzer = perception.NewAnalyzer(cfg.Perception.Settings(), clk, Logger().With("component", "perception"))
	b.controller = combat.NewController(b.movement, clk, rand.New(rand.NewSource(clk.Now().UnixNano())), Logger().With("component", "combat"))
	b.tray = NewTrayApp(b)
	return b
}

// Run blocks until the bot is stopped and returns the process exit code.
func (b *Bot) Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, b.cancel = context.WithCancel(ctx)

	watcher, err := config.Watch(b.store)
	if err != nil {
		LogWarn("Config hot reload disabled: %v", err)
	} else {
		b.watcher = watcher
	}

	go func() {
		<-ctx.Done()
		LogInfo("Shutting down...")
		b.tray.Quit()
	}()

	b.tray.Run(func() { b.start(ctx) })

	b.shutdown()
	b.exitMu.Lock()
	defer b.exitMu.Unlock()
	return b.exitCode
}

// start launches the backend and the loops. Called once the tray is up.
func (b *Bot) start(ctx context.Context) {
	if b.browser != nil {
		go func() {
			if err := b.browser.Start(LoadCookies(b.cookiesPath)); err != nil {
				LogError("Failed to start browser: %v", err)
				return
			}
			LogInfo("Browser is now ready")
		}()
	}

	go b.statusLoop(ctx)
	go func() {
		if err := b.mainLoop(ctx); err != nil {
			LogError("Control loop ended: %v", err)
			b.Stop(1)
		}
	}()
}

// Stop ends the run with code.
func (b *Bot) Stop(code int) {
	b.stopOnce.Do(func() {
		b.exitMu.Lock()
		b.exitCode = code
		b.exitMu.Unlock()
		if b.cancel != nil {
			b.cancel()
		}
	})
}

func (b *Bot) mainLoop(ctx context.Context) error {
	LogInfo("Main loop started")
	defer LogInfo("Main loop stopped")

	timer := b.clock.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.Chan():
		}

		started := b.clock.Now()
		if err := b.runIteration(ctx); err != nil {
			return err
		}
		LogDebug("Iteration took %v", b.clock.Now().Sub(started))
		timer.Reset(b.store.Current().CaptureInterval())
	}
}

// runIteration captures and analyzes one frame and, while farming, runs one
// controller tick. Only a fatal controller error is returned.
func (b *Bot) runIteration(ctx context.Context) error {
	cfg := b.store.Current()
	if cfg != b.applied {
		b.apply(cfg)
	}

	if !b.capture.Ready() {
		LogDebug("Game not ready yet")
		return nil
	}
	if b.browser != nil && !b.cookiesSaved {
		LogInfo("Game loaded, saving cookies")
		b.saveCookies()
		b.cookiesSaved = true
	}

	img, err := b.capture.Capture()
	if err != nil {
		LogWarn("Failed to capture screen: %v", err)
		return nil
	}
	b.analyzer.SetFrame(img)
	if !b.analyzer.HasFrame() {
		return nil
	}

	snap, err := b.analyzer.Analyze(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			LogWarn("Analysis failed: %v", err)
		}
		return nil
	}

	if cfg.Mode != b.lastMode {
		LogInfo("Mode changed: %s -> %s", b.lastMode, cfg.Mode)
		if cfg.Mode == config.ModeFarming {
			b.controller.Reset()
		} else {
			b.movement.StopAllMovement()
		}
		b.lastMode = cfg.Mode
	}
	if cfg.Mode != config.ModeFarming {
		return nil
	}

	if _, err := b.controller.Tick(snap); err != nil {
		return fmt.Errorf("farming: %w", err)
	}
	return nil
}

// apply pushes a new configuration into the analyzer and controller.
func (b *Bot) apply(cfg *config.Config) {
	b.analyzer.SetSettings(cfg.Perception.Settings())
	b.controller.Configure(cfg.Farming)
	SetLogLevel(cfg.Level())
	if cfg.Backend != b.backend {
		LogWarn("Backend change to %s takes effect after restart", cfg.Backend)
	}
	b.applied = cfg
}

func (b *Bot) statusLoop(ctx context.Context) {
	ticker := b.clock.NewTicker(statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			b.publishStatus()
		}
	}
}

func (b *Bot) status() Status {
	cfg := b.store.Current()
	return Status{
		Mode:      cfg.Mode,
		Backend:   b.backend,
		Farming:   b.controller.Telemetry(),
		UpdatedAt: b.clock.Now(),
	}
}

func (b *Bot) publishStatus() {
	s := b.status()
	b.tray.UpdateStatus(s)
	if err := WriteStatus(b.statusPath, s); err != nil {
		LogWarn("Failed to write status: %v", err)
	}
}

// SetMode switches between stop and farming and persists the choice.
func (b *Bot) SetMode(mode string) error {
	return b.store.Update(func(c *config.Config) { c.Mode = mode })
}

// UpdateFarming applies fn to the farming section and persists it.
func (b *Bot) UpdateFarming(fn func(*config.Farming)) error {
	return b.store.Update(func(c *config.Config) { fn(&c.Farming) })
}

func (b *Bot) saveCookies() {
	cookies, err := b.browser.GetCookies()
	if err != nil {
		LogWarn("Failed to get cookies: %v", err)
		return
	}
	if err := SaveCookies(b.cookiesPath, cookies); err != nil {
		LogError("Failed to save cookies: %v", err)
		return
	}
	LogInfo("Saved %d cookies", len(cookies))
}

func (b *Bot) shutdown() {
	LogInfo("Saving state...")
	b.publishStatus()
	if b.watcher != nil {
		b.watcher.Close()
	}
	if b.browser != nil {
		b.saveCookies()
		b.browser.Close()
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "configuration file")
	train := flag.Bool("train", false, "analyze train.png into result.png and exit")
	logPath := flag.String("log", "Debug.log", "log file, truncated on start")
	flag.Parse()

	if err := InitLogger(*logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	LogInfo("=== Flyff Bot Started ===")

	code := run(*configPath, *train)

	LogInfo("=== Flyff Bot Shutdown (code %d) ===", code)
	CloseLogger()
	os.Exit(code)
}

func run(configPath string, train bool) int {
	if train {
		LogInfo("Training mode requested")
		if err := TrainingMode(configPath, "train.png", "result.png"); err != nil {
			LogError("Training mode failed: %v", err)
			fmt.Fprintf(os.Stderr, "training mode: %v\n", err)
			return 1
		}
		return 0
	}

	store, err := config.NewStore(configPath, Logger().With("component", "config"))
	if err != nil {
		LogError("Failed to load configuration: %v", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	SetLogLevel(store.Current().Level())

	return NewBot(store).Run()
}
