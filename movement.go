// Package main - movement.go
//
// MovementCoordinator turns the combat controller's movement requests into
// backend input with human-like pacing.
//
// Control scheme (Flyff Universe):
//   - W/A/S/D: movement, Space: jump
//   - Left/Right arrow: camera rotation
//   - F1-F9 then 0-9: action bar slots
//   - Z: follow target, Escape: cancel target
//
// Every key event is followed by a 10ms pause so the client registers it.
// Backend errors are logged and dropped; a missed key press is corrected
// by the next tick.
package main

import (
	"time"

	"flyff-farm-bot/internal/clock"
	"flyff-farm-bot/internal/geom"
	"flyff-farm-bot/internal/slots"
)

const keyPacing = 10 * time.Millisecond

// MovementCoordinator implements combat.Movement on top of an InputBackend.
// Not safe for concurrent use.
type MovementCoordinator struct {
	input InputBackend
	clock clock.Clock
}

// NewMovementCoordinator returns a coordinator sending to input.
func NewMovementCoordinator(input InputBackend, clk clock.Clock) *MovementCoordinator {
	return &MovementCoordinator{input: input, clock: clk}
}

func (mc *MovementCoordinator) key(key string, mode KeyMode) {
	if err := mc.input.SendKey(key, mode); err != nil {
		LogWarn("Key %s %s failed: %v", mode, key, err)
	}
}

// PressKey taps key.
func (mc *MovementCoordinator) PressKey(key string) {
	mc.key(key, KeyPress)
	mc.clock.Sleep(keyPacing)
}

// HoldKeys presses every key down in order.
func (mc *MovementCoordinator) HoldKeys(keys []string) {
	for _, k := range keys {
		mc.key(k, KeyHold)
		mc.clock.Sleep(keyPacing)
	}
}

// ReleaseKeys lets go of every key in order.
func (mc *MovementCoordinator) ReleaseKeys(keys []string) {
	for _, k := range keys {
		mc.key(k, KeyRelease)
		mc.clock.Sleep(keyPacing)
	}
}

// HoldKeyFor holds key for d then releases it.
func (mc *MovementCoordinator) HoldKeyFor(key string, d time.Duration) {
	mc.key(key, KeyHold)
	mc.clock.Sleep(d)
	mc.key(key, KeyRelease)
}

// ClickTarget clicks p in frame coordinates.
func (mc *MovementCoordinator) ClickTarget(p geom.Point) {
	LogDebug("Clicking target at (%d, %d)", p.X, p.Y)
	if err := mc.input.Click(p.X, p.Y); err != nil {
		LogWarn("Click at (%d, %d) failed: %v", p.X, p.Y, err)
	}
}

// UseSlot fires the action bar slot at ref.
func (mc *MovementCoordinator) UseSlot(ref slots.Ref) {
	if !ref.Valid() {
		LogWarn("Invalid slot %v", ref)
		return
	}
	LogDebug("Using slot %v", ref)
	if err := mc.input.SendSlot(ref.Bar, ref.Index); err != nil {
		LogWarn("Slot %v failed: %v", ref, err)
	}
	mc.clock.Sleep(keyPacing)
}

// Wait pauses the control loop.
func (mc *MovementCoordinator) Wait(d time.Duration) {
	mc.clock.Sleep(d)
}

// StopAllMovement releases every movement key, used when farming stops
// mid-maneuver.
func (mc *MovementCoordinator) StopAllMovement() {
	mc.ReleaseKeys([]string{"w", "a", "s", "d", "space", "left", "right"})
}
