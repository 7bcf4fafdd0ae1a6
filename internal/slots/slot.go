// Package slots keeps the action-bar layout and decides which slot may fire.
//
// The client has nine slot bars (F1-F9) of ten slots each. A slot is bound to
// a category such as an attack skill or an HP pill and has a cooldown and an
// optional stat threshold.
package slots

import (
	"fmt"
	"strings"
	"time"
)

const (
	Bars        = 9
	SlotsPerBar = 10
)

// Category is what a slot does.
type Category int

const (
	Unused Category = iota
	Attack
	AOEAttack
	Buff
	Heal
	AOEHeal
	Rez
	Food
	Pill
	MPRestorer
	FPRestorer
	PickupPet
	PickupMotion
	categoryCount
)

var categoryNames = [...]string{
	"unused", "attack", "aoe_attack", "buff", "heal", "aoe_heal", "rez",
	"food", "pill", "mp_restorer", "fp_restorer", "pickup_pet", "pickup_motion",
}

var defaultCooldowns = [...]time.Duration{
	Unused:       0,
	Attack:       300 * time.Millisecond,
	AOEAttack:    300 * time.Millisecond,
	Buff:         1000 * time.Millisecond,
	Heal:         1500 * time.Millisecond,
	AOEHeal:      1500 * time.Millisecond,
	Rez:          5000 * time.Millisecond,
	Food:         2500 * time.Millisecond,
	Pill:         10000 * time.Millisecond,
	MPRestorer:   1500 * time.Millisecond,
	FPRestorer:   1500 * time.Millisecond,
	PickupPet:    3000 * time.Millisecond,
	PickupMotion: 1000 * time.Millisecond,
}

func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// DefaultCooldown is the cooldown used by slots that configure none.
func (c Category) DefaultCooldown() time.Duration {
	if c < 0 || c >= categoryCount {
		return 0
	}
	return defaultCooldowns[c]
}

// ParseCategory returns the category with the given name.
func ParseCategory(name string) (Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Unused, nil
	}
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return Unused, fmt.Errorf("slots: unknown category %q", name)
}

// MarshalText encodes the category as its name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Slot is the binding of one bar position.
type Slot struct {
	Category Category
	// Cooldown of zero falls back to the category default.
	Cooldown time.Duration
	// Threshold is the stat percentage at or below which the slot may fire.
	// Nil means no threshold.
	Threshold *int
	Enabled   bool
}

// EffectiveCooldown returns the configured cooldown or the category default.
func (s Slot) EffectiveCooldown() time.Duration {
	if s.Cooldown > 0 {
		return s.Cooldown
	}
	return s.Category.DefaultCooldown()
}

// EffectiveThreshold returns the configured threshold, or 100 when none is
// set so the slot is always eligible.
func (s Slot) EffectiveThreshold() int {
	if s.Threshold != nil {
		return *s.Threshold
	}
	return 100
}

// Ref addresses a slot by bar and position.
type Ref struct {
	Bar   int
	Index int
}

func (r Ref) String() string {
	return fmt.Sprintf("F%d-%d", r.Bar+1, r.Index)
}

// Valid reports whether the reference is inside the 9×10 grid.
func (r Ref) Valid() bool {
	return r.Bar >= 0 && r.Bar < Bars && r.Index >= 0 && r.Index < SlotsPerBar
}

// Table is the full bar layout. The zero value has every slot Unused.
type Table [Bars][SlotsPerBar]Slot

// At returns the slot at r. Out of range references yield an Unused slot.
func (t *Table) At(r Ref) Slot {
	if !r.Valid() {
		return Slot{}
	}
	return t[r.Bar][r.Index]
}

// Set binds r to s.
func (t *Table) Set(r Ref, s Slot) error {
	if !r.Valid() {
		return fmt.Errorf("slots: %v out of range", r)
	}
	t[r.Bar][r.Index] = s
	return nil
}

// Find returns every enabled slot of the category in bar order.
func (t *Table) Find(c Category) []Ref {
	var refs []Ref
	for bar := range t {
		for idx, s := range t[bar] {
			if s.Enabled && s.Category == c {
				refs = append(refs, Ref{Bar: bar, Index: idx})
			}
		}
	}
	return refs
}

// Has reports whether at least one enabled slot has the category.
func (t *Table) Has(c Category) bool {
	for bar := range t {
		for _, s := range t[bar] {
			if s.Enabled && s.Category == c {
				return true
			}
		}
	}
	return false
}
