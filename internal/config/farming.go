package config

import (
	"fmt"
	"time"

	"flyff-farm-bot/internal/slots"
)

// SlotConfig binds one action bar position.
type SlotConfig struct {
	Bar        int            `yaml:"bar"`
	Slot       int            `yaml:"slot"`
	Category   slots.Category `yaml:"category"`
	CooldownMs *int           `yaml:"cooldown_ms,omitempty"`
	Threshold  *int           `yaml:"threshold,omitempty"`
	Disabled   bool           `yaml:"disabled,omitempty"`
}

// Farming holds the slot layout and behavior toggles of the farming mode.
type Farming struct {
	Slots []SlotConfig `yaml:"slots"`

	PrioritizeAggressive bool `yaml:"prioritize_aggressive"`
	StayInArea           bool `yaml:"stay_in_area"`
	CircleMoveMs         int  `yaml:"circle_move_ms,omitempty"`
	StopFighting         bool `yaml:"stop_fighting"`
	MaxAOEFarming        int  `yaml:"max_aoe_farming,omitempty"`

	ObstacleAvoidanceCooldownMs int `yaml:"obstacle_avoidance_cooldown_ms,omitempty"`
	ObstacleAvoidanceMaxTries   int `yaml:"obstacle_avoidance_max_try,omitempty"`

	MinHPAttack    int `yaml:"min_hp_attack,omitempty"`
	EmergencyHP    int `yaml:"emergency_hp,omitempty"`
	BuffIntervalMs int `yaml:"buff_interval_ms,omitempty"`
	MobsTimeoutMs  int `yaml:"mobs_timeout_ms,omitempty"`

	PickupMotionCount int `yaml:"pickup_motion_count,omitempty"`
}

func (f *Farming) validate() []error {
	var errs []error
	seen := make(map[slots.Ref]bool)
	for i, s := range f.Slots {
		ref := slots.Ref{Bar: s.Bar, Index: s.Slot}
		if !ref.Valid() {
			errs = append(errs, fmt.Errorf("slots[%d]: bar %d slot %d out of range", i, s.Bar, s.Slot))
			continue
		}
		if seen[ref] {
			errs = append(errs, fmt.Errorf("slots[%d]: %v bound twice", i, ref))
		}
		seen[ref] = true
		if s.Threshold != nil && (*s.Threshold < 0 || *s.Threshold > 100) {
			errs = append(errs, fmt.Errorf("slots[%d]: threshold %d", i, *s.Threshold))
		}
		if s.CooldownMs != nil && *s.CooldownMs < 0 {
			errs = append(errs, fmt.Errorf("slots[%d]: cooldown_ms %d", i, *s.CooldownMs))
		}
	}
	for name, v := range map[string]int{"min_hp_attack": f.MinHPAttack, "emergency_hp": f.EmergencyHP} {
		if v < 0 || v > 100 {
			errs = append(errs, fmt.Errorf("%s %d", name, v))
		}
	}
	return errs
}

// SlotTable converts the slot list to the 9×10 layout. Positions left out
// of the list stay Unused.
func (f *Farming) SlotTable() *slots.Table {
	var table slots.Table
	for _, s := range f.Slots {
		slot := slots.Slot{
			Category:  s.Category,
			Threshold: s.Threshold,
			Enabled:   !s.Disabled && s.Category != slots.Unused,
		}
		if s.CooldownMs != nil {
			slot.Cooldown = time.Duration(*s.CooldownMs) * time.Millisecond
		}
		// Validate rejected out of range references already.
		_ = table.Set(slots.Ref{Bar: s.Bar, Index: s.Slot}, slot)
	}
	return &table
}

// CircleMove returns how long one circle step holds the strafe key.
func (f *Farming) CircleMove() time.Duration {
	return msOr(f.CircleMoveMs, 1200*time.Millisecond)
}

// AOECap returns how many mobs are pulled before fighting, 1 when area
// farming is off.
func (f *Farming) AOECap() int {
	if f.MaxAOEFarming <= 1 {
		return 1
	}
	return f.MaxAOEFarming
}

// ObstacleAvoidanceCooldown returns how long the target HP may stay
// unchanged before the bot assumes it is stuck.
func (f *Farming) ObstacleAvoidanceCooldown() time.Duration {
	return msOr(f.ObstacleAvoidanceCooldownMs, 3500*time.Millisecond)
}

// ObstacleAvoidanceMaxTry returns how many maneuvers run before giving up.
func (f *Farming) ObstacleAvoidanceMaxTry() int {
	if f.ObstacleAvoidanceMaxTries <= 0 {
		return 3
	}
	return f.ObstacleAvoidanceMaxTries
}

// MinHPToAttack returns the HP percentage below which aggressive mobs are
// not preferred, 50 when unset.
func (f *Farming) MinHPToAttack() int {
	if f.MinHPAttack <= 0 {
		return 50
	}
	return f.MinHPAttack
}

// EmergencyHPFloor returns the HP percentage below which pills are used,
// 15 when unset.
func (f *Farming) EmergencyHPFloor() int {
	if f.EmergencyHP <= 0 {
		return 15
	}
	return f.EmergencyHP
}

// BuffInterval returns the rebuff period. Zero disables rebuffing.
func (f *Farming) BuffInterval() time.Duration {
	return msOr(f.BuffIntervalMs, 0)
}

// MobsTimeout returns the longest time without finding a mob before the
// session ends. Zero disables the timeout.
func (f *Farming) MobsTimeout() time.Duration {
	return msOr(f.MobsTimeoutMs, 0)
}

// PickupMotions returns how often the pickup motion fires after a kill.
func (f *Farming) PickupMotions() int {
	if f.PickupMotionCount <= 0 {
		return 3
	}
	return f.PickupMotionCount
}

func msOr(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
