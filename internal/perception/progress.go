package perception

import "time"

// ProgressBar tracks a stat bar as a percentage of the widest bar seen so far.
// The full width of a bar is unknown until it has been observed full once.
type ProgressBar struct {
	Value      int
	MaxW       int
	LastUpdate time.Time
}

// Update records a newly detected bar width. MaxW never shrinks. Value and
// LastUpdate only change when the computed percentage differs from the
// current one; the result reports whether that happened.
func (p *ProgressBar) Update(width int, now time.Time) bool {
	if width > p.MaxW {
		p.MaxW = width
	}

	value := 0
	if p.MaxW > 0 {
		value = min(width*100/p.MaxW, 100)
	}
	if value == p.Value {
		return false
	}

	p.Value = value
	p.LastUpdate = now
	return true
}

// SinceUpdate returns how long the value has been unchanged.
func (p *ProgressBar) SinceUpdate(now time.Time) time.Duration {
	return now.Sub(p.LastUpdate)
}

// ClientStats holds the stat bars of the player and of the selected target.
type ClientStats struct {
	HP       ProgressBar
	MP       ProgressBar
	FP       ProgressBar
	TargetHP ProgressBar
	TargetMP ProgressBar

	TargetOnScreen bool
}

// Bar returns the progress bar for s.
func (cs *ClientStats) Bar(s Stat) *ProgressBar {
	switch s {
	case StatHP:
		return &cs.HP
	case StatMP:
		return &cs.MP
	case StatFP:
		return &cs.FP
	case StatTargetHP:
		return &cs.TargetHP
	case StatTargetMP:
		return &cs.TargetMP
	}
	return nil
}

// IsAlive reports whether the player has HP left.
func (cs *ClientStats) IsAlive() bool {
	return cs.HP.Value > 0
}

// TargetIsNPC reports whether the selected target shows the synthetic full HP
// bar and empty MP bar NPCs render.
func (cs *ClientStats) TargetIsNPC() bool {
	return cs.TargetHP.Value == 100 && cs.TargetMP.Value == 0
}

// TargetIsMover reports whether the selected target is a mob or player.
func (cs *ClientStats) TargetIsMover() bool {
	return cs.TargetMP.Value > 0
}

// TargetIsAlive reports whether the selected target has HP left.
func (cs *ClientStats) TargetIsAlive() bool {
	return cs.TargetHP.Value > 0
}
