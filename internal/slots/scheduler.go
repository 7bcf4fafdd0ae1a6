package slots

import (
	"math/rand"
	"time"

	"flyff-farm-bot/internal/clock"
)

// NoThreshold skips the threshold check in Usable.
const NoThreshold = -1

// ThresholdJitter bounds the random amount added to a slot threshold before
// it is compared with the current stat value.
const ThresholdJitter = 5

// Usage holds the last activation time of every slot. A zero time means the
// slot is off cooldown.
type Usage [Bars][SlotsPerBar]time.Time

// Scheduler gates slot activations on cooldowns and thresholds. It is owned
// by a single behavior and not safe for concurrent use.
type Scheduler struct {
	table *Table
	usage Usage
	clock clock.Clock
	rng   *rand.Rand
}

// NewScheduler returns a scheduler over table.
func NewScheduler(table *Table, clk clock.Clock, rng *rand.Rand) *Scheduler {
	if table == nil {
		table = &Table{}
	}
	return &Scheduler{table: table, clock: clk, rng: rng}
}

// SetTable swaps the layout. Recorded activations are kept.
func (s *Scheduler) SetTable(table *Table) {
	if table == nil {
		table = &Table{}
	}
	s.table = table
}

// Table returns the current layout.
func (s *Scheduler) Table() *Table {
	return s.table
}

// Usable picks a slot of category c that is off cooldown and whose
// threshold, plus jitter, is at least threshold. Eligible slots are chosen
// from uniformly at random. Pass NoThreshold for categories that are not
// gated on a stat.
func (s *Scheduler) Usable(c Category, threshold int) (Ref, bool) {
	now := s.clock.Now()

	var eligible []Ref
	for _, ref := range s.table.Find(c) {
		slot := s.table.At(ref)
		if threshold != NoThreshold && slot.EffectiveThreshold()+s.rng.Intn(ThresholdJitter) < threshold {
			continue
		}
		if !s.ready(ref, slot, now) {
			continue
		}
		eligible = append(eligible, ref)
	}

	if len(eligible) == 0 {
		return Ref{}, false
	}
	return eligible[s.rng.Intn(len(eligible))], true
}

func (s *Scheduler) ready(ref Ref, slot Slot, now time.Time) bool {
	used := s.usage[ref.Bar][ref.Index]
	return used.IsZero() || now.Sub(used) >= slot.EffectiveCooldown()
}

// Ready reports whether the slot at ref is off cooldown.
func (s *Scheduler) Ready(ref Ref) bool {
	if !ref.Valid() {
		return false
	}
	return s.ready(ref, s.table.At(ref), s.clock.Now())
}

// MarkUsed records an activation of ref at the current time.
func (s *Scheduler) MarkUsed(ref Ref) {
	if !ref.Valid() {
		return
	}
	s.usage[ref.Bar][ref.Index] = s.clock.Now()
}

// lastUsed returns the recorded activation time, zero if none.
func (s *Scheduler) lastUsed(ref Ref) time.Time {
	if !ref.Valid() {
		return time.Time{}
	}
	return s.usage[ref.Bar][ref.Index]
}

// Sweep clears every activation whose cooldown has elapsed.
func (s *Scheduler) Sweep() {
	now := s.clock.Now()
	for bar := range s.usage {
		for idx, used := range s.usage[bar] {
			if used.IsZero() {
				continue
			}
			if now.Sub(used) >= s.table[bar][idx].EffectiveCooldown() {
				s.usage[bar][idx] = time.Time{}
			}
		}
	}
}

// Pending returns the remaining cooldown of every slot still cooling down.
func (s *Scheduler) Pending() map[Ref]time.Duration {
	now := s.clock.Now()
	out := make(map[Ref]time.Duration)
	for bar := range s.usage {
		for idx, used := range s.usage[bar] {
			if used.IsZero() {
				continue
			}
			if left := s.table[bar][idx].EffectiveCooldown() - now.Sub(used); left > 0 {
				out[Ref{Bar: bar, Index: idx}] = left
			}
		}
	}
	return out
}
