package combat

import (
	"time"

	"flyff-farm-bot/internal/perception"
	"flyff-farm-bot/internal/slots"
)

const aoeHealCasts = 3

// checkRestorations fires at most one HP restoration, then the MP and FP
// restorers. Bars that were never observed are skipped.
func (c *Controller) checkRestorations(stats *perception.ClientStats) {
	if stats.HP.MaxW == 0 || !stats.IsAlive() {
		return
	}

	c.restoreHP(stats.HP.Value)

	if stats.MP.MaxW > 0 {
		c.restore(slots.MPRestorer, stats.MP.Value)
	}
	if stats.FP.MaxW > 0 {
		c.restore(slots.FPRestorer, stats.FP.Value)
	}
}

func (c *Controller) restoreHP(hp int) bool {
	if hp <= c.cfg.EmergencyHPFloor() && c.restore(slots.Pill, hp) {
		return true
	}
	if ref, ok := c.sched.Usable(slots.AOEHeal, hp); ok {
		for range aoeHealCasts {
			c.move.UseSlot(ref)
			c.move.Wait(aoeHealDelay)
		}
		c.sched.MarkUsed(ref)
		c.log.Debug("restored", "category", slots.AOEHeal, "slot", ref, "hp", hp)
		return true
	}
	return c.restore(slots.Heal, hp) || c.restore(slots.Food, hp)
}

func (c *Controller) restore(cat slots.Category, value int) bool {
	ref, ok := c.sched.Usable(cat, value)
	if !ok {
		return false
	}
	c.useSlot(ref)
	c.log.Debug("restored", "category", cat, "slot", ref, "value", value)
	return true
}

// buff fires every ready buff slot with a pause after each.
func (c *Controller) buff() {
	for _, ref := range c.sched.Table().Find(slots.Buff) {
		if !c.sched.Ready(ref) {
			continue
		}
		c.useSlot(ref)
		c.move.Wait(buffSlotDelay)
	}
	c.session.LastBuffAt = c.clock.Now()
}

// checkPet unsummons the pickup pet once its slot cooldown has passed.
func (c *Controller) checkPet() {
	s := &c.session
	if s.PetSummonedAt.IsZero() {
		return
	}
	refs := c.sched.Table().Find(slots.PickupPet)
	if len(refs) == 0 {
		s.PetSummonedAt = time.Time{}
		return
	}
	ref := refs[0]
	if c.clock.Now().Sub(s.PetSummonedAt) <= c.sched.Table().At(ref).EffectiveCooldown() {
		return
	}
	c.move.UseSlot(ref)
	c.sched.MarkUsed(ref)
	s.PetSummonedAt = time.Time{}
	c.log.Debug("pickup pet unsummoned", "slot", ref)
}
