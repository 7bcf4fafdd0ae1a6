package combat

import (
	"time"

	"flyff-farm-bot/internal/geom"
	"flyff-farm-bot/internal/perception"
	"flyff-farm-bot/internal/slots"
)

const (
	maxRotationAttempts = 30

	searchRadius = 325.0
	patrolRadius = 1000.0

	// A lone aggressive mob of the last killed type is skipped for this
	// long after a kill unless HP is low.
	baitWindow = 5 * time.Second

	aoeSkillRange = 75.0

	markerAvoidDuration = 2 * time.Second
	clickAvoidDuration  = 5 * time.Second
	markerGrowPerAttack = 10
)

func (c *Controller) onBuffing(stats *perception.ClientStats) State {
	c.buff()
	c.checkRestorations(stats)
	return stateOf(NoEnemyFound)
}

func (c *Controller) onNoEnemyFound() (State, error) {
	s := &c.session
	now := c.clock.Now()

	if s.NoEnemySince.IsZero() {
		s.NoEnemySince = now
	} else if timeout := c.cfg.MobsTimeout(); timeout > 0 && now.Sub(s.NoEnemySince) > timeout {
		return stateOf(NoEnemyFound), ErrSearchTimeout
	}

	if s.RotationAttempts < maxRotationAttempts {
		c.rotate()
		s.RotationAttempts++
		return stateOf(SearchingForEnemy), nil
	}

	if c.cfg.StayInArea {
		c.circleMove()
		return stateOf(SearchingForEnemy), nil
	}

	s.RotationAttempts = 0
	return stateOf(NoEnemyFound), nil
}

func (c *Controller) onSearching(snap perception.Snapshot) State {
	c.checkRestorations(&snap.Stats)

	if c.cfg.StopFighting {
		return withTarget(Attacking, perception.Target{})
	}

	candidates := c.prioritize(snap.Mobs, snap.Stats.HP.Value)

	radius := searchRadius
	if c.cfg.StayInArea {
		radius = patrolRadius
	}
	target, ok := perception.NearestMob(candidates, snap.Center, radius, c.session.avoidedBounds())
	if !ok {
		return stateOf(NoEnemyFound)
	}
	return withTarget(EnemyFound, target)
}

// prioritize narrows mobs to aggressive ones when configured. A single
// aggressive mob right after killing one of the same type is ignored while
// HP is high, which breaks pull loops around a spawn.
func (c *Controller) prioritize(mobs []perception.Target, hp int) []perception.Target {
	if !c.cfg.PrioritizeAggressive {
		return mobs
	}

	var passive, aggressive []perception.Target
	for _, m := range mobs {
		if m.Mob == perception.MobAggressive {
			aggressive = append(aggressive, m)
		} else {
			passive = append(passive, m)
		}
	}

	s := &c.session
	bait := len(aggressive) == 1 &&
		s.HasLastKill &&
		s.LastKilledType == perception.MobAggressive &&
		c.clock.Now().Sub(s.LastKillAt) < baitWindow &&
		hp > c.cfg.MinHPToAttack()
	if len(aggressive) == 0 || bait {
		return passive
	}
	return aggressive
}

func (c *Controller) onEnemyFound(t perception.Target) State {
	s := &c.session
	s.NoEnemySince = time.Time{}
	s.RotationAttempts = 0

	coords := t.AttackCoords()
	s.LastClick, s.HasLastClick = coords, true
	c.move.ClickTarget(coords)
	c.move.Wait(enemyFoundSettle)
	return withTarget(Attacking, t)
}

func (c *Controller) onAttacking(snap perception.Snapshot, t perception.Target) State {
	s := &c.session
	stats := &snap.Stats
	now := c.clock.Now()

	if !s.IsAttacking && (stats.TargetIsNPC() || !stats.TargetIsMover()) {
		c.avoidLastClick()
		return stateOf(SearchingForEnemy)
	}

	switch {
	case stats.TargetIsAlive() && (s.IsAttacking || stats.TargetIsMover()):
		return c.engage(snap, t, now)

	case !stats.TargetIsAlive() && s.IsAttacking && stats.IsAlive():
		s.LastKilledType, s.HasLastKill = t.Mob, true
		s.IsAttacking = false
		c.checkRestorations(stats)
		if interval := c.cfg.BuffInterval(); interval > 0 && now.Sub(s.LastBuffAt) >= interval {
			c.buff()
		}
		s.ConcurrentMobs = 0
		return withTarget(AfterEnemyKill, t)
	}

	s.IsAttacking = false
	return stateOf(SearchingForEnemy)
}

func (c *Controller) engage(snap perception.Snapshot, t perception.Target, now time.Time) State {
	s := &c.session
	stats := &snap.Stats

	if !s.IsAttacking {
		s.IsAttacking = true
		s.ObstacleAttempts = 0
		s.AttackAttempts = 0
		s.LastInitialAttackAt = now
		s.LastObstacleAt = time.Time{}

		if c.cfg.AOECap() == 1 && !c.cfg.StopFighting && t.Mob == perception.MobPassive && stats.TargetHP.Value < 100 {
			s.StolenCount++
			c.log.Info("target already engaged by someone else", "target", t, "target_hp", stats.TargetHP.Value)
			s.IsAttacking = false
			c.avoidLastClick()
			c.move.PressKey("escape")
			return stateOf(SearchingForEnemy)
		}
	}

	if snap.HasMarker {
		s.LastMarker, s.HasMarker = snap.Marker.Bounds, true
	}

	// Support only: stay on the target without moving or attacking.
	if c.cfg.StopFighting {
		return withTarget(Attacking, t)
	}

	last := stats.TargetHP.LastUpdate
	if s.LastObstacleAt.After(last) {
		last = s.LastObstacleAt
	}
	if !snap.HasMarker || now.Sub(last) > c.cfg.ObstacleAvoidanceCooldown() {
		tries := c.cfg.ObstacleAvoidanceMaxTry()
		if stats.TargetHP.Value == 100 {
			tries = min(tries, 2)
		}
		if s.ObstacleAttempts >= tries {
			c.log.Info("target unreachable, giving up", "target", t, "attempts", s.ObstacleAttempts)
			return c.abortAttack()
		}
		c.obstacleManeuver(s.ObstacleAttempts)
		s.ObstacleAttempts++
		s.LastObstacleAt = c.clock.Now()
	}

	attacked := false
	if ref, ok := c.sched.Usable(slots.Attack, slots.NoThreshold); ok {
		c.useSlot(ref)
		s.AttackAttempts++
		attacked = true
	}

	// Until the pull is complete every mob gets a single hit.
	if aoeCap := c.cfg.AOECap(); aoeCap > 1 && s.ConcurrentMobs < aoeCap {
		if attacked {
			s.ConcurrentMobs++
			return c.abortAttack()
		}
		return withTarget(Attacking, t)
	}

	if snap.HasMarker && snap.MarkerDistance < aoeSkillRange {
		if ref, ok := c.sched.Usable(slots.AOEAttack, slots.NoThreshold); ok {
			c.useSlot(ref)
		}
	}
	return withTarget(Attacking, t)
}

// abortAttack leaves the current target. The area around the last marker
// is avoided, growing with the number of attacks that did not land.
func (c *Controller) abortAttack() State {
	s := &c.session
	now := c.clock.Now()
	if s.AttackAttempts > 0 && s.HasMarker {
		s.avoid(s.LastMarker.GrowBy(s.AttackAttempts*markerGrowPerAttack), now, markerAvoidDuration)
	} else {
		s.ObstacleAttempts = 0
		c.avoidLastClick()
	}
	s.IsAttacking = false
	c.move.PressKey("escape")
	return stateOf(SearchingForEnemy)
}

func (c *Controller) avoidLastClick() {
	s := &c.session
	if !s.HasLastClick {
		return
	}
	box := geom.Rect(max(s.LastClick.X-1, 0), max(s.LastClick.Y-1, 0), 2, 2)
	s.avoid(box, c.clock.Now(), clickAvoidDuration)
}

func (c *Controller) afterEnemyKill(t perception.Target) State {
	s := &c.session
	now := c.clock.Now()

	s.LastTimeToKill = now.Sub(s.LastInitialAttackAt)
	s.LastSearchTime = s.LastInitialAttackAt.Sub(s.LastKillAt)
	s.KillCount++
	s.StolenCount = 0
	s.LastKillAt = now

	c.pickup()
	s.ConcurrentMobs = 0

	tel := s.telemetry(c.state, now)
	c.log.Info("mob killed",
		"target", t,
		"kills", s.KillCount,
		"time_to_kill", s.LastTimeToKill,
		"search_time", s.LastSearchTime,
		"kills_per_minute", tel.KillsPerMinute,
		"kills_per_hour", tel.KillsPerHour,
	)
	return stateOf(SearchingForEnemy)
}

// pickup collects loot with the pet if one is bound, otherwise with the
// pickup motion.
func (c *Controller) pickup() {
	s := &c.session
	if ref, ok := c.sched.Usable(slots.PickupPet, slots.NoThreshold); ok && s.PetSummonedAt.IsZero() {
		c.useSlot(ref)
		s.PetSummonedAt = c.clock.Now()
		c.move.Wait(petSummonSettle)
		return
	}
	if c.sched.Table().Has(slots.PickupPet) {
		return
	}
	ref, ok := c.sched.Usable(slots.PickupMotion, slots.NoThreshold)
	if !ok {
		return
	}
	for range c.cfg.PickupMotions() {
		c.move.UseSlot(ref)
		c.move.Wait(pickupMotionDelay)
	}
	c.sched.MarkUsed(ref)
}
