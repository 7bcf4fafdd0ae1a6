package combat

import (
	"time"

	"flyff-farm-bot/internal/geom"
	"flyff-farm-bot/internal/slots"
)

// Movement is the input surface the controller drives. Key names are the
// symbolic names used by the client ("w", "space", "escape", ...).
type Movement interface {
	PressKey(key string)
	HoldKeys(keys []string)
	ReleaseKeys(keys []string)
	HoldKeyFor(key string, d time.Duration)
	ClickTarget(p geom.Point)
	UseSlot(ref slots.Ref)
	Wait(d time.Duration)
}

const (
	rotateStep        = 50 * time.Millisecond
	enemyFoundSettle  = 150 * time.Millisecond
	buffSlotDelay     = 1500 * time.Millisecond
	petSummonSettle   = 1500 * time.Millisecond
	pickupMotionDelay = 300 * time.Millisecond
	aoeHealDelay      = 100 * time.Millisecond
	jumpForward       = 800 * time.Millisecond
	strafeHold        = 200 * time.Millisecond
)

// rotate turns the camera right by one step.
func (c *Controller) rotate() {
	c.move.HoldKeyFor("right", rotateStep)
	c.move.Wait(rotateStep)
}

// circleMove runs forward while jumping and strafing so the character loops
// around its current area.
func (c *Controller) circleMove() {
	c.move.HoldKeys([]string{"w", "space", "d"})
	c.move.Wait(c.cfg.CircleMove())
	c.move.ReleaseKeys([]string{"d"})
	c.move.Wait(20 * time.Millisecond)
	c.move.ReleaseKeys([]string{"space", "w"})
	c.move.HoldKeyFor("s", 50*time.Millisecond)
}

// obstacleManeuver performs one unsticking attempt. The first attempt
// follows the target and jumps forward, later ones strafe in alternating
// directions.
func (c *Controller) obstacleManeuver(attempt int) {
	if attempt == 0 {
		c.move.PressKey("z")
		c.move.HoldKeys([]string{"w", "space"})
		c.move.Wait(jumpForward)
		c.move.ReleaseKeys([]string{"space", "w"})
		return
	}

	side := "a"
	if c.rng.Intn(2) == 1 {
		side = "d"
	}
	c.move.HoldKeys([]string{"w", "space"})
	c.move.HoldKeyFor(side, strafeHold)
	c.move.Wait(jumpForward)
	c.move.ReleaseKeys([]string{"space", "w"})
	c.move.PressKey("z")
}
