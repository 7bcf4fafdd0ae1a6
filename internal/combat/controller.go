package combat

import (
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"flyff-farm-bot/internal/clock"
	"flyff-farm-bot/internal/config"
	"flyff-farm-bot/internal/perception"
	"flyff-farm-bot/internal/slots"
)

// Controller runs the farming state machine. Call Tick once per analyzed
// frame from a single goroutine.
type Controller struct {
	move  Movement
	clock clock.Clock
	rng   *rand.Rand
	log   *slog.Logger

	cfg   config.Farming
	sched *slots.Scheduler

	state   State
	session Session

	telemetry atomic.Pointer[Telemetry]
}

// NewController returns a controller in the Buffing state with an empty
// slot table. Call Configure before the first tick.
func NewController(move Movement, clk clock.Clock, rng *rand.Rand, log *slog.Logger) *Controller {
	c := &Controller{
		move:  move,
		clock: clk,
		rng:   rng,
		log:   log,
		sched: slots.NewScheduler(nil, clk, rng),
	}
	c.Reset()
	return c
}

// Configure applies a farming configuration. Slot usage history survives
// a reconfiguration.
func (c *Controller) Configure(f config.Farming) {
	c.cfg = f
	c.sched.SetTable(f.SlotTable())
}

// Reset starts a new session in the Buffing state.
func (c *Controller) Reset() {
	now := c.clock.Now()
	c.state = stateOf(Buffing)
	c.session = newSession(now)
	c.publish(now)
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Session returns a copy of the session counters.
func (c *Controller) Session() Session {
	s := c.session
	s.Avoided = append([]AvoidedArea(nil), c.session.Avoided...)
	return s
}

// Scheduler exposes the slot scheduler driving activations.
func (c *Controller) Scheduler() *slots.Scheduler {
	return c.sched
}

// Telemetry returns the summary published by the last tick. Safe for
// concurrent use.
func (c *Controller) Telemetry() Telemetry {
	if t := c.telemetry.Load(); t != nil {
		return *t
	}
	return Telemetry{}
}

// Tick runs the prologue and one transition against snap. The only error
// is ErrSearchTimeout, which ends the session.
func (c *Controller) Tick(snap perception.Snapshot) (State, error) {
	now := c.clock.Now()

	c.sched.Sweep()
	c.checkPet()
	c.session.expireAvoided(now)

	stats := &snap.Stats
	if stats.HP.MaxW > 0 && !stats.IsAlive() {
		c.log.Warn("player is dead, holding state", "state", c.state)
		c.publish(now)
		return c.state, nil
	}
	c.checkRestorations(stats)

	prev := c.state
	next, err := c.transition(snap)
	if err != nil {
		c.log.Error("farming stopped", "err", err, "state", prev)
		c.publish(c.clock.Now())
		return c.state, err
	}
	c.state = next
	if next.Kind != prev.Kind {
		c.log.Debug("state changed", "from", prev, "to", next)
	}
	c.publish(c.clock.Now())
	return next, nil
}

func (c *Controller) transition(snap perception.Snapshot) (State, error) {
	switch c.state.Kind {
	case Buffing:
		return c.onBuffing(&snap.Stats), nil
	case NoEnemyFound:
		return c.onNoEnemyFound()
	case SearchingForEnemy:
		return c.onSearching(snap), nil
	case EnemyFound:
		return c.onEnemyFound(c.state.Target), nil
	case Attacking:
		return c.onAttacking(snap, c.state.Target), nil
	case AfterEnemyKill:
		return c.afterEnemyKill(c.state.Target), nil
	}
	return stateOf(SearchingForEnemy), nil
}

func (c *Controller) publish(now time.Time) {
	t := c.session.telemetry(c.state, now)
	if pending := c.sched.Pending(); len(pending) > 0 {
		t.CooldownsMs = make(map[string]int64, len(pending))
		for ref, left := range pending {
			t.CooldownsMs[ref.String()] = left.Milliseconds()
		}
	}
	c.telemetry.Store(&t)
}

// useSlot activates ref and records it with the scheduler.
func (c *Controller) useSlot(ref slots.Ref) {
	c.move.UseSlot(ref)
	c.sched.MarkUsed(ref)
}
