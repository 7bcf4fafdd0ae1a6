package combat

import (
	"time"

	"flyff-farm-bot/internal/geom"
	"flyff-farm-bot/internal/perception"
)

// AvoidedArea is a screen region excluded from target selection until
// Until.
type AvoidedArea struct {
	Bounds geom.Bounds
	Until  time.Time
}

// Session is the mutable state of one farming session.
type Session struct {
	StartedAt time.Time

	IsAttacking         bool
	LastInitialAttackAt time.Time
	LastKillAt          time.Time
	LastBuffAt          time.Time
	NoEnemySince        time.Time

	RotationAttempts int
	ObstacleAttempts int
	LastObstacleAt   time.Time
	AttackAttempts   int

	LastClick    geom.Point
	HasLastClick bool
	LastMarker   geom.Bounds
	HasMarker    bool

	Avoided []AvoidedArea

	KillCount      int
	StolenCount    int
	ConcurrentMobs int
	LastKilledType perception.MobType
	HasLastKill    bool
	LastSearchTime time.Duration
	LastTimeToKill time.Duration
	PetSummonedAt  time.Time
}

func newSession(now time.Time) Session {
	return Session{StartedAt: now, LastKillAt: now}
}

// avoid excludes b for d.
func (s *Session) avoid(b geom.Bounds, now time.Time, d time.Duration) {
	s.Avoided = append(s.Avoided, AvoidedArea{Bounds: b, Until: now.Add(d)})
}

// expireAvoided drops areas whose time is up.
func (s *Session) expireAvoided(now time.Time) {
	kept := s.Avoided[:0]
	for _, a := range s.Avoided {
		if now.Before(a.Until) {
			kept = append(kept, a)
		}
	}
	clear(s.Avoided[len(kept):])
	s.Avoided = kept
}

func (s *Session) avoidedBounds() []geom.Bounds {
	out := make([]geom.Bounds, len(s.Avoided))
	for i, a := range s.Avoided {
		out[i] = a.Bounds
	}
	return out
}

// Telemetry is the per-tick summary published for display.
type Telemetry struct {
	State          string  `json:"state"`
	IsAttacking    bool    `json:"is_attacking"`
	Kills          int     `json:"kills"`
	KillsPerMinute float64 `json:"kills_per_minute"`
	KillsPerHour   float64 `json:"kills_per_hour"`
	SearchTimeMs   int64   `json:"search_time_ms"`
	TimeToKillMs   int64   `json:"time_to_kill_ms"`
	Stolen         int     `json:"stolen"`
	AvoidedAreas   int     `json:"avoided_areas"`
	UptimeSeconds  int64   `json:"uptime_seconds"`

	// CooldownsMs maps slots still cooling down to the milliseconds left.
	CooldownsMs map[string]int64 `json:"cooldowns_ms,omitempty"`
}

func (s *Session) telemetry(state State, now time.Time) Telemetry {
	t := Telemetry{
		State:         state.Kind.String(),
		IsAttacking:   s.IsAttacking,
		Kills:         s.KillCount,
		SearchTimeMs:  s.LastSearchTime.Milliseconds(),
		TimeToKillMs:  s.LastTimeToKill.Milliseconds(),
		Stolen:        s.StolenCount,
		AvoidedAreas:  len(s.Avoided),
		UptimeSeconds: int64(now.Sub(s.StartedAt).Seconds()),
	}
	if elapsed := now.Sub(s.StartedAt); elapsed > 0 {
		t.KillsPerMinute = float64(s.KillCount) / elapsed.Minutes()
		t.KillsPerHour = float64(s.KillCount) / elapsed.Hours()
	}
	return t
}
