package clock

import (
	"testing"
	"time"
)

func TestMockAdvanceAndSleep(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMock(start)

	m.Advance(2 * time.Second)
	m.Sleep(500 * time.Millisecond)

	if got, want := m.Now(), start.Add(2500*time.Millisecond); !got.Equal(want) {
		t.Fatalf("Now = %v, want %v", got, want)
	}
	if m.Slept() != 500*time.Millisecond {
		t.Fatalf("Slept = %v, want 500ms", m.Slept())
	}
}

func TestMockSleepFiresTimers(t *testing.T) {
	m := NewMock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	timer := m.NewTimer(time.Second)

	m.Sleep(999 * time.Millisecond)
	select {
	case <-timer.Chan():
		t.Fatal("timer fired early")
	default:
	}

	m.Sleep(time.Millisecond)
	select {
	case <-timer.Chan():
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestRealSatisfiesClock(t *testing.T) {
	var c Clock = New()
	before := c.Now()
	c.Sleep(time.Millisecond)
	if !c.Now().After(before) {
		t.Fatal("real clock did not move forward")
	}
}

func TestMockSatisfiesClock(t *testing.T) {
	var _ Clock = NewMock(time.Time{})
}
