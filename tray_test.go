package main

import (
	"testing"

	"flyff-farm-bot/internal/combat"
)

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name string
		in   Status
		want string
	}{
		{"idle", Status{Mode: "stop"}, "Status: Mode: stop (Idle)"},
		{
			"farming",
			Status{Mode: "farming", Farming: combat.Telemetry{State: "Attacking", Kills: 12, KillsPerMinute: 2.5, UptimeSeconds: 330}},
			"Status: Attacking | 12 kills | 2.5/min | 5m30s",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusLine(tt.in); got != tt.want {
				t.Fatalf("statusLine = %q, want %q", got, tt.want)
			}
		})
	}
}
