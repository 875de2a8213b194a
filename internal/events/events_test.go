package events

import (
	"testing"
	"time"
)

func TestIsFreshJoin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		joinedAt time.Time
		want     bool
	}{
		{"just now", now, true},
		{"inside grace", now.Add(-5 * time.Second), true},
		{"at the edge", now.Add(-joinGrace), true},
		{"reconnect burst", now.Add(-time.Hour), false},
		{"zero time", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFreshJoin(tt.joinedAt, now); got != tt.want {
				t.Errorf("isFreshJoin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWelcomeEmbedPointsToHelp(t *testing.T) {
	embed := welcomeEmbed()
	if embed.Title == "" || len(embed.Fields) == 0 {
		t.Fatal("welcome embed should have a title and fields")
	}
}
