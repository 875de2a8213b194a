package warns

import (
	"testing"
	"time"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		count    int
		action   Action
		duration time.Duration
	}{
		{-1, ActionNone, 0},
		{0, ActionNone, 0},
		{1, ActionNone, 0},
		{2, ActionTimeout, 24 * time.Hour},
		{3, ActionTimeout, 7 * 24 * time.Hour},
		{4, ActionTimeout, 14 * 24 * time.Hour},
		{5, ActionBan, 0},
		{6, ActionBan, 0},
		{100, ActionBan, 0},
	}

	for _, tt := range tests {
		got := Decide(tt.count)
		if got.Action != tt.action || got.Duration != tt.duration {
			t.Errorf("Decide(%d) = %v, want %v/%v", tt.count, got, tt.action, tt.duration)
		}
	}
}

func TestDecideIsMonotonic(t *testing.T) {
	severity := func(o Outcome) time.Duration {
		if o.Action == ActionBan {
			return 1<<63 - 1
		}
		return o.Duration
	}

	prev := Decide(0)
	for n := 1; n <= 10; n++ {
		cur := Decide(n)
		if severity(cur) < severity(prev) {
			t.Errorf("Decide(%d) = %v is milder than Decide(%d) = %v", n, cur, n-1, prev)
		}
		prev = cur
	}
}

func TestActionString(t *testing.T) {
	tests := map[Action]string{
		ActionNone:    "none",
		ActionTimeout: "timeout",
		ActionBan:     "ban",
		Action(42):    "unknown",
	}
	for action, want := range tests {
		if got := action.String(); got != want {
			t.Errorf("Action(%d).String() = %q, want %q", int(action), got, want)
		}
	}
}

func TestFormatDays(t *testing.T) {
	if got := FormatDays(24 * time.Hour); got != "1 día" {
		t.Errorf("FormatDays(1d) = %q", got)
	}
	if got := FormatDays(14 * 24 * time.Hour); got != "14 días" {
		t.Errorf("FormatDays(14d) = %q", got)
	}
}
