package warns

import (
	"fmt"
	"time"
)

// Action is the automatic moderation action chosen by the escalation policy
type Action int

const (
	ActionNone Action = iota
	ActionTimeout
	ActionBan
)

// String returns the wire name of the action
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionTimeout:
		return "timeout"
	case ActionBan:
		return "ban"
	default:
		return "unknown"
	}
}

// Outcome is the result of evaluating the escalation policy. Duration is only
// meaningful for ActionTimeout; a ban is permanent.
type Outcome struct {
	Action   Action
	Duration time.Duration
}

// IsNone reports whether no action has to be executed
func (o Outcome) IsNone() bool {
	return o.Action == ActionNone
}

func (o Outcome) String() string {
	if o.Action == ActionTimeout {
		return fmt.Sprintf("timeout(%s)", o.Duration)
	}
	return o.Action.String()
}

const day = 24 * time.Hour

// BanThreshold is the live count from which a user gets banned
const BanThreshold = 5

// timeoutSteps maps a live count to its timeout. Each step is at least as harsh
// as the previous one.
var timeoutSteps = map[int]time.Duration{
	2: 1 * day,
	3: 7 * day,
	4: 14 * day,
}

// Decide maps the live warn count, including the warn just issued, to the
// action to apply. It is total over all integers: anything below 2 is no action.
func Decide(liveCount int) Outcome {
	if liveCount >= BanThreshold {
		return Outcome{Action: ActionBan}
	}
	if d, ok := timeoutSteps[liveCount]; ok {
		return Outcome{Action: ActionTimeout, Duration: d}
	}
	return Outcome{Action: ActionNone}
}
