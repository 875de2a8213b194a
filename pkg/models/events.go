package models

import "time"

// ModerationEventType names what happened to a user's ledger
type ModerationEventType string

const (
	EventWarnIssued   ModerationEventType = "warn_issued"
	EventWarnsRemoved ModerationEventType = "warns_removed"
	EventWarnsPruned  ModerationEventType = "warns_pruned"
	EventTempBan      ModerationEventType = "tempban"
	EventUnban        ModerationEventType = "unban"
)

// ModerationEvent is published to external listeners (MQTT) after a
// moderation state change.
type ModerationEvent struct {
	Type        ModerationEventType `json:"type"`
	GuildID     string              `json:"guildId"`
	UserID      string              `json:"userId"`
	ModeratorID string              `json:"moderatorId,omitempty"`
	Reason      string              `json:"reason,omitempty"`
	LiveCount   int                 `json:"liveCount"`
	Action      string              `json:"action,omitempty"`
	Duration    time.Duration       `json:"durationNs,omitempty"`
	ActionError string              `json:"actionError,omitempty"`
	At          time.Time           `json:"at"`
}
