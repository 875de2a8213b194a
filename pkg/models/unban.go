package models

import "time"

// PendingUnban is a temporary ban waiting to be lifted. It is persisted so the
// unban survives restarts; the sweeper processes it once DueAt has passed.
type PendingUnban struct {
	ID        string    `bson:"_id" json:"id"`
	GuildID   string    `bson:"guildId" json:"guildId"`
	UserID    string    `bson:"userId" json:"userId"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	DueAt     time.Time `bson:"dueAt" json:"dueAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// IsDue reports whether the unban should run at the given instant
func (p PendingUnban) IsDue(now time.Time) bool {
	return !p.DueAt.After(now)
}
