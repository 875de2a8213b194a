package models

import "time"

// WarnKey identifies the ledger entry a warn belongs to. Warns are scoped per
// guild, so the same user has independent ledgers in different servers.
type WarnKey struct {
	GuildID string `bson:"guildId" json:"guildId"`
	UserID  string `bson:"userId" json:"userId"`
}

// String returns "guildId:userId"
func (k WarnKey) String() string {
	return k.GuildID + ":" + k.UserID
}

// WarnRecord representa una advertencia individual.
// Records are immutable: they are only ever created or deleted.
type WarnRecord struct {
	ID          string    `bson:"id" json:"id"`
	GuildID     string    `bson:"guildId" json:"guildId"`
	UserID      string    `bson:"userId" json:"userId"`
	ModeratorID string    `bson:"moderator" json:"moderator"`
	Reason      string    `bson:"reason,omitempty" json:"reason,omitempty"`
	IssuedAt    time.Time `bson:"issuedAt" json:"issuedAt"`
}

// Key returns the ledger key of the record
func (w WarnRecord) Key() WarnKey {
	return WarnKey{GuildID: w.GuildID, UserID: w.UserID}
}

// WarnsDocument is the Mongo document stored in the "warns" collection:
// one document per guild+user with the warns embedded in issue order.
type WarnsDocument struct {
	GuildID string       `bson:"guildId" json:"guildId"`
	UserID  string       `bson:"userId" json:"userId"`
	Warns   []WarnRecord `bson:"warns" json:"warns"`
}
