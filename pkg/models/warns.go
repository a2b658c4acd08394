package models

import "time"

// Warn representa una advertencia individual
type Warn struct {
	ID        string    `bson:"id" json:"id"`
	WarnedBy  int64     `bson:"warned_by" json:"warnedBy"`
	Reason    string    `bson:"reason" json:"reason"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// WarnsDocument representa el documento completo en la colección "warnings".
// Una entrada por (chat, usuario).
type WarnsDocument struct {
	ChatID int64  `bson:"chat_id" json:"chatId"`
	UserID int64  `bson:"user_id" json:"userId"`
	Count  int    `bson:"count" json:"count"`
	Warns  []Warn `bson:"warnings" json:"warnings"`
}

// Recent returns at most n of the latest warnings, oldest first
func (d *WarnsDocument) Recent(n int) []Warn {
	if d == nil || len(d.Warns) == 0 {
		return nil
	}
	if len(d.Warns) <= n {
		return d.Warns
	}
	return d.Warns[len(d.Warns)-n:]
}
