package model

import "time"

// SessionJti is one row of the session allow-list. A session token is only
// accepted while the row with its jti exists; sign-out deletes the row.
type SessionJti struct {
	ID        string    `gorm:"primaryKey"`
	AccountID string    `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

func (SessionJti) TableName() string {
	return "session_jtis"
}
