package model

import "time"

type VerificationStatus int

const (
	StatusUnverified VerificationStatus = iota
	StatusVerified
)

type Account struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Username     string `gorm:"not null" json:"username"`

	VerificationStatus VerificationStatus `gorm:"not null;default:0" json:"verification_status"`

	// Present only while the account is unverified. Cleared on verification.
	VerificationToken  *string    `gorm:"uniqueIndex" json:"-"`
	VerificationSentAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Account) Verified() bool {
	return a.VerificationStatus == StatusVerified
}
