// Package session issues and validates signed session tokens and keeps the
// jti allow-list that backs revocation.
package session

import (
	"context"
	"errors"
	"time"

	"keygate/auth-api/internal/model"

	"gorm.io/gorm"
)

// Ledger is the persisted session allow-list. A jti is active while its row
// exists; Remove is how sign-out revokes a token.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) Add(ctx context.Context, jti, accountID string, expiresAt time.Time) error {
	return l.db.WithContext(ctx).Create(&model.SessionJti{
		ID:        jti,
		AccountID: accountID,
		ExpiresAt: expiresAt,
	}).Error
}

// Remove deletes the jti row. Removing a jti that is already gone is not an
// error, which makes revocation idempotent.
func (l *Ledger) Remove(ctx context.Context, jti string) error {
	return l.db.WithContext(ctx).
		Where("id = ?", jti).
		Delete(&model.SessionJti{}).
		Error
}

func (l *Ledger) Contains(ctx context.Context, jti string) (bool, error) {
	var row model.SessionJti

	err := l.db.WithContext(ctx).
		Select("id").
		Where("id = ?", jti).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// CountActive returns the number of live allow-list rows.
func (l *Ledger) CountActive(ctx context.Context) (int64, error) {
	var n int64

	err := l.db.WithContext(ctx).
		Model(&model.SessionJti{}).
		Count(&n).
		Error

	return n, err
}

// PruneExpired drops rows whose token has passed its natural expiry. Safe at
// any time: Validate rejects expired tokens from the signature payload before
// it ever consults the ledger.
func (l *Ledger) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	res := l.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.SessionJti{})

	return res.RowsAffected, res.Error
}
