package service

import (
	"context"
	"time"

	"keygate/auth-api/internal/model"
	"keygate/auth-api/internal/session"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func verificationTTL() time.Duration {
	return time.Duration(viper.GetInt("verification.ttl_minutes")) * time.Minute
}

// TokenCleanup periodically prunes session jtis past their natural expiry and
// verification tokens that were never used before theirs. Validate already
// rejects expired tokens from the signature payload, so pruning the ledger is
// purely garbage collection.
func TokenCleanup(t time.Duration, db *gorm.DB, ledger *session.Ledger) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Token cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			PruneExpired(db, ledger)
		}
	}()
}

// PruneExpired runs one cleanup pass.
func PruneExpired(db *gorm.DB, ledger *session.Ledger) {
	now := time.Now()

	pruned, err := ledger.PruneExpired(context.Background(), now)
	if err != nil {
		zap.L().Error("Failed to prune expired session jtis", zap.Error(err))
	} else if pruned > 0 {
		zap.L().Debug("Pruned expired session jtis", zap.Int64("count", pruned))
	}

	cutoff := now.Add(-verificationTTL())

	res := db.
		Model(&model.Account{}).
		Where("verification_status = ? AND verification_sent_at < ?", model.StatusUnverified, cutoff).
		Updates(map[string]any{
			"verification_token":   nil,
			"verification_sent_at": nil,
		})
	if res.Error != nil {
		zap.L().Error("Failed to clear stale verification tokens", zap.Error(res.Error))
	} else if res.RowsAffected > 0 {
		zap.L().Debug("Cleared stale verification tokens", zap.Int64("count", res.RowsAffected))
	}
}
