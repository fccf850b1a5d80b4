// Package verification implements the one-time email verification flow.
package verification

import (
	"context"
	"errors"
	"time"

	"keygate/auth-api/internal/account"
	"keygate/auth-api/internal/model"
	"keygate/auth-api/internal/service"
	"keygate/auth-api/pkg/security"

	"go.uber.org/zap"
)

var ErrInvalidToken = errors.New("verification token is blank or unknown")

const tokenEntropy = 32

// Enqueuer hands a verification mail off for asynchronous delivery.
type Enqueuer interface {
	Enqueue(*service.VerificationMail) error
}

type Workflow struct {
	accounts *account.Store
	mail     Enqueuer
	ttl      time.Duration
}

func NewWorkflow(accounts *account.Store, mail Enqueuer, ttl time.Duration) *Workflow {
	return &Workflow{
		accounts: accounts,
		mail:     mail,
		ttl:      ttl,
	}
}

// Start generates an opaque token, stores it on the account and queues the
// verification mail. Mail delivery is fire-and-forget: a full queue is
// logged, not returned, so sign-up never fails on it.
func (w *Workflow) Start(ctx context.Context, acc *model.Account) (string, error) {
	token, err := security.GenerateOpaqueToken(tokenEntropy)
	if err != nil {
		return "", err
	}

	if err := w.accounts.SetVerificationToken(ctx, acc.ID, token, time.Now()); err != nil {
		return "", err
	}

	err = w.mail.Enqueue(&service.VerificationMail{
		To:       acc.Email,
		Username: acc.Username,
		Token:    token,
	})
	if err != nil {
		zap.L().Error("Failed to queue verification email",
			zap.String("accountID", acc.ID),
			zap.Error(err))
	}

	return token, nil
}

// Complete consumes a verification token. Blank tokens are rejected without
// touching the database. The token is single-use: MarkVerified clears it, so
// a second call with the same value fails.
func (w *Workflow) Complete(ctx context.Context, token string) (*model.Account, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	acc, err := w.accounts.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if acc.VerificationSentAt != nil && time.Since(*acc.VerificationSentAt) > w.ttl {
		return nil, ErrInvalidToken
	}

	if err := w.accounts.MarkVerified(ctx, acc.ID, token); err != nil {
		if errors.Is(err, account.ErrTokenMismatch) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	acc.VerificationStatus = model.StatusVerified
	acc.VerificationToken = nil
	acc.VerificationSentAt = nil

	return acc, nil
}
