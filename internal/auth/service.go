// Package auth is the orchestrator behind the HTTP surface. It composes the
// credential store, the session issuer and the verification workflow, and
// owns the credential-failure error the handlers map to 401.
package auth

import (
	"context"
	"errors"

	"keygate/auth-api/internal/account"
	"keygate/auth-api/internal/model"
	"keygate/auth-api/internal/session"
	"keygate/auth-api/internal/verification"

	"go.uber.org/zap"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
// The two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	accounts     *account.Store
	sessions     *session.Issuer
	verification *verification.Workflow
}

func NewService(accounts *account.Store, sessions *session.Issuer, vw *verification.Workflow) *Service {
	return &Service{
		accounts:     accounts,
		sessions:     sessions,
		verification: vw,
	}
}

// SignIn checks the credentials and issues a session token. When the email
// matches no account a dummy hash comparison is run anyway, so the two
// failure paths cost the same and both return ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, password string) (*model.Account, string, error) {
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			s.accounts.VerifyDummy(password)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !s.accounts.VerifyPassword(acc, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.sessions.Issue(ctx, acc.ID)
	if err != nil {
		return nil, "", err
	}

	return acc, token, nil
}

// SignUp creates the account, kicks off email verification and issues a
// session token so the fresh account is immediately signed in. Verification
// problems are logged, not returned: the account exists either way and the
// flow can be restarted.
func (s *Service) SignUp(ctx context.Context, email, username, password string) (*model.Account, string, error) {
	acc, err := s.accounts.Create(ctx, email, username, password)
	if err != nil {
		return nil, "", err
	}

	if _, err := s.verification.Start(ctx, acc); err != nil {
		zap.L().Error("Failed to start email verification",
			zap.String("accountID", acc.ID),
			zap.Error(err))
	}

	token, _, err := s.sessions.Issue(ctx, acc.ID)
	if err != nil {
		return nil, "", err
	}

	return acc, token, nil
}

// SignOut revokes the session behind the given jti. Revoking an already
// revoked jti is a no-op.
func (s *Service) SignOut(ctx context.Context, jti string) error {
	return s.sessions.Revoke(ctx, jti)
}

// VerifyEmail consumes a one-time verification token.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*model.Account, error) {
	return s.verification.Complete(ctx, token)
}
