// Package account implements the credential store: account records and
// password verification on top of gorm.
package account

import (
	"context"
	"errors"
	"time"

	"keygate/auth-api/internal/model"
	"keygate/auth-api/pkg/security"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDuplicateEmail  = errors.New("email is already registered")
	ErrNotFound        = errors.New("account not found")
	ErrAlreadyVerified = errors.New("account is already verified")
	ErrTokenMismatch   = errors.New("verification token mismatch")
)

type Store struct {
	db    *gorm.DB
	argon *security.ArgonHash
}

func NewStore(db *gorm.DB, argon *security.ArgonHash) *Store {
	return &Store{db: db, argon: argon}
}

// FindByEmail looks up an account by its exact email. Emails are compared
// byte-exact, no case folding.
func (s *Store) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var acc model.Account

	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		First(&acc).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &acc, nil
}

// FindByVerificationToken looks up the account holding the given pending
// verification token.
func (s *Store) FindByVerificationToken(ctx context.Context, token string) (*model.Account, error) {
	var acc model.Account

	err := s.db.WithContext(ctx).
		Where("verification_token = ?", token).
		First(&acc).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &acc, nil
}

// Create hashes the password and inserts the account in a single statement.
// The unique index on email is the only duplicate check, so two concurrent
// sign-ups with the same email race at the database and exactly one wins.
func (s *Store) Create(ctx context.Context, email, username, password string) (*model.Account, error) {
	hash, err := s.argon.GenerateFromPassword(password)
	if err != nil {
		return nil, err
	}

	acc := model.Account{
		ID:                 uuid.NewString(),
		Email:              email,
		Username:           username,
		PasswordHash:       hash,
		VerificationStatus: model.StatusUnverified,
	}

	err = s.db.WithContext(ctx).Create(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return &acc, nil
}

// VerifyPassword runs a constant-time argon2id comparison.
func (s *Store) VerifyPassword(acc *model.Account, password string) bool {
	ok, err := s.argon.VerifyPasswd(password, acc.PasswordHash)
	if err != nil {
		return false
	}
	return ok
}

// VerifyDummy equalizes timing for sign-in attempts against unknown emails.
func (s *Store) VerifyDummy(password string) {
	s.argon.VerifyDummy(password)
}

// SetVerificationToken stores a fresh pending token on an unverified account.
func (s *Store) SetVerificationToken(ctx context.Context, accountID, token string, sentAt time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND verification_status = ?", accountID, model.StatusUnverified).
		Updates(map[string]any{
			"verification_token":   token,
			"verification_sent_at": sentAt,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrAlreadyVerified
	}

	return nil
}

// MarkVerified flips the account to VERIFIED and clears the token. The WHERE
// clause re-checks status and token so a concurrent or repeated verification
// affects zero rows instead of double-applying.
func (s *Store) MarkVerified(ctx context.Context, accountID, token string) error {
	res := s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND verification_status = ? AND verification_token = ?",
			accountID, model.StatusUnverified, token).
		Updates(map[string]any{
			"verification_status":  model.StatusVerified,
			"verification_token":   nil,
			"verification_sent_at": nil,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrTokenMismatch
	}

	return nil
}
