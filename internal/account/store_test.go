package account

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"keygate/auth-api/internal/model"
	"keygate/auth-api/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Account{}))

	return NewStore(db, fastArgon())
}

// fastArgon keeps hashing cheap so tests don't burn 64 MiB per password.
func fastArgon() *security.ArgonHash {
	return &security.ArgonHash{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestCreateAndFindByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc, err := s.Create(ctx, "a@example.com", "alice", "password")
	require.NoError(t, err)
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, model.StatusUnverified, acc.VerificationStatus)
	assert.NotEqual(t, "password", acc.PasswordHash)

	found, err := s.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, found.ID)

	_, err = s.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "a@example.com", "alice", "password")
	require.NoError(t, err)

	_, err = s.Create(ctx, "a@example.com", "impostor", "password2")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestEmailIsCaseSensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "a@example.com", "alice", "password")
	require.NoError(t, err)

	// Different casing is a different email: a separate account, not a dup.
	acc, err := s.Create(ctx, "A@example.com", "other", "password")
	require.NoError(t, err)

	found, err := s.FindByEmail(ctx, "A@example.com")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, found.ID)
}

func TestVerifyPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc, err := s.Create(ctx, "a@example.com", "alice", "password")
	require.NoError(t, err)

	assert.True(t, s.VerifyPassword(acc, "password"))
	assert.False(t, s.VerifyPassword(acc, "wrong_password"))
}

func TestMarkVerified(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc, err := s.Create(ctx, "a@example.com", "alice", "password")
	require.NoError(t, err)

	require.NoError(t, s.SetVerificationToken(ctx, acc.ID, "tok-1", time.Now()))

	require.NoError(t, s.MarkVerified(ctx, acc.ID, "tok-1"))

	found, err := s.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.StatusVerified, found.VerificationStatus)
	assert.Nil(t, found.VerificationToken)

	// Token was cleared, a repeat is a mismatch.
	assert.ErrorIs(t, s.MarkVerified(ctx, acc.ID, "tok-1"), ErrTokenMismatch)
}

func TestMarkVerifiedTokenMismatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc, err := s.Create(ctx, "a@example.com", "alice", "password")
	require.NoError(t, err)

	require.NoError(t, s.SetVerificationToken(ctx, acc.ID, "tok-1", time.Now()))
	assert.ErrorIs(t, s.MarkVerified(ctx, acc.ID, "tok-2"), ErrTokenMismatch)
}

func TestSetVerificationTokenOnVerifiedAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc, err := s.Create(ctx, "a@example.com", "alice", "password")
	require.NoError(t, err)

	require.NoError(t, s.SetVerificationToken(ctx, acc.ID, "tok-1", time.Now()))
	require.NoError(t, s.MarkVerified(ctx, acc.ID, "tok-1"))

	assert.ErrorIs(t, s.SetVerificationToken(ctx, acc.ID, "tok-2", time.Now()), ErrAlreadyVerified)
}

func TestFindByVerificationToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acc, err := s.Create(ctx, "a@example.com", "alice", "password")
	require.NoError(t, err)
	require.NoError(t, s.SetVerificationToken(ctx, acc.ID, "tok-1", time.Now()))

	found, err := s.FindByVerificationToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, found.ID)

	_, err = s.FindByVerificationToken(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
