package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"keygate/auth-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.SessionJti{}))

	return NewLedger(db)
}

func TestIssueValidateRoundTrip(t *testing.T) {
	issuer := NewIssuer(newTestLedger(t), []byte("secret"), time.Hour)
	ctx := context.Background()

	token, jti, err := issuer.Issue(ctx, "acc-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	accountID, gotJti, err := issuer.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", accountID)
	assert.Equal(t, jti, gotJti)
}

func TestValidateWrongSecret(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	token, _, err := NewIssuer(ledger, []byte("right"), time.Hour).Issue(ctx, "acc-1")
	require.NoError(t, err)

	_, _, err = NewIssuer(ledger, []byte("wrong"), time.Hour).Validate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	issuer := NewIssuer(newTestLedger(t), []byte("secret"), -time.Minute)
	ctx := context.Background()

	token, _, err := issuer.Issue(ctx, "acc-1")
	require.NoError(t, err)

	_, _, err = issuer.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateGarbage(t *testing.T) {
	issuer := NewIssuer(newTestLedger(t), []byte("secret"), time.Hour)

	_, _, err := issuer.Validate(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevoke(t *testing.T) {
	ledger := newTestLedger(t)
	issuer := NewIssuer(ledger, []byte("secret"), time.Hour)
	ctx := context.Background()

	token, jti, err := issuer.Issue(ctx, "acc-1")
	require.NoError(t, err)

	require.NoError(t, issuer.Revoke(ctx, jti))

	// Signature and expiry still pass, the ledger says no.
	_, _, err = issuer.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Revoking twice is not an error.
	assert.NoError(t, issuer.Revoke(ctx, jti))
}

func TestActiveSessionCount(t *testing.T) {
	ledger := newTestLedger(t)
	issuer := NewIssuer(ledger, []byte("secret"), time.Hour)
	ctx := context.Background()

	n, err := ledger.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, jti1, err := issuer.Issue(ctx, "acc-1")
	require.NoError(t, err)
	_, _, err = issuer.Issue(ctx, "acc-1")
	require.NoError(t, err)

	n, err = ledger.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, issuer.Revoke(ctx, jti1))

	n, err = ledger.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPruneExpired(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Add(ctx, "jti-old", "acc-1", time.Now().Add(-time.Hour)))
	require.NoError(t, ledger.Add(ctx, "jti-live", "acc-1", time.Now().Add(time.Hour)))

	pruned, err := ledger.PruneExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	ok, err := ledger.Contains(ctx, "jti-live")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.Contains(ctx, "jti-old")
	require.NoError(t, err)
	assert.False(t, ok)
}
