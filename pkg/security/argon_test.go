package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArgon() *ArgonHash {
	return &ArgonHash{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestGenerateAndVerify(t *testing.T) {
	a := testArgon()

	encoded, err := a.GenerateFromPassword("password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	ok, err := a.VerifyPasswd("password", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPasswd("wrong_password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashesAreSalted(t *testing.T) {
	a := testArgon()

	h1, err := a.GenerateFromPassword("password")
	require.NoError(t, err)
	h2, err := a.GenerateFromPassword("password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyMalformedHash(t *testing.T) {
	a := testArgon()

	_, err := a.VerifyPasswd("password", "not-a-phc-hash")
	assert.Error(t, err)
}

func TestVerifyDummy(t *testing.T) {
	// New seeds the dummy hash; VerifyDummy must not panic on it.
	New().VerifyDummy("anything")
}

func TestGenerateOpaqueToken(t *testing.T) {
	tok, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	assert.Len(t, tok, 64)

	tok2, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, tok, tok2)
}
