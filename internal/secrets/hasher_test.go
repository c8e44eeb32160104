package secrets

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLength: 32, SaltLength: 16})

	hashed, err := h.Hash("bank-secret")
	require.NoError(t, err)
	assert.NotContains(t, hashed, "bank-secret")
	assert.True(t, strings.HasPrefix(hashed, "$argon2id$v=19$m=8192,t=1,p=1$"), hashed)

	ok, err := h.Verify("bank-secret", hashed)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", hashed)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_SaltsDiffer(t *testing.T) {
	h := NewHasher(Params{Time: 1, Memory: 8 * 1024, Threads: 1})

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHasher_VerifyUsesStoredCost(t *testing.T) {
	old := NewHasher(Params{Time: 1, Memory: 8 * 1024, Threads: 1})
	hashed, err := old.Hash("4821")
	require.NoError(t, err)

	// the configured cost changed after the secret was stored
	current := NewHasher(Params{Time: 2, Memory: 16 * 1024, Threads: 2})

	ok, err := current.Verify("4821", hashed)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = current.Verify("1284", hashed)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_VerifyLegacyFormat(t *testing.T) {
	p := Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLength: 32}
	salt := []byte("0123456789abcdef")
	key := argon2.IDKey([]byte("4821"), salt, p.Time, p.Memory, p.Threads, p.KeyLength)
	legacy := base64.StdEncoding.EncodeToString(salt) + "$" + base64.StdEncoding.EncodeToString(key)

	ok, err := NewHasher(p).Verify("4821", legacy)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestHasher_VerifyMalformed(t *testing.T) {
	h := NewHasher(DefaultParams())

	t.Run("missing separator", func(t *testing.T) {
		ok, err := h.Verify("x", "nodollar")
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("other algorithm", func(t *testing.T) {
		ok, err := h.Verify("x", "$argon2i$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA")
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("zero parallelism", func(t *testing.T) {
		ok, err := h.Verify("x", "$argon2id$v=19$m=8,t=1,p=0$c2FsdA$aGFzaA")
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("bad base64", func(t *testing.T) {
		ok, err := h.Verify("x", "!!!$???")
		assert.Error(t, err)
		assert.False(t, ok)
	})
}
