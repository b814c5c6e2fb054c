package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptedStorage_RoundTrip(t *testing.T) {
	inner := NewMemoryStorage()
	enc, err := NewEncryptedStorage(inner, "correct horse")
	require.NoError(t, err)

	exerciseStorage(t, enc)

	require.NoError(t, enc.Set(TokenKey, "secret-token"))
	raw, ok, err := inner.Get(TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "secret-token")

	got, ok, err := enc.Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "secret-token", got)
}

func TestEncryptedStorage_ReopenSamePassphrase(t *testing.T) {
	inner := NewMemoryStorage()
	first, err := NewEncryptedStorage(inner, "pw")
	require.NoError(t, err)
	require.NoError(t, first.Set(TokenKey, "tok"))

	second, err := NewEncryptedStorage(inner, "pw")
	require.NoError(t, err)
	got, ok, err := second.Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", got)
}

func TestEncryptedStorage_WrongPassphrase(t *testing.T) {
	inner := NewMemoryStorage()
	enc, err := NewEncryptedStorage(inner, "right")
	require.NoError(t, err)
	require.NoError(t, enc.Set(TokenKey, "tok"))

	other, err := NewEncryptedStorage(inner, "wrong")
	require.NoError(t, err)
	_, ok, err := other.Get(TokenKey)
	assert.ErrorIs(t, err, ErrDecrypt)
	assert.False(t, ok)

	// a session over unreadable storage is simply logged out
	s := NewStore(other)
	_, ok = s.Token()
	assert.False(t, ok)
}

func TestEncryptedStorage_ValueBoundToKey(t *testing.T) {
	inner := NewMemoryStorage()
	enc, err := NewEncryptedStorage(inner, "pw")
	require.NoError(t, err)
	require.NoError(t, enc.Set("a", "value"))

	raw, _, _ := inner.Get("a")
	require.NoError(t, inner.Set("b", raw))

	_, _, err = enc.Get("b")
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestEncryptedStorage_ClearKeepsSalt(t *testing.T) {
	inner := NewMemoryStorage()
	enc, err := NewEncryptedStorage(inner, "pw")
	require.NoError(t, err)
	require.NoError(t, enc.Clear())

	_, ok, err := inner.Get(saltKey)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, enc.Set(TokenKey, "after-clear"))
	again, err := NewEncryptedStorage(inner, "pw")
	require.NoError(t, err)
	got, _, err := again.Get(TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "after-clear", got)
}

func TestEncryptedStorage_EmptyPassphrase(t *testing.T) {
	_, err := NewEncryptedStorage(NewMemoryStorage(), "")
	assert.Error(t, err)
}
