package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophStay/internal/client/session"
	"github.com/atinyakov/GophStay/internal/config"
)

func TestOpenStorage_Memory(t *testing.T) {
	st, closeFn, err := openStorage(&config.Options{})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &session.MemoryStorage{}, st)
}

func TestOpenStorage_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	st, closeFn, err := openStorage(&config.Options{SessionFile: path})
	require.NoError(t, err)
	defer closeFn()
	require.NoError(t, st.Set(session.TokenKey, "tok"))

	reopened, closeFn2, err := openStorage(&config.Options{SessionFile: path})
	require.NoError(t, err)
	defer closeFn2()
	got, ok, err := reopened.Get(session.TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", got)
}

func TestOpenStorage_Encrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	st, closeFn, err := openStorage(&config.Options{SessionFile: path, Passphrase: "pw"})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &session.EncryptedStorage{}, st)
	require.NoError(t, st.Set(session.TokenKey, "tok"))

	plain, closeFn2, err := openStorage(&config.Options{SessionFile: path})
	require.NoError(t, err)
	defer closeFn2()
	raw, ok, err := plain.Get(session.TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEqual(t, "tok", raw)
}
