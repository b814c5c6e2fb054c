package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("CONFIG", "")
	t.Setenv("API_URL", "")

	opts, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", opts.APIURL)
	assert.Equal(t, 10*time.Second, opts.Timeout)
	assert.Equal(t, "info", opts.LogLevel)
	assert.Empty(t, opts.SessionFile)
}

func TestParse_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.json")
	body := `{"api_url":"http://file/api","session_file":"s.json","timeout":"3s","log_level":"debug"}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("CONFIG", "")
	t.Setenv("API_URL", "http://env/api")

	opts, err := Parse([]string{"-c", path, "-url", "http://flag/api"})
	require.NoError(t, err)
	assert.Equal(t, "http://env/api", opts.APIURL)
	assert.Equal(t, "s.json", opts.SessionFile)
	assert.Equal(t, 3*time.Second, opts.Timeout)
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestParse_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	t.Setenv("CONFIG", path)

	_, err := Parse(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestParse_UnknownFlag(t *testing.T) {
	_, err := Parse([]string{"-nope"})
	assert.Error(t, err)
}
