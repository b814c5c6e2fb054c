package session

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// syncBuffer guards a bytes.Buffer shared with the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func bufferedLogger(buf *syncBuffer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(buf),
		zapcore.InfoLevel,
	)
	return zap.New(core)
}

func TestStartExpiryWatcher_ClearsExpired(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Login(mintToken(t, map[string]any{"exp": fixedNow.Add(-time.Second).Unix()})))

	var buf syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartExpiryWatcher(ctx, s, 10*time.Millisecond, bufferedLogger(&buf))

	assert.Eventually(t, func() bool {
		_, ok := s.Token()
		return !ok
	}, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "session expired, token cleared")
	}, time.Second, 10*time.Millisecond)
}

func TestStartExpiryWatcher_KeepsValid(t *testing.T) {
	s := newTestStore()
	tok := mintToken(t, map[string]any{"exp": fixedNow.Add(time.Hour).Unix()})
	require.NoError(t, s.Login(tok))

	ctx, cancel := context.WithCancel(context.Background())
	StartExpiryWatcher(ctx, s, 10*time.Millisecond, zap.NewNop())
	time.Sleep(60 * time.Millisecond)
	cancel()

	got, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, tok, got)
}

func TestStartExpiryWatcher_CancelBeforeTick(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Login(mintToken(t, map[string]any{"exp": fixedNow.Add(-time.Hour).Unix()})))

	ctx, cancel := context.WithCancel(context.Background())
	StartExpiryWatcher(ctx, s, 100*time.Millisecond, zap.NewNop())
	cancel()
	time.Sleep(150 * time.Millisecond)

	_, ok := s.Token()
	assert.True(t, ok)
}
