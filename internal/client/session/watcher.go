package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartExpiryWatcher clears the stored token once it expires, checking every
// interval until ctx is done.
func StartExpiryWatcher(
	ctx context.Context,
	store *Store,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, ok := store.Token(); !ok || !store.IsTokenExpired() {
					continue
				}
				if err := store.Logout(); err != nil {
					log.Error("failed to clear expired session", zap.Error(err))
					continue
				}
				log.Info("session expired, token cleared")
			}
		}
	}()
}
