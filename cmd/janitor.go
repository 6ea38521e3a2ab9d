package cmd

import (
	"context"
	"time"

	"appliance-store/internal/data/repository"

	"go.uber.org/zap"
)

// SessionJanitor purges old sessions every interval until ctx is done
func SessionJanitor(ctx context.Context, sessions repository.SessionRepository, interval time.Duration, logger *zap.Logger) {
	log := logger.With(zap.String("worker", "session_janitor"))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Session janitor stopped")
			return
		case <-ticker.C:
			removed, err := sessions.CleanExpiredSessions(ctx)
			if err != nil {
				log.Warn("Session cleanup failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				log.Info("Expired sessions removed", zap.Int64("count", removed))
			}
		}
	}
}
