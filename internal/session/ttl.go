package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/nexuscoach/nexuscoach/internal/domain"
)

const sweepInterval = 5 * time.Minute

// ArchiveFunc receives an expired session for durable logging. Failures
// are the archiver's to log; the sweeper never retries.
type ArchiveFunc func(ctx context.Context, session *domain.Session)

// StartTTLWorker runs a background goroutine that periodically removes
// idle sessions from the live store and hands them to the archiver.
func StartTTLWorker(ctx context.Context, m *Manager, ttl time.Duration, archive ArchiveFunc) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("session TTL worker started", "interval", sweepInterval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				sweep(ctx, m, ttl, archive)
			case <-ctx.Done():
				slog.Info("session TTL worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweep(ctx context.Context, m *Manager, ttl time.Duration, archive ArchiveFunc) {
	expired := m.Expire(ttl, time.Now())
	if len(expired) == 0 {
		return
	}

	slog.Info("session TTL worker found idle sessions", "count", len(expired))
	for _, s := range expired {
		if archive != nil {
			archive(ctx, s)
		}
	}
}
