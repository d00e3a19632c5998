// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/bizdesk/internal/platform/ctxutil"
)

// RunSweeper calls [Service.SweepExpired] every interval until ctx is cancelled.
func (service *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	logger := ctxutil.GetLogger(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("auth_store_sweeper_stopped")
			return
		case <-ticker.C:
			counts, err := service.SweepExpired(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "auth_store_sweep_failed", slog.Any("error", err))
				continue
			}
			logger.DebugContext(ctx, "auth_store_sweep_completed",
				slog.Int64("access_tokens", counts.AccessTokens),
				slog.Int64("sessions", counts.Sessions),
			)
		}
	}
}
