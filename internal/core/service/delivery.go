package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunDeliveryLoop refreshes delivery state once immediately and then on
// every tick until ctx is done.
func (s *InventoryService) RunDeliveryLoop(ctx context.Context, interval time.Duration) {
	s.RefreshDeliveries(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("delivery loop stopped")
			return
		case <-ticker.C:
			if n := s.RefreshDeliveries(ctx); n > 0 {
				s.log.Info("delivery status advanced", zap.Int("products", n))
			}
		}
	}
}
