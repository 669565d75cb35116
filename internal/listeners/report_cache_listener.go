package listeners

import (
	"context"
	"fmt"

	"biomed-system/internal/events"
	"biomed-system/internal/repositories"
	"biomed-system/pkg/constants"
	"biomed-system/pkg/eventbus"

	"go.uber.org/zap"
)

// ReportCacheListener drops every cached annual report when the data behind it changes.
type ReportCacheListener struct {
	cache  repositories.CacheRepositoryInterface
	logger *zap.Logger
}

func NewReportCacheListener(cache repositories.CacheRepositoryInterface, logger *zap.Logger) *ReportCacheListener {
	return &ReportCacheListener{cache: cache, logger: logger}
}

func (l *ReportCacheListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.WorkOrderChanged, l.invalidate)
	bus.Subscribe(events.EquipmentChanged, l.invalidate)
	l.logger.Info("ReportCacheListener subscribed",
		zap.Strings("events", []string{events.WorkOrderChanged, events.EquipmentChanged}))
}

func (l *ReportCacheListener) invalidate(ctx context.Context, event eventbus.Event) error {
	deleted, err := l.cache.DelByPrefix(ctx, constants.CacheKeyAnnualReportPrefix)
	if err != nil {
		return fmt.Errorf("failed to invalidate annual report cache: %w", err)
	}
	l.logger.Debug("annual report cache invalidated",
		zap.String("event", event.Name()),
		zap.Int("deletedKeys", deleted),
	)
	return nil
}
