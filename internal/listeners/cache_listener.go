package listeners

import (
	"context"

	"go.uber.org/zap"

	"office-docflow/internal/events"
	"office-docflow/pkg/eventbus"
)

// Invalidator - всё, что умеет сбрасывать закешированные счётчики.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// CacheListener сбрасывает кеш дашборда при появлении любой новой записи.
type CacheListener struct {
	dashboard Invalidator
	logger    *zap.Logger
}

func NewCacheListener(dashboard Invalidator, logger *zap.Logger) *CacheListener {
	return &CacheListener{dashboard: dashboard, logger: logger}
}

func (l *CacheListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RecordCreated, l.handle)
	l.logger.Info("CacheListener подписан на событие", zap.String("event", events.RecordCreated))
}

func (l *CacheListener) handle(ctx context.Context, event eventbus.Event) error {
	if _, ok := event.(events.RecordCreatedEvent); !ok {
		return nil
	}
	return l.dashboard.Invalidate(ctx)
}
