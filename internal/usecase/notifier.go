package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	"github.com/service-directory/internal/pkg/errors"
)

// ChangeNotifier получает событие после успешной записи в админке
type ChangeNotifier interface {
	Notify(ctx context.Context, event domain.ServiceChangedEvent) error
}

// InlineNotifier пересчитывает категории и статистику прямо в запросе
type InlineNotifier struct {
	categories *CategoryUseCase
	stats      *StatsUseCase
	logger     *zap.Logger
}

func NewInlineNotifier(categories *CategoryUseCase, stats *StatsUseCase, logger *zap.Logger) *InlineNotifier {
	return &InlineNotifier{
		categories: categories,
		stats:      stats,
		logger:     logger,
	}
}

func (n *InlineNotifier) Notify(ctx context.Context, event domain.ServiceChangedEvent) error {
	return ApplyChange(ctx, n.categories, n.stats, event)
}

// StreamNotifier публикует событие в Redis Stream; пересчет делает воркер
type StreamNotifier struct {
	streamRepo repository.StreamRepository
	logger     *zap.Logger
}

func NewStreamNotifier(streamRepo repository.StreamRepository, logger *zap.Logger) *StreamNotifier {
	return &StreamNotifier{
		streamRepo: streamRepo,
		logger:     logger,
	}
}

func (n *StreamNotifier) Notify(ctx context.Context, event domain.ServiceChangedEvent) error {
	if err := n.streamRepo.PublishToStream(ctx, domain.StreamServiceChanged, event); err != nil {
		return errors.Wrap(err, "publish service change")
	}
	n.logger.Debug("Service change published",
		zap.String("service_id", event.ServiceID),
		zap.String("action", string(event.Action)))
	return nil
}

// ApplyChange - реакция на изменение записи: счетчики затронутых категорий и свежая статистика
func ApplyChange(ctx context.Context, categories *CategoryUseCase, stats *StatsUseCase, event domain.ServiceChangedEvent) error {
	if err := categories.Recount(ctx, event.AffectedCategories()...); err != nil {
		return err
	}
	if _, err := stats.RefreshStatistics(ctx); err != nil {
		return err
	}
	return nil
}
