package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	"github.com/service-directory/internal/usecase"
	"github.com/service-directory/internal/worker"
)

const (
	maxAttempts  = 3
	attemptDelay = 500 * time.Millisecond
)

// ChangeWorker читает stream:service:changed и применяет изменения:
// пересчет счетчиков категорий и обновление статистики.
type ChangeWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	applier      usecase.ChangeNotifier
	consumerName string
	batchSize    int64
	retryDelay   time.Duration
}

// NewChangeWorker создает ChangeWorker. applier - обычно InlineNotifier.
func NewChangeWorker(
	streamRepo repository.StreamRepository,
	applier usecase.ChangeNotifier,
	consumerGroup string,
	batchSize int64,
	logger *zap.Logger,
) *ChangeWorker {
	hostname, _ := os.Hostname()

	return &ChangeWorker{
		BaseWorker:   worker.NewBaseWorker("catalog-change", consumerGroup, logger),
		streamRepo:   streamRepo,
		applier:      applier,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		batchSize:    batchSize,
		retryDelay:   attemptDelay,
	}
}

// WithConsumerName задает стабильное имя потребителя (для повторной доставки после рестарта)
func (w *ChangeWorker) WithConsumerName(name string) *ChangeWorker {
	if name != "" {
		w.consumerName = name
	}
	return w
}

// Start запускает воркер; возвращается после Stop, отмены ctx или закрытия стрима
func (w *ChangeWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ChangeWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int64("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamServiceChanged, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.StopChan():
			cancel()
		case <-ctx.Done():
		}
	}()

	messages, err := w.streamRepo.ConsumeStream(ctx, domain.StreamServiceChanged, w.ConsumerGroup(), w.consumerName, w.batchSize)
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for msg := range messages {
		w.handle(ctx, msg)
	}

	logger.Info("ChangeWorker stopped")
	return nil
}

func (w *ChangeWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	event, err := parseMessage(msg)
	if err != nil {
		logger.Warn("Failed to parse message, skipping", zap.Error(err))
		// ACK битое сообщение чтобы не застревало
		_ = w.streamRepo.AckMessage(ctx, domain.StreamServiceChanged, w.ConsumerGroup(), msg.ID)
		return
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = w.applier.Notify(ctx, event)
		if err == nil {
			break
		}
		logger.Warn("Failed to apply service change",
			zap.Int("attempt", attempt),
			zap.String("service_id", event.ServiceID),
			zap.Error(err))
		if attempt < maxAttempts && !sleep(ctx, w.retryDelay) {
			return
		}
	}
	if err != nil {
		// Без ACK: сообщение останется в pending и будет перечитано после рестарта
		logger.Error("Service change left pending", zap.String("service_id", event.ServiceID))
		return
	}

	if err := w.streamRepo.AckMessage(ctx, domain.StreamServiceChanged, w.ConsumerGroup(), msg.ID); err != nil {
		logger.Error("Failed to ack message", zap.Error(err))
		return
	}

	logger.Debug("Service change applied",
		zap.String("service_id", event.ServiceID),
		zap.String("action", string(event.Action)))
}

// parseMessage парсит сообщение из стрима в ServiceChangedEvent
func parseMessage(msg domain.StreamMessage) (domain.ServiceChangedEvent, error) {
	var event domain.ServiceChangedEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return event, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.ServiceID == "" || !event.Category.IsValid() {
		return event, fmt.Errorf("incomplete event: service_id=%q category=%q", event.ServiceID, event.Category)
	}
	return event, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
