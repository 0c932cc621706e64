package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
)

const (
	// pendingID - сначала перечитываем свои неподтвержденные сообщения
	pendingID = "0"
	// newID - затем только новые сообщения группы
	newID = ">"

	blockTimeout = time.Second
	retryDelay   = time.Second
	defaultBatch = 10
)

type streamRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStreamRepository создает новый экземпляр StreamRepository
func NewStreamRepository(client *redis.Client, logger *zap.Logger) repository.StreamRepository {
	return &streamRepository{
		client: client,
		logger: logger,
	}
}

// CreateConsumerGroup создаёт consumer group для стрима
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	// "$" - группа получает только новые сообщения; MKSTREAM создает стрим при отсутствии
	err := r.client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			r.logger.Debug("Consumer group already exists",
				zap.String("stream", stream),
				zap.String("group", group))
			return nil
		}
		r.logger.Error("Failed to create consumer group",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	r.logger.Info("Consumer group created successfully",
		zap.String("stream", stream),
		zap.String("group", group))
	return nil
}

// ConsumeStream читает сообщения из стрима с использованием consumer group.
// После старта потребитель сначала получает свои неподтвержденные сообщения,
// затем переходит на новые. Канал закрывается при отмене ctx.
func (r *streamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string, batch int64) (<-chan domain.StreamMessage, error) {
	if batch <= 0 {
		batch = defaultBatch
	}
	msgChan := make(chan domain.StreamMessage, batch)

	go func() {
		defer close(msgChan)

		lastID := pendingID

		for {
			if ctx.Err() != nil {
				r.logger.Info("Stream consumer stopped",
					zap.String("stream", stream),
					zap.String("consumer", consumer))
				return
			}

			args := &redis.XReadGroupArgs{
				Group:    group,
				Consumer: consumer,
				Streams:  []string{stream, lastID},
				Count:    batch,
			}
			if lastID == newID {
				args.Block = blockTimeout
			}

			result, err := r.client.XReadGroup(ctx, args).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if ctx.Err() != nil {
					continue
				}
				r.logger.Error("Failed to read from stream",
					zap.String("stream", stream),
					zap.Error(err))
				sleep(ctx, retryDelay)
				continue
			}

			delivered := 0
			for _, s := range result {
				for _, msg := range s.Messages {
					delivered++
					if lastID != newID {
						lastID = msg.ID
					}

					data, ok := msg.Values["data"].(string)
					if !ok {
						// Сообщение без поля data не обработать; подтверждаем, чтобы не зациклиться
						r.logger.Warn("Message does not contain 'data' field",
							zap.String("message_id", msg.ID))
						_ = r.AckMessage(ctx, stream, group, msg.ID)
						continue
					}

					select {
					case msgChan <- domain.StreamMessage{ID: msg.ID, Data: data}:
						r.logger.Debug("Message sent to channel",
							zap.String("message_id", msg.ID))
					case <-ctx.Done():
						return
					}
				}
			}

			if lastID != newID && delivered == 0 {
				lastID = newID
			}
		}
	}()

	return msgChan, nil
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// AckMessage подтверждает обработку сообщения
func (r *streamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	err := r.client.XAck(ctx, stream, group, messageID).Err()
	if err != nil {
		r.logger.Error("Failed to acknowledge message",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.String("message_id", messageID),
			zap.Error(err))
		return fmt.Errorf("failed to acknowledge message: %w", err)
	}

	r.logger.Debug("Message acknowledged",
		zap.String("message_id", messageID))
	return nil
}

// PublishToStream публикует сообщение в стрим (JSON в поле "data")
func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error("Failed to marshal data",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	result, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data": string(jsonData),
		},
	}).Result()
	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Message published to stream",
		zap.String("stream", stream),
		zap.String("message_id", result))
	return nil
}
