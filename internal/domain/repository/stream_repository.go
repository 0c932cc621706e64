package repository

import (
	"context"

	"github.com/service-directory/internal/domain"
)

// StreamRepository - Redis Streams для событий об изменениях справочника
type StreamRepository interface {
	// ConsumeStream читает сообщения из стрима пачками по batch штук
	ConsumeStream(ctx context.Context, stream, group, consumer string, batch int64) (<-chan domain.StreamMessage, error)

	// AckMessage подтверждает обработку сообщения
	AckMessage(ctx context.Context, stream, group, messageID string) error

	// CreateConsumerGroup создаёт consumer group (существующая группа не ошибка)
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// PublishToStream сериализует data в JSON и публикует в стрим
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
