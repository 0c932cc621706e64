package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamServiceChanged = "stream:service:changed"
)

// ChangeAction - тип изменения записи
type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
)

// ServiceChangedEvent публикуется после каждой успешной записи в админке
type ServiceChangedEvent struct {
	EventID          uuid.UUID     `json:"event_id"`
	ServiceID        string        `json:"service_id"`
	Action           ChangeAction  `json:"action"`
	Category         Category      `json:"category"`
	PreviousCategory Category      `json:"previous_category,omitempty"`
	Status           ServiceStatus `json:"status"`
	OccurredAt       time.Time     `json:"occurred_at"`
}

// NewServiceChangedEvent создает событие по записи после изменения.
// previous - состояние до изменения (nil для created).
func NewServiceChangedEvent(action ChangeAction, svc *Service, previous *Service, at time.Time) ServiceChangedEvent {
	event := ServiceChangedEvent{
		EventID:    uuid.New(),
		ServiceID:  svc.ID,
		Action:     action,
		Category:   svc.Category,
		Status:     svc.Status,
		OccurredAt: at.UTC(),
	}
	if previous != nil && previous.Category != svc.Category {
		event.PreviousCategory = previous.Category
	}
	return event
}

// AffectedCategories - категории, счетчики которых надо пересчитать
func (e ServiceChangedEvent) AffectedCategories() []Category {
	categories := []Category{e.Category}
	if e.PreviousCategory != "" && e.PreviousCategory != e.Category {
		categories = append(categories, e.PreviousCategory)
	}
	return categories
}

// StreamMessage - сообщение из Redis Stream (JSON в поле data)
type StreamMessage struct {
	ID   string
	Data string
}
