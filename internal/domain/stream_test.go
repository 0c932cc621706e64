package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewServiceChangedEvent(t *testing.T) {
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.FixedZone("EET", 2*60*60))

	tests := []struct {
		name       string
		action     ChangeAction
		svc        *Service
		previous   *Service
		categories []Category
	}{
		{
			name:       "created service affects its category",
			action:     ActionCreated,
			svc:        &Service{ID: "a1", Category: CategoryCafe, Status: StatusActive},
			categories: []Category{CategoryCafe},
		},
		{
			name:       "category change affects both categories",
			action:     ActionUpdated,
			svc:        &Service{ID: "a1", Category: CategoryBakery, Status: StatusActive},
			previous:   &Service{ID: "a1", Category: CategoryCafe, Status: StatusActive},
			categories: []Category{CategoryBakery, CategoryCafe},
		},
		{
			name:       "status change keeps single category",
			action:     ActionUpdated,
			svc:        &Service{ID: "a1", Category: CategoryCafe, Status: StatusSuspended},
			previous:   &Service{ID: "a1", Category: CategoryCafe, Status: StatusActive},
			categories: []Category{CategoryCafe},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewServiceChangedEvent(tt.action, tt.svc, tt.previous, at)

			assert.NotEqual(t, uuid.Nil, event.EventID)
			assert.Equal(t, tt.svc.ID, event.ServiceID)
			assert.Equal(t, tt.action, event.Action)
			assert.Equal(t, tt.svc.Status, event.Status)
			assert.Equal(t, time.UTC, event.OccurredAt.Location())
			assert.Equal(t, tt.categories, event.AffectedCategories())
		})
	}
}

func TestEnumerations(t *testing.T) {
	assert.True(t, CategoryPharmacy.IsValid())
	assert.False(t, Category("casino").IsValid())
	assert.True(t, StatusSuspended.IsValid())
	assert.False(t, ServiceStatus("archived").IsValid())
	assert.True(t, SourceImported.IsValid())
	assert.False(t, ServiceSource("scraped").IsValid())
	assert.Equal(t, []string{"arabic", "english"}, DefaultLanguages())
}
