package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
)

type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string, batch int64) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

type MockApplier struct {
	mock.Mock
}

func (m *MockApplier) Notify(ctx context.Context, event domain.ServiceChangedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

const group = "test-group"

func newTestWorker(stream *MockStreamRepository, applier *MockApplier) *ChangeWorker {
	w := NewChangeWorker(stream, applier, group, 10, zap.NewNop()).WithConsumerName("worker-1")
	w.retryDelay = 0
	return w
}

func message(t *testing.T, id string, event domain.ServiceChangedEvent) domain.StreamMessage {
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: string(data)}
}

// closedStream - канал с готовыми сообщениями, закрытый после них
func closedStream(msgs ...domain.StreamMessage) <-chan domain.StreamMessage {
	ch := make(chan domain.StreamMessage, len(msgs))
	for _, msg := range msgs {
		ch <- msg
	}
	close(ch)
	return ch
}

func updatedEvent() domain.ServiceChangedEvent {
	svc := &domain.Service{ID: "svc-1", Category: domain.CategoryDentist, Status: domain.StatusActive}
	previous := &domain.Service{ID: "svc-1", Category: domain.CategoryDoctor}
	return domain.NewServiceChangedEvent(domain.ActionUpdated, svc, previous, time.Now())
}

func TestChangeWorker_AppliesAndAcks(t *testing.T) {
	stream := &MockStreamRepository{}
	applier := &MockApplier{}
	event := updatedEvent()

	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamServiceChanged, group).Return(nil)
	stream.On("ConsumeStream", mock.Anything, domain.StreamServiceChanged, group, "worker-1", int64(10)).
		Return(closedStream(message(t, "1-0", event)), nil)
	applier.On("Notify", mock.Anything, mock.MatchedBy(func(e domain.ServiceChangedEvent) bool {
		return e.EventID == event.EventID &&
			assert.ObjectsAreEqual([]domain.Category{domain.CategoryDentist, domain.CategoryDoctor}, e.AffectedCategories())
	})).Return(nil).Once()
	stream.On("AckMessage", mock.Anything, domain.StreamServiceChanged, group, "1-0").Return(nil).Once()

	require.NoError(t, newTestWorker(stream, applier).Start(context.Background()))

	stream.AssertExpectations(t)
	applier.AssertExpectations(t)
}

func TestChangeWorker_AcksMalformedMessage(t *testing.T) {
	stream := &MockStreamRepository{}
	applier := &MockApplier{}

	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamServiceChanged, group).Return(nil)
	stream.On("ConsumeStream", mock.Anything, domain.StreamServiceChanged, group, "worker-1", int64(10)).
		Return(closedStream(
			domain.StreamMessage{ID: "1-0", Data: "{not json"},
			domain.StreamMessage{ID: "2-0", Data: `{"service_id":"x","category":"spaceship"}`},
		), nil)
	stream.On("AckMessage", mock.Anything, domain.StreamServiceChanged, group, "1-0").Return(nil).Once()
	stream.On("AckMessage", mock.Anything, domain.StreamServiceChanged, group, "2-0").Return(nil).Once()

	require.NoError(t, newTestWorker(stream, applier).Start(context.Background()))

	applier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	stream.AssertExpectations(t)
}

func TestChangeWorker_RetriesThenLeavesPending(t *testing.T) {
	stream := &MockStreamRepository{}
	applier := &MockApplier{}

	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamServiceChanged, group).Return(nil)
	stream.On("ConsumeStream", mock.Anything, domain.StreamServiceChanged, group, "worker-1", int64(10)).
		Return(closedStream(message(t, "1-0", updatedEvent())), nil)
	applier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("storage down")).Times(maxAttempts)

	require.NoError(t, newTestWorker(stream, applier).Start(context.Background()))

	applier.AssertExpectations(t)
	stream.AssertNotCalled(t, "AckMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeWorker_RecoversOnRetry(t *testing.T) {
	stream := &MockStreamRepository{}
	applier := &MockApplier{}

	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamServiceChanged, group).Return(nil)
	stream.On("ConsumeStream", mock.Anything, domain.StreamServiceChanged, group, "worker-1", int64(10)).
		Return(closedStream(message(t, "1-0", updatedEvent())), nil)
	applier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("timeout")).Once()
	applier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()
	stream.On("AckMessage", mock.Anything, domain.StreamServiceChanged, group, "1-0").Return(nil).Once()

	require.NoError(t, newTestWorker(stream, applier).Start(context.Background()))

	applier.AssertExpectations(t)
	stream.AssertExpectations(t)
}

func TestChangeWorker_ConsumerGroupError(t *testing.T) {
	stream := &MockStreamRepository{}
	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamServiceChanged, group).Return(errors.New("NOAUTH"))

	err := newTestWorker(stream, &MockApplier{}).Start(context.Background())

	require.Error(t, err)
	stream.AssertNotCalled(t, "ConsumeStream", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeWorker_StopCancelsConsumer(t *testing.T) {
	stream := &MockStreamRepository{}
	applier := &MockApplier{}
	msgs := make(chan domain.StreamMessage)
	consuming := make(chan struct{})

	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamServiceChanged, group).Return(nil)
	stream.On("ConsumeStream", mock.Anything, domain.StreamServiceChanged, group, "worker-1", int64(10)).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			close(consuming)
			go func() {
				<-ctx.Done()
				close(msgs)
			}()
		}).
		Return((<-chan domain.StreamMessage)(msgs), nil)

	w := newTestWorker(stream, applier)
	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	select {
	case <-consuming:
	case <-time.After(time.Second):
		t.Fatal("worker did not start consuming")
	}
	require.NoError(t, w.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestParseMessage(t *testing.T) {
	event := updatedEvent()

	parsed, err := parseMessage(message(t, "1-0", event))
	require.NoError(t, err)
	assert.Equal(t, event.ServiceID, parsed.ServiceID)
	assert.Equal(t, domain.CategoryDoctor, parsed.PreviousCategory)

	_, err = parseMessage(domain.StreamMessage{ID: "2-0", Data: `{"category":"bank"}`})
	assert.Error(t, err)
}
