package realtime

import (
	"context"
	"errors"
	"testing"

	"ytcurator/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, event model.SyncEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestFanout_DeliversToEveryNotifier(t *testing.T) {
	event := model.SyncEvent{RunID: "run-1", Stage: model.SyncStageSubscriptions, Status: model.SyncStatusCompleted}
	failing := new(MockNotifier)
	failing.On("Publish", mock.Anything, event).Return(errors.New("topic not found"))
	ok := new(MockNotifier)
	ok.On("Publish", mock.Anything, event).Return(nil)

	fanout := NewFanout(failing, nil, ok)
	err := fanout.Publish(context.Background(), event)

	assert.Error(t, err)
	assert.Equal(t, 2, fanout.Len())
	failing.AssertExpectations(t)
	ok.AssertExpectations(t)
}

func TestFanout_EmptyIsNoop(t *testing.T) {
	assert.NoError(t, NewFanout().Publish(context.Background(), model.SyncEvent{}))
}
