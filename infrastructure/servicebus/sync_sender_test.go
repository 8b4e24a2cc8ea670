package servicebus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"ytcurator/domain/model"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error {
	args := m.Called(ctx, message, options)
	return args.Error(0)
}

func (m *MockSender) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestSyncSender_Publish(t *testing.T) {
	sender := new(MockSender)
	sender.On("SendMessage", mock.Anything, mock.MatchedBy(func(msg *azservicebus.Message) bool {
		var event model.SyncEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return false
		}
		return event.RunID == "run-1" && *msg.Subject == "playlists.failed" && *msg.ContentType == "application/json"
	}), (*azservicebus.SendMessageOptions)(nil)).Return(nil)
	s := &SyncSender{sender: sender}

	err := s.Publish(context.Background(), model.SyncEvent{RunID: "run-1", Stage: model.SyncStagePlaylists, Status: model.SyncStatusFailed})

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestSyncSender_PublishError(t *testing.T) {
	sender := new(MockSender)
	sender.On("SendMessage", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("amqp link detached"))
	sender.On("Close", mock.Anything).Return(nil)
	s := &SyncSender{sender: sender}

	assert.Error(t, s.Publish(context.Background(), model.SyncEvent{}))
	assert.NoError(t, s.Close(context.Background()))
}
