package servicebus

import (
	"context"
	"encoding/json"
	"fmt"

	"ytcurator/domain/model"
	"ytcurator/domain/repository"
	"ytcurator/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// messageSender is the part of *azservicebus.Sender used here
type messageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

// SyncSender sends resync progress events to an Azure Service Bus queue
type SyncSender struct {
	client *azservicebus.Client
	sender messageSender
}

// NewSyncSender authenticates with the default Azure credential chain and opens a sender for queue
func NewSyncSender(namespace, queue string) (*SyncSender, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	client, err := azservicebus.NewClient(namespace, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("service bus client: %w", err)
	}
	sender, err := client.NewSender(queue, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while making new sender service bus.")
		_ = client.Close(context.Background())
		return nil, err
	}
	return &SyncSender{client: client, sender: sender}, nil
}

var _ repository.ISyncNotifier = (*SyncSender)(nil)

func (s *SyncSender) Publish(ctx context.Context, event model.SyncEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	contentType := "application/json"
	subject := event.Stage + "." + event.Status
	msg := &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		Subject:     &subject,
		ApplicationProperties: map[string]interface{}{
			"run_id": event.RunID,
		},
	}
	if err := s.sender.SendMessage(ctx, msg, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}

func (s *SyncSender) Close(ctx context.Context) error {
	if err := s.sender.Close(ctx); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while closing sender.")
	}
	if s.client == nil {
		return nil
	}
	return s.client.Close(ctx)
}
