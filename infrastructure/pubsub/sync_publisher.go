package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"ytcurator/domain/model"
	"ytcurator/domain/repository"
	"ytcurator/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

// SyncPublisher publishes resync progress events to a Google Cloud Pub/Sub topic
type SyncPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewSyncPublisher opens topicName on client, creating the topic when it does not exist
func NewSyncPublisher(ctx context.Context, client *pubsub.Client, topicName string) (*SyncPublisher, error) {
	topic := client.Topic(topicName)

	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic %s: %w", topicName, err)
	}
	if !exists {
		logger.GetLogger().WithField("topic", topicName).Info("Topic doesn't exist - creating it")
		topic, err = client.CreateTopic(ctx, topicName)
		if err != nil {
			return nil, fmt.Errorf("create topic %s: %w", topicName, err)
		}
	}
	return &SyncPublisher{client: client, topic: topic}, nil
}

var _ repository.ISyncNotifier = (*SyncPublisher)(nil)

// Publish blocks until the server acknowledges the message
func (p *SyncPublisher) Publish(ctx context.Context, event model.SyncEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"run_id": event.RunID,
			"stage":  event.Stage,
			"status": event.Status,
		},
	}
	serverID, err := p.topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return err
	}
	logger.GetLogger().WithField("server ID", serverID).Debug("Sync event published")
	return nil
}

// Close flushes pending messages and closes the client
func (p *SyncPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
