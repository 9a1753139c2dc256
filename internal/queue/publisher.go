package queue

import (
	"context"

	"github.com/gatherhub/gatherhub/internal/notifications"
	"github.com/gatherhub/gatherhub/internal/queue/redisclient"
)

// Publisher pushes notifications onto the redis list the worker drains.
type Publisher struct {
	client *redisclient.Client
	key    string
}

func NewPublisher(client *redisclient.Client, key string) *Publisher {
	return &Publisher{
		client: client,
		key:    key,
	}
}

func (p *Publisher) Enqueue(ctx context.Context, n notifications.Notification) error {
	raw, err := notifications.Encode(n)

	if err != nil {
		return err
	}

	return p.client.Push(ctx, p.key, raw)
}
