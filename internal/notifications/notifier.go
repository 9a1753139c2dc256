package notifications

import "context"

type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
