package ports

import (
	"context"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// NotificationRepository is the append-only notification store.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error)
}

// NotificationSink receives notifications emitted by the core. Emission is
// fire-and-forget: a sink may drop a notification and never reports failure
// back to the emitter.
type NotificationSink interface {
	Emit(ctx context.Context, n domain.Notification)
}

type NotificationService interface {
	List(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error)
}
