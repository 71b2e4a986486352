package ports

import (
	"context"

	"github.com/99minutos/plans-system/internal/core/domain"
)

// NotificationRepository stores immutable notification records.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	// InsertMany writes all records in a single round-trip.
	InsertMany(ctx context.Context, ns []*domain.Notification) error
	// ListByRecipient returns the recipient's notifications, oldest first.
	ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error)
	// DeleteMatching removes every record with the given action, source and
	// target, and reports how many were removed.
	DeleteMatching(ctx context.Context, action domain.NotificationAction, source, target domain.Ref) (int64, error)
}
