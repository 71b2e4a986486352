package ports

import (
	"context"

	"github.com/99minutos/plans-system/internal/core/domain"
)

// NotifyInput describes one directed event.
type NotifyInput struct {
	Action domain.NotificationAction
	Source domain.Ref
	Target domain.Ref
	// DedupKey, when set, suppresses repeats of the same event within the
	// dedup window.
	DedupKey string
}

// Notifier records notifications on behalf of core operations.
type Notifier interface {
	Notify(ctx context.Context, in NotifyInput, recipientID string) error
	NotifyMany(ctx context.Context, in NotifyInput, recipientIDs []string) error
}
