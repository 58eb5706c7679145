package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelopoggi/PFSH-Parser/internal/domain"
)

// SyncEventRepository defines sync event data access methods. Events are an
// audit trail of what a run changed in Shopify; nothing reads them back to
// decide whether to act.
type SyncEventRepository interface {
	Create(ctx context.Context, event *domain.SyncEvent) error
	ListByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.SyncEvent, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]*domain.SyncEvent, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	SyncEvent SyncEventRepository
}
