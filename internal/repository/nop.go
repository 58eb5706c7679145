package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelopoggi/PFSH-Parser/internal/domain"
)

// NewNopRepositories returns repositories that discard writes, used when no
// audit database is configured
func NewNopRepositories() *Repositories {
	return &Repositories{SyncEvent: nopSyncEventRepository{}}
}

type nopSyncEventRepository struct{}

func (nopSyncEventRepository) Create(ctx context.Context, event *domain.SyncEvent) error {
	return nil
}

func (nopSyncEventRepository) ListByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.SyncEvent, error) {
	return nil, nil
}

func (nopSyncEventRepository) ListByOrderID(ctx context.Context, orderID int64) ([]*domain.SyncEvent, error) {
	return nil, nil
}
