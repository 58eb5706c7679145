package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/angelopoggi/PFSH-Parser/internal/domain"
	"github.com/angelopoggi/PFSH-Parser/internal/repository"
)

// EventRecorder writes sync events for one run. A failed write is logged and
// never interrupts the run; the Shopify mutation has already happened.
type EventRecorder struct {
	repo   repository.SyncEventRepository
	runID  uuid.UUID
	logger *zap.Logger
}

// NewEventRecorder creates a recorder stamping every event with runID
func NewEventRecorder(repo repository.SyncEventRepository, runID uuid.UUID, logger *zap.Logger) *EventRecorder {
	return &EventRecorder{
		repo:   repo,
		runID:  runID,
		logger: logger,
	}
}

// RunID identifies the run the recorder belongs to
func (r *EventRecorder) RunID() uuid.UUID {
	if r == nil {
		return uuid.Nil
	}
	return r.runID
}

// Record stores an event. A nil recorder records nothing.
func (r *EventRecorder) Record(ctx context.Context, orderID int64, eventType domain.SyncEventType, data map[string]interface{}) {
	if r == nil || r.repo == nil {
		return
	}
	event := &domain.SyncEvent{
		RunID:     r.runID,
		OrderID:   orderID,
		EventType: eventType,
		EventData: data,
	}
	if err := r.repo.Create(ctx, event); err != nil {
		r.logger.Warn("Failed to record sync event",
			zap.Int64("order_id", orderID),
			zap.String("event_type", string(eventType)),
			zap.Error(err))
	}
}
