package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/angelopoggi/PFSH-Parser/internal/domain"
)

// Fulfiller creates Shopify fulfillments for the open fulfillment orders of an order
type Fulfiller struct {
	api    CommerceAPI
	events *EventRecorder
	logger *zap.Logger
}

// NewFulfiller creates a new fulfiller
func NewFulfiller(api CommerceAPI, events *EventRecorder, logger *zap.Logger) *Fulfiller {
	return &Fulfiller{
		api:    api,
		events: events,
		logger: logger,
	}
}

// Fulfill checks every fulfillment order immediately before acting on it and
// requests a fulfillment only while it is still open, so a fulfillment order
// gets at most one creation request per pass and none once Shopify reports it
// closed. It returns the fulfillments created.
func (f *Fulfiller) Fulfill(ctx context.Context, orderID int64, fulfillmentOrderIDs []int64) ([]domain.Fulfillment, error) {
	var created []domain.Fulfillment
	for _, foID := range fulfillmentOrderIDs {
		open, err := f.api.GetFulfillmentOrderStatus(ctx, foID)
		if err != nil {
			return created, fmt.Errorf("check fulfillment order %d of order %d: %w", foID, orderID, err)
		}
		if !open {
			f.logger.Info("Fulfillment order already closed, skipping",
				zap.Int64("order_id", orderID),
				zap.Int64("fulfillment_order_id", foID))
			continue
		}

		fulfillment, err := f.api.CreateFulfillment(ctx, foID)
		if err != nil {
			return created, fmt.Errorf("fulfill order %d: %w", orderID, err)
		}
		f.logger.Info("Fulfillment created",
			zap.Int64("order_id", orderID),
			zap.Int64("fulfillment_order_id", foID),
			zap.Int64("fulfillment_id", fulfillment.ID))
		f.events.Record(ctx, orderID, domain.SyncEventFulfillmentCreated, map[string]interface{}{
			"fulfillment_order_id": foID,
			"fulfillment_id":       fulfillment.ID,
		})
		created = append(created, *fulfillment)
	}
	return created, nil
}
