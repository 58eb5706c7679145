package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/angelopoggi/PFSH-Parser/internal/domain"
	"github.com/angelopoggi/PFSH-Parser/internal/shopify"
)

// ReconcileResult is the outcome of one shipment reconciliation pass
type ReconcileResult struct {
	Rows             int
	Matched          int
	TrackingUpdates  int
	OrdersClosed     int
	NoFulfillments   int
	Skipped          int
	OpenOrdersListed bool
}

// ShipmentReconciler applies the partner's shipping confirmations to Shopify
type ShipmentReconciler struct {
	api    CommerceAPI
	events *EventRecorder
	logger *zap.Logger
}

// NewShipmentReconciler creates a new shipment reconciler
func NewShipmentReconciler(api CommerceAPI, events *EventRecorder, logger *zap.Logger) *ShipmentReconciler {
	return &ShipmentReconciler{
		api:    api,
		events: events,
		logger: logger,
	}
}

// Reconcile pushes tracking numbers and closes orders for every row that is
// marked shipped, carries a tracking number and names an order that is open
// right now. Rows that do not qualify are logged and skipped.
func (r *ShipmentReconciler) Reconcile(ctx context.Context, rows []domain.TrackingRow) (*ReconcileResult, error) {
	result := &ReconcileResult{Rows: len(rows)}

	openIDs, err := r.api.ListOpenOrderIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}
	if openIDs == nil {
		r.logger.Info("No open orders, nothing to reconcile", zap.Int("rows", len(rows)))
		return result, nil
	}
	result.OpenOrdersListed = true

	open := make(map[int64]struct{}, len(openIDs))
	for _, id := range openIDs {
		open[id] = struct{}{}
	}

	for i, row := range rows {
		status := strings.TrimSpace(row.Status)
		trackingNumber := strings.TrimSpace(row.TrackingNumber)
		rawID := strings.TrimSpace(row.OrderID)
		fields := []zap.Field{zap.Int("row", i+1), zap.String("order_id", rawID)}

		if status != domain.TrackingStatusShipComplete {
			r.logger.Debug("Row not shipped, skipping", append(fields, zap.String("status", status))...)
			result.Skipped++
			continue
		}
		if trackingNumber == "" {
			r.logger.Warn("Shipped row has no tracking number, skipping", fields...)
			result.Skipped++
			continue
		}
		orderID, err := shopify.ParseOrderID(rawID)
		if err != nil {
			r.logger.Warn("Row has an invalid order id, skipping", append(fields, zap.Error(err))...)
			result.Skipped++
			continue
		}
		if _, ok := open[orderID]; !ok {
			r.logger.Info("Order is not open, skipping", fields...)
			result.Skipped++
			continue
		}
		result.Matched++

		fulfillments, err := r.api.GetFulfillmentsForOrder(ctx, orderID)
		if err != nil {
			return result, err
		}
		if len(fulfillments) == 0 {
			r.logger.Warn("Order has no successful fulfillments, leaving it open", fields...)
			result.NoFulfillments++
			continue
		}

		for _, f := range fulfillments {
			if err := r.api.UpdateFulfillmentTracking(ctx, f.ID, trackingNumber); err != nil {
				return result, err
			}
			result.TrackingUpdates++
			r.events.Record(ctx, orderID, domain.SyncEventTrackingUpdated, map[string]interface{}{
				"fulfillment_id":  f.ID,
				"tracking_number": trackingNumber,
			})
		}

		if err := r.api.CloseOrder(ctx, orderID); err != nil {
			return result, err
		}
		result.OrdersClosed++
		r.events.Record(ctx, orderID, domain.SyncEventOrderClosed, map[string]interface{}{
			"tracking_number": trackingNumber,
		})
		// closed now; a later row for the same order must not notify the customer again
		delete(open, orderID)
	}

	r.logger.Info("Shipments reconciled",
		zap.Int("rows", result.Rows),
		zap.Int("matched", result.Matched),
		zap.Int("tracking_updates", result.TrackingUpdates),
		zap.Int("orders_closed", result.OrdersClosed))
	return result, nil
}
