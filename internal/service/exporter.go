package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/angelopoggi/PFSH-Parser/internal/domain"
	apperrors "github.com/angelopoggi/PFSH-Parser/pkg/errors"
)

// ExportResult is the outcome of one order extraction pass
type ExportResult struct {
	Rows                []domain.OutputRow
	Orders              int
	FulfillmentsCreated int
	SkippedLines        int
}

// OrderExporter flattens Shopify orders into partner order rows, fulfilling
// each order on the way
type OrderExporter struct {
	api       CommerceAPI
	fulfiller *Fulfiller
	events    *EventRecorder
	logger    *zap.Logger
}

// NewOrderExporter creates a new order exporter
func NewOrderExporter(api CommerceAPI, fulfiller *Fulfiller, events *EventRecorder, logger *zap.Logger) *OrderExporter {
	return &OrderExporter{
		api:       api,
		fulfiller: fulfiller,
		events:    events,
		logger:    logger,
	}
}

// Export lists the orders with the given status and returns one row per line
// item. Orders are fulfilled in the same pass, before their rows are built.
// Any API or transport failure aborts the whole extraction; callers must not
// write a partial file.
func (e *OrderExporter) Export(ctx context.Context, status string) (*ExportResult, error) {
	result := &ExportResult{}

	orders, err := e.api.ListOrders(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list %s orders: %w", status, err)
	}
	if len(orders) == 0 {
		e.logger.Info("No orders to export", zap.String("status", status))
		return result, nil
	}
	e.logger.Info("Exporting orders", zap.String("status", status), zap.Int("count", len(orders)))

	for i := range orders {
		order := &orders[i]

		fos, err := e.api.ListFulfillmentOrders(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		foIDs := make([]int64, 0, len(fos))
		for _, fo := range fos {
			foIDs = append(foIDs, fo.ID)
		}
		created, err := e.fulfiller.Fulfill(ctx, order.ID, foIDs)
		result.FulfillmentsCreated += len(created)
		if err != nil {
			return nil, err
		}

		rows := 0
		for _, item := range order.LineItems {
			row, ok, err := e.buildRow(ctx, order, item)
			if err != nil {
				return nil, err
			}
			if !ok {
				result.SkippedLines++
				continue
			}
			result.Rows = append(result.Rows, row)
			rows++
		}
		result.Orders++

		e.events.Record(ctx, order.ID, domain.SyncEventOrdersExported, map[string]interface{}{
			"status": status,
			"rows":   rows,
		})
	}

	e.logger.Info("Orders exported",
		zap.Int("orders", result.Orders),
		zap.Int("rows", len(result.Rows)),
		zap.Int("fulfillments_created", result.FulfillmentsCreated),
		zap.Int("skipped_lines", result.SkippedLines))
	return result, nil
}

// buildRow resolves the partner item number and unit cost of a line item.
// ok is false when the line must be left out of the file.
func (e *OrderExporter) buildRow(ctx context.Context, order *domain.Order, item domain.LineItem) (domain.OutputRow, bool, error) {
	if item.ProductID == 0 {
		// Custom or deleted products have nothing to look up
		e.logger.Warn("Line item has no product, exporting without item number or cost",
			zap.Int64("order_id", order.ID), zap.Int64("line_item_id", item.ID))
		return domain.NewOutputRow(order, item, domain.ItemNumberNotAvailable, decimal.NullDecimal{}), true, nil
	}

	metafields, err := e.api.GetProductMetafields(ctx, item.ProductID)
	if err != nil {
		return domain.OutputRow{}, false, err
	}
	itemNumber := domain.ItemNumberNotAvailable
	for _, m := range metafields {
		if m.Key == domain.ItemNumberMetafieldKey {
			itemNumber = m.Value
			break
		}
	}

	cost, err := e.api.GetVariantCost(ctx, item.ProductID, item.SKU)
	if err != nil {
		var notFound *apperrors.ErrNotFound
		if errors.As(err, &notFound) {
			e.logger.Warn("No variant matches line item SKU, skipping line",
				zap.Int64("order_id", order.ID),
				zap.Int64("product_id", item.ProductID),
				zap.String("sku", item.SKU))
			return domain.OutputRow{}, false, nil
		}
		return domain.OutputRow{}, false, err
	}

	return domain.NewOutputRow(order, item, itemNumber, cost), true, nil
}
