package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/angelopoggi/PFSH-Parser/internal/domain"
)

// CommerceAPI is the subset of the Shopify resource layer the sync workflows
// depend on. *shopify.Admin satisfies it.
type CommerceAPI interface {
	ListOrders(ctx context.Context, status string) ([]domain.Order, error)
	ListOpenOrderIDs(ctx context.Context) ([]int64, error)
	ListFulfillmentOrders(ctx context.Context, orderID int64) ([]domain.FulfillmentOrder, error)
	GetFulfillmentOrderStatus(ctx context.Context, fulfillmentOrderID int64) (bool, error)
	CreateFulfillment(ctx context.Context, fulfillmentOrderID int64) (*domain.Fulfillment, error)
	GetProductMetafields(ctx context.Context, productID int64) ([]domain.Metafield, error)
	GetVariantCost(ctx context.Context, productID int64, sku string) (decimal.NullDecimal, error)
	GetFulfillmentsForOrder(ctx context.Context, orderID int64) ([]domain.Fulfillment, error)
	UpdateFulfillmentTracking(ctx context.Context, fulfillmentID int64, trackingNumber string) error
	CloseOrder(ctx context.Context, orderID int64) error
}
