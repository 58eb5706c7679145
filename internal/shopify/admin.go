package shopify

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/go-querystring/query"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/angelopoggi/PFSH-Parser/internal/domain"
	apperrors "github.com/angelopoggi/PFSH-Parser/pkg/errors"
)

const ordersPageLimit = 250

// orderListFields limits orders.json to what the export reads
const orderListFields = "id,name,shipping_address,line_items,shipping_lines"

// Admin exposes one method per Shopify resource action used by the sync.
// Every call goes through the shared Client session.
type Admin struct {
	client *Client
	logger *zap.Logger
}

// NewAdmin creates the resource layer on top of a request client
func NewAdmin(client *Client, logger *zap.Logger) *Admin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Admin{client: client, logger: logger}
}

// ListOrders returns all orders with the given status, following pagination.
// A non-success status or a non-JSON body is not an error: it is logged and
// reported as (nil, nil) so the caller stops its workflow. Transport failures
// are returned.
func (a *Admin) ListOrders(ctx context.Context, status string) ([]domain.Order, error) {
	q, err := query.Values(OrderListOptions{Status: status, Limit: ordersPageLimit, Fields: orderListFields})
	if err != nil {
		return nil, fmt.Errorf("build orders query: %w", err)
	}

	resp, err := a.client.Get(ctx, "orders.json", q)
	var orders []domain.Order
	for {
		if err != nil {
			var apiErr *apperrors.APIError
			if errors.As(err, &apiErr) {
				a.logger.Warn("Listing orders returned non-success status, treating as no orders",
					zap.String("status", status), zap.Int("http_status", apiErr.StatusCode))
				return nil, nil
			}
			return nil, fmt.Errorf("list orders: %w", err)
		}
		if !resp.IsJSON() {
			a.logger.Warn("Invalid content type received for orders listing",
				zap.String("status", status), zap.String("content_type", resp.Header.Get("Content-Type")))
			return nil, nil
		}

		var page struct {
			Orders *[]orderJSON `json:"orders"`
		}
		if err := resp.Decode(&page); err != nil {
			a.logger.Warn("Orders listing body could not be parsed", zap.String("status", status), zap.Error(err))
			return nil, nil
		}
		if page.Orders == nil {
			a.logger.Warn("Orders listing has no orders key", zap.String("status", status))
			return nil, nil
		}
		for _, o := range *page.Orders {
			orders = append(orders, o.toDomain())
		}

		next := nextPageURL(resp.Header.Get("Link"))
		if next == "" {
			break
		}
		resp, err = a.client.GetURL(ctx, next)
	}

	return orders, nil
}

// ListOpenOrderIDs returns the IDs of all open orders, or nil when none could be listed
func (a *Admin) ListOpenOrderIDs(ctx context.Context) ([]int64, error) {
	orders, err := a.ListOrders(ctx, string(domain.OrderListStatusOpen))
	if err != nil || orders == nil {
		return nil, err
	}
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids, nil
}

// GetOrder fetches a single order
func (a *Admin) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	resp, err := a.client.Get(ctx, idPath("orders/{id}.json", orderID), nil)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", orderID, err)
	}
	var result struct {
		Order orderJSON `json:"order"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("parse order %d: %w", orderID, err)
	}
	order := result.Order.toDomain()
	return &order, nil
}

// ListFulfillmentOrders enumerates the fulfillment orders of an order
func (a *Admin) ListFulfillmentOrders(ctx context.Context, orderID int64) ([]domain.FulfillmentOrder, error) {
	resp, err := a.client.Get(ctx, idPath("orders/{id}/fulfillment_orders.json", orderID), nil)
	if err != nil {
		return nil, fmt.Errorf("list fulfillment orders for order %d: %w", orderID, err)
	}
	var result struct {
		FulfillmentOrders []fulfillmentOrderJSON `json:"fulfillment_orders"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("parse fulfillment orders for order %d: %w", orderID, err)
	}
	out := make([]domain.FulfillmentOrder, 0, len(result.FulfillmentOrders))
	for _, fo := range result.FulfillmentOrders {
		out = append(out, fo.toDomain())
	}
	return out, nil
}

// GetFulfillmentOrder fetches the current state of a fulfillment order
func (a *Admin) GetFulfillmentOrder(ctx context.Context, fulfillmentOrderID int64) (*domain.FulfillmentOrder, error) {
	resp, err := a.client.Get(ctx, idPath("fulfillment_orders/{id}.json", fulfillmentOrderID), nil)
	if err != nil {
		return nil, fmt.Errorf("get fulfillment order %d: %w", fulfillmentOrderID, err)
	}
	var result struct {
		FulfillmentOrder fulfillmentOrderJSON `json:"fulfillment_order"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("parse fulfillment order %d: %w", fulfillmentOrderID, err)
	}
	fo := result.FulfillmentOrder.toDomain()
	return &fo, nil
}

// GetFulfillmentOrderStatus reports whether a fulfillment order is still open
func (a *Admin) GetFulfillmentOrderStatus(ctx context.Context, fulfillmentOrderID int64) (bool, error) {
	fo, err := a.GetFulfillmentOrder(ctx, fulfillmentOrderID)
	if err != nil {
		return false, err
	}
	return fo.Status.IsOpen(), nil
}

// CreateFulfillment fulfills every remaining line of a fulfillment order and
// notifies the customer. Callers must check the fulfillment order is open first.
func (a *Admin) CreateFulfillment(ctx context.Context, fulfillmentOrderID int64) (*domain.Fulfillment, error) {
	payload := fulfillmentCreateRequest{
		Fulfillment: fulfillmentCreateInput{
			Message:        FulfillmentMessage,
			NotifyCustomer: true,
			LineItemsByFulfillmentOrder: []lineItemsByFulfillmentOrderRef{
				{FulfillmentOrderID: fulfillmentOrderID},
			},
		},
	}
	resp, err := a.client.Post(ctx, "fulfillments.json", payload)
	if err != nil {
		return nil, fmt.Errorf("create fulfillment for fulfillment order %d: %w", fulfillmentOrderID, err)
	}
	var result struct {
		Fulfillment fulfillmentJSON `json:"fulfillment"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("parse created fulfillment: %w", err)
	}
	f := result.Fulfillment.toDomain()
	return &f, nil
}

// GetProductMetafields returns the metafields of a product. A non-success
// status is expected for some products and yields (nil, nil).
func (a *Admin) GetProductMetafields(ctx context.Context, productID int64) ([]domain.Metafield, error) {
	resp, err := a.client.Get(ctx, idPath("products/{id}/metafields.json", productID), nil)
	if err != nil {
		var apiErr *apperrors.APIError
		if errors.As(err, &apiErr) {
			a.logger.Warn("Failed to fetch metafields for product", zap.Int64("product_id", productID), zap.Int("http_status", apiErr.StatusCode))
			return nil, nil
		}
		return nil, fmt.Errorf("get metafields for product %d: %w", productID, err)
	}
	var result struct {
		Metafields []metafieldJSON `json:"metafields"`
	}
	if err := resp.Decode(&result); err != nil {
		a.logger.Warn("Metafields body could not be parsed", zap.Int64("product_id", productID), zap.Error(err))
		return nil, nil
	}
	out := make([]domain.Metafield, 0, len(result.Metafields))
	for _, m := range result.Metafields {
		out = append(out, domain.Metafield{Namespace: m.Namespace, Key: m.Key, Value: string(m.Value)})
	}
	return out, nil
}

// GetProduct fetches a product with its variants
func (a *Admin) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	resp, err := a.client.Get(ctx, idPath("products/{id}.json", productID), nil)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}
	var result struct {
		Product productJSON `json:"product"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("parse product %d: %w", productID, err)
	}
	p := result.Product.toDomain()
	return &p, nil
}

// GetInventoryItem fetches an inventory item and its unit cost
func (a *Admin) GetInventoryItem(ctx context.Context, inventoryItemID int64) (*domain.InventoryItem, error) {
	resp, err := a.client.Get(ctx, idPath("inventory_items/{id}.json", inventoryItemID), nil)
	if err != nil {
		return nil, fmt.Errorf("get inventory item %d: %w", inventoryItemID, err)
	}
	var result struct {
		InventoryItem inventoryItemJSON `json:"inventory_item"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("parse inventory item %d: %w", inventoryItemID, err)
	}
	return &domain.InventoryItem{ID: result.InventoryItem.ID, Cost: result.InventoryItem.Cost}, nil
}

// GetVariantCost resolves the unit cost of the product variant carrying sku:
// product -> variant (by SKU) -> inventory item -> cost. It returns
// *errors.ErrNotFound when no variant has the SKU. The result is invalid when
// the inventory item has no cost set.
func (a *Admin) GetVariantCost(ctx context.Context, productID int64, sku string) (decimal.NullDecimal, error) {
	product, err := a.GetProduct(ctx, productID)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	var inventoryItemID int64
	found := false
	for _, v := range product.Variants {
		if v.SKU == sku {
			inventoryItemID = v.InventoryItemID
			found = true
			break
		}
	}
	if !found {
		return decimal.NullDecimal{}, &apperrors.ErrNotFound{
			Resource: "variant",
			ID:       fmt.Sprintf("product %d sku %q", productID, sku),
		}
	}

	item, err := a.GetInventoryItem(ctx, inventoryItemID)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if item.Cost == nil {
		a.logger.Warn("Inventory item has no cost", zap.Int64("product_id", productID), zap.String("sku", sku), zap.Int64("inventory_item_id", inventoryItemID))
		return decimal.NullDecimal{}, nil
	}
	return decimal.NewNullDecimal(*item.Cost), nil
}

// GetFulfillmentsForOrder returns the order's fulfillments with status success
func (a *Admin) GetFulfillmentsForOrder(ctx context.Context, orderID int64) ([]domain.Fulfillment, error) {
	resp, err := a.client.Get(ctx, idPath("orders/{id}/fulfillments.json", orderID), nil)
	if err != nil {
		return nil, fmt.Errorf("list fulfillments for order %d: %w", orderID, err)
	}
	var result struct {
		Fulfillments []fulfillmentJSON `json:"fulfillments"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("parse fulfillments for order %d: %w", orderID, err)
	}
	var out []domain.Fulfillment
	for _, f := range result.Fulfillments {
		if domain.FulfillmentStatus(f.Status) == domain.FulfillmentStatusSuccess {
			out = append(out, f.toDomain())
		}
	}
	return out, nil
}

// UpdateFulfillmentTracking sets the tracking number of a fulfillment and notifies the customer
func (a *Admin) UpdateFulfillmentTracking(ctx context.Context, fulfillmentID int64, trackingNumber string) error {
	payload := trackingUpdateRequest{
		Fulfillment: trackingUpdateInput{
			NotifyCustomer: true,
			TrackingInfo:   trackingInfo{Number: trackingNumber},
		},
	}
	if _, err := a.client.Post(ctx, idPath("fulfillments/{id}/update_tracking.json", fulfillmentID), payload); err != nil {
		return fmt.Errorf("update tracking for fulfillment %d: %w", fulfillmentID, err)
	}
	a.logger.Info("Tracking number updated for fulfillment", zap.String("tracking_number", trackingNumber), zap.Int64("fulfillment_id", fulfillmentID))
	return nil
}

// CloseOrder marks an order as closed
func (a *Admin) CloseOrder(ctx context.Context, orderID int64) error {
	if _, err := a.client.Post(ctx, idPath("orders/{id}/close.json", orderID), nil); err != nil {
		return fmt.Errorf("close order %d: %w", orderID, err)
	}
	a.logger.Info("Order was marked as closed", zap.Int64("order_id", orderID))
	return nil
}

// ListOrderRisks returns the fraud risk assessments of an order
func (a *Admin) ListOrderRisks(ctx context.Context, orderID int64) ([]domain.OrderRisk, error) {
	resp, err := a.client.Get(ctx, idPath("orders/{id}/risks.json", orderID), nil)
	if err != nil {
		return nil, fmt.Errorf("list risks for order %d: %w", orderID, err)
	}
	var result struct {
		Risks []orderRiskJSON `json:"risks"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("parse risks for order %d: %w", orderID, err)
	}
	out := make([]domain.OrderRisk, 0, len(result.Risks))
	for _, r := range result.Risks {
		out = append(out, domain.OrderRisk{ID: r.ID, Recommendation: r.Recommendation, Score: string(r.Score), Message: r.Message})
	}
	return out, nil
}

// ParseOrderID parses an order ID as written in partner files
func ParseOrderID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid order id %q", s)
	}
	return id, nil
}
