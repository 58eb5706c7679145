package domain

// FulfillmentOrderStatus is the Shopify status of a fulfillment order
type FulfillmentOrderStatus string

const (
	FulfillmentOrderStatusOpen       FulfillmentOrderStatus = "open"
	FulfillmentOrderStatusInProgress FulfillmentOrderStatus = "in_progress"
	FulfillmentOrderStatusScheduled  FulfillmentOrderStatus = "scheduled"
	FulfillmentOrderStatusOnHold     FulfillmentOrderStatus = "on_hold"
	FulfillmentOrderStatusIncomplete FulfillmentOrderStatus = "incomplete"
	FulfillmentOrderStatusClosed     FulfillmentOrderStatus = "closed"
	FulfillmentOrderStatusCancelled  FulfillmentOrderStatus = "cancelled"
)

// IsOpen collapses the Shopify vocabulary into the open/closed decision used
// before creating a fulfillment. Only closed and cancelled count as closed.
func (s FulfillmentOrderStatus) IsOpen() bool {
	switch s {
	case FulfillmentOrderStatusClosed, FulfillmentOrderStatusCancelled:
		return false
	default:
		return true
	}
}

// FulfillmentStatus is the Shopify status of a fulfillment
type FulfillmentStatus string

const (
	FulfillmentStatusPending   FulfillmentStatus = "pending"
	FulfillmentStatusOpen      FulfillmentStatus = "open"
	FulfillmentStatusSuccess   FulfillmentStatus = "success"
	FulfillmentStatusCancelled FulfillmentStatus = "cancelled"
	FulfillmentStatusError     FulfillmentStatus = "error"
	FulfillmentStatusFailure   FulfillmentStatus = "failure"
)

// OrderListStatus is the status filter accepted by the orders listing
type OrderListStatus string

const (
	OrderListStatusOpen      OrderListStatus = "open"
	OrderListStatusClosed    OrderListStatus = "closed"
	OrderListStatusCancelled OrderListStatus = "cancelled"
	OrderListStatusAny       OrderListStatus = "any"
)

// Tracking feed markers and output literals
const (
	// TrackingStatusShipComplete marks a tracking row whose order left the warehouse
	TrackingStatusShipComplete = "SHIP_COMP"
	// ItemNumberNotAvailable is written when a product carries no item_number metafield
	ItemNumberNotAvailable = "N/A"
	// UnitOfMeasureEach is the only unit of measure the partner accepts
	UnitOfMeasureEach = "EA"
	// ItemNumberMetafieldKey is the product metafield holding the partner's item id
	ItemNumberMetafieldKey = "item_number"
)

// SyncEventType names an audit event recorded for a mutation
type SyncEventType string

const (
	SyncEventFulfillmentCreated SyncEventType = "fulfillment_created"
	SyncEventTrackingUpdated    SyncEventType = "tracking_updated"
	SyncEventOrderClosed        SyncEventType = "order_closed"
	SyncEventOrdersExported     SyncEventType = "orders_exported"
)
