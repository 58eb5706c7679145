package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a Shopify order as far as the sync cares about it
type Order struct {
	ID              int64
	Name            string
	ShippingAddress Address
	LineItems       []LineItem
	ShippingLines   []ShippingLine
}

// ShipVia returns the carrier code of the first shipping line, or "" when the order has none
func (o *Order) ShipVia() string {
	if len(o.ShippingLines) == 0 {
		return ""
	}
	return o.ShippingLines[0].Code
}

// Address is the order's shipping address
type Address struct {
	Name         string
	Address1     string
	Address2     string
	City         string
	ProvinceCode string
	CountryCode  string
	Zip          string
}

// ShippingLine carries the carrier/service code chosen at checkout
type ShippingLine struct {
	Code  string
	Title string
}

// LineItem belongs to exactly one order
type LineItem struct {
	ID        int64
	ProductID int64
	VariantID int64
	SKU       string
	Quantity  int
}

// FulfillmentOrder is Shopify's unit of fulfillment work for an order
type FulfillmentOrder struct {
	ID      int64
	OrderID int64
	Status  FulfillmentOrderStatus
}

// Fulfillment is a shipment record created against a fulfillment order
type Fulfillment struct {
	ID      int64
	OrderID int64
	Status  FulfillmentStatus
}

type Product struct {
	ID       int64
	Title    string
	Variants []Variant
}

type Variant struct {
	ID              int64
	SKU             string
	InventoryItemID int64
}

// InventoryItem holds the unit cost; Cost is nil when the merchant never set one
type InventoryItem struct {
	ID   int64
	Cost *decimal.Decimal
}

// Metafield is a key/value extension attribute on a product
type Metafield struct {
	Namespace string
	Key       string
	Value     string
}

// OrderRisk is a fraud assessment attached to an order
type OrderRisk struct {
	ID             int64
	Recommendation string
	Score          string
	Message        string
}

// OutputRow is one line of the orders file sent to the partner
type OutputRow struct {
	PONumber    string
	ItemNumber  string
	Quantity    int
	UOM         string
	ShipToName  string
	ShipToAddr1 string
	ShipToAddr2 string
	ShipToCity  string
	ShipToState string
	ShipToCntry string
	ShipToZip   string
	ShipVia     string
	UnitCost    decimal.NullDecimal // invalid when the inventory item has no cost
}

// NewOutputRow flattens a line item and its parent order into a row
func NewOutputRow(order *Order, item LineItem, itemNumber string, unitCost decimal.NullDecimal) OutputRow {
	addr := order.ShippingAddress
	return OutputRow{
		PONumber:    strconv.FormatInt(order.ID, 10),
		ItemNumber:  itemNumber,
		Quantity:    item.Quantity,
		UOM:         UnitOfMeasureEach,
		ShipToName:  addr.Name,
		ShipToAddr1: addr.Address1,
		ShipToAddr2: addr.Address2,
		ShipToCity:  addr.City,
		ShipToState: addr.ProvinceCode,
		ShipToCntry: addr.CountryCode,
		ShipToZip:   addr.Zip,
		ShipVia:     order.ShipVia(),
		UnitCost:    unitCost,
	}
}

// TrackingRow is one line of the partner's shipping confirmation file
type TrackingRow struct {
	OrderID        string
	Status         string
	TrackingNumber string
}

// SyncEvent is an audit record of a mutation issued against Shopify
type SyncEvent struct {
	ID        uuid.UUID
	RunID     uuid.UUID
	OrderID   int64
	EventType SyncEventType
	EventData map[string]interface{} // JSONB
	CreatedAt time.Time
}
