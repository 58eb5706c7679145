package shopify

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelopoggi/PFSH-Parser/internal/domain"
)

// FulfillmentMessage is sent to the customer when a fulfillment is created
const FulfillmentMessage = "Thank you for your order! Your order was received and we are currently processing it."

// OrderListOptions is the query string of orders.json
type OrderListOptions struct {
	Status string `url:"status,omitempty"`
	Limit  int    `url:"limit,omitempty"`
	Fields string `url:"fields,omitempty"`
}

type orderJSON struct {
	ID              int64              `json:"id"`
	Name            string             `json:"name"`
	ShippingAddress *addressJSON       `json:"shipping_address"`
	LineItems       []lineItemJSON     `json:"line_items"`
	ShippingLines   []shippingLineJSON `json:"shipping_lines"`
}

type addressJSON struct {
	Name         string `json:"name"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	ProvinceCode string `json:"province_code"`
	CountryCode  string `json:"country_code"`
	Zip          string `json:"zip"`
}

type lineItemJSON struct {
	ID        int64  `json:"id"`
	ProductID *int64 `json:"product_id"`
	VariantID *int64 `json:"variant_id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
}

type shippingLineJSON struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

func (o orderJSON) toDomain() domain.Order {
	order := domain.Order{ID: o.ID, Name: o.Name}
	if a := o.ShippingAddress; a != nil {
		order.ShippingAddress = domain.Address{
			Name:         a.Name,
			Address1:     a.Address1,
			Address2:     a.Address2,
			City:         a.City,
			ProvinceCode: a.ProvinceCode,
			CountryCode:  a.CountryCode,
			Zip:          a.Zip,
		}
	}
	for _, li := range o.LineItems {
		item := domain.LineItem{ID: li.ID, SKU: li.SKU, Quantity: li.Quantity}
		if li.ProductID != nil {
			item.ProductID = *li.ProductID
		}
		if li.VariantID != nil {
			item.VariantID = *li.VariantID
		}
		order.LineItems = append(order.LineItems, item)
	}
	for _, sl := range o.ShippingLines {
		order.ShippingLines = append(order.ShippingLines, domain.ShippingLine{Code: sl.Code, Title: sl.Title})
	}
	return order
}

type fulfillmentOrderJSON struct {
	ID      int64  `json:"id"`
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

func (f fulfillmentOrderJSON) toDomain() domain.FulfillmentOrder {
	return domain.FulfillmentOrder{ID: f.ID, OrderID: f.OrderID, Status: domain.FulfillmentOrderStatus(f.Status)}
}

type fulfillmentJSON struct {
	ID      int64  `json:"id"`
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

func (f fulfillmentJSON) toDomain() domain.Fulfillment {
	return domain.Fulfillment{ID: f.ID, OrderID: f.OrderID, Status: domain.FulfillmentStatus(f.Status)}
}

type productJSON struct {
	ID       int64         `json:"id"`
	Title    string        `json:"title"`
	Variants []variantJSON `json:"variants"`
}

type variantJSON struct {
	ID              int64  `json:"id"`
	SKU             string `json:"sku"`
	InventoryItemID int64  `json:"inventory_item_id"`
}

func (p productJSON) toDomain() domain.Product {
	product := domain.Product{ID: p.ID, Title: p.Title}
	for _, v := range p.Variants {
		product.Variants = append(product.Variants, domain.Variant{ID: v.ID, SKU: v.SKU, InventoryItemID: v.InventoryItemID})
	}
	return product
}

type inventoryItemJSON struct {
	ID   int64            `json:"id"`
	Cost *decimal.Decimal `json:"cost"`
}

type metafieldJSON struct {
	Namespace string     `json:"namespace"`
	Key       string     `json:"key"`
	Value     flexString `json:"value"`
}

// flexString accepts string, number and boolean JSON values
type flexString string

func (v *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = flexString(s)
		return nil
	}
	*v = flexString(strings.TrimSpace(string(b)))
	return nil
}

type orderRiskJSON struct {
	ID             int64      `json:"id"`
	Recommendation string     `json:"recommendation"`
	Score          flexString `json:"score"`
	Message        string     `json:"message"`
}

// Request payloads

type fulfillmentCreateRequest struct {
	Fulfillment fulfillmentCreateInput `json:"fulfillment"`
}

type fulfillmentCreateInput struct {
	Message                     string                           `json:"message"`
	NotifyCustomer              bool                             `json:"notify_customer"`
	LineItemsByFulfillmentOrder []lineItemsByFulfillmentOrderRef `json:"line_items_by_fulfillment_order"`
}

type lineItemsByFulfillmentOrderRef struct {
	FulfillmentOrderID int64 `json:"fulfillment_order_id"`
}

type trackingUpdateRequest struct {
	Fulfillment trackingUpdateInput `json:"fulfillment"`
}

type trackingUpdateInput struct {
	NotifyCustomer bool         `json:"notify_customer"`
	TrackingInfo   trackingInfo `json:"tracking_info"`
}

type trackingInfo struct {
	Number string `json:"number"`
}

func idPath(format string, id int64) string {
	return strings.Replace(format, "{id}", strconv.FormatInt(id, 10), 1)
}
