package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFulfillmentOrderStatusIsOpen(t *testing.T) {
	open := []FulfillmentOrderStatus{
		FulfillmentOrderStatusOpen,
		FulfillmentOrderStatusInProgress,
		FulfillmentOrderStatusScheduled,
		FulfillmentOrderStatusOnHold,
		FulfillmentOrderStatusIncomplete,
	}
	for _, s := range open {
		assert.True(t, s.IsOpen(), string(s))
	}
	assert.False(t, FulfillmentOrderStatusClosed.IsOpen())
	assert.False(t, FulfillmentOrderStatusCancelled.IsOpen())
}

func TestNewOutputRow(t *testing.T) {
	order := &Order{
		ID: 1001,
		ShippingAddress: Address{
			Name:         "Ada Lovelace",
			Address1:     "12 Analytical Way",
			Address2:     "Suite 3",
			City:         "London",
			ProvinceCode: "LND",
			CountryCode:  "GB",
			Zip:          "N1 9GU",
		},
		ShippingLines: []ShippingLine{{Code: "UPS_GROUND"}, {Code: "FEDEX"}},
	}
	item := LineItem{ProductID: 7, SKU: "SKU-A", Quantity: 3}

	row := NewOutputRow(order, item, "PF-100", decimal.NewNullDecimal(decimal.RequireFromString("12.50")))

	assert.Equal(t, "1001", row.PONumber)
	assert.Equal(t, "PF-100", row.ItemNumber)
	assert.Equal(t, 3, row.Quantity)
	assert.Equal(t, "EA", row.UOM)
	assert.Equal(t, "Ada Lovelace", row.ShipToName)
	assert.Equal(t, "Suite 3", row.ShipToAddr2)
	assert.Equal(t, "LND", row.ShipToState)
	assert.Equal(t, "GB", row.ShipToCntry)
	assert.Equal(t, "UPS_GROUND", row.ShipVia)
	require.True(t, row.UnitCost.Valid)
	assert.Equal(t, "12.50", row.UnitCost.Decimal.StringFixed(2))
}

func TestShipViaWithoutShippingLines(t *testing.T) {
	assert.Equal(t, "", (&Order{ID: 1}).ShipVia())
}
