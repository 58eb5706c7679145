package csvfile

import (
	"strconv"

	"github.com/angelopoggi/PFSH-Parser/internal/domain"
)

// OrderHeader is the column order of the orders file the partner imports
var OrderHeader = []string{
	"PO Number",
	"Item Number",
	"Quantity",
	"UOM",
	"Ship To Name",
	"Ship To Address 1",
	"Ship To Address 2",
	"Ship To City",
	"Ship To State",
	"Ship To Country",
	"Ship To Zip",
	"Ship Via",
	"Unit Cost",
}

// WriteOrders replaces the file at path with the header and one line per row.
// An empty rows slice still produces a header-only file.
func WriteOrders(path string, rows []domain.OutputRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, orderRecord(r))
	}
	return writeAtomic(path, OrderHeader, records)
}

func orderRecord(r domain.OutputRow) []string {
	cost := ""
	if r.UnitCost.Valid {
		cost = r.UnitCost.Decimal.StringFixed(2)
	}
	return []string{
		r.PONumber,
		r.ItemNumber,
		strconv.Itoa(r.Quantity),
		r.UOM,
		r.ShipToName,
		r.ShipToAddr1,
		r.ShipToAddr2,
		r.ShipToCity,
		r.ShipToState,
		r.ShipToCntry,
		r.ShipToZip,
		r.ShipVia,
		cost,
	}
}
