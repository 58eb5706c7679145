package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/angelopoggi/PFSH-Parser/internal/domain"
)

// Accepted header spellings for the shipping confirmation file
var (
	trackingOrderIDHeaders = []string{"PO Number", "Order ID", "order_id", "PO"}
	trackingStatusHeaders  = []string{"Status", "Order Status"}
	trackingNumberHeaders  = []string{"Tracking Number", "Tracking", "tracking_number"}
)

// ReadTracking loads every row of the shipping confirmation file at path
func ReadTracking(path string) ([]domain.TrackingRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tracking file: %w", err)
	}
	defer f.Close()

	rows, err := ParseTracking(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ParseTracking reads tracking rows from CSV with a header line. Header names
// are matched case-insensitively; the order id, status and tracking number
// columns are required.
func ParseTracking(r io.Reader) ([]domain.TrackingRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := headerIndex(header)
	var missing []string
	for _, col := range []struct {
		name    string
		aliases []string
	}{
		{"order id", trackingOrderIDHeaders},
		{"status", trackingStatusHeaders},
		{"tracking number", trackingNumberHeaders},
	} {
		if !hasAny(idx, col.aliases...) {
			missing = append(missing, col.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("tracking file is missing columns: %s", strings.Join(missing, ", "))
	}

	var rows []domain.TrackingRow
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tracking row: %w", err)
		}
		row := domain.TrackingRow{
			OrderID:        field(record, idx, trackingOrderIDHeaders...),
			Status:         field(record, idx, trackingStatusHeaders...),
			TrackingNumber: field(record, idx, trackingNumberHeaders...),
		}
		if row == (domain.TrackingRow{}) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
