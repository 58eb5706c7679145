package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biter777/countries"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// inventoryColumn maps a column of the partner's inventory feed to a column
// of the catalog import file
type inventoryColumn struct {
	source string
	target string
}

var inventoryColumns = []inventoryColumn{
	{"AV", "Variant Inventory Qty"},
	{"Item#", "Variant ID"},
	{"Description", "Title"},
	{"Manufacturer", "Vendor"},
	{"Size", "Option1 Value"},
	{"Category", "Metafield: custom.gender_category.string"},
	{"Retail", "Variant Price"},
	{"% Off", "Variant Compare At Price"},
	{"Cost", "Variant Cost"},
	{"COO", "Variant Country of Origin"},
	{"UPC", "Variant SKU [ID]"},
	{"MFGUPC", "Barcode"},
}

// InventoryHeader is the column order of the catalog import file
func InventoryHeader() []string {
	header := make([]string, len(inventoryColumns))
	for i, c := range inventoryColumns {
		header[i] = c.target
	}
	return header
}

// InventoryResult summarizes a conversion
type InventoryResult struct {
	Rows int
	// SkippedLines holds the 1-based input line numbers left out for an unusable price
	SkippedLines []int
}

// ConvertInventoryFile converts the ISO-8859-1 encoded feed at src into the
// catalog import file at dst
func ConvertInventoryFile(src, dst string) (*InventoryResult, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory file: %w", err)
	}
	defer in.Close()

	header, records, result, err := MapInventory(charmap.ISO8859_1.NewDecoder().Reader(in))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	if err := writeAtomic(dst, header, records); err != nil {
		return nil, err
	}
	return result, nil
}

// MapInventory reads the partner's inventory feed and returns the catalog
// import header and records. The retail price becomes the compare-at price
// and the variant price is the retail price less the whole-number percentage
// discount, rounded down to a whole currency unit.
func MapInventory(r io.Reader) ([]string, [][]string, *InventoryResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return InventoryHeader(), nil, &InventoryResult{}, nil
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	idx := headerIndex(header)
	if !hasAny(idx, "Retail") {
		return nil, nil, nil, fmt.Errorf("inventory file has no Retail column")
	}

	result := &InventoryResult{}
	var records [][]string
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, nil, nil, fmt.Errorf("line %d: %w", line, err)
		}

		retail, err := decimal.NewFromString(field(record, idx, "Retail"))
		if err != nil {
			result.SkippedLines = append(result.SkippedLines, line)
			continue
		}
		percent, err := ParsePercent(field(record, idx, "% Off"))
		if err != nil {
			result.SkippedLines = append(result.SkippedLines, line)
			continue
		}

		out := make([]string, len(inventoryColumns))
		for i, c := range inventoryColumns {
			switch c.source {
			case "Retail":
				out[i] = SalePrice(retail, percent).String()
			case "% Off":
				out[i] = retail.String()
			case "COO":
				out[i] = CountryToISO(field(record, idx, c.source))
			default:
				out[i] = field(record, idx, c.source)
			}
		}
		records = append(records, out)
		result.Rows++
	}
	return InventoryHeader(), records, result, nil
}

var hundred = decimal.NewFromInt(100)

// ParsePercent reads values such as "25", "25%" or "12.5 %". Empty means no
// discount. Values outside 0-100 are rejected.
func ParsePercent(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		return decimal.Zero, fmt.Errorf("percentage %q out of range", s)
	}
	return d, nil
}

// SalePrice is retail - floor(int(retail) * int(percent) / 100). Both factors
// are truncated to whole numbers before the discount is computed.
func SalePrice(retail, percent decimal.Decimal) decimal.Decimal {
	discount := retail.IntPart() * percent.IntPart() / 100
	return retail.Sub(decimal.NewFromInt(discount))
}

// CountryToISO returns the ISO 3166-1 alpha-2 code for a country name or
// code, or the input unchanged when it names no known country
func CountryToISO(name string) string {
	if strings.TrimSpace(name) == "" {
		return name
	}
	code := countries.ByName(strings.TrimSpace(name))
	if code == countries.Unknown {
		return name
	}
	return code.Alpha2()
}
