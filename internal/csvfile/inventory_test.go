package csvfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inventoryFeed = "AV,Item#,Description,Reference,Manufacturer,Size,Category,Retail,% Off,Cost,COO,UPC,MFGUPC\n" +
	"4,PF1001,Eau de Parfum,REF-1,Maison,3.4 oz,Women,59.99,25%,20.00,France,012345678905,3614272049529\n" +
	"0,PF1002,Cologne,REF-2,Casa,1 oz,Men,80,,30.00,Atlantis,012345678912,\n" +
	"1,PF1003,Broken,REF-3,Casa,1 oz,Men,n/a,10,5,Italy,012345678929,\n"

func TestMapInventory(t *testing.T) {
	header, records, result, err := MapInventory(strings.NewReader(inventoryFeed))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Variant Inventory Qty", "Variant ID", "Title", "Vendor", "Option1 Value",
		"Metafield: custom.gender_category.string", "Variant Price", "Variant Compare At Price",
		"Variant Cost", "Variant Country of Origin", "Variant SKU [ID]", "Barcode",
	}, header)
	assert.NotContains(t, header, "Reference")

	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"4", "PF1001", "Eau de Parfum", "Maison", "3.4 oz", "Women",
		"45.99", "59.99", "20.00", "FR", "012345678905", "3614272049529",
	}, records[0])

	assert.Equal(t, "80", records[1][6], "no discount keeps the retail price")
	assert.Equal(t, "80", records[1][7])
	assert.Equal(t, "Atlantis", records[1][9], "unknown countries are kept verbatim")

	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, []int{4}, result.SkippedLines)
}

func TestSalePrice(t *testing.T) {
	tests := []struct {
		retail  string
		percent string
		want    string
	}{
		{"59.99", "25", "45.99"},
		{"100", "10", "90"},
		{"19.99", "12.5", "17.99"},
		{"9.50", "5", "9.5"},
		{"120", "0", "120"},
	}
	for _, tt := range tests {
		t.Run(tt.retail+"-"+tt.percent, func(t *testing.T) {
			got := SalePrice(decimal.RequireFromString(tt.retail), decimal.RequireFromString(tt.percent))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParsePercent(t *testing.T) {
	for in, want := range map[string]string{"25%": "25", " 12.5 % ": "12.5", "": "0", "40": "40"} {
		got, err := ParsePercent(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), in)
	}
	for _, in := range []string{"ten", "150%", "-5", "100.01"} {
		_, err := ParsePercent(in)
		assert.Error(t, err, in)
	}
	got, err := ParsePercent("100%")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(100)))
}

func TestMapInventorySkipsOutOfRangeDiscounts(t *testing.T) {
	feed := "AV,Item#,Description,Manufacturer,Size,Category,Retail,% Off,Cost,COO,UPC,MFGUPC\n" +
		"1,PF2001,Over,Casa,1 oz,Men,50,150%,10,Italy,1,\n" +
		"1,PF2002,Negative,Casa,1 oz,Men,50,-10,10,Italy,2,\n" +
		"1,PF2003,Free,Casa,1 oz,Men,50,100,10,Italy,3,\n"

	_, records, result, err := MapInventory(strings.NewReader(feed))
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "PF2003", records[0][1])
	assert.Equal(t, "0", records[0][6])
	assert.Equal(t, []int{2, 3}, result.SkippedLines)
}

func TestCountryToISO(t *testing.T) {
	assert.Equal(t, "IT", CountryToISO("Italy"))
	assert.Equal(t, "CN", CountryToISO("China"))
	assert.Equal(t, "Atlantis", CountryToISO("Atlantis"))
	assert.Equal(t, "", CountryToISO(""))
}

func TestConvertInventoryFileDecodesLatin1(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "PFSH_INVENTORY.csv")
	dst := filepath.Join(dir, "PFSH_INVENTORY_MATRIXIFY.csv")

	// "Crème" in ISO-8859-1: è is the single byte 0xE8
	feed := []byte("AV,Item#,Description,Retail,% Off,COO\n2,PF9,Cr\xe8me,10,0,Italy\n")
	require.NoError(t, os.WriteFile(src, feed, 0o644))

	result, err := ConvertInventoryFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows)

	records := readCSV(t, dst)
	require.Len(t, records, 2)
	assert.Equal(t, "Crème", records[1][2])
	assert.Equal(t, "IT", records[1][9])
	assert.Equal(t, "", records[1][3], "columns absent from the feed stay empty")
}
