package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"business-locator/internal/models"
)

func sampleRecords() []models.EnrichedRecord {
	return []models.EnrichedRecord{
		{
			Name:             "Crumbs",
			Address:          "1 Main St",
			Phone:            "555-0101",
			Website:          models.NotAvailable,
			MapsURL:          models.MapsURL("p1"),
			DriveTimeMinutes: 12.5,
			DistanceMiles:    4.25,
			SearchTerm:       "bakery, cafe",
		},
	}
}

func readRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestBytes_ColumnOrder(t *testing.T) {
	data, err := Bytes(sampleRecords())
	require.NoError(t, err)

	rows := readRows(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"Name", "Address", "Phone", "Website", "Google Maps URL",
		"Drive Time (min)", "Distance (miles)", "Search Term",
	}, rows[0])
	assert.Equal(t, []string{
		"Crumbs", "1 Main St", "555-0101", "N/A",
		"https://www.google.com/maps/place/?q=place_id:p1",
		"12.5", "4.25", "bakery, cafe",
	}, rows[1])
}

func TestBytes_HeaderOnlyWhenEmpty(t *testing.T) {
	data, err := Bytes(nil)
	require.NoError(t, err)

	rows := readRows(t, data)
	require.Len(t, rows, 1)
	assert.Equal(t, Header, rows[0])
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"Austin Bakeries": "austin_bakeries_search_results.xlsx",
		"  Solo ":         "solo_search_results.xlsx",
		"":                "business_search_results.xlsx",
	}
	for in, want := range tests {
		assert.Equal(t, want, FileName(in), in)
	}
}

func TestSaveFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := SaveFile(dir, "Austin Bakeries", sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "austin_bakeries_search_results.xlsx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, readRows(t, data), 2)
}
