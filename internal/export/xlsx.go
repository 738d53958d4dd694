// Package export writes deduplicated business records as an XLSX workbook.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "business-locator/internal/common/errors"
	"business-locator/internal/models"
)

const (
	SheetName   = "Results"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	fileSuffix = "_search_results.xlsx"
)

// Header is the exact column order of every export.
var Header = []string{
	"Name",
	"Address",
	"Phone",
	"Website",
	"Google Maps URL",
	"Drive Time (min)",
	"Distance (miles)",
	"Search Term",
}

// FileName derives the workbook name from a search name:
// "Austin Bakeries" becomes "austin_bakeries_search_results.xlsx".
func FileName(searchName string) string {
	base := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(searchName)), " ", "_")
	if base == "" {
		base = "business"
	}
	return base + fileSuffix
}

// Row flattens a record in Header order.
func Row(r models.EnrichedRecord) []interface{} {
	return []interface{}{
		r.Name,
		r.Address,
		r.Phone,
		r.Website,
		r.MapsURL,
		r.DriveTimeMinutes,
		r.DistanceMiles,
		r.SearchTerm,
	}
}

// Build renders records into a new workbook. The caller must Close it.
func Build(records []models.EnrichedRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := Row(r)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteXLSX streams the workbook for records to w.
func WriteXLSX(w io.Writer, records []models.EnrichedRecord) error {
	f, err := Build(records)
	if err != nil {
		return apperrors.NewExportFailedError(err)
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return apperrors.NewExportFailedError(err)
	}
	return nil
}

// Bytes renders the workbook in memory.
func Bytes(records []models.EnrichedRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveFile writes the workbook for searchName into dir and returns its path.
func SaveFile(dir, searchName string, records []models.EnrichedRecord) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.NewExportFailedError(fmt.Errorf("create output dir: %w", err))
	}

	path := filepath.Join(dir, FileName(searchName))
	out, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewExportFailedError(err)
	}
	if err := WriteXLSX(out, records); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", apperrors.NewExportFailedError(err)
	}
	return path, nil
}
