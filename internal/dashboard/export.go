package dashboard

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"math"

	"facilitydash/adapters/source"
	"facilitydash/domain/facility"

	"github.com/xuri/excelize/v2"
)

// ExportCSV writes the header and rows in source order, encoded in charset
// (empty means UTF-8) so the file reloads with the same options. Missing numbers are empty cells.
func ExportCSV(ds *facility.Dataset, charset string) ([]byte, error) {
	records := make([][]string, 0, len(ds.Rows)+1)
	records = append(records, ds.Columns)
	for _, r := range ds.Rows {
		records = append(records, displayRow(ds, r))
	}

	var buf bytes.Buffer
	if err := csv.NewWriter(&buf).WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return source.EncodeText(buf.Bytes(), charset)
}

// DataURI encodes a CSV payload for a direct download link
func DataURI(payload []byte) string {
	return "data:file/csv;base64," + base64.StdEncoding.EncodeToString(payload)
}

// ExportXLSX writes the rows to a single-sheet workbook; numeric columns stay numbers
func ExportXLSX(ds *facility.Dataset) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"

	header := make([]interface{}, len(ds.Columns))
	for i, c := range ds.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range ds.Rows {
		row := make([]interface{}, len(ds.Columns))
		for j := range ds.Columns {
			switch {
			case ds.Kinds[j] != facility.KindNumeric:
				row[j] = r.Cells[j]
			case math.IsNaN(r.Numbers[j]):
				row[j] = nil
			default:
				row[j] = r.Numbers[j]
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
