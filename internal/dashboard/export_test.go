package dashboard

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"facilitydash/adapters/source"
	"facilitydash/domain/facility"
	"facilitydash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func withMissingScore(t *testing.T) *facility.Dataset {
	t.Helper()
	rows := testkit.ScenarioRows()
	rows[2][5] = "Not Available"
	ds, err := testkit.BuildDataset(rows, facility.ColScore)
	require.NoError(t, err)
	return ds
}

func exportString(t *testing.T, ds *facility.Dataset) string {
	t.Helper()
	out, err := ExportCSV(ds, "")
	require.NoError(t, err)
	return string(out)
}

func TestExportCSV_MissingNumbersAreEmpty(t *testing.T) {
	out := exportString(t, withMissingScore(t))
	lines := strings.Split(strings.TrimSpace(out), "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "Facility Name,State,County/Parish,ZIP Code,Measure Name,Score,Latitude,Longitude", lines[0])
	assert.Equal(t, "Beta Hospital,TX,Travis,78701,CAUTI,,30.27,-97.74", lines[2])
}

func TestExportCSV_RoundTrip(t *testing.T) {
	rows := testkit.ScenarioRows()
	rows[2][5] = "Not Available"
	rows[3][0] = "Clínica Niño"
	rows[3][2] = "Muñoz"

	for _, v := range []Variant{Infections, Facility} {
		t.Run(v.Name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "hai.csv")
			require.NoError(t, testkit.WriteCSV(src, rows, v.Encoding != ""))

			ds, err := source.Load(src, v.LoadOptions())
			require.NoError(t, err)
			require.Equal(t, "Clínica Niño", ds.Text(ds.Rows[2], facility.ColFacilityName))

			payload, err := ExportCSV(ds, v.Encoding)
			require.NoError(t, err)
			out := filepath.Join(dir, ExportFileName)
			require.NoError(t, os.WriteFile(out, payload, 0o644))

			back, err := source.Load(out, v.LoadOptions())
			require.NoError(t, err)

			assert.Equal(t, ds.Columns, back.Columns)
			assert.Equal(t, ds.Len(), back.Len())
			for i := range ds.Rows {
				assert.Equal(t, ds.Text(ds.Rows[i], facility.ColFacilityName), back.Text(back.Rows[i], facility.ColFacilityName))
				assert.Equal(t, ds.Text(ds.Rows[i], facility.ColCounty), back.Text(back.Rows[i], facility.ColCounty))
			}
			assert.Equal(t, ds.Values(facility.ColScore), back.Values(facility.ColScore))
		})
	}
}

func TestExportCSV_Latin1Bytes(t *testing.T) {
	rows := testkit.ScenarioRows()
	rows[1][0] = "Niño"
	ds, err := testkit.BuildDataset(rows)
	require.NoError(t, err)

	latin1, err := ExportCSV(ds, Infections.Encoding)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(latin1, []byte("Ni\xf1o")))

	utf8, err := ExportCSV(ds, "")
	require.NoError(t, err)
	assert.True(t, bytes.Contains(utf8, []byte("Niño")))

	_, err = ExportCSV(ds, "x-not-a-charset")
	assert.Error(t, err)
}

func TestExportCSV_EmptyDatasetKeepsHeader(t *testing.T) {
	ds := withMissingScore(t).Subset(nil)
	assert.Equal(t, strings.Join(ds.Columns, ",")+"\n", exportString(t, ds))
}

func TestDataURI(t *testing.T) {
	uri := DataURI([]byte("a,b\n1,2\n"))
	require.True(t, strings.HasPrefix(uri, "data:file/csv;base64,"))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:file/csv;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(decoded))
}

func TestExportXLSX(t *testing.T) {
	data, err := ExportXLSX(withMissingScore(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, facility.ColFacilityName, rows[0][0])
	assert.Equal(t, "Alpha Hospital", rows[1][0])
	assert.Equal(t, "5", rows[1][5])
	assert.Equal(t, "", rows[2][5])
}
